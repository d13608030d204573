// Package config loads voxport.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/aretw0/voxport/pkg/domain"
	"github.com/aretw0/voxport/pkg/manifest"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no config path is given. Its absence is not an error.
const DefaultFile = "voxport.yaml"

// Config is the full runtime configuration.
type Config struct {
	World      WorldConfig      `mapstructure:"world"`
	Manifest   ManifestConfig   `mapstructure:"manifest"`
	Schematics SchematicsConfig `mapstructure:"schematics"`
	Lock       LockConfig       `mapstructure:"lock"`
	Session    SessionConfig    `mapstructure:"session"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Log        LogConfig        `mapstructure:"log"`
}

type WorldConfig struct {
	Name string `mapstructure:"name"`
	// Backend is "memory" or "sqlite".
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type ManifestConfig struct {
	// Backend is "file", "redis" or "memory".
	Backend string      `mapstructure:"backend"`
	Dir     string      `mapstructure:"dir"`
	Redis   RedisConfig `mapstructure:"redis"`
}

type S3Config struct {
	Bucket          string `mapstructure:"bucket"`
	Prefix          string `mapstructure:"prefix"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	PathStyle       bool   `mapstructure:"path_style"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

type SchematicsConfig struct {
	// Backend is "file", "s3" or "memory".
	Backend string   `mapstructure:"backend"`
	Dir     string   `mapstructure:"dir"`
	S3      S3Config `mapstructure:"s3"`
}

type LockConfig struct {
	// Backend is "memory" or "redis". The redis locker shares the manifest
	// redis connection.
	Backend string        `mapstructure:"backend"`
	Prefix  string        `mapstructure:"prefix"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type SessionConfig struct {
	BatchSize   int `mapstructure:"batch_size"`
	ChangeLimit int `mapstructure:"change_limit"`
}

type MetricsConfig struct {
	// Addr enables the metrics endpoint when set, e.g. ":9464".
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		World:      WorldConfig{Name: domain.DefaultWorldName, Backend: "memory"},
		Manifest:   ManifestConfig{Backend: "file", Dir: "schematics", Redis: RedisConfig{Addr: "localhost:6379", Prefix: "voxport:manifest:"}},
		Schematics: SchematicsConfig{Backend: "file", Dir: "schematics"},
		Lock:       LockConfig{Backend: "memory", Prefix: "voxport:", TTL: time.Hour},
		Session:    SessionConfig{BatchSize: 4096, ChangeLimit: -1},
		Log:        LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults. An empty path reads DefaultFile if it
// exists.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := Decode(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Decode merges YAML data into cfg. Scalars are weakly typed, so "16" and 16
// both decode into an int, and durations accept "30s" style strings.
func Decode(data []byte, cfg *Config) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	if raw == nil {
		return nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

// Validate checks backend names and numeric bounds.
func (c Config) Validate() error {
	var errs []error
	check := func(section, got string, allowed ...string) {
		if !slices.Contains(allowed, got) {
			errs = append(errs, fmt.Errorf("%s.backend: %q is not one of %v", section, got, allowed))
		}
	}
	check("world", c.World.Backend, "memory", "sqlite")
	check("manifest", c.Manifest.Backend, "file", "redis", "memory")
	check("schematics", c.Schematics.Backend, "file", "s3", "memory")
	check("lock", c.Lock.Backend, "memory", "redis")

	if err := manifest.ValidateWorldName(c.World.Name); err != nil {
		errs = append(errs, fmt.Errorf("world.name: %w", err))
	}
	if c.World.Backend == "sqlite" && c.World.Path == "" {
		errs = append(errs, errors.New("world.path is required for the sqlite backend"))
	}
	if c.Schematics.Backend == "s3" && c.Schematics.S3.Bucket == "" {
		errs = append(errs, errors.New("schematics.s3.bucket is required for the s3 backend"))
	}
	if c.Session.BatchSize < 1 {
		errs = append(errs, fmt.Errorf("session.batch_size must be positive, got %d", c.Session.BatchSize))
	}
	if c.Session.ChangeLimit < -1 {
		errs = append(errs, fmt.Errorf("session.change_limit must be -1 or more, got %d", c.Session.ChangeLimit))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrInvalidArgument, errors.Join(errs...))
	}
	return nil
}
