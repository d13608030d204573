package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/voxport/internal/adapters/file"
	redisstore "github.com/aretw0/voxport/internal/adapters/redis"
	"github.com/aretw0/voxport/internal/adapters/schematic"
	"github.com/aretw0/voxport/internal/adapters/sqlite"
	"github.com/aretw0/voxport/internal/config"
	"github.com/aretw0/voxport/internal/metrics"
	"github.com/aretw0/voxport/pkg/adapters/memory"
	redislock "github.com/aretw0/voxport/pkg/adapters/redis"
	"github.com/aretw0/voxport/pkg/domain"
	"github.com/aretw0/voxport/pkg/ports"
	"github.com/aretw0/voxport/pkg/session"
	backend "github.com/redis/go-redis/v9"
)

// Runtime bundles the collaborators a command needs, built from config.
type Runtime struct {
	Config     config.Config
	Logger     *slog.Logger
	World      ports.BlockStore
	Manifests  ports.ManifestStore
	Schematics ports.SchematicStore
	Locker     ports.DistributedLocker
	Metrics    *metrics.Metrics
	// Flags are the persistent flags the runtime was bootstrapped with.
	Flags GlobalOptions

	closers []func() error
}

// NewRuntime wires the backends selected in cfg. The caller must Close it.
func NewRuntime(ctx context.Context, cfg config.Config, logger *slog.Logger) (_ *Runtime, err error) {
	rt := &Runtime{Config: cfg, Logger: logger}
	defer func() {
		if err != nil {
			_ = rt.Close()
		}
	}()

	switch cfg.World.Backend {
	case "sqlite":
		w, err := sqlite.Open(ctx, cfg.World.Path)
		if err != nil {
			return nil, fmt.Errorf("open world: %w", err)
		}
		rt.World = w
		rt.closers = append(rt.closers, w.Close)
	default:
		logger.Debug("using in-memory world; nothing will persist between runs")
		rt.World = memory.NewWorld()
	}

	var rdb backend.UniversalClient
	redisClient := func() backend.UniversalClient {
		if rdb == nil {
			rc := cfg.Manifest.Redis
			rdb = backend.NewClient(&backend.Options{Addr: rc.Addr, Password: rc.Password, DB: rc.DB})
			rt.closers = append(rt.closers, rdb.Close)
		}
		return rdb
	}

	switch cfg.Manifest.Backend {
	case "redis":
		opts := []redisstore.Option{redisstore.WithTTL(cfg.Manifest.Redis.TTL)}
		if cfg.Manifest.Redis.Prefix != "" {
			opts = append(opts, redisstore.WithPrefix(cfg.Manifest.Redis.Prefix))
		}
		rt.Manifests = redisstore.NewFromClient(redisClient(), opts...)
	case "memory":
		rt.Manifests = memory.NewStore()
	default:
		rt.Manifests = file.New(cfg.Manifest.Dir)
	}

	switch cfg.Schematics.Backend {
	case "s3":
		s3c := cfg.Schematics.S3
		store, err := schematic.NewS3Store(ctx, schematic.S3Config{
			Bucket:          s3c.Bucket,
			Prefix:          s3c.Prefix,
			Region:          s3c.Region,
			Endpoint:        s3c.Endpoint,
			PathStyle:       s3c.PathStyle,
			AccessKeyID:     s3c.AccessKeyID,
			SecretAccessKey: s3c.SecretAccessKey,
		})
		if err != nil {
			return nil, fmt.Errorf("schematic store: %w", err)
		}
		rt.Schematics = store
	case "memory":
		rt.Schematics = memory.NewSchematics()
	default:
		rt.Schematics = schematic.NewFileStore(cfg.Schematics.Dir)
	}

	switch cfg.Lock.Backend {
	case "redis":
		rt.Locker = redislock.NewLocker(redisClient(), cfg.Lock.Prefix)
	default:
		rt.Locker = memory.NewLocker()
	}

	rt.Metrics = metrics.New()
	return rt, nil
}

// Session opens a fresh editing session on the world.
func (rt *Runtime) Session() *session.Session {
	return session.New(rt.World,
		session.WithBatchSize(rt.Config.Session.BatchSize),
		session.WithChangeLimit(rt.Config.Session.ChangeLimit),
		session.WithLogger(rt.Logger),
	)
}

// Close releases every backend connection, most recent first.
func (rt *Runtime) Close() error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		errs = append(errs, rt.closers[i]())
	}
	rt.closers = nil
	return errors.Join(errs...)
}

// GlobalOptions are the persistent flags shared by every command.
type GlobalOptions struct {
	ConfigPath  string
	World       string
	MetricsAddr string
	Debug       bool
}

// Bootstrap loads the configuration, applies flag overrides and builds the
// runtime.
func Bootstrap(ctx context.Context, opts GlobalOptions) (*Runtime, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.World != "" {
		cfg.World.Name = opts.World
	}
	if opts.MetricsAddr != "" {
		cfg.Metrics.Addr = opts.MetricsAddr
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := createLogger(cfg.Log.Level, opts.Debug)
	if err != nil {
		return nil, fmt.Errorf("%w: log.level: %w", domain.ErrInvalidArgument, err)
	}
	rt, err := NewRuntime(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	rt.Flags = opts
	return rt, nil
}

// Args renders the non-empty options back into command-line flags.
func (o GlobalOptions) Args() []string {
	var args []string
	add := func(name, value string) {
		if value != "" {
			args = append(args, "--"+name, shellQuote(value))
		}
	}
	add("config", o.ConfigPath)
	add("world", o.World)
	add("metrics-addr", o.MetricsAddr)
	if o.Debug {
		args = append(args, "--debug")
	}
	return args
}
