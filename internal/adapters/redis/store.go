package redis

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/voxport/pkg/domain"
	"github.com/aretw0/voxport/pkg/manifest"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key the store writes.
const DefaultPrefix = "voxport:manifest:"

// noExpiry is the index score of manifests without a TTL (2100-01-01).
const noExpiry = 4102444800

// Store implements ports.ManifestStore using Redis.
// Manifests are stored in their text form; an index ZSET scored by expiry
// lists the worlds.
type Store struct {
	client backend.UniversalClient
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for manifests.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for manifests.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// NewFromClient creates a Redis store on client. The caller owns the client
// and closes it.
func NewFromClient(client backend.UniversalClient, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(world string) string {
	return s.prefix + world
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save writes the manifest and indexes its world in one transaction.
func (s *Store) Save(ctx context.Context, world string, m *manifest.Manifest) error {
	if err := manifest.ValidateWorldName(world); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := manifest.Encode(&buf, m); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrResourceIO, err)
	}

	score := float64(noExpiry)
	if s.ttl > 0 {
		score = float64(time.Now().Add(s.ttl).Unix())
	}

	_, err := s.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		pipe.Set(ctx, s.key(world), buf.String(), s.ttl)
		pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: score, Member: world})
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: failed to save manifest to redis: %w", domain.ErrResourceIO, err)
	}
	return nil
}

// Load retrieves and decodes the manifest of world.
func (s *Store) Load(ctx context.Context, world string) (*manifest.Manifest, error) {
	val, err := s.client.Get(ctx, s.key(world)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, fmt.Errorf("%w: %w: %s", domain.ErrCorruptManifest, domain.ErrManifestNotFound, world)
		}
		return nil, fmt.Errorf("%w: failed to get manifest from redis: %w", domain.ErrCorruptManifest, err)
	}
	return manifest.Decode(strings.NewReader(val))
}

// Delete removes the manifest and its index entry.
func (s *Store) Delete(ctx context.Context, world string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(world))
	pipe.ZRem(ctx, s.indexKey(), world)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: failed to delete manifest: %w", domain.ErrResourceIO, err)
	}
	return nil
}

// List returns the worlds with a live manifest, pruning expired index entries.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired manifests: %w", err)
	}

	worlds, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list manifests: %w", err)
	}
	return worlds, nil
}
