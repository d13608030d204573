package memory

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/voxport/pkg/domain"
	"github.com/aretw0/voxport/pkg/manifest"
)

// Store implements ports.ManifestStore in memory.
// Manifests are kept in their encoded form so every Load returns a fresh copy.
// Safe for concurrent use.
type Store struct {
	data map[string][]byte
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string][]byte),
	}
}

// Save encodes and keeps the manifest.
func (s *Store) Save(ctx context.Context, world string, m *manifest.Manifest) error {
	if err := manifest.ValidateWorldName(world); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := manifest.Encode(&buf, m); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrResourceIO, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[world] = buf.Bytes()
	return nil
}

// Load decodes the manifest kept for world.
func (s *Store) Load(ctx context.Context, world string) (*manifest.Manifest, error) {
	s.mu.RLock()
	raw, ok := s.data[world]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %w: %s", domain.ErrCorruptManifest, domain.ErrManifestNotFound, world)
	}
	return manifest.Decode(bytes.NewReader(raw))
}

// Delete removes the manifest.
func (s *Store) Delete(ctx context.Context, world string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, world)
	return nil
}

// List returns the stored worlds in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	worlds := make([]string, 0, len(s.data))
	for w := range s.data {
		worlds = append(worlds, w)
	}
	sort.Strings(worlds)
	return worlds, nil
}
