package file

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/voxport/pkg/domain"
	"github.com/aretw0/voxport/pkg/manifest"
)

// Ext is the extension of manifest files.
const Ext = ".properties"

// DefaultDir is where manifests live when no directory is configured.
const DefaultDir = "schematics"

// Store implements ports.ManifestStore using the local filesystem.
// Each world's manifest is a key=value text file named <world>.properties.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to DefaultDir.
func New(basePath string) *Store {
	if basePath == "" {
		basePath = DefaultDir
	}
	return &Store{BasePath: basePath}
}

// Path returns the file a world's manifest is stored in.
func (s *Store) Path(world string) string {
	return filepath.Join(s.BasePath, world+Ext)
}

// Save persists the manifest atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func (s *Store) Save(ctx context.Context, world string, m *manifest.Manifest) error {
	if err := manifest.ValidateWorldName(world); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := manifest.Encode(&buf, m); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrResourceIO, err)
	}

	if err := os.MkdirAll(s.BasePath, 0o755); err != nil {
		return fmt.Errorf("%w: failed to ensure manifest directory: %w", domain.ErrResourceIO, err)
	}

	// Same directory as the destination so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+world+"-*"+Ext)
	if err != nil {
		return fmt.Errorf("%w: failed to create temp file: %w", domain.ErrResourceIO, err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("%w: failed to write temp file: %w", domain.ErrResourceIO, err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("%w: failed to fsync temp file: %w", domain.ErrResourceIO, err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("%w: failed to close temp file: %w", domain.ErrResourceIO, err)
	}

	destPath := s.Path(world)
	// os.Rename does not replace an existing file on Windows.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("%w: failed to remove existing manifest for overwrite: %w", domain.ErrResourceIO, err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("%w: failed to rename temp file to manifest: %w", domain.ErrResourceIO, err)
	}
	return nil
}

// Load reads and decodes the manifest of world.
func (s *Store) Load(ctx context.Context, world string) (*manifest.Manifest, error) {
	if err := manifest.ValidateWorldName(world); err != nil {
		return nil, err
	}

	f, err := os.Open(s.Path(world))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %w: %s", domain.ErrCorruptManifest, domain.ErrManifestNotFound, s.Path(world))
		}
		return nil, fmt.Errorf("%w: failed to open manifest: %w", domain.ErrCorruptManifest, err)
	}
	defer f.Close()

	m, err := manifest.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path(world), err)
	}
	return m, nil
}

// Delete removes the manifest file.
func (s *Store) Delete(ctx context.Context, world string) error {
	if err := manifest.ValidateWorldName(world); err != nil {
		return err
	}
	err := os.Remove(s.Path(world))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: failed to delete manifest: %w", domain.ErrResourceIO, err)
	}
	return nil
}

// List returns the worlds with a manifest file, in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list manifests: %w", err)
	}

	worlds := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != Ext || strings.HasPrefix(name, "tmp-") {
			continue
		}
		worlds = append(worlds, strings.TrimSuffix(name, Ext))
	}
	sort.Strings(worlds)
	return worlds, nil
}
