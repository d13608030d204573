package ports

import (
	"context"

	"github.com/aretw0/voxport/pkg/manifest"
)

// ManifestStore persists export manifests, keyed by world name.
// This is what lets an import run in a different process lifetime replay the
// exact geometry of an earlier export.
type ManifestStore interface {
	// Save persists the manifest for a world, replacing any previous one.
	// A failed Save must leave no partially written manifest behind.
	// Failures wrap domain.ErrResourceIO.
	Save(ctx context.Context, world string, m *manifest.Manifest) error

	// Load retrieves the manifest for a world.
	// Missing or malformed manifests wrap domain.ErrCorruptManifest; a missing
	// one additionally wraps domain.ErrManifestNotFound.
	Load(ctx context.Context, world string) (*manifest.Manifest, error)

	// Delete removes the manifest for a world. Deleting a missing manifest is not an error.
	Delete(ctx context.Context, world string) error

	// List returns the worlds that have a manifest.
	List(ctx context.Context) ([]string, error)
}
