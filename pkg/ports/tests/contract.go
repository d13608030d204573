package tests

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/voxport/pkg/domain"
	"github.com/aretw0/voxport/pkg/manifest"
	"github.com/aretw0/voxport/pkg/partition"
	"github.com/aretw0/voxport/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SampleManifest builds a small valid manifest for world.
func SampleManifest(t *testing.T, world string) *manifest.Manifest {
	t.Helper()
	box := domain.NewBoundingBox(domain.Vec3{X: -8, Y: 0, Z: 3}, domain.Vec3{X: 40, Y: 20, Z: -30})
	grid, err := partition.Partition(box, 16)
	require.NoError(t, err)
	return manifest.New(world, grid, partition.Cells(box, grid))
}

// ManifestStoreContractTest verifies that an adapter complies with ports.ManifestStore.
func ManifestStoreContractTest(t *testing.T, store ports.ManifestStore) {
	t.Helper()
	ctx := context.Background()
	world := "contract-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		m := SampleManifest(t, world)
		require.NoError(t, store.Save(ctx, world, m), "Save should not return error")

		loaded, err := store.Load(ctx, world)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, m, loaded)
	})

	t.Run("Save Replaces", func(t *testing.T) {
		m := SampleManifest(t, world)
		m.Cells = m.Cells[:1]
		m.NumX, m.NumY, m.NumZ = 1, 1, 1
		require.NoError(t, store.Save(ctx, world, m))

		loaded, err := store.Load(ctx, world)
		require.NoError(t, err)
		assert.Len(t, loaded.Cells, 1)
	})

	t.Run("Save Rejects Invalid", func(t *testing.T) {
		bad := SampleManifest(t, world+"-bad")
		bad.Cells = bad.Cells[1:]
		assert.Error(t, store.Save(ctx, world+"-bad", bad))

		_, err := store.Load(ctx, world+"-bad")
		assert.ErrorIs(t, err, domain.ErrCorruptManifest, "a rejected manifest must not be loadable")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "missing-"+world)
		assert.ErrorIs(t, err, domain.ErrCorruptManifest)
		assert.ErrorIs(t, err, domain.ErrManifestNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, world, SampleManifest(t, world)))
		require.NoError(t, store.Delete(ctx, world), "Delete should not return error")

		_, err := store.Load(ctx, world)
		assert.ErrorIs(t, err, domain.ErrManifestNotFound, "Load after Delete should report not found")

		assert.NoError(t, store.Delete(ctx, world), "Deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		w1, w2 := world+"-1", world+"-2"
		require.NoError(t, store.Save(ctx, w1, SampleManifest(t, w1)))
		require.NoError(t, store.Save(ctx, w2, SampleManifest(t, w2)))
		defer func() {
			_ = store.Delete(ctx, w1)
			_ = store.Delete(ctx, w2)
		}()

		worlds, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, worlds, w1)
		assert.Contains(t, worlds, w2)
	})
}

// SchematicStoreContractTest verifies that an adapter complies with ports.SchematicStore.
func SchematicStoreContractTest(t *testing.T, store ports.SchematicStore) {
	t.Helper()
	ctx := context.Background()
	name := fmt.Sprintf("contract_%d", time.Now().UnixNano())

	clip := &domain.Clipboard{
		Origin: domain.Vec3{X: 10, Y: 64, Z: -3},
		Min:    domain.Vec3{X: 10, Y: 64, Z: -5},
		Max:    domain.Vec3{X: 12, Y: 66, Z: -3},
		Blocks: []domain.Block{
			{Offset: domain.Vec3{}, State: "minecraft:stone"},
			{Offset: domain.Vec3{X: 2, Y: 1, Z: -2}, State: "minecraft:oak_log[axis=y]"},
		},
	}

	t.Run("Save and Load", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, clip))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, clip, loaded)
	})

	t.Run("Load Returns Independent Copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		loaded.Clear()

		again, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Len(t, again.Blocks, 2)
	})

	t.Run("Load Missing", func(t *testing.T) {
		_, err := store.Load(ctx, name+"_missing")
		assert.ErrorIs(t, err, domain.ErrCollaboratorFailure)
	})

	t.Run("Save Nil Clipboard", func(t *testing.T) {
		assert.ErrorIs(t, store.Save(ctx, name+"_nil", nil), domain.ErrCollaboratorFailure)
	})
}
