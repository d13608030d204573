package file_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/voxport/internal/adapters/file"
	"github.com/aretw0/voxport/pkg/domain"
	"github.com/aretw0/voxport/pkg/ports"
	contract "github.com/aretw0/voxport/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.ManifestStore = (*file.Store)(nil)

func TestFileStore_Contract(t *testing.T) {
	contract.ManifestStoreContractTest(t, file.New(t.TempDir()))
}

func TestFileStore_WritesPropertiesFile(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "exportworldmod", contract.SampleManifest(t, "exportworldmod")))

	data, err := os.ReadFile(filepath.Join(dir, "exportworldmod.properties"))
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "worldname=exportworldmod\n")
	assert.Contains(t, text, "num_x=3\n")
	assert.Contains(t, text, "exported_coordinates=-8 0 3~8 10 -8,")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files may be left behind")
}

func TestFileStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.properties"), []byte("worldname=broken\nnum_x=2\n"), 0o644))

	_, err := store.Load(context.Background(), "broken")
	require.ErrorIs(t, err, domain.ErrCorruptManifest)
	assert.NotErrorIs(t, err, domain.ErrManifestNotFound)
	assert.True(t, strings.Contains(err.Error(), "broken.properties"))
}

func TestFileStore_WriteFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	store := file.New(blocker)
	err := store.Save(context.Background(), "w", contract.SampleManifest(t, "w"))
	assert.ErrorIs(t, err, domain.ErrResourceIO)
}

func TestFileStore_ListMissingDir(t *testing.T) {
	worlds, err := file.New(filepath.Join(t.TempDir(), "nope")).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, worlds)
}

func TestFileStore_DefaultDir(t *testing.T) {
	assert.Equal(t, filepath.Join("schematics", "w.properties"), file.New("").Path("w"))
}
