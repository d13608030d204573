package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/voxport/pkg/adapters/memory"
	"github.com/aretw0/voxport/pkg/domain"
	contract "github.com/aretw0/voxport/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Contract(t *testing.T) {
	contract.ManifestStoreContractTest(t, memory.NewStore())
}

func TestSchematics_Contract(t *testing.T) {
	contract.SchematicStoreContractTest(t, memory.NewSchematics())
}

func TestStore_LoadReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	m := contract.SampleManifest(t, "copy")
	require.NoError(t, store.Save(ctx, "copy", m))

	loaded, err := store.Load(ctx, "copy")
	require.NoError(t, err)
	loaded.Cells[0].From = "9 9 9"

	again, err := store.Load(ctx, "copy")
	require.NoError(t, err)
	assert.Equal(t, m.Cells[0], again.Cells[0])
}

func TestStore_RejectsBadWorldName(t *testing.T) {
	err := memory.NewStore().Save(context.Background(), "../etc", contract.SampleManifest(t, "x"))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestWorld_GetSet(t *testing.T) {
	ctx := context.Background()
	w := memory.NewWorld()

	require.NoError(t, w.Set(ctx, []domain.PlacedBlock{
		{Pos: domain.Vec3{X: 1, Y: 1, Z: 1}, State: "stone"},
		{Pos: domain.Vec3{X: 0, Y: 5, Z: 0}, State: "dirt"},
		{Pos: domain.Vec3{X: 9, Y: 9, Z: 9}, State: "glass"},
	}))
	assert.Equal(t, 3, w.Len())

	got, err := w.Get(ctx, domain.Vec3{X: 5, Y: 5, Z: 5}, domain.Vec3{})
	require.NoError(t, err)
	assert.Equal(t, []domain.PlacedBlock{
		{Pos: domain.Vec3{X: 0, Y: 5, Z: 0}, State: "dirt"},
		{Pos: domain.Vec3{X: 1, Y: 1, Z: 1}, State: "stone"},
	}, got)

	require.NoError(t, w.Set(ctx, []domain.PlacedBlock{{Pos: domain.Vec3{X: 1, Y: 1, Z: 1}}}))
	assert.Equal(t, 2, w.Len())
}

func TestLocker(t *testing.T) {
	ctx := context.Background()
	l := memory.NewLocker()

	lease, err := l.Lock(ctx, "world", time.Minute)
	require.NoError(t, err)

	_, err = l.Lock(ctx, "world", time.Minute)
	assert.ErrorIs(t, err, domain.ErrWorldLocked)

	other, err := l.Lock(ctx, "other", 0)
	require.NoError(t, err)
	defer other.Unlock(ctx)

	require.NoError(t, lease.Unlock(ctx))
	require.NoError(t, lease.Unlock(ctx), "unlocking twice is a no-op")

	relock, err := l.Lock(ctx, "world", time.Minute)
	require.NoError(t, err)
	assert.NoError(t, relock.Unlock(ctx))
}

func TestLocker_ExpiredLeaseCanBeTaken(t *testing.T) {
	ctx := context.Background()
	l := memory.NewLocker()

	stale, err := l.Lock(ctx, "world", time.Nanosecond)
	require.NoError(t, err)
	time.Sleep(time.Millisecond)

	fresh, err := l.Lock(ctx, "world", time.Minute)
	require.NoError(t, err)

	require.NoError(t, stale.Unlock(ctx))
	_, err = l.Lock(ctx, "world", time.Minute)
	assert.ErrorIs(t, err, domain.ErrWorldLocked, "a stale unlock must not release the new holder")

	assert.ErrorIs(t, stale.Refresh(ctx, time.Minute), domain.ErrWorldLocked, "a taken-over lease cannot be refreshed")
	require.NoError(t, fresh.Unlock(ctx))
}

func TestLocker_RefreshKeepsLeasePastTTL(t *testing.T) {
	ctx := context.Background()
	l := memory.NewLocker()

	lease, err := l.Lock(ctx, "world", 20*time.Millisecond)
	require.NoError(t, err)
	for range 4 {
		time.Sleep(10 * time.Millisecond)
		require.NoError(t, lease.Refresh(ctx, 20*time.Millisecond))
	}

	_, err = l.Lock(ctx, "world", time.Minute)
	assert.ErrorIs(t, err, domain.ErrWorldLocked, "a refreshed lease outlives its original ttl")
	require.NoError(t, lease.Unlock(ctx))
}
