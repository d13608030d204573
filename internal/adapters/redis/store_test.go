package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/voxport/internal/adapters/redis"
	"github.com/aretw0/voxport/pkg/domain"
	"github.com/aretw0/voxport/pkg/ports"
	contract "github.com/aretw0/voxport/pkg/ports/tests"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.ManifestStore = (*redis.Store)(nil)

func newStore(t *testing.T, opts ...redis.Option) (*redis.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	store := redis.NewFromClient(client, opts...)
	t.Cleanup(func() { _ = client.Close() })
	return store, mr
}

func TestRedisStore_Contract(t *testing.T) {
	store, _ := newStore(t)
	contract.ManifestStoreContractTest(t, store)
}

func TestRedisStore_KeyLayout(t *testing.T) {
	store, mr := newStore(t, redis.WithPrefix("test:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "w1", contract.SampleManifest(t, "w1")))

	raw, err := mr.Get("test:w1")
	require.NoError(t, err)
	assert.Contains(t, raw, "worldname=w1\n")

	members, err := mr.ZMembers("test:index")
	require.NoError(t, err)
	assert.Equal(t, []string{"w1"}, members)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	store, mr := newStore(t, redis.WithTTL(time.Second))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "short", contract.SampleManifest(t, "short")))
	assert.Equal(t, time.Second, mr.TTL(redis.DefaultPrefix+"short"))

	mr.FastForward(2 * time.Second)

	_, err := store.Load(ctx, "short")
	assert.ErrorIs(t, err, domain.ErrManifestNotFound)
}

func TestRedisStore_CorruptValue(t *testing.T) {
	store, mr := newStore(t)
	require.NoError(t, mr.Set(redis.DefaultPrefix+"bad", "worldname=bad\n"))

	_, err := store.Load(context.Background(), "bad")
	assert.ErrorIs(t, err, domain.ErrCorruptManifest)
	assert.NotErrorIs(t, err, domain.ErrManifestNotFound)
}
