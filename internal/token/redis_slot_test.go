package token

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/rcup/internal/token/tokentest"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return mr, client
}

func TestRedisSlot_LoadStoreDelete(t *testing.T) {
	mr, client := newTestRedis(t)
	ctx := context.Background()
	slot := NewRedisSlot(client, WithKeyPrefix("rcup"))

	assert.Equal(t, "rcup:"+DefaultKey, slot.Key())

	_, ok, err := slot.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, slot.Store(ctx, "a.b.c"))
	got, err := mr.Get("rcup:" + DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, "a.b.c", got)

	value, ok, err := slot.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a.b.c", value)

	require.NoError(t, slot.Delete(ctx))
	require.NoError(t, slot.Delete(ctx))
	assert.False(t, mr.Exists("rcup:"+DefaultKey))
}

func TestRedisSlot_TTL(t *testing.T) {
	mr, client := newTestRedis(t)
	ctx := context.Background()
	slot := NewRedisSlot(client, WithTTL(time.Minute))

	require.NoError(t, slot.Store(ctx, "a.b.c"))
	assert.Equal(t, time.Minute, mr.TTL(DefaultKey))

	mr.FastForward(2 * time.Minute)
	_, ok, err := slot.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisSlot_StorePurgesMalformed(t *testing.T) {
	mr, client := newTestRedis(t)
	ctx := context.Background()
	store := NewStore(NewRedisSlot(client), nil, nil)

	require.NoError(t, mr.Set(DefaultKey, "only.two"))

	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.False(t, mr.Exists(DefaultKey))

	credential := tokentest.Valid(t)
	require.NoError(t, store.Save(ctx, credential))
	got, err = store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, credential, got)
}

func TestRedisSlot_UnavailableIsStorageError(t *testing.T) {
	mr, client := newTestRedis(t)
	mr.Close()

	_, err := NewStore(NewRedisSlot(client), nil, nil).Get(context.Background())
	require.Error(t, err)
}
