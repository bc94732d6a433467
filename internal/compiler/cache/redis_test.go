package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisStoreWithClient(client, DefaultStoreConfig()), mr
}

func TestNewRedisStoreWithConfig(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	store, err := NewRedisStoreWithConfig(RedisConfig{Addr: mr.Addr(), StoreConfig: DefaultStoreConfig()})
	require.NoError(t, err)
	defer store.Close()
}

func TestNewRedisStoreWithConfig_ConnectionError(t *testing.T) {
	_, err := NewRedisStoreWithConfig(RedisConfig{Addr: "localhost:99999", StoreConfig: DefaultStoreConfig()})
	assert.Error(t, err)
}

func TestRedisStore_SetAndGet(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	entry := &Entry{
		Scene:       "Level",
		Code:        "gdjs.LevelCode = {};",
		Includes:    []string{"runtimeobject.js"},
		Fingerprint: "f1",
		CachedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, store.Set(ctx, "key", entry, 0))
	assert.True(t, mr.Exists("eventc:key"))

	got, err := store.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, entry.Code, got.Code)
	assert.Equal(t, entry.Includes, got.Includes)
	assert.True(t, entry.CachedAt.Equal(got.CachedAt))
}

func TestRedisStore_Miss(t *testing.T) {
	store, _ := setupTestRedis(t)

	_, err := store.Get(context.Background(), "missing")
	assert.True(t, IsCacheMiss(err))
}

func TestRedisStore_TTL(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "key", &Entry{Scene: "Level"}, time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "key")
	assert.True(t, IsCacheMiss(err))
}

func TestRedisStore_CorruptedEntry(t *testing.T) {
	store, mr := setupTestRedis(t)
	require.NoError(t, mr.Set("eventc:key", "not json"))

	_, err := store.Get(context.Background(), "key")
	require.Error(t, err)
	assert.False(t, IsCacheMiss(err))
}

func TestRedisStore_ClearKeepsOtherKeys(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", &Entry{Scene: "A"}, 0))
	require.NoError(t, store.Set(ctx, "b", &Entry{Scene: "B"}, 0))
	require.NoError(t, mr.Set("other:key", "value"))

	require.NoError(t, store.Delete(ctx, "a"))
	assert.False(t, mr.Exists("eventc:a"))

	require.NoError(t, store.Clear(ctx))
	assert.False(t, mr.Exists("eventc:b"))
	assert.True(t, mr.Exists("other:key"))
}
