package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	entry := &Entry{Scene: "Level", Code: "code", Fingerprint: "f1"}
	require.NoError(t, store.Set(ctx, "key", entry, 0))

	got, err := store.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, entry, got)
	assert.Equal(t, 1, store.Size())
}

func TestMemoryStore_Miss(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsCacheMiss(err))
}

func TestMemoryStore_Expiration(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "key", &Entry{Scene: "Level"}, 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	_, err := store.Get(ctx, "key")
	assert.True(t, IsCacheMiss(err))
	assert.Equal(t, 0, store.Size())
}

func TestMemoryStore_NoDefaultTTL(t *testing.T) {
	store := NewMemoryStoreWithConfig(StoreConfig{Prefix: "test:"})
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "key", &Entry{Scene: "Level"}, 0))
	assert.Equal(t, 0, store.Prune(time.Hour))

	_, err := store.Get(ctx, "key")
	assert.NoError(t, err)
}

func TestMemoryStore_DeleteAndClear(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", &Entry{Scene: "A"}, 0))
	require.NoError(t, store.Set(ctx, "b", &Entry{Scene: "B"}, 0))

	require.NoError(t, store.Delete(ctx, "a"))
	_, err := store.Get(ctx, "a")
	assert.True(t, IsCacheMiss(err))
	assert.Equal(t, 1, store.Size())

	require.NoError(t, store.Clear(ctx))
	assert.Equal(t, 0, store.Size())
}

func TestMemoryStore_Prune(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "old", &Entry{Scene: "Old"}, 0))
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, store.Set(ctx, "new", &Entry{Scene: "New"}, 0))

	assert.Equal(t, 1, store.Prune(10*time.Millisecond))
	_, err := store.Get(ctx, "new")
	assert.NoError(t, err)
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	store := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, store.Set(ctx, "key", &Entry{}, 0))
	_, err := store.Get(ctx, "key")
	assert.ErrorIs(t, err, context.Canceled)
}
