package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	t.Run("marks new key", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, "key-1", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)
	})

	t.Run("second mark is rejected", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, "key-2", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)

		isNew, err = store.MarkProcessed(ctx, "key-2", time.Hour)
		require.NoError(t, err)
		assert.False(t, isNew)
	})

	t.Run("expired keys can be marked again", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, "key-3", 10*time.Millisecond)
		require.NoError(t, err)
		assert.True(t, isNew)

		time.Sleep(20 * time.Millisecond)

		isNew, err = store.MarkProcessed(ctx, "key-3", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)
	})

	t.Run("forget allows retry", func(t *testing.T) {
		_, err := store.MarkProcessed(ctx, "key-4", time.Hour)
		require.NoError(t, err)
		require.NoError(t, store.Forget(ctx, "key-4"))

		processed, err := store.IsProcessed(ctx, "key-4")
		require.NoError(t, err)
		assert.False(t, processed)
	})
}

func TestInMemoryIdempotencyStore_Cleanup(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	_, _ = store.MarkProcessed(ctx, "short", time.Millisecond)
	_, _ = store.MarkProcessed(ctx, "long", time.Hour)
	time.Sleep(5 * time.Millisecond)

	store.cleanup()
	assert.Equal(t, 1, store.Size())
}

func TestInMemoryIdempotencyStore_CloseTwice(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
