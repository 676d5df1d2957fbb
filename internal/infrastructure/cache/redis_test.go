package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisIdempotencyStore(t *testing.T) {
	mr, client := newMiniredis(t)
	store := NewRedisIdempotencyStore(client, "test:")
	ctx := context.Background()

	isNew, err := store.MarkProcessed(ctx, "pay-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.True(t, mr.Exists("test:pay-1"))

	isNew, err = store.MarkProcessed(ctx, "pay-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, isNew)

	mr.FastForward(2 * time.Minute)
	processed, err := store.IsProcessed(ctx, "pay-1")
	require.NoError(t, err)
	assert.False(t, processed)

	_, err = store.MarkProcessed(ctx, "pay-2", time.Minute)
	require.NoError(t, err)
	require.NoError(t, store.Forget(ctx, "pay-2"))
	assert.False(t, mr.Exists("test:pay-2"))
}

func TestRedisLocker(t *testing.T) {
	_, client := newMiniredis(t)
	locker := NewRedisLocker(client)
	ctx := context.Background()

	lock, err := locker.Obtain(ctx, "ap:1", time.Second)
	require.NoError(t, err)

	short, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	_, err = locker.Obtain(short, "ap:1", time.Second)
	assert.ErrorIs(t, err, shared.ErrLockNotObtained)

	require.NoError(t, lock.Release(ctx))

	again, err := locker.Obtain(ctx, "ap:1", time.Second)
	require.NoError(t, err)
	require.NoError(t, again.Release(ctx))
}

func TestInMemoryLocker(t *testing.T) {
	locker := NewInMemoryLocker()
	ctx := context.Background()

	lock, err := locker.Obtain(ctx, "ar:1", time.Minute)
	require.NoError(t, err)

	short, cancel := context.WithTimeout(ctx, 30*time.Millisecond)
	defer cancel()
	_, err = locker.Obtain(short, "ar:1", time.Minute)
	assert.ErrorIs(t, err, shared.ErrLockNotObtained)

	require.NoError(t, lock.Release(ctx))
	other, err := locker.Obtain(ctx, "ar:1", time.Minute)
	require.NoError(t, err)
	require.NoError(t, other.Release(ctx))
}

func TestInMemoryLocker_ExpiredHolderKeepsOffNewOwner(t *testing.T) {
	locker := NewInMemoryLocker()
	ctx := context.Background()

	stale, err := locker.Obtain(ctx, "ap:7", 20*time.Millisecond)
	require.NoError(t, err)
	time.Sleep(40 * time.Millisecond)

	current, err := locker.Obtain(ctx, "ap:7", time.Minute)
	require.NoError(t, err)

	require.NoError(t, stale.Release(ctx))

	short, cancel := context.WithTimeout(ctx, 30*time.Millisecond)
	defer cancel()
	_, err = locker.Obtain(short, "ap:7", time.Minute)
	assert.ErrorIs(t, err, shared.ErrLockNotObtained)

	require.NoError(t, current.Release(ctx))
	next, err := locker.Obtain(ctx, "ap:7", time.Minute)
	require.NoError(t, err)
	require.NoError(t, next.Release(ctx))
}

func TestNewCoordination(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled redis uses memory", func(t *testing.T) {
		c, err := NewCoordination(ctx, config.RedisConfig{})
		require.NoError(t, err)
		defer c.Close()
		assert.IsType(t, &InMemoryIdempotencyStore{}, c.Idempotency)
		assert.IsType(t, &InMemoryLocker{}, c.Locker)
	})

	t.Run("reachable redis is used", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := config.RedisConfig{Enabled: true, Host: mr.Host(), Port: portOf(t, mr)}
		c, err := NewCoordination(ctx, cfg)
		require.NoError(t, err)
		defer c.Close()
		assert.IsType(t, &RedisIdempotencyStore{}, c.Idempotency)
	})

	t.Run("unreachable redis without fallback fails", func(t *testing.T) {
		cfg := config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}
		_, err := NewCoordination(ctx, cfg, WithInMemoryFallback(false))
		assert.Error(t, err)
	})
}

func portOf(t *testing.T, mr *miniredis.Miniredis) int {
	t.Helper()
	var port int
	_, err := fmt.Sscanf(mr.Port(), "%d", &port)
	require.NoError(t, err)
	return port
}
