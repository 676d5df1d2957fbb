package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/erp/logistics/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

const defaultLockPrefix = "lock:"

// RedisLocker implements shared.Locker with redislock
type RedisLocker struct {
	client    *redislock.Client
	keyPrefix string
	retry     redislock.RetryStrategy
}

// NewRedisLocker creates a locker that retries every 50ms until ctx is done
func NewRedisLocker(client redis.UniversalClient) *RedisLocker {
	return &RedisLocker{
		client:    redislock.New(client),
		keyPrefix: defaultLockPrefix,
		retry:     redislock.LimitRetry(redislock.LinearBackoff(50*time.Millisecond), 20),
	}
}

// Obtain takes the lock or returns shared.ErrLockNotObtained
func (l *RedisLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (shared.Lock, error) {
	lock, err := l.client.Obtain(ctx, l.keyPrefix+key, ttl, &redislock.Options{RetryStrategy: l.retry})
	// the caller's deadline ending while retrying is a busy lock, not a failure
	if errors.Is(err, redislock.ErrNotObtained) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return nil, shared.ErrLockNotObtained
	}
	if err != nil {
		return nil, err
	}
	return &redisLock{lock: lock}, nil
}

type redisLock struct {
	lock *redislock.Lock
}

func (l *redisLock) Release(ctx context.Context) error {
	err := l.lock.Release(ctx)
	if errors.Is(err, redislock.ErrLockNotHeld) {
		// expired before release; nothing to undo
		return nil
	}
	return err
}

// InMemoryLocker implements shared.Locker within one process
type InMemoryLocker struct {
	mu    sync.Mutex
	held  map[string]memoryHold
	seq   uint64
	retry time.Duration
}

// memoryHold is the current owner of a key and when its hold lapses
type memoryHold struct {
	token uint64
	until time.Time
}

// NewInMemoryLocker creates an in-process locker
func NewInMemoryLocker() *InMemoryLocker {
	return &InMemoryLocker{
		held:  make(map[string]memoryHold),
		retry: 10 * time.Millisecond,
	}
}

// Obtain waits for the key until ctx is done or a one second budget runs out
func (l *InMemoryLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (shared.Lock, error) {
	deadline := time.Now().Add(time.Second)
	for {
		if token, ok := l.tryObtain(key, ttl); ok {
			return &memoryLock{locker: l, key: key, token: token}, nil
		}
		if time.Now().After(deadline) {
			return nil, shared.ErrLockNotObtained
		}
		select {
		case <-ctx.Done():
			return nil, shared.ErrLockNotObtained
		case <-time.After(l.retry):
		}
	}
}

func (l *InMemoryLocker) tryObtain(key string, ttl time.Duration) (uint64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	if h, ok := l.held[key]; ok && now.Before(h.until) {
		return 0, false
	}
	l.seq++
	l.held[key] = memoryHold{token: l.seq, until: now.Add(ttl)}
	return l.seq, true
}

type memoryLock struct {
	locker *InMemoryLocker
	key    string
	token  uint64
}

// Release frees the key only while this lock still owns it
func (l *memoryLock) Release(context.Context) error {
	l.locker.mu.Lock()
	defer l.locker.mu.Unlock()
	if h, ok := l.locker.held[l.key]; ok && h.token == l.token {
		delete(l.locker.held, l.key)
	}
	return nil
}

var (
	_ shared.Locker = (*RedisLocker)(nil)
	_ shared.Locker = (*InMemoryLocker)(nil)
)
