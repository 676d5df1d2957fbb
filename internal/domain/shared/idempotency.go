package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers keys of operations that were already applied
type IdempotencyStore interface {
	// MarkProcessed returns true if the key was newly marked, false if it was already present
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)
	IsProcessed(ctx context.Context, key string) (bool, error)
	// Forget removes a key so a failed operation can be retried with it
	Forget(ctx context.Context, key string) error
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	TTL     time.Duration
	Enabled bool
}

// DefaultIdempotencyConfig keeps keys for 24 hours
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}

// Lock is a held mutual exclusion lock
type Lock interface {
	Release(ctx context.Context) error
}

// Locker serialises work on a key across processes.
// Obtain returns ErrLockNotObtained when the key is held elsewhere.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (Lock, error)
}
