package cache

import (
	"context"
	"io"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Coordination bundles the idempotency store and locker used by payment posting
type Coordination struct {
	Idempotency shared.IdempotencyStore
	Locker      shared.Locker
	// Redis is nil when the in-process fallback is used
	Redis       redis.UniversalClient
	closers     []io.Closer
}

// Close releases the store and the Redis connection, if any
func (c *Coordination) Close() error {
	var firstErr error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// FactoryOption is a functional option for NewCoordination
type FactoryOption func(*factory)

type factory struct {
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to in-process stores.
// Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewCoordination picks Redis when it is enabled and reachable, otherwise in-process stores
func NewCoordination(ctx context.Context, cfg config.RedisConfig, opts ...FactoryOption) (*Coordination, error) {
	f := &factory{logger: zap.NewNop(), allowInMemoryFallback: true}
	for _, opt := range opts {
		opt(f)
	}

	if cfg.Enabled {
		client, err := NewRedisClient(ctx, cfg)
		if err == nil {
			f.logger.Info("using Redis for idempotency keys and locks", zap.String("addr", cfg.Addr()))
			store := NewRedisIdempotencyStore(client, "")
			return &Coordination{
				Idempotency: store,
				Locker:      NewRedisLocker(client),
				Redis:       client,
				closers:     []io.Closer{store, client},
			}, nil
		}
		if !f.allowInMemoryFallback {
			return nil, err
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory idempotency and locks", zap.Error(err))
	}

	store := NewInMemoryIdempotencyStore()
	return &Coordination{
		Idempotency: store,
		Locker:      NewInMemoryLocker(),
		closers:     []io.Closer{store},
	}, nil
}
