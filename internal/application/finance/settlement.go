package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	settlementLockTTL = 10 * time.Second
	maxIdempotencyKey = 128
)

// settlement serialises payments on one document and drops replays of a
// request that carries an already applied Idempotency-Key.
// Either dependency may be nil, which disables that guard.
type settlement struct {
	locker shared.Locker
	store  shared.IdempotencyStore
	keyTTL time.Duration
}

func newSettlement(locker shared.Locker, store shared.IdempotencyStore) settlement {
	return settlement{
		locker: locker,
		store:  store,
		keyTTL: shared.DefaultIdempotencyConfig().TTL,
	}
}

// run applies fn under the lock of document id. It reports false without
// calling fn when the idempotency key was seen before for the tenant.
func (s settlement) run(ctx context.Context, kind string, tenantID, id uuid.UUID, key string, fn func(ctx context.Context) error) (bool, error) {
	if len(key) > maxIdempotencyKey {
		return false, shared.NewValidationError("Idempotency-Key must be at most %d characters", maxIdempotencyKey)
	}
	lock := fmt.Sprintf("finance:%s:%s", kind, id)
	idemKey := ""
	if key != "" {
		idemKey = fmt.Sprintf("payment:%s:%s:%s", kind, tenantID, key)
	}

	if s.locker != nil {
		held, err := s.locker.Obtain(ctx, lock, settlementLockTTL)
		if err != nil {
			return false, err
		}
		defer func() {
			if err := held.Release(context.WithoutCancel(ctx)); err != nil {
				logger.L(ctx).Warn("failed to release settlement lock", zap.String("lock", lock), zap.Error(err))
			}
		}()
	}

	if idemKey != "" && s.store != nil {
		fresh, err := s.store.MarkProcessed(ctx, idemKey, s.keyTTL)
		if err != nil {
			logger.L(ctx).Error("idempotency store unavailable", zap.Error(err))
			return false, shared.ErrServiceUnavailable
		}
		if !fresh {
			logger.L(ctx).Info("payment replay ignored", zap.String("idempotency_key", idemKey))
			return false, nil
		}
	}

	if err := fn(ctx); err != nil {
		if idemKey != "" && s.store != nil {
			if ferr := s.store.Forget(context.WithoutCancel(ctx), idemKey); ferr != nil {
				logger.L(ctx).Warn("failed to forget idempotency key", zap.Error(ferr))
			}
		}
		return false, err
	}
	return true, nil
}
