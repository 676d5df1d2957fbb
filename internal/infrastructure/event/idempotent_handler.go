package event

import (
	"context"
	"sync/atomic"

	"github.com/erp/logistics/internal/domain/shared"
	"go.uber.org/zap"
)

// KeyFunc derives the deduplication key of an event
type KeyFunc func(shared.DomainEvent) string

// ByEventID deduplicates redeliveries of the same event
func ByEventID(e shared.DomainEvent) string {
	return "event:" + e.EventID().String()
}

// ByAggregate handles an event type at most once per aggregate
func ByAggregate(e shared.DomainEvent) string {
	return "event:" + e.EventType() + ":" + e.AggregateID().String()
}

// IdempotencyStats is a snapshot of handler counters
type IdempotencyStats struct {
	Processed int64 `json:"processed"`
	Duplicate int64 `json:"duplicate"`
	Failed    int64 `json:"failed"`
}

// IdempotentHandler wraps a handler so each key is processed once.
// On failure the key is forgotten so a later delivery can retry.
type IdempotentHandler struct {
	handler shared.EventHandler
	store   shared.IdempotencyStore
	config  shared.IdempotencyConfig
	keyFunc KeyFunc
	logger  *zap.Logger

	processed atomic.Int64
	duplicate atomic.Int64
	failed    atomic.Int64
}

// IdempotentHandlerOption is a functional option for IdempotentHandler
type IdempotentHandlerOption func(*IdempotentHandler)

// WithIdempotencyConfig sets TTL and the enabled flag
func WithIdempotencyConfig(cfg shared.IdempotencyConfig) IdempotentHandlerOption {
	return func(h *IdempotentHandler) {
		h.config = cfg
	}
}

// WithKeyFunc replaces the default ByEventID key
func WithKeyFunc(fn KeyFunc) IdempotentHandlerOption {
	return func(h *IdempotentHandler) {
		h.keyFunc = fn
	}
}

// NewIdempotentHandler wraps handler
func NewIdempotentHandler(handler shared.EventHandler, store shared.IdempotencyStore, logger *zap.Logger, opts ...IdempotentHandlerOption) *IdempotentHandler {
	h := &IdempotentHandler{
		handler: handler,
		store:   store,
		config:  shared.DefaultIdempotencyConfig(),
		keyFunc: ByEventID,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// EventTypes returns the wrapped handler's types
func (h *IdempotentHandler) EventTypes() []string {
	return h.handler.EventTypes()
}

// Handle runs the wrapped handler unless the key was already processed
func (h *IdempotentHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	if !h.config.Enabled {
		return h.handler.Handle(ctx, evt)
	}

	key := h.keyFunc(evt)
	isNew, err := h.store.MarkProcessed(ctx, key, h.config.TTL)
	switch {
	case err != nil:
		// a duplicate is preferable to a dropped event
		h.logger.Warn("idempotency check failed, processing anyway",
			zap.String("key", key), zap.Error(err))
	case !isNew:
		h.duplicate.Add(1)
		h.logger.Debug("duplicate event skipped",
			zap.String("key", key), zap.String("event_type", evt.EventType()))
		return nil
	}

	if err := h.handler.Handle(ctx, evt); err != nil {
		h.failed.Add(1)
		if ferr := h.store.Forget(ctx, key); ferr != nil {
			h.logger.Warn("failed to release idempotency key", zap.String("key", key), zap.Error(ferr))
		}
		return err
	}
	h.processed.Add(1)
	return nil
}

// Stats returns the handler counters
func (h *IdempotentHandler) Stats() IdempotencyStats {
	return IdempotencyStats{
		Processed: h.processed.Load(),
		Duplicate: h.duplicate.Load(),
		Failed:    h.failed.Load(),
	}
}

var _ shared.EventHandler = (*IdempotentHandler)(nil)
