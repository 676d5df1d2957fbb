package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/infrastructure/cache"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string, aggregateID uuid.UUID) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "PurchaseOrder", aggregateID, uuid.New()),
	}
}

type recordingHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panicMsg   string
}

func newRecordingHandler(eventTypes ...string) *recordingHandler {
	return &recordingHandler{eventTypes: eventTypes}
}

func (h *recordingHandler) Handle(_ context.Context, evt shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, evt)
	if h.panicMsg != "" {
		panic(h.panicMsg)
	}
	return h.err
}

func (h *recordingHandler) EventTypes() []string { return h.eventTypes }

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers to every matching handler", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		h1 := newRecordingHandler("PurchaseOrderReceived")
		h2 := newRecordingHandler("PurchaseOrderReceived")
		other := newRecordingHandler("SalesOrderShipped")
		bus.Subscribe(h1)
		bus.Subscribe(h2)
		bus.Subscribe(other)

		require.NoError(t, bus.Publish(ctx,
			newTestEvent("PurchaseOrderReceived", uuid.New()),
			newTestEvent("PurchaseOrderReceived", uuid.New())))

		assert.Equal(t, 2, h1.count())
		assert.Equal(t, 2, h2.count())
		assert.Equal(t, 0, other.count())
	})

	t.Run("wildcard handler sees everything", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		all := newRecordingHandler()
		bus.Subscribe(all)

		require.NoError(t, bus.Publish(ctx, newTestEvent("Anything", uuid.New())))
		assert.Equal(t, 1, all.count())
	})

	t.Run("failing and panicking handlers do not block others", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		failing := newRecordingHandler("PurchaseOrderReceived")
		failing.err = errors.New("boom")
		panicking := newRecordingHandler("PurchaseOrderReceived")
		panicking.panicMsg = "bad"
		ok := newRecordingHandler("PurchaseOrderReceived")
		bus.Subscribe(failing)
		bus.Subscribe(panicking)
		bus.Subscribe(ok)

		require.NoError(t, bus.Publish(ctx, newTestEvent("PurchaseOrderReceived", uuid.New())))
		assert.Equal(t, 1, ok.count())
	})

	t.Run("unsubscribed handler stops receiving", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		h := newRecordingHandler("PurchaseOrderReceived")
		bus.Subscribe(h)
		require.NoError(t, bus.Publish(ctx, newTestEvent("PurchaseOrderReceived", uuid.New())))
		bus.Unsubscribe(h)
		require.NoError(t, bus.Publish(ctx, newTestEvent("PurchaseOrderReceived", uuid.New())))
		assert.Equal(t, 1, h.count())
	})
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, bus.Stop(ctx))
	assert.Error(t, bus.Publish(ctx, newTestEvent("PurchaseOrderReceived", uuid.New())))

	require.NoError(t, bus.Start(ctx))
	assert.NoError(t, bus.Publish(ctx, newTestEvent("PurchaseOrderReceived", uuid.New())))
}

func TestIdempotentHandler(t *testing.T) {
	ctx := context.Background()
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	t.Run("same aggregate is handled once", func(t *testing.T) {
		inner := newRecordingHandler("PurchaseOrderReceived")
		h := NewIdempotentHandler(inner, store, zap.NewNop(), WithKeyFunc(ByAggregate))
		poID := uuid.New()

		require.NoError(t, h.Handle(ctx, newTestEvent("PurchaseOrderReceived", poID)))
		require.NoError(t, h.Handle(ctx, newTestEvent("PurchaseOrderReceived", poID)))

		assert.Equal(t, 1, inner.count())
		assert.Equal(t, IdempotencyStats{Processed: 1, Duplicate: 1}, h.Stats())
	})

	t.Run("failure releases the key", func(t *testing.T) {
		inner := newRecordingHandler("PurchaseOrderReceived")
		inner.err = errors.New("db down")
		h := NewIdempotentHandler(inner, store, zap.NewNop())
		evt := newTestEvent("PurchaseOrderReceived", uuid.New())

		assert.Error(t, h.Handle(ctx, evt))
		inner.err = nil
		assert.NoError(t, h.Handle(ctx, evt))
		assert.Equal(t, 2, inner.count())
	})

	t.Run("disabled passes through", func(t *testing.T) {
		inner := newRecordingHandler("PurchaseOrderReceived")
		h := NewIdempotentHandler(inner, store, zap.NewNop(),
			WithIdempotencyConfig(shared.IdempotencyConfig{Enabled: false}))
		evt := newTestEvent("PurchaseOrderReceived", uuid.New())

		require.NoError(t, h.Handle(ctx, evt))
		require.NoError(t, h.Handle(ctx, evt))
		assert.Equal(t, 2, inner.count())
	})
}
