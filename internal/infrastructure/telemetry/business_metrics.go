package telemetry

import (
	"context"
	"fmt"

	"github.com/erp/logistics/internal/domain/finance"
	"github.com/erp/logistics/internal/domain/purchasing"
	"github.com/erp/logistics/internal/domain/sales"
	"github.com/erp/logistics/internal/domain/shared"
	"go.opentelemetry.io/otel/metric"
)

// BusinessMetrics turns domain events into counters. It is subscribed to the
// event bus like any other handler and never fails the publish.
type BusinessMetrics struct {
	eventsTotal       *Counter
	transitionsTotal  *Counter
	settlementsTotal  *Counter
	settlementAmounts metric.Float64Counter
}

// NewBusinessMetrics creates the instruments on meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	events, err := NewCounter(meter, "erp_domain_events_total", "Domain events by type", "{event}")
	if err != nil {
		return nil, err
	}
	transitions, err := NewCounter(meter, "erp_document_transitions_total", "Purchasing and sales status transitions", "{transition}")
	if err != nil {
		return nil, err
	}
	settlements, err := NewCounter(meter, "erp_settlements_total", "Payables and receivables opened or settled", "{document}")
	if err != nil {
		return nil, err
	}
	amounts, err := meter.Float64Counter("erp_settlement_amount_total",
		metric.WithDescription("Sum of amounts opened, paid or collected"),
		metric.WithUnit("{currency}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter erp_settlement_amount_total: %w", err)
	}
	return &BusinessMetrics{
		eventsTotal:       events,
		transitionsTotal:  transitions,
		settlementsTotal:  settlements,
		settlementAmounts: amounts,
	}, nil
}

// EventTypes implements shared.EventHandler
func (m *BusinessMetrics) EventTypes() []string {
	return []string{
		purchasing.EventTypePurchaseRequestStatusChanged,
		purchasing.EventTypePurchaseOrderStatusChanged,
		purchasing.EventTypePurchaseOrderReceived,
		sales.EventTypeSalesOrderShipped,
		finance.EventTypeAccountPayableOpened,
		finance.EventTypeAccountPayablePaid,
		finance.EventTypeAccountReceivableOpened,
		finance.EventTypeAccountReceivableCollected,
	}
}

// Handle implements shared.EventHandler
func (m *BusinessMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	m.eventsTotal.Inc(ctx, AttrEventType.String(event.EventType()))

	switch e := event.(type) {
	case *purchasing.PurchaseRequestStatusChangedEvent:
		m.transitionsTotal.Inc(ctx, AttrDocumentType.String(e.AggregateType()), AttrStatus.String(string(e.Status)))
	case *purchasing.PurchaseOrderStatusChangedEvent:
		m.transitionsTotal.Inc(ctx, AttrDocumentType.String(e.AggregateType()), AttrStatus.String(string(e.Status)))
	case *finance.SettlementEvent:
		attrs := metric.WithAttributes(
			AttrEventType.String(e.EventType()),
			AttrPaymentStatus.String(string(e.PaymentStatus)),
		)
		m.settlementsTotal.Inc(ctx, AttrDocumentType.String(e.AggregateType()), AttrPaymentStatus.String(string(e.PaymentStatus)))
		// opening events carry no payment, count the open balance instead
		value := e.Amount
		if value.IsZero() {
			value = e.RemainingAmount
		}
		if amount, _ := value.Float64(); amount > 0 {
			m.settlementAmounts.Add(ctx, amount, attrs)
		}
	}
	return nil
}

var _ shared.EventHandler = (*BusinessMetrics)(nil)
