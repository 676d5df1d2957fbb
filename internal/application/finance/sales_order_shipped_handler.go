package finance

import (
	"context"
	"fmt"

	"github.com/erp/logistics/internal/domain/sales"
	"github.com/erp/logistics/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SalesOrderShippedHandler opens the accounts receivable of a shipped sales order
type SalesOrderShippedHandler struct {
	receivables *ReceivableService
	logger      *zap.Logger
}

// NewSalesOrderShippedHandler creates a new handler for sales order shipped events
func NewSalesOrderShippedHandler(receivables *ReceivableService, logger *zap.Logger) *SalesOrderShippedHandler {
	return &SalesOrderShippedHandler{
		receivables: receivables,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *SalesOrderShippedHandler) EventTypes() []string {
	return []string{sales.EventTypeSalesOrderShipped}
}

// Handle creates the receivable, once per order
func (h *SalesOrderShippedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	shipped, ok := event.(*sales.SalesOrderShippedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			sales.EventTypeSalesOrderShipped, event.EventType())
	}

	orderID := shipped.SalesOrderID
	ar, err := h.receivables.Create(ctx, shipped.TenantID(), uuid.Nil, CreateReceivableRequest{SalesOrderID: &orderID})
	if shared.HasCode(err, shared.CodeAlreadyExists) {
		h.logger.Warn("receivable already exists for sales order, skipping",
			zap.String("so_number", shipped.SONumber),
		)
		return nil
	}
	if err != nil {
		h.logger.Error("failed to open receivable",
			zap.String("so_number", shipped.SONumber),
			zap.Error(err),
		)
		return fmt.Errorf("failed to open receivable for %s: %w", shipped.SONumber, err)
	}

	h.logger.Info("account receivable created",
		zap.String("ar_number", ar.ARNumber),
		zap.String("so_number", shipped.SONumber),
		zap.String("customer_name", shipped.CustomerName),
	)
	return nil
}

var _ shared.EventHandler = (*SalesOrderShippedHandler)(nil)
