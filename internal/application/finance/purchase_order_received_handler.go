package finance

import (
	"context"
	"fmt"

	"github.com/erp/logistics/internal/domain/purchasing"
	"github.com/erp/logistics/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PurchaseOrderReceivedHandler opens the accounts payable of a fully received
// purchase order
type PurchaseOrderReceivedHandler struct {
	payables *PayableService
	logger   *zap.Logger
}

// NewPurchaseOrderReceivedHandler creates a new handler for purchase order received events
func NewPurchaseOrderReceivedHandler(payables *PayableService, logger *zap.Logger) *PurchaseOrderReceivedHandler {
	return &PurchaseOrderReceivedHandler{
		payables: payables,
		logger:   logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *PurchaseOrderReceivedHandler) EventTypes() []string {
	return []string{purchasing.EventTypePurchaseOrderReceived}
}

// Handle creates the payable. A payable that already exists for the order
// counts as handled.
func (h *PurchaseOrderReceivedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	received, ok := event.(*purchasing.PurchaseOrderReceivedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			purchasing.EventTypePurchaseOrderReceived, event.EventType())
	}

	h.logger.Info("opening payable for received purchase order",
		zap.String("po_number", received.PONumber),
		zap.String("supplier_name", received.SupplierName),
		zap.String("total_amount", received.TotalAmount.String()),
	)

	createdBy := uuid.Nil
	if received.CreatedBy != nil {
		createdBy = *received.CreatedBy
	}
	orderID := received.PurchaseOrderID
	ap, err := h.payables.Create(ctx, received.TenantID(), createdBy, CreatePayableRequest{PurchaseOrderID: &orderID})
	if shared.HasCode(err, shared.CodeAlreadyExists) {
		h.logger.Warn("payable already exists for purchase order, skipping",
			zap.String("po_number", received.PONumber),
		)
		return nil
	}
	if err != nil {
		h.logger.Error("failed to open payable",
			zap.String("po_number", received.PONumber),
			zap.Error(err),
		)
		return fmt.Errorf("failed to open payable for %s: %w", received.PONumber, err)
	}

	h.logger.Info("account payable created",
		zap.String("ap_number", ap.APNumber),
		zap.String("po_number", received.PONumber),
		zap.Time("due_date", ap.DueDate),
	)
	return nil
}

var _ shared.EventHandler = (*PurchaseOrderReceivedHandler)(nil)
