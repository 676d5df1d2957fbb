package purchasing

import (
	"context"
	"time"

	"github.com/erp/logistics/internal/application/partner"
	domainpartner "github.com/erp/logistics/internal/domain/partner"
	"github.com/erp/logistics/internal/domain/purchasing"
	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/domain/wms"
	"github.com/erp/logistics/internal/infrastructure/logger"
	"github.com/erp/logistics/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PurchaseOrderService handles purchase order operations
type PurchaseOrderService struct {
	orderRepo      purchasing.PurchaseOrderRepository
	partnerRepo    domainpartner.PartnerRepository
	partRepo       wms.PartMasterRepository
	eventPublisher shared.EventPublisher
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(
	orderRepo purchasing.PurchaseOrderRepository,
	partnerRepo domainpartner.PartnerRepository,
	partRepo wms.PartMasterRepository,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		orderRepo:   orderRepo,
		partnerRepo: partnerRepo,
		partRepo:    partRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PurchaseOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create opens a draft purchase order
func (s *PurchaseOrderService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "purchase_order", "Create")
	defer span.End()

	supplier, err := partner.Supplier(ctx, s.partnerRepo, tenantID, req.SupplierID)
	if err != nil {
		return nil, err
	}

	number, err := s.orderRepo.GeneratePONumber(ctx, tenantID, time.Now())
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	po, err := purchasing.NewPurchaseOrder(tenantID, number, supplier.ID, supplier.Name)
	if err != nil {
		return nil, err
	}
	if err := po.SetTerms(purchasing.OrderTerms{
		LocationID:    req.LocationID,
		PaymentMethod: purchasing.PaymentMethod(req.PaymentMethod),
		TaxRate:       req.TaxRate,
		ExpectedDate:  req.ExpectedDate,
		Remark:        req.Remark,
	}); err != nil {
		return nil, err
	}

	lines, err := resolveLines(ctx, s.partRepo, tenantID, req.Items)
	if err != nil {
		return nil, err
	}
	if err := po.ReplaceItems(lines); err != nil {
		return nil, err
	}
	if userID != uuid.Nil {
		po.SetCreatedBy(userID)
	}

	if err := s.orderRepo.Save(ctx, po); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrDocumentNumber, po.PONumber,
		telemetry.SpanAttrAmount, po.TotalAmount.String(),
	)
	logger.L(ctx).Info("purchase order created",
		zap.String("po_number", po.PONumber),
		zap.String("supplier", po.SupplierName),
		zap.String("total_amount", po.TotalAmount.StringFixed(2)),
	)

	resp := ToPurchaseOrderResponse(po)
	return &resp, nil
}

// GetByID retrieves a purchase order
func (s *PurchaseOrderService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseOrderResponse, error) {
	po, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToPurchaseOrderResponse(po)
	return &resp, nil
}

// List retrieves purchase orders with filtering and pagination
func (s *PurchaseOrderService) List(ctx context.Context, tenantID uuid.UUID, filter PurchaseOrderListFilter) ([]PurchaseOrderResponse, int64, error) {
	f := filter.Filter()
	if filter.Status != "" {
		f = f.With("status", filter.Status)
	}
	if filter.SupplierID != nil {
		f = f.With("supplier_id", *filter.SupplierID)
	}
	if filter.LocationID != nil {
		f = f.With("location_id", *filter.LocationID)
	}
	if filter.From != nil {
		f = f.With("from", *filter.From)
	}
	if filter.To != nil {
		f = f.With("to", *filter.To)
	}

	orders, err := s.orderRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	return ToPurchaseOrderResponses(orders), total, nil
}

// Update edits a draft order
func (s *PurchaseOrderService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	po, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !po.CanModify() {
		return nil, shared.NewStateError("cannot modify purchase order in %s status", po.Status)
	}

	if req.SupplierID != nil && *req.SupplierID != po.SupplierID {
		supplier, err := partner.Supplier(ctx, s.partnerRepo, tenantID, *req.SupplierID)
		if err != nil {
			return nil, err
		}
		if err := po.SetSupplier(supplier.ID, supplier.Name); err != nil {
			return nil, err
		}
	}

	terms := purchasing.OrderTerms{
		LocationID:    po.LocationID,
		PaymentMethod: po.PaymentMethod,
		TaxRate:       po.TaxRate,
		ExpectedDate:  po.ExpectedDate,
		Remark:        po.Remark,
	}
	if req.LocationID != nil {
		terms.LocationID = req.LocationID
	}
	if req.PaymentMethod != nil {
		terms.PaymentMethod = purchasing.PaymentMethod(*req.PaymentMethod)
	}
	if req.TaxRate != nil {
		terms.TaxRate = *req.TaxRate
	}
	if req.ExpectedDate != nil {
		terms.ExpectedDate = req.ExpectedDate
	}
	if req.Remark != nil {
		terms.Remark = *req.Remark
	}
	if err := po.SetTerms(terms); err != nil {
		return nil, err
	}

	if req.Items != nil {
		lines, err := resolveLines(ctx, s.partRepo, tenantID, req.Items)
		if err != nil {
			return nil, err
		}
		if err := po.ReplaceItems(lines); err != nil {
			return nil, err
		}
	}
	po.IncrementVersion()

	if err := s.orderRepo.SaveWithLock(ctx, po); err != nil {
		return nil, err
	}
	resp := ToPurchaseOrderResponse(po)
	return &resp, nil
}

// Send issues a draft order to the supplier
func (s *PurchaseOrderService) Send(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.transition(ctx, tenantID, id, "Send", func(po *purchasing.PurchaseOrder) error {
		return po.Send()
	})
}

// Confirm records the supplier's acceptance
func (s *PurchaseOrderService) Confirm(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.transition(ctx, tenantID, id, "Confirm", func(po *purchasing.PurchaseOrder) error {
		return po.Confirm()
	})
}

// Receive books a goods receipt. A fully received order publishes the event
// that opens its accounts payable.
func (s *PurchaseOrderService) Receive(ctx context.Context, tenantID, id uuid.UUID, req ReceivePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	lines := make([]purchasing.ReceiveLine, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = purchasing.ReceiveLine{ItemID: l.ItemID, Quantity: l.Quantity}
	}
	return s.transition(ctx, tenantID, id, "Receive", func(po *purchasing.PurchaseOrder) error {
		return po.Receive(lines)
	})
}

// Cancel cancels an order that has not received goods
func (s *PurchaseOrderService) Cancel(ctx context.Context, tenantID, id uuid.UUID, req CancelPurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	return s.transition(ctx, tenantID, id, "Cancel", func(po *purchasing.PurchaseOrder) error {
		return po.Cancel(req.Reason)
	})
}

func (s *PurchaseOrderService) transition(ctx context.Context, tenantID, id uuid.UUID, method string, apply func(*purchasing.PurchaseOrder) error) (*PurchaseOrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "purchase_order", method)
	defer span.End()

	po, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	from := po.Status
	if err := apply(po); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, po); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, po)

	telemetry.SetAttributes(span,
		telemetry.SpanAttrDocumentNumber, po.PONumber,
		telemetry.SpanAttrStatus, string(po.Status),
	)
	logger.L(ctx).Info("purchase order status changed",
		zap.String("po_number", po.PONumber),
		zap.String("from", string(from)),
		zap.String("to", string(po.Status)),
	)
	resp := ToPurchaseOrderResponse(po)
	return &resp, nil
}

// Delete removes a draft or cancelled order
func (s *PurchaseOrderService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	po, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if !po.CanDelete() {
		return shared.NewStateError("cannot delete purchase order in %s status", po.Status)
	}
	return s.orderRepo.DeleteForTenant(ctx, tenantID, id)
}
