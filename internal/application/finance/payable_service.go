// Package finance keeps accounts payable and receivable and settles them.
package finance

import (
	"context"
	"time"

	"github.com/erp/logistics/internal/application/partner"
	"github.com/erp/logistics/internal/domain/finance"
	domainpartner "github.com/erp/logistics/internal/domain/partner"
	"github.com/erp/logistics/internal/domain/purchasing"
	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/infrastructure/export"
	"github.com/erp/logistics/internal/infrastructure/logger"
	"github.com/erp/logistics/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PayableService handles accounts payable
type PayableService struct {
	payableRepo    finance.AccountPayableRepository
	orderRepo      purchasing.PurchaseOrderRepository
	partnerRepo    domainpartner.PartnerRepository
	settle         settlement
	eventPublisher shared.EventPublisher
}

// NewPayableService creates a new PayableService. locker and store may be nil.
func NewPayableService(
	payableRepo finance.AccountPayableRepository,
	orderRepo purchasing.PurchaseOrderRepository,
	partnerRepo domainpartner.PartnerRepository,
	locker shared.Locker,
	store shared.IdempotencyStore,
) *PayableService {
	return &PayableService{
		payableRepo: payableRepo,
		orderRepo:   orderRepo,
		partnerRepo: partnerRepo,
		settle:      newSettlement(locker, store),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PayableService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create opens a payable for a purchase order, or manually for a supplier
func (s *PayableService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreatePayableRequest) (*PayableResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "account_payable", "Create")
	defer span.End()

	var (
		ap  *finance.AccountPayable
		err error
	)
	if req.PurchaseOrderID != nil {
		po, ferr := s.orderRepo.FindByIDForTenant(ctx, tenantID, *req.PurchaseOrderID)
		if ferr != nil {
			return nil, ferr
		}
		ap, err = s.openForOrder(ctx, po, req.DueDate)
	} else {
		ap, err = s.openManual(ctx, tenantID, req)
	}
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if req.Remark != "" {
		ap.Remark = req.Remark
	}
	if userID != uuid.Nil {
		ap.SetCreatedBy(userID)
	}

	if err := s.payableRepo.Save(ctx, ap); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, ap)

	telemetry.SetAttributes(span,
		telemetry.SpanAttrDocumentNumber, ap.APNumber,
		telemetry.SpanAttrAmount, ap.TotalAmount.String(),
	)
	logger.L(ctx).Info("account payable opened",
		zap.String("ap_number", ap.APNumber),
		zap.String("po_number", ap.PONumber),
		zap.String("total_amount", ap.TotalAmount.StringFixed(2)),
	)
	resp := ToPayableResponse(ap)
	return &resp, nil
}

func (s *PayableService) openManual(ctx context.Context, tenantID uuid.UUID, req CreatePayableRequest) (*finance.AccountPayable, error) {
	if req.SupplierID == nil || req.TotalAmount == nil {
		return nil, shared.NewValidationError("supplier_id and total_amount are required without purchase_order_id")
	}
	supplier, err := partner.Supplier(ctx, s.partnerRepo, tenantID, *req.SupplierID)
	if err != nil {
		return nil, err
	}
	number, err := s.payableRepo.GenerateAPNumber(ctx, tenantID, time.Now())
	if err != nil {
		return nil, err
	}
	ap, err := finance.NewAccountPayable(tenantID, number, supplier.ID, supplier.Name, *req.TotalAmount, req.DueDate)
	if err != nil {
		return nil, err
	}
	ap.LocationID = req.LocationID
	return ap, nil
}

// openForOrder builds the payable of a received order. A live payable for the
// same order is reported as a duplicate.
func (s *PayableService) openForOrder(ctx context.Context, po *purchasing.PurchaseOrder, dueDate *time.Time) (*finance.AccountPayable, error) {
	if !po.IsPayable() {
		return nil, shared.NewStateError("purchase order %s has not received goods, current status is %s", po.PONumber, po.Status)
	}
	existing, err := s.payableRepo.FindByPurchaseOrder(ctx, po.TenantID, po.ID)
	if err != nil && !shared.HasCode(err, shared.CodeNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDuplicateError("account payable for purchase order", po.PONumber)
	}

	number, err := s.payableRepo.GenerateAPNumber(ctx, po.TenantID, time.Now())
	if err != nil {
		return nil, err
	}
	ap, err := finance.NewAccountPayable(po.TenantID, number, po.SupplierID, po.SupplierName, po.TotalAmount, dueDate)
	if err != nil {
		return nil, err
	}
	ap.LinkPurchaseOrder(po.ID, po.PONumber, po.LocationID)
	return ap, nil
}

// GetByID retrieves a payable with its payments
func (s *PayableService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*PayableResponse, error) {
	ap, err := s.payableRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToPayableResponse(ap)
	return &resp, nil
}

// List retrieves payables with filtering and pagination
func (s *PayableService) List(ctx context.Context, tenantID uuid.UUID, filter LedgerListFilter) ([]PayableResponse, int64, error) {
	f := ledgerFilter(filter, "supplier_id")
	payables, err := s.payableRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.payableRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	return ToPayableResponses(payables), total, nil
}

// Update reschedules an open payable
func (s *PayableService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateLedgerRequest) (*PayableResponse, error) {
	ap, err := s.payableRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	remark := ap.Remark
	if req.Remark != nil {
		remark = *req.Remark
	}
	if err := ap.Update(req.DueDate, remark); err != nil {
		return nil, err
	}
	if err := s.payableRepo.SaveWithLock(ctx, ap); err != nil {
		return nil, err
	}
	resp := ToPayableResponse(ap)
	return &resp, nil
}

// Cancel voids a payable without payments
func (s *PayableService) Cancel(ctx context.Context, tenantID, id uuid.UUID, req CancelLedgerRequest) (*PayableResponse, error) {
	ap, err := s.payableRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := ap.Cancel(req.Reason); err != nil {
		return nil, err
	}
	if err := s.payableRepo.SaveWithLock(ctx, ap); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("account payable cancelled", zap.String("ap_number", ap.APNumber))
	resp := ToPayableResponse(ap)
	return &resp, nil
}

// Pay posts a payment. The amount may not exceed the remaining amount. A
// request replayed with the same idempotency key returns the current payable
// without posting again.
func (s *PayableService) Pay(ctx context.Context, tenantID, id, userID uuid.UUID, req PaymentRequest) (*PayableResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "account_payable", "Pay")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrDocumentID, id.String(),
		telemetry.SpanAttrAmount, req.Amount.String(),
		telemetry.SpanAttrIdempotencyKey, req.IdempotencyKey,
	)

	var ap *finance.AccountPayable
	applied, err := s.settle.run(ctx, "ap", tenantID, id, req.IdempotencyKey, func(ctx context.Context) error {
		var err error
		ap, err = s.payableRepo.FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if _, err := ap.Pay(req.toInput(userID)); err != nil {
			return err
		}
		return s.payableRepo.SaveWithLock(ctx, ap)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if !applied {
		return s.GetByID(ctx, tenantID, id)
	}
	publishEvents(ctx, s.eventPublisher, ap)

	logger.L(ctx).Info("account payable paid",
		zap.String("ap_number", ap.APNumber),
		zap.String("amount", req.Amount.StringFixed(2)),
		zap.String("remaining_amount", ap.RemainingAmount.StringFixed(2)),
		zap.String("payment_status", string(ap.PaymentStatus)),
	)
	resp := ToPayableResponse(ap)
	return &resp, nil
}

// Summary aggregates live payables per payment status plus the overdue part
func (s *PayableService) Summary(ctx context.Context, tenantID uuid.UUID) (*SummaryResponse, error) {
	buckets, err := s.payableRepo.SummarizeByStatus(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	overdue, err := s.payableRepo.FindOverdue(ctx, tenantID, time.Now())
	if err != nil {
		return nil, err
	}
	ledgers := make([]*finance.Ledger, len(overdue))
	for i := range overdue {
		ledgers[i] = &overdue[i].Ledger
	}
	return buildSummary(buckets, ledgers), nil
}

// Export renders every payable matching filter as an xlsx workbook
func (s *PayableService) Export(ctx context.Context, tenantID uuid.UUID, filter LedgerListFilter) ([]byte, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "account_payable", "Export")
	defer span.End()

	table := export.Table{
		Sheet: "Payables",
		Columns: []export.Column{
			{Header: "AP Number", Width: 20},
			{Header: "PO Number", Width: 20},
			{Header: "Supplier", Width: 28},
			{Header: "Status", Width: 12},
			{Header: "Payment Status", Width: 14},
			{Header: "Total", Width: 14},
			{Header: "Paid", Width: 14},
			{Header: "Remaining", Width: 14},
			{Header: "Due Date", Width: 12},
			{Header: "Remark", Width: 30},
		},
	}
	err := forEachPage(ledgerFilter(filter, "supplier_id"), func(f shared.Filter) (int, error) {
		page, err := s.payableRepo.FindAllForTenant(ctx, tenantID, f)
		for _, ap := range page {
			table.AddRow(ap.APNumber, ap.PONumber, ap.SupplierName, string(ap.Status), string(ap.PaymentStatus),
				ap.TotalAmount, ap.PaidAmount, ap.RemainingAmount, ap.DueDate, ap.Remark)
		}
		return len(page), err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return export.Bytes(table)
}

// publishEvents hands pending domain events to the bus. Failures are logged.
func publishEvents(ctx context.Context, publisher shared.EventPublisher, agg shared.AggregateRoot) {
	events := agg.GetDomainEvents()
	agg.ClearDomainEvents()
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.L(ctx).Error("failed to publish domain events", zap.Int("count", len(events)), zap.Error(err))
	}
}
