package finance

import (
	"context"
	"time"

	"github.com/erp/logistics/internal/application/partner"
	"github.com/erp/logistics/internal/domain/finance"
	domainpartner "github.com/erp/logistics/internal/domain/partner"
	"github.com/erp/logistics/internal/domain/sales"
	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/infrastructure/export"
	"github.com/erp/logistics/internal/infrastructure/logger"
	"github.com/erp/logistics/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReceivableService handles accounts receivable
type ReceivableService struct {
	receivableRepo finance.AccountReceivableRepository
	orderRepo      sales.SalesOrderRepository
	partnerRepo    domainpartner.PartnerRepository
	settle         settlement
	eventPublisher shared.EventPublisher
}

// NewReceivableService creates a new ReceivableService. locker and store may be nil.
func NewReceivableService(
	receivableRepo finance.AccountReceivableRepository,
	orderRepo sales.SalesOrderRepository,
	partnerRepo domainpartner.PartnerRepository,
	locker shared.Locker,
	store shared.IdempotencyStore,
) *ReceivableService {
	return &ReceivableService{
		receivableRepo: receivableRepo,
		orderRepo:      orderRepo,
		partnerRepo:    partnerRepo,
		settle:         newSettlement(locker, store),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ReceivableService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create opens a receivable for a shipped sales order, or manually for a customer
func (s *ReceivableService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateReceivableRequest) (*ReceivableResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "account_receivable", "Create")
	defer span.End()

	var (
		ar  *finance.AccountReceivable
		err error
	)
	if req.SalesOrderID != nil {
		so, ferr := s.orderRepo.FindByIDForTenant(ctx, tenantID, *req.SalesOrderID)
		if ferr != nil {
			return nil, ferr
		}
		ar, err = s.openForOrder(ctx, so, req.DueDate)
	} else {
		ar, err = s.openManual(ctx, tenantID, req)
	}
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if req.Remark != "" {
		ar.Remark = req.Remark
	}
	if userID != uuid.Nil {
		ar.SetCreatedBy(userID)
	}

	if err := s.receivableRepo.Save(ctx, ar); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, ar)

	telemetry.SetAttributes(span,
		telemetry.SpanAttrDocumentNumber, ar.ARNumber,
		telemetry.SpanAttrAmount, ar.TotalAmount.String(),
	)
	logger.L(ctx).Info("account receivable opened",
		zap.String("ar_number", ar.ARNumber),
		zap.String("so_number", ar.SONumber),
		zap.String("total_amount", ar.TotalAmount.StringFixed(2)),
	)
	resp := ToReceivableResponse(ar)
	return &resp, nil
}

func (s *ReceivableService) openManual(ctx context.Context, tenantID uuid.UUID, req CreateReceivableRequest) (*finance.AccountReceivable, error) {
	if req.CustomerID == nil || req.TotalAmount == nil {
		return nil, shared.NewValidationError("customer_id and total_amount are required without sales_order_id")
	}
	customer, err := partner.Customer(ctx, s.partnerRepo, tenantID, *req.CustomerID)
	if err != nil {
		return nil, err
	}
	number, err := s.receivableRepo.GenerateARNumber(ctx, tenantID, time.Now())
	if err != nil {
		return nil, err
	}
	ar, err := finance.NewAccountReceivable(tenantID, number, customer.ID, customer.Name, *req.TotalAmount, req.DueDate)
	if err != nil {
		return nil, err
	}
	ar.LocationID = req.LocationID
	return ar, nil
}

func (s *ReceivableService) openForOrder(ctx context.Context, so *sales.SalesOrder, dueDate *time.Time) (*finance.AccountReceivable, error) {
	if so.Status != sales.SalesOrderStatusShipped {
		return nil, shared.NewStateError("sales order %s is not shipped, current status is %s", so.SONumber, so.Status)
	}
	existing, err := s.receivableRepo.FindBySalesOrder(ctx, so.TenantID, so.ID)
	if err != nil && !shared.HasCode(err, shared.CodeNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDuplicateError("account receivable for sales order", so.SONumber)
	}

	number, err := s.receivableRepo.GenerateARNumber(ctx, so.TenantID, time.Now())
	if err != nil {
		return nil, err
	}
	ar, err := finance.NewAccountReceivable(so.TenantID, number, so.CustomerID, so.CustomerName, so.TotalAmount, dueDate)
	if err != nil {
		return nil, err
	}
	ar.LinkSalesOrder(so.ID, so.SONumber, so.LocationID)
	return ar, nil
}

// GetByID retrieves a receivable with its receipts
func (s *ReceivableService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ReceivableResponse, error) {
	ar, err := s.receivableRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToReceivableResponse(ar)
	return &resp, nil
}

// List retrieves receivables with filtering and pagination
func (s *ReceivableService) List(ctx context.Context, tenantID uuid.UUID, filter LedgerListFilter) ([]ReceivableResponse, int64, error) {
	f := ledgerFilter(filter, "customer_id")
	receivables, err := s.receivableRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.receivableRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	return ToReceivableResponses(receivables), total, nil
}

// Update reschedules an open receivable
func (s *ReceivableService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateLedgerRequest) (*ReceivableResponse, error) {
	ar, err := s.receivableRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	remark := ar.Remark
	if req.Remark != nil {
		remark = *req.Remark
	}
	if err := ar.Update(req.DueDate, remark); err != nil {
		return nil, err
	}
	if err := s.receivableRepo.SaveWithLock(ctx, ar); err != nil {
		return nil, err
	}
	resp := ToReceivableResponse(ar)
	return &resp, nil
}

// Cancel voids a receivable without receipts
func (s *ReceivableService) Cancel(ctx context.Context, tenantID, id uuid.UUID, req CancelLedgerRequest) (*ReceivableResponse, error) {
	ar, err := s.receivableRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := ar.Cancel(req.Reason); err != nil {
		return nil, err
	}
	if err := s.receivableRepo.SaveWithLock(ctx, ar); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("account receivable cancelled", zap.String("ar_number", ar.ARNumber))
	resp := ToReceivableResponse(ar)
	return &resp, nil
}

// Collect posts a receipt with the same bounds and replay rules as Pay
func (s *ReceivableService) Collect(ctx context.Context, tenantID, id, userID uuid.UUID, req PaymentRequest) (*ReceivableResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "account_receivable", "Collect")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrDocumentID, id.String(),
		telemetry.SpanAttrAmount, req.Amount.String(),
		telemetry.SpanAttrIdempotencyKey, req.IdempotencyKey,
	)

	var ar *finance.AccountReceivable
	applied, err := s.settle.run(ctx, "ar", tenantID, id, req.IdempotencyKey, func(ctx context.Context) error {
		var err error
		ar, err = s.receivableRepo.FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if _, err := ar.Collect(req.toInput(userID)); err != nil {
			return err
		}
		return s.receivableRepo.SaveWithLock(ctx, ar)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if !applied {
		return s.GetByID(ctx, tenantID, id)
	}
	publishEvents(ctx, s.eventPublisher, ar)

	logger.L(ctx).Info("account receivable collected",
		zap.String("ar_number", ar.ARNumber),
		zap.String("amount", req.Amount.StringFixed(2)),
		zap.String("remaining_amount", ar.RemainingAmount.StringFixed(2)),
		zap.String("payment_status", string(ar.PaymentStatus)),
	)
	resp := ToReceivableResponse(ar)
	return &resp, nil
}

// Summary aggregates live receivables per payment status plus the overdue part
func (s *ReceivableService) Summary(ctx context.Context, tenantID uuid.UUID) (*SummaryResponse, error) {
	buckets, err := s.receivableRepo.SummarizeByStatus(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	overdue, err := s.receivableRepo.FindOverdue(ctx, tenantID, time.Now())
	if err != nil {
		return nil, err
	}
	ledgers := make([]*finance.Ledger, len(overdue))
	for i := range overdue {
		ledgers[i] = &overdue[i].Ledger
	}
	return buildSummary(buckets, ledgers), nil
}

// Export renders every receivable matching filter as an xlsx workbook
func (s *ReceivableService) Export(ctx context.Context, tenantID uuid.UUID, filter LedgerListFilter) ([]byte, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "account_receivable", "Export")
	defer span.End()

	table := export.Table{
		Sheet: "Receivables",
		Columns: []export.Column{
			{Header: "AR Number", Width: 20},
			{Header: "SO Number", Width: 20},
			{Header: "Customer", Width: 28},
			{Header: "Status", Width: 12},
			{Header: "Payment Status", Width: 14},
			{Header: "Total", Width: 14},
			{Header: "Received", Width: 14},
			{Header: "Remaining", Width: 14},
			{Header: "Due Date", Width: 12},
			{Header: "Remark", Width: 30},
		},
	}
	err := forEachPage(ledgerFilter(filter, "customer_id"), func(f shared.Filter) (int, error) {
		page, err := s.receivableRepo.FindAllForTenant(ctx, tenantID, f)
		for _, ar := range page {
			table.AddRow(ar.ARNumber, ar.SONumber, ar.CustomerName, string(ar.Status), string(ar.PaymentStatus),
				ar.TotalAmount, ar.PaidAmount, ar.RemainingAmount, ar.DueDate, ar.Remark)
		}
		return len(page), err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return export.Bytes(table)
}
