// Package purchasing runs the purchase request to purchase order workflow.
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

// PurchaseRequestService handles purchase request operations
type PurchaseRequestService struct {
	requestRepo    purchasing.PurchaseRequestRepository
	orderRepo      purchasing.PurchaseOrderRepository
	partnerRepo    domainpartner.PartnerRepository
	partRepo       wms.PartMasterRepository
	eventPublisher shared.EventPublisher
}

// NewPurchaseRequestService creates a new PurchaseRequestService
func NewPurchaseRequestService(
	requestRepo purchasing.PurchaseRequestRepository,
	orderRepo purchasing.PurchaseOrderRepository,
	partnerRepo domainpartner.PartnerRepository,
	partRepo wms.PartMasterRepository,
) *PurchaseRequestService {
	return &PurchaseRequestService{
		requestRepo: requestRepo,
		orderRepo:   orderRepo,
		partnerRepo: partnerRepo,
		partRepo:    partRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PurchaseRequestService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create opens a draft request with a generated PR number
func (s *PurchaseRequestService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreatePurchaseRequestRequest) (*PurchaseRequestResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "purchase_request", "Create")
	defer span.End()

	number, err := s.requestRepo.GenerateRequestNumber(ctx, tenantID, time.Now())
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	pr, err := purchasing.NewPurchaseRequest(tenantID, number, req.RequesterName, req.Department)
	if err != nil {
		return nil, err
	}
	if err := pr.SetDetails(req.Department, req.Reason, req.LocationID, req.RequiredDate); err != nil {
		return nil, err
	}
	if userID != uuid.Nil {
		pr.SetRequester(userID)
		pr.SetCreatedBy(userID)
	}

	lines, err := resolveLines(ctx, s.partRepo, tenantID, req.Items)
	if err != nil {
		return nil, err
	}
	if err := pr.ReplaceItems(lines); err != nil {
		return nil, err
	}

	if err := s.requestRepo.Save(ctx, pr); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrDocumentNumber, pr.RequestNumber)
	logger.L(ctx).Info("purchase request created",
		zap.String("request_number", pr.RequestNumber),
		zap.Int("items", len(pr.Items)),
	)

	resp := ToPurchaseRequestResponse(pr)
	return &resp, nil
}

// GetByID retrieves a purchase request
func (s *PurchaseRequestService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseRequestResponse, error) {
	pr, err := s.requestRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToPurchaseRequestResponse(pr)
	return &resp, nil
}

// List retrieves purchase requests with filtering and pagination
func (s *PurchaseRequestService) List(ctx context.Context, tenantID uuid.UUID, filter PurchaseRequestListFilter) ([]PurchaseRequestResponse, int64, error) {
	f := filter.Filter()
	if filter.Status != "" {
		f = f.With("status", filter.Status)
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

	requests, err := s.requestRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.requestRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	return ToPurchaseRequestResponses(requests), total, nil
}

// Update edits a draft request
func (s *PurchaseRequestService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdatePurchaseRequestRequest) (*PurchaseRequestResponse, error) {
	pr, err := s.requestRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	department, reason := pr.Department, pr.Reason
	locationID, requiredDate := pr.LocationID, pr.RequiredDate
	if req.Department != nil {
		department = *req.Department
	}
	if req.Reason != nil {
		reason = *req.Reason
	}
	if req.LocationID != nil {
		locationID = req.LocationID
	}
	if req.RequiredDate != nil {
		requiredDate = req.RequiredDate
	}
	if err := pr.SetDetails(department, reason, locationID, requiredDate); err != nil {
		return nil, err
	}

	if req.Items != nil {
		lines, err := resolveLines(ctx, s.partRepo, tenantID, req.Items)
		if err != nil {
			return nil, err
		}
		if err := pr.ReplaceItems(lines); err != nil {
			return nil, err
		}
	}
	pr.IncrementVersion()

	if err := s.requestRepo.SaveWithLock(ctx, pr); err != nil {
		return nil, err
	}
	resp := ToPurchaseRequestResponse(pr)
	return &resp, nil
}

// Submit sends a draft for approval
func (s *PurchaseRequestService) Submit(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseRequestResponse, error) {
	return s.transition(ctx, tenantID, id, "Submit", func(pr *purchasing.PurchaseRequest) error {
		return pr.Submit()
	})
}

// Approve accepts a submitted request
func (s *PurchaseRequestService) Approve(ctx context.Context, tenantID, id, approverID uuid.UUID) (*PurchaseRequestResponse, error) {
	return s.transition(ctx, tenantID, id, "Approve", func(pr *purchasing.PurchaseRequest) error {
		return pr.Approve(approverID)
	})
}

// Reject declines a submitted request. An empty reason is rejected.
func (s *PurchaseRequestService) Reject(ctx context.Context, tenantID, id, userID uuid.UUID, req RejectPurchaseRequestRequest) (*PurchaseRequestResponse, error) {
	return s.transition(ctx, tenantID, id, "Reject", func(pr *purchasing.PurchaseRequest) error {
		return pr.Reject(userID, req.Reason)
	})
}

// Reopen moves a rejected request back to draft
func (s *PurchaseRequestService) Reopen(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseRequestResponse, error) {
	return s.transition(ctx, tenantID, id, "Reopen", func(pr *purchasing.PurchaseRequest) error {
		return pr.Reopen()
	})
}

func (s *PurchaseRequestService) transition(ctx context.Context, tenantID, id uuid.UUID, method string, apply func(*purchasing.PurchaseRequest) error) (*PurchaseRequestResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "purchase_request", method)
	defer span.End()

	pr, err := s.requestRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := apply(pr); err != nil {
		return nil, err
	}
	if err := s.requestRepo.SaveWithLock(ctx, pr); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, pr)

	telemetry.SetAttributes(span,
		telemetry.SpanAttrDocumentNumber, pr.RequestNumber,
		telemetry.SpanAttrStatus, string(pr.Status),
	)
	resp := ToPurchaseRequestResponse(pr)
	return &resp, nil
}

// Convert creates a draft purchase order from an approved request. The order
// and the converted request are stored in one transaction.
func (s *PurchaseRequestService) Convert(ctx context.Context, tenantID, id, userID uuid.UUID, req ConvertPurchaseRequestRequest) (*PurchaseOrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "purchase_request", "Convert")
	defer span.End()

	pr, err := s.requestRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if pr.Status != purchasing.PurchaseRequestStatusApproved {
		return nil, shared.NewStateError("only approved purchase requests can be converted, current status is %s", pr.Status)
	}

	supplier, err := partner.Supplier(ctx, s.partnerRepo, tenantID, req.SupplierID)
	if err != nil {
		return nil, err
	}

	number, err := s.orderRepo.GeneratePONumber(ctx, tenantID, time.Now())
	if err != nil {
		return nil, err
	}
	po, err := purchasing.NewPurchaseOrderFromRequest(pr, number, supplier.ID, supplier.Name)
	if err != nil {
		return nil, err
	}
	if err := po.SetTerms(purchasing.OrderTerms{
		LocationID:    pr.LocationID,
		PaymentMethod: purchasing.PaymentMethod(req.PaymentMethod),
		TaxRate:       req.TaxRate,
		ExpectedDate:  pr.RequiredDate,
		Remark:        req.Remark,
	}); err != nil {
		return nil, err
	}
	if userID != uuid.Nil {
		po.SetCreatedBy(userID)
	}

	if err := pr.MarkConverted(po.ID); err != nil {
		return nil, err
	}
	err = s.requestRepo.Transaction(ctx, func(tx purchasing.PurchasingTx) error {
		if err := tx.PurchaseOrders().Save(ctx, po); err != nil {
			return err
		}
		return tx.PurchaseRequests().SaveWithLock(ctx, pr)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, pr)

	logger.L(ctx).Info("purchase request converted",
		zap.String("request_number", pr.RequestNumber),
		zap.String("po_number", po.PONumber),
	)
	resp := ToPurchaseOrderResponse(po)
	return &resp, nil
}

// Delete removes a draft or rejected request
func (s *PurchaseRequestService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	pr, err := s.requestRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if !pr.CanDelete() {
		return shared.NewStateError("cannot delete purchase request in %s status", pr.Status)
	}
	return s.requestRepo.DeleteForTenant(ctx, tenantID, id)
}

// publishEvents hands pending domain events to the bus. Failures are logged;
// the state change is already stored.
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
