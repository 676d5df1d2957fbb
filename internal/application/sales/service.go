// Package sales manages customer orders up to shipment.
package sales

import (
	"context"
	"strings"
	"time"

	"github.com/erp/logistics/internal/application/partner"
	domainpartner "github.com/erp/logistics/internal/domain/partner"
	"github.com/erp/logistics/internal/domain/sales"
	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/domain/wms"
	"github.com/erp/logistics/internal/infrastructure/logger"
	"github.com/erp/logistics/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service handles sales order operations
type Service struct {
	orderRepo      sales.SalesOrderRepository
	partnerRepo    domainpartner.PartnerRepository
	partRepo       wms.PartMasterRepository
	eventPublisher shared.EventPublisher
}

// NewService creates a new sales order service
func NewService(orderRepo sales.SalesOrderRepository, partnerRepo domainpartner.PartnerRepository, partRepo wms.PartMasterRepository) *Service {
	return &Service{
		orderRepo:   orderRepo,
		partnerRepo: partnerRepo,
		partRepo:    partRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create opens a draft order for an active customer
func (s *Service) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateSalesOrderRequest) (*SalesOrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sales_order", "Create")
	defer span.End()

	customer, err := partner.Customer(ctx, s.partnerRepo, tenantID, req.CustomerID)
	if err != nil {
		return nil, err
	}
	number, err := s.orderRepo.GenerateSONumber(ctx, tenantID, time.Now())
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	so, err := sales.NewSalesOrder(tenantID, number, customer.ID, customer.Name)
	if err != nil {
		return nil, err
	}
	if err := so.SetDetails(req.LocationID, req.DeliveryDate, req.Remark); err != nil {
		return nil, err
	}
	items, err := s.resolveItems(ctx, tenantID, req.Items)
	if err != nil {
		return nil, err
	}
	if err := so.ReplaceItems(items); err != nil {
		return nil, err
	}
	if userID != uuid.Nil {
		so.SetCreatedBy(userID)
	}

	if err := s.orderRepo.Save(ctx, so); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrDocumentNumber, so.SONumber)
	logger.L(ctx).Info("sales order created",
		zap.String("so_number", so.SONumber),
		zap.String("customer", so.CustomerName),
		zap.String("total_amount", so.TotalAmount.StringFixed(2)),
	)
	resp := ToSalesOrderResponse(so)
	return &resp, nil
}

func (s *Service) resolveItems(ctx context.Context, tenantID uuid.UUID, reqs []ItemRequest) ([]sales.ItemInput, error) {
	items := make([]sales.ItemInput, len(reqs))
	for i, r := range reqs {
		in := sales.ItemInput{
			PartID:    r.PartID,
			PartCode:  r.PartCode,
			PartName:  r.PartName,
			Quantity:  r.Quantity,
			Unit:      r.Unit,
			UnitPrice: r.UnitPrice,
		}
		if r.PartID != nil && s.partRepo != nil {
			part, err := s.partRepo.FindByIDForTenant(ctx, tenantID, *r.PartID)
			if err != nil {
				return nil, err
			}
			if in.PartCode == "" {
				in.PartCode = part.PartCode
			}
			if strings.TrimSpace(in.PartName) == "" {
				in.PartName = part.PartName
			}
			if in.Unit == "" {
				in.Unit = part.Unit
			}
			if in.UnitPrice.IsZero() {
				in.UnitPrice = part.UnitPrice
			}
		}
		items[i] = in
	}
	return items, nil
}

// GetByID retrieves a sales order
func (s *Service) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*SalesOrderResponse, error) {
	so, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToSalesOrderResponse(so)
	return &resp, nil
}

// List retrieves sales orders with filtering and pagination
func (s *Service) List(ctx context.Context, tenantID uuid.UUID, filter SalesOrderListFilter) ([]SalesOrderResponse, int64, error) {
	f := filter.Filter()
	if filter.Status != "" {
		f = f.With("status", filter.Status)
	}
	if filter.CustomerID != nil {
		f = f.With("customer_id", *filter.CustomerID)
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
	return ToSalesOrderResponses(orders), total, nil
}

// Update edits a draft order
func (s *Service) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateSalesOrderRequest) (*SalesOrderResponse, error) {
	so, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	locationID, deliveryDate, remark := so.LocationID, so.DeliveryDate, so.Remark
	if req.LocationID != nil {
		locationID = req.LocationID
	}
	if req.DeliveryDate != nil {
		deliveryDate = req.DeliveryDate
	}
	if req.Remark != nil {
		remark = *req.Remark
	}
	if err := so.SetDetails(locationID, deliveryDate, remark); err != nil {
		return nil, err
	}
	if req.Items != nil {
		items, err := s.resolveItems(ctx, tenantID, req.Items)
		if err != nil {
			return nil, err
		}
		if err := so.ReplaceItems(items); err != nil {
			return nil, err
		}
	}
	so.IncrementVersion()

	if err := s.orderRepo.SaveWithLock(ctx, so); err != nil {
		return nil, err
	}
	resp := ToSalesOrderResponse(so)
	return &resp, nil
}

// Confirm accepts a draft order with items
func (s *Service) Confirm(ctx context.Context, tenantID, id uuid.UUID) (*SalesOrderResponse, error) {
	return s.transition(ctx, tenantID, id, "Confirm", (*sales.SalesOrder).Confirm)
}

// Ship delivers a confirmed order. The published event opens its receivable.
func (s *Service) Ship(ctx context.Context, tenantID, id uuid.UUID) (*SalesOrderResponse, error) {
	return s.transition(ctx, tenantID, id, "Ship", (*sales.SalesOrder).Ship)
}

// Cancel cancels a draft or confirmed order
func (s *Service) Cancel(ctx context.Context, tenantID, id uuid.UUID) (*SalesOrderResponse, error) {
	return s.transition(ctx, tenantID, id, "Cancel", (*sales.SalesOrder).Cancel)
}

func (s *Service) transition(ctx context.Context, tenantID, id uuid.UUID, method string, apply func(*sales.SalesOrder) error) (*SalesOrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sales_order", method)
	defer span.End()

	so, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	from := so.Status
	if err := apply(so); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, so); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	events := so.GetDomainEvents()
	so.ClearDomainEvents()
	if s.eventPublisher != nil && len(events) > 0 {
		if err := s.eventPublisher.Publish(ctx, events...); err != nil {
			logger.L(ctx).Error("failed to publish domain events", zap.Int("count", len(events)), zap.Error(err))
		}
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrDocumentNumber, so.SONumber,
		telemetry.SpanAttrStatus, string(so.Status),
	)
	logger.L(ctx).Info("sales order status changed",
		zap.String("so_number", so.SONumber),
		zap.String("from", string(from)),
		zap.String("to", string(so.Status)),
	)
	resp := ToSalesOrderResponse(so)
	return &resp, nil
}

// Delete removes a draft or cancelled order
func (s *Service) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	so, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if !so.CanDelete() {
		return shared.NewStateError("cannot delete sales order in %s status", so.Status)
	}
	return s.orderRepo.DeleteForTenant(ctx, tenantID, id)
}
