package purchasing

import (
	"context"
	"time"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/google/uuid"
)

// PurchaseRequestRepository defines persistence for purchase requests
type PurchaseRequestRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseRequest, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PurchaseRequest, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, request *PurchaseRequest) error
	SaveWithLock(ctx context.Context, request *PurchaseRequest) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
	GenerateRequestNumber(ctx context.Context, tenantID uuid.UUID, day time.Time) (string, error)
	// Transaction runs fn with repositories bound to one database transaction
	Transaction(ctx context.Context, fn func(tx PurchasingTx) error) error
}

// PurchasingTx exposes the repositories that a request conversion updates together
type PurchasingTx interface {
	PurchaseRequests() PurchaseRequestRepository
	PurchaseOrders() PurchaseOrderRepository
}

// PurchaseOrderRepository defines persistence for purchase orders
type PurchaseOrderRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseOrder, error)
	FindByNumber(ctx context.Context, tenantID uuid.UUID, poNumber string) (*PurchaseOrder, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, order *PurchaseOrder) error
	SaveWithLock(ctx context.Context, order *PurchaseOrder) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
	GeneratePONumber(ctx context.Context, tenantID uuid.UUID, day time.Time) (string, error)
}
