package sales

import (
	"context"
	"time"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/google/uuid"
)

// SalesOrderRepository defines persistence for sales orders
type SalesOrderRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*SalesOrder, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]SalesOrder, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, order *SalesOrder) error
	SaveWithLock(ctx context.Context, order *SalesOrder) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
	GenerateSONumber(ctx context.Context, tenantID uuid.UUID, day time.Time) (string, error)
}
