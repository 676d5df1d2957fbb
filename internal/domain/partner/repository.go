package partner

import (
	"context"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/google/uuid"
)

// PartnerRepository defines persistence for partners
type PartnerRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Partner, error)
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Partner, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Partner, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	Save(ctx context.Context, partner *Partner) error
	SaveWithLock(ctx context.Context, partner *Partner) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
