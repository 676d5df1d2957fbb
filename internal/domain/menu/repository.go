package menu

import (
	"context"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/google/uuid"
)

// MenuCodeRepository defines persistence for menu codes
type MenuCodeRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*MenuCode, error)
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*MenuCode, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]MenuCode, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	FindActive(ctx context.Context, tenantID uuid.UUID) ([]MenuCode, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	Save(ctx context.Context, code *MenuCode) error
	SaveWithLock(ctx context.Context, code *MenuCode) error
	// DeleteForTenant removes the row permanently
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
