package identity

import (
	"context"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*User, error)
	// FindByUsername looks the user up within the tenant, inactive users included
	FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*User, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]User, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByUsername(ctx context.Context, tenantID uuid.UUID, username string) (bool, error)
	// CountAll counts users across tenants, used by the admin bootstrap
	CountAll(ctx context.Context) (int64, error)
	Save(ctx context.Context, u *User) error
	SaveWithLock(ctx context.Context, u *User) error
}
