package schedule

import (
	"context"
	"time"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/google/uuid"
)

// RangeQuery selects active schedules overlapping [From, To]
type RangeQuery struct {
	From      time.Time
	To        time.Time
	Category  Category
	OwnerID   *uuid.UUID
	ExcludeID *uuid.UUID
}

// ScheduleRepository persists calendar entries
type ScheduleRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Schedule, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Schedule, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	FindInRange(ctx context.Context, tenantID uuid.UUID, q RangeQuery) ([]Schedule, error)
	Save(ctx context.Context, s *Schedule) error
	SaveWithLock(ctx context.Context, s *Schedule) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
