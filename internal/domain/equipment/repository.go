package equipment

import (
	"context"
	"time"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/google/uuid"
)

// EquipmentRepository persists equipment
type EquipmentRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Equipment, error)
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Equipment, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Equipment, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	// FindDue returns active, non-retired equipment due on or before asOf
	FindDue(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]Equipment, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	Save(ctx context.Context, e *Equipment) error
	SaveWithLock(ctx context.Context, e *Equipment) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// MaintenanceRepository persists maintenance records
type MaintenanceRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*MaintenanceRecord, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]MaintenanceRecord, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	CountOpenByEquipment(ctx context.Context, tenantID, equipmentID uuid.UUID) (int64, error)
	Save(ctx context.Context, m *MaintenanceRecord) error
	SaveWithLock(ctx context.Context, m *MaintenanceRecord) error
	// SaveWithEquipment writes the record and its equipment in one transaction,
	// both under optimistic lock.
	SaveWithEquipment(ctx context.Context, m *MaintenanceRecord, e *Equipment) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
