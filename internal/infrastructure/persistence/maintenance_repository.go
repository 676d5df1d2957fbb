package persistence

import (
	"context"

	"github.com/erp/logistics/internal/domain/equipment"
	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var maintenanceList = listSpec{
	searchColumns: []string{"equipment_code", "technician", "description"},
	filters: map[string]string{
		"equipment_id": "equipment_id = ?",
		"status":       "status = ?",
		"type":         "type = ?",
		"from":         "scheduled_date >= ?",
		"to":           "scheduled_date <= ?",
	},
	sortFields:  MaintenanceSortFields,
	defaultSort: "scheduled_date",
}

// GormMaintenanceRepository implements equipment.MaintenanceRepository using GORM
type GormMaintenanceRepository struct {
	db *gorm.DB
}

// NewGormMaintenanceRepository creates a new GormMaintenanceRepository
func NewGormMaintenanceRepository(db *gorm.DB) *GormMaintenanceRepository {
	return &GormMaintenanceRepository{db: db}
}

// FindByIDForTenant finds a maintenance record by ID within a tenant
func (r *GormMaintenanceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*equipment.MaintenanceRecord, error) {
	m, err := findOne[models.MaintenanceRecordModel](
		r.db.WithContext(ctx).Scopes(TenantScope(tenantID)).Where("id = ?", id), "maintenance record")
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAllForTenant lists maintenance records matching the filter
func (r *GormMaintenanceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]equipment.MaintenanceRecord, error) {
	var rows []models.MaintenanceRecordModel
	q := maintenanceList.where(r.db.WithContext(ctx).Scopes(TenantScope(tenantID)), filter)
	if err := maintenanceList.page(q, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]equipment.MaintenanceRecord, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountForTenant counts maintenance records matching the filter
func (r *GormMaintenanceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	q := maintenanceList.where(r.db.WithContext(ctx).Model(&models.MaintenanceRecordModel{}).Scopes(TenantScope(tenantID)), filter)
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountOpenByEquipment counts scheduled and in-progress jobs of one equipment
func (r *GormMaintenanceRepository) CountOpenByEquipment(ctx context.Context, tenantID, equipmentID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.MaintenanceRecordModel{}).
		Where("tenant_id = ? AND equipment_id = ? AND status IN ?", tenantID, equipmentID,
			[]string{string(equipment.MaintenanceStatusScheduled), string(equipment.MaintenanceStatusInProgress)}).
		Count(&count).Error
	return count, err
}

// Save creates or overwrites a maintenance record
func (r *GormMaintenanceRepository) Save(ctx context.Context, m *equipment.MaintenanceRecord) error {
	return r.save(ctx, m, false)
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormMaintenanceRepository) SaveWithLock(ctx context.Context, m *equipment.MaintenanceRecord) error {
	return r.save(ctx, m, true)
}

func (r *GormMaintenanceRepository) save(ctx context.Context, m *equipment.MaintenanceRecord, lock bool) error {
	if err := persistMaintenance(r.db.WithContext(ctx), m, lock); err != nil {
		return err
	}
	m.MarkPersisted()
	return nil
}

func persistMaintenance(tx *gorm.DB, m *equipment.MaintenanceRecord, lock bool) error {
	return persist(tx, m, m.TenantID, models.MaintenanceRecordModelFromDomain(m), lock, "maintenance record")
}

// SaveWithEquipment writes the record and its equipment in one transaction
func (r *GormMaintenanceRepository) SaveWithEquipment(ctx context.Context, m *equipment.MaintenanceRecord, e *equipment.Equipment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := persistMaintenance(tx, m, true); err != nil {
			return err
		}
		return persistEquipment(tx, e, true)
	})
	if err != nil {
		return err
	}
	m.MarkPersisted()
	e.MarkPersisted()
	return nil
}

// DeleteForTenant removes the row permanently
func (r *GormMaintenanceRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteForTenant(r.db.WithContext(ctx), &models.MaintenanceRecordModel{}, tenantID, id, "maintenance record")
}

var _ equipment.MaintenanceRepository = (*GormMaintenanceRepository)(nil)
