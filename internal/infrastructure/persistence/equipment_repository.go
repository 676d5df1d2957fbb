package persistence

import (
	"context"
	"time"

	"github.com/erp/logistics/internal/domain/equipment"
	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var equipmentList = listSpec{
	searchColumns: []string{"equipment_code", "name", "model", "serial_number"},
	filters: map[string]string{
		"status":      "status = ?",
		"location_id": "location_id = ?",
		"due_before":  "next_maintenance_due <= ?",
	},
	sortFields:  EquipmentSortFields,
	defaultSort: "equipment_code",
	activatable: true,
}

// GormEquipmentRepository implements equipment.EquipmentRepository using GORM
type GormEquipmentRepository struct {
	db *gorm.DB
}

// NewGormEquipmentRepository creates a new GormEquipmentRepository
func NewGormEquipmentRepository(db *gorm.DB) *GormEquipmentRepository {
	return &GormEquipmentRepository{db: db}
}

// FindByIDForTenant finds equipment by ID within a tenant
func (r *GormEquipmentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*equipment.Equipment, error) {
	m, err := findOne[models.EquipmentModel](
		r.db.WithContext(ctx).Scopes(TenantScope(tenantID)).Where("id = ?", id), "equipment")
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByCode finds equipment by its code within a tenant
func (r *GormEquipmentRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*equipment.Equipment, error) {
	m, err := findOne[models.EquipmentModel](
		r.db.WithContext(ctx).Scopes(TenantScope(tenantID)).Where("equipment_code = ?", upperCode(code)), "equipment")
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAllForTenant lists equipment matching the filter
func (r *GormEquipmentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]equipment.Equipment, error) {
	var rows []models.EquipmentModel
	q := equipmentList.where(r.db.WithContext(ctx).Scopes(TenantScope(tenantID)), filter)
	if err := equipmentList.page(q, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	return equipmentToDomain(rows), nil
}

// CountForTenant counts equipment matching the filter
func (r *GormEquipmentRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	q := equipmentList.where(r.db.WithContext(ctx).Model(&models.EquipmentModel{}).Scopes(TenantScope(tenantID)), filter)
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindDue returns active, non-retired equipment due on or before asOf
func (r *GormEquipmentRepository) FindDue(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]equipment.Equipment, error) {
	var rows []models.EquipmentModel
	if err := r.db.WithContext(ctx).
		Scopes(TenantScope(tenantID)).
		Where("is_active = ? AND status <> ? AND next_maintenance_due IS NOT NULL AND next_maintenance_due <= ?",
			true, equipment.StatusRetired, asOf).
		Order("next_maintenance_due").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return equipmentToDomain(rows), nil
}

// ExistsByCode checks code uniqueness, counting inactive rows too
func (r *GormEquipmentRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	return exists(r.db.WithContext(ctx), &models.EquipmentModel{},
		"tenant_id = ? AND equipment_code = ?", tenantID, upperCode(code))
}

// Save creates or overwrites equipment
func (r *GormEquipmentRepository) Save(ctx context.Context, e *equipment.Equipment) error {
	return r.save(ctx, e, false)
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormEquipmentRepository) SaveWithLock(ctx context.Context, e *equipment.Equipment) error {
	return r.save(ctx, e, true)
}

func (r *GormEquipmentRepository) save(ctx context.Context, e *equipment.Equipment, lock bool) error {
	if err := persistEquipment(r.db.WithContext(ctx), e, lock); err != nil {
		return err
	}
	e.MarkPersisted()
	return nil
}

func persistEquipment(tx *gorm.DB, e *equipment.Equipment, lock bool) error {
	return persist(tx, e, e.TenantID, models.EquipmentModelFromDomain(e), lock, "equipment "+e.EquipmentCode)
}

// DeleteForTenant removes the row permanently
func (r *GormEquipmentRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteForTenant(r.db.WithContext(ctx), &models.EquipmentModel{}, tenantID, id, "equipment")
}

func equipmentToDomain(rows []models.EquipmentModel) []equipment.Equipment {
	out := make([]equipment.Equipment, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

var _ equipment.EquipmentRepository = (*GormEquipmentRepository)(nil)
