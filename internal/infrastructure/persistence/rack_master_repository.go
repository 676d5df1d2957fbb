package persistence

import (
	"context"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/domain/wms"
	"github.com/erp/logistics/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var rackMasterList = listSpec{
	searchColumns: []string{"rack_code", "rack_name", "zone"},
	filters: map[string]string{
		"location_id": "location_id = ?",
		"zone":        "zone = ?",
		"status":      "status = ?",
	},
	sortFields:  RackMasterSortFields,
	defaultSort: "rack_code",
	activatable: true,
}

// GormRackMasterRepository implements wms.RackMasterRepository using GORM
type GormRackMasterRepository struct {
	db *gorm.DB
}

// NewGormRackMasterRepository creates a new GormRackMasterRepository
func NewGormRackMasterRepository(db *gorm.DB) *GormRackMasterRepository {
	return &GormRackMasterRepository{db: db}
}

// FindByIDForTenant finds a rack by ID within a tenant
func (r *GormRackMasterRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*wms.RackMaster, error) {
	m, err := findOne[models.RackMasterModel](
		r.db.WithContext(ctx).Scopes(TenantScope(tenantID)).Where("id = ?", id), "rack")
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAllForTenant lists racks matching the filter
func (r *GormRackMasterRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]wms.RackMaster, error) {
	var rows []models.RackMasterModel
	q := rackMasterList.where(r.db.WithContext(ctx).Scopes(TenantScope(tenantID)), filter)
	if err := rackMasterList.page(q, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]wms.RackMaster, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountForTenant counts racks matching the filter
func (r *GormRackMasterRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	q := rackMasterList.where(r.db.WithContext(ctx).Model(&models.RackMasterModel{}).Scopes(TenantScope(tenantID)), filter)
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks code uniqueness, counting inactive rows too
func (r *GormRackMasterRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	return exists(r.db.WithContext(ctx), &models.RackMasterModel{},
		"tenant_id = ? AND rack_code = ?", tenantID, upperCode(code))
}

// CountByLocation counts active racks placed in a location
func (r *GormRackMasterRepository) CountByLocation(ctx context.Context, tenantID, locationID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.RackMasterModel{}).
		Where("tenant_id = ? AND location_id = ? AND is_active = ?", tenantID, locationID, true).
		Count(&count).Error
	return count, err
}

// Save creates or overwrites a rack
func (r *GormRackMasterRepository) Save(ctx context.Context, rack *wms.RackMaster) error {
	return r.save(ctx, rack, false)
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormRackMasterRepository) SaveWithLock(ctx context.Context, rack *wms.RackMaster) error {
	return r.save(ctx, rack, true)
}

func (r *GormRackMasterRepository) save(ctx context.Context, rack *wms.RackMaster, lock bool) error {
	model := models.RackMasterModelFromDomain(rack)
	if err := persist(r.db.WithContext(ctx), rack, rack.TenantID, model, lock, "rack "+rack.RackCode); err != nil {
		return err
	}
	rack.MarkPersisted()
	return nil
}

// DeleteForTenant removes the row permanently
func (r *GormRackMasterRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteForTenant(r.db.WithContext(ctx), &models.RackMasterModel{}, tenantID, id, "rack")
}

var _ wms.RackMasterRepository = (*GormRackMasterRepository)(nil)
