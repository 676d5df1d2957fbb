package persistence

import (
	"context"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/domain/wms"
	"github.com/erp/logistics/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var wmsLocationList = listSpec{
	searchColumns: []string{"location_code", "name", "address"},
	filters: map[string]string{
		"type":      "type = ?",
		"status":    "status = ?",
		"parent_id": "parent_id = ?",
	},
	sortFields:  WMSLocationSortFields,
	defaultSort: "location_code",
	activatable: true,
}

// GormWMSLocationRepository implements wms.WMSLocationRepository using GORM
type GormWMSLocationRepository struct {
	db *gorm.DB
}

// NewGormWMSLocationRepository creates a new GormWMSLocationRepository
func NewGormWMSLocationRepository(db *gorm.DB) *GormWMSLocationRepository {
	return &GormWMSLocationRepository{db: db}
}

// FindByIDForTenant finds a location by ID within a tenant
func (r *GormWMSLocationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*wms.WMSLocation, error) {
	m, err := findOne[models.WMSLocationModel](
		r.db.WithContext(ctx).Scopes(TenantScope(tenantID)).Where("id = ?", id), "location")
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAllForTenant lists locations matching the filter
func (r *GormWMSLocationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]wms.WMSLocation, error) {
	var rows []models.WMSLocationModel
	q := wmsLocationList.where(r.db.WithContext(ctx).Scopes(TenantScope(tenantID)), filter)
	if err := wmsLocationList.page(q, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]wms.WMSLocation, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountForTenant counts locations matching the filter
func (r *GormWMSLocationRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	q := wmsLocationList.where(r.db.WithContext(ctx).Model(&models.WMSLocationModel{}).Scopes(TenantScope(tenantID)), filter)
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks code uniqueness, counting inactive rows too
func (r *GormWMSLocationRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	return exists(r.db.WithContext(ctx), &models.WMSLocationModel{},
		"tenant_id = ? AND location_code = ?", tenantID, upperCode(code))
}

// Save creates or overwrites a location
func (r *GormWMSLocationRepository) Save(ctx context.Context, location *wms.WMSLocation) error {
	return r.save(ctx, location, false)
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormWMSLocationRepository) SaveWithLock(ctx context.Context, location *wms.WMSLocation) error {
	return r.save(ctx, location, true)
}

func (r *GormWMSLocationRepository) save(ctx context.Context, location *wms.WMSLocation, lock bool) error {
	model := models.WMSLocationModelFromDomain(location)
	if err := persist(r.db.WithContext(ctx), location, location.TenantID, model, lock, "location "+location.LocationCode); err != nil {
		return err
	}
	location.MarkPersisted()
	return nil
}

// DeleteForTenant removes the row permanently
func (r *GormWMSLocationRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteForTenant(r.db.WithContext(ctx), &models.WMSLocationModel{}, tenantID, id, "location")
}

var _ wms.WMSLocationRepository = (*GormWMSLocationRepository)(nil)
