package persistence

import (
	"context"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/domain/wms"
	"github.com/erp/logistics/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var partMasterList = listSpec{
	searchColumns: []string{"part_code", "part_name", "specification"},
	filters: map[string]string{
		"category":    "category = ?",
		"status":      "status = ?",
		"supplier_id": "supplier_id = ?",
	},
	sortFields:  PartMasterSortFields,
	defaultSort: "part_code",
	activatable: true,
}

// GormPartMasterRepository implements wms.PartMasterRepository using GORM
type GormPartMasterRepository struct {
	db *gorm.DB
}

// NewGormPartMasterRepository creates a new GormPartMasterRepository
func NewGormPartMasterRepository(db *gorm.DB) *GormPartMasterRepository {
	return &GormPartMasterRepository{db: db}
}

// FindByIDForTenant finds a part by ID within a tenant
func (r *GormPartMasterRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*wms.PartMaster, error) {
	m, err := findOne[models.PartMasterModel](
		r.db.WithContext(ctx).Scopes(TenantScope(tenantID)).Where("id = ?", id), "part")
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByCode finds a part by its code within a tenant
func (r *GormPartMasterRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*wms.PartMaster, error) {
	m, err := findOne[models.PartMasterModel](
		r.db.WithContext(ctx).Scopes(TenantScope(tenantID)).Where("part_code = ?", upperCode(code)), "part")
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAllForTenant lists parts matching the filter
func (r *GormPartMasterRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]wms.PartMaster, error) {
	var rows []models.PartMasterModel
	q := partMasterList.where(r.db.WithContext(ctx).Scopes(TenantScope(tenantID)), filter)
	if err := partMasterList.page(q, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]wms.PartMaster, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountForTenant counts parts matching the filter
func (r *GormPartMasterRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	q := partMasterList.where(r.db.WithContext(ctx).Model(&models.PartMasterModel{}).Scopes(TenantScope(tenantID)), filter)
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks code uniqueness, counting inactive rows too
func (r *GormPartMasterRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	return exists(r.db.WithContext(ctx), &models.PartMasterModel{},
		"tenant_id = ? AND part_code = ?", tenantID, upperCode(code))
}

// Save creates or overwrites a part
func (r *GormPartMasterRepository) Save(ctx context.Context, part *wms.PartMaster) error {
	return r.save(ctx, part, false)
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormPartMasterRepository) SaveWithLock(ctx context.Context, part *wms.PartMaster) error {
	return r.save(ctx, part, true)
}

func (r *GormPartMasterRepository) save(ctx context.Context, part *wms.PartMaster, lock bool) error {
	model := models.PartMasterModelFromDomain(part)
	if err := persist(r.db.WithContext(ctx), part, part.TenantID, model, lock, "part "+part.PartCode); err != nil {
		return err
	}
	part.MarkPersisted()
	return nil
}

// DeleteForTenant removes the row permanently
func (r *GormPartMasterRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteForTenant(r.db.WithContext(ctx), &models.PartMasterModel{}, tenantID, id, "part")
}

var _ wms.PartMasterRepository = (*GormPartMasterRepository)(nil)
