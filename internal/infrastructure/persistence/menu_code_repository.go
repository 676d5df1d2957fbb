package persistence

import (
	"context"

	"github.com/erp/logistics/internal/domain/menu"
	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var menuCodeList = listSpec{
	searchColumns: []string{"code", "name", "path"},
	filters: map[string]string{
		"section": "section = ?",
	},
	sortFields:  MenuCodeSortFields,
	defaultSort: "sort_order",
	activatable: true,
}

// GormMenuCodeRepository implements menu.MenuCodeRepository using GORM
type GormMenuCodeRepository struct {
	db *gorm.DB
}

// NewGormMenuCodeRepository creates a new GormMenuCodeRepository
func NewGormMenuCodeRepository(db *gorm.DB) *GormMenuCodeRepository {
	return &GormMenuCodeRepository{db: db}
}

// FindByIDForTenant finds a menu code by ID within a tenant, inactive ones included
func (r *GormMenuCodeRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*menu.MenuCode, error) {
	m, err := findOne[models.MenuCodeModel](
		r.db.WithContext(ctx).Scopes(TenantScope(tenantID)).Where("id = ?", id), "menu code")
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByCode finds a menu code by its code within a tenant
func (r *GormMenuCodeRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*menu.MenuCode, error) {
	m, err := findOne[models.MenuCodeModel](
		r.db.WithContext(ctx).Scopes(TenantScope(tenantID)).Where("code = ?", menu.NormalizeCode(code)), "menu code")
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAllForTenant lists menu codes matching the filter
func (r *GormMenuCodeRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]menu.MenuCode, error) {
	var rows []models.MenuCodeModel
	q := menuCodeList.where(r.db.WithContext(ctx).Scopes(TenantScope(tenantID)), filter)
	if err := menuCodeList.page(q, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	return menuCodesToDomain(rows), nil
}

// CountForTenant counts menu codes matching the filter
func (r *GormMenuCodeRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	q := menuCodeList.where(r.db.WithContext(ctx).Model(&models.MenuCodeModel{}).Scopes(TenantScope(tenantID)), filter)
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindActive returns every active menu code ordered for navigation
func (r *GormMenuCodeRepository) FindActive(ctx context.Context, tenantID uuid.UUID) ([]menu.MenuCode, error) {
	var rows []models.MenuCodeModel
	if err := r.db.WithContext(ctx).
		Scopes(TenantScope(tenantID)).
		Where("is_active = ?", true).
		Order("section").Order("sort_order").Order("code").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return menuCodesToDomain(rows), nil
}

// ExistsByCode checks code uniqueness, counting inactive rows too
func (r *GormMenuCodeRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	return exists(r.db.WithContext(ctx), &models.MenuCodeModel{},
		"tenant_id = ? AND code = ?", tenantID, menu.NormalizeCode(code))
}

// Save creates or overwrites a menu code
func (r *GormMenuCodeRepository) Save(ctx context.Context, code *menu.MenuCode) error {
	return r.save(ctx, code, false)
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormMenuCodeRepository) SaveWithLock(ctx context.Context, code *menu.MenuCode) error {
	return r.save(ctx, code, true)
}

func (r *GormMenuCodeRepository) save(ctx context.Context, code *menu.MenuCode, lock bool) error {
	model := models.MenuCodeModelFromDomain(code)
	if err := persist(r.db.WithContext(ctx), code, code.TenantID, model, lock, "menu code "+code.Code); err != nil {
		return err
	}
	code.MarkPersisted()
	return nil
}

// DeleteForTenant removes the row permanently
func (r *GormMenuCodeRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteForTenant(r.db.WithContext(ctx), &models.MenuCodeModel{}, tenantID, id, "menu code")
}

func menuCodesToDomain(rows []models.MenuCodeModel) []menu.MenuCode {
	out := make([]menu.MenuCode, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

var _ menu.MenuCodeRepository = (*GormMenuCodeRepository)(nil)
