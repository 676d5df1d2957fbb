package persistence

import (
	"context"

	"github.com/erp/logistics/internal/domain/partner"
	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var partnerList = listSpec{
	searchColumns: []string{"code", "name", "contact_name", "phone"},
	filters: map[string]string{
		// "both" partners qualify as supplier and customer
		"type": "(type = ? OR type = 'both')",
	},
	sortFields:  PartnerSortFields,
	defaultSort: "code",
	activatable: true,
}

// GormPartnerRepository implements partner.PartnerRepository using GORM
type GormPartnerRepository struct {
	db *gorm.DB
}

// NewGormPartnerRepository creates a new GormPartnerRepository
func NewGormPartnerRepository(db *gorm.DB) *GormPartnerRepository {
	return &GormPartnerRepository{db: db}
}

// FindByIDForTenant finds a partner by ID within a tenant
func (r *GormPartnerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Partner, error) {
	m, err := findOne[models.PartnerModel](
		r.db.WithContext(ctx).Scopes(TenantScope(tenantID)).Where("id = ?", id), "partner")
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByCode finds a partner by its code within a tenant
func (r *GormPartnerRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*partner.Partner, error) {
	m, err := findOne[models.PartnerModel](
		r.db.WithContext(ctx).Scopes(TenantScope(tenantID)).Where("code = ?", upperCode(code)), "partner")
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAllForTenant lists partners matching the filter
func (r *GormPartnerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Partner, error) {
	var rows []models.PartnerModel
	q := partnerList.where(r.db.WithContext(ctx).Scopes(TenantScope(tenantID)), filter)
	if err := partnerList.page(q, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]partner.Partner, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountForTenant counts partners matching the filter
func (r *GormPartnerRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	q := partnerList.where(r.db.WithContext(ctx).Model(&models.PartnerModel{}).Scopes(TenantScope(tenantID)), filter)
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks code uniqueness, counting inactive rows too
func (r *GormPartnerRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	return exists(r.db.WithContext(ctx), &models.PartnerModel{}, "tenant_id = ? AND code = ?", tenantID, upperCode(code))
}

// Save creates or overwrites a partner
func (r *GormPartnerRepository) Save(ctx context.Context, p *partner.Partner) error {
	return r.save(ctx, p, false)
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormPartnerRepository) SaveWithLock(ctx context.Context, p *partner.Partner) error {
	return r.save(ctx, p, true)
}

func (r *GormPartnerRepository) save(ctx context.Context, p *partner.Partner, lock bool) error {
	if err := persist(r.db.WithContext(ctx), p, p.TenantID, models.PartnerModelFromDomain(p), lock, "partner "+p.Code); err != nil {
		return err
	}
	p.MarkPersisted()
	return nil
}

// DeleteForTenant removes the row permanently
func (r *GormPartnerRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteForTenant(r.db.WithContext(ctx), &models.PartnerModel{}, tenantID, id, "partner")
}

var _ partner.PartnerRepository = (*GormPartnerRepository)(nil)
