package persistence

import (
	"context"
	"strings"

	"github.com/erp/logistics/internal/domain/identity"
	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var userList = listSpec{
	searchColumns: []string{"username", "display_name"},
	filters: map[string]string{
		"role": "role = ?",
	},
	sortFields:  UserSortFields,
	defaultSort: "username",
	activatable: true,
}

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByIDForTenant finds a user by ID within a tenant
func (r *GormUserRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	m, err := findOne[models.UserModel](
		r.db.WithContext(ctx).Scopes(TenantScope(tenantID)).Where("id = ?", id), "user")
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByUsername looks the user up within the tenant, inactive users included
func (r *GormUserRepository) FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*identity.User, error) {
	m, err := findOne[models.UserModel](
		r.db.WithContext(ctx).Scopes(TenantScope(tenantID)).Where("username = ?", normalizeUsername(username)), "user")
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAllForTenant lists users matching the filter
func (r *GormUserRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.User, error) {
	var rows []models.UserModel
	q := userList.where(r.db.WithContext(ctx).Scopes(TenantScope(tenantID)), filter)
	if err := userList.page(q, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]identity.User, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountForTenant counts users matching the filter
func (r *GormUserRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	q := userList.where(r.db.WithContext(ctx).Model(&models.UserModel{}).Scopes(TenantScope(tenantID)), filter)
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByUsername checks username uniqueness within a tenant
func (r *GormUserRepository) ExistsByUsername(ctx context.Context, tenantID uuid.UUID, username string) (bool, error) {
	return exists(r.db.WithContext(ctx), &models.UserModel{},
		"tenant_id = ? AND username = ?", tenantID, normalizeUsername(username))
}

// CountAll counts users across tenants
func (r *GormUserRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserModel{}).Count(&count).Error
	return count, err
}

// ActiveTenantIDs lists the tenants that still have an active user
func (r *GormUserRepository) ActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("is_active = ?", true).
		Distinct().
		Pluck("tenant_id", &ids).Error
	return ids, err
}

// Save creates or overwrites a user
func (r *GormUserRepository) Save(ctx context.Context, u *identity.User) error {
	return r.save(ctx, u, false)
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormUserRepository) SaveWithLock(ctx context.Context, u *identity.User) error {
	return r.save(ctx, u, true)
}

func (r *GormUserRepository) save(ctx context.Context, u *identity.User, lock bool) error {
	if err := persist(r.db.WithContext(ctx), u, u.TenantID, models.UserModelFromDomain(u), lock, "user "+u.Username); err != nil {
		return err
	}
	u.MarkPersisted()
	return nil
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

var _ identity.UserRepository = (*GormUserRepository)(nil)
