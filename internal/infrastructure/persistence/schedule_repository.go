package persistence

import (
	"context"

	"github.com/erp/logistics/internal/domain/schedule"
	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var scheduleList = listSpec{
	searchColumns: []string{"title", "description", "project_name", "location"},
	filters: map[string]string{
		"category": "category = ?",
		"owner_id": "owner_id = ?",
		"from":     "end_date >= ?",
		"to":       "start_date <= ?",
	},
	sortFields:  ScheduleSortFields,
	defaultSort: "start_date",
	activatable: true,
}

// GormScheduleRepository implements schedule.ScheduleRepository using GORM
type GormScheduleRepository struct {
	db *gorm.DB
}

// NewGormScheduleRepository creates a new GormScheduleRepository
func NewGormScheduleRepository(db *gorm.DB) *GormScheduleRepository {
	return &GormScheduleRepository{db: db}
}

// FindByIDForTenant finds a schedule by ID within a tenant
func (r *GormScheduleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*schedule.Schedule, error) {
	m, err := findOne[models.ScheduleModel](
		r.db.WithContext(ctx).Scopes(TenantScope(tenantID)).Where("id = ?", id), "schedule")
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAllForTenant lists schedules matching the filter
func (r *GormScheduleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]schedule.Schedule, error) {
	var rows []models.ScheduleModel
	q := scheduleList.where(r.db.WithContext(ctx).Scopes(TenantScope(tenantID)), filter)
	if err := scheduleList.page(q, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	return schedulesToDomain(rows), nil
}

// CountForTenant counts schedules matching the filter
func (r *GormScheduleRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	q := scheduleList.where(r.db.WithContext(ctx).Model(&models.ScheduleModel{}).Scopes(TenantScope(tenantID)), filter)
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindInRange returns active schedules overlapping [q.From, q.To] ordered by start
func (r *GormScheduleRepository) FindInRange(ctx context.Context, tenantID uuid.UUID, q schedule.RangeQuery) ([]schedule.Schedule, error) {
	db := r.db.WithContext(ctx).
		Scopes(TenantScope(tenantID)).
		Where("is_active = ? AND start_date <= ? AND end_date >= ?", true, q.To, q.From)
	if q.Category != "" {
		db = db.Where("category = ?", q.Category)
	}
	if q.OwnerID != nil {
		db = db.Where("owner_id = ?", *q.OwnerID)
	}
	if q.ExcludeID != nil {
		db = db.Where("id <> ?", *q.ExcludeID)
	}

	var rows []models.ScheduleModel
	if err := db.Order("start_date").Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return schedulesToDomain(rows), nil
}

// Save creates or overwrites a schedule
func (r *GormScheduleRepository) Save(ctx context.Context, s *schedule.Schedule) error {
	return r.save(ctx, s, false)
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormScheduleRepository) SaveWithLock(ctx context.Context, s *schedule.Schedule) error {
	return r.save(ctx, s, true)
}

func (r *GormScheduleRepository) save(ctx context.Context, s *schedule.Schedule, lock bool) error {
	if err := persist(r.db.WithContext(ctx), s, s.TenantID, models.ScheduleModelFromDomain(s), lock, "schedule"); err != nil {
		return err
	}
	s.MarkPersisted()
	return nil
}

// DeleteForTenant removes the row permanently
func (r *GormScheduleRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteForTenant(r.db.WithContext(ctx), &models.ScheduleModel{}, tenantID, id, "schedule")
}

func schedulesToDomain(rows []models.ScheduleModel) []schedule.Schedule {
	out := make([]schedule.Schedule, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

var _ schedule.ScheduleRepository = (*GormScheduleRepository)(nil)
