package persistence

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TenantScope restricts a query to one tenant
func TenantScope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}

// listSpec describes how a table is searched, filtered and sorted
type listSpec struct {
	searchColumns []string
	// filters maps a Filter.Filters key to its condition, e.g. "status": "status = ?"
	filters     map[string]string
	sortFields  map[string]bool
	defaultSort string
	activatable bool
}

// where applies search, filters and the active flag
func (s listSpec) where(q *gorm.DB, f shared.Filter) *gorm.DB {
	if s.activatable && !f.IncludeInactive {
		q = q.Where("is_active = ?", true)
	}

	if search := strings.TrimSpace(f.Search); search != "" && len(s.searchColumns) > 0 {
		pattern := "%" + strings.ToLower(search) + "%"
		conds := make([]string, len(s.searchColumns))
		args := make([]any, len(s.searchColumns))
		for i, col := range s.searchColumns {
			conds[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = pattern
		}
		q = q.Where("("+strings.Join(conds, " OR ")+")", args...)
	}

	keys := make([]string, 0, len(f.Filters))
	for k := range f.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		cond, ok := s.filters[k]
		if !ok {
			continue
		}
		q = q.Where(cond, f.Filters[k])
	}
	return q
}

// page applies ordering and pagination
func (s listSpec) page(q *gorm.DB, f shared.Filter) *gorm.DB {
	f = f.Normalize()
	field := ValidateSortField(f.OrderBy, s.sortFields, s.defaultSort)
	return q.Order(field + " " + ValidateSortOrder(f.OrderDir)).
		Order("id").
		Offset(f.Offset()).
		Limit(f.PageSize)
}

// findOne loads a single model, turning a missing row into a not-found domain error
func findOne[M any](q *gorm.DB, resource string) (*M, error) {
	var m M
	if err := q.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(resource)
		}
		return nil, err
	}
	return &m, nil
}

// translateError maps driver errors to domain errors
func translateError(err error, resource string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.NewDomainError(shared.CodeAlreadyExists, resource+" already exists")
	}
	return err
}

// versioned is implemented by every aggregate through shared.BaseAggregateRoot
type versioned interface {
	GetID() uuid.UUID
	PersistedVersion() int
}

// persist inserts a never-stored aggregate or overwrites its row. With lock set the
// overwrite only succeeds while the row still carries the version the aggregate
// was loaded at; otherwise ErrConcurrencyConflict is returned. Associations are
// written by the caller.
func persist(tx *gorm.DB, agg versioned, tenantID uuid.UUID, model any, lock bool, resource string) error {
	if agg.PersistedVersion() == 0 {
		return translateError(tx.Omit(clause.Associations).Create(model).Error, resource)
	}

	q := tx.Model(model).
		Select("*").
		Omit(clause.Associations, "created_at", "created_by", "tenant_id").
		Where("tenant_id = ?", tenantID)
	if lock {
		q = q.Where("version = ?", agg.PersistedVersion())
	}
	res := q.Updates(model)
	if res.Error != nil {
		return translateError(res.Error, resource)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var n int64
	if err := tx.Model(model).Where("id = ? AND tenant_id = ?", agg.GetID(), tenantID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return shared.NewNotFoundError(resource)
	}
	return shared.ErrConcurrencyConflict
}

// replaceChildren swaps the child rows of a parent for the given set
func replaceChildren[C any](tx *gorm.DB, fkColumn string, parentID uuid.UUID, children []C) error {
	var zero C
	if err := tx.Where(fkColumn+" = ?", parentID).Delete(&zero).Error; err != nil {
		return err
	}
	if len(children) == 0 {
		return nil
	}
	return tx.Create(&children).Error
}

// deleteForTenant hard-deletes a row, reporting not found when nothing matched
func deleteForTenant(tx *gorm.DB, model any, tenantID, id uuid.UUID, resource string) error {
	res := tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.NewNotFoundError(resource)
	}
	return nil
}

// nextDocumentNumber returns the next PREFIX-YYYYMMDD-NNNN number of the day
func nextDocumentNumber(q *gorm.DB, model any, column string, tenantID uuid.UUID, prefix string, day time.Time) (string, error) {
	dayPrefix := fmt.Sprintf("%s-%s-", prefix, day.Format("20060102"))

	var last []string
	if err := q.Model(model).
		Where("tenant_id = ? AND "+column+" LIKE ?", tenantID, dayPrefix+"%").
		Order(column+" DESC").
		Limit(1).
		Pluck(column, &last).Error; err != nil {
		return "", err
	}

	var seq int64 = 1
	if len(last) > 0 {
		if n, err := strconv.ParseInt(strings.TrimPrefix(last[0], dayPrefix), 10, 64); err == nil {
			seq = n + 1
		}
	}
	return shared.FormatDocumentNumber(prefix, day, seq), nil
}

// exists reports whether any row matches the conditions
func exists(q *gorm.DB, model any, query string, args ...any) (bool, error) {
	var n int64
	if err := q.Model(model).Where(query, args...).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// upperCode normalizes master-data codes the way the domain stores them
func upperCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
