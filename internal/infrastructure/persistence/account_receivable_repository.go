package persistence

import (
	"context"
	"time"

	"github.com/erp/logistics/internal/domain/finance"
	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var accountReceivableList = ledgerList(AccountReceivableSortFields, "ar_number", "so_number", "customer_name")

// GormAccountReceivableRepository implements finance.AccountReceivableRepository using GORM
type GormAccountReceivableRepository struct {
	db *gorm.DB
}

// NewGormAccountReceivableRepository creates a new GormAccountReceivableRepository
func NewGormAccountReceivableRepository(db *gorm.DB) *GormAccountReceivableRepository {
	return &GormAccountReceivableRepository{db: db}
}

func (r *GormAccountReceivableRepository) withPayments(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Payments", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at")
	})
}

// FindByIDForTenant finds a receivable with its payments
func (r *GormAccountReceivableRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.AccountReceivable, error) {
	m, err := findOne[models.AccountReceivableModel](
		r.withPayments(ctx).Scopes(TenantScope(tenantID)).Where("id = ?", id), "account receivable")
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindBySalesOrder finds the live (not cancelled) receivable raised for a sales order
func (r *GormAccountReceivableRepository) FindBySalesOrder(ctx context.Context, tenantID, salesOrderID uuid.UUID) (*finance.AccountReceivable, error) {
	m, err := findOne[models.AccountReceivableModel](
		r.withPayments(ctx).Scopes(TenantScope(tenantID)).Where("sales_order_id = ? AND status <> ?", salesOrderID, finance.DocumentStatusCancelled), "account receivable")
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAllForTenant lists receivables matching the filter
func (r *GormAccountReceivableRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.AccountReceivable, error) {
	var rows []models.AccountReceivableModel
	q := accountReceivableList.where(r.withPayments(ctx).Scopes(TenantScope(tenantID)), filter)
	if err := accountReceivableList.page(q, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	return receivablesToDomain(rows), nil
}

// CountForTenant counts receivables matching the filter
func (r *GormAccountReceivableRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	q := accountReceivableList.where(r.db.WithContext(ctx).Model(&models.AccountReceivableModel{}).Scopes(TenantScope(tenantID)), filter)
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindOverdue lists open receivables past due at asOf, oldest first
func (r *GormAccountReceivableRepository) FindOverdue(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]finance.AccountReceivable, error) {
	var rows []models.AccountReceivableModel
	if err := r.withPayments(ctx).Scopes(overdueScope(tenantID, asOf)).Order("due_date").Find(&rows).Error; err != nil {
		return nil, err
	}
	return receivablesToDomain(rows), nil
}

// SummarizeByStatus totals receivables per payment status
func (r *GormAccountReceivableRepository) SummarizeByStatus(ctx context.Context, tenantID uuid.UUID) ([]finance.StatusSummary, error) {
	return summarize(r.db.WithContext(ctx), &models.AccountReceivableModel{}, tenantID)
}

// Save creates or overwrites a receivable and appends new collections
func (r *GormAccountReceivableRepository) Save(ctx context.Context, ar *finance.AccountReceivable) error {
	return r.save(ctx, ar, false)
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormAccountReceivableRepository) SaveWithLock(ctx context.Context, ar *finance.AccountReceivable) error {
	return r.save(ctx, ar, true)
}

func (r *GormAccountReceivableRepository) save(ctx context.Context, ar *finance.AccountReceivable, lock bool) error {
	model := models.AccountReceivableModelFromDomain(ar)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := persist(tx, ar, ar.TenantID, model, lock, "account receivable "+ar.ARNumber); err != nil {
			return err
		}
		return appendPayments(tx, model.Payments)
	})
	if err != nil {
		return err
	}
	ar.MarkPersisted()
	return nil
}

// GenerateARNumber returns the next AR-YYYYMMDD-NNNN number
func (r *GormAccountReceivableRepository) GenerateARNumber(ctx context.Context, tenantID uuid.UUID, day time.Time) (string, error) {
	return nextDocumentNumber(r.db.WithContext(ctx), &models.AccountReceivableModel{}, "ar_number", tenantID, "AR", day)
}

func receivablesToDomain(rows []models.AccountReceivableModel) []finance.AccountReceivable {
	out := make([]finance.AccountReceivable, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

var _ finance.AccountReceivableRepository = (*GormAccountReceivableRepository)(nil)
