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

var accountPayableList = ledgerList(AccountPayableSortFields, "ap_number", "po_number", "supplier_name")

// GormAccountPayableRepository implements finance.AccountPayableRepository using GORM
type GormAccountPayableRepository struct {
	db *gorm.DB
}

// NewGormAccountPayableRepository creates a new GormAccountPayableRepository
func NewGormAccountPayableRepository(db *gorm.DB) *GormAccountPayableRepository {
	return &GormAccountPayableRepository{db: db}
}

func (r *GormAccountPayableRepository) withPayments(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Payments", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at")
	})
}

// FindByIDForTenant finds a payable with its payments
func (r *GormAccountPayableRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.AccountPayable, error) {
	m, err := findOne[models.AccountPayableModel](
		r.withPayments(ctx).Scopes(TenantScope(tenantID)).Where("id = ?", id), "account payable")
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByPurchaseOrder finds the live (not cancelled) payable raised for a purchase order
func (r *GormAccountPayableRepository) FindByPurchaseOrder(ctx context.Context, tenantID, purchaseOrderID uuid.UUID) (*finance.AccountPayable, error) {
	m, err := findOne[models.AccountPayableModel](
		r.withPayments(ctx).Scopes(TenantScope(tenantID)).Where("purchase_order_id = ? AND status <> ?", purchaseOrderID, finance.DocumentStatusCancelled), "account payable")
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAllForTenant lists payables matching the filter
func (r *GormAccountPayableRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.AccountPayable, error) {
	var rows []models.AccountPayableModel
	q := accountPayableList.where(r.withPayments(ctx).Scopes(TenantScope(tenantID)), filter)
	if err := accountPayableList.page(q, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	return payablesToDomain(rows), nil
}

// CountForTenant counts payables matching the filter
func (r *GormAccountPayableRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	q := accountPayableList.where(r.db.WithContext(ctx).Model(&models.AccountPayableModel{}).Scopes(TenantScope(tenantID)), filter)
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindOverdue lists open payables past due at asOf, oldest first
func (r *GormAccountPayableRepository) FindOverdue(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]finance.AccountPayable, error) {
	var rows []models.AccountPayableModel
	if err := r.withPayments(ctx).Scopes(overdueScope(tenantID, asOf)).Order("due_date").Find(&rows).Error; err != nil {
		return nil, err
	}
	return payablesToDomain(rows), nil
}

// SummarizeByStatus totals payables per payment status
func (r *GormAccountPayableRepository) SummarizeByStatus(ctx context.Context, tenantID uuid.UUID) ([]finance.StatusSummary, error) {
	return summarize(r.db.WithContext(ctx), &models.AccountPayableModel{}, tenantID)
}

// Save creates or overwrites a payable and appends new payments
func (r *GormAccountPayableRepository) Save(ctx context.Context, ap *finance.AccountPayable) error {
	return r.save(ctx, ap, false)
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormAccountPayableRepository) SaveWithLock(ctx context.Context, ap *finance.AccountPayable) error {
	return r.save(ctx, ap, true)
}

func (r *GormAccountPayableRepository) save(ctx context.Context, ap *finance.AccountPayable, lock bool) error {
	model := models.AccountPayableModelFromDomain(ap)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := persist(tx, ap, ap.TenantID, model, lock, "account payable "+ap.APNumber); err != nil {
			return err
		}
		return appendPayments(tx, model.Payments)
	})
	if err != nil {
		return err
	}
	ap.MarkPersisted()
	return nil
}

// GenerateAPNumber returns the next AP-YYYYMMDD-NNNN number
func (r *GormAccountPayableRepository) GenerateAPNumber(ctx context.Context, tenantID uuid.UUID, day time.Time) (string, error) {
	return nextDocumentNumber(r.db.WithContext(ctx), &models.AccountPayableModel{}, "ap_number", tenantID, "AP", day)
}

func payablesToDomain(rows []models.AccountPayableModel) []finance.AccountPayable {
	out := make([]finance.AccountPayable, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

var _ finance.AccountPayableRepository = (*GormAccountPayableRepository)(nil)
