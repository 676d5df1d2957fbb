package persistence

import (
	"context"
	"time"

	"github.com/erp/logistics/internal/domain/purchasing"
	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var purchaseRequestList = listSpec{
	searchColumns: []string{"request_number", "requester_name", "department"},
	filters: map[string]string{
		"status":      "status = ?",
		"location_id": "location_id = ?",
		"from":        "created_at >= ?",
		"to":          "created_at <= ?",
	},
	sortFields:  PurchaseRequestSortFields,
	defaultSort: "created_at",
}

// GormPurchaseRequestRepository implements purchasing.PurchaseRequestRepository using GORM
type GormPurchaseRequestRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRequestRepository creates a new GormPurchaseRequestRepository
func NewGormPurchaseRequestRepository(db *gorm.DB) *GormPurchaseRequestRepository {
	return &GormPurchaseRequestRepository{db: db}
}

func (r *GormPurchaseRequestRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at").Order("id")
	})
}

// FindByIDForTenant finds a purchase request with its items
func (r *GormPurchaseRequestRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*purchasing.PurchaseRequest, error) {
	m, err := findOne[models.PurchaseRequestModel](
		r.withItems(ctx).Scopes(TenantScope(tenantID)).Where("id = ?", id), "purchase request")
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAllForTenant lists purchase requests with their items
func (r *GormPurchaseRequestRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]purchasing.PurchaseRequest, error) {
	var rows []models.PurchaseRequestModel
	q := purchaseRequestList.where(r.withItems(ctx).Scopes(TenantScope(tenantID)), filter)
	if err := purchaseRequestList.page(q, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]purchasing.PurchaseRequest, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountForTenant counts purchase requests matching the filter
func (r *GormPurchaseRequestRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	q := purchaseRequestList.where(r.db.WithContext(ctx).Model(&models.PurchaseRequestModel{}).Scopes(TenantScope(tenantID)), filter)
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or overwrites a purchase request and its items
func (r *GormPurchaseRequestRepository) Save(ctx context.Context, req *purchasing.PurchaseRequest) error {
	return r.save(ctx, req, false)
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormPurchaseRequestRepository) SaveWithLock(ctx context.Context, req *purchasing.PurchaseRequest) error {
	return r.save(ctx, req, true)
}

func (r *GormPurchaseRequestRepository) save(ctx context.Context, req *purchasing.PurchaseRequest, lock bool) error {
	model := models.PurchaseRequestModelFromDomain(req)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := persist(tx, req, req.TenantID, model, lock, "purchase request "+req.RequestNumber); err != nil {
			return err
		}
		return replaceChildren(tx, "request_id", req.ID, model.Items)
	})
	if err != nil {
		return err
	}
	req.MarkPersisted()
	return nil
}

// DeleteForTenant removes a request and its items
func (r *GormPurchaseRequestRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteForTenant(tx, &models.PurchaseRequestModel{}, tenantID, id, "purchase request"); err != nil {
			return err
		}
		return tx.Where("request_id = ?", id).Delete(&models.PurchaseRequestItemModel{}).Error
	})
}

// GenerateRequestNumber returns the next PR-YYYYMMDD-NNNN number
func (r *GormPurchaseRequestRepository) GenerateRequestNumber(ctx context.Context, tenantID uuid.UUID, day time.Time) (string, error) {
	return nextDocumentNumber(r.db.WithContext(ctx), &models.PurchaseRequestModel{}, "request_number", tenantID, "PR", day)
}

// Transaction runs fn with request and order repositories bound to one transaction
func (r *GormPurchaseRequestRepository) Transaction(ctx context.Context, fn func(tx purchasing.PurchasingTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormPurchasingTx{db: tx})
	})
}

type gormPurchasingTx struct {
	db *gorm.DB
}

func (t *gormPurchasingTx) PurchaseRequests() purchasing.PurchaseRequestRepository {
	return NewGormPurchaseRequestRepository(t.db)
}

func (t *gormPurchasingTx) PurchaseOrders() purchasing.PurchaseOrderRepository {
	return NewGormPurchaseOrderRepository(t.db)
}

var _ purchasing.PurchaseRequestRepository = (*GormPurchaseRequestRepository)(nil)
