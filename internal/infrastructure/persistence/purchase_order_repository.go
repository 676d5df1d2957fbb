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

var purchaseOrderList = listSpec{
	searchColumns: []string{"po_number", "supplier_name"},
	filters: map[string]string{
		"status":      "status = ?",
		"supplier_id": "supplier_id = ?",
		"location_id": "location_id = ?",
		"from":        "created_at >= ?",
		"to":          "created_at <= ?",
	},
	sortFields:  PurchaseOrderSortFields,
	defaultSort: "created_at",
}

// GormPurchaseOrderRepository implements purchasing.PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

func (r *GormPurchaseOrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at").Order("id")
	})
}

// FindByIDForTenant finds a purchase order with its items
func (r *GormPurchaseOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	m, err := findOne[models.PurchaseOrderModel](
		r.withItems(ctx).Scopes(TenantScope(tenantID)).Where("id = ?", id), "purchase order")
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByNumber finds a purchase order by its PO number
func (r *GormPurchaseOrderRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, poNumber string) (*purchasing.PurchaseOrder, error) {
	m, err := findOne[models.PurchaseOrderModel](
		r.withItems(ctx).Scopes(TenantScope(tenantID)).Where("po_number = ?", poNumber), "purchase order")
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAllForTenant lists purchase orders with their items
func (r *GormPurchaseOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]purchasing.PurchaseOrder, error) {
	var rows []models.PurchaseOrderModel
	q := purchaseOrderList.where(r.withItems(ctx).Scopes(TenantScope(tenantID)), filter)
	if err := purchaseOrderList.page(q, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]purchasing.PurchaseOrder, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountForTenant counts purchase orders matching the filter
func (r *GormPurchaseOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	q := purchaseOrderList.where(r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{}).Scopes(TenantScope(tenantID)), filter)
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or overwrites a purchase order and its items
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *purchasing.PurchaseOrder) error {
	return r.save(ctx, order, false)
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormPurchaseOrderRepository) SaveWithLock(ctx context.Context, order *purchasing.PurchaseOrder) error {
	return r.save(ctx, order, true)
}

func (r *GormPurchaseOrderRepository) save(ctx context.Context, order *purchasing.PurchaseOrder, lock bool) error {
	model := models.PurchaseOrderModelFromDomain(order)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := persist(tx, order, order.TenantID, model, lock, "purchase order "+order.PONumber); err != nil {
			return err
		}
		return replaceChildren(tx, "order_id", order.ID, model.Items)
	})
	if err != nil {
		return err
	}
	order.MarkPersisted()
	return nil
}

// DeleteForTenant removes an order and its items
func (r *GormPurchaseOrderRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteForTenant(tx, &models.PurchaseOrderModel{}, tenantID, id, "purchase order"); err != nil {
			return err
		}
		return tx.Where("order_id = ?", id).Delete(&models.PurchaseOrderItemModel{}).Error
	})
}

// GeneratePONumber returns the next PO-YYYYMMDD-NNNN number
func (r *GormPurchaseOrderRepository) GeneratePONumber(ctx context.Context, tenantID uuid.UUID, day time.Time) (string, error) {
	return nextDocumentNumber(r.db.WithContext(ctx), &models.PurchaseOrderModel{}, "po_number", tenantID, "PO", day)
}

var _ purchasing.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
