package persistence

import (
	"context"
	"time"

	"github.com/erp/logistics/internal/domain/sales"
	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var salesOrderList = listSpec{
	searchColumns: []string{"so_number", "customer_name"},
	filters: map[string]string{
		"status":      "status = ?",
		"customer_id": "customer_id = ?",
		"location_id": "location_id = ?",
		"from":        "created_at >= ?",
		"to":          "created_at <= ?",
	},
	sortFields:  SalesOrderSortFields,
	defaultSort: "created_at",
}

// GormSalesOrderRepository implements sales.SalesOrderRepository using GORM
type GormSalesOrderRepository struct {
	db *gorm.DB
}

// NewGormSalesOrderRepository creates a new GormSalesOrderRepository
func NewGormSalesOrderRepository(db *gorm.DB) *GormSalesOrderRepository {
	return &GormSalesOrderRepository{db: db}
}

func (r *GormSalesOrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("part_code").Order("id")
	})
}

// FindByIDForTenant finds a sales order with its items
func (r *GormSalesOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.SalesOrder, error) {
	m, err := findOne[models.SalesOrderModel](
		r.withItems(ctx).Scopes(TenantScope(tenantID)).Where("id = ?", id), "sales order")
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAllForTenant lists sales orders with their items
func (r *GormSalesOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]sales.SalesOrder, error) {
	var rows []models.SalesOrderModel
	q := salesOrderList.where(r.withItems(ctx).Scopes(TenantScope(tenantID)), filter)
	if err := salesOrderList.page(q, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]sales.SalesOrder, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountForTenant counts sales orders matching the filter
func (r *GormSalesOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	q := salesOrderList.where(r.db.WithContext(ctx).Model(&models.SalesOrderModel{}).Scopes(TenantScope(tenantID)), filter)
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or overwrites a sales order and its items
func (r *GormSalesOrderRepository) Save(ctx context.Context, order *sales.SalesOrder) error {
	return r.save(ctx, order, false)
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormSalesOrderRepository) SaveWithLock(ctx context.Context, order *sales.SalesOrder) error {
	return r.save(ctx, order, true)
}

func (r *GormSalesOrderRepository) save(ctx context.Context, order *sales.SalesOrder, lock bool) error {
	model := models.SalesOrderModelFromDomain(order)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := persist(tx, order, order.TenantID, model, lock, "sales order "+order.SONumber); err != nil {
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
func (r *GormSalesOrderRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteForTenant(tx, &models.SalesOrderModel{}, tenantID, id, "sales order"); err != nil {
			return err
		}
		return tx.Where("order_id = ?", id).Delete(&models.SalesOrderItemModel{}).Error
	})
}

// GenerateSONumber returns the next SO-YYYYMMDD-NNNN number
func (r *GormSalesOrderRepository) GenerateSONumber(ctx context.Context, tenantID uuid.UUID, day time.Time) (string, error) {
	return nextDocumentNumber(r.db.WithContext(ctx), &models.SalesOrderModel{}, "so_number", tenantID, "SO", day)
}

var _ sales.SalesOrderRepository = (*GormSalesOrderRepository)(nil)
