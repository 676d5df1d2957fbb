package persistence

import (
	"context"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/domain/wms"
	"github.com/erp/logistics/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var rackInventoryList = listSpec{
	searchColumns: []string{"rack_code", "slot", "part_code", "part_name", "lot_number"},
	filters: map[string]string{
		"rack_id": "rack_id = ?",
		"part_id": "part_id = ?",
		"status":  "status = ?",
	},
	sortFields:  RackInventorySortFields,
	defaultSort: "rack_code",
}

// GormRackInventoryRepository implements wms.RackInventoryRepository using GORM
type GormRackInventoryRepository struct {
	db *gorm.DB
}

// NewGormRackInventoryRepository creates a new GormRackInventoryRepository
func NewGormRackInventoryRepository(db *gorm.DB) *GormRackInventoryRepository {
	return &GormRackInventoryRepository{db: db}
}

// FindByIDForTenant finds an inventory record by ID within a tenant
func (r *GormRackInventoryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*wms.RackInventory, error) {
	m, err := findOne[models.RackInventoryModel](
		r.db.WithContext(ctx).Scopes(TenantScope(tenantID)).Where("id = ?", id), "rack inventory")
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAllForTenant lists inventory records. Empty records are hidden unless a status filter asks for them.
func (r *GormRackInventoryRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]wms.RackInventory, error) {
	var rows []models.RackInventoryModel
	q := r.listQuery(r.db.WithContext(ctx).Scopes(TenantScope(tenantID)), filter)
	if err := rackInventoryList.page(q, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]wms.RackInventory, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountForTenant counts inventory records matching the filter
func (r *GormRackInventoryRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	q := r.listQuery(r.db.WithContext(ctx).Model(&models.RackInventoryModel{}).Scopes(TenantScope(tenantID)), filter)
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormRackInventoryRepository) listQuery(q *gorm.DB, filter shared.Filter) *gorm.DB {
	q = rackInventoryList.where(q, filter)
	if _, ok := filter.Filters["status"]; !ok {
		q = q.Where("status <> ?", wms.InventoryStatusEmpty)
	}
	return q
}

// FindSlotLot returns the record of a part lot in a slot, including empty ones
func (r *GormRackInventoryRepository) FindSlotLot(ctx context.Context, tenantID, rackID uuid.UUID, slot string, partID uuid.UUID, lotNumber string) (*wms.RackInventory, error) {
	m, err := findOne[models.RackInventoryModel](
		r.db.WithContext(ctx).Scopes(TenantScope(tenantID)).
			Where("rack_id = ? AND slot = ? AND part_id = ? AND lot_number = ?", rackID, slot, partID, lotNumber).
			Order("updated_at DESC"),
		"rack inventory")
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// IsSlotOccupied reports whether a non-empty record other than exclude holds the slot
func (r *GormRackInventoryRepository) IsSlotOccupied(ctx context.Context, tenantID, rackID uuid.UUID, slot string, exclude uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx), &models.RackInventoryModel{},
		"tenant_id = ? AND rack_id = ? AND slot = ? AND status <> ? AND id <> ?",
		tenantID, rackID, slot, wms.InventoryStatusEmpty, exclude)
}

type partStockRow struct {
	PartID      uuid.UUID
	PartCode    string
	PartName    string
	Quantity    decimal.Decimal
	RackCount   int64
	SafetyStock decimal.Decimal
}

// SumByPart totals stored quantities per part. An empty partIDs covers every part.
func (r *GormRackInventoryRepository) SumByPart(ctx context.Context, tenantID uuid.UUID, partIDs []uuid.UUID) ([]wms.PartStock, error) {
	var rows []partStockRow
	q := r.db.WithContext(ctx).
		Table("rack_inventories AS ri").
		Select("ri.part_id, ri.part_code, ri.part_name, "+
			"COALESCE(SUM(ri.quantity), 0) AS quantity, COUNT(DISTINCT ri.rack_id) AS rack_count, "+
			"COALESCE(MAX(pm.safety_stock), 0) AS safety_stock").
		Joins("LEFT JOIN part_masters AS pm ON pm.id = ri.part_id").
		Where("ri.tenant_id = ? AND ri.status <> ?", tenantID, wms.InventoryStatusEmpty)
	if len(partIDs) > 0 {
		q = q.Where("ri.part_id IN ?", partIDs)
	}
	if err := q.Group("ri.part_id, ri.part_code, ri.part_name").Order("ri.part_code").Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]wms.PartStock, len(rows))
	for i, row := range rows {
		out[i] = wms.PartStock(row)
	}
	return out, nil
}

// LowStock lists active parts with a safety stock whose stored quantity is under it.
// Parts with nothing stored count as zero.
func (r *GormRackInventoryRepository) LowStock(ctx context.Context, tenantID uuid.UUID) ([]wms.PartStock, error) {
	db := r.db.WithContext(ctx)
	stored := db.Table("rack_inventories").
		Select("part_id, SUM(quantity) AS quantity, COUNT(DISTINCT rack_id) AS rack_count").
		Where("tenant_id = ? AND status <> ?", tenantID, wms.InventoryStatusEmpty).
		Group("part_id")

	var rows []partStockRow
	err := db.Table("part_masters AS pm").
		Select("pm.id AS part_id, pm.part_code, pm.part_name, "+
			"COALESCE(s.quantity, 0) AS quantity, COALESCE(s.rack_count, 0) AS rack_count, "+
			"pm.safety_stock").
		Joins("LEFT JOIN (?) AS s ON s.part_id = pm.id", stored).
		Where("pm.tenant_id = ? AND pm.is_active = ? AND pm.safety_stock > 0", tenantID, true).
		Where("COALESCE(s.quantity, 0) < pm.safety_stock").
		Order("pm.part_code").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]wms.PartStock, len(rows))
	for i, row := range rows {
		out[i] = wms.PartStock(row)
	}
	return out, nil
}

// Save creates or overwrites an inventory record
func (r *GormRackInventoryRepository) Save(ctx context.Context, inventory *wms.RackInventory) error {
	return r.save(ctx, inventory, false)
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormRackInventoryRepository) SaveWithLock(ctx context.Context, inventory *wms.RackInventory) error {
	return r.save(ctx, inventory, true)
}

func (r *GormRackInventoryRepository) save(ctx context.Context, inventory *wms.RackInventory, lock bool) error {
	model := models.RackInventoryModelFromDomain(inventory)
	if err := persist(r.db.WithContext(ctx), inventory, inventory.TenantID, model, lock,
		"rack inventory "+inventory.RackCode+"/"+inventory.Slot); err != nil {
		return err
	}
	inventory.MarkPersisted()
	return nil
}

// Transaction runs fn with rack and inventory repositories bound to one transaction
func (r *GormRackInventoryRepository) Transaction(ctx context.Context, fn func(tx wms.InventoryTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormInventoryTx{db: tx})
	})
}

type gormInventoryTx struct {
	db *gorm.DB
}

func (t *gormInventoryTx) Racks() wms.RackMasterRepository {
	return NewGormRackMasterRepository(t.db)
}

func (t *gormInventoryTx) Inventory() wms.RackInventoryRepository {
	return NewGormRackInventoryRepository(t.db)
}

var _ wms.RackInventoryRepository = (*GormRackInventoryRepository)(nil)
