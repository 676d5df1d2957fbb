package wms

import (
	"context"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/google/uuid"
)

// WMSLocationRepository defines persistence for locations
type WMSLocationRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*WMSLocation, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]WMSLocation, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	Save(ctx context.Context, location *WMSLocation) error
	SaveWithLock(ctx context.Context, location *WMSLocation) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// PartMasterRepository defines persistence for parts
type PartMasterRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PartMaster, error)
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*PartMaster, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PartMaster, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	Save(ctx context.Context, part *PartMaster) error
	SaveWithLock(ctx context.Context, part *PartMaster) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// RackMasterRepository defines persistence for racks
type RackMasterRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*RackMaster, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]RackMaster, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	CountByLocation(ctx context.Context, tenantID, locationID uuid.UUID) (int64, error)
	Save(ctx context.Context, rack *RackMaster) error
	SaveWithLock(ctx context.Context, rack *RackMaster) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// RackInventoryRepository defines persistence for rack inventory
type RackInventoryRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*RackInventory, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]RackInventory, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	// FindSlotLot returns the record of a part lot in a slot, including empty ones
	FindSlotLot(ctx context.Context, tenantID, rackID uuid.UUID, slot string, partID uuid.UUID, lotNumber string) (*RackInventory, error)
	// IsSlotOccupied reports whether a non-empty record other than exclude holds the slot
	IsSlotOccupied(ctx context.Context, tenantID, rackID uuid.UUID, slot string, exclude uuid.UUID) (bool, error)
	SumByPart(ctx context.Context, tenantID uuid.UUID, partIDs []uuid.UUID) ([]PartStock, error)
	// LowStock lists active parts stored under their safety stock, unstocked parts included
	LowStock(ctx context.Context, tenantID uuid.UUID) ([]PartStock, error)
	Save(ctx context.Context, inventory *RackInventory) error
	SaveWithLock(ctx context.Context, inventory *RackInventory) error
	// Transaction runs fn with repositories bound to one database transaction
	Transaction(ctx context.Context, fn func(tx InventoryTx) error) error
}

// InventoryTx exposes the repositories that inbound, outbound and move update together
type InventoryTx interface {
	Racks() RackMasterRepository
	Inventory() RackInventoryRepository
}
