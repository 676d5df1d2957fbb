package wms

import (
	"time"

	"github.com/erp/logistics/internal/application/common"
	"github.com/erp/logistics/internal/domain/wms"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Locations
// =============================================================================

// CreateLocationRequest represents a request to create a WMS location
type CreateLocationRequest struct {
	LocationCode string     `json:"location_code" binding:"required,min=1,max=50"`
	Name         string     `json:"name" binding:"required,min=1,max=100"`
	Type         string     `json:"type" binding:"required,oneof=warehouse zone dock staging yard"`
	ParentID     *uuid.UUID `json:"parent_id"`
	Address      string     `json:"address" binding:"max=300"`
	Capacity     int        `json:"capacity" binding:"min=0"`
	Description  string     `json:"description" binding:"max=1000"`
}

// UpdateLocationRequest edits a location. Nil fields keep their value.
type UpdateLocationRequest struct {
	Name        *string    `json:"name" binding:"omitempty,min=1,max=100"`
	Type        *string    `json:"type" binding:"omitempty,oneof=warehouse zone dock staging yard"`
	Status      *string    `json:"status" binding:"omitempty,oneof=active inactive"`
	ParentID    *uuid.UUID `json:"parent_id"`
	Address     *string    `json:"address" binding:"omitempty,max=300"`
	Capacity    *int       `json:"capacity" binding:"omitempty,min=0"`
	Description *string    `json:"description" binding:"omitempty,max=1000"`
}

// LocationListFilter is the list query of locations
type LocationListFilter struct {
	common.ListQuery
	Type     string     `form:"type" binding:"omitempty,oneof=warehouse zone dock staging yard"`
	Status   string     `form:"status" binding:"omitempty,oneof=active inactive"`
	ParentID *uuid.UUID `form:"parent_id"`
}

// LocationResponse represents a WMS location in API responses
type LocationResponse struct {
	ID           uuid.UUID  `json:"id"`
	LocationCode string     `json:"location_code"`
	Name         string     `json:"name"`
	Type         string     `json:"type"`
	ParentID     *uuid.UUID `json:"parent_id,omitempty"`
	Address      string     `json:"address"`
	Capacity     int        `json:"capacity"`
	Status       string     `json:"status"`
	Description  string     `json:"description"`
	IsActive     bool       `json:"is_active"`
	Version      int        `json:"version"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ToLocationResponse converts a domain location to a response
func ToLocationResponse(l *wms.WMSLocation) LocationResponse {
	return LocationResponse{
		ID:           l.ID,
		LocationCode: l.LocationCode,
		Name:         l.Name,
		Type:         string(l.Type),
		ParentID:     l.ParentID,
		Address:      l.Address,
		Capacity:     l.Capacity,
		Status:       string(l.Status),
		Description:  l.Description,
		IsActive:     l.IsActive,
		Version:      l.Version,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

// =============================================================================
// Parts
// =============================================================================

// CreatePartRequest represents a request to register a part
type CreatePartRequest struct {
	PartCode      string          `json:"part_code" binding:"required,min=1,max=50"`
	PartName      string          `json:"part_name" binding:"required,min=1,max=200"`
	Specification string          `json:"specification" binding:"max=500"`
	Category      string          `json:"category" binding:"max=100"`
	Unit          string          `json:"unit" binding:"max=20"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	SafetyStock   decimal.Decimal `json:"safety_stock"`
	SupplierID    *uuid.UUID      `json:"supplier_id"`
	Remark        string          `json:"remark" binding:"max=1000"`
}

// UpdatePartRequest edits a part. Nil fields keep their value.
type UpdatePartRequest struct {
	PartName      *string          `json:"part_name" binding:"omitempty,min=1,max=200"`
	Specification *string          `json:"specification" binding:"omitempty,max=500"`
	Category      *string          `json:"category" binding:"omitempty,max=100"`
	Unit          *string          `json:"unit" binding:"omitempty,max=20"`
	UnitPrice     *decimal.Decimal `json:"unit_price"`
	SafetyStock   *decimal.Decimal `json:"safety_stock"`
	SupplierID    *uuid.UUID       `json:"supplier_id"`
	Status        *string          `json:"status" binding:"omitempty,oneof=active inactive discontinued"`
	Remark        *string          `json:"remark" binding:"omitempty,max=1000"`
}

// PartListFilter is the list query of parts
type PartListFilter struct {
	common.ListQuery
	Category   string     `form:"category" binding:"omitempty,max=100"`
	Status     string     `form:"status" binding:"omitempty,oneof=active inactive discontinued"`
	SupplierID *uuid.UUID `form:"supplier_id"`
}

// PartResponse represents a part in API responses
type PartResponse struct {
	ID            uuid.UUID       `json:"id"`
	PartCode      string          `json:"part_code"`
	PartName      string          `json:"part_name"`
	Specification string          `json:"specification"`
	Category      string          `json:"category"`
	Unit          string          `json:"unit"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	SafetyStock   decimal.Decimal `json:"safety_stock"`
	SupplierID    *uuid.UUID      `json:"supplier_id,omitempty"`
	Status        string          `json:"status"`
	Remark        string          `json:"remark"`
	IsActive      bool            `json:"is_active"`
	Version       int             `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToPartResponse converts a domain part to a response
func ToPartResponse(p *wms.PartMaster) PartResponse {
	return PartResponse{
		ID:            p.ID,
		PartCode:      p.PartCode,
		PartName:      p.PartName,
		Specification: p.Specification,
		Category:      p.Category,
		Unit:          p.Unit,
		UnitPrice:     p.UnitPrice,
		SafetyStock:   p.SafetyStock,
		SupplierID:    p.SupplierID,
		Status:        string(p.Status),
		Remark:        p.Remark,
		IsActive:      p.IsActive,
		Version:       p.Version,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// =============================================================================
// Racks
// =============================================================================

// CreateRackRequest represents a request to register a rack
type CreateRackRequest struct {
	RackCode   string    `json:"rack_code" binding:"required,min=1,max=50"`
	RackName   string    `json:"rack_name" binding:"required,min=1,max=100"`
	LocationID uuid.UUID `json:"location_id" binding:"required"`
	Zone       string    `json:"zone" binding:"max=50"`
	Rows       int       `json:"rows" binding:"min=0"`
	Columns    int       `json:"columns" binding:"min=0"`
	Levels     int       `json:"levels" binding:"min=0"`
	Capacity   int       `json:"capacity" binding:"min=0"`
	Remark     string    `json:"remark" binding:"max=1000"`
}

// UpdateRackRequest edits a rack. Nil fields keep their value.
type UpdateRackRequest struct {
	RackName   *string    `json:"rack_name" binding:"omitempty,min=1,max=100"`
	LocationID *uuid.UUID `json:"location_id"`
	Zone       *string    `json:"zone" binding:"omitempty,max=50"`
	Rows       *int       `json:"rows" binding:"omitempty,min=0"`
	Columns    *int       `json:"columns" binding:"omitempty,min=0"`
	Levels     *int       `json:"levels" binding:"omitempty,min=0"`
	Capacity   *int       `json:"capacity" binding:"omitempty,min=0"`
	Remark     *string    `json:"remark" binding:"omitempty,max=1000"`
}

// RackListFilter is the list query of racks
type RackListFilter struct {
	common.ListQuery
	LocationID *uuid.UUID `form:"location_id"`
	Zone       string     `form:"zone" binding:"omitempty,max=50"`
	Status     string     `form:"status" binding:"omitempty,oneof=available full maintenance inactive"`
}

// RackResponse represents a rack in API responses
type RackResponse struct {
	ID                uuid.UUID `json:"id"`
	RackCode          string    `json:"rack_code"`
	RackName          string    `json:"rack_name"`
	LocationID        uuid.UUID `json:"location_id"`
	Zone              string    `json:"zone"`
	Rows              int       `json:"rows"`
	Columns           int       `json:"columns"`
	Levels            int       `json:"levels"`
	Capacity          int       `json:"capacity"`
	UsedCapacity      int       `json:"used_capacity"`
	AvailableCapacity int       `json:"available_capacity"`
	Status            string    `json:"status"`
	Remark            string    `json:"remark"`
	IsActive          bool      `json:"is_active"`
	Version           int       `json:"version"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ToRackResponse converts a domain rack to a response
func ToRackResponse(r *wms.RackMaster) RackResponse {
	return RackResponse{
		ID:                r.ID,
		RackCode:          r.RackCode,
		RackName:          r.RackName,
		LocationID:        r.LocationID,
		Zone:              r.Zone,
		Rows:              r.Rows,
		Columns:           r.Columns,
		Levels:            r.Levels,
		Capacity:          r.Capacity,
		UsedCapacity:      r.UsedCapacity,
		AvailableCapacity: r.AvailableCapacity(),
		Status:            string(r.Status),
		Remark:            r.Remark,
		IsActive:          r.IsActive,
		Version:           r.Version,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

// =============================================================================
// Rack inventory
// =============================================================================

// InboundRequest stores a part lot in a rack slot
type InboundRequest struct {
	RackID    uuid.UUID       `json:"rack_id" binding:"required"`
	Slot      string          `json:"slot" binding:"required,max=10"`
	PartID    uuid.UUID       `json:"part_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	LotNumber string          `json:"lot_number" binding:"max=50"`
	Remark    string          `json:"remark" binding:"max=500"`
}

// OutboundRequest takes quantity out of a record
type OutboundRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// MoveRequest relocates a record
type MoveRequest struct {
	RackID uuid.UUID `json:"rack_id" binding:"required"`
	Slot   string    `json:"slot" binding:"required,max=10"`
}

// InventoryListFilter is the list query of rack inventory
type InventoryListFilter struct {
	common.ListQuery
	RackID *uuid.UUID `form:"rack_id"`
	PartID *uuid.UUID `form:"part_id"`
	Status string     `form:"status" binding:"omitempty,oneof=stored reserved empty"`
}

// InventoryResponse represents a rack inventory record in API responses
type InventoryResponse struct {
	ID          uuid.UUID       `json:"id"`
	RackID      uuid.UUID       `json:"rack_id"`
	RackCode    string          `json:"rack_code"`
	Slot        string          `json:"slot"`
	PartID      uuid.UUID       `json:"part_id"`
	PartCode    string          `json:"part_code"`
	PartName    string          `json:"part_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	LotNumber   string          `json:"lot_number"`
	InboundDate time.Time       `json:"inbound_date"`
	Status      string          `json:"status"`
	Remark      string          `json:"remark"`
	Version     int             `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToInventoryResponse converts a domain record to a response
func ToInventoryResponse(i *wms.RackInventory) InventoryResponse {
	return InventoryResponse{
		ID:          i.ID,
		RackID:      i.RackID,
		RackCode:    i.RackCode,
		Slot:        i.Slot,
		PartID:      i.PartID,
		PartCode:    i.PartCode,
		PartName:    i.PartName,
		Quantity:    i.Quantity,
		LotNumber:   i.LotNumber,
		InboundDate: i.InboundDate,
		Status:      string(i.Status),
		Remark:      i.Remark,
		Version:     i.Version,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

// StockResponse is the stored quantity of one part
type StockResponse struct {
	PartID      uuid.UUID       `json:"part_id"`
	PartCode    string          `json:"part_code"`
	PartName    string          `json:"part_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	RackCount   int64           `json:"rack_count"`
	SafetyStock decimal.Decimal `json:"safety_stock"`
	IsLow       bool            `json:"is_low"`
}

// ToStockResponse converts a part stock summary
func ToStockResponse(s wms.PartStock) StockResponse {
	return StockResponse{
		PartID:      s.PartID,
		PartCode:    s.PartCode,
		PartName:    s.PartName,
		Quantity:    s.Quantity,
		RackCount:   s.RackCount,
		SafetyStock: s.SafetyStock,
		IsLow:       s.IsLow(),
	}
}
