package models

import (
	"time"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/domain/wms"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WMSLocationModel is the persistence model for warehouse locations
type WMSLocationModel struct {
	TenantAggregateModel
	ActivatableModel
	LocationCode string     `gorm:"type:varchar(50);not null;uniqueIndex:idx_wms_locations_tenant_code,priority:2"`
	Name         string     `gorm:"type:varchar(200);not null"`
	Type         string     `gorm:"type:varchar(20);not null"`
	ParentID     *uuid.UUID `gorm:"type:uuid;index"`
	Address      string     `gorm:"type:varchar(500)"`
	Capacity     int        `gorm:"not null"`
	Status       string     `gorm:"type:varchar(20);not null"`
	Description  string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (WMSLocationModel) TableName() string {
	return "wms_locations"
}

// ToDomain converts the persistence model to a domain WMSLocation
func (m *WMSLocationModel) ToDomain() *wms.WMSLocation {
	return &wms.WMSLocation{
		TenantAggregateRoot: m.ToDomainRoot(),
		Activatable:         shared.Activatable{IsActive: m.IsActive},
		LocationCode:        m.LocationCode,
		Name:                m.Name,
		Type:                wms.LocationType(m.Type),
		ParentID:            m.ParentID,
		Address:             m.Address,
		Capacity:            m.Capacity,
		Status:              wms.LocationStatus(m.Status),
		Description:         m.Description,
	}
}

// WMSLocationModelFromDomain creates a persistence model from a domain WMSLocation
func WMSLocationModelFromDomain(l *wms.WMSLocation) *WMSLocationModel {
	m := &WMSLocationModel{
		ActivatableModel: ActivatableModel{IsActive: l.IsActive},
		LocationCode:     l.LocationCode,
		Name:             l.Name,
		Type:             string(l.Type),
		ParentID:         l.ParentID,
		Address:          l.Address,
		Capacity:         l.Capacity,
		Status:           string(l.Status),
		Description:      l.Description,
	}
	m.FromDomainTenantAggregateRoot(l.TenantAggregateRoot)
	return m
}

// PartMasterModel is the persistence model for parts
type PartMasterModel struct {
	TenantAggregateModel
	ActivatableModel
	PartCode      string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_part_masters_tenant_code,priority:2"`
	PartName      string          `gorm:"type:varchar(200);not null"`
	Specification string          `gorm:"type:varchar(500)"`
	Category      string          `gorm:"type:varchar(100);index"`
	Unit          string          `gorm:"type:varchar(20);not null"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SafetyStock   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SupplierID    *uuid.UUID      `gorm:"type:uuid;index"`
	Status        string          `gorm:"type:varchar(20);not null"`
	Remark        string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PartMasterModel) TableName() string {
	return "part_masters"
}

// ToDomain converts the persistence model to a domain PartMaster
func (m *PartMasterModel) ToDomain() *wms.PartMaster {
	return &wms.PartMaster{
		TenantAggregateRoot: m.ToDomainRoot(),
		Activatable:         shared.Activatable{IsActive: m.IsActive},
		PartCode:            m.PartCode,
		PartName:            m.PartName,
		Specification:       m.Specification,
		Category:            m.Category,
		Unit:                m.Unit,
		UnitPrice:           m.UnitPrice,
		SafetyStock:         m.SafetyStock,
		SupplierID:          m.SupplierID,
		Status:              wms.PartStatus(m.Status),
		Remark:              m.Remark,
	}
}

// PartMasterModelFromDomain creates a persistence model from a domain PartMaster
func PartMasterModelFromDomain(p *wms.PartMaster) *PartMasterModel {
	m := &PartMasterModel{
		ActivatableModel: ActivatableModel{IsActive: p.IsActive},
		PartCode:         p.PartCode,
		PartName:         p.PartName,
		Specification:    p.Specification,
		Category:         p.Category,
		Unit:             p.Unit,
		UnitPrice:        p.UnitPrice,
		SafetyStock:      p.SafetyStock,
		SupplierID:       p.SupplierID,
		Status:           string(p.Status),
		Remark:           p.Remark,
	}
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	return m
}

// RackMasterModel is the persistence model for racks
type RackMasterModel struct {
	TenantAggregateModel
	ActivatableModel
	RackCode     string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_rack_masters_tenant_code,priority:2"`
	RackName     string    `gorm:"type:varchar(200);not null"`
	LocationID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Zone         string    `gorm:"type:varchar(50)"`
	Rows         int       `gorm:"column:row_count;not null"`
	Columns      int       `gorm:"column:column_count;not null"`
	Levels       int       `gorm:"column:level_count;not null"`
	Capacity     int       `gorm:"not null"`
	UsedCapacity int       `gorm:"not null"`
	Status       string    `gorm:"type:varchar(20);not null"`
	Remark       string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (RackMasterModel) TableName() string {
	return "rack_masters"
}

// ToDomain converts the persistence model to a domain RackMaster
func (m *RackMasterModel) ToDomain() *wms.RackMaster {
	return &wms.RackMaster{
		TenantAggregateRoot: m.ToDomainRoot(),
		Activatable:         shared.Activatable{IsActive: m.IsActive},
		RackCode:            m.RackCode,
		RackName:            m.RackName,
		LocationID:          m.LocationID,
		Zone:                m.Zone,
		Rows:                m.Rows,
		Columns:             m.Columns,
		Levels:              m.Levels,
		Capacity:            m.Capacity,
		UsedCapacity:        m.UsedCapacity,
		Status:              wms.RackStatus(m.Status),
		Remark:              m.Remark,
	}
}

// RackMasterModelFromDomain creates a persistence model from a domain RackMaster
func RackMasterModelFromDomain(r *wms.RackMaster) *RackMasterModel {
	m := &RackMasterModel{
		ActivatableModel: ActivatableModel{IsActive: r.IsActive},
		RackCode:         r.RackCode,
		RackName:         r.RackName,
		LocationID:       r.LocationID,
		Zone:             r.Zone,
		Rows:             r.Rows,
		Columns:          r.Columns,
		Levels:           r.Levels,
		Capacity:         r.Capacity,
		UsedCapacity:     r.UsedCapacity,
		Status:           string(r.Status),
		Remark:           r.Remark,
	}
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	return m
}

// RackInventoryModel is the persistence model for stock held in a rack slot
type RackInventoryModel struct {
	TenantAggregateModel
	RackID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_rack_inventories_slot,priority:1"`
	RackCode    string          `gorm:"type:varchar(50);not null"`
	Slot        string          `gorm:"type:varchar(30);not null;index:idx_rack_inventories_slot,priority:2"`
	PartID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	PartCode    string          `gorm:"type:varchar(50);not null"`
	PartName    string          `gorm:"type:varchar(200);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LotNumber   string          `gorm:"type:varchar(50)"`
	InboundDate time.Time       `gorm:"not null"`
	Status      string          `gorm:"type:varchar(20);not null;index"`
	Remark      string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (RackInventoryModel) TableName() string {
	return "rack_inventories"
}

// ToDomain converts the persistence model to a domain RackInventory
func (m *RackInventoryModel) ToDomain() *wms.RackInventory {
	return &wms.RackInventory{
		TenantAggregateRoot: m.ToDomainRoot(),
		RackID:              m.RackID,
		RackCode:            m.RackCode,
		Slot:                m.Slot,
		PartID:              m.PartID,
		PartCode:            m.PartCode,
		PartName:            m.PartName,
		Quantity:            m.Quantity,
		LotNumber:           m.LotNumber,
		InboundDate:         m.InboundDate,
		Status:              wms.InventoryStatus(m.Status),
		Remark:              m.Remark,
	}
}

// RackInventoryModelFromDomain creates a persistence model from a domain RackInventory
func RackInventoryModelFromDomain(i *wms.RackInventory) *RackInventoryModel {
	m := &RackInventoryModel{
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
	}
	m.FromDomainTenantAggregateRoot(i.TenantAggregateRoot)
	return m
}
