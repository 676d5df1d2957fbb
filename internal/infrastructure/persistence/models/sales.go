package models

import (
	"time"

	"github.com/erp/logistics/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesOrderModel is the persistence model for sales orders
type SalesOrderModel struct {
	TenantAggregateModel
	SONumber     string                `gorm:"column:so_number;type:varchar(50);not null;uniqueIndex:idx_sales_orders_tenant_number,priority:2"`
	CustomerID   uuid.UUID             `gorm:"type:uuid;not null;index"`
	CustomerName string                `gorm:"type:varchar(200);not null"`
	LocationID   *uuid.UUID            `gorm:"type:uuid;index"`
	Items        []SalesOrderItemModel `gorm:"foreignKey:OrderID;references:ID"`
	TotalAmount  decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	Status       string                `gorm:"type:varchar(20);not null;index"`
	DeliveryDate *time.Time
	Remark       string `gorm:"type:text"`
	ConfirmedAt  *time.Time
	ShippedAt    *time.Time
	CancelledAt  *time.Time
}

// TableName returns the table name for GORM
func (SalesOrderModel) TableName() string {
	return "sales_orders"
}

// SalesOrderItemModel is a sales order line
type SalesOrderItemModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	PartID    *uuid.UUID      `gorm:"type:uuid"`
	PartCode  string          `gorm:"type:varchar(50)"`
	PartName  string          `gorm:"type:varchar(200);not null"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Unit      string          `gorm:"type:varchar(20)"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (SalesOrderItemModel) TableName() string {
	return "sales_order_items"
}

// ToDomain converts the persistence model to a domain SalesOrder
func (m *SalesOrderModel) ToDomain() *sales.SalesOrder {
	order := &sales.SalesOrder{
		TenantAggregateRoot: m.ToDomainRoot(),
		SONumber:            m.SONumber,
		CustomerID:          m.CustomerID,
		CustomerName:        m.CustomerName,
		LocationID:          m.LocationID,
		TotalAmount:         m.TotalAmount,
		Status:              sales.SalesOrderStatus(m.Status),
		DeliveryDate:        m.DeliveryDate,
		Remark:              m.Remark,
		ConfirmedAt:         m.ConfirmedAt,
		ShippedAt:           m.ShippedAt,
		CancelledAt:         m.CancelledAt,
		Items:               make([]sales.SalesOrderItem, len(m.Items)),
	}
	for i, item := range m.Items {
		order.Items[i] = sales.SalesOrderItem{
			ID:        item.ID,
			PartID:    item.PartID,
			PartCode:  item.PartCode,
			PartName:  item.PartName,
			Quantity:  item.Quantity,
			Unit:      item.Unit,
			UnitPrice: item.UnitPrice,
			Amount:    item.Amount,
		}
	}
	return order
}

// SalesOrderModelFromDomain creates a persistence model from a domain SalesOrder
func SalesOrderModelFromDomain(o *sales.SalesOrder) *SalesOrderModel {
	m := &SalesOrderModel{
		SONumber:     o.SONumber,
		CustomerID:   o.CustomerID,
		CustomerName: o.CustomerName,
		LocationID:   o.LocationID,
		TotalAmount:  o.TotalAmount,
		Status:       string(o.Status),
		DeliveryDate: o.DeliveryDate,
		Remark:       o.Remark,
		ConfirmedAt:  o.ConfirmedAt,
		ShippedAt:    o.ShippedAt,
		CancelledAt:  o.CancelledAt,
		Items:        make([]SalesOrderItemModel, len(o.Items)),
	}
	m.FromDomainTenantAggregateRoot(o.TenantAggregateRoot)
	for i, item := range o.Items {
		m.Items[i] = SalesOrderItemModel{
			ID:        item.ID,
			OrderID:   o.ID,
			PartID:    item.PartID,
			PartCode:  item.PartCode,
			PartName:  item.PartName,
			Quantity:  item.Quantity,
			Unit:      item.Unit,
			UnitPrice: item.UnitPrice,
			Amount:    item.Amount,
		}
	}
	return m
}
