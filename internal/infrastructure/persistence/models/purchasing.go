package models

import (
	"time"

	"github.com/erp/logistics/internal/domain/purchasing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemLineModel holds the columns shared by PR and PO lines
type ItemLineModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PartID    *uuid.UUID      `gorm:"type:uuid;index"`
	PartCode  string          `gorm:"type:varchar(50)"`
	PartName  string          `gorm:"type:varchar(200);not null"`
	Unit      string          `gorm:"type:varchar(20)"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Remark    string          `gorm:"type:varchar(500)"`
	CreatedAt time.Time       `gorm:"not null"`
	UpdatedAt time.Time       `gorm:"not null"`
}

func itemLineModelFromDomain(l purchasing.ItemLine) ItemLineModel {
	return ItemLineModel{
		ID:        l.ID,
		PartID:    l.PartID,
		PartCode:  l.PartCode,
		PartName:  l.PartName,
		Unit:      l.Unit,
		UnitPrice: l.UnitPrice,
		Remark:    l.Remark,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

func (m ItemLineModel) toDomain() purchasing.ItemLine {
	return purchasing.ItemLine{
		ID:        m.ID,
		PartID:    m.PartID,
		PartCode:  m.PartCode,
		PartName:  m.PartName,
		Unit:      m.Unit,
		UnitPrice: m.UnitPrice,
		Remark:    m.Remark,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// PurchaseRequestModel is the persistence model for purchase requests
type PurchaseRequestModel struct {
	TenantAggregateModel
	RequestNumber   string                     `gorm:"type:varchar(50);not null;uniqueIndex:idx_purchase_requests_tenant_number,priority:2"`
	RequesterID     *uuid.UUID                 `gorm:"type:uuid"`
	RequesterName   string                     `gorm:"type:varchar(100);not null"`
	Department      string                     `gorm:"type:varchar(100)"`
	LocationID      *uuid.UUID                 `gorm:"type:uuid;index"`
	Reason          string                     `gorm:"type:text"`
	RequiredDate    *time.Time
	Items           []PurchaseRequestItemModel `gorm:"foreignKey:RequestID;references:ID"`
	TotalAmount     decimal.Decimal            `gorm:"type:decimal(18,4);not null"`
	Status          string                     `gorm:"type:varchar(20);not null;index"`
	SubmittedAt     *time.Time
	ApprovedBy      *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt      *time.Time
	RejectedBy      *uuid.UUID `gorm:"type:uuid"`
	RejectedAt      *time.Time
	RejectionReason string     `gorm:"type:varchar(500)"`
	PurchaseOrderID *uuid.UUID `gorm:"type:uuid;index"`
	ConvertedAt     *time.Time
}

// TableName returns the table name for GORM
func (PurchaseRequestModel) TableName() string {
	return "purchase_requests"
}

// PurchaseRequestItemModel is a purchase request line
type PurchaseRequestItemModel struct {
	ItemLineModel
	RequestID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (PurchaseRequestItemModel) TableName() string {
	return "purchase_request_items"
}

// ToDomain converts the persistence model to a domain PurchaseRequest
func (m *PurchaseRequestModel) ToDomain() *purchasing.PurchaseRequest {
	req := &purchasing.PurchaseRequest{
		TenantAggregateRoot: m.ToDomainRoot(),
		RequestNumber:       m.RequestNumber,
		RequesterID:         m.RequesterID,
		RequesterName:       m.RequesterName,
		Department:          m.Department,
		LocationID:          m.LocationID,
		Reason:              m.Reason,
		RequiredDate:        m.RequiredDate,
		TotalAmount:         m.TotalAmount,
		Status:              purchasing.PurchaseRequestStatus(m.Status),
		SubmittedAt:         m.SubmittedAt,
		ApprovedBy:          m.ApprovedBy,
		ApprovedAt:          m.ApprovedAt,
		RejectedBy:          m.RejectedBy,
		RejectedAt:          m.RejectedAt,
		RejectionReason:     m.RejectionReason,
		PurchaseOrderID:     m.PurchaseOrderID,
		ConvertedAt:         m.ConvertedAt,
		Items:               make([]purchasing.PurchaseRequestItem, len(m.Items)),
	}
	for i, item := range m.Items {
		req.Items[i] = purchasing.PurchaseRequestItem{
			ItemLine: item.toDomain(),
			Quantity: item.Quantity,
			Amount:   item.Amount,
		}
	}
	return req
}

// PurchaseRequestModelFromDomain creates a persistence model from a domain PurchaseRequest
func PurchaseRequestModelFromDomain(r *purchasing.PurchaseRequest) *PurchaseRequestModel {
	m := &PurchaseRequestModel{
		RequestNumber:   r.RequestNumber,
		RequesterID:     r.RequesterID,
		RequesterName:   r.RequesterName,
		Department:      r.Department,
		LocationID:      r.LocationID,
		Reason:          r.Reason,
		RequiredDate:    r.RequiredDate,
		TotalAmount:     r.TotalAmount,
		Status:          string(r.Status),
		SubmittedAt:     r.SubmittedAt,
		ApprovedBy:      r.ApprovedBy,
		ApprovedAt:      r.ApprovedAt,
		RejectedBy:      r.RejectedBy,
		RejectedAt:      r.RejectedAt,
		RejectionReason: r.RejectionReason,
		PurchaseOrderID: r.PurchaseOrderID,
		ConvertedAt:     r.ConvertedAt,
		Items:           make([]PurchaseRequestItemModel, len(r.Items)),
	}
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	for i, item := range r.Items {
		m.Items[i] = PurchaseRequestItemModel{
			ItemLineModel: itemLineModelFromDomain(item.ItemLine),
			RequestID:     r.ID,
			Quantity:      item.Quantity,
			Amount:        item.Amount,
		}
	}
	return m
}

// PurchaseOrderModel is the persistence model for purchase orders
type PurchaseOrderModel struct {
	TenantAggregateModel
	PONumber          string                   `gorm:"column:po_number;type:varchar(50);not null;uniqueIndex:idx_purchase_orders_tenant_number,priority:2"`
	SupplierID        uuid.UUID                `gorm:"type:uuid;not null;index"`
	SupplierName      string                   `gorm:"type:varchar(200);not null"`
	LocationID        *uuid.UUID               `gorm:"type:uuid;index"`
	PurchaseRequestID *uuid.UUID               `gorm:"type:uuid;index"`
	Items             []PurchaseOrderItemModel `gorm:"foreignKey:OrderID;references:ID"`
	Subtotal          decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	TaxRate           decimal.Decimal          `gorm:"type:decimal(8,4);not null"`
	TaxAmount         decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	TotalAmount       decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	PaymentMethod     string                   `gorm:"type:varchar(20)"`
	ExpectedDate      *time.Time
	Remark            string `gorm:"type:text"`
	Status            string `gorm:"type:varchar(20);not null;index"`
	SentAt            *time.Time
	ConfirmedAt       *time.Time
	ReceivedAt        *time.Time
	CancelledAt       *time.Time
	CancelReason      string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// PurchaseOrderItemModel is a purchase order line
type PurchaseOrderItemModel struct {
	ItemLineModel
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderedQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReceivedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItemModel) TableName() string {
	return "purchase_order_items"
}

// ToDomain converts the persistence model to a domain PurchaseOrder
func (m *PurchaseOrderModel) ToDomain() *purchasing.PurchaseOrder {
	order := &purchasing.PurchaseOrder{
		TenantAggregateRoot: m.ToDomainRoot(),
		PONumber:            m.PONumber,
		SupplierID:          m.SupplierID,
		SupplierName:        m.SupplierName,
		LocationID:          m.LocationID,
		PurchaseRequestID:   m.PurchaseRequestID,
		Subtotal:            m.Subtotal,
		TaxRate:             m.TaxRate,
		TaxAmount:           m.TaxAmount,
		TotalAmount:         m.TotalAmount,
		PaymentMethod:       purchasing.PaymentMethod(m.PaymentMethod),
		ExpectedDate:        m.ExpectedDate,
		Remark:              m.Remark,
		Status:              purchasing.PurchaseOrderStatus(m.Status),
		SentAt:              m.SentAt,
		ConfirmedAt:         m.ConfirmedAt,
		ReceivedAt:          m.ReceivedAt,
		CancelledAt:         m.CancelledAt,
		CancelReason:        m.CancelReason,
		Items:               make([]purchasing.PurchaseOrderItem, len(m.Items)),
	}
	for i, item := range m.Items {
		order.Items[i] = purchasing.PurchaseOrderItem{
			ItemLine:         item.toDomain(),
			OrderedQuantity:  item.OrderedQuantity,
			ReceivedQuantity: item.ReceivedQuantity,
			Amount:           item.Amount,
		}
	}
	return order
}

// PurchaseOrderModelFromDomain creates a persistence model from a domain PurchaseOrder
func PurchaseOrderModelFromDomain(o *purchasing.PurchaseOrder) *PurchaseOrderModel {
	m := &PurchaseOrderModel{
		PONumber:          o.PONumber,
		SupplierID:        o.SupplierID,
		SupplierName:      o.SupplierName,
		LocationID:        o.LocationID,
		PurchaseRequestID: o.PurchaseRequestID,
		Subtotal:          o.Subtotal,
		TaxRate:           o.TaxRate,
		TaxAmount:         o.TaxAmount,
		TotalAmount:       o.TotalAmount,
		PaymentMethod:     string(o.PaymentMethod),
		ExpectedDate:      o.ExpectedDate,
		Remark:            o.Remark,
		Status:            string(o.Status),
		SentAt:            o.SentAt,
		ConfirmedAt:       o.ConfirmedAt,
		ReceivedAt:        o.ReceivedAt,
		CancelledAt:       o.CancelledAt,
		CancelReason:      o.CancelReason,
		Items:             make([]PurchaseOrderItemModel, len(o.Items)),
	}
	m.FromDomainTenantAggregateRoot(o.TenantAggregateRoot)
	for i, item := range o.Items {
		m.Items[i] = PurchaseOrderItemModel{
			ItemLineModel:    itemLineModelFromDomain(item.ItemLine),
			OrderID:          o.ID,
			OrderedQuantity:  item.OrderedQuantity,
			ReceivedQuantity: item.ReceivedQuantity,
			Amount:           item.Amount,
		}
	}
	return m
}
