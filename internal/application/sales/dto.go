package sales

import (
	"time"

	"github.com/erp/logistics/internal/application/common"
	"github.com/erp/logistics/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemRequest is one ordered part. A part_id without name is completed from the part master.
type ItemRequest struct {
	PartID    *uuid.UUID      `json:"part_id"`
	PartCode  string          `json:"part_code" binding:"max=50"`
	PartName  string          `json:"part_name" binding:"max=200"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	Unit      string          `json:"unit" binding:"max=20"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateSalesOrderRequest represents a request to create a sales order
type CreateSalesOrderRequest struct {
	CustomerID   uuid.UUID     `json:"customer_id" binding:"required"`
	LocationID   *uuid.UUID    `json:"location_id"`
	DeliveryDate *time.Time    `json:"delivery_date"`
	Remark       string        `json:"remark" binding:"max=1000"`
	Items        []ItemRequest `json:"items" binding:"omitempty,dive"`
}

// UpdateSalesOrderRequest edits a draft order. Nil fields keep their value.
type UpdateSalesOrderRequest struct {
	LocationID   *uuid.UUID    `json:"location_id"`
	DeliveryDate *time.Time    `json:"delivery_date"`
	Remark       *string       `json:"remark" binding:"omitempty,max=1000"`
	Items        []ItemRequest `json:"items" binding:"omitempty,dive"`
}

// SalesOrderListFilter is the list query of sales orders
type SalesOrderListFilter struct {
	common.ListQuery
	Status     string     `form:"status" binding:"omitempty,oneof=draft confirmed shipped cancelled"`
	CustomerID *uuid.UUID `form:"customer_id"`
	LocationID *uuid.UUID `form:"location_id"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
}

// SalesOrderItemResponse is an order line in API responses
type SalesOrderItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	PartID    *uuid.UUID      `json:"part_id,omitempty"`
	PartCode  string          `json:"part_code"`
	PartName  string          `json:"part_name"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    decimal.Decimal `json:"amount"`
}

// SalesOrderResponse represents a sales order in API responses
type SalesOrderResponse struct {
	ID           uuid.UUID                `json:"id"`
	SONumber     string                   `json:"so_number"`
	CustomerID   uuid.UUID                `json:"customer_id"`
	CustomerName string                   `json:"customer_name"`
	LocationID   *uuid.UUID               `json:"location_id,omitempty"`
	Items        []SalesOrderItemResponse `json:"items"`
	TotalAmount  decimal.Decimal          `json:"total_amount"`
	Status       string                   `json:"status"`
	DeliveryDate *time.Time               `json:"delivery_date,omitempty"`
	Remark       string                   `json:"remark"`
	ConfirmedAt  *time.Time               `json:"confirmed_at,omitempty"`
	ShippedAt    *time.Time               `json:"shipped_at,omitempty"`
	CancelledAt  *time.Time               `json:"cancelled_at,omitempty"`
	Version      int                      `json:"version"`
	CreatedBy    *uuid.UUID               `json:"created_by,omitempty"`
	CreatedAt    time.Time                `json:"created_at"`
	UpdatedAt    time.Time                `json:"updated_at"`
}

// ToSalesOrderResponse converts a domain order to a response
func ToSalesOrderResponse(o *sales.SalesOrder) SalesOrderResponse {
	items := make([]SalesOrderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = SalesOrderItemResponse{
			ID:        it.ID,
			PartID:    it.PartID,
			PartCode:  it.PartCode,
			PartName:  it.PartName,
			Quantity:  it.Quantity,
			Unit:      it.Unit,
			UnitPrice: it.UnitPrice,
			Amount:    it.Amount,
		}
	}
	return SalesOrderResponse{
		ID:           o.ID,
		SONumber:     o.SONumber,
		CustomerID:   o.CustomerID,
		CustomerName: o.CustomerName,
		LocationID:   o.LocationID,
		Items:        items,
		TotalAmount:  o.TotalAmount,
		Status:       string(o.Status),
		DeliveryDate: o.DeliveryDate,
		Remark:       o.Remark,
		ConfirmedAt:  o.ConfirmedAt,
		ShippedAt:    o.ShippedAt,
		CancelledAt:  o.CancelledAt,
		Version:      o.Version,
		CreatedBy:    o.CreatedBy,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

// ToSalesOrderResponses converts a slice of orders
func ToSalesOrderResponses(orders []sales.SalesOrder) []SalesOrderResponse {
	out := make([]SalesOrderResponse, len(orders))
	for i := range orders {
		out[i] = ToSalesOrderResponse(&orders[i])
	}
	return out
}
