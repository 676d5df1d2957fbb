// Package sales holds customer orders. Shipping an order raises the receivable.
package sales

import (
	"strings"
	"time"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesOrderStatus represents the status of a sales order
type SalesOrderStatus string

const (
	SalesOrderStatusDraft     SalesOrderStatus = "draft"
	SalesOrderStatusConfirmed SalesOrderStatus = "confirmed"
	SalesOrderStatusShipped   SalesOrderStatus = "shipped"
	SalesOrderStatusCancelled SalesOrderStatus = "cancelled"
)

// IsValid checks if the status is a known value
func (s SalesOrderStatus) IsValid() bool {
	switch s {
	case SalesOrderStatusDraft, SalesOrderStatusConfirmed, SalesOrderStatusShipped, SalesOrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can move to target
func (s SalesOrderStatus) CanTransitionTo(target SalesOrderStatus) bool {
	switch s {
	case SalesOrderStatusDraft:
		return target == SalesOrderStatusConfirmed || target == SalesOrderStatusCancelled
	case SalesOrderStatusConfirmed:
		return target == SalesOrderStatusShipped || target == SalesOrderStatusCancelled
	}
	return false
}

const AggregateTypeSalesOrder = "SalesOrder"

const EventTypeSalesOrderShipped = "sales.sales_order.shipped"

// SalesOrderItem is an ordered part
type SalesOrderItem struct {
	ID        uuid.UUID
	PartID    *uuid.UUID
	PartCode  string
	PartName  string
	Quantity  decimal.Decimal
	Unit      string
	UnitPrice decimal.Decimal
	Amount    decimal.Decimal
}

// ItemInput describes a line to add
type ItemInput struct {
	PartID    *uuid.UUID
	PartCode  string
	PartName  string
	Quantity  decimal.Decimal
	Unit      string
	UnitPrice decimal.Decimal
}

// SalesOrder is an order from a customer
type SalesOrder struct {
	shared.TenantAggregateRoot
	SONumber     string
	CustomerID   uuid.UUID
	CustomerName string
	LocationID   *uuid.UUID
	Items        []SalesOrderItem
	TotalAmount  decimal.Decimal
	Status       SalesOrderStatus
	DeliveryDate *time.Time
	Remark       string
	ConfirmedAt  *time.Time
	ShippedAt    *time.Time
	CancelledAt  *time.Time
}

// NewSalesOrder creates a draft order
func NewSalesOrder(tenantID uuid.UUID, soNumber string, customerID uuid.UUID, customerName string) (*SalesOrder, error) {
	if soNumber == "" {
		return nil, shared.NewValidationError("sales order number is required")
	}
	if customerID == uuid.Nil || strings.TrimSpace(customerName) == "" {
		return nil, shared.NewValidationError("customer is required")
	}
	return &SalesOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SONumber:            soNumber,
		CustomerID:          customerID,
		CustomerName:        strings.TrimSpace(customerName),
		Items:               make([]SalesOrderItem, 0),
		TotalAmount:         decimal.Zero,
		Status:              SalesOrderStatusDraft,
	}, nil
}

// ReplaceItems swaps the item list while in draft
func (o *SalesOrder) ReplaceItems(inputs []ItemInput) error {
	if o.Status != SalesOrderStatusDraft {
		return shared.NewStateError("cannot modify sales order in %s status", o.Status)
	}
	items := make([]SalesOrderItem, 0, len(inputs))
	total := decimal.Zero
	for _, in := range inputs {
		if strings.TrimSpace(in.PartName) == "" {
			return shared.NewValidationError("part name is required")
		}
		if !in.Quantity.IsPositive() {
			return shared.NewValidationError("quantity of %s must be positive", in.PartName)
		}
		if in.UnitPrice.IsNegative() {
			return shared.NewValidationError("unit price of %s cannot be negative", in.PartName)
		}
		unit := strings.TrimSpace(in.Unit)
		if unit == "" {
			unit = "EA"
		}
		amount := in.Quantity.Mul(in.UnitPrice).Round(2)
		items = append(items, SalesOrderItem{
			ID:        uuid.New(),
			PartID:    in.PartID,
			PartCode:  strings.TrimSpace(in.PartCode),
			PartName:  strings.TrimSpace(in.PartName),
			Quantity:  in.Quantity,
			Unit:      unit,
			UnitPrice: in.UnitPrice,
			Amount:    amount,
		})
		total = total.Add(amount)
	}
	o.Items = items
	o.TotalAmount = total
	return nil
}

// SetDetails updates header fields while in draft
func (o *SalesOrder) SetDetails(locationID *uuid.UUID, deliveryDate *time.Time, remark string) error {
	if o.Status != SalesOrderStatusDraft {
		return shared.NewStateError("cannot modify sales order in %s status", o.Status)
	}
	o.LocationID = locationID
	o.DeliveryDate = deliveryDate
	o.Remark = remark
	return nil
}

// Confirm accepts the order
func (o *SalesOrder) Confirm() error {
	if !o.Status.CanTransitionTo(SalesOrderStatusConfirmed) {
		return shared.NewStateError("cannot confirm sales order in %s status", o.Status)
	}
	if len(o.Items) == 0 {
		return shared.NewValidationError("cannot confirm sales order without items")
	}
	now := time.Now()
	o.Status = SalesOrderStatusConfirmed
	o.ConfirmedAt = &now
	o.IncrementVersion()
	return nil
}

// Ship marks the order delivered and raises SalesOrderShippedEvent
func (o *SalesOrder) Ship() error {
	if !o.Status.CanTransitionTo(SalesOrderStatusShipped) {
		return shared.NewStateError("cannot ship sales order in %s status", o.Status)
	}
	now := time.Now()
	o.Status = SalesOrderStatusShipped
	o.ShippedAt = &now
	o.IncrementVersion()
	o.AddDomainEvent(NewSalesOrderShippedEvent(o))
	return nil
}

// Cancel cancels a draft or confirmed order
func (o *SalesOrder) Cancel() error {
	if !o.Status.CanTransitionTo(SalesOrderStatusCancelled) {
		return shared.NewStateError("cannot cancel sales order in %s status", o.Status)
	}
	now := time.Now()
	o.Status = SalesOrderStatusCancelled
	o.CancelledAt = &now
	o.IncrementVersion()
	return nil
}

// CanDelete reports whether the order may be removed
func (o *SalesOrder) CanDelete() bool {
	return o.Status == SalesOrderStatusDraft || o.Status == SalesOrderStatusCancelled
}

// SalesOrderShippedEvent opens the accounts receivable
type SalesOrderShippedEvent struct {
	shared.BaseDomainEvent
	SalesOrderID uuid.UUID       `json:"sales_order_id"`
	SONumber     string          `json:"so_number"`
	CustomerID   uuid.UUID       `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	LocationID   *uuid.UUID      `json:"location_id,omitempty"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

func NewSalesOrderShippedEvent(o *SalesOrder) *SalesOrderShippedEvent {
	return &SalesOrderShippedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSalesOrderShipped, AggregateTypeSalesOrder, o.ID, o.TenantID),
		SalesOrderID:    o.ID,
		SONumber:        o.SONumber,
		CustomerID:      o.CustomerID,
		CustomerName:    o.CustomerName,
		LocationID:      o.LocationID,
		TotalAmount:     o.TotalAmount,
	}
}
