package purchasing

import (
	"github.com/erp/logistics/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type constants
const (
	EventTypePurchaseRequestStatusChanged = "purchasing.purchase_request.status_changed"
	EventTypePurchaseOrderStatusChanged   = "purchasing.purchase_order.status_changed"
	EventTypePurchaseOrderReceived        = "purchasing.purchase_order.received"
)

// PurchaseRequestStatusChangedEvent is raised on every request transition
type PurchaseRequestStatusChangedEvent struct {
	shared.BaseDomainEvent
	RequestNumber string                `json:"request_number"`
	Status        PurchaseRequestStatus `json:"status"`
}

func NewPurchaseRequestStatusChangedEvent(r *PurchaseRequest) *PurchaseRequestStatusChangedEvent {
	return &PurchaseRequestStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseRequestStatusChanged, AggregateTypePurchaseRequest, r.ID, r.TenantID),
		RequestNumber:   r.RequestNumber,
		Status:          r.Status,
	}
}

// PurchaseOrderStatusChangedEvent is raised on every order transition
type PurchaseOrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	PONumber string              `json:"po_number"`
	Status   PurchaseOrderStatus `json:"status"`
}

func NewPurchaseOrderStatusChangedEvent(o *PurchaseOrder) *PurchaseOrderStatusChangedEvent {
	return &PurchaseOrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderStatusChanged, AggregateTypePurchaseOrder, o.ID, o.TenantID),
		PONumber:        o.PONumber,
		Status:          o.Status,
	}
}

// PurchaseOrderReceivedEvent is raised once, when every item has been received.
// Finance opens the accounts payable from it.
type PurchaseOrderReceivedEvent struct {
	shared.BaseDomainEvent
	PurchaseOrderID uuid.UUID       `json:"purchase_order_id"`
	PONumber        string          `json:"po_number"`
	SupplierID      uuid.UUID       `json:"supplier_id"`
	SupplierName    string          `json:"supplier_name"`
	LocationID      *uuid.UUID      `json:"location_id,omitempty"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	CreatedBy       *uuid.UUID      `json:"created_by,omitempty"`
}

func NewPurchaseOrderReceivedEvent(o *PurchaseOrder) *PurchaseOrderReceivedEvent {
	return &PurchaseOrderReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderReceived, AggregateTypePurchaseOrder, o.ID, o.TenantID),
		PurchaseOrderID: o.ID,
		PONumber:        o.PONumber,
		SupplierID:      o.SupplierID,
		SupplierName:    o.SupplierName,
		LocationID:      o.LocationID,
		TotalAmount:     o.TotalAmount,
		CreatedBy:       o.CreatedBy,
	}
}
