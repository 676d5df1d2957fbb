package purchasing

import (
	"time"

	"github.com/erp/logistics/internal/application/common"
	"github.com/erp/logistics/internal/domain/purchasing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Request DTOs
// =============================================================================

// LineItemInput is one requested or ordered part. When part_id is given and
// the name is empty, code, name, unit and price are taken from the part master.
type LineItemInput struct {
	PartID    *uuid.UUID      `json:"part_id"`
	PartCode  string          `json:"part_code" binding:"max=50"`
	PartName  string          `json:"part_name" binding:"max=200"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	Unit      string          `json:"unit" binding:"max=20"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Remark    string          `json:"remark" binding:"max=500"`
}

// CreatePurchaseRequestRequest represents a request to create a purchase request
type CreatePurchaseRequestRequest struct {
	RequesterName string          `json:"requester_name" binding:"required,min=1,max=100"`
	Department    string          `json:"department" binding:"max=100"`
	Reason        string          `json:"reason" binding:"max=1000"`
	LocationID    *uuid.UUID      `json:"location_id"`
	RequiredDate  *time.Time      `json:"required_date"`
	Items         []LineItemInput `json:"items" binding:"omitempty,dive"`
}

// UpdatePurchaseRequestRequest updates a draft request. Nil items keep the current lines.
type UpdatePurchaseRequestRequest struct {
	Department   *string         `json:"department" binding:"omitempty,max=100"`
	Reason       *string         `json:"reason" binding:"omitempty,max=1000"`
	LocationID   *uuid.UUID      `json:"location_id"`
	RequiredDate *time.Time      `json:"required_date"`
	Items        []LineItemInput `json:"items" binding:"omitempty,dive"`
}

// RejectPurchaseRequestRequest carries the mandatory rejection reason
type RejectPurchaseRequestRequest struct {
	Reason string `json:"reason" binding:"max=1000"`
}

// ConvertPurchaseRequestRequest names the supplier of the order created from an approved request
type ConvertPurchaseRequestRequest struct {
	SupplierID    uuid.UUID       `json:"supplier_id" binding:"required"`
	PaymentMethod string          `json:"payment_method" binding:"omitempty,oneof=bank_transfer cash card bill credit"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	Remark        string          `json:"remark" binding:"max=1000"`
}

// CreatePurchaseOrderRequest represents a request to create a purchase order
type CreatePurchaseOrderRequest struct {
	SupplierID    uuid.UUID       `json:"supplier_id" binding:"required"`
	LocationID    *uuid.UUID      `json:"location_id"`
	PaymentMethod string          `json:"payment_method" binding:"omitempty,oneof=bank_transfer cash card bill credit"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	ExpectedDate  *time.Time      `json:"expected_date"`
	Remark        string          `json:"remark" binding:"max=1000"`
	Items         []LineItemInput `json:"items" binding:"omitempty,dive"`
}

// UpdatePurchaseOrderRequest updates a draft order. Nil fields keep their value.
type UpdatePurchaseOrderRequest struct {
	SupplierID    *uuid.UUID       `json:"supplier_id"`
	LocationID    *uuid.UUID       `json:"location_id"`
	PaymentMethod *string          `json:"payment_method" binding:"omitempty,oneof=bank_transfer cash card bill credit"`
	TaxRate       *decimal.Decimal `json:"tax_rate"`
	ExpectedDate  *time.Time       `json:"expected_date"`
	Remark        *string          `json:"remark" binding:"omitempty,max=1000"`
	Items         []LineItemInput  `json:"items" binding:"omitempty,dive"`
}

// ReceiveLineInput books a quantity against one order item
type ReceiveLineInput struct {
	ItemID   uuid.UUID       `json:"item_id" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// ReceivePurchaseOrderRequest represents a goods receipt
type ReceivePurchaseOrderRequest struct {
	Lines []ReceiveLineInput `json:"lines" binding:"required,min=1,dive"`
}

// CancelPurchaseOrderRequest carries an optional reason
type CancelPurchaseOrderRequest struct {
	Reason string `json:"reason" binding:"max=1000"`
}

// PurchaseRequestListFilter represents the request list query
type PurchaseRequestListFilter struct {
	common.ListQuery
	Status     string     `form:"status" binding:"omitempty,oneof=draft submitted approved rejected converted"`
	LocationID *uuid.UUID `form:"location_id"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
}

// PurchaseOrderListFilter represents the order list query
type PurchaseOrderListFilter struct {
	common.ListQuery
	Status     string     `form:"status" binding:"omitempty,oneof=draft sent confirmed partial received cancelled"`
	SupplierID *uuid.UUID `form:"supplier_id"`
	LocationID *uuid.UUID `form:"location_id"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
}

// =============================================================================
// Response DTOs
// =============================================================================

// PurchaseRequestItemResponse is one request line
type PurchaseRequestItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	PartID    *uuid.UUID      `json:"part_id,omitempty"`
	PartCode  string          `json:"part_code"`
	PartName  string          `json:"part_name"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"estimated_unit_price"`
	Amount    decimal.Decimal `json:"amount"`
	Remark    string          `json:"remark,omitempty"`
}

// PurchaseRequestResponse represents a purchase request in API responses
type PurchaseRequestResponse struct {
	ID              uuid.UUID                     `json:"id"`
	RequestNumber   string                        `json:"request_number"`
	RequesterID     *uuid.UUID                    `json:"requester_id,omitempty"`
	RequesterName   string                        `json:"requester_name"`
	Department      string                        `json:"department"`
	LocationID      *uuid.UUID                    `json:"location_id,omitempty"`
	Reason          string                        `json:"reason"`
	RequiredDate    *time.Time                    `json:"required_date,omitempty"`
	Items           []PurchaseRequestItemResponse `json:"items"`
	TotalAmount     decimal.Decimal               `json:"total_amount"`
	Status          string                        `json:"status"`
	SubmittedAt     *time.Time                    `json:"submitted_at,omitempty"`
	ApprovedBy      *uuid.UUID                    `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time                    `json:"approved_at,omitempty"`
	RejectedBy      *uuid.UUID                    `json:"rejected_by,omitempty"`
	RejectedAt      *time.Time                    `json:"rejected_at,omitempty"`
	RejectionReason string                        `json:"rejection_reason,omitempty"`
	PurchaseOrderID *uuid.UUID                    `json:"purchase_order_id,omitempty"`
	ConvertedAt     *time.Time                    `json:"converted_at,omitempty"`
	Version         int                           `json:"version"`
	CreatedBy       *uuid.UUID                    `json:"created_by,omitempty"`
	CreatedAt       time.Time                     `json:"created_at"`
	UpdatedAt       time.Time                     `json:"updated_at"`
}

// PurchaseOrderItemResponse is one order line
type PurchaseOrderItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	PartID            *uuid.UUID      `json:"part_id,omitempty"`
	PartCode          string          `json:"part_code"`
	PartName          string          `json:"part_name"`
	OrderedQuantity   decimal.Decimal `json:"ordered_quantity"`
	ReceivedQuantity  decimal.Decimal `json:"received_quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	Unit              string          `json:"unit"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	Amount            decimal.Decimal `json:"amount"`
	Remark            string          `json:"remark,omitempty"`
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID                uuid.UUID                   `json:"id"`
	PONumber          string                      `json:"po_number"`
	SupplierID        uuid.UUID                   `json:"supplier_id"`
	SupplierName      string                      `json:"supplier_name"`
	LocationID        *uuid.UUID                  `json:"location_id,omitempty"`
	PurchaseRequestID *uuid.UUID                  `json:"purchase_request_id,omitempty"`
	Items             []PurchaseOrderItemResponse `json:"items"`
	Subtotal          decimal.Decimal             `json:"subtotal"`
	TaxRate           decimal.Decimal             `json:"tax_rate"`
	TaxAmount         decimal.Decimal             `json:"tax_amount"`
	TotalAmount       decimal.Decimal             `json:"total_amount"`
	PaymentMethod     string                      `json:"payment_method"`
	ExpectedDate      *time.Time                  `json:"expected_date,omitempty"`
	Remark            string                      `json:"remark"`
	Status            string                      `json:"status"`
	ReceiveProgress   decimal.Decimal             `json:"receive_progress"`
	SentAt            *time.Time                  `json:"sent_at,omitempty"`
	ConfirmedAt       *time.Time                  `json:"confirmed_at,omitempty"`
	ReceivedAt        *time.Time                  `json:"received_at,omitempty"`
	CancelledAt       *time.Time                  `json:"cancelled_at,omitempty"`
	CancelReason      string                      `json:"cancel_reason,omitempty"`
	Version           int                         `json:"version"`
	CreatedBy         *uuid.UUID                  `json:"created_by,omitempty"`
	CreatedAt         time.Time                   `json:"created_at"`
	UpdatedAt         time.Time                   `json:"updated_at"`
}

// ToPurchaseRequestResponse converts a domain request to a response
func ToPurchaseRequestResponse(r *purchasing.PurchaseRequest) PurchaseRequestResponse {
	items := make([]PurchaseRequestItemResponse, len(r.Items))
	for i, it := range r.Items {
		items[i] = PurchaseRequestItemResponse{
			ID:        it.ID,
			PartID:    it.PartID,
			PartCode:  it.PartCode,
			PartName:  it.PartName,
			Quantity:  it.Quantity,
			Unit:      it.Unit,
			UnitPrice: it.UnitPrice,
			Amount:    it.Amount,
			Remark:    it.Remark,
		}
	}
	return PurchaseRequestResponse{
		ID:              r.ID,
		RequestNumber:   r.RequestNumber,
		RequesterID:     r.RequesterID,
		RequesterName:   r.RequesterName,
		Department:      r.Department,
		LocationID:      r.LocationID,
		Reason:          r.Reason,
		RequiredDate:    r.RequiredDate,
		Items:           items,
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
		Version:         r.Version,
		CreatedBy:       r.CreatedBy,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// ToPurchaseRequestResponses converts a slice of requests
func ToPurchaseRequestResponses(requests []purchasing.PurchaseRequest) []PurchaseRequestResponse {
	out := make([]PurchaseRequestResponse, len(requests))
	for i := range requests {
		out[i] = ToPurchaseRequestResponse(&requests[i])
	}
	return out
}

// ToPurchaseOrderResponse converts a domain order to a response
func ToPurchaseOrderResponse(o *purchasing.PurchaseOrder) PurchaseOrderResponse {
	items := make([]PurchaseOrderItemResponse, len(o.Items))
	for i := range o.Items {
		it := &o.Items[i]
		items[i] = PurchaseOrderItemResponse{
			ID:                it.ID,
			PartID:            it.PartID,
			PartCode:          it.PartCode,
			PartName:          it.PartName,
			OrderedQuantity:   it.OrderedQuantity,
			ReceivedQuantity:  it.ReceivedQuantity,
			RemainingQuantity: it.RemainingQuantity(),
			Unit:              it.Unit,
			UnitPrice:         it.UnitPrice,
			Amount:            it.Amount,
			Remark:            it.Remark,
		}
	}
	return PurchaseOrderResponse{
		ID:                o.ID,
		PONumber:          o.PONumber,
		SupplierID:        o.SupplierID,
		SupplierName:      o.SupplierName,
		LocationID:        o.LocationID,
		PurchaseRequestID: o.PurchaseRequestID,
		Items:             items,
		Subtotal:          o.Subtotal,
		TaxRate:           o.TaxRate,
		TaxAmount:         o.TaxAmount,
		TotalAmount:       o.TotalAmount,
		PaymentMethod:     string(o.PaymentMethod),
		ExpectedDate:      o.ExpectedDate,
		Remark:            o.Remark,
		Status:            string(o.Status),
		ReceiveProgress:   o.ReceiveProgress(),
		SentAt:            o.SentAt,
		ConfirmedAt:       o.ConfirmedAt,
		ReceivedAt:        o.ReceivedAt,
		CancelledAt:       o.CancelledAt,
		CancelReason:      o.CancelReason,
		Version:           o.Version,
		CreatedBy:         o.CreatedBy,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

// ToPurchaseOrderResponses converts a slice of orders
func ToPurchaseOrderResponses(orders []purchasing.PurchaseOrder) []PurchaseOrderResponse {
	out := make([]PurchaseOrderResponse, len(orders))
	for i := range orders {
		out[i] = ToPurchaseOrderResponse(&orders[i])
	}
	return out
}
