package finance

import (
	"time"

	"github.com/erp/logistics/internal/application/common"
	"github.com/erp/logistics/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Request DTOs
// =============================================================================

// CreatePayableRequest opens a payable. With purchase_order_id the supplier,
// amount and location come from the order and the other fields are ignored.
type CreatePayableRequest struct {
	PurchaseOrderID *uuid.UUID       `json:"purchase_order_id"`
	SupplierID      *uuid.UUID       `json:"supplier_id"`
	TotalAmount     *decimal.Decimal `json:"total_amount"`
	LocationID      *uuid.UUID       `json:"location_id"`
	DueDate         *time.Time       `json:"due_date"`
	Remark          string           `json:"remark" binding:"max=1000"`
}

// CreateReceivableRequest opens a receivable, from a sales order or manually
type CreateReceivableRequest struct {
	SalesOrderID *uuid.UUID       `json:"sales_order_id"`
	CustomerID   *uuid.UUID       `json:"customer_id"`
	TotalAmount  *decimal.Decimal `json:"total_amount"`
	LocationID   *uuid.UUID       `json:"location_id"`
	DueDate      *time.Time       `json:"due_date"`
	Remark       string           `json:"remark" binding:"max=1000"`
}

// PaymentRequest posts money against a payable or receivable
type PaymentRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	PaymentDate *time.Time      `json:"payment_date"`
	Method      string          `json:"method" binding:"omitempty,oneof=bank_transfer cash card bill offset"`
	Reference   string          `json:"reference" binding:"max=100"`
	Note        string          `json:"note" binding:"max=500"`
	// IdempotencyKey comes from the Idempotency-Key header
	IdempotencyKey string `json:"-"`
}

// UpdateLedgerRequest reschedules an open document
type UpdateLedgerRequest struct {
	DueDate time.Time `json:"due_date" binding:"required"`
	Remark  *string   `json:"remark" binding:"omitempty,max=1000"`
}

// CancelLedgerRequest carries an optional reason
type CancelLedgerRequest struct {
	Reason string `json:"reason" binding:"max=1000"`
}

// LedgerListFilter is the list query of payables and receivables.
// PartnerID filters the supplier of payables and the customer of receivables.
type LedgerListFilter struct {
	common.ListQuery
	Status        string     `form:"status" binding:"omitempty,oneof=open closed cancelled"`
	PaymentStatus string     `form:"payment_status" binding:"omitempty,oneof=unpaid partial paid"`
	PartnerID     *uuid.UUID `form:"partner_id"`
	DueFrom       *time.Time `form:"due_from" time_format:"2006-01-02"`
	DueTo         *time.Time `form:"due_to" time_format:"2006-01-02"`
}

// =============================================================================
// Response DTOs
// =============================================================================

// PaymentResponse is one posted payment or receipt
type PaymentResponse struct {
	ID          uuid.UUID       `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"payment_date"`
	Method      string          `json:"method"`
	Reference   string          `json:"reference,omitempty"`
	Note        string          `json:"note,omitempty"`
	CreatedBy   *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// LedgerResponse holds the balance fields payables and receivables share
type LedgerResponse struct {
	Status          string          `json:"status"`
	PaymentStatus   string          `json:"payment_status"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	DueDate         time.Time       `json:"due_date"`
	IsOverdue       bool            `json:"is_overdue"`
	DaysOverdue     int             `json:"days_overdue"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	CancelledAt     *time.Time      `json:"cancelled_at,omitempty"`
	CancelReason    string          `json:"cancel_reason,omitempty"`
}

// PayableResponse represents an accounts payable in API responses
type PayableResponse struct {
	ID              uuid.UUID  `json:"id"`
	APNumber        string     `json:"ap_number"`
	PurchaseOrderID *uuid.UUID `json:"purchase_order_id,omitempty"`
	PONumber        string     `json:"po_number,omitempty"`
	SupplierID      uuid.UUID  `json:"supplier_id"`
	SupplierName    string     `json:"supplier_name"`
	LocationID      *uuid.UUID `json:"location_id,omitempty"`
	LedgerResponse
	Remark    string            `json:"remark"`
	Payments  []PaymentResponse `json:"payments"`
	Version   int               `json:"version"`
	CreatedBy *uuid.UUID        `json:"created_by,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// ReceivableResponse represents an accounts receivable in API responses
type ReceivableResponse struct {
	ID           uuid.UUID  `json:"id"`
	ARNumber     string     `json:"ar_number"`
	SalesOrderID *uuid.UUID `json:"sales_order_id,omitempty"`
	SONumber     string     `json:"so_number,omitempty"`
	CustomerID   uuid.UUID  `json:"customer_id"`
	CustomerName string     `json:"customer_name"`
	LocationID   *uuid.UUID `json:"location_id,omitempty"`
	LedgerResponse
	Remark    string            `json:"remark"`
	Receipts  []PaymentResponse `json:"receipts"`
	Version   int               `json:"version"`
	CreatedBy *uuid.UUID        `json:"created_by,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// StatusSummaryResponse is one payment status bucket
type StatusSummaryResponse struct {
	PaymentStatus   string          `json:"payment_status"`
	Count           int64           `json:"count"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
}

// SummaryResponse aggregates the open balance of payables or receivables
type SummaryResponse struct {
	Count           int64                   `json:"count"`
	TotalAmount     decimal.Decimal         `json:"total_amount"`
	PaidAmount      decimal.Decimal         `json:"paid_amount"`
	RemainingAmount decimal.Decimal         `json:"remaining_amount"`
	OverdueCount    int64                   `json:"overdue_count"`
	OverdueAmount   decimal.Decimal         `json:"overdue_amount"`
	ByStatus        []StatusSummaryResponse `json:"by_status"`
}

func toLedgerResponse(l *finance.Ledger, now time.Time) LedgerResponse {
	return LedgerResponse{
		Status:          string(l.Status),
		PaymentStatus:   string(l.PaymentStatus),
		TotalAmount:     l.TotalAmount,
		PaidAmount:      l.PaidAmount,
		RemainingAmount: l.RemainingAmount,
		DueDate:         l.DueDate,
		IsOverdue:       l.IsOverdue(now),
		DaysOverdue:     l.DaysOverdue(now),
		PaidAt:          l.PaidAt,
		CancelledAt:     l.CancelledAt,
		CancelReason:    l.CancelReason,
	}
}

func toPaymentResponses(payments []finance.Payment) []PaymentResponse {
	out := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		out[i] = PaymentResponse{
			ID:          p.ID,
			Amount:      p.Amount,
			PaymentDate: p.PaymentDate,
			Method:      string(p.Method),
			Reference:   p.Reference,
			Note:        p.Note,
			CreatedBy:   p.CreatedBy,
			CreatedAt:   p.CreatedAt,
		}
	}
	return out
}

// ToPayableResponse converts a domain payable to a response
func ToPayableResponse(ap *finance.AccountPayable) PayableResponse {
	return PayableResponse{
		ID:              ap.ID,
		APNumber:        ap.APNumber,
		PurchaseOrderID: ap.PurchaseOrderID,
		PONumber:        ap.PONumber,
		SupplierID:      ap.SupplierID,
		SupplierName:    ap.SupplierName,
		LocationID:      ap.LocationID,
		LedgerResponse:  toLedgerResponse(&ap.Ledger, time.Now()),
		Remark:          ap.Remark,
		Payments:        toPaymentResponses(ap.Payments),
		Version:         ap.Version,
		CreatedBy:       ap.CreatedBy,
		CreatedAt:       ap.CreatedAt,
		UpdatedAt:       ap.UpdatedAt,
	}
}

// ToPayableResponses converts a slice of payables
func ToPayableResponses(payables []finance.AccountPayable) []PayableResponse {
	out := make([]PayableResponse, len(payables))
	for i := range payables {
		out[i] = ToPayableResponse(&payables[i])
	}
	return out
}

// ToReceivableResponse converts a domain receivable to a response
func ToReceivableResponse(ar *finance.AccountReceivable) ReceivableResponse {
	return ReceivableResponse{
		ID:             ar.ID,
		ARNumber:       ar.ARNumber,
		SalesOrderID:   ar.SalesOrderID,
		SONumber:       ar.SONumber,
		CustomerID:     ar.CustomerID,
		CustomerName:   ar.CustomerName,
		LocationID:     ar.LocationID,
		LedgerResponse: toLedgerResponse(&ar.Ledger, time.Now()),
		Remark:         ar.Remark,
		Receipts:       toPaymentResponses(ar.Payments),
		Version:        ar.Version,
		CreatedBy:      ar.CreatedBy,
		CreatedAt:      ar.CreatedAt,
		UpdatedAt:      ar.UpdatedAt,
	}
}

// ToReceivableResponses converts a slice of receivables
func ToReceivableResponses(receivables []finance.AccountReceivable) []ReceivableResponse {
	out := make([]ReceivableResponse, len(receivables))
	for i := range receivables {
		out[i] = ToReceivableResponse(&receivables[i])
	}
	return out
}

func (r PaymentRequest) toInput(userID uuid.UUID) finance.PaymentInput {
	return finance.PaymentInput{
		Amount:      r.Amount,
		PaymentDate: r.PaymentDate,
		Method:      finance.PaymentMethod(r.Method),
		Reference:   r.Reference,
		Note:        r.Note,
		CreatedBy:   userID,
	}
}
