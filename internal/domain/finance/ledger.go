// Package finance tracks what the business owes suppliers and what customers owe it.
package finance

import (
	"strings"
	"time"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus tracks how much of a document has been settled
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// IsValid checks if the status is a known value
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusPartial, PaymentStatusPaid:
		return true
	}
	return false
}

// DocumentStatus is the lifecycle of a payable or receivable
type DocumentStatus string

const (
	DocumentStatusOpen      DocumentStatus = "open"
	DocumentStatusClosed    DocumentStatus = "closed"
	DocumentStatusCancelled DocumentStatus = "cancelled"
)

// IsValid checks if the status is a known value
func (s DocumentStatus) IsValid() bool {
	switch s {
	case DocumentStatusOpen, DocumentStatusClosed, DocumentStatusCancelled:
		return true
	}
	return false
}

// PaymentMethod is how money moved
type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodBill         PaymentMethod = "bill"
	PaymentMethodOffset       PaymentMethod = "offset"
)

// IsValid checks if the method is a known value
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodBankTransfer, PaymentMethodCash, PaymentMethodCard, PaymentMethodBill, PaymentMethodOffset:
		return true
	}
	return false
}

// DefaultTermDays is the due date offset used when none is given
const DefaultTermDays = 30

// Payment is one settlement posted against a payable or receivable
type Payment struct {
	ID          uuid.UUID
	Amount      decimal.Decimal
	PaymentDate time.Time
	Method      PaymentMethod
	Reference   string
	Note        string
	CreatedBy   *uuid.UUID
	CreatedAt   time.Time
}

// PaymentInput is the request to settle part of a document
type PaymentInput struct {
	Amount      decimal.Decimal
	PaymentDate *time.Time
	Method      PaymentMethod
	Reference   string
	Note        string
	CreatedBy   uuid.UUID
}

// Ledger holds the amounts and payment history shared by payables and receivables.
// RemainingAmount always equals TotalAmount minus PaidAmount.
type Ledger struct {
	TotalAmount     decimal.Decimal
	PaidAmount      decimal.Decimal
	RemainingAmount decimal.Decimal
	Status          DocumentStatus
	PaymentStatus   PaymentStatus
	DueDate         time.Time
	Payments        []Payment
	PaidAt          *time.Time
	CancelledAt     *time.Time
	CancelReason    string
}

func newLedger(total decimal.Decimal, dueDate *time.Time) (Ledger, error) {
	if !total.IsPositive() {
		return Ledger{}, shared.NewValidationError("total amount must be positive")
	}
	due := time.Now().AddDate(0, 0, DefaultTermDays)
	if dueDate != nil && !dueDate.IsZero() {
		due = *dueDate
	}
	return Ledger{
		TotalAmount:     total,
		PaidAmount:      decimal.Zero,
		RemainingAmount: total,
		Status:          DocumentStatusOpen,
		PaymentStatus:   PaymentStatusUnpaid,
		DueDate:         due,
		Payments:        make([]Payment, 0),
	}, nil
}

// apply posts a payment. The amount must be positive and not exceed the remaining amount.
func (l *Ledger) apply(in PaymentInput) (*Payment, error) {
	if l.Status != DocumentStatusOpen {
		return nil, shared.NewStateError("cannot post payment to a %s document", l.Status)
	}
	if !in.Amount.IsPositive() {
		return nil, shared.NewValidationError("payment amount must be positive")
	}
	if in.Amount.GreaterThan(l.RemainingAmount) {
		return nil, shared.NewValidationError("payment amount %s exceeds remaining amount %s",
			in.Amount.StringFixed(2), l.RemainingAmount.StringFixed(2))
	}
	method := in.Method
	if method == "" {
		method = PaymentMethodBankTransfer
	}
	if !method.IsValid() {
		return nil, shared.NewValidationError("invalid payment method: %s", method)
	}

	now := time.Now()
	paymentDate := now
	if in.PaymentDate != nil && !in.PaymentDate.IsZero() {
		paymentDate = *in.PaymentDate
	}
	p := Payment{
		ID:          uuid.New(),
		Amount:      in.Amount,
		PaymentDate: paymentDate,
		Method:      method,
		Reference:   strings.TrimSpace(in.Reference),
		Note:        in.Note,
		CreatedAt:   now,
	}
	if in.CreatedBy != uuid.Nil {
		createdBy := in.CreatedBy
		p.CreatedBy = &createdBy
	}
	l.Payments = append(l.Payments, p)
	l.recompute()
	if l.PaymentStatus == PaymentStatusPaid {
		l.Status = DocumentStatusClosed
		l.PaidAt = &now
	}
	return &l.Payments[len(l.Payments)-1], nil
}

// recompute derives paid, remaining and payment status from the payment list
func (l *Ledger) recompute() {
	paid := decimal.Zero
	for _, p := range l.Payments {
		paid = paid.Add(p.Amount)
	}
	l.PaidAmount = paid
	l.RemainingAmount = l.TotalAmount.Sub(paid)
	switch {
	case paid.IsZero():
		l.PaymentStatus = PaymentStatusUnpaid
	case l.RemainingAmount.IsPositive():
		l.PaymentStatus = PaymentStatusPartial
	default:
		l.PaymentStatus = PaymentStatusPaid
	}
}

func (l *Ledger) cancel(reason string) error {
	if l.Status != DocumentStatusOpen {
		return shared.NewStateError("cannot cancel a %s document", l.Status)
	}
	if len(l.Payments) > 0 {
		return shared.NewStateError("cannot cancel a document with recorded payments")
	}
	now := time.Now()
	l.Status = DocumentStatusCancelled
	l.CancelledAt = &now
	l.CancelReason = strings.TrimSpace(reason)
	return nil
}

func (l *Ledger) reschedule(dueDate time.Time) error {
	if l.Status != DocumentStatusOpen {
		return shared.NewStateError("cannot change due date of a %s document", l.Status)
	}
	if dueDate.IsZero() {
		return shared.NewValidationError("due date is required")
	}
	l.DueDate = dueDate
	return nil
}

// IsOverdue reports whether an open document is past its due date at asOf
func (l *Ledger) IsOverdue(asOf time.Time) bool {
	return l.Status == DocumentStatusOpen && l.RemainingAmount.IsPositive() && asOf.After(l.DueDate)
}

// DaysOverdue returns whole days past due, zero when not overdue
func (l *Ledger) DaysOverdue(asOf time.Time) int {
	if !l.IsOverdue(asOf) {
		return 0
	}
	return int(asOf.Sub(l.DueDate).Hours() / 24)
}
