package finance

import (
	"strings"
	"time"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const AggregateTypeAccountReceivable = "AccountReceivable"

// AccountReceivable is money a customer owes, raised when a sales order ships
type AccountReceivable struct {
	shared.TenantAggregateRoot
	Ledger
	ARNumber     string
	SalesOrderID *uuid.UUID
	SONumber     string
	CustomerID   uuid.UUID
	CustomerName string
	LocationID   *uuid.UUID
	Remark       string
}

// NewAccountReceivable opens a receivable
func NewAccountReceivable(tenantID uuid.UUID, arNumber string, customerID uuid.UUID, customerName string, total decimal.Decimal, dueDate *time.Time) (*AccountReceivable, error) {
	if arNumber == "" {
		return nil, shared.NewValidationError("receivable number is required")
	}
	if customerID == uuid.Nil || strings.TrimSpace(customerName) == "" {
		return nil, shared.NewValidationError("customer is required")
	}
	ledger, err := newLedger(total, dueDate)
	if err != nil {
		return nil, err
	}
	ar := &AccountReceivable{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Ledger:              ledger,
		ARNumber:            arNumber,
		CustomerID:          customerID,
		CustomerName:        strings.TrimSpace(customerName),
	}
	ar.AddDomainEvent(NewSettlementEvent(EventTypeAccountReceivableOpened, AggregateTypeAccountReceivable, ar.ID, tenantID, arNumber, &ar.Ledger, decimal.Zero))
	return ar, nil
}

// LinkSalesOrder records the order the receivable was raised for
func (ar *AccountReceivable) LinkSalesOrder(orderID uuid.UUID, soNumber string, locationID *uuid.UUID) {
	ar.SalesOrderID = &orderID
	ar.SONumber = soNumber
	ar.LocationID = locationID
}

// Collect posts a receipt against the receivable
func (ar *AccountReceivable) Collect(in PaymentInput) (*Payment, error) {
	p, err := ar.apply(in)
	if err != nil {
		return nil, err
	}
	ar.IncrementVersion()
	ar.AddDomainEvent(NewSettlementEvent(EventTypeAccountReceivableCollected, AggregateTypeAccountReceivable, ar.ID, ar.TenantID, ar.ARNumber, &ar.Ledger, p.Amount))
	return p, nil
}

// Cancel voids a receivable that has no receipts
func (ar *AccountReceivable) Cancel(reason string) error {
	if err := ar.cancel(reason); err != nil {
		return err
	}
	ar.IncrementVersion()
	return nil
}

// Update changes due date and remark while the receivable is open
func (ar *AccountReceivable) Update(dueDate time.Time, remark string) error {
	if err := ar.reschedule(dueDate); err != nil {
		return err
	}
	ar.Remark = remark
	ar.IncrementVersion()
	return nil
}
