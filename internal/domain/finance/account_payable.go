package finance

import (
	"strings"
	"time"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const AggregateTypeAccountPayable = "AccountPayable"

// AccountPayable is money owed to a supplier, usually for a received purchase order
type AccountPayable struct {
	shared.TenantAggregateRoot
	Ledger
	APNumber        string
	PurchaseOrderID *uuid.UUID
	PONumber        string
	SupplierID      uuid.UUID
	SupplierName    string
	LocationID      *uuid.UUID
	Remark          string
}

// NewAccountPayable opens a payable
func NewAccountPayable(tenantID uuid.UUID, apNumber string, supplierID uuid.UUID, supplierName string, total decimal.Decimal, dueDate *time.Time) (*AccountPayable, error) {
	if apNumber == "" {
		return nil, shared.NewValidationError("payable number is required")
	}
	if supplierID == uuid.Nil || strings.TrimSpace(supplierName) == "" {
		return nil, shared.NewValidationError("supplier is required")
	}
	ledger, err := newLedger(total, dueDate)
	if err != nil {
		return nil, err
	}
	ap := &AccountPayable{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Ledger:              ledger,
		APNumber:            apNumber,
		SupplierID:          supplierID,
		SupplierName:        strings.TrimSpace(supplierName),
	}
	ap.AddDomainEvent(NewSettlementEvent(EventTypeAccountPayableOpened, AggregateTypeAccountPayable, ap.ID, tenantID, apNumber, &ap.Ledger, decimal.Zero))
	return ap, nil
}

// LinkPurchaseOrder records the order the payable was raised for
func (ap *AccountPayable) LinkPurchaseOrder(orderID uuid.UUID, poNumber string, locationID *uuid.UUID) {
	ap.PurchaseOrderID = &orderID
	ap.PONumber = poNumber
	ap.LocationID = locationID
}

// Pay posts a payment against the payable
func (ap *AccountPayable) Pay(in PaymentInput) (*Payment, error) {
	p, err := ap.apply(in)
	if err != nil {
		return nil, err
	}
	ap.IncrementVersion()
	ap.AddDomainEvent(NewSettlementEvent(EventTypeAccountPayablePaid, AggregateTypeAccountPayable, ap.ID, ap.TenantID, ap.APNumber, &ap.Ledger, p.Amount))
	return p, nil
}

// Cancel voids a payable that has no payments
func (ap *AccountPayable) Cancel(reason string) error {
	if err := ap.cancel(reason); err != nil {
		return err
	}
	ap.IncrementVersion()
	return nil
}

// Update changes due date and remark while the payable is open
func (ap *AccountPayable) Update(dueDate time.Time, remark string) error {
	if err := ap.reschedule(dueDate); err != nil {
		return err
	}
	ap.Remark = remark
	ap.IncrementVersion()
	return nil
}
