package purchasing

import (
	"strings"
	"time"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft     PurchaseOrderStatus = "draft"
	PurchaseOrderStatusSent      PurchaseOrderStatus = "sent"
	PurchaseOrderStatusConfirmed PurchaseOrderStatus = "confirmed"
	PurchaseOrderStatusPartial   PurchaseOrderStatus = "partial"
	PurchaseOrderStatusReceived  PurchaseOrderStatus = "received"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "cancelled"
)

// IsValid checks if the status is a known value
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusDraft, PurchaseOrderStatusSent, PurchaseOrderStatusConfirmed,
		PurchaseOrderStatusPartial, PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can move to target
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusDraft:
		return target == PurchaseOrderStatusSent || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusSent:
		return target == PurchaseOrderStatusConfirmed || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusConfirmed:
		return target == PurchaseOrderStatusPartial || target == PurchaseOrderStatusReceived || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusPartial:
		return target == PurchaseOrderStatusPartial || target == PurchaseOrderStatusReceived
	}
	return false
}

// CanReceive returns true if goods may be received in this status
func (s PurchaseOrderStatus) CanReceive() bool {
	return s == PurchaseOrderStatusConfirmed || s == PurchaseOrderStatusPartial
}

// IsTerminal reports whether no further transitions exist
func (s PurchaseOrderStatus) IsTerminal() bool {
	return s == PurchaseOrderStatusReceived || s == PurchaseOrderStatusCancelled
}

// PaymentMethod is how the supplier is paid
type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodBill         PaymentMethod = "bill"
	PaymentMethodCredit       PaymentMethod = "credit"
)

// IsValid checks if the method is a known value
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodBankTransfer, PaymentMethodCash, PaymentMethodCard, PaymentMethodBill, PaymentMethodCredit:
		return true
	}
	return false
}

const AggregateTypePurchaseOrder = "PurchaseOrder"

// PurchaseOrderItem is an ordered part
type PurchaseOrderItem struct {
	ItemLine
	OrderedQuantity  decimal.Decimal
	ReceivedQuantity decimal.Decimal
	Amount           decimal.Decimal
}

// RemainingQuantity returns what is still to be received
func (i *PurchaseOrderItem) RemainingQuantity() decimal.Decimal {
	remaining := i.OrderedQuantity.Sub(i.ReceivedQuantity)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// IsFullyReceived reports whether the ordered quantity arrived
func (i *PurchaseOrderItem) IsFullyReceived() bool {
	return i.ReceivedQuantity.GreaterThanOrEqual(i.OrderedQuantity)
}

func (i *PurchaseOrderItem) receive(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.NewValidationError("receive quantity of %s must be positive", i.PartName)
	}
	if quantity.GreaterThan(i.RemainingQuantity()) {
		return shared.NewValidationError("receive quantity %s of %s exceeds remaining %s",
			quantity.String(), i.PartName, i.RemainingQuantity().String())
	}
	i.ReceivedQuantity = i.ReceivedQuantity.Add(quantity)
	i.UpdatedAt = time.Now()
	return nil
}

// ReceiveLine is one line of a goods receipt
type ReceiveLine struct {
	ItemID   uuid.UUID
	Quantity decimal.Decimal
}

// PurchaseOrder is an order placed with a supplier
type PurchaseOrder struct {
	shared.TenantAggregateRoot
	PONumber          string
	SupplierID        uuid.UUID
	SupplierName      string
	LocationID        *uuid.UUID
	PurchaseRequestID *uuid.UUID
	Items             []PurchaseOrderItem
	Subtotal          decimal.Decimal
	TaxRate           decimal.Decimal // percent, e.g. 10 for 10%
	TaxAmount         decimal.Decimal
	TotalAmount       decimal.Decimal
	PaymentMethod     PaymentMethod
	ExpectedDate      *time.Time
	Remark            string
	Status            PurchaseOrderStatus
	SentAt            *time.Time
	ConfirmedAt       *time.Time
	ReceivedAt        *time.Time
	CancelledAt       *time.Time
	CancelReason      string
}

// NewPurchaseOrder creates a draft purchase order
func NewPurchaseOrder(tenantID uuid.UUID, poNumber string, supplierID uuid.UUID, supplierName string) (*PurchaseOrder, error) {
	if poNumber == "" {
		return nil, shared.NewValidationError("purchase order number is required")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewValidationError("supplier is required")
	}
	if strings.TrimSpace(supplierName) == "" {
		return nil, shared.NewValidationError("supplier name is required")
	}
	return &PurchaseOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PONumber:            poNumber,
		SupplierID:          supplierID,
		SupplierName:        strings.TrimSpace(supplierName),
		Items:               make([]PurchaseOrderItem, 0),
		Subtotal:            decimal.Zero,
		TaxRate:             decimal.Zero,
		TaxAmount:           decimal.Zero,
		TotalAmount:         decimal.Zero,
		PaymentMethod:       PaymentMethodBankTransfer,
		Status:              PurchaseOrderStatusDraft,
	}, nil
}

// NewPurchaseOrderFromRequest creates a draft order carrying the items of an approved request.
// The request's estimated prices become the order prices.
func NewPurchaseOrderFromRequest(req *PurchaseRequest, poNumber string, supplierID uuid.UUID, supplierName string) (*PurchaseOrder, error) {
	if req.Status != PurchaseRequestStatusApproved {
		return nil, shared.NewStateError("only approved purchase requests can be converted, current status is %s", req.Status)
	}
	order, err := NewPurchaseOrder(req.TenantID, poNumber, supplierID, supplierName)
	if err != nil {
		return nil, err
	}
	requestID := req.ID
	order.PurchaseRequestID = &requestID
	order.LocationID = req.LocationID
	order.ExpectedDate = req.RequiredDate
	for _, it := range req.Items {
		if _, err := order.AddItem(LineInput{
			PartID:    it.PartID,
			PartCode:  it.PartCode,
			PartName:  it.PartName,
			Quantity:  it.Quantity,
			Unit:      it.Unit,
			UnitPrice: it.UnitPrice,
			Remark:    it.Remark,
		}); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// CanModify reports whether the order is still a draft
func (o *PurchaseOrder) CanModify() bool {
	return o.Status == PurchaseOrderStatusDraft
}

func (o *PurchaseOrder) ensureDraft() error {
	if !o.CanModify() {
		return shared.NewStateError("cannot modify purchase order in %s status", o.Status)
	}
	return nil
}

// OrderTerms holds the editable header fields
type OrderTerms struct {
	LocationID    *uuid.UUID
	PaymentMethod PaymentMethod
	TaxRate       decimal.Decimal
	ExpectedDate  *time.Time
	Remark        string
}

// SetTerms updates header fields while in draft
func (o *PurchaseOrder) SetTerms(terms OrderTerms) error {
	if err := o.ensureDraft(); err != nil {
		return err
	}
	if terms.PaymentMethod != "" && !terms.PaymentMethod.IsValid() {
		return shared.NewValidationError("invalid payment method: %s", terms.PaymentMethod)
	}
	if terms.TaxRate.IsNegative() || terms.TaxRate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewValidationError("tax rate must be between 0 and 100")
	}
	o.LocationID = terms.LocationID
	if terms.PaymentMethod != "" {
		o.PaymentMethod = terms.PaymentMethod
	}
	o.TaxRate = terms.TaxRate
	o.ExpectedDate = terms.ExpectedDate
	o.Remark = terms.Remark
	o.recalculate()
	return nil
}

// SetSupplier changes the supplier while in draft
func (o *PurchaseOrder) SetSupplier(supplierID uuid.UUID, supplierName string) error {
	if err := o.ensureDraft(); err != nil {
		return err
	}
	if supplierID == uuid.Nil || strings.TrimSpace(supplierName) == "" {
		return shared.NewValidationError("supplier is required")
	}
	o.SupplierID = supplierID
	o.SupplierName = strings.TrimSpace(supplierName)
	return nil
}

// AddItem appends an ordered part
func (o *PurchaseOrder) AddItem(in LineInput) (*PurchaseOrderItem, error) {
	if err := o.ensureDraft(); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	item := PurchaseOrderItem{
		ItemLine:         newItemLine(in),
		OrderedQuantity:  in.Quantity,
		ReceivedQuantity: decimal.Zero,
		Amount:           in.Quantity.Mul(in.UnitPrice).Round(2),
	}
	o.Items = append(o.Items, item)
	o.recalculate()
	return &o.Items[len(o.Items)-1], nil
}

// ReplaceItems swaps the whole item list
func (o *PurchaseOrder) ReplaceItems(inputs []LineInput) error {
	if err := o.ensureDraft(); err != nil {
		return err
	}
	for _, in := range inputs {
		if err := in.validate(); err != nil {
			return err
		}
	}
	o.Items = make([]PurchaseOrderItem, 0, len(inputs))
	for _, in := range inputs {
		if _, err := o.AddItem(in); err != nil {
			return err
		}
	}
	return nil
}

// RemoveItem removes a line by ID
func (o *PurchaseOrder) RemoveItem(itemID uuid.UUID) error {
	if err := o.ensureDraft(); err != nil {
		return err
	}
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			o.Items = append(o.Items[:i], o.Items[i+1:]...)
			o.recalculate()
			return nil
		}
	}
	return shared.NewNotFoundError("purchase order item")
}

func (o *PurchaseOrder) recalculate() {
	o.Subtotal = sumAmounts(o.Items, func(it PurchaseOrderItem) decimal.Decimal { return it.Amount })
	o.TaxAmount = o.Subtotal.Mul(o.TaxRate).Div(decimal.NewFromInt(100)).Round(2)
	o.TotalAmount = o.Subtotal.Add(o.TaxAmount)
}

// Send issues the draft to the supplier
func (o *PurchaseOrder) Send() error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusSent) {
		return shared.NewStateError("cannot send purchase order in %s status", o.Status)
	}
	if len(o.Items) == 0 {
		return shared.NewValidationError("cannot send purchase order without items")
	}
	now := time.Now()
	o.Status = PurchaseOrderStatusSent
	o.SentAt = &now
	o.IncrementVersion()
	o.AddDomainEvent(NewPurchaseOrderStatusChangedEvent(o))
	return nil
}

// Confirm records the supplier's acceptance
func (o *PurchaseOrder) Confirm() error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusConfirmed) {
		return shared.NewStateError("cannot confirm purchase order in %s status", o.Status)
	}
	now := time.Now()
	o.Status = PurchaseOrderStatusConfirmed
	o.ConfirmedAt = &now
	o.IncrementVersion()
	o.AddDomainEvent(NewPurchaseOrderStatusChangedEvent(o))
	return nil
}

// Receive books a goods receipt. The order becomes partial until every item
// is fully received, then received. Lines are validated before any is applied.
func (o *PurchaseOrder) Receive(lines []ReceiveLine) error {
	if !o.Status.CanReceive() {
		return shared.NewStateError("cannot receive goods for purchase order in %s status", o.Status)
	}
	if len(lines) == 0 {
		return shared.NewValidationError("receive lines cannot be empty")
	}

	pending := make(map[uuid.UUID]decimal.Decimal, len(lines))
	for _, line := range lines {
		item := o.GetItem(line.ItemID)
		if item == nil {
			return shared.NewNotFoundError("purchase order item " + line.ItemID.String())
		}
		if !line.Quantity.IsPositive() {
			return shared.NewValidationError("receive quantity of %s must be positive", item.PartName)
		}
		total := pending[line.ItemID].Add(line.Quantity)
		if total.GreaterThan(item.RemainingQuantity()) {
			return shared.NewValidationError("receive quantity %s of %s exceeds remaining %s",
				total.String(), item.PartName, item.RemainingQuantity().String())
		}
		pending[line.ItemID] = total
	}

	for _, line := range lines {
		if err := o.GetItem(line.ItemID).receive(line.Quantity); err != nil {
			return err
		}
	}

	if o.IsFullyReceived() {
		now := time.Now()
		o.Status = PurchaseOrderStatusReceived
		o.ReceivedAt = &now
		o.AddDomainEvent(NewPurchaseOrderReceivedEvent(o))
	} else {
		o.Status = PurchaseOrderStatusPartial
	}
	o.IncrementVersion()
	o.AddDomainEvent(NewPurchaseOrderStatusChangedEvent(o))
	return nil
}

// Cancel cancels an order that has not received goods
func (o *PurchaseOrder) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusCancelled) {
		return shared.NewStateError("cannot cancel purchase order in %s status", o.Status)
	}
	if o.hasReceivedGoods() {
		return shared.NewStateError("cannot cancel purchase order after goods have been received")
	}
	now := time.Now()
	o.Status = PurchaseOrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = strings.TrimSpace(reason)
	o.IncrementVersion()
	o.AddDomainEvent(NewPurchaseOrderStatusChangedEvent(o))
	return nil
}

// GetItem returns the item with the given ID or nil
func (o *PurchaseOrder) GetItem(itemID uuid.UUID) *PurchaseOrderItem {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			return &o.Items[i]
		}
	}
	return nil
}

// IsFullyReceived reports whether every item arrived
func (o *PurchaseOrder) IsFullyReceived() bool {
	if len(o.Items) == 0 {
		return false
	}
	for i := range o.Items {
		if !o.Items[i].IsFullyReceived() {
			return false
		}
	}
	return true
}

func (o *PurchaseOrder) hasReceivedGoods() bool {
	for _, item := range o.Items {
		if item.ReceivedQuantity.IsPositive() {
			return true
		}
	}
	return false
}

// ReceiveProgress returns the received share of ordered quantity in percent
func (o *PurchaseOrder) ReceiveProgress() decimal.Decimal {
	ordered := sumAmounts(o.Items, func(it PurchaseOrderItem) decimal.Decimal { return it.OrderedQuantity })
	if ordered.IsZero() {
		return decimal.Zero
	}
	received := sumAmounts(o.Items, func(it PurchaseOrderItem) decimal.Decimal { return it.ReceivedQuantity })
	return received.Div(ordered).Mul(decimal.NewFromInt(100)).Round(2)
}

// CanDelete reports whether the order may be removed
func (o *PurchaseOrder) CanDelete() bool {
	return o.Status == PurchaseOrderStatusDraft || o.Status == PurchaseOrderStatusCancelled
}

// IsPayable reports whether an accounts payable may be opened for the order
func (o *PurchaseOrder) IsPayable() bool {
	return o.Status == PurchaseOrderStatusPartial || o.Status == PurchaseOrderStatusReceived
}
