package wms

import (
	"regexp"
	"strings"
	"time"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryStatus is the state of a rack slot record
type InventoryStatus string

const (
	InventoryStatusStored   InventoryStatus = "stored"
	InventoryStatusReserved InventoryStatus = "reserved"
	InventoryStatusEmpty    InventoryStatus = "empty"
)

// IsValid checks if the status is a known value
func (s InventoryStatus) IsValid() bool {
	switch s {
	case InventoryStatusStored, InventoryStatusReserved, InventoryStatusEmpty:
		return true
	}
	return false
}

// slot format: row letter(s), column, level, e.g. A-01-02
var slotPattern = regexp.MustCompile(`^[A-Z]{1,2}-\d{2}-\d{2}$`)

// NormalizeSlot upper-cases and validates a slot label
func NormalizeSlot(slot string) (string, error) {
	slot = strings.ToUpper(strings.TrimSpace(slot))
	if !slotPattern.MatchString(slot) {
		return "", shared.NewValidationError("slot must look like A-01-02, got %q", slot)
	}
	return slot, nil
}

// RackInventory is the quantity of one part lot held in one rack slot.
// A stored record occupies exactly one slot of its rack.
type RackInventory struct {
	shared.TenantAggregateRoot
	RackID      uuid.UUID
	RackCode    string
	Slot        string
	PartID      uuid.UUID
	PartCode    string
	PartName    string
	Quantity    decimal.Decimal
	LotNumber   string
	InboundDate time.Time
	Status      InventoryStatus
	Remark      string
}

// NewRackInventory stores a part lot in a slot. The caller occupies the rack slot.
func NewRackInventory(tenantID uuid.UUID, rack *RackMaster, slot string, part *PartMaster, quantity decimal.Decimal, lotNumber string) (*RackInventory, error) {
	slot, err := NormalizeSlot(slot)
	if err != nil {
		return nil, err
	}
	if !quantity.IsPositive() {
		return nil, shared.NewValidationError("inbound quantity must be positive")
	}
	if !part.IsActive || part.Status != PartStatusActive {
		return nil, shared.NewStateError("part %s is not active", part.PartCode)
	}
	return &RackInventory{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		RackID:              rack.ID,
		RackCode:            rack.RackCode,
		Slot:                slot,
		PartID:              part.ID,
		PartCode:            part.PartCode,
		PartName:            part.PartName,
		Quantity:            quantity,
		LotNumber:           strings.TrimSpace(lotNumber),
		InboundDate:         time.Now(),
		Status:              InventoryStatusStored,
	}, nil
}

// Add increases the quantity of an existing record
func (i *RackInventory) Add(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.NewValidationError("inbound quantity must be positive")
	}
	wasEmpty := i.Status == InventoryStatusEmpty
	i.Quantity = i.Quantity.Add(quantity)
	i.Status = InventoryStatusStored
	if wasEmpty {
		i.InboundDate = time.Now()
	}
	i.IncrementVersion()
	return nil
}

// Remove takes quantity out. Returns true when the record became empty and its slot should be released.
func (i *RackInventory) Remove(quantity decimal.Decimal) (bool, error) {
	if !quantity.IsPositive() {
		return false, shared.NewValidationError("outbound quantity must be positive")
	}
	if i.Status == InventoryStatusEmpty {
		return false, shared.NewStateError("slot %s of rack %s is empty", i.Slot, i.RackCode)
	}
	if quantity.GreaterThan(i.Quantity) {
		return false, shared.NewValidationError("outbound quantity %s exceeds stored %s", quantity.String(), i.Quantity.String())
	}
	i.Quantity = i.Quantity.Sub(quantity)
	emptied := i.Quantity.IsZero()
	if emptied {
		i.Status = InventoryStatusEmpty
	}
	i.IncrementVersion()
	return emptied, nil
}

// MoveTo relocates the record to another rack slot. The caller releases the
// source slot and occupies the destination.
func (i *RackInventory) MoveTo(rack *RackMaster, slot string) error {
	slot, err := NormalizeSlot(slot)
	if err != nil {
		return err
	}
	if i.Status == InventoryStatusEmpty {
		return shared.NewStateError("cannot move an empty slot record")
	}
	if rack.ID == i.RackID && slot == i.Slot {
		return shared.NewValidationError("destination is the current slot")
	}
	i.RackID = rack.ID
	i.RackCode = rack.RackCode
	i.Slot = slot
	i.IncrementVersion()
	return nil
}

// Reserve marks the stock as allocated to an outbound order
func (i *RackInventory) Reserve() error {
	if i.Status != InventoryStatusStored {
		return shared.NewStateError("only stored inventory can be reserved")
	}
	i.Status = InventoryStatusReserved
	i.IncrementVersion()
	return nil
}

// Unreserve returns reserved stock to stored
func (i *RackInventory) Unreserve() error {
	if i.Status != InventoryStatusReserved {
		return shared.NewStateError("inventory is not reserved")
	}
	i.Status = InventoryStatusStored
	i.IncrementVersion()
	return nil
}

// PartStock is the total stored quantity of a part across racks
type PartStock struct {
	PartID      uuid.UUID
	PartCode    string
	PartName    string
	Quantity    decimal.Decimal
	RackCount   int64
	SafetyStock decimal.Decimal
}

// IsLow reports whether the stock is under the part's safety stock
func (s PartStock) IsLow() bool {
	return s.SafetyStock.IsPositive() && s.Quantity.LessThan(s.SafetyStock)
}
