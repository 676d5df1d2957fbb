package wms

import (
	"strings"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PartStatus is the lifecycle of a part
type PartStatus string

const (
	PartStatusActive       PartStatus = "active"
	PartStatusInactive     PartStatus = "inactive"
	PartStatusDiscontinued PartStatus = "discontinued"
)

// IsValid checks if the status is a known value
func (s PartStatus) IsValid() bool {
	switch s {
	case PartStatusActive, PartStatusInactive, PartStatusDiscontinued:
		return true
	}
	return false
}

// PartMaster is a stock-keeping part
type PartMaster struct {
	shared.TenantAggregateRoot
	shared.Activatable
	PartCode      string
	PartName      string
	Specification string
	Category      string
	Unit          string
	UnitPrice     decimal.Decimal
	SafetyStock   decimal.Decimal
	SupplierID    *uuid.UUID
	Status        PartStatus
	Remark        string
}

// PartAttributes are the editable fields of a part
type PartAttributes struct {
	PartName      string
	Specification string
	Category      string
	Unit          string
	UnitPrice     decimal.Decimal
	SafetyStock   decimal.Decimal
	SupplierID    *uuid.UUID
	Remark        string
}

func (a PartAttributes) validate() error {
	if strings.TrimSpace(a.PartName) == "" {
		return shared.NewValidationError("part name is required")
	}
	if a.UnitPrice.IsNegative() {
		return shared.NewValidationError("unit price cannot be negative")
	}
	if a.SafetyStock.IsNegative() {
		return shared.NewValidationError("safety stock cannot be negative")
	}
	return nil
}

// NewPartMaster creates an active part
func NewPartMaster(tenantID uuid.UUID, code string, attrs PartAttributes) (*PartMaster, error) {
	code, err := normalizeCode("part code", code)
	if err != nil {
		return nil, err
	}
	p := &PartMaster{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Activatable:         shared.NewActivatable(),
		PartCode:            code,
		Status:              PartStatusActive,
	}
	if err := p.apply(attrs); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *PartMaster) apply(a PartAttributes) error {
	if err := a.validate(); err != nil {
		return err
	}
	unit := strings.TrimSpace(a.Unit)
	if unit == "" {
		unit = "EA"
	}
	p.PartName = strings.TrimSpace(a.PartName)
	p.Specification = strings.TrimSpace(a.Specification)
	p.Category = strings.TrimSpace(a.Category)
	p.Unit = unit
	p.UnitPrice = a.UnitPrice
	p.SafetyStock = a.SafetyStock
	p.SupplierID = a.SupplierID
	p.Remark = a.Remark
	return nil
}

// Update changes the attributes and status
func (p *PartMaster) Update(attrs PartAttributes, status PartStatus) error {
	if !status.IsValid() {
		return shared.NewValidationError("invalid part status: %s", status)
	}
	if err := p.apply(attrs); err != nil {
		return err
	}
	p.Status = status
	p.IncrementVersion()
	return nil
}

// IsBelowSafetyStock reports whether onHand is under the safety stock
func (p *PartMaster) IsBelowSafetyStock(onHand decimal.Decimal) bool {
	return p.SafetyStock.IsPositive() && onHand.LessThan(p.SafetyStock)
}

// SoftDelete deactivates the part
func (p *PartMaster) SoftDelete() {
	if p.Deactivate() {
		p.Status = PartStatusInactive
		p.IncrementVersion()
	}
}

// Restore re-activates the part
func (p *PartMaster) Restore() {
	if p.Activate() {
		p.Status = PartStatusActive
		p.IncrementVersion()
	}
}
