// Package partner holds suppliers and customers referenced by purchasing, sales and finance documents.
package partner

import (
	"net/mail"
	"strings"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/google/uuid"
)

// PartnerType distinguishes suppliers from customers
type PartnerType string

const (
	PartnerTypeSupplier PartnerType = "supplier"
	PartnerTypeCustomer PartnerType = "customer"
	PartnerTypeBoth     PartnerType = "both"
)

// IsValid checks if the type is a known value
func (t PartnerType) IsValid() bool {
	switch t {
	case PartnerTypeSupplier, PartnerTypeCustomer, PartnerTypeBoth:
		return true
	}
	return false
}

// Partner is a business counterparty
type Partner struct {
	shared.TenantAggregateRoot
	shared.Activatable
	Code           string
	Name           string
	Type           PartnerType
	ContactName    string
	Phone          string
	Email          string
	Address        string
	BusinessNumber string
	Remark         string
}

// ContactInfo groups the optional contact fields
type ContactInfo struct {
	ContactName    string
	Phone          string
	Email          string
	Address        string
	BusinessNumber string
	Remark         string
}

// NewPartner creates an active partner
func NewPartner(tenantID uuid.UUID, code, name string, partnerType PartnerType) (*Partner, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || len(code) > 50 {
		return nil, shared.NewValidationError("partner code must be 1-50 characters")
	}
	p := &Partner{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Activatable:         shared.NewActivatable(),
		Code:                code,
	}
	if err := p.rename(name, partnerType); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Partner) rename(name string, partnerType PartnerType) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("partner name is required")
	}
	if !partnerType.IsValid() {
		return shared.NewValidationError("invalid partner type: %s", partnerType)
	}
	p.Name = name
	p.Type = partnerType
	return nil
}

// SetContact replaces the contact details
func (p *Partner) SetContact(info ContactInfo) error {
	if err := info.validate(); err != nil {
		return err
	}
	p.ContactName = strings.TrimSpace(info.ContactName)
	p.Phone = strings.TrimSpace(info.Phone)
	p.Email = strings.TrimSpace(info.Email)
	p.Address = strings.TrimSpace(info.Address)
	p.BusinessNumber = strings.TrimSpace(info.BusinessNumber)
	p.Remark = info.Remark
	return nil
}

func (c ContactInfo) validate() error {
	if c.Email == "" {
		return nil
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return shared.NewValidationError("invalid email: %s", c.Email)
	}
	return nil
}

// Update changes name, type and contact details
func (p *Partner) Update(name string, partnerType PartnerType, info ContactInfo) error {
	if err := info.validate(); err != nil {
		return err
	}
	if err := p.rename(name, partnerType); err != nil {
		return err
	}
	if err := p.SetContact(info); err != nil {
		return err
	}
	p.IncrementVersion()
	return nil
}

// IsSupplier reports whether purchase documents may reference the partner
func (p *Partner) IsSupplier() bool {
	return p.Type == PartnerTypeSupplier || p.Type == PartnerTypeBoth
}

// IsCustomer reports whether sales documents may reference the partner
func (p *Partner) IsCustomer() bool {
	return p.Type == PartnerTypeCustomer || p.Type == PartnerTypeBoth
}

// SoftDelete hides the partner from pickers
func (p *Partner) SoftDelete() {
	if p.Deactivate() {
		p.IncrementVersion()
	}
}

// Restore re-activates the partner
func (p *Partner) Restore() {
	if p.Activate() {
		p.IncrementVersion()
	}
}
