package models

import (
	"github.com/erp/logistics/internal/domain/partner"
	"github.com/erp/logistics/internal/domain/shared"
)

// PartnerModel is the persistence model for suppliers and customers
type PartnerModel struct {
	TenantAggregateModel
	ActivatableModel
	Code           string `gorm:"type:varchar(50);not null;uniqueIndex:idx_partners_tenant_code,priority:2"`
	Name           string `gorm:"type:varchar(200);not null"`
	Type           string `gorm:"type:varchar(20);not null;index"`
	ContactName    string `gorm:"type:varchar(100)"`
	Phone          string `gorm:"type:varchar(50)"`
	Email          string `gorm:"type:varchar(200)"`
	Address        string `gorm:"type:varchar(500)"`
	BusinessNumber string `gorm:"type:varchar(50)"`
	Remark         string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PartnerModel) TableName() string {
	return "partners"
}

// ToDomain converts the persistence model to a domain Partner
func (m *PartnerModel) ToDomain() *partner.Partner {
	return &partner.Partner{
		TenantAggregateRoot: m.ToDomainRoot(),
		Activatable:         shared.Activatable{IsActive: m.IsActive},
		Code:                m.Code,
		Name:                m.Name,
		Type:                partner.PartnerType(m.Type),
		ContactName:         m.ContactName,
		Phone:               m.Phone,
		Email:               m.Email,
		Address:             m.Address,
		BusinessNumber:      m.BusinessNumber,
		Remark:              m.Remark,
	}
}

// PartnerModelFromDomain creates a persistence model from a domain Partner
func PartnerModelFromDomain(p *partner.Partner) *PartnerModel {
	m := &PartnerModel{
		ActivatableModel: ActivatableModel{IsActive: p.IsActive},
		Code:             p.Code,
		Name:             p.Name,
		Type:             string(p.Type),
		ContactName:      p.ContactName,
		Phone:            p.Phone,
		Email:            p.Email,
		Address:          p.Address,
		BusinessNumber:   p.BusinessNumber,
		Remark:           p.Remark,
	}
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	return m
}
