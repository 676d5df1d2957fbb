package models

import (
	"github.com/erp/logistics/internal/domain/menu"
	"github.com/erp/logistics/internal/domain/shared"
)

// MenuCodeModel is the persistence model for menu codes
type MenuCodeModel struct {
	TenantAggregateModel
	ActivatableModel
	Code       string `gorm:"type:varchar(50);not null;uniqueIndex:idx_menu_codes_tenant_code,priority:2"`
	Name       string `gorm:"type:varchar(100);not null"`
	Path       string `gorm:"type:varchar(200);not null"`
	Section    string `gorm:"type:varchar(30);not null;index"`
	SortOrder  int    `gorm:"column:sort_order;not null"`
	Icon       string `gorm:"type:varchar(50)"`
	ParentCode string `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (MenuCodeModel) TableName() string {
	return "menu_codes"
}

// ToDomain converts the persistence model to a domain MenuCode
func (m *MenuCodeModel) ToDomain() *menu.MenuCode {
	return &menu.MenuCode{
		TenantAggregateRoot: m.ToDomainRoot(),
		Activatable:         shared.Activatable{IsActive: m.IsActive},
		Code:                m.Code,
		Name:                m.Name,
		Path:                m.Path,
		Section:             menu.Section(m.Section),
		Order:               m.SortOrder,
		Icon:                m.Icon,
		ParentCode:          m.ParentCode,
	}
}

// MenuCodeModelFromDomain creates a persistence model from a domain MenuCode
func MenuCodeModelFromDomain(c *menu.MenuCode) *MenuCodeModel {
	m := &MenuCodeModel{
		ActivatableModel: ActivatableModel{IsActive: c.IsActive},
		Code:             c.Code,
		Name:             c.Name,
		Path:             c.Path,
		Section:          string(c.Section),
		SortOrder:        c.Order,
		Icon:             c.Icon,
		ParentCode:       c.ParentCode,
	}
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	return m
}
