package models

import (
	"time"

	"github.com/erp/logistics/internal/domain/identity"
	"github.com/erp/logistics/internal/domain/shared"
)

// UserModel is the persistence model for user accounts
type UserModel struct {
	TenantAggregateModel
	ActivatableModel
	Username       string `gorm:"type:varchar(100);not null;uniqueIndex:idx_users_tenant_username,priority:2"`
	PasswordHash   string `gorm:"type:varchar(255);not null"`
	DisplayName    string `gorm:"type:varchar(200)"`
	Role           string `gorm:"type:varchar(20);not null"`
	LastLoginAt    *time.Time
	FailedAttempts int `gorm:"not null"`
	LockedUntil    *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		TenantAggregateRoot: m.ToDomainRoot(),
		Activatable:         shared.Activatable{IsActive: m.IsActive},
		Username:            m.Username,
		PasswordHash:        m.PasswordHash,
		DisplayName:         m.DisplayName,
		Role:                identity.Role(m.Role),
		LastLoginAt:         m.LastLoginAt,
		FailedAttempts:      m.FailedAttempts,
		LockedUntil:         m.LockedUntil,
	}
}

// UserModelFromDomain creates a persistence model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		ActivatableModel: ActivatableModel{IsActive: u.IsActive},
		Username:         u.Username,
		PasswordHash:     u.PasswordHash,
		DisplayName:      u.DisplayName,
		Role:             string(u.Role),
		LastLoginAt:      u.LastLoginAt,
		FailedAttempts:   u.FailedAttempts,
		LockedUntil:      u.LockedUntil,
	}
	m.FromDomainTenantAggregateRoot(u.TenantAggregateRoot)
	return m
}

// AllModels lists every table for AutoMigrate in tests and local development
func AllModels() []any {
	return []any{
		&UserModel{},
		&MenuCodeModel{},
		&PartnerModel{},
		&PurchaseRequestModel{},
		&PurchaseRequestItemModel{},
		&PurchaseOrderModel{},
		&PurchaseOrderItemModel{},
		&AccountPayableModel{},
		&PayablePaymentModel{},
		&AccountReceivableModel{},
		&ReceivablePaymentModel{},
		&SalesOrderModel{},
		&SalesOrderItemModel{},
		&WMSLocationModel{},
		&PartMasterModel{},
		&RackMasterModel{},
		&RackInventoryModel{},
		&EquipmentModel{},
		&MaintenanceRecordModel{},
		&ScheduleModel{},
	}
}
