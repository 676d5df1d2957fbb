package models

import (
	"time"

	"github.com/erp/logistics/internal/domain/equipment"
	"github.com/erp/logistics/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EquipmentModel is the persistence model for equipment
type EquipmentModel struct {
	TenantAggregateModel
	ActivatableModel
	EquipmentCode           string     `gorm:"type:varchar(50);not null;uniqueIndex:idx_equipments_tenant_code,priority:2"`
	Name                    string     `gorm:"type:varchar(200);not null"`
	Model                   string     `gorm:"type:varchar(100)"`
	Manufacturer            string     `gorm:"type:varchar(200)"`
	SerialNumber            string     `gorm:"type:varchar(100)"`
	LocationID              *uuid.UUID `gorm:"type:uuid;index"`
	InstalledAt             *time.Time
	Status                  string `gorm:"type:varchar(30);not null;index"`
	MaintenanceIntervalDays int    `gorm:"not null"`
	LastMaintainedAt        *time.Time
	NextMaintenanceDue      *time.Time `gorm:"index"`
	Remark                  string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (EquipmentModel) TableName() string {
	return "equipments"
}

// ToDomain converts the persistence model to a domain Equipment
func (m *EquipmentModel) ToDomain() *equipment.Equipment {
	return &equipment.Equipment{
		TenantAggregateRoot:     m.ToDomainRoot(),
		Activatable:             shared.Activatable{IsActive: m.IsActive},
		EquipmentCode:           m.EquipmentCode,
		Name:                    m.Name,
		Model:                   m.Model,
		Manufacturer:            m.Manufacturer,
		SerialNumber:            m.SerialNumber,
		LocationID:              m.LocationID,
		InstalledAt:             m.InstalledAt,
		Status:                  equipment.Status(m.Status),
		MaintenanceIntervalDays: m.MaintenanceIntervalDays,
		LastMaintainedAt:        m.LastMaintainedAt,
		NextMaintenanceDue:      m.NextMaintenanceDue,
		Remark:                  m.Remark,
	}
}

// EquipmentModelFromDomain creates a persistence model from a domain Equipment
func EquipmentModelFromDomain(e *equipment.Equipment) *EquipmentModel {
	m := &EquipmentModel{
		ActivatableModel:        ActivatableModel{IsActive: e.IsActive},
		EquipmentCode:           e.EquipmentCode,
		Name:                    e.Name,
		Model:                   e.Model,
		Manufacturer:            e.Manufacturer,
		SerialNumber:            e.SerialNumber,
		LocationID:              e.LocationID,
		InstalledAt:             e.InstalledAt,
		Status:                  string(e.Status),
		MaintenanceIntervalDays: e.MaintenanceIntervalDays,
		LastMaintainedAt:        e.LastMaintainedAt,
		NextMaintenanceDue:      e.NextMaintenanceDue,
		Remark:                  e.Remark,
	}
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	return m
}

// MaintenanceRecordModel is the persistence model for maintenance work
type MaintenanceRecordModel struct {
	TenantAggregateModel
	EquipmentID   uuid.UUID `gorm:"type:uuid;not null;index"`
	EquipmentCode string    `gorm:"type:varchar(50);not null"`
	Type          string    `gorm:"type:varchar(20);not null"`
	Status        string    `gorm:"type:varchar(20);not null;index"`
	ScheduledDate time.Time `gorm:"not null;index"`
	StartedAt     *time.Time
	CompletedAt   *time.Time
	CancelledAt   *time.Time
	Technician    string          `gorm:"type:varchar(100)"`
	Description   string          `gorm:"type:text"`
	Resolution    string          `gorm:"type:text"`
	Cost          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Attachments   []string        `gorm:"type:text;serializer:json"`
}

// TableName returns the table name for GORM
func (MaintenanceRecordModel) TableName() string {
	return "maintenance_records"
}

// ToDomain converts the persistence model to a domain MaintenanceRecord
func (m *MaintenanceRecordModel) ToDomain() *equipment.MaintenanceRecord {
	attachments := m.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	return &equipment.MaintenanceRecord{
		TenantAggregateRoot: m.ToDomainRoot(),
		EquipmentID:         m.EquipmentID,
		EquipmentCode:       m.EquipmentCode,
		Type:                equipment.MaintenanceType(m.Type),
		Status:              equipment.MaintenanceStatus(m.Status),
		ScheduledDate:       m.ScheduledDate,
		StartedAt:           m.StartedAt,
		CompletedAt:         m.CompletedAt,
		CancelledAt:         m.CancelledAt,
		Technician:          m.Technician,
		Description:         m.Description,
		Resolution:          m.Resolution,
		Cost:                m.Cost,
		Attachments:         attachments,
	}
}

// MaintenanceRecordModelFromDomain creates a persistence model from a domain MaintenanceRecord
func MaintenanceRecordModelFromDomain(r *equipment.MaintenanceRecord) *MaintenanceRecordModel {
	m := &MaintenanceRecordModel{
		EquipmentID:   r.EquipmentID,
		EquipmentCode: r.EquipmentCode,
		Type:          string(r.Type),
		Status:        string(r.Status),
		ScheduledDate: r.ScheduledDate,
		StartedAt:     r.StartedAt,
		CompletedAt:   r.CompletedAt,
		CancelledAt:   r.CancelledAt,
		Technician:    r.Technician,
		Description:   r.Description,
		Resolution:    r.Resolution,
		Cost:          r.Cost,
		Attachments:   r.Attachments,
	}
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	return m
}
