package models

import (
	"time"

	"github.com/erp/logistics/internal/domain/schedule"
	"github.com/erp/logistics/internal/domain/shared"
	"github.com/google/uuid"
)

// ScheduleModel is the persistence model for calendar entries
type ScheduleModel struct {
	TenantAggregateModel
	ActivatableModel
	Title       string     `gorm:"type:varchar(200);not null"`
	Description string     `gorm:"type:text"`
	Category    string     `gorm:"type:varchar(20);not null;index"`
	ProjectName string     `gorm:"type:varchar(200)"`
	StartDate   time.Time  `gorm:"not null;index"`
	EndDate     time.Time  `gorm:"not null;index"`
	AllDay      bool       `gorm:"not null"`
	Color       string     `gorm:"type:varchar(7);not null"`
	OwnerID     *uuid.UUID `gorm:"type:uuid;index"`
	Location    string     `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (ScheduleModel) TableName() string {
	return "schedules"
}

// ToDomain converts the persistence model to a domain Schedule
func (m *ScheduleModel) ToDomain() *schedule.Schedule {
	return &schedule.Schedule{
		TenantAggregateRoot: m.ToDomainRoot(),
		Activatable:         shared.Activatable{IsActive: m.IsActive},
		Title:               m.Title,
		Description:         m.Description,
		Category:            schedule.Category(m.Category),
		ProjectName:         m.ProjectName,
		StartDate:           m.StartDate,
		EndDate:             m.EndDate,
		AllDay:              m.AllDay,
		Color:               m.Color,
		OwnerID:             m.OwnerID,
		Location:            m.Location,
	}
}

// ScheduleModelFromDomain creates a persistence model from a domain Schedule
func ScheduleModelFromDomain(s *schedule.Schedule) *ScheduleModel {
	m := &ScheduleModel{
		ActivatableModel: ActivatableModel{IsActive: s.IsActive},
		Title:            s.Title,
		Description:      s.Description,
		Category:         string(s.Category),
		ProjectName:      s.ProjectName,
		StartDate:        s.StartDate,
		EndDate:          s.EndDate,
		AllDay:           s.AllDay,
		Color:            s.Color,
		OwnerID:          s.OwnerID,
		Location:         s.Location,
	}
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	return m
}
