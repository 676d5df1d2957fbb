// Package equipment holds plant equipment and its maintenance history.
package equipment

import (
	"strings"
	"time"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/google/uuid"
)

// Status is the operating state of a piece of equipment
type Status string

const (
	StatusOperational      Status = "operational"
	StatusUnderMaintenance Status = "under_maintenance"
	StatusBroken           Status = "broken"
	StatusRetired          Status = "retired"
)

// IsValid checks if the status is a known value
func (s Status) IsValid() bool {
	switch s {
	case StatusOperational, StatusUnderMaintenance, StatusBroken, StatusRetired:
		return true
	}
	return false
}

// Equipment is a maintained asset installed at a location
type Equipment struct {
	shared.TenantAggregateRoot
	shared.Activatable
	EquipmentCode           string
	Name                    string
	Model                   string
	Manufacturer            string
	SerialNumber            string
	LocationID              *uuid.UUID
	InstalledAt             *time.Time
	Status                  Status
	MaintenanceIntervalDays int
	LastMaintainedAt        *time.Time
	NextMaintenanceDue      *time.Time
	Remark                  string
}

// Profile holds the descriptive fields of equipment
type Profile struct {
	Name                    string
	Model                   string
	Manufacturer            string
	SerialNumber            string
	LocationID              *uuid.UUID
	InstalledAt             *time.Time
	MaintenanceIntervalDays int
	Remark                  string
}

func (p Profile) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return shared.NewValidationError("equipment name is required")
	}
	if p.MaintenanceIntervalDays < 0 {
		return shared.NewValidationError("maintenance interval cannot be negative")
	}
	return nil
}

// NewEquipment creates operational equipment
func NewEquipment(tenantID uuid.UUID, code string, profile Profile) (*Equipment, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, shared.NewValidationError("equipment code is required")
	}
	if len(code) > 50 {
		return nil, shared.NewValidationError("equipment code cannot exceed 50 characters")
	}
	if err := profile.validate(); err != nil {
		return nil, err
	}
	e := &Equipment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Activatable:         shared.NewActivatable(),
		EquipmentCode:       code,
		Status:              StatusOperational,
	}
	e.applyProfile(profile)
	e.scheduleNext()
	return e, nil
}

func (e *Equipment) applyProfile(p Profile) {
	e.Name = strings.TrimSpace(p.Name)
	e.Model = strings.TrimSpace(p.Model)
	e.Manufacturer = strings.TrimSpace(p.Manufacturer)
	e.SerialNumber = strings.TrimSpace(p.SerialNumber)
	e.LocationID = p.LocationID
	e.InstalledAt = p.InstalledAt
	e.MaintenanceIntervalDays = p.MaintenanceIntervalDays
	e.Remark = p.Remark
}

// Update replaces the profile and recomputes the next due date
func (e *Equipment) Update(profile Profile) error {
	if err := profile.validate(); err != nil {
		return err
	}
	e.applyProfile(profile)
	e.scheduleNext()
	e.IncrementVersion()
	return nil
}

// scheduleNext derives NextMaintenanceDue from the last maintenance, or the
// install date when the equipment was never maintained.
func (e *Equipment) scheduleNext() {
	if e.MaintenanceIntervalDays == 0 {
		e.NextMaintenanceDue = nil
		return
	}
	base := e.LastMaintainedAt
	if base == nil {
		base = e.InstalledAt
	}
	if base == nil {
		now := time.Now()
		base = &now
	}
	next := base.AddDate(0, 0, e.MaintenanceIntervalDays)
	e.NextMaintenanceDue = &next
}

// IsDue reports whether maintenance is due on or before asOf
func (e *Equipment) IsDue(asOf time.Time) bool {
	return e.Status != StatusRetired && e.NextMaintenanceDue != nil && !e.NextMaintenanceDue.After(asOf)
}

// MarkBroken records a breakdown
func (e *Equipment) MarkBroken() error {
	if e.Status == StatusRetired {
		return shared.NewStateError("equipment %s is retired", e.EquipmentCode)
	}
	e.Status = StatusBroken
	e.IncrementVersion()
	return nil
}

// Retire takes the equipment out of service for good
func (e *Equipment) Retire() error {
	if e.Status == StatusUnderMaintenance {
		return shared.NewStateError("equipment %s is under maintenance", e.EquipmentCode)
	}
	e.Status = StatusRetired
	e.NextMaintenanceDue = nil
	e.IncrementVersion()
	return nil
}

func (e *Equipment) beginMaintenance() error {
	if e.Status == StatusRetired {
		return shared.NewStateError("equipment %s is retired", e.EquipmentCode)
	}
	if !e.IsActive {
		return shared.NewStateError("equipment %s is inactive", e.EquipmentCode)
	}
	e.Status = StatusUnderMaintenance
	e.IncrementVersion()
	return nil
}

func (e *Equipment) finishMaintenance(at time.Time) {
	e.Status = StatusOperational
	e.LastMaintainedAt = &at
	e.scheduleNext()
	e.IncrementVersion()
}

func (e *Equipment) abortMaintenance() {
	if e.Status == StatusUnderMaintenance {
		e.Status = StatusOperational
		e.IncrementVersion()
	}
}

// SoftDelete deactivates the equipment
func (e *Equipment) SoftDelete() error {
	if e.Status == StatusUnderMaintenance {
		return shared.NewStateError("equipment %s is under maintenance", e.EquipmentCode)
	}
	if e.Deactivate() {
		e.IncrementVersion()
	}
	return nil
}

// Restore re-activates the equipment
func (e *Equipment) Restore() {
	if e.Activate() {
		e.IncrementVersion()
	}
}
