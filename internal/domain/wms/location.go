// Package wms holds warehouse masters and rack-level inventory.
package wms

import (
	"strings"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/google/uuid"
)

// LocationType classifies a warehouse location
type LocationType string

const (
	LocationTypeWarehouse LocationType = "warehouse"
	LocationTypeZone      LocationType = "zone"
	LocationTypeDock      LocationType = "dock"
	LocationTypeStaging   LocationType = "staging"
	LocationTypeYard      LocationType = "yard"
)

// IsValid checks if the type is a known value
func (t LocationType) IsValid() bool {
	switch t {
	case LocationTypeWarehouse, LocationTypeZone, LocationTypeDock, LocationTypeStaging, LocationTypeYard:
		return true
	}
	return false
}

// LocationStatus is the operating status of a location
type LocationStatus string

const (
	LocationStatusActive   LocationStatus = "active"
	LocationStatusInactive LocationStatus = "inactive"
)

// WMSLocation is a physical place that holds racks
type WMSLocation struct {
	shared.TenantAggregateRoot
	shared.Activatable
	LocationCode string
	Name         string
	Type         LocationType
	ParentID     *uuid.UUID
	Address      string
	Capacity     int
	Status       LocationStatus
	Description  string
}

// NewWMSLocation creates an active location
func NewWMSLocation(tenantID uuid.UUID, code, name string, locationType LocationType) (*WMSLocation, error) {
	code, err := normalizeCode("location code", code)
	if err != nil {
		return nil, err
	}
	l := &WMSLocation{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Activatable:         shared.NewActivatable(),
		LocationCode:        code,
		Status:              LocationStatusActive,
	}
	if err := l.rename(name, locationType); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *WMSLocation) rename(name string, locationType LocationType) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("location name is required")
	}
	if !locationType.IsValid() {
		return shared.NewValidationError("invalid location type: %s", locationType)
	}
	l.Name = name
	l.Type = locationType
	return nil
}

// LocationDetails holds the optional descriptive fields
type LocationDetails struct {
	ParentID    *uuid.UUID
	Address     string
	Capacity    int
	Description string
}

// SetDetails replaces the optional fields
func (l *WMSLocation) SetDetails(d LocationDetails) error {
	if d.Capacity < 0 {
		return shared.NewValidationError("capacity cannot be negative")
	}
	if d.ParentID != nil && *d.ParentID == l.ID {
		return shared.NewValidationError("location cannot be its own parent")
	}
	l.ParentID = d.ParentID
	l.Address = strings.TrimSpace(d.Address)
	l.Capacity = d.Capacity
	l.Description = d.Description
	return nil
}

// Update changes name, type, status and details
func (l *WMSLocation) Update(name string, locationType LocationType, status LocationStatus, d LocationDetails) error {
	if status != LocationStatusActive && status != LocationStatusInactive {
		return shared.NewValidationError("invalid location status: %s", status)
	}
	if err := l.rename(name, locationType); err != nil {
		return err
	}
	if err := l.SetDetails(d); err != nil {
		return err
	}
	l.Status = status
	l.IncrementVersion()
	return nil
}

// SoftDelete deactivates the location
func (l *WMSLocation) SoftDelete() {
	if l.Deactivate() {
		l.Status = LocationStatusInactive
		l.IncrementVersion()
	}
}

// Restore re-activates the location
func (l *WMSLocation) Restore() {
	if l.Activate() {
		l.Status = LocationStatusActive
		l.IncrementVersion()
	}
}

func normalizeCode(label, code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "", shared.NewValidationError("%s is required", label)
	}
	if len(code) > 50 {
		return "", shared.NewValidationError("%s cannot exceed 50 characters", label)
	}
	return code, nil
}
