package wms

import (
	"strings"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/google/uuid"
)

// RackStatus is the availability of a rack
type RackStatus string

const (
	RackStatusAvailable   RackStatus = "available"
	RackStatusFull        RackStatus = "full"
	RackStatusMaintenance RackStatus = "maintenance"
	RackStatusInactive    RackStatus = "inactive"
)

// IsValid checks if the status is a known value
func (s RackStatus) IsValid() bool {
	switch s {
	case RackStatusAvailable, RackStatusFull, RackStatusMaintenance, RackStatusInactive:
		return true
	}
	return false
}

// RackMaster is a storage rack made of slots
type RackMaster struct {
	shared.TenantAggregateRoot
	shared.Activatable
	RackCode     string
	RackName     string
	LocationID   uuid.UUID
	Zone         string
	Rows         int
	Columns      int
	Levels       int
	Capacity     int
	UsedCapacity int
	Status       RackStatus
	Remark       string
}

// RackLayout describes the rack geometry
type RackLayout struct {
	Zone     string
	Rows     int
	Columns  int
	Levels   int
	Capacity int // zero derives Rows*Columns*Levels
}

func (l RackLayout) capacity() (int, error) {
	if l.Rows < 0 || l.Columns < 0 || l.Levels < 0 || l.Capacity < 0 {
		return 0, shared.NewValidationError("rack dimensions cannot be negative")
	}
	if l.Capacity > 0 {
		return l.Capacity, nil
	}
	derived := l.Rows * l.Columns * l.Levels
	if derived == 0 {
		return 0, shared.NewValidationError("rack capacity must be positive")
	}
	return derived, nil
}

// NewRackMaster creates an available rack at a location
func NewRackMaster(tenantID uuid.UUID, code, name string, locationID uuid.UUID, layout RackLayout) (*RackMaster, error) {
	code, err := normalizeCode("rack code", code)
	if err != nil {
		return nil, err
	}
	if locationID == uuid.Nil {
		return nil, shared.NewValidationError("location is required")
	}
	r := &RackMaster{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Activatable:         shared.NewActivatable(),
		RackCode:            code,
		LocationID:          locationID,
		Status:              RackStatusAvailable,
	}
	if err := r.apply(name, layout); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *RackMaster) apply(name string, layout RackLayout) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("rack name is required")
	}
	capacity, err := layout.capacity()
	if err != nil {
		return err
	}
	if capacity < r.UsedCapacity {
		return shared.NewValidationError("capacity %d is below used capacity %d", capacity, r.UsedCapacity)
	}
	r.RackName = name
	r.Zone = strings.TrimSpace(layout.Zone)
	r.Rows = layout.Rows
	r.Columns = layout.Columns
	r.Levels = layout.Levels
	r.Capacity = capacity
	return nil
}

// Update changes name, location and layout
func (r *RackMaster) Update(name string, locationID uuid.UUID, layout RackLayout, remark string) error {
	if locationID == uuid.Nil {
		return shared.NewValidationError("location is required")
	}
	if err := r.apply(name, layout); err != nil {
		return err
	}
	r.LocationID = locationID
	r.Remark = remark
	r.refreshStatus()
	r.IncrementVersion()
	return nil
}

// AvailableCapacity returns free slots
func (r *RackMaster) AvailableCapacity() int {
	return r.Capacity - r.UsedCapacity
}

// CanStore reports whether the rack accepts new inventory
func (r *RackMaster) CanStore() bool {
	return r.IsActive && r.Status == RackStatusAvailable
}

// Occupy takes n slots
func (r *RackMaster) Occupy(n int) error {
	if n <= 0 {
		return shared.NewValidationError("slot count must be positive")
	}
	if !r.CanStore() {
		return shared.NewStateError("rack %s is %s", r.RackCode, r.Status)
	}
	if r.UsedCapacity+n > r.Capacity {
		return shared.NewStateError("rack %s has %d free slots, %d requested", r.RackCode, r.AvailableCapacity(), n)
	}
	r.UsedCapacity += n
	r.refreshStatus()
	r.IncrementVersion()
	return nil
}

// Release frees n slots, never going below zero
func (r *RackMaster) Release(n int) {
	if n <= 0 {
		return
	}
	r.UsedCapacity -= n
	if r.UsedCapacity < 0 {
		r.UsedCapacity = 0
	}
	r.refreshStatus()
	r.IncrementVersion()
}

// refreshStatus toggles between available and full. Maintenance and inactive are left alone.
func (r *RackMaster) refreshStatus() {
	switch r.Status {
	case RackStatusAvailable, RackStatusFull:
		if r.UsedCapacity >= r.Capacity {
			r.Status = RackStatusFull
		} else {
			r.Status = RackStatusAvailable
		}
	}
}

// StartMaintenance blocks new inventory
func (r *RackMaster) StartMaintenance() error {
	if r.Status == RackStatusInactive {
		return shared.NewStateError("rack %s is inactive", r.RackCode)
	}
	r.Status = RackStatusMaintenance
	r.IncrementVersion()
	return nil
}

// EndMaintenance returns the rack to service
func (r *RackMaster) EndMaintenance() error {
	if r.Status != RackStatusMaintenance {
		return shared.NewStateError("rack %s is not under maintenance", r.RackCode)
	}
	r.Status = RackStatusAvailable
	r.refreshStatus()
	r.IncrementVersion()
	return nil
}

// SoftDelete deactivates the rack. A rack holding inventory cannot be deactivated.
func (r *RackMaster) SoftDelete() error {
	if r.UsedCapacity > 0 {
		return shared.NewStateError("rack %s still holds inventory", r.RackCode)
	}
	if r.Deactivate() {
		r.Status = RackStatusInactive
		r.IncrementVersion()
	}
	return nil
}

// Restore re-activates the rack
func (r *RackMaster) Restore() {
	if r.Activate() {
		r.Status = RackStatusAvailable
		r.refreshStatus()
		r.IncrementVersion()
	}
}
