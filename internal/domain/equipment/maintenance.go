package equipment

import (
	"slices"
	"strings"
	"time"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaintenanceType classifies a maintenance job
type MaintenanceType string

const (
	MaintenanceTypePreventive MaintenanceType = "preventive"
	MaintenanceTypeCorrective MaintenanceType = "corrective"
	MaintenanceTypeInspection MaintenanceType = "inspection"
)

// IsValid checks if the type is a known value
func (t MaintenanceType) IsValid() bool {
	switch t {
	case MaintenanceTypePreventive, MaintenanceTypeCorrective, MaintenanceTypeInspection:
		return true
	}
	return false
}

// MaintenanceStatus is the lifecycle of a maintenance job
type MaintenanceStatus string

const (
	MaintenanceStatusScheduled  MaintenanceStatus = "scheduled"
	MaintenanceStatusInProgress MaintenanceStatus = "in_progress"
	MaintenanceStatusCompleted  MaintenanceStatus = "completed"
	MaintenanceStatusCancelled  MaintenanceStatus = "cancelled"
)

// IsValid checks if the status is a known value
func (s MaintenanceStatus) IsValid() bool {
	switch s {
	case MaintenanceStatusScheduled, MaintenanceStatusInProgress, MaintenanceStatusCompleted, MaintenanceStatusCancelled:
		return true
	}
	return false
}

// MaxAttachments caps the files stored per record
const MaxAttachments = 20

// MaintenanceRecord is one maintenance job on a piece of equipment
type MaintenanceRecord struct {
	shared.TenantAggregateRoot
	EquipmentID   uuid.UUID
	EquipmentCode string
	Type          MaintenanceType
	Status        MaintenanceStatus
	ScheduledDate time.Time
	StartedAt     *time.Time
	CompletedAt   *time.Time
	CancelledAt   *time.Time
	Technician    string
	Description   string
	Resolution    string
	Cost          decimal.Decimal
	Attachments   []string
}

// NewMaintenanceRecord schedules a job
func NewMaintenanceRecord(tenantID uuid.UUID, eq *Equipment, maintenanceType MaintenanceType, scheduledDate time.Time, technician, description string) (*MaintenanceRecord, error) {
	if !maintenanceType.IsValid() {
		return nil, shared.NewValidationError("invalid maintenance type: %s", maintenanceType)
	}
	if scheduledDate.IsZero() {
		return nil, shared.NewValidationError("scheduled date is required")
	}
	if eq.Status == StatusRetired {
		return nil, shared.NewStateError("equipment %s is retired", eq.EquipmentCode)
	}
	return &MaintenanceRecord{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		EquipmentID:         eq.ID,
		EquipmentCode:       eq.EquipmentCode,
		Type:                maintenanceType,
		Status:              MaintenanceStatusScheduled,
		ScheduledDate:       scheduledDate,
		Technician:          strings.TrimSpace(technician),
		Description:         description,
		Cost:                decimal.Zero,
		Attachments:         []string{},
	}, nil
}

// Reschedule moves a scheduled job
func (m *MaintenanceRecord) Reschedule(scheduledDate time.Time, technician, description string) error {
	if m.Status != MaintenanceStatusScheduled {
		return shared.NewStateError("only scheduled maintenance can be edited, current status: %s", m.Status)
	}
	if scheduledDate.IsZero() {
		return shared.NewValidationError("scheduled date is required")
	}
	m.ScheduledDate = scheduledDate
	m.Technician = strings.TrimSpace(technician)
	m.Description = description
	m.IncrementVersion()
	return nil
}

// Start begins work and puts the equipment under maintenance
func (m *MaintenanceRecord) Start(eq *Equipment) error {
	if m.Status != MaintenanceStatusScheduled {
		return shared.NewStateError("cannot start maintenance in %s status", m.Status)
	}
	if eq.ID != m.EquipmentID {
		return shared.NewValidationError("equipment does not match the maintenance record")
	}
	if err := eq.beginMaintenance(); err != nil {
		return err
	}
	now := time.Now()
	m.Status = MaintenanceStatusInProgress
	m.StartedAt = &now
	m.IncrementVersion()
	return nil
}

// Complete finishes the job and returns the equipment to operation
func (m *MaintenanceRecord) Complete(eq *Equipment, resolution string, cost decimal.Decimal) error {
	if m.Status != MaintenanceStatusInProgress {
		return shared.NewStateError("cannot complete maintenance in %s status", m.Status)
	}
	if eq.ID != m.EquipmentID {
		return shared.NewValidationError("equipment does not match the maintenance record")
	}
	if cost.IsNegative() {
		return shared.NewValidationError("cost cannot be negative")
	}
	now := time.Now()
	m.Status = MaintenanceStatusCompleted
	m.CompletedAt = &now
	m.Resolution = resolution
	m.Cost = cost
	eq.finishMaintenance(now)
	m.IncrementVersion()
	return nil
}

// Cancel aborts a scheduled or running job. A running job releases the equipment.
func (m *MaintenanceRecord) Cancel(eq *Equipment) error {
	switch m.Status {
	case MaintenanceStatusScheduled:
	case MaintenanceStatusInProgress:
		if eq == nil || eq.ID != m.EquipmentID {
			return shared.NewValidationError("equipment does not match the maintenance record")
		}
		eq.abortMaintenance()
	default:
		return shared.NewStateError("cannot cancel maintenance in %s status", m.Status)
	}
	now := time.Now()
	m.Status = MaintenanceStatusCancelled
	m.CancelledAt = &now
	m.IncrementVersion()
	return nil
}

// AddAttachment registers an uploaded object key
func (m *MaintenanceRecord) AddAttachment(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return shared.NewValidationError("attachment key is required")
	}
	if m.Status == MaintenanceStatusCancelled {
		return shared.NewStateError("cannot attach files to cancelled maintenance")
	}
	if slices.Contains(m.Attachments, key) {
		return nil
	}
	if len(m.Attachments) >= MaxAttachments {
		return shared.NewValidationError("a maintenance record holds at most %d attachments", MaxAttachments)
	}
	m.Attachments = append(m.Attachments, key)
	m.IncrementVersion()
	return nil
}

// RemoveAttachment drops an object key. Returns false when it was not attached.
func (m *MaintenanceRecord) RemoveAttachment(key string) bool {
	i := slices.Index(m.Attachments, key)
	if i < 0 {
		return false
	}
	m.Attachments = slices.Delete(m.Attachments, i, i+1)
	m.IncrementVersion()
	return true
}

// AttachmentPrefix is the object key prefix for files of this record
func (m *MaintenanceRecord) AttachmentPrefix() string {
	return "maintenance/" + m.TenantID.String() + "/" + m.ID.String() + "/"
}

// OwnsAttachment reports whether key lives under this record's prefix
func (m *MaintenanceRecord) OwnsAttachment(key string) bool {
	return strings.HasPrefix(key, m.AttachmentPrefix())
}
