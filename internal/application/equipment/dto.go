package equipment

import (
	"time"

	"github.com/erp/logistics/internal/application/common"
	"github.com/erp/logistics/internal/domain/equipment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Equipment
// =============================================================================

// CreateEquipmentRequest represents a request to register equipment
type CreateEquipmentRequest struct {
	EquipmentCode           string     `json:"equipment_code" binding:"required,min=1,max=50"`
	Name                    string     `json:"name" binding:"required,min=1,max=200"`
	Model                   string     `json:"model" binding:"max=100"`
	Manufacturer            string     `json:"manufacturer" binding:"max=100"`
	SerialNumber            string     `json:"serial_number" binding:"max=100"`
	LocationID              *uuid.UUID `json:"location_id"`
	InstalledAt             *time.Time `json:"installed_at"`
	MaintenanceIntervalDays int        `json:"maintenance_interval_days" binding:"min=0,max=3650"`
	Remark                  string     `json:"remark" binding:"max=1000"`
}

// UpdateEquipmentRequest edits equipment. Nil fields keep their value.
type UpdateEquipmentRequest struct {
	Name                    *string    `json:"name" binding:"omitempty,min=1,max=200"`
	Model                   *string    `json:"model" binding:"omitempty,max=100"`
	Manufacturer            *string    `json:"manufacturer" binding:"omitempty,max=100"`
	SerialNumber            *string    `json:"serial_number" binding:"omitempty,max=100"`
	LocationID              *uuid.UUID `json:"location_id"`
	InstalledAt             *time.Time `json:"installed_at"`
	MaintenanceIntervalDays *int       `json:"maintenance_interval_days" binding:"omitempty,min=0,max=3650"`
	Remark                  *string    `json:"remark" binding:"omitempty,max=1000"`
}

// EquipmentListFilter is the list query of equipment
type EquipmentListFilter struct {
	common.ListQuery
	Status     string     `form:"status" binding:"omitempty,oneof=operational under_maintenance broken retired"`
	LocationID *uuid.UUID `form:"location_id"`
	DueBefore  *time.Time `form:"due_before" time_format:"2006-01-02"`
}

// EquipmentResponse represents equipment in API responses
type EquipmentResponse struct {
	ID                      uuid.UUID  `json:"id"`
	EquipmentCode           string     `json:"equipment_code"`
	Name                    string     `json:"name"`
	Model                   string     `json:"model"`
	Manufacturer            string     `json:"manufacturer"`
	SerialNumber            string     `json:"serial_number"`
	LocationID              *uuid.UUID `json:"location_id,omitempty"`
	InstalledAt             *time.Time `json:"installed_at,omitempty"`
	Status                  string     `json:"status"`
	MaintenanceIntervalDays int        `json:"maintenance_interval_days"`
	LastMaintainedAt        *time.Time `json:"last_maintained_at,omitempty"`
	NextMaintenanceDue      *time.Time `json:"next_maintenance_due,omitempty"`
	IsDue                   bool       `json:"is_due"`
	Remark                  string     `json:"remark"`
	IsActive                bool       `json:"is_active"`
	Version                 int        `json:"version"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
}

// ToEquipmentResponse converts domain equipment to a response
func ToEquipmentResponse(e *equipment.Equipment) EquipmentResponse {
	return EquipmentResponse{
		ID:                      e.ID,
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
		IsDue:                   e.IsDue(time.Now()),
		Remark:                  e.Remark,
		IsActive:                e.IsActive,
		Version:                 e.Version,
		CreatedAt:               e.CreatedAt,
		UpdatedAt:               e.UpdatedAt,
	}
}

// =============================================================================
// Maintenance
// =============================================================================

// ScheduleMaintenanceRequest books a maintenance job
type ScheduleMaintenanceRequest struct {
	EquipmentID   uuid.UUID `json:"equipment_id" binding:"required"`
	Type          string    `json:"type" binding:"required,oneof=preventive corrective inspection"`
	ScheduledDate time.Time `json:"scheduled_date" binding:"required"`
	Technician    string    `json:"technician" binding:"max=100"`
	Description   string    `json:"description" binding:"max=2000"`
}

// RescheduleMaintenanceRequest edits a scheduled job
type RescheduleMaintenanceRequest struct {
	ScheduledDate time.Time `json:"scheduled_date" binding:"required"`
	Technician    *string   `json:"technician" binding:"omitempty,max=100"`
	Description   *string   `json:"description" binding:"omitempty,max=2000"`
}

// CompleteMaintenanceRequest closes a running job
type CompleteMaintenanceRequest struct {
	Resolution string          `json:"resolution" binding:"max=2000"`
	Cost       decimal.Decimal `json:"cost"`
}

// MaintenanceListFilter is the list query of maintenance records
type MaintenanceListFilter struct {
	common.ListQuery
	EquipmentID *uuid.UUID `form:"equipment_id"`
	Status      string     `form:"status" binding:"omitempty,oneof=scheduled in_progress completed cancelled"`
	Type        string     `form:"type" binding:"omitempty,oneof=preventive corrective inspection"`
	From        *time.Time `form:"from" time_format:"2006-01-02"`
	To          *time.Time `form:"to" time_format:"2006-01-02"`
}

// UploadURLRequest asks for a presigned upload URL
type UploadURLRequest struct {
	FileName    string `json:"file_name" binding:"required,min=1,max=255"`
	ContentType string `json:"content_type" binding:"required,max=100"`
}

// UploadURLResponse carries the presigned URL and the key to register afterwards
type UploadURLResponse struct {
	Key       string    `json:"key"`
	UploadURL string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RegisterAttachmentRequest attaches an uploaded object to the record
type RegisterAttachmentRequest struct {
	Key string `json:"key" binding:"required,max=500"`
}

// AttachmentResponse is one stored file. DownloadURL is empty when storage
// could not presign it.
type AttachmentResponse struct {
	Key         string     `json:"key"`
	FileName    string     `json:"file_name"`
	DownloadURL string     `json:"download_url,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// MaintenanceResponse represents a maintenance record in API responses
type MaintenanceResponse struct {
	ID            uuid.UUID            `json:"id"`
	EquipmentID   uuid.UUID            `json:"equipment_id"`
	EquipmentCode string               `json:"equipment_code"`
	Type          string               `json:"type"`
	Status        string               `json:"status"`
	ScheduledDate time.Time            `json:"scheduled_date"`
	StartedAt     *time.Time           `json:"started_at,omitempty"`
	CompletedAt   *time.Time           `json:"completed_at,omitempty"`
	CancelledAt   *time.Time           `json:"cancelled_at,omitempty"`
	Technician    string               `json:"technician"`
	Description   string               `json:"description"`
	Resolution    string               `json:"resolution"`
	Cost          decimal.Decimal      `json:"cost"`
	Attachments   []AttachmentResponse `json:"attachments"`
	Version       int                  `json:"version"`
	CreatedBy     *uuid.UUID           `json:"created_by,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// ToMaintenanceResponse converts a domain record to a response without download URLs
func ToMaintenanceResponse(m *equipment.MaintenanceRecord) MaintenanceResponse {
	attachments := make([]AttachmentResponse, len(m.Attachments))
	for i, key := range m.Attachments {
		attachments[i] = AttachmentResponse{Key: key, FileName: fileName(key)}
	}
	return MaintenanceResponse{
		ID:            m.ID,
		EquipmentID:   m.EquipmentID,
		EquipmentCode: m.EquipmentCode,
		Type:          string(m.Type),
		Status:        string(m.Status),
		ScheduledDate: m.ScheduledDate,
		StartedAt:     m.StartedAt,
		CompletedAt:   m.CompletedAt,
		CancelledAt:   m.CancelledAt,
		Technician:    m.Technician,
		Description:   m.Description,
		Resolution:    m.Resolution,
		Cost:          m.Cost,
		Attachments:   attachments,
		Version:       m.Version,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
