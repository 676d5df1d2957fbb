package equipment

import (
	"context"
	"errors"

	"github.com/erp/logistics/internal/domain/equipment"
	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/infrastructure/logger"
	"github.com/erp/logistics/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaintenanceService schedules and runs maintenance jobs and keeps their attachments
type MaintenanceService struct {
	repo          equipment.MaintenanceRepository
	equipmentRepo equipment.EquipmentRepository
	storage       ObjectStorage
	config        AttachmentConfig
}

// NewMaintenanceService creates a new MaintenanceService
func NewMaintenanceService(
	repo equipment.MaintenanceRepository,
	equipmentRepo equipment.EquipmentRepository,
	storage ObjectStorage,
) *MaintenanceService {
	return &MaintenanceService{
		repo:          repo,
		equipmentRepo: equipmentRepo,
		storage:       storage,
		config:        DefaultAttachmentConfig(),
	}
}

// SetConfig sets the attachment configuration
func (s *MaintenanceService) SetConfig(config AttachmentConfig) {
	s.config = config
}

// Schedule books a job on a piece of equipment
func (s *MaintenanceService) Schedule(ctx context.Context, tenantID, userID uuid.UUID, req ScheduleMaintenanceRequest) (*MaintenanceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "maintenance", "Schedule")
	defer span.End()

	eq, err := s.equipmentRepo.FindByIDForTenant(ctx, tenantID, req.EquipmentID)
	if err != nil {
		return nil, err
	}
	m, err := equipment.NewMaintenanceRecord(tenantID, eq, equipment.MaintenanceType(req.Type),
		req.ScheduledDate, req.Technician, req.Description)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if userID != uuid.Nil {
		m.SetCreatedBy(userID)
	}
	if err := s.repo.Save(ctx, m); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	logger.L(ctx).Info("maintenance scheduled",
		zap.String("equipment_code", m.EquipmentCode),
		zap.String("type", string(m.Type)),
		zap.Time("scheduled_date", m.ScheduledDate),
	)
	resp := ToMaintenanceResponse(m)
	return &resp, nil
}

// GetByID retrieves a record with download URLs for its attachments
func (s *MaintenanceService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*MaintenanceResponse, error) {
	m, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToMaintenanceResponse(m)
	s.presignDownloads(ctx, &resp)
	return &resp, nil
}

// presignDownloads fills download URLs. Storage failures leave them empty.
func (s *MaintenanceService) presignDownloads(ctx context.Context, resp *MaintenanceResponse) {
	for i := range resp.Attachments {
		url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, resp.Attachments[i].Key, s.config.DownloadURLExpiry)
		if err != nil {
			logger.L(ctx).Warn("failed to presign attachment download",
				zap.String("key", resp.Attachments[i].Key), zap.Error(err))
			return
		}
		resp.Attachments[i].DownloadURL = url
		resp.Attachments[i].ExpiresAt = &expiresAt
	}
}

// List retrieves records with filtering and pagination
func (s *MaintenanceService) List(ctx context.Context, tenantID uuid.UUID, filter MaintenanceListFilter) ([]MaintenanceResponse, int64, error) {
	f := filter.Filter()
	if filter.OrderBy == "" {
		f.OrderBy = "scheduled_date"
	}
	if filter.EquipmentID != nil {
		f = f.With("equipment_id", *filter.EquipmentID)
	}
	if filter.Status != "" {
		f = f.With("status", filter.Status)
	}
	if filter.Type != "" {
		f = f.With("type", filter.Type)
	}
	if filter.From != nil {
		f = f.With("from", *filter.From)
	}
	if filter.To != nil {
		f = f.With("to", *filter.To)
	}

	records, err := s.repo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]MaintenanceResponse, len(records))
	for i := range records {
		out[i] = ToMaintenanceResponse(&records[i])
	}
	return out, total, nil
}

// Reschedule edits a scheduled job
func (s *MaintenanceService) Reschedule(ctx context.Context, tenantID, id uuid.UUID, req RescheduleMaintenanceRequest) (*MaintenanceResponse, error) {
	m, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	technician, description := m.Technician, m.Description
	if req.Technician != nil {
		technician = *req.Technician
	}
	if req.Description != nil {
		description = *req.Description
	}
	if err := m.Reschedule(req.ScheduledDate, technician, description); err != nil {
		return nil, err
	}
	if err := s.repo.SaveWithLock(ctx, m); err != nil {
		return nil, err
	}
	resp := ToMaintenanceResponse(m)
	return &resp, nil
}

// Start begins a scheduled job and puts the equipment under maintenance
func (s *MaintenanceService) Start(ctx context.Context, tenantID, id uuid.UUID) (*MaintenanceResponse, error) {
	return s.withEquipment(ctx, tenantID, id, "Start", func(m *equipment.MaintenanceRecord, eq *equipment.Equipment) error {
		return m.Start(eq)
	})
}

// Complete closes a running job and moves the equipment's next due date
func (s *MaintenanceService) Complete(ctx context.Context, tenantID, id uuid.UUID, req CompleteMaintenanceRequest) (*MaintenanceResponse, error) {
	return s.withEquipment(ctx, tenantID, id, "Complete", func(m *equipment.MaintenanceRecord, eq *equipment.Equipment) error {
		return m.Complete(eq, req.Resolution, req.Cost)
	})
}

// Cancel aborts a scheduled or running job
func (s *MaintenanceService) Cancel(ctx context.Context, tenantID, id uuid.UUID) (*MaintenanceResponse, error) {
	m, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if m.Status != equipment.MaintenanceStatusInProgress {
		if err := m.Cancel(nil); err != nil {
			return nil, err
		}
		if err := s.repo.SaveWithLock(ctx, m); err != nil {
			return nil, err
		}
		resp := ToMaintenanceResponse(m)
		return &resp, nil
	}
	return s.withEquipment(ctx, tenantID, id, "Cancel", func(m *equipment.MaintenanceRecord, eq *equipment.Equipment) error {
		return m.Cancel(eq)
	})
}

// withEquipment applies a transition that changes the record and its
// equipment, then writes both in one transaction.
func (s *MaintenanceService) withEquipment(
	ctx context.Context,
	tenantID, id uuid.UUID,
	op string,
	fn func(*equipment.MaintenanceRecord, *equipment.Equipment) error,
) (*MaintenanceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "maintenance", op)
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrDocumentID, id.String())

	m, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	eq, err := s.equipmentRepo.FindByIDForTenant(ctx, tenantID, m.EquipmentID)
	if err != nil {
		return nil, err
	}
	if err := fn(m, eq); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.repo.SaveWithEquipment(ctx, m, eq); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrStatus, string(m.Status))
	logger.L(ctx).Info("maintenance "+string(m.Status),
		zap.String("equipment_code", m.EquipmentCode),
		zap.String("equipment_status", string(eq.Status)),
	)
	resp := ToMaintenanceResponse(m)
	return &resp, nil
}

// Delete removes a job that is not running. Its stored files are deleted best effort.
func (s *MaintenanceService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	m, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if m.Status == equipment.MaintenanceStatusInProgress {
		return shared.NewStateError("cannot delete maintenance in %s status", m.Status)
	}
	if err := s.repo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	for _, key := range m.Attachments {
		if err := s.storage.DeleteObject(ctx, key); err != nil {
			logger.L(ctx).Warn("failed to delete attachment object", zap.String("key", key), zap.Error(err))
		}
	}
	return nil
}

// CreateUploadURL presigns an upload under the record's key prefix. The
// client registers the returned key once the upload finished.
func (s *MaintenanceService) CreateUploadURL(ctx context.Context, tenantID, id uuid.UUID, req UploadURLRequest) (*UploadURLResponse, error) {
	m, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if m.Status == equipment.MaintenanceStatusCancelled {
		return nil, shared.NewStateError("cannot attach files to cancelled maintenance")
	}
	if len(m.Attachments) >= equipment.MaxAttachments {
		return nil, shared.NewValidationError("a maintenance record holds at most %d attachments", equipment.MaxAttachments)
	}
	if !isAllowedContentType(req.ContentType) {
		return nil, shared.NewValidationError("content type %q is not allowed", req.ContentType)
	}

	key := objectKey(m.AttachmentPrefix(), req.FileName)
	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, req.ContentType, s.config.UploadURLExpiry)
	if err != nil {
		logger.L(ctx).Error("failed to presign attachment upload", zap.String("key", key), zap.Error(err))
		return nil, storageError(err)
	}
	return &UploadURLResponse{Key: key, UploadURL: url, ExpiresAt: expiresAt}, nil
}

// RegisterAttachment attaches an uploaded object to the record
func (s *MaintenanceService) RegisterAttachment(ctx context.Context, tenantID, id uuid.UUID, req RegisterAttachmentRequest) (*MaintenanceResponse, error) {
	m, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !m.OwnsAttachment(req.Key) {
		return nil, shared.NewValidationError("attachment key does not belong to this maintenance record")
	}
	exists, err := s.storage.ObjectExists(ctx, req.Key)
	if err != nil {
		return nil, storageError(err)
	}
	if !exists {
		return nil, shared.NewValidationError("file not found in storage, upload it first")
	}
	if err := m.AddAttachment(req.Key); err != nil {
		return nil, err
	}
	if err := s.repo.SaveWithLock(ctx, m); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("maintenance attachment registered", zap.String("key", req.Key))
	resp := ToMaintenanceResponse(m)
	s.presignDownloads(ctx, &resp)
	return &resp, nil
}

// RemoveAttachment detaches a file and deletes the object
func (s *MaintenanceService) RemoveAttachment(ctx context.Context, tenantID, id uuid.UUID, key string) (*MaintenanceResponse, error) {
	m, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !m.RemoveAttachment(key) {
		return nil, shared.NewNotFoundError("attachment")
	}
	if err := s.repo.SaveWithLock(ctx, m); err != nil {
		return nil, err
	}
	if err := s.storage.DeleteObject(ctx, key); err != nil {
		logger.L(ctx).Warn("failed to delete attachment object", zap.String("key", key), zap.Error(err))
	}
	resp := ToMaintenanceResponse(m)
	s.presignDownloads(ctx, &resp)
	return &resp, nil
}

// storageError keeps domain errors of the storage adapter and reports
// anything else as an unavailable dependency.
func storageError(err error) error {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return err
	}
	return shared.ErrServiceUnavailable
}
