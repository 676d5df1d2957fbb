// Package equipment registers plant equipment and runs its maintenance jobs.
package equipment

import (
	"context"
	"time"

	"github.com/erp/logistics/internal/domain/equipment"
	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EquipmentService handles the equipment register
type EquipmentService struct {
	repo            equipment.EquipmentRepository
	maintenanceRepo equipment.MaintenanceRepository
}

// NewEquipmentService creates a new EquipmentService
func NewEquipmentService(repo equipment.EquipmentRepository, maintenanceRepo equipment.MaintenanceRepository) *EquipmentService {
	return &EquipmentService{repo: repo, maintenanceRepo: maintenanceRepo}
}

// Create registers equipment with a unique code
func (s *EquipmentService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateEquipmentRequest) (*EquipmentResponse, error) {
	e, err := equipment.NewEquipment(tenantID, req.EquipmentCode, equipment.Profile{
		Name:                    req.Name,
		Model:                   req.Model,
		Manufacturer:            req.Manufacturer,
		SerialNumber:            req.SerialNumber,
		LocationID:              req.LocationID,
		InstalledAt:             req.InstalledAt,
		MaintenanceIntervalDays: req.MaintenanceIntervalDays,
		Remark:                  req.Remark,
	})
	if err != nil {
		return nil, err
	}
	exists, err := s.repo.ExistsByCode(ctx, tenantID, e.EquipmentCode)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDuplicateError("equipment code", e.EquipmentCode)
	}
	if userID != uuid.Nil {
		e.SetCreatedBy(userID)
	}
	if err := s.repo.Save(ctx, e); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("equipment registered", zap.String("equipment_code", e.EquipmentCode))
	resp := ToEquipmentResponse(e)
	return &resp, nil
}

// GetByID retrieves equipment
func (s *EquipmentService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*EquipmentResponse, error) {
	e, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToEquipmentResponse(e)
	return &resp, nil
}

// List retrieves equipment with filtering and pagination
func (s *EquipmentService) List(ctx context.Context, tenantID uuid.UUID, filter EquipmentListFilter) ([]EquipmentResponse, int64, error) {
	f := filter.Filter()
	if filter.Status != "" {
		f = f.With("status", filter.Status)
	}
	if filter.LocationID != nil {
		f = f.With("location_id", *filter.LocationID)
	}
	if filter.DueBefore != nil {
		f = f.With("due_before", *filter.DueBefore)
	}

	items, err := s.repo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	return toEquipmentResponses(items), total, nil
}

// Due lists equipment whose next maintenance falls on or before asOf
func (s *EquipmentService) Due(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]EquipmentResponse, error) {
	if asOf.IsZero() {
		asOf = time.Now()
	}
	items, err := s.repo.FindDue(ctx, tenantID, asOf)
	if err != nil {
		return nil, err
	}
	return toEquipmentResponses(items), nil
}

func toEquipmentResponses(items []equipment.Equipment) []EquipmentResponse {
	out := make([]EquipmentResponse, len(items))
	for i := range items {
		out[i] = ToEquipmentResponse(&items[i])
	}
	return out
}

// Update edits the equipment profile
func (s *EquipmentService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateEquipmentRequest) (*EquipmentResponse, error) {
	e, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	p := equipment.Profile{
		Name:                    e.Name,
		Model:                   e.Model,
		Manufacturer:            e.Manufacturer,
		SerialNumber:            e.SerialNumber,
		LocationID:              e.LocationID,
		InstalledAt:             e.InstalledAt,
		MaintenanceIntervalDays: e.MaintenanceIntervalDays,
		Remark:                  e.Remark,
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Model != nil {
		p.Model = *req.Model
	}
	if req.Manufacturer != nil {
		p.Manufacturer = *req.Manufacturer
	}
	if req.SerialNumber != nil {
		p.SerialNumber = *req.SerialNumber
	}
	if req.LocationID != nil {
		p.LocationID = req.LocationID
	}
	if req.InstalledAt != nil {
		p.InstalledAt = req.InstalledAt
	}
	if req.MaintenanceIntervalDays != nil {
		p.MaintenanceIntervalDays = *req.MaintenanceIntervalDays
	}
	if req.Remark != nil {
		p.Remark = *req.Remark
	}
	if err := e.Update(p); err != nil {
		return nil, err
	}
	if err := s.repo.SaveWithLock(ctx, e); err != nil {
		return nil, err
	}
	resp := ToEquipmentResponse(e)
	return &resp, nil
}

// MarkBroken records a breakdown
func (s *EquipmentService) MarkBroken(ctx context.Context, tenantID, id uuid.UUID) (*EquipmentResponse, error) {
	return s.mutate(ctx, tenantID, id, (*equipment.Equipment).MarkBroken)
}

// Retire takes equipment out of service
func (s *EquipmentService) Retire(ctx context.Context, tenantID, id uuid.UUID) (*EquipmentResponse, error) {
	return s.mutate(ctx, tenantID, id, (*equipment.Equipment).Retire)
}

// Restore re-activates soft deleted equipment
func (s *EquipmentService) Restore(ctx context.Context, tenantID, id uuid.UUID) (*EquipmentResponse, error) {
	return s.mutate(ctx, tenantID, id, func(e *equipment.Equipment) error {
		e.Restore()
		return nil
	})
}

func (s *EquipmentService) mutate(ctx context.Context, tenantID, id uuid.UUID, fn func(*equipment.Equipment) error) (*EquipmentResponse, error) {
	e, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(e); err != nil {
		return nil, err
	}
	if err := s.repo.SaveWithLock(ctx, e); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("equipment status changed",
		zap.String("equipment_code", e.EquipmentCode),
		zap.String("status", string(e.Status)),
	)
	resp := ToEquipmentResponse(e)
	return &resp, nil
}

// Delete deactivates equipment, or removes it when hard is set. Hard delete
// is refused while scheduled or running jobs exist.
func (s *EquipmentService) Delete(ctx context.Context, tenantID, id uuid.UUID, hard bool) error {
	e, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if !hard {
		if err := e.SoftDelete(); err != nil {
			return err
		}
		return s.repo.SaveWithLock(ctx, e)
	}

	open, err := s.maintenanceRepo.CountOpenByEquipment(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if open > 0 {
		return shared.NewStateError("equipment %s has %d open maintenance jobs", e.EquipmentCode, open)
	}
	if err := s.repo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	logger.L(ctx).Info("equipment removed", zap.String("equipment_code", e.EquipmentCode))
	return nil
}
