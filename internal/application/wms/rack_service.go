package wms

import (
	"context"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/domain/wms"
	"github.com/erp/logistics/internal/infrastructure/logger"
	"github.com/erp/logistics/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RackService handles the rack master
type RackService struct {
	repo         wms.RackMasterRepository
	locationRepo wms.WMSLocationRepository
}

// NewRackService creates a new RackService
func NewRackService(repo wms.RackMasterRepository, locationRepo wms.WMSLocationRepository) *RackService {
	return &RackService{repo: repo, locationRepo: locationRepo}
}

// requireLocation rejects racks placed in a missing or inactive location
func (s *RackService) requireLocation(ctx context.Context, tenantID, locationID uuid.UUID) error {
	l, err := s.locationRepo.FindByIDForTenant(ctx, tenantID, locationID)
	if err != nil {
		if shared.HasCode(err, shared.CodeNotFound) {
			return shared.NewValidationError("location %s does not exist", locationID)
		}
		return err
	}
	if !l.IsActive {
		return shared.NewValidationError("location %s is inactive", l.LocationCode)
	}
	return nil
}

// Create registers a rack in an existing location
func (s *RackService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateRackRequest) (*RackResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "rack_master", "Create")
	defer span.End()

	r, err := wms.NewRackMaster(tenantID, req.RackCode, req.RackName, req.LocationID, wms.RackLayout{
		Zone:     req.Zone,
		Rows:     req.Rows,
		Columns:  req.Columns,
		Levels:   req.Levels,
		Capacity: req.Capacity,
	})
	if err != nil {
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrRackCode, r.RackCode)
	r.Remark = req.Remark

	exists, err := s.repo.ExistsByCode(ctx, tenantID, r.RackCode)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if exists {
		return nil, shared.NewDuplicateError("rack code", r.RackCode)
	}
	if err := s.requireLocation(ctx, tenantID, req.LocationID); err != nil {
		return nil, err
	}
	if userID != uuid.Nil {
		r.SetCreatedBy(userID)
	}

	if err := s.repo.Save(ctx, r); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	logger.L(ctx).Info("rack registered",
		zap.String("rack_code", r.RackCode),
		zap.Int("capacity", r.Capacity),
	)
	resp := ToRackResponse(r)
	return &resp, nil
}

// GetByID retrieves a rack
func (s *RackService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*RackResponse, error) {
	r, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToRackResponse(r)
	return &resp, nil
}

// List retrieves racks with filtering and pagination
func (s *RackService) List(ctx context.Context, tenantID uuid.UUID, filter RackListFilter) ([]RackResponse, int64, error) {
	f := filter.Filter()
	if filter.LocationID != nil {
		f = f.With("location_id", *filter.LocationID)
	}
	if filter.Zone != "" {
		f = f.With("zone", filter.Zone)
	}
	if filter.Status != "" {
		f = f.With("status", filter.Status)
	}

	racks, err := s.repo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]RackResponse, len(racks))
	for i := range racks {
		out[i] = ToRackResponse(&racks[i])
	}
	return out, total, nil
}

// Update edits a rack. Capacity may not drop below the slots in use.
func (s *RackService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateRackRequest) (*RackResponse, error) {
	r, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	name, locationID, remark := r.RackName, r.LocationID, r.Remark
	layout := wms.RackLayout{Zone: r.Zone, Rows: r.Rows, Columns: r.Columns, Levels: r.Levels}
	if req.RackName != nil {
		name = *req.RackName
	}
	if req.LocationID != nil && *req.LocationID != r.LocationID {
		if err := s.requireLocation(ctx, tenantID, *req.LocationID); err != nil {
			return nil, err
		}
		locationID = *req.LocationID
	}
	if req.Zone != nil {
		layout.Zone = *req.Zone
	}
	if req.Rows != nil {
		layout.Rows = *req.Rows
	}
	if req.Columns != nil {
		layout.Columns = *req.Columns
	}
	if req.Levels != nil {
		layout.Levels = *req.Levels
	}
	switch {
	case req.Capacity != nil:
		layout.Capacity = *req.Capacity
	case req.Rows == nil && req.Columns == nil && req.Levels == nil:
		layout.Capacity = r.Capacity
	}
	if req.Remark != nil {
		remark = *req.Remark
	}
	if err := r.Update(name, locationID, layout, remark); err != nil {
		return nil, err
	}

	if err := s.repo.SaveWithLock(ctx, r); err != nil {
		return nil, err
	}
	resp := ToRackResponse(r)
	return &resp, nil
}

// Delete deactivates an empty rack, or removes it when hard is set
func (s *RackService) Delete(ctx context.Context, tenantID, id uuid.UUID, hard bool) error {
	r, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := r.SoftDelete(); err != nil {
		return err
	}
	if hard {
		if err := s.repo.DeleteForTenant(ctx, tenantID, id); err != nil {
			return err
		}
		logger.L(ctx).Info("rack removed", zap.String("rack_code", r.RackCode))
		return nil
	}
	return s.repo.SaveWithLock(ctx, r)
}

// Restore re-activates a rack
func (s *RackService) Restore(ctx context.Context, tenantID, id uuid.UUID) (*RackResponse, error) {
	return s.mutate(ctx, tenantID, id, func(r *wms.RackMaster) error {
		r.Restore()
		return nil
	})
}

// StartMaintenance blocks inbound stock on the rack
func (s *RackService) StartMaintenance(ctx context.Context, tenantID, id uuid.UUID) (*RackResponse, error) {
	return s.mutate(ctx, tenantID, id, (*wms.RackMaster).StartMaintenance)
}

// EndMaintenance returns the rack to service
func (s *RackService) EndMaintenance(ctx context.Context, tenantID, id uuid.UUID) (*RackResponse, error) {
	return s.mutate(ctx, tenantID, id, (*wms.RackMaster).EndMaintenance)
}

func (s *RackService) mutate(ctx context.Context, tenantID, id uuid.UUID, fn func(*wms.RackMaster) error) (*RackResponse, error) {
	r, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(r); err != nil {
		return nil, err
	}
	if err := s.repo.SaveWithLock(ctx, r); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("rack status changed", zap.String("rack_code", r.RackCode), zap.String("status", string(r.Status)))
	resp := ToRackResponse(r)
	return &resp, nil
}
