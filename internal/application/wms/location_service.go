// Package wms manages warehouse locations, the part master, racks and the
// stock held in rack slots.
package wms

import (
	"context"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/domain/wms"
	"github.com/erp/logistics/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LocationService handles WMS locations
type LocationService struct {
	repo     wms.WMSLocationRepository
	rackRepo wms.RackMasterRepository
}

// NewLocationService creates a new LocationService
func NewLocationService(repo wms.WMSLocationRepository, rackRepo wms.RackMasterRepository) *LocationService {
	return &LocationService{repo: repo, rackRepo: rackRepo}
}

// Create registers a location with a unique code
func (s *LocationService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateLocationRequest) (*LocationResponse, error) {
	l, err := wms.NewWMSLocation(tenantID, req.LocationCode, req.Name, wms.LocationType(req.Type))
	if err != nil {
		return nil, err
	}
	exists, err := s.repo.ExistsByCode(ctx, tenantID, l.LocationCode)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDuplicateError("location code", l.LocationCode)
	}
	if err := s.checkParent(ctx, tenantID, req.ParentID); err != nil {
		return nil, err
	}
	if err := l.SetDetails(wms.LocationDetails{
		ParentID:    req.ParentID,
		Address:     req.Address,
		Capacity:    req.Capacity,
		Description: req.Description,
	}); err != nil {
		return nil, err
	}
	if userID != uuid.Nil {
		l.SetCreatedBy(userID)
	}

	if err := s.repo.Save(ctx, l); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("wms location created", zap.String("location_code", l.LocationCode))
	resp := ToLocationResponse(l)
	return &resp, nil
}

func (s *LocationService) checkParent(ctx context.Context, tenantID uuid.UUID, parentID *uuid.UUID) error {
	if parentID == nil {
		return nil
	}
	if _, err := s.repo.FindByIDForTenant(ctx, tenantID, *parentID); err != nil {
		if shared.HasCode(err, shared.CodeNotFound) {
			return shared.NewValidationError("parent location %s does not exist", parentID)
		}
		return err
	}
	return nil
}

// GetByID retrieves a location
func (s *LocationService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*LocationResponse, error) {
	l, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToLocationResponse(l)
	return &resp, nil
}

// List retrieves locations with filtering and pagination
func (s *LocationService) List(ctx context.Context, tenantID uuid.UUID, filter LocationListFilter) ([]LocationResponse, int64, error) {
	f := filter.Filter()
	if filter.Type != "" {
		f = f.With("type", filter.Type)
	}
	if filter.Status != "" {
		f = f.With("status", filter.Status)
	}
	if filter.ParentID != nil {
		f = f.With("parent_id", *filter.ParentID)
	}

	locations, err := s.repo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]LocationResponse, len(locations))
	for i := range locations {
		out[i] = ToLocationResponse(&locations[i])
	}
	return out, total, nil
}

// Update edits a location
func (s *LocationService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateLocationRequest) (*LocationResponse, error) {
	l, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	name, locationType, status := l.Name, l.Type, l.Status
	details := wms.LocationDetails{
		ParentID:    l.ParentID,
		Address:     l.Address,
		Capacity:    l.Capacity,
		Description: l.Description,
	}
	if req.Name != nil {
		name = *req.Name
	}
	if req.Type != nil {
		locationType = wms.LocationType(*req.Type)
	}
	if req.Status != nil {
		status = wms.LocationStatus(*req.Status)
	}
	if req.ParentID != nil {
		if err := s.checkParent(ctx, tenantID, req.ParentID); err != nil {
			return nil, err
		}
		details.ParentID = req.ParentID
	}
	if req.Address != nil {
		details.Address = *req.Address
	}
	if req.Capacity != nil {
		details.Capacity = *req.Capacity
	}
	if req.Description != nil {
		details.Description = *req.Description
	}
	if err := l.Update(name, locationType, status, details); err != nil {
		return nil, err
	}

	if err := s.repo.SaveWithLock(ctx, l); err != nil {
		return nil, err
	}
	resp := ToLocationResponse(l)
	return &resp, nil
}

// Delete deactivates a location, or removes it when hard is set. Locations
// that still have racks cannot be removed.
func (s *LocationService) Delete(ctx context.Context, tenantID, id uuid.UUID, hard bool) error {
	l, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if hard {
		racks, err := s.rackRepo.CountByLocation(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if racks > 0 {
			return shared.NewStateError("location %s still has %d racks", l.LocationCode, racks)
		}
		if err := s.repo.DeleteForTenant(ctx, tenantID, id); err != nil {
			return err
		}
		logger.L(ctx).Info("wms location removed", zap.String("location_code", l.LocationCode))
		return nil
	}
	l.SoftDelete()
	return s.repo.SaveWithLock(ctx, l)
}

// Restore re-activates a soft deleted location
func (s *LocationService) Restore(ctx context.Context, tenantID, id uuid.UUID) (*LocationResponse, error) {
	l, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	l.Restore()
	if err := s.repo.SaveWithLock(ctx, l); err != nil {
		return nil, err
	}
	resp := ToLocationResponse(l)
	return &resp, nil
}
