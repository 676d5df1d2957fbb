// Package menu serves the navigation lookup table.
package menu

import (
	"context"

	"github.com/erp/logistics/internal/domain/menu"
	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/infrastructure/logger"
	"github.com/erp/logistics/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service handles menu code operations
type Service struct {
	repo menu.MenuCodeRepository
}

// NewService creates a new menu code Service
func NewService(repo menu.MenuCodeRepository) *Service {
	return &Service{repo: repo}
}

// List returns one page of menu codes
func (s *Service) List(ctx context.Context, tenantID uuid.UUID, filter MenuCodeListFilter) ([]MenuCodeResponse, int64, error) {
	f := filter.Filter()
	if filter.ListQuery.OrderBy == "" {
		f.OrderBy = "sort_order"
		f.OrderDir = "asc"
	}
	if filter.Section != "" {
		f = f.With("section", filter.Section)
	}

	codes, err := s.repo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	return ToMenuCodeResponses(codes), total, nil
}

// GetByID returns a menu code, including soft-deleted ones
func (s *Service) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*MenuCodeResponse, error) {
	m, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToMenuCodeResponse(m)
	return &resp, nil
}

// GetByCode returns a menu code by its code
func (s *Service) GetByCode(ctx context.Context, tenantID uuid.UUID, code string) (*MenuCodeResponse, error) {
	m, err := s.repo.FindByCode(ctx, tenantID, menu.NormalizeCode(code))
	if err != nil {
		return nil, err
	}
	resp := ToMenuCodeResponse(m)
	return &resp, nil
}

// Create registers a new menu code. A code already in use, active or not, is rejected.
func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, req CreateMenuCodeRequest) (*MenuCodeResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "menu", "Create")
	defer span.End()

	code := menu.NormalizeCode(req.Code)
	exists, err := s.repo.ExistsByCode(ctx, tenantID, code)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if exists {
		return nil, shared.NewDuplicateError("menu code", code)
	}

	m, err := menu.NewMenuCode(tenantID, code, req.Name, req.Path, menu.Section(req.Section), req.Order)
	if err != nil {
		return nil, err
	}
	if req.Icon != "" || req.ParentCode != "" {
		if err := m.SetDecoration(req.Icon, req.ParentCode); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Save(ctx, m); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	logger.L(ctx).Info("menu code created", zap.String("code", m.Code))
	resp := ToMenuCodeResponse(m)
	return &resp, nil
}

// Update applies a partial update
func (s *Service) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateMenuCodeRequest) (*MenuCodeResponse, error) {
	m, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	name, path, section, order := m.Name, m.Path, m.Section, m.Order
	icon, parent := m.Icon, m.ParentCode
	if req.Name != nil {
		name = *req.Name
	}
	if req.Path != nil {
		path = *req.Path
	}
	if req.Section != nil {
		section = menu.Section(*req.Section)
	}
	if req.Order != nil {
		order = *req.Order
	}
	if req.Icon != nil {
		icon = *req.Icon
	}
	if req.ParentCode != nil {
		parent = *req.ParentCode
	}

	if err := m.Update(name, path, section, order, icon, parent); err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		if *req.IsActive {
			m.Restore()
		} else {
			m.SoftDelete()
		}
	}

	if err := s.repo.SaveWithLock(ctx, m); err != nil {
		return nil, err
	}
	resp := ToMenuCodeResponse(m)
	return &resp, nil
}

// Delete soft-deletes a menu code, or removes the row when hard is set
func (s *Service) Delete(ctx context.Context, tenantID, id uuid.UUID, hard bool) error {
	if hard {
		if err := s.repo.DeleteForTenant(ctx, tenantID, id); err != nil {
			return err
		}
		logger.L(ctx).Info("menu code removed", zap.String("id", id.String()))
		return nil
	}

	m, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	m.SoftDelete()
	return s.repo.SaveWithLock(ctx, m)
}

// Restore re-activates a soft-deleted menu code
func (s *Service) Restore(ctx context.Context, tenantID, id uuid.UUID) (*MenuCodeResponse, error) {
	m, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	m.Restore()
	if err := s.repo.SaveWithLock(ctx, m); err != nil {
		return nil, err
	}
	resp := ToMenuCodeResponse(m)
	return &resp, nil
}

// Navigation returns the active codes grouped by section
func (s *Service) Navigation(ctx context.Context, tenantID uuid.UUID) ([]NavigationGroupResponse, error) {
	codes, err := s.repo.FindActive(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	groups := menu.BuildNavigation(codes)
	out := make([]NavigationGroupResponse, len(groups))
	for i, g := range groups {
		out[i] = NavigationGroupResponse{
			Section: string(g.Section),
			Items:   ToMenuCodeResponses(g.Items),
		}
	}
	return out, nil
}
