// Package partner manages suppliers and customers.
package partner

import (
	"context"
	"strings"

	"github.com/erp/logistics/internal/domain/partner"
	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service handles partner operations
type Service struct {
	repo partner.PartnerRepository
}

// NewService creates a new partner Service
func NewService(repo partner.PartnerRepository) *Service {
	return &Service{repo: repo}
}

// Create registers a new partner
func (s *Service) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreatePartnerRequest) (*PartnerResponse, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	exists, err := s.repo.ExistsByCode(ctx, tenantID, code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDuplicateError("partner code", code)
	}

	p, err := partner.NewPartner(tenantID, code, req.Name, partner.PartnerType(req.Type))
	if err != nil {
		return nil, err
	}
	if err := p.SetContact(partner.ContactInfo{
		ContactName:    req.ContactName,
		Phone:          req.Phone,
		Email:          req.Email,
		Address:        req.Address,
		BusinessNumber: req.BusinessNumber,
		Remark:         req.Remark,
	}); err != nil {
		return nil, err
	}
	if userID != uuid.Nil {
		p.SetCreatedBy(userID)
	}

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("partner created", zap.String("code", p.Code), zap.String("type", string(p.Type)))

	resp := ToPartnerResponse(p)
	return &resp, nil
}

// GetByID retrieves a partner
func (s *Service) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*PartnerResponse, error) {
	p, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToPartnerResponse(p)
	return &resp, nil
}

// List retrieves partners with filtering and pagination
func (s *Service) List(ctx context.Context, tenantID uuid.UUID, filter PartnerListFilter) ([]PartnerResponse, int64, error) {
	f := filter.Filter()
	if filter.Type != "" {
		f = f.With("type", filter.Type)
	}

	partners, err := s.repo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	return ToPartnerResponses(partners), total, nil
}

// Update applies a partial update
func (s *Service) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdatePartnerRequest) (*PartnerResponse, error) {
	p, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	name, partnerType := p.Name, p.Type
	info := partner.ContactInfo{
		ContactName:    p.ContactName,
		Phone:          p.Phone,
		Email:          p.Email,
		Address:        p.Address,
		BusinessNumber: p.BusinessNumber,
		Remark:         p.Remark,
	}
	if req.Name != nil {
		name = *req.Name
	}
	if req.Type != nil {
		partnerType = partner.PartnerType(*req.Type)
	}
	if req.ContactName != nil {
		info.ContactName = *req.ContactName
	}
	if req.Phone != nil {
		info.Phone = *req.Phone
	}
	if req.Email != nil {
		info.Email = *req.Email
	}
	if req.Address != nil {
		info.Address = *req.Address
	}
	if req.BusinessNumber != nil {
		info.BusinessNumber = *req.BusinessNumber
	}
	if req.Remark != nil {
		info.Remark = *req.Remark
	}

	if err := p.Update(name, partnerType, info); err != nil {
		return nil, err
	}
	if err := s.repo.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}
	resp := ToPartnerResponse(p)
	return &resp, nil
}

// Delete soft-deletes a partner. Documents keep their name snapshot.
func (s *Service) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	p, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	p.SoftDelete()
	return s.repo.SaveWithLock(ctx, p)
}

// Restore re-activates a soft-deleted partner
func (s *Service) Restore(ctx context.Context, tenantID, id uuid.UUID) (*PartnerResponse, error) {
	p, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	p.Restore()
	if err := s.repo.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}
	resp := ToPartnerResponse(p)
	return &resp, nil
}

// Supplier loads an active partner that may appear on purchase documents
func Supplier(ctx context.Context, repo partner.PartnerRepository, tenantID, id uuid.UUID) (*partner.Partner, error) {
	p, err := repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !p.IsActive || !p.IsSupplier() {
		return nil, shared.NewValidationError("partner %s is not an active supplier", p.Code)
	}
	return p, nil
}

// Customer loads an active partner that may appear on sales documents
func Customer(ctx context.Context, repo partner.PartnerRepository, tenantID, id uuid.UUID) (*partner.Partner, error) {
	p, err := repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !p.IsActive || !p.IsCustomer() {
		return nil, shared.NewValidationError("partner %s is not an active customer", p.Code)
	}
	return p, nil
}
