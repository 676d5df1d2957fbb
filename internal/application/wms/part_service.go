package wms

import (
	"context"
	"time"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/domain/wms"
	"github.com/erp/logistics/internal/infrastructure/export"
	"github.com/erp/logistics/internal/infrastructure/logger"
	"github.com/erp/logistics/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PartService handles the part master
type PartService struct {
	repo wms.PartMasterRepository
}

// NewPartService creates a new PartService
func NewPartService(repo wms.PartMasterRepository) *PartService {
	return &PartService{repo: repo}
}

// Create registers a part with a unique code
func (s *PartService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreatePartRequest) (*PartResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "part_master", "Create")
	defer span.End()

	p, err := wms.NewPartMaster(tenantID, req.PartCode, wms.PartAttributes{
		PartName:      req.PartName,
		Specification: req.Specification,
		Category:      req.Category,
		Unit:          req.Unit,
		UnitPrice:     req.UnitPrice,
		SafetyStock:   req.SafetyStock,
		SupplierID:    req.SupplierID,
		Remark:        req.Remark,
	})
	if err != nil {
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrPartCode, p.PartCode)

	exists, err := s.repo.ExistsByCode(ctx, tenantID, p.PartCode)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if exists {
		return nil, shared.NewDuplicateError("part code", p.PartCode)
	}
	if userID != uuid.Nil {
		p.SetCreatedBy(userID)
	}
	if err := s.repo.Save(ctx, p); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	logger.L(ctx).Info("part registered", zap.String("part_code", p.PartCode))
	resp := ToPartResponse(p)
	return &resp, nil
}

// GetByID retrieves a part
func (s *PartService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*PartResponse, error) {
	p, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToPartResponse(p)
	return &resp, nil
}

// GetByCode retrieves a part by its code
func (s *PartService) GetByCode(ctx context.Context, tenantID uuid.UUID, code string) (*PartResponse, error) {
	p, err := s.repo.FindByCode(ctx, tenantID, code)
	if err != nil {
		return nil, err
	}
	resp := ToPartResponse(p)
	return &resp, nil
}

func partFilter(filter PartListFilter) shared.Filter {
	f := filter.Filter()
	if filter.Category != "" {
		f = f.With("category", filter.Category)
	}
	if filter.Status != "" {
		f = f.With("status", filter.Status)
	}
	if filter.SupplierID != nil {
		f = f.With("supplier_id", *filter.SupplierID)
	}
	return f
}

// List retrieves parts with filtering and pagination
func (s *PartService) List(ctx context.Context, tenantID uuid.UUID, filter PartListFilter) ([]PartResponse, int64, error) {
	f := partFilter(filter)
	parts, err := s.repo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]PartResponse, len(parts))
	for i := range parts {
		out[i] = ToPartResponse(&parts[i])
	}
	return out, total, nil
}

// Update edits a part
func (s *PartService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdatePartRequest) (*PartResponse, error) {
	p, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	attrs := wms.PartAttributes{
		PartName:      p.PartName,
		Specification: p.Specification,
		Category:      p.Category,
		Unit:          p.Unit,
		UnitPrice:     p.UnitPrice,
		SafetyStock:   p.SafetyStock,
		SupplierID:    p.SupplierID,
		Remark:        p.Remark,
	}
	status := p.Status
	if req.PartName != nil {
		attrs.PartName = *req.PartName
	}
	if req.Specification != nil {
		attrs.Specification = *req.Specification
	}
	if req.Category != nil {
		attrs.Category = *req.Category
	}
	if req.Unit != nil {
		attrs.Unit = *req.Unit
	}
	if req.UnitPrice != nil {
		attrs.UnitPrice = *req.UnitPrice
	}
	if req.SafetyStock != nil {
		attrs.SafetyStock = *req.SafetyStock
	}
	if req.SupplierID != nil {
		attrs.SupplierID = req.SupplierID
	}
	if req.Remark != nil {
		attrs.Remark = *req.Remark
	}
	if req.Status != nil {
		status = wms.PartStatus(*req.Status)
	}
	if err := p.Update(attrs, status); err != nil {
		return nil, err
	}

	if err := s.repo.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}
	resp := ToPartResponse(p)
	return &resp, nil
}

// Delete deactivates a part, or removes it when hard is set
func (s *PartService) Delete(ctx context.Context, tenantID, id uuid.UUID, hard bool) error {
	if hard {
		if err := s.repo.DeleteForTenant(ctx, tenantID, id); err != nil {
			return err
		}
		logger.L(ctx).Info("part removed", zap.String("id", id.String()))
		return nil
	}
	p, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	p.SoftDelete()
	return s.repo.SaveWithLock(ctx, p)
}

// Restore re-activates a soft deleted part
func (s *PartService) Restore(ctx context.Context, tenantID, id uuid.UUID) (*PartResponse, error) {
	p, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	p.Restore()
	if err := s.repo.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}
	resp := ToPartResponse(p)
	return &resp, nil
}

// Export renders the filtered part master as an xlsx workbook
func (s *PartService) Export(ctx context.Context, tenantID uuid.UUID, filter PartListFilter) ([]byte, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "part_master", "Export")
	defer span.End()

	table := export.Table{
		Sheet: "Parts",
		Columns: []export.Column{
			{Header: "Part Code", Width: 18},
			{Header: "Part Name", Width: 30},
			{Header: "Specification", Width: 30},
			{Header: "Category", Width: 16},
			{Header: "Unit", Width: 8},
			{Header: "Unit Price", Width: 14},
			{Header: "Safety Stock", Width: 14},
			{Header: "Status", Width: 14},
			{Header: "Updated", Width: 12},
		},
	}
	f := partFilter(filter)
	f.PageSize = 100
	for f.Page = 1; ; f.Page++ {
		parts, err := s.repo.FindAllForTenant(ctx, tenantID, f)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		for _, p := range parts {
			table.AddRow(p.PartCode, p.PartName, p.Specification, p.Category, p.Unit,
				p.UnitPrice, p.SafetyStock, string(p.Status), p.UpdatedAt)
		}
		if len(parts) < f.PageSize || f.Page >= maxExportPages {
			break
		}
	}
	logger.L(ctx).Info("part master exported", zap.Int("rows", len(table.Rows)), zap.Time("at", time.Now()))
	return export.Bytes(table)
}

const maxExportPages = 100
