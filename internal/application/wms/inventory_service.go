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

// InventoryService moves stock in and out of rack slots. Every operation
// updates the record and the rack occupancy in one transaction.
type InventoryService struct {
	repo     wms.RackInventoryRepository
	partRepo wms.PartMasterRepository
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(repo wms.RackInventoryRepository, partRepo wms.PartMasterRepository) *InventoryService {
	return &InventoryService{repo: repo, partRepo: partRepo}
}

// GetByID retrieves a rack inventory record
func (s *InventoryService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*InventoryResponse, error) {
	inv, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToInventoryResponse(inv)
	return &resp, nil
}

// List retrieves rack inventory with filtering and pagination
func (s *InventoryService) List(ctx context.Context, tenantID uuid.UUID, filter InventoryListFilter) ([]InventoryResponse, int64, error) {
	f := filter.Filter()
	if filter.RackID != nil {
		f = f.With("rack_id", *filter.RackID)
	}
	if filter.PartID != nil {
		f = f.With("part_id", *filter.PartID)
	}
	if filter.Status != "" {
		f = f.With("status", filter.Status)
	}

	records, err := s.repo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]InventoryResponse, len(records))
	for i := range records {
		out[i] = ToInventoryResponse(&records[i])
	}
	return out, total, nil
}

// Inbound stores quantity of a part lot in a slot. The same lot in the same
// slot is topped up; a slot held by another record is rejected.
func (s *InventoryService) Inbound(ctx context.Context, tenantID, userID uuid.UUID, req InboundRequest) (*InventoryResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "rack_inventory", "Inbound")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrQuantity, req.Quantity.String())

	slot, err := wms.NormalizeSlot(req.Slot)
	if err != nil {
		return nil, err
	}
	part, err := s.partRepo.FindByIDForTenant(ctx, tenantID, req.PartID)
	if err != nil {
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrPartCode, part.PartCode)
	if !part.IsActive || part.Status != wms.PartStatusActive {
		return nil, shared.NewStateError("part %s is not active", part.PartCode)
	}

	var inv *wms.RackInventory
	err = s.repo.Transaction(ctx, func(tx wms.InventoryTx) error {
		rack, err := tx.Racks().FindByIDForTenant(ctx, tenantID, req.RackID)
		if err != nil {
			return err
		}

		existing, err := tx.Inventory().FindSlotLot(ctx, tenantID, rack.ID, slot, part.ID, req.LotNumber)
		if err != nil && !shared.HasCode(err, shared.CodeNotFound) {
			return err
		}

		if existing != nil && existing.Status != wms.InventoryStatusEmpty {
			inv = existing
			if err := inv.Add(req.Quantity); err != nil {
				return err
			}
			return tx.Inventory().SaveWithLock(ctx, inv)
		}

		// the slot is taken up again, so it must be free and the rack must have room
		exclude := uuid.Nil
		if existing != nil {
			exclude = existing.ID
		}
		occupied, err := tx.Inventory().IsSlotOccupied(ctx, tenantID, rack.ID, slot, exclude)
		if err != nil {
			return err
		}
		if occupied {
			return shared.NewStateError("slot %s of rack %s holds other stock", slot, rack.RackCode)
		}

		if existing != nil {
			inv = existing
			if err := inv.Add(req.Quantity); err != nil {
				return err
			}
		} else {
			inv, err = wms.NewRackInventory(tenantID, rack, slot, part, req.Quantity, req.LotNumber)
			if err != nil {
				return err
			}
			if userID != uuid.Nil {
				inv.SetCreatedBy(userID)
			}
		}
		if req.Remark != "" {
			inv.Remark = req.Remark
		}
		if err := rack.Occupy(1); err != nil {
			return err
		}
		if err := tx.Inventory().SaveWithLock(ctx, inv); err != nil {
			return err
		}
		return tx.Racks().SaveWithLock(ctx, rack)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	logger.L(ctx).Info("rack inbound",
		zap.String("rack_code", inv.RackCode),
		zap.String("slot", inv.Slot),
		zap.String("part_code", inv.PartCode),
		zap.String("quantity", req.Quantity.String()),
	)
	resp := ToInventoryResponse(inv)
	return &resp, nil
}

// Outbound takes quantity out of a record. Emptying it frees the slot.
func (s *InventoryService) Outbound(ctx context.Context, tenantID, id uuid.UUID, req OutboundRequest) (*InventoryResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "rack_inventory", "Outbound")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrDocumentID, id.String(),
		telemetry.SpanAttrQuantity, req.Quantity.String(),
	)

	var inv *wms.RackInventory
	err := s.repo.Transaction(ctx, func(tx wms.InventoryTx) error {
		var err error
		inv, err = tx.Inventory().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		emptied, err := inv.Remove(req.Quantity)
		if err != nil {
			return err
		}
		if err := tx.Inventory().SaveWithLock(ctx, inv); err != nil {
			return err
		}
		if !emptied {
			return nil
		}
		rack, err := tx.Racks().FindByIDForTenant(ctx, tenantID, inv.RackID)
		if err != nil {
			return err
		}
		rack.Release(1)
		return tx.Racks().SaveWithLock(ctx, rack)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	logger.L(ctx).Info("rack outbound",
		zap.String("rack_code", inv.RackCode),
		zap.String("slot", inv.Slot),
		zap.String("part_code", inv.PartCode),
		zap.String("quantity", req.Quantity.String()),
		zap.String("status", string(inv.Status)),
	)
	resp := ToInventoryResponse(inv)
	return &resp, nil
}

// Move relocates a record to a free slot, possibly on another rack
func (s *InventoryService) Move(ctx context.Context, tenantID, id uuid.UUID, req MoveRequest) (*InventoryResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "rack_inventory", "Move")
	defer span.End()

	slot, err := wms.NormalizeSlot(req.Slot)
	if err != nil {
		return nil, err
	}

	var inv *wms.RackInventory
	err = s.repo.Transaction(ctx, func(tx wms.InventoryTx) error {
		var err error
		inv, err = tx.Inventory().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		dest, err := tx.Racks().FindByIDForTenant(ctx, tenantID, req.RackID)
		if err != nil {
			return err
		}
		occupied, err := tx.Inventory().IsSlotOccupied(ctx, tenantID, dest.ID, slot, inv.ID)
		if err != nil {
			return err
		}
		if occupied {
			return shared.NewStateError("slot %s of rack %s holds other stock", slot, dest.RackCode)
		}

		if dest.ID == inv.RackID {
			if !dest.IsActive || dest.Status == wms.RackStatusMaintenance {
				return shared.NewStateError("rack %s is %s", dest.RackCode, dest.Status)
			}
			if err := inv.MoveTo(dest, slot); err != nil {
				return err
			}
			return tx.Inventory().SaveWithLock(ctx, inv)
		}

		src, err := tx.Racks().FindByIDForTenant(ctx, tenantID, inv.RackID)
		if err != nil {
			return err
		}
		if err := inv.MoveTo(dest, slot); err != nil {
			return err
		}
		if err := dest.Occupy(1); err != nil {
			return err
		}
		src.Release(1)
		if err := tx.Inventory().SaveWithLock(ctx, inv); err != nil {
			return err
		}
		if err := tx.Racks().SaveWithLock(ctx, src); err != nil {
			return err
		}
		return tx.Racks().SaveWithLock(ctx, dest)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	logger.L(ctx).Info("rack inventory moved",
		zap.String("rack_code", inv.RackCode),
		zap.String("slot", inv.Slot),
		zap.String("part_code", inv.PartCode),
	)
	resp := ToInventoryResponse(inv)
	return &resp, nil
}

// Reserve allocates a stored record to an outbound order
func (s *InventoryService) Reserve(ctx context.Context, tenantID, id uuid.UUID) (*InventoryResponse, error) {
	return s.mutate(ctx, tenantID, id, (*wms.RackInventory).Reserve)
}

// Unreserve returns a reserved record to stored
func (s *InventoryService) Unreserve(ctx context.Context, tenantID, id uuid.UUID) (*InventoryResponse, error) {
	return s.mutate(ctx, tenantID, id, (*wms.RackInventory).Unreserve)
}

func (s *InventoryService) mutate(ctx context.Context, tenantID, id uuid.UUID, fn func(*wms.RackInventory) error) (*InventoryResponse, error) {
	inv, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(inv); err != nil {
		return nil, err
	}
	if err := s.repo.SaveWithLock(ctx, inv); err != nil {
		return nil, err
	}
	resp := ToInventoryResponse(inv)
	return &resp, nil
}

// Stock sums stored quantity per part. No ids means every part with stock.
func (s *InventoryService) Stock(ctx context.Context, tenantID uuid.UUID, partIDs []uuid.UUID) ([]StockResponse, error) {
	stocks, err := s.repo.SumByPart(ctx, tenantID, partIDs)
	if err != nil {
		return nil, err
	}
	out := make([]StockResponse, len(stocks))
	for i, st := range stocks {
		out[i] = ToStockResponse(st)
	}
	return out, nil
}

// LowStock lists the active parts stored below their safety stock, including
// parts with nothing stored at all
func (s *InventoryService) LowStock(ctx context.Context, tenantID uuid.UUID) ([]StockResponse, error) {
	stocks, err := s.repo.LowStock(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]StockResponse, len(stocks))
	for i, st := range stocks {
		out[i] = ToStockResponse(st)
	}
	if len(out) > 0 {
		logger.L(ctx).Warn("parts below safety stock", zap.Int("count", len(out)))
	}
	return out, nil
}
