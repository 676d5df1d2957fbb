package wms

import (
	"context"
	"testing"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/domain/wms"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inventoryFixture struct {
	ctx      context.Context
	tenantID uuid.UUID
	store    *memStore
	svc      *InventoryService
	rackA    *wms.RackMaster
	rackB    *wms.RackMaster
	part     *wms.PartMaster
}

func newInventoryFixture(t *testing.T) *inventoryFixture {
	t.Helper()
	f := &inventoryFixture{ctx: context.Background(), tenantID: uuid.New(), store: newMemStore()}
	locationID := uuid.New()
	f.rackA = newRack(t, f.tenantID, locationID, "R-A", 2)
	f.rackB = newRack(t, f.tenantID, locationID, "R-B", 1)
	f.part = newPart(t, f.tenantID, "BRG-6204", 50)
	f.store.racks[f.rackA.ID] = *f.rackA
	f.store.racks[f.rackB.ID] = *f.rackB
	f.store.parts[f.part.ID] = *f.part
	f.svc = NewInventoryService(f.store, memParts{s: f.store})
	return f
}

func (f *inventoryFixture) inbound(t *testing.T, rack *wms.RackMaster, slot string, qty int64, lot string) *InventoryResponse {
	t.Helper()
	resp, err := f.svc.Inbound(f.ctx, f.tenantID, uuid.New(), InboundRequest{
		RackID: rack.ID, Slot: slot, PartID: f.part.ID, Quantity: decimal.NewFromInt(qty), LotNumber: lot,
	})
	require.NoError(t, err)
	return resp
}

func TestInventoryService_Inbound(t *testing.T) {
	t.Run("new record occupies a slot", func(t *testing.T) {
		f := newInventoryFixture(t)
		resp := f.inbound(t, f.rackA, "a-01-01", 10, "L1")

		assert.Equal(t, "A-01-01", resp.Slot)
		assert.Equal(t, "BRG-6204", resp.PartCode)
		assert.Equal(t, "stored", resp.Status)
		assert.Equal(t, 1, f.store.rack(f.rackA.ID).UsedCapacity)
	})

	t.Run("same lot tops up without another slot", func(t *testing.T) {
		f := newInventoryFixture(t)
		first := f.inbound(t, f.rackA, "A-01-01", 10, "L1")
		second := f.inbound(t, f.rackA, "A-01-01", 5, "L1")

		assert.Equal(t, first.ID, second.ID)
		assert.True(t, second.Quantity.Equal(decimal.NewFromInt(15)))
		assert.Equal(t, 1, f.store.rack(f.rackA.ID).UsedCapacity)
	})

	t.Run("slot held by another lot", func(t *testing.T) {
		f := newInventoryFixture(t)
		f.inbound(t, f.rackA, "A-01-01", 10, "L1")

		_, err := f.svc.Inbound(f.ctx, f.tenantID, uuid.Nil, InboundRequest{
			RackID: f.rackA.ID, Slot: "A-01-01", PartID: f.part.ID, Quantity: decimal.NewFromInt(1), LotNumber: "L2",
		})
		assert.True(t, shared.HasCode(err, shared.CodeInvalidState))
		assert.Len(t, f.store.records, 1)
	})

	t.Run("full rack rolls back", func(t *testing.T) {
		f := newInventoryFixture(t)
		f.inbound(t, f.rackB, "A-01-01", 1, "")

		_, err := f.svc.Inbound(f.ctx, f.tenantID, uuid.Nil, InboundRequest{
			RackID: f.rackB.ID, Slot: "A-01-02", PartID: f.part.ID, Quantity: decimal.NewFromInt(1),
		})
		assert.True(t, shared.HasCode(err, shared.CodeInvalidState))
		assert.Len(t, f.store.records, 1)
		assert.Equal(t, 1, f.store.rack(f.rackB.ID).UsedCapacity)
	})

	t.Run("bad slot label", func(t *testing.T) {
		f := newInventoryFixture(t)
		_, err := f.svc.Inbound(f.ctx, f.tenantID, uuid.Nil, InboundRequest{
			RackID: f.rackA.ID, Slot: "nowhere", PartID: f.part.ID, Quantity: decimal.NewFromInt(1),
		})
		assert.True(t, shared.HasCode(err, shared.CodeInvalidInput))
	})

	t.Run("discontinued part", func(t *testing.T) {
		f := newInventoryFixture(t)
		p := f.store.parts[f.part.ID]
		p.Status = wms.PartStatusDiscontinued
		f.store.parts[f.part.ID] = p

		_, err := f.svc.Inbound(f.ctx, f.tenantID, uuid.Nil, InboundRequest{
			RackID: f.rackA.ID, Slot: "A-01-01", PartID: f.part.ID, Quantity: decimal.NewFromInt(1),
		})
		assert.True(t, shared.HasCode(err, shared.CodeInvalidState))
	})
}

func TestInventoryService_Outbound(t *testing.T) {
	f := newInventoryFixture(t)
	rec := f.inbound(t, f.rackA, "A-01-01", 10, "L1")

	_, err := f.svc.Outbound(f.ctx, f.tenantID, rec.ID, OutboundRequest{Quantity: decimal.NewFromInt(11)})
	assert.True(t, shared.HasCode(err, shared.CodeInvalidInput))

	resp, err := f.svc.Outbound(f.ctx, f.tenantID, rec.ID, OutboundRequest{Quantity: decimal.NewFromInt(4)})
	require.NoError(t, err)
	assert.True(t, resp.Quantity.Equal(decimal.NewFromInt(6)))
	assert.Equal(t, 1, f.store.rack(f.rackA.ID).UsedCapacity)

	resp, err = f.svc.Outbound(f.ctx, f.tenantID, rec.ID, OutboundRequest{Quantity: decimal.NewFromInt(6)})
	require.NoError(t, err)
	assert.Equal(t, "empty", resp.Status)
	assert.Equal(t, 0, f.store.rack(f.rackA.ID).UsedCapacity)

	// refilling the emptied lot takes the slot again
	again := f.inbound(t, f.rackA, "A-01-01", 3, "L1")
	assert.Equal(t, rec.ID, again.ID)
	assert.Equal(t, 1, f.store.rack(f.rackA.ID).UsedCapacity)
}

func TestInventoryService_Move(t *testing.T) {
	t.Run("across racks", func(t *testing.T) {
		f := newInventoryFixture(t)
		rec := f.inbound(t, f.rackA, "A-01-01", 10, "L1")

		resp, err := f.svc.Move(f.ctx, f.tenantID, rec.ID, MoveRequest{RackID: f.rackB.ID, Slot: "B-01-01"})
		require.NoError(t, err)
		assert.Equal(t, "R-B", resp.RackCode)
		assert.Equal(t, "B-01-01", resp.Slot)
		assert.Equal(t, 0, f.store.rack(f.rackA.ID).UsedCapacity)
		assert.Equal(t, 1, f.store.rack(f.rackB.ID).UsedCapacity)
		assert.Equal(t, wms.RackStatusFull, f.store.rack(f.rackB.ID).Status)
	})

	t.Run("within a rack keeps occupancy", func(t *testing.T) {
		f := newInventoryFixture(t)
		rec := f.inbound(t, f.rackA, "A-01-01", 10, "L1")

		_, err := f.svc.Move(f.ctx, f.tenantID, rec.ID, MoveRequest{RackID: f.rackA.ID, Slot: "A-02-01"})
		require.NoError(t, err)
		assert.Equal(t, 1, f.store.rack(f.rackA.ID).UsedCapacity)
	})

	t.Run("occupied destination", func(t *testing.T) {
		f := newInventoryFixture(t)
		rec := f.inbound(t, f.rackA, "A-01-01", 10, "L1")
		f.inbound(t, f.rackB, "B-01-01", 1, "L9")

		_, err := f.svc.Move(f.ctx, f.tenantID, rec.ID, MoveRequest{RackID: f.rackB.ID, Slot: "B-01-01"})
		assert.True(t, shared.HasCode(err, shared.CodeInvalidState))
		assert.Equal(t, 1, f.store.rack(f.rackA.ID).UsedCapacity)
	})
}

func TestInventoryService_Stock(t *testing.T) {
	f := newInventoryFixture(t)
	f.inbound(t, f.rackA, "A-01-01", 10, "L1")
	f.inbound(t, f.rackB, "B-01-01", 15, "L2")

	stock, err := f.svc.Stock(f.ctx, f.tenantID, []uuid.UUID{f.part.ID})
	require.NoError(t, err)
	require.Len(t, stock, 1)
	assert.True(t, stock[0].Quantity.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, int64(2), stock[0].RackCount)
	assert.True(t, stock[0].IsLow)

	low, err := f.svc.LowStock(f.ctx, f.tenantID)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "BRG-6204", low[0].PartCode)
}

func TestInventoryService_LowStock(t *testing.T) {
	f := newInventoryFixture(t)
	f.inbound(t, f.rackA, "A-01-01", 60, "L1")

	unstocked := newPart(t, f.tenantID, "SEAL-22", 10)
	f.store.parts[unstocked.ID] = *unstocked
	noSafety := newPart(t, f.tenantID, "BOLT-M8", 0)
	f.store.parts[noSafety.ID] = *noSafety
	retired := newPart(t, f.tenantID, "GEAR-01", 5)
	retired.SoftDelete()
	f.store.parts[retired.ID] = *retired

	low, err := f.svc.LowStock(f.ctx, f.tenantID)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "SEAL-22", low[0].PartCode)
	assert.True(t, low[0].Quantity.IsZero())
	assert.Equal(t, int64(0), low[0].RackCount)
	assert.True(t, low[0].IsLow)
}
