package wms

import (
	"context"
	"sort"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/domain/wms"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockLocationRepository struct {
	mock.Mock
}

func (m *MockLocationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*wms.WMSLocation, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wms.WMSLocation), args.Error(1)
}

func (m *MockLocationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]wms.WMSLocation, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]wms.WMSLocation), args.Error(1)
}

func (m *MockLocationRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLocationRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockLocationRepository) Save(ctx context.Context, l *wms.WMSLocation) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockLocationRepository) SaveWithLock(ctx context.Context, l *wms.WMSLocation) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockLocationRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type MockPartRepository struct {
	mock.Mock
}

func (m *MockPartRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*wms.PartMaster, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wms.PartMaster), args.Error(1)
}

func (m *MockPartRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*wms.PartMaster, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wms.PartMaster), args.Error(1)
}

func (m *MockPartRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]wms.PartMaster, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]wms.PartMaster), args.Error(1)
}

func (m *MockPartRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPartRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockPartRepository) Save(ctx context.Context, p *wms.PartMaster) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPartRepository) SaveWithLock(ctx context.Context, p *wms.PartMaster) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPartRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type MockRackRepository struct {
	mock.Mock
}

func (m *MockRackRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*wms.RackMaster, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wms.RackMaster), args.Error(1)
}

func (m *MockRackRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]wms.RackMaster, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]wms.RackMaster), args.Error(1)
}

func (m *MockRackRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRackRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockRackRepository) CountByLocation(ctx context.Context, tenantID, locationID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, locationID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRackRepository) Save(ctx context.Context, r *wms.RackMaster) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRackRepository) SaveWithLock(ctx context.Context, r *wms.RackMaster) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRackRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// memStore keeps racks and inventory by value. Transaction works on a copy
// and only writes it back when fn succeeds, like a rolled back database
// transaction would.
type memStore struct {
	racks   map[uuid.UUID]wms.RackMaster
	records map[uuid.UUID]wms.RackInventory
	parts   map[uuid.UUID]wms.PartMaster
}

func newMemStore() *memStore {
	return &memStore{
		racks:   map[uuid.UUID]wms.RackMaster{},
		records: map[uuid.UUID]wms.RackInventory{},
		parts:   map[uuid.UUID]wms.PartMaster{},
	}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	for k, v := range s.racks {
		c.racks[k] = v
	}
	for k, v := range s.records {
		c.records[k] = v
	}
	c.parts = s.parts
	return c
}

func (s *memStore) rack(id uuid.UUID) wms.RackMaster { return s.racks[id] }

func (s *memStore) Racks() wms.RackMasterRepository { return memRacks{s} }

func (s *memStore) Inventory() wms.RackInventoryRepository { return s }

func (s *memStore) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*wms.RackInventory, error) {
	r, ok := s.records[id]
	if !ok || r.TenantID != tenantID {
		return nil, shared.NewNotFoundError("rack inventory")
	}
	return &r, nil
}

func (s *memStore) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]wms.RackInventory, error) {
	var out []wms.RackInventory
	for _, r := range s.records {
		if r.TenantID == tenantID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out, nil
}

func (s *memStore) CountForTenant(ctx context.Context, tenantID uuid.UUID, f shared.Filter) (int64, error) {
	all, _ := s.FindAllForTenant(ctx, tenantID, f)
	return int64(len(all)), nil
}

func (s *memStore) FindSlotLot(_ context.Context, tenantID, rackID uuid.UUID, slot string, partID uuid.UUID, lot string) (*wms.RackInventory, error) {
	for _, r := range s.records {
		if r.TenantID == tenantID && r.RackID == rackID && r.Slot == slot && r.PartID == partID && r.LotNumber == lot {
			return &r, nil
		}
	}
	return nil, shared.NewNotFoundError("rack inventory")
}

func (s *memStore) IsSlotOccupied(_ context.Context, tenantID, rackID uuid.UUID, slot string, exclude uuid.UUID) (bool, error) {
	for _, r := range s.records {
		if r.TenantID == tenantID && r.RackID == rackID && r.Slot == slot &&
			r.ID != exclude && r.Status != wms.InventoryStatusEmpty {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) SumByPart(_ context.Context, tenantID uuid.UUID, partIDs []uuid.UUID) ([]wms.PartStock, error) {
	want := map[uuid.UUID]bool{}
	for _, id := range partIDs {
		want[id] = true
	}
	byPart := map[uuid.UUID]*wms.PartStock{}
	racks := map[uuid.UUID]map[uuid.UUID]bool{}
	for _, r := range s.records {
		if r.TenantID != tenantID || r.Status == wms.InventoryStatusEmpty {
			continue
		}
		if len(want) > 0 && !want[r.PartID] {
			continue
		}
		st, ok := byPart[r.PartID]
		if !ok {
			st = &wms.PartStock{PartID: r.PartID, PartCode: r.PartCode, PartName: r.PartName, Quantity: decimal.Zero}
			if p, ok := s.parts[r.PartID]; ok {
				st.SafetyStock = p.SafetyStock
			}
			byPart[r.PartID] = st
			racks[r.PartID] = map[uuid.UUID]bool{}
		}
		st.Quantity = st.Quantity.Add(r.Quantity)
		racks[r.PartID][r.RackID] = true
		st.RackCount = int64(len(racks[r.PartID]))
	}
	out := make([]wms.PartStock, 0, len(byPart))
	for _, st := range byPart {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PartCode < out[j].PartCode })
	return out, nil
}

func (s *memStore) LowStock(ctx context.Context, tenantID uuid.UUID) ([]wms.PartStock, error) {
	stored, _ := s.SumByPart(ctx, tenantID, nil)
	byPart := map[uuid.UUID]wms.PartStock{}
	for _, st := range stored {
		byPart[st.PartID] = st
	}
	var out []wms.PartStock
	for _, p := range s.parts {
		if p.TenantID != tenantID || !p.IsActive {
			continue
		}
		st, ok := byPart[p.ID]
		if !ok {
			st = wms.PartStock{PartID: p.ID, PartCode: p.PartCode, PartName: p.PartName, Quantity: decimal.Zero}
		}
		st.SafetyStock = p.SafetyStock
		if st.IsLow() {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PartCode < out[j].PartCode })
	return out, nil
}

func (s *memStore) Save(_ context.Context, r *wms.RackInventory) error {
	r.MarkPersisted()
	s.records[r.ID] = *r
	return nil
}

func (s *memStore) SaveWithLock(ctx context.Context, r *wms.RackInventory) error {
	if stored, ok := s.records[r.ID]; ok && stored.PersistedVersion() != r.PersistedVersion() {
		return shared.ErrConcurrencyConflict
	}
	return s.Save(ctx, r)
}

func (s *memStore) Transaction(_ context.Context, fn func(tx wms.InventoryTx) error) error {
	tx := s.clone()
	if err := fn(tx); err != nil {
		return err
	}
	s.racks, s.records = tx.racks, tx.records
	return nil
}

type memRacks struct{ s *memStore }

func (m memRacks) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*wms.RackMaster, error) {
	r, ok := m.s.racks[id]
	if !ok || r.TenantID != tenantID {
		return nil, shared.NewNotFoundError("rack")
	}
	return &r, nil
}

func (m memRacks) FindAllForTenant(context.Context, uuid.UUID, shared.Filter) ([]wms.RackMaster, error) {
	return nil, nil
}

func (m memRacks) CountForTenant(context.Context, uuid.UUID, shared.Filter) (int64, error) {
	return int64(len(m.s.racks)), nil
}

func (m memRacks) ExistsByCode(context.Context, uuid.UUID, string) (bool, error) { return false, nil }

func (m memRacks) CountByLocation(context.Context, uuid.UUID, uuid.UUID) (int64, error) {
	return 0, nil
}

func (m memRacks) Save(_ context.Context, r *wms.RackMaster) error {
	r.MarkPersisted()
	m.s.racks[r.ID] = *r
	return nil
}

func (m memRacks) SaveWithLock(ctx context.Context, r *wms.RackMaster) error {
	return m.Save(ctx, r)
}

func (m memRacks) DeleteForTenant(_ context.Context, _, id uuid.UUID) error {
	delete(m.s.racks, id)
	return nil
}

// memParts serves the part lookups of the inventory service
type memParts struct {
	wms.PartMasterRepository
	s *memStore
}

func (m memParts) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*wms.PartMaster, error) {
	p, ok := m.s.parts[id]
	if !ok || p.TenantID != tenantID {
		return nil, shared.NewNotFoundError("part")
	}
	return &p, nil
}
