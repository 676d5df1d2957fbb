package purchasing

import (
	"context"
	"time"

	"github.com/erp/logistics/internal/domain/partner"
	"github.com/erp/logistics/internal/domain/purchasing"
	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/domain/wms"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockPurchaseRequestRepository struct {
	mock.Mock
	orders    *MockPurchaseOrderRepository
	commits   int
	rollbacks int
}

func (m *MockPurchaseRequestRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*purchasing.PurchaseRequest, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*purchasing.PurchaseRequest), args.Error(1)
}

func (m *MockPurchaseRequestRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]purchasing.PurchaseRequest, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]purchasing.PurchaseRequest), args.Error(1)
}

func (m *MockPurchaseRequestRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPurchaseRequestRepository) Save(ctx context.Context, r *purchasing.PurchaseRequest) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockPurchaseRequestRepository) SaveWithLock(ctx context.Context, r *purchasing.PurchaseRequest) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockPurchaseRequestRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockPurchaseRequestRepository) GenerateRequestNumber(ctx context.Context, tenantID uuid.UUID, day time.Time) (string, error) {
	args := m.Called(ctx, tenantID, day)
	return args.String(0), args.Error(1)
}

// Transaction hands fn the mocks themselves and counts how fn ended
func (m *MockPurchaseRequestRepository) Transaction(ctx context.Context, fn func(tx purchasing.PurchasingTx) error) error {
	if err := fn(mockPurchasingTx{requests: m, orders: m.orders}); err != nil {
		m.rollbacks++
		return err
	}
	m.commits++
	return nil
}

type mockPurchasingTx struct {
	requests *MockPurchaseRequestRepository
	orders   *MockPurchaseOrderRepository
}

func (t mockPurchasingTx) PurchaseRequests() purchasing.PurchaseRequestRepository { return t.requests }
func (t mockPurchasingTx) PurchaseOrders() purchasing.PurchaseOrderRepository    { return t.orders }

type MockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*purchasing.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, poNumber string) (*purchasing.PurchaseOrder, error) {
	args := m.Called(ctx, tenantID, poNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*purchasing.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]purchasing.PurchaseOrder, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]purchasing.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPurchaseOrderRepository) Save(ctx context.Context, o *purchasing.PurchaseOrder) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockPurchaseOrderRepository) SaveWithLock(ctx context.Context, o *purchasing.PurchaseOrder) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockPurchaseOrderRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockPurchaseOrderRepository) GeneratePONumber(ctx context.Context, tenantID uuid.UUID, day time.Time) (string, error) {
	args := m.Called(ctx, tenantID, day)
	return args.String(0), args.Error(1)
}

type MockPartnerRepository struct {
	mock.Mock
}

func (m *MockPartnerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Partner, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Partner), args.Error(1)
}

func (m *MockPartnerRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*partner.Partner, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Partner), args.Error(1)
}

func (m *MockPartnerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Partner, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]partner.Partner), args.Error(1)
}

func (m *MockPartnerRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPartnerRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockPartnerRepository) Save(ctx context.Context, p *partner.Partner) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPartnerRepository) SaveWithLock(ctx context.Context, p *partner.Partner) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPartnerRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type MockPartMasterRepository struct {
	mock.Mock
}

func (m *MockPartMasterRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*wms.PartMaster, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wms.PartMaster), args.Error(1)
}

func (m *MockPartMasterRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*wms.PartMaster, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wms.PartMaster), args.Error(1)
}

func (m *MockPartMasterRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]wms.PartMaster, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]wms.PartMaster), args.Error(1)
}

func (m *MockPartMasterRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPartMasterRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockPartMasterRepository) Save(ctx context.Context, p *wms.PartMaster) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPartMasterRepository) SaveWithLock(ctx context.Context, p *wms.PartMaster) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPartMasterRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// recordingPublisher keeps every published event
type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}
