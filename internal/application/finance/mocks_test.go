package finance

import (
	"context"
	"time"

	"github.com/erp/logistics/internal/domain/finance"
	"github.com/erp/logistics/internal/domain/partner"
	"github.com/erp/logistics/internal/domain/purchasing"
	"github.com/erp/logistics/internal/domain/sales"
	"github.com/erp/logistics/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockAccountPayableRepository struct {
	mock.Mock
}

func (m *MockAccountPayableRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.AccountPayable, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.AccountPayable), args.Error(1)
}

func (m *MockAccountPayableRepository) FindByPurchaseOrder(ctx context.Context, tenantID, purchaseOrderID uuid.UUID) (*finance.AccountPayable, error) {
	args := m.Called(ctx, tenantID, purchaseOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.AccountPayable), args.Error(1)
}

func (m *MockAccountPayableRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.AccountPayable, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]finance.AccountPayable), args.Error(1)
}

func (m *MockAccountPayableRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountPayableRepository) FindOverdue(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]finance.AccountPayable, error) {
	args := m.Called(ctx, tenantID, asOf)
	return args.Get(0).([]finance.AccountPayable), args.Error(1)
}

func (m *MockAccountPayableRepository) SummarizeByStatus(ctx context.Context, tenantID uuid.UUID) ([]finance.StatusSummary, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]finance.StatusSummary), args.Error(1)
}

func (m *MockAccountPayableRepository) Save(ctx context.Context, ap *finance.AccountPayable) error {
	return m.Called(ctx, ap).Error(0)
}

func (m *MockAccountPayableRepository) SaveWithLock(ctx context.Context, ap *finance.AccountPayable) error {
	return m.Called(ctx, ap).Error(0)
}

func (m *MockAccountPayableRepository) GenerateAPNumber(ctx context.Context, tenantID uuid.UUID, day time.Time) (string, error) {
	args := m.Called(ctx, tenantID, day)
	return args.String(0), args.Error(1)
}

type MockAccountReceivableRepository struct {
	mock.Mock
}

func (m *MockAccountReceivableRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.AccountReceivable, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.AccountReceivable), args.Error(1)
}

func (m *MockAccountReceivableRepository) FindBySalesOrder(ctx context.Context, tenantID, salesOrderID uuid.UUID) (*finance.AccountReceivable, error) {
	args := m.Called(ctx, tenantID, salesOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.AccountReceivable), args.Error(1)
}

func (m *MockAccountReceivableRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.AccountReceivable, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]finance.AccountReceivable), args.Error(1)
}

func (m *MockAccountReceivableRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountReceivableRepository) FindOverdue(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]finance.AccountReceivable, error) {
	args := m.Called(ctx, tenantID, asOf)
	return args.Get(0).([]finance.AccountReceivable), args.Error(1)
}

func (m *MockAccountReceivableRepository) SummarizeByStatus(ctx context.Context, tenantID uuid.UUID) ([]finance.StatusSummary, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]finance.StatusSummary), args.Error(1)
}

func (m *MockAccountReceivableRepository) Save(ctx context.Context, ar *finance.AccountReceivable) error {
	return m.Called(ctx, ar).Error(0)
}

func (m *MockAccountReceivableRepository) SaveWithLock(ctx context.Context, ar *finance.AccountReceivable) error {
	return m.Called(ctx, ar).Error(0)
}

func (m *MockAccountReceivableRepository) GenerateARNumber(ctx context.Context, tenantID uuid.UUID, day time.Time) (string, error) {
	args := m.Called(ctx, tenantID, day)
	return args.String(0), args.Error(1)
}

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

type MockSalesOrderRepository struct {
	mock.Mock
}

func (m *MockSalesOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*sales.SalesOrder, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.SalesOrder), args.Error(1)
}

func (m *MockSalesOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]sales.SalesOrder, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]sales.SalesOrder), args.Error(1)
}

func (m *MockSalesOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSalesOrderRepository) Save(ctx context.Context, o *sales.SalesOrder) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockSalesOrderRepository) SaveWithLock(ctx context.Context, o *sales.SalesOrder) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockSalesOrderRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockSalesOrderRepository) GenerateSONumber(ctx context.Context, tenantID uuid.UUID, day time.Time) (string, error) {
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

// busyLocker never grants a lock
type busyLocker struct{}

func (busyLocker) Obtain(context.Context, string, time.Duration) (shared.Lock, error) {
	return nil, shared.ErrLockNotObtained
}

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
