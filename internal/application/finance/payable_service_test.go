package finance

import (
	"bytes"
	"context"
	"testing"

	"github.com/erp/logistics/internal/domain/finance"
	"github.com/erp/logistics/internal/domain/purchasing"
	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/infrastructure/cache"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type payableFixture struct {
	payables  *MockAccountPayableRepository
	orders    *MockPurchaseOrderRepository
	partners  *MockPartnerRepository
	publisher *recordingPublisher
	svc       *PayableService
}

func newPayableFixture() *payableFixture {
	f := &payableFixture{
		payables:  new(MockAccountPayableRepository),
		orders:    new(MockPurchaseOrderRepository),
		partners:  new(MockPartnerRepository),
		publisher: &recordingPublisher{},
	}
	f.svc = NewPayableService(f.payables, f.orders, f.partners, cache.NewInMemoryLocker(), cache.NewInMemoryIdempotencyStore())
	f.svc.SetEventPublisher(f.publisher)
	return f
}

func openPayable(t *testing.T, tenantID uuid.UUID, total int64) *finance.AccountPayable {
	t.Helper()
	ap, err := finance.NewAccountPayable(tenantID, "AP-20240110-0001", uuid.New(), "Acme", decimal.NewFromInt(total), nil)
	require.NoError(t, err)
	ap.ClearDomainEvents()
	return ap
}

func receivedOrder(t *testing.T, tenantID uuid.UUID) *purchasing.PurchaseOrder {
	t.Helper()
	po, err := purchasing.NewPurchaseOrder(tenantID, "PO-20240110-0003", uuid.New(), "Acme")
	require.NoError(t, err)
	item, err := po.AddItem(purchasing.LineInput{PartName: "Pump seal", Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(50)})
	require.NoError(t, err)
	require.NoError(t, po.Send())
	require.NoError(t, po.Confirm())
	require.NoError(t, po.Receive([]purchasing.ReceiveLine{{ItemID: item.ID, Quantity: decimal.NewFromInt(4)}}))
	return po
}

func TestPayableService_PayWithinRemaining(t *testing.T) {
	f := newPayableFixture()
	ctx := context.Background()
	tenantID := uuid.New()
	ap := openPayable(t, tenantID, 100)

	f.payables.On("FindByIDForTenant", mock.Anything, tenantID, ap.ID).Return(ap, nil)
	f.payables.On("SaveWithLock", mock.Anything, ap).Return(nil)

	resp, err := f.svc.Pay(ctx, tenantID, ap.ID, uuid.New(), PaymentRequest{Amount: decimal.NewFromInt(40), Method: "cash"})
	require.NoError(t, err)
	assert.Equal(t, "partial", resp.PaymentStatus)
	assert.True(t, resp.RemainingAmount.Equal(decimal.NewFromInt(60)))
	require.Len(t, resp.Payments, 1)
	assert.Equal(t, "cash", resp.Payments[0].Method)
	assert.Equal(t, []string{finance.EventTypeAccountPayablePaid}, f.publisher.types())

	resp, err = f.svc.Pay(ctx, tenantID, ap.ID, uuid.New(), PaymentRequest{Amount: decimal.NewFromInt(60)})
	require.NoError(t, err)
	assert.Equal(t, "paid", resp.PaymentStatus)
	assert.Equal(t, "closed", resp.Status)
	assert.True(t, resp.RemainingAmount.IsZero())
}

func TestPayableService_PayRejectsOverpayment(t *testing.T) {
	f := newPayableFixture()
	tenantID := uuid.New()
	ap := openPayable(t, tenantID, 100)
	f.payables.On("FindByIDForTenant", mock.Anything, tenantID, ap.ID).Return(ap, nil)

	_, err := f.svc.Pay(context.Background(), tenantID, ap.ID, uuid.New(), PaymentRequest{Amount: decimal.NewFromFloat(100.01)})
	require.Error(t, err)
	assert.True(t, shared.HasCode(err, shared.CodeInvalidInput))
	assert.Contains(t, err.Error(), "exceeds remaining amount")
	f.payables.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	assert.Empty(t, f.publisher.events)
}

func TestPayableService_PayReplayIsIgnored(t *testing.T) {
	f := newPayableFixture()
	ctx := context.Background()
	tenantID := uuid.New()
	ap := openPayable(t, tenantID, 100)

	f.payables.On("FindByIDForTenant", mock.Anything, tenantID, ap.ID).Return(ap, nil)
	f.payables.On("SaveWithLock", mock.Anything, ap).Return(nil).Once()

	req := PaymentRequest{Amount: decimal.NewFromInt(30), IdempotencyKey: "pay-7f3a"}
	first, err := f.svc.Pay(ctx, tenantID, ap.ID, uuid.New(), req)
	require.NoError(t, err)
	second, err := f.svc.Pay(ctx, tenantID, ap.ID, uuid.New(), req)
	require.NoError(t, err)

	assert.True(t, first.PaidAmount.Equal(second.PaidAmount))
	assert.True(t, second.PaidAmount.Equal(decimal.NewFromInt(30)))
	assert.Len(t, second.Payments, 1)
	f.payables.AssertNumberOfCalls(t, "SaveWithLock", 1)
	assert.Len(t, f.publisher.events, 1)
}

func TestPayableService_FailedPaymentReleasesKey(t *testing.T) {
	f := newPayableFixture()
	ctx := context.Background()
	tenantID := uuid.New()
	ap := openPayable(t, tenantID, 100)

	f.payables.On("FindByIDForTenant", mock.Anything, tenantID, ap.ID).Return(ap, nil)
	f.payables.On("SaveWithLock", mock.Anything, ap).Return(nil)

	_, err := f.svc.Pay(ctx, tenantID, ap.ID, uuid.Nil, PaymentRequest{Amount: decimal.NewFromInt(500), IdempotencyKey: "retry-1"})
	require.Error(t, err)

	resp, err := f.svc.Pay(ctx, tenantID, ap.ID, uuid.Nil, PaymentRequest{Amount: decimal.NewFromInt(50), IdempotencyKey: "retry-1"})
	require.NoError(t, err)
	assert.True(t, resp.PaidAmount.Equal(decimal.NewFromInt(50)))
}

func TestPayableService_PayWhenLocked(t *testing.T) {
	payables := new(MockAccountPayableRepository)
	svc := NewPayableService(payables, new(MockPurchaseOrderRepository), new(MockPartnerRepository), busyLocker{}, nil)

	_, err := svc.Pay(context.Background(), uuid.New(), uuid.New(), uuid.Nil, PaymentRequest{Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, shared.ErrLockNotObtained)
	payables.AssertNotCalled(t, "FindByIDForTenant", mock.Anything, mock.Anything, mock.Anything)
}

func TestPayableService_RejectsLongIdempotencyKey(t *testing.T) {
	f := newPayableFixture()
	key := string(bytes.Repeat([]byte("k"), maxIdempotencyKey+1))
	_, err := f.svc.Pay(context.Background(), uuid.New(), uuid.New(), uuid.Nil, PaymentRequest{Amount: decimal.NewFromInt(1), IdempotencyKey: key})
	assert.True(t, shared.HasCode(err, shared.CodeInvalidInput))
}

func TestPayableService_CreateFromPurchaseOrder(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	userID := uuid.New()

	t.Run("opens payable for received order", func(t *testing.T) {
		f := newPayableFixture()
		po := receivedOrder(t, tenantID)
		f.orders.On("FindByIDForTenant", mock.Anything, tenantID, po.ID).Return(po, nil)
		f.payables.On("FindByPurchaseOrder", mock.Anything, tenantID, po.ID).Return(nil, shared.NewNotFoundError("account payable"))
		f.payables.On("GenerateAPNumber", mock.Anything, tenantID, mock.Anything).Return("AP-20240110-0002", nil)
		f.payables.On("Save", mock.Anything, mock.AnythingOfType("*finance.AccountPayable")).Return(nil)

		resp, err := f.svc.Create(ctx, tenantID, userID, CreatePayableRequest{PurchaseOrderID: &po.ID})
		require.NoError(t, err)
		assert.Equal(t, "AP-20240110-0002", resp.APNumber)
		assert.Equal(t, po.PONumber, resp.PONumber)
		assert.Equal(t, &po.ID, resp.PurchaseOrderID)
		assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(200)))
		assert.Equal(t, &userID, resp.CreatedBy)
		assert.Equal(t, []string{finance.EventTypeAccountPayableOpened}, f.publisher.types())
	})

	t.Run("second payable for the same order is a duplicate", func(t *testing.T) {
		f := newPayableFixture()
		po := receivedOrder(t, tenantID)
		f.orders.On("FindByIDForTenant", mock.Anything, tenantID, po.ID).Return(po, nil)
		f.payables.On("FindByPurchaseOrder", mock.Anything, tenantID, po.ID).Return(openPayable(t, tenantID, 200), nil)

		_, err := f.svc.Create(ctx, tenantID, userID, CreatePayableRequest{PurchaseOrderID: &po.ID})
		require.Error(t, err)
		assert.True(t, shared.HasCode(err, shared.CodeAlreadyExists))
		assert.Contains(t, err.Error(), "already exists")
		f.payables.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("order without receipts is rejected", func(t *testing.T) {
		f := newPayableFixture()
		po, err := purchasing.NewPurchaseOrder(tenantID, "PO-20240110-0009", uuid.New(), "Acme")
		require.NoError(t, err)
		f.orders.On("FindByIDForTenant", mock.Anything, tenantID, po.ID).Return(po, nil)

		_, err = f.svc.Create(ctx, tenantID, userID, CreatePayableRequest{PurchaseOrderID: &po.ID})
		assert.True(t, shared.HasCode(err, shared.CodeInvalidState))
	})

	t.Run("manual payable needs supplier and amount", func(t *testing.T) {
		f := newPayableFixture()
		_, err := f.svc.Create(ctx, tenantID, userID, CreatePayableRequest{})
		assert.True(t, shared.HasCode(err, shared.CodeInvalidInput))
	})
}

func TestPayableService_Summary(t *testing.T) {
	f := newPayableFixture()
	tenantID := uuid.New()
	overdue := openPayable(t, tenantID, 80)

	f.payables.On("SummarizeByStatus", mock.Anything, tenantID).Return([]finance.StatusSummary{
		{PaymentStatus: finance.PaymentStatusUnpaid, Count: 2, TotalAmount: decimal.NewFromInt(300), PaidAmount: decimal.Zero, RemainingAmount: decimal.NewFromInt(300)},
		{PaymentStatus: finance.PaymentStatusPartial, Count: 1, TotalAmount: decimal.NewFromInt(100), PaidAmount: decimal.NewFromInt(40), RemainingAmount: decimal.NewFromInt(60)},
	}, nil)
	f.payables.On("FindOverdue", mock.Anything, tenantID, mock.Anything).Return([]finance.AccountPayable{*overdue}, nil)

	summary, err := f.svc.Summary(context.Background(), tenantID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.Count)
	assert.True(t, summary.TotalAmount.Equal(decimal.NewFromInt(400)))
	assert.True(t, summary.RemainingAmount.Equal(decimal.NewFromInt(360)))
	assert.Equal(t, int64(1), summary.OverdueCount)
	assert.True(t, summary.OverdueAmount.Equal(decimal.NewFromInt(80)))
	assert.Len(t, summary.ByStatus, 2)
}

func TestPayableService_ListDefaultsToDueDate(t *testing.T) {
	f := newPayableFixture()
	tenantID := uuid.New()
	supplierID := uuid.New()

	match := mock.MatchedBy(func(fl shared.Filter) bool {
		return fl.OrderBy == "due_date" && fl.OrderDir == "asc" &&
			fl.Filters["supplier_id"] == supplierID && fl.Filters["payment_status"] == "partial"
	})
	f.payables.On("FindAllForTenant", mock.Anything, tenantID, match).Return([]finance.AccountPayable{*openPayable(t, tenantID, 10)}, nil)
	f.payables.On("CountForTenant", mock.Anything, tenantID, match).Return(int64(1), nil)

	items, total, err := f.svc.List(context.Background(), tenantID, LedgerListFilter{PartnerID: &supplierID, PaymentStatus: "partial"})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(1), total)
}

func TestPayableService_Export(t *testing.T) {
	f := newPayableFixture()
	tenantID := uuid.New()
	f.payables.On("FindAllForTenant", mock.Anything, tenantID, mock.Anything).Return([]finance.AccountPayable{*openPayable(t, tenantID, 10)}, nil).Once()

	data, err := f.svc.Export(context.Background(), tenantID, LedgerListFilter{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")))
}

func TestPurchaseOrderReceivedHandler(t *testing.T) {
	tenantID := uuid.New()

	t.Run("opens payable", func(t *testing.T) {
		f := newPayableFixture()
		po := receivedOrder(t, tenantID)
		f.orders.On("FindByIDForTenant", mock.Anything, tenantID, po.ID).Return(po, nil)
		f.payables.On("FindByPurchaseOrder", mock.Anything, tenantID, po.ID).Return(nil, shared.NewNotFoundError("account payable"))
		f.payables.On("GenerateAPNumber", mock.Anything, tenantID, mock.Anything).Return("AP-20240110-0004", nil)
		f.payables.On("Save", mock.Anything, mock.AnythingOfType("*finance.AccountPayable")).Return(nil)

		h := NewPurchaseOrderReceivedHandler(f.svc, zap.NewNop())
		assert.Equal(t, []string{purchasing.EventTypePurchaseOrderReceived}, h.EventTypes())
		require.NoError(t, h.Handle(context.Background(), purchasing.NewPurchaseOrderReceivedEvent(po)))
		f.payables.AssertCalled(t, "Save", mock.Anything, mock.AnythingOfType("*finance.AccountPayable"))
	})

	t.Run("existing payable is not an error", func(t *testing.T) {
		f := newPayableFixture()
		po := receivedOrder(t, tenantID)
		f.orders.On("FindByIDForTenant", mock.Anything, tenantID, po.ID).Return(po, nil)
		f.payables.On("FindByPurchaseOrder", mock.Anything, tenantID, po.ID).Return(openPayable(t, tenantID, 200), nil)

		h := NewPurchaseOrderReceivedHandler(f.svc, zap.NewNop())
		assert.NoError(t, h.Handle(context.Background(), purchasing.NewPurchaseOrderReceivedEvent(po)))
	})

	t.Run("wrong event type", func(t *testing.T) {
		h := NewPurchaseOrderReceivedHandler(newPayableFixture().svc, zap.NewNop())
		po := receivedOrder(t, tenantID)
		assert.Error(t, h.Handle(context.Background(), purchasing.NewPurchaseOrderStatusChangedEvent(po)))
	})
}
