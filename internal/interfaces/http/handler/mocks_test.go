package handler

import (
	"context"
	"time"

	"github.com/erp/logistics/internal/domain/finance"
	"github.com/erp/logistics/internal/domain/identity"
	"github.com/erp/logistics/internal/domain/menu"
	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/infrastructure/ai"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockMenuRepo struct {
	mock.Mock
}

func (m *mockMenuRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*menu.MenuCode, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*menu.MenuCode), args.Error(1)
}

func (m *mockMenuRepo) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*menu.MenuCode, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*menu.MenuCode), args.Error(1)
}

func (m *mockMenuRepo) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]menu.MenuCode, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]menu.MenuCode), args.Error(1)
}

func (m *mockMenuRepo) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockMenuRepo) FindActive(ctx context.Context, tenantID uuid.UUID) ([]menu.MenuCode, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]menu.MenuCode), args.Error(1)
}

func (m *mockMenuRepo) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

func (m *mockMenuRepo) Save(ctx context.Context, code *menu.MenuCode) error {
	return m.Called(ctx, code).Error(0)
}

func (m *mockMenuRepo) SaveWithLock(ctx context.Context, code *menu.MenuCode) error {
	return m.Called(ctx, code).Error(0)
}

func (m *mockMenuRepo) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type mockPayableRepo struct {
	mock.Mock
}

func (m *mockPayableRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.AccountPayable, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.AccountPayable), args.Error(1)
}

func (m *mockPayableRepo) FindByPurchaseOrder(ctx context.Context, tenantID, purchaseOrderID uuid.UUID) (*finance.AccountPayable, error) {
	args := m.Called(ctx, tenantID, purchaseOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.AccountPayable), args.Error(1)
}

func (m *mockPayableRepo) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.AccountPayable, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]finance.AccountPayable), args.Error(1)
}

func (m *mockPayableRepo) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockPayableRepo) FindOverdue(ctx context.Context, tenantID uuid.UUID, asOf time.Time) ([]finance.AccountPayable, error) {
	args := m.Called(ctx, tenantID, asOf)
	return args.Get(0).([]finance.AccountPayable), args.Error(1)
}

func (m *mockPayableRepo) SummarizeByStatus(ctx context.Context, tenantID uuid.UUID) ([]finance.StatusSummary, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]finance.StatusSummary), args.Error(1)
}

func (m *mockPayableRepo) Save(ctx context.Context, ap *finance.AccountPayable) error {
	return m.Called(ctx, ap).Error(0)
}

func (m *mockPayableRepo) SaveWithLock(ctx context.Context, ap *finance.AccountPayable) error {
	return m.Called(ctx, ap).Error(0)
}

func (m *mockPayableRepo) GenerateAPNumber(ctx context.Context, tenantID uuid.UUID, day time.Time) (string, error) {
	args := m.Called(ctx, tenantID, day)
	return args.String(0), args.Error(1)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*identity.User, error) {
	args := m.Called(ctx, tenantID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *mockUserRepo) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *mockUserRepo) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUserRepo) ExistsByUsername(ctx context.Context, tenantID uuid.UUID, username string) (bool, error) {
	args := m.Called(ctx, tenantID, username)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUserRepo) Save(ctx context.Context, u *identity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) SaveWithLock(ctx context.Context, u *identity.User) error {
	return m.Called(ctx, u).Error(0)
}

// stubCompleter answers every chat with a fixed reply
type stubCompleter struct {
	configured bool
	reply      string
	err        error
	got        []ai.Message
}

func (s *stubCompleter) Configured() bool { return s.configured }

func (s *stubCompleter) Complete(_ context.Context, messages []ai.Message) (string, error) {
	s.got = messages
	return s.reply, s.err
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error { return p.err }

// authAs returns a router whose requests carry the given identity
func authAs(tenantID, userID uuid.UUID, role identity.Role) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		setAuthContext(c, tenantID, userID, string(role))
		c.Next()
	})
	return router
}
