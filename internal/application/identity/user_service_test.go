package identity

import (
	"context"
	"testing"
	"time"

	"github.com/erp/logistics/internal/domain/identity"
	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/infrastructure/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newUserService() (*UserService, *MockUserRepository, *auth.MemoryRevocationStore) {
	repo := new(MockUserRepository)
	revoked := auth.NewMemoryRevocationStore()
	return NewUserService(repo, revoked, time.Hour, zap.NewNop()), repo, revoked
}

func TestUserService_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc, repo, _ := newUserService()
		actor := uuid.New()
		repo.On("ExistsByUsername", mock.Anything, testTenantID, "frank").Return(false, nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

		resp, err := svc.Create(context.Background(), testTenantID, actor, CreateUserRequest{
			Username:    "Frank",
			Password:    testPassword,
			DisplayName: "Frank Castle",
			Role:        "staff",
		})
		require.NoError(t, err)
		assert.Equal(t, "frank", resp.Username)
		assert.Equal(t, "staff", resp.Role)
		assert.True(t, resp.IsActive)

		saved := repo.Calls[1].Arguments.Get(1).(*identity.User)
		require.NotNil(t, saved.CreatedBy)
		assert.Equal(t, actor, *saved.CreatedBy)
	})

	t.Run("duplicate username", func(t *testing.T) {
		svc, repo, _ := newUserService()
		repo.On("ExistsByUsername", mock.Anything, testTenantID, "frank").Return(true, nil)

		_, err := svc.Create(context.Background(), testTenantID, uuid.Nil, CreateUserRequest{
			Username: "frank", Password: testPassword, Role: "staff",
		})
		require.Error(t, err)
		assert.True(t, shared.HasCode(err, shared.CodeAlreadyExists))
		assert.Equal(t, "username frank already exists", err.Error())
	})

	t.Run("weak password", func(t *testing.T) {
		svc, repo, _ := newUserService()
		repo.On("ExistsByUsername", mock.Anything, testTenantID, "frank").Return(false, nil)

		_, err := svc.Create(context.Background(), testTenantID, uuid.Nil, CreateUserRequest{
			Username: "frank", Password: "lettersonly", Role: "staff",
		})
		require.Error(t, err)
		assert.True(t, shared.HasCode(err, shared.CodeInvalidInput))
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestUserService_List(t *testing.T) {
	svc, repo, _ := newUserService()
	users := []identity.User{*newTestUser(t, "alice", identity.RoleAdmin)}
	repo.On("FindAllForTenant", mock.Anything, testTenantID, mock.MatchedBy(func(f shared.Filter) bool {
		return f.OrderBy == "username" && f.Filters["role"] == "admin"
	})).Return(users, nil)
	repo.On("CountForTenant", mock.Anything, testTenantID, mock.Anything).Return(int64(1), nil)

	list, total, err := svc.List(context.Background(), testTenantID, UserListFilter{Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, "alice", list[0].Username)
}

func TestUserService_Update(t *testing.T) {
	t.Run("role change revokes tokens", func(t *testing.T) {
		svc, repo, revoked := newUserService()
		user := newTestUser(t, "alice", identity.RoleStaff)
		repo.On("FindByIDForTenant", mock.Anything, testTenantID, user.ID).Return(user, nil)
		repo.On("SaveWithLock", mock.Anything, user).Return(nil)

		role := "manager"
		resp, err := svc.Update(context.Background(), testTenantID, uuid.New(), user.ID, UpdateUserRequest{Role: &role})
		require.NoError(t, err)
		assert.Equal(t, "manager", resp.Role)

		isRevoked, err := revoked.IsUserRevoked(context.Background(), user.ID.String(), time.Now().Add(-time.Minute))
		require.NoError(t, err)
		assert.True(t, isRevoked)
	})

	t.Run("own role is fixed", func(t *testing.T) {
		svc, repo, _ := newUserService()
		user := newTestUser(t, "alice", identity.RoleAdmin)
		repo.On("FindByIDForTenant", mock.Anything, testTenantID, user.ID).Return(user, nil)

		role := "staff"
		_, err := svc.Update(context.Background(), testTenantID, user.ID, user.ID, UpdateUserRequest{Role: &role})
		require.Error(t, err)
		assert.True(t, shared.HasCode(err, shared.CodeInvalidState))
	})
}

func TestUserService_DeleteAndRestore(t *testing.T) {
	t.Run("cannot delete self", func(t *testing.T) {
		svc, _, _ := newUserService()
		self := uuid.New()
		err := svc.Delete(context.Background(), testTenantID, self, self)
		require.Error(t, err)
		assert.True(t, shared.HasCode(err, shared.CodeInvalidState))
	})

	t.Run("disables and restores", func(t *testing.T) {
		svc, repo, revoked := newUserService()
		user := newTestUser(t, "bob", identity.RoleStaff)
		repo.On("FindByIDForTenant", mock.Anything, testTenantID, user.ID).Return(user, nil)
		repo.On("SaveWithLock", mock.Anything, user).Return(nil)

		require.NoError(t, svc.Delete(context.Background(), testTenantID, uuid.New(), user.ID))
		assert.False(t, user.IsActive)
		isRevoked, err := revoked.IsUserRevoked(context.Background(), user.ID.String(), time.Now().Add(-time.Minute))
		require.NoError(t, err)
		assert.True(t, isRevoked)

		resp, err := svc.Restore(context.Background(), testTenantID, user.ID)
		require.NoError(t, err)
		assert.True(t, resp.IsActive)
	})
}

func TestUserService_UnlockAndReset(t *testing.T) {
	svc, repo, _ := newUserService()
	user := newTestUser(t, "carol", identity.RoleStaff)
	until := time.Now().Add(time.Hour)
	user.LockedUntil = &until
	repo.On("FindByIDForTenant", mock.Anything, testTenantID, user.ID).Return(user, nil)
	repo.On("SaveWithLock", mock.Anything, user).Return(nil)

	resp, err := svc.Unlock(context.Background(), testTenantID, user.ID)
	require.NoError(t, err)
	assert.False(t, resp.IsLocked)

	require.NoError(t, svc.ResetPassword(context.Background(), testTenantID, user.ID, ResetPasswordRequest{NewPassword: "another123"}))
	assert.True(t, user.VerifyPassword("another123"))
}

func TestBootstrapAdmin(t *testing.T) {
	t.Run("creates the first admin", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("CountAll", mock.Anything).Return(int64(0), nil)
		repo.On("Save", mock.Anything, mock.MatchedBy(func(u *identity.User) bool {
			return u.Username == "admin" && u.Role == identity.RoleAdmin && u.TenantID == testTenantID
		})).Return(nil)

		created, err := BootstrapAdmin(context.Background(), repo, testTenantID, "admin", "admin12345", zap.NewNop())
		require.NoError(t, err)
		assert.True(t, created)
		repo.AssertExpectations(t)
	})

	t.Run("users already exist", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("CountAll", mock.Anything).Return(int64(3), nil)

		created, err := BootstrapAdmin(context.Background(), repo, testTenantID, "admin", "admin12345", zap.NewNop())
		require.NoError(t, err)
		assert.False(t, created)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("no credentials", func(t *testing.T) {
		repo := new(MockUserRepository)
		created, err := BootstrapAdmin(context.Background(), repo, testTenantID, "", "", zap.NewNop())
		require.NoError(t, err)
		assert.False(t, created)
		repo.AssertNotCalled(t, "CountAll", mock.Anything)
	})
}
