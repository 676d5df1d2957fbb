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

type authFixture struct {
	repo    *MockUserRepository
	jwt     *auth.JWTService
	revoked *auth.MemoryRevocationStore
	svc     *AuthService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		repo:    new(MockUserRepository),
		jwt:     newTestJWT(),
		revoked: auth.NewMemoryRevocationStore(),
	}
	f.svc = NewAuthService(f.repo, f.jwt, f.revoked, zap.NewNop())
	return f
}

func (f *authFixture) login(t *testing.T, user *identity.User) *LoginResult {
	t.Helper()
	f.repo.On("FindByUsername", mock.Anything, testTenantID, user.Username).Return(user, nil)
	f.repo.On("SaveWithLock", mock.Anything, user).Return(nil)
	result, err := f.svc.Login(context.Background(), LoginInput{TenantID: testTenantID, Username: user.Username, Password: testPassword})
	require.NoError(t, err)
	return result
}

func TestAuthService_Login(t *testing.T) {
	t.Run("issues tokens and records the login", func(t *testing.T) {
		f := newAuthFixture()
		user := newTestUser(t, "alice", identity.RoleManager)

		f.repo.On("FindByUsername", mock.Anything, testTenantID, "alice").Return(user, nil)
		f.repo.On("SaveWithLock", mock.Anything, user).Return(nil)

		result, err := f.svc.Login(context.Background(), LoginInput{TenantID: testTenantID, Username: " Alice ", Password: testPassword})
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		assert.Equal(t, "Bearer", result.TokenType)
		assert.Equal(t, "alice", result.User.Username)
		assert.Equal(t, "manager", result.User.Role)
		assert.NotNil(t, user.LastLoginAt)

		claims, err := f.jwt.ValidateAccessToken(result.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.UserID)
		assert.Equal(t, "manager", claims.Role)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newAuthFixture()
		f.repo.On("FindByUsername", mock.Anything, testTenantID, "ghost").Return(nil, shared.NewNotFoundError("user"))

		_, err := f.svc.Login(context.Background(), LoginInput{TenantID: testTenantID, Username: "ghost", Password: testPassword})
		require.Error(t, err)
		assert.True(t, shared.HasCode(err, shared.CodeUnauthorized))
		assert.Equal(t, "invalid username or password", err.Error())
	})

	t.Run("wrong password counts a failure", func(t *testing.T) {
		f := newAuthFixture()
		user := newTestUser(t, "bob", identity.RoleStaff)
		f.repo.On("FindByUsername", mock.Anything, testTenantID, "bob").Return(user, nil)
		f.repo.On("SaveWithLock", mock.Anything, user).Return(nil)

		_, err := f.svc.Login(context.Background(), LoginInput{TenantID: testTenantID, Username: "bob", Password: "wrongpass1"})
		require.Error(t, err)
		assert.Equal(t, "invalid username or password", err.Error())
		assert.Equal(t, 1, user.FailedAttempts)
	})

	t.Run("locks after repeated failures", func(t *testing.T) {
		f := newAuthFixture()
		user := newTestUser(t, "carol", identity.RoleStaff)
		f.repo.On("FindByUsername", mock.Anything, testTenantID, "carol").Return(user, nil)
		f.repo.On("SaveWithLock", mock.Anything, user).Return(nil)

		var err error
		for i := 0; i < identity.MaxFailedAttempts; i++ {
			_, err = f.svc.Login(context.Background(), LoginInput{TenantID: testTenantID, Username: "carol", Password: "wrongpass1"})
			require.Error(t, err)
		}
		assert.Contains(t, err.Error(), "account is locked")
		require.NotNil(t, user.LockedUntil)

		_, err = f.svc.Login(context.Background(), LoginInput{TenantID: testTenantID, Username: "carol", Password: testPassword})
		require.Error(t, err)
		assert.True(t, shared.HasCode(err, shared.CodeUnauthorized))
		assert.Contains(t, err.Error(), "account is locked")
	})

	t.Run("lock expires", func(t *testing.T) {
		f := newAuthFixture()
		user := newTestUser(t, "dave", identity.RoleStaff)
		past := time.Now().Add(-time.Minute)
		user.LockedUntil = &past

		result := f.login(t, user)
		assert.NotEmpty(t, result.AccessToken)
		assert.Nil(t, user.LockedUntil)
	})

	t.Run("disabled account", func(t *testing.T) {
		f := newAuthFixture()
		user := newTestUser(t, "erin", identity.RoleStaff)
		user.SoftDelete()
		f.repo.On("FindByUsername", mock.Anything, testTenantID, "erin").Return(user, nil)

		_, err := f.svc.Login(context.Background(), LoginInput{TenantID: testTenantID, Username: "erin", Password: testPassword})
		require.Error(t, err)
		assert.Equal(t, "account is disabled", err.Error())
		f.repo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	t.Run("rotates the pair and rejects reuse", func(t *testing.T) {
		f := newAuthFixture()
		user := newTestUser(t, "alice", identity.RoleStaff)
		login := f.login(t, user)
		f.repo.On("FindByIDForTenant", mock.Anything, testTenantID, user.ID).Return(user, nil)

		pair, err := f.svc.Refresh(context.Background(), RefreshTokenInput{RefreshToken: login.RefreshToken})
		require.NoError(t, err)
		assert.NotEqual(t, login.RefreshToken, pair.RefreshToken)

		_, err = f.svc.Refresh(context.Background(), RefreshTokenInput{RefreshToken: login.RefreshToken})
		require.Error(t, err)
		assert.True(t, shared.HasCode(err, shared.CodeUnauthorized))
		assert.Equal(t, "refresh token has been revoked", err.Error())
	})

	t.Run("garbage token", func(t *testing.T) {
		f := newAuthFixture()
		_, err := f.svc.Refresh(context.Background(), RefreshTokenInput{RefreshToken: "not-a-jwt"})
		require.Error(t, err)
		assert.Equal(t, "invalid refresh token", err.Error())
	})

	t.Run("access token is not accepted", func(t *testing.T) {
		f := newAuthFixture()
		user := newTestUser(t, "alice", identity.RoleStaff)
		login := f.login(t, user)

		_, err := f.svc.Refresh(context.Background(), RefreshTokenInput{RefreshToken: login.AccessToken})
		require.Error(t, err)
		assert.True(t, shared.HasCode(err, shared.CodeUnauthorized))
	})

	t.Run("disabled user", func(t *testing.T) {
		f := newAuthFixture()
		user := newTestUser(t, "alice", identity.RoleStaff)
		login := f.login(t, user)
		user.SoftDelete()
		f.repo.On("FindByIDForTenant", mock.Anything, testTenantID, user.ID).Return(user, nil)

		_, err := f.svc.Refresh(context.Background(), RefreshTokenInput{RefreshToken: login.RefreshToken})
		require.Error(t, err)
		assert.Equal(t, "account is no longer active", err.Error())
	})
}

func TestAuthService_Logout(t *testing.T) {
	f := newAuthFixture()
	user := newTestUser(t, "alice", identity.RoleStaff)
	login := f.login(t, user)
	ctx := context.Background()

	access, err := f.jwt.ValidateAccessToken(login.AccessToken)
	require.NoError(t, err)

	err = f.svc.Logout(ctx, LogoutInput{
		UserID:       user.ID,
		AccessJTI:    access.ID,
		AccessTTL:    access.GetRemainingTTL(),
		RefreshToken: login.RefreshToken,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, auth.CheckRevoked(ctx, f.revoked, access), auth.ErrTokenRevoked)
	_, err = f.svc.Refresh(ctx, RefreshTokenInput{RefreshToken: login.RefreshToken})
	require.Error(t, err)
	assert.True(t, shared.HasCode(err, shared.CodeUnauthorized))
}

func TestAuthService_Logout_ForeignRefreshToken(t *testing.T) {
	f := newAuthFixture()
	user := newTestUser(t, "alice", identity.RoleStaff)
	login := f.login(t, user)

	err := f.svc.Logout(context.Background(), LogoutInput{UserID: uuid.New(), RefreshToken: login.RefreshToken})
	require.Error(t, err)
	assert.True(t, shared.HasCode(err, shared.CodeForbidden))
}

func TestAuthService_Me(t *testing.T) {
	f := newAuthFixture()
	user := newTestUser(t, "alice", identity.RoleAdmin)
	f.repo.On("FindByIDForTenant", mock.Anything, testTenantID, user.ID).Return(user, nil)

	info, err := f.svc.Me(context.Background(), testTenantID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", info.DisplayName)
	assert.Equal(t, "admin", info.Role)
}

func TestAuthService_ChangePassword(t *testing.T) {
	t.Run("wrong current password", func(t *testing.T) {
		f := newAuthFixture()
		user := newTestUser(t, "alice", identity.RoleStaff)
		f.repo.On("FindByIDForTenant", mock.Anything, testTenantID, user.ID).Return(user, nil)

		err := f.svc.ChangePassword(context.Background(), testTenantID, user.ID, ChangePasswordInput{
			CurrentPassword: "wrongpass1",
			NewPassword:     "newpass123",
		})
		require.Error(t, err)
		assert.True(t, shared.HasCode(err, shared.CodeInvalidInput))
		f.repo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("revokes earlier tokens", func(t *testing.T) {
		f := newAuthFixture()
		user := newTestUser(t, "alice", identity.RoleStaff)
		login := f.login(t, user)
		f.repo.On("FindByIDForTenant", mock.Anything, testTenantID, user.ID).Return(user, nil)

		err := f.svc.ChangePassword(context.Background(), testTenantID, user.ID, ChangePasswordInput{
			CurrentPassword: testPassword,
			NewPassword:     "newpass123",
		})
		require.NoError(t, err)
		assert.True(t, user.VerifyPassword("newpass123"))

		_, err = f.svc.Refresh(context.Background(), RefreshTokenInput{RefreshToken: login.RefreshToken})
		require.Error(t, err)
		assert.Equal(t, "refresh token has been revoked", err.Error())
	})
}
