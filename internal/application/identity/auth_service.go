// Package identity signs users in and manages their accounts.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/erp/logistics/internal/domain/identity"
	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errInvalidCredentials = shared.NewDomainError(shared.CodeUnauthorized, "invalid username or password")

// AuthService handles authentication operations
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	revocation auth.RevocationStore
	logger     *zap.Logger
	now        func() time.Time
}

// NewAuthService creates a new AuthService. revocation may be nil, in which
// case logout only clears the client side.
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	revocation auth.RevocationStore,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		revocation: revocation,
		logger:     logger,
		now:        time.Now,
	}
}

// Login authenticates a user and returns tokens. Unknown users and wrong
// passwords give the same error; five consecutive failures lock the account.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	user, err := s.userRepo.FindByUsername(ctx, input.TenantID, username)
	if err != nil {
		if shared.HasCode(err, shared.CodeNotFound) {
			s.logger.Info("Login attempt for unknown user",
				zap.String("username", username),
				zap.String("ip", input.IP))
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	now := s.now()
	if !user.IsActive {
		s.logger.Warn("Login attempt for disabled account", zap.String("user_id", user.ID.String()))
		return nil, shared.NewDomainError(shared.CodeUnauthorized, "account is disabled")
	}
	if user.IsLocked(now) {
		return nil, lockedError(user)
	}

	if !user.VerifyPassword(input.Password) {
		locked := user.RecordLoginFailure(now)
		if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
			s.logger.Error("Failed to record login failure", zap.String("user_id", user.ID.String()), zap.Error(err))
		}
		s.logger.Info("Login failed: invalid password",
			zap.String("user_id", user.ID.String()),
			zap.String("ip", input.IP),
			zap.Bool("locked", locked))
		if locked {
			return nil, lockedError(user)
		}
		return nil, errInvalidCredentials
	}

	user.RecordLoginSuccess(now)
	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		s.logger.Error("Failed to record login", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, err
	}

	pair, err := s.jwtService.GenerateTokenPair(tokenInput(user))
	if err != nil {
		s.logger.Error("Failed to generate tokens", zap.Error(err))
		return nil, fmt.Errorf("generate tokens: %w", err)
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("tenant_id", user.TenantID.String()),
		zap.String("ip", input.IP))

	return &LoginResult{
		TokenResult: toTokenResult(pair),
		User:        toUserInfo(user),
	}, nil
}

// Refresh exchanges a refresh token for a new pair. The user is reloaded so
// a role change or a disabled account takes effect, and the used refresh
// token is revoked.
func (s *AuthService) Refresh(ctx context.Context, input RefreshTokenInput) (*TokenResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, tokenError(err)
	}
	if err := auth.CheckRevoked(ctx, s.revocation, claims); err != nil {
		return nil, tokenError(err)
	}
	tenantID, err := claims.GetTenantUUID()
	if err != nil {
		return nil, tokenError(auth.ErrInvalidClaims)
	}
	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, tokenError(auth.ErrInvalidClaims)
	}

	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		if shared.HasCode(err, shared.CodeNotFound) {
			return nil, shared.NewDomainError(shared.CodeUnauthorized, "user no longer exists")
		}
		return nil, err
	}
	if !user.CanLogin(s.now()) {
		s.logger.Warn("Token refresh for inactive user", zap.String("user_id", userID.String()))
		return nil, shared.NewDomainError(shared.CodeUnauthorized, "account is no longer active")
	}

	pair, err := s.jwtService.RefreshTokenPair(claims, tokenInput(user))
	if err != nil {
		s.logger.Warn("Token refresh failed", zap.Error(err))
		return nil, tokenError(err)
	}
	if s.revocation != nil {
		if err := s.revocation.Revoke(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
			s.logger.Warn("Failed to revoke used refresh token", zap.Error(err))
		}
	}

	s.logger.Info("Token refreshed", zap.String("user_id", userID.String()))
	result := toTokenResult(pair)
	return &result, nil
}

// Logout revokes the caller's access token and, when given, its refresh token
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	s.logger.Info("User logout", zap.String("user_id", input.UserID.String()))
	if s.revocation == nil {
		return nil
	}
	if input.AccessJTI != "" {
		if err := s.revocation.Revoke(ctx, input.AccessJTI, input.AccessTTL); err != nil {
			return fmt.Errorf("revoke access token: %w", err)
		}
	}
	if input.RefreshToken == "" {
		return nil
	}
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		// an expired or foreign refresh token needs no revocation
		return nil
	}
	if claims.UserID != input.UserID.String() {
		return shared.NewDomainError(shared.CodeForbidden, "refresh token belongs to another user")
	}
	if err := s.revocation.Revoke(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// Me returns the signed-in user
func (s *AuthService) Me(ctx context.Context, tenantID, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	info := toUserInfo(user)
	return &info, nil
}

// ChangePassword changes the caller's password and revokes every token issued
// before the change
func (s *AuthService) ChangePassword(ctx context.Context, tenantID, userID uuid.UUID, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return err
	}
	if err := user.ChangePassword(input.CurrentPassword, input.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		s.logger.Error("Failed to update user after password change", zap.Error(err))
		return err
	}
	s.revokeUser(ctx, user.ID)

	s.logger.Info("User password changed", zap.String("user_id", userID.String()))
	return nil
}

func (s *AuthService) revokeUser(ctx context.Context, userID uuid.UUID) {
	if s.revocation == nil {
		return
	}
	if err := s.revocation.RevokeUser(ctx, userID.String(), s.jwtService.GetRefreshTokenExpiration()); err != nil {
		s.logger.Warn("Failed to revoke user tokens", zap.String("user_id", userID.String()), zap.Error(err))
	}
}

func tokenInput(u *identity.User) auth.GenerateTokenInput {
	return auth.GenerateTokenInput{
		TenantID: u.TenantID,
		UserID:   u.ID,
		Username: u.Username,
		Role:     string(u.Role),
	}
}

func lockedError(u *identity.User) error {
	return shared.NewDomainError(shared.CodeUnauthorized,
		fmt.Sprintf("account is locked until %s", u.LockedUntil.UTC().Format(time.RFC3339)))
}

// tokenError maps JWT failures to unauthorized domain errors
func tokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError(shared.CodeUnauthorized, "refresh token has expired")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError(shared.CodeUnauthorized, "maximum token refresh count exceeded, please log in again")
	case errors.Is(err, auth.ErrTokenRevoked):
		return shared.NewDomainError(shared.CodeUnauthorized, "refresh token has been revoked")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidTokenType),
		errors.Is(err, auth.ErrInvalidClaims), errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingTenantID), errors.Is(err, auth.ErrMissingUserID):
		return shared.NewDomainError(shared.CodeUnauthorized, "invalid refresh token")
	default:
		return fmt.Errorf("refresh token: %w", err)
	}
}
