package identity

import (
	"time"

	"github.com/erp/logistics/internal/application/common"
	"github.com/erp/logistics/internal/domain/identity"
	"github.com/erp/logistics/internal/infrastructure/auth"
	"github.com/google/uuid"
)

// LoginInput contains the input for user login
type LoginInput struct {
	TenantID uuid.UUID `json:"-"`
	Username string    `json:"username" binding:"required,max=100"`
	Password string    `json:"password" binding:"required,max=72"`
	// IP is the client address, logged for auditing
	IP string `json:"-"`
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	TokenResult
	User UserInfo `json:"user"`
}

// TokenResult is an issued access and refresh token pair
type TokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// UserInfo is the signed-in user as returned by login and /auth/me
type UserInfo struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenant_id"`
	Username    string     `json:"username"`
	DisplayName string     `json:"display_name"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutInput identifies the tokens to revoke
type LogoutInput struct {
	UserID uuid.UUID `json:"-"`
	// AccessJTI and AccessTTL come from the bearer token of the request
	AccessJTI string        `json:"-"`
	AccessTTL time.Duration `json:"-"`
	// RefreshToken is optional; when present it is revoked as well
	RefreshToken string `json:"refresh_token"`
}

// ChangePasswordInput changes the caller's own password
type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=72"`
}

// CreateUserRequest is the admin request to add an account
type CreateUserRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=100"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	DisplayName string `json:"display_name" binding:"max=200"`
	Role        string `json:"role" binding:"required,oneof=admin manager staff"`
}

// UpdateUserRequest changes display name and role
type UpdateUserRequest struct {
	DisplayName *string `json:"display_name" binding:"omitempty,max=200"`
	Role        *string `json:"role" binding:"omitempty,oneof=admin manager staff"`
}

// ResetPasswordRequest sets a password without knowing the old one
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// UserListFilter is the list query of users
type UserListFilter struct {
	common.ListQuery
	Role string `form:"role" binding:"omitempty,oneof=admin manager staff"`
}

// UserResponse represents a user in admin API responses
type UserResponse struct {
	ID             uuid.UUID  `json:"id"`
	Username       string     `json:"username"`
	DisplayName    string     `json:"display_name"`
	Role           string     `json:"role"`
	IsActive       bool       `json:"is_active"`
	IsLocked       bool       `json:"is_locked"`
	FailedAttempts int        `json:"failed_attempts"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
	Version        int        `json:"version"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ToUserResponse converts a domain user to a response
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		DisplayName:    u.DisplayName,
		Role:           string(u.Role),
		IsActive:       u.IsActive,
		IsLocked:       u.IsLocked(time.Now()),
		FailedAttempts: u.FailedAttempts,
		LastLoginAt:    u.LastLoginAt,
		Version:        u.Version,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

// ToUserResponses converts a slice of users
func ToUserResponses(users []identity.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = ToUserResponse(&users[i])
	}
	return out
}

func toUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:          u.ID,
		TenantID:    u.TenantID,
		Username:    u.Username,
		DisplayName: u.DisplayNameOrUsername(),
		Role:        string(u.Role),
		LastLoginAt: u.LastLoginAt,
	}
}

func toTokenResult(p *auth.TokenPair) TokenResult {
	return TokenResult{
		AccessToken:           p.AccessToken,
		RefreshToken:          p.RefreshToken,
		AccessTokenExpiresAt:  p.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: p.RefreshTokenExpiresAt,
		TokenType:             p.TokenType,
	}
}
