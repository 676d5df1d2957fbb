// Package identity holds user accounts and their roles.
package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Role grants a fixed permission level
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

// IsValid checks if the role is a known value
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStaff:
		return true
	}
	return false
}

func (r Role) rank() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleManager:
		return 2
	case RoleStaff:
		return 1
	}
	return 0
}

// AtLeast reports whether r grants at least the permissions of min
func (r Role) AtLeast(min Role) bool {
	return r.rank() >= min.rank()
}

// Password cost for bcrypt
const bcryptCost = 12

// Login lockout policy
const (
	MaxFailedAttempts = 5
	LockDuration      = 15 * time.Minute
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)
	hasLetter       = regexp.MustCompile(`[a-zA-Z]`)
	hasDigit        = regexp.MustCompile(`[0-9]`)
)

// User is an account that can sign in
type User struct {
	shared.TenantAggregateRoot
	shared.Activatable
	Username       string
	PasswordHash   string
	DisplayName    string
	Role           Role
	LastLoginAt    *time.Time
	FailedAttempts int
	LockedUntil    *time.Time
}

// NewUser creates an active user with a hashed password
func NewUser(tenantID uuid.UUID, username, password, displayName string, role Role) (*User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewValidationError("invalid role: %s", role)
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	return &User{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Activatable:         shared.NewActivatable(),
		Username:            strings.ToLower(strings.TrimSpace(username)),
		PasswordHash:        hash,
		DisplayName:         strings.TrimSpace(displayName),
		Role:                role,
	}, nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangePassword checks the current password and sets a new one
func (u *User) ChangePassword(current, next string) error {
	if !u.VerifyPassword(current) {
		return shared.NewValidationError("current password is incorrect")
	}
	return u.SetPassword(next)
}

// SetPassword replaces the password without checking the old one
func (u *User) SetPassword(password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.IncrementVersion()
	return nil
}

// Update changes the display name and role
func (u *User) Update(displayName string, role Role) error {
	if !role.IsValid() {
		return shared.NewValidationError("invalid role: %s", role)
	}
	if len(displayName) > 200 {
		return shared.NewValidationError("display name cannot exceed 200 characters")
	}
	u.DisplayName = strings.TrimSpace(displayName)
	u.Role = role
	u.IncrementVersion()
	return nil
}

// IsLocked reports whether too many failed logins lock the account at now
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}

// CanLogin reports whether the account may sign in at now
func (u *User) CanLogin(now time.Time) bool {
	return u.IsActive && !u.IsLocked(now)
}

// RecordLoginSuccess clears failures and stamps the login time
func (u *User) RecordLoginSuccess(now time.Time) {
	u.LastLoginAt = &now
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.IncrementVersion()
}

// RecordLoginFailure counts a failed attempt. Returns true when the account became locked.
func (u *User) RecordLoginFailure(now time.Time) bool {
	u.FailedAttempts++
	locked := false
	if u.FailedAttempts >= MaxFailedAttempts {
		until := now.Add(LockDuration)
		u.LockedUntil = &until
		u.FailedAttempts = 0
		locked = true
	}
	u.IncrementVersion()
	return locked
}

// SoftDelete disables the account
func (u *User) SoftDelete() {
	if u.Deactivate() {
		u.IncrementVersion()
	}
}

// Restore re-enables the account
func (u *User) Restore() {
	if u.Activate() {
		u.FailedAttempts = 0
		u.LockedUntil = nil
		u.IncrementVersion()
	}
}

// DisplayNameOrUsername returns display name if set, otherwise username
func (u *User) DisplayNameOrUsername() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	if len(username) < 3 {
		return shared.NewValidationError("username must be at least 3 characters")
	}
	if len(username) > 100 {
		return shared.NewValidationError("username cannot exceed 100 characters")
	}
	if !usernamePattern.MatchString(username) {
		return shared.NewValidationError("username can only contain letters, numbers, underscores, hyphens, and dots")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewValidationError("password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewValidationError("password cannot exceed 72 characters")
	}
	if !hasLetter.MatchString(password) || !hasDigit.MatchString(password) {
		return shared.NewValidationError("password must contain at least one letter and one number")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	if err := validatePassword(password); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	return string(hash), nil
}
