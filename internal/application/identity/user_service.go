package identity

import (
	"context"
	"strings"
	"time"

	"github.com/erp/logistics/internal/domain/identity"
	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService handles user management operations
type UserService struct {
	userRepo   identity.UserRepository
	revocation auth.RevocationStore
	// revokeTTL outlives every refresh token issued before a revocation
	revokeTTL time.Duration
	logger    *zap.Logger
}

// NewUserService creates a new user service. revocation may be nil.
func NewUserService(userRepo identity.UserRepository, revocation auth.RevocationStore, revokeTTL time.Duration, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo:   userRepo,
		revocation: revocation,
		revokeTTL:  revokeTTL,
		logger:     logger,
	}
}

// Create creates a new user
func (s *UserService) Create(ctx context.Context, tenantID, actorID uuid.UUID, req CreateUserRequest) (*UserResponse, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	exists, err := s.userRepo.ExistsByUsername(ctx, tenantID, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDuplicateError("username", username)
	}

	user, err := identity.NewUser(tenantID, username, req.Password, req.DisplayName, identity.Role(req.Role))
	if err != nil {
		return nil, err
	}
	if actorID != uuid.Nil {
		user.SetCreatedBy(actorID)
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))
	resp := ToUserResponse(user)
	return &resp, nil
}

// GetByID retrieves a user
func (s *UserService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// List retrieves users with filtering and pagination
func (s *UserService) List(ctx context.Context, tenantID uuid.UUID, filter UserListFilter) ([]UserResponse, int64, error) {
	f := filter.Filter()
	if filter.OrderBy == "" {
		f.OrderBy = "username"
		f.OrderDir = "asc"
	}
	if filter.Role != "" {
		f = f.With("role", filter.Role)
	}
	users, err := s.userRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.userRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	return ToUserResponses(users), total, nil
}

// Update changes display name and role. Admins cannot demote themselves.
func (s *UserService) Update(ctx context.Context, tenantID, actorID, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	displayName := user.DisplayName
	if req.DisplayName != nil {
		displayName = *req.DisplayName
	}
	role := user.Role
	if req.Role != nil {
		role = identity.Role(*req.Role)
	}
	if id == actorID && role != user.Role {
		return nil, shared.NewStateError("you cannot change your own role")
	}
	roleChanged := role != user.Role
	if err := user.Update(displayName, role); err != nil {
		return nil, err
	}
	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		return nil, err
	}
	if roleChanged {
		s.revokeUser(ctx, user.ID)
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// ResetPassword sets a new password, clears a lockout and signs the user out
func (s *UserService) ResetPassword(ctx context.Context, tenantID, id uuid.UUID, req ResetPasswordRequest) error {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		return err
	}
	user.FailedAttempts = 0
	user.LockedUntil = nil
	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		return err
	}
	s.revokeUser(ctx, user.ID)
	s.logger.Info("User password reset", zap.String("user_id", id.String()))
	return nil
}

// Unlock clears a login lockout
func (s *UserService) Unlock(ctx context.Context, tenantID, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if user.LockedUntil != nil || user.FailedAttempts > 0 {
		user.LockedUntil = nil
		user.FailedAttempts = 0
		user.IncrementVersion()
		if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
			return nil, err
		}
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// Delete disables the account and revokes its tokens. Users are never
// removed so documents keep their created_by reference.
func (s *UserService) Delete(ctx context.Context, tenantID, actorID, id uuid.UUID) error {
	if id == actorID {
		return shared.NewStateError("you cannot delete your own account")
	}
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	user.SoftDelete()
	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		return err
	}
	s.revokeUser(ctx, user.ID)
	s.logger.Info("User disabled", zap.String("user_id", id.String()))
	return nil
}

// Restore re-enables a disabled account
func (s *UserService) Restore(ctx context.Context, tenantID, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	user.Restore()
	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

func (s *UserService) revokeUser(ctx context.Context, userID uuid.UUID) {
	if s.revocation == nil {
		return
	}
	if err := s.revocation.RevokeUser(ctx, userID.String(), s.revokeTTL); err != nil {
		s.logger.Warn("Failed to revoke user tokens", zap.String("user_id", userID.String()), zap.Error(err))
	}
}
