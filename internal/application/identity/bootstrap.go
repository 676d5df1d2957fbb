package identity

import (
	"context"
	"strings"

	"github.com/erp/logistics/internal/domain/identity"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BootstrapAdmin creates the first administrator when no user exists in any
// tenant. It reports whether an account was created. Without configured
// credentials it does nothing.
func BootstrapAdmin(ctx context.Context, repo identity.UserRepository, tenantID uuid.UUID, username, password string, logger *zap.Logger) (bool, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		logger.Warn("Admin bootstrap skipped: no credentials configured")
		return false, nil
	}
	count, err := repo.CountAll(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	admin, err := identity.NewUser(tenantID, username, password, "Administrator", identity.RoleAdmin)
	if err != nil {
		return false, err
	}
	if err := repo.Save(ctx, admin); err != nil {
		return false, err
	}
	logger.Info("Bootstrap administrator created",
		zap.String("username", admin.Username),
		zap.String("tenant_id", tenantID.String()))
	return true, nil
}
