package middleware

import (
	"strings"

	"github.com/erp/logistics/internal/infrastructure/logger"
	"github.com/erp/logistics/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	TenantIDKey     = "tenant_id"
	TenantHeaderKey = "X-Tenant-ID"
)

// TenantMiddlewareConfig holds configuration for tenant middleware
type TenantMiddlewareConfig struct {
	// DefaultTenantID is used when neither a token nor the header names a tenant
	DefaultTenantID string
	// SkipPaths are paths that don't require tenant context
	SkipPaths []string
	Logger    *zap.Logger
}

// TenantMiddleware resolves the tenant of the request.
// Order: JWT claims > X-Tenant-ID header > configured default.
func TenantMiddleware(defaultTenantID string) gin.HandlerFunc {
	return TenantMiddlewareWithConfig(TenantMiddlewareConfig{
		DefaultTenantID: defaultTenantID,
		SkipPaths:       []string{"/health", "/api/health"},
	})
}

// TenantMiddlewareWithConfig returns tenant middleware with custom configuration
func TenantMiddlewareWithConfig(cfg TenantMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath || strings.HasPrefix(path, skipPath+"/") {
				c.Next()
				return
			}
		}

		tenantID, method := GetJWTTenantID(c), "jwt"
		if tenantID == "" {
			tenantID, method = strings.TrimSpace(c.GetHeader(TenantHeaderKey)), "header"
		}
		if tenantID == "" {
			tenantID, method = cfg.DefaultTenantID, "default"
		}

		if _, err := uuid.Parse(tenantID); err != nil {
			abort(c, dto.ErrCodeBadRequest, "Invalid tenant ID format")
			return
		}

		c.Set(TenantIDKey, tenantID)
		ctx := logger.WithIdentity(c.Request.Context(), tenantID, GetJWTUserID(c))
		c.Request = c.Request.WithContext(ctx)

		if cfg.Logger != nil {
			cfg.Logger.Debug("Tenant identified",
				zap.String("tenant_id", tenantID),
				zap.String("method", method),
			)
		}

		c.Next()
	}
}

// GetTenantID retrieves the tenant ID from gin.Context
func GetTenantID(c *gin.Context) string {
	return c.GetString(TenantIDKey)
}

// GetTenantUUID retrieves the tenant ID as UUID from gin.Context
func GetTenantUUID(c *gin.Context) (uuid.UUID, error) {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(tenantID)
}

// GetUserUUID retrieves the authenticated user's ID as UUID.
// Anonymous requests yield uuid.Nil.
func GetUserUUID(c *gin.Context) (uuid.UUID, error) {
	userID := GetJWTUserID(c)
	if userID == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(userID)
}
