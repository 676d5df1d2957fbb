package middleware

import (
	"github.com/erp/logistics/internal/domain/identity"
	"github.com/erp/logistics/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PermissionConfig holds configuration for permission middleware
type PermissionConfig struct {
	Logger *zap.Logger
}

// RequireRole creates middleware that admits users whose role is at least min
func RequireRole(min identity.Role) gin.HandlerFunc {
	return RequireRoleWithConfig(min, PermissionConfig{})
}

// RequireRoleWithConfig creates middleware with custom config
func RequireRoleWithConfig(min identity.Role, cfg PermissionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			abort(c, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}

		if !identity.Role(claims.Role).AtLeast(min) {
			if cfg.Logger != nil {
				cfg.Logger.Warn("Permission denied",
					zap.String("user_id", claims.UserID),
					zap.String("role", claims.Role),
					zap.String("required", string(min)),
					zap.String("path", c.Request.URL.Path),
				)
			}
			abort(c, dto.ErrCodeForbidden, "Insufficient permissions")
			return
		}

		c.Next()
	}
}

// HasRole reports whether the authenticated user holds at least min
func HasRole(c *gin.Context, min identity.Role) bool {
	return identity.Role(GetJWTRole(c)).AtLeast(min)
}
