package handler

import (
	identityapp "github.com/erp/logistics/internal/application/identity"
	"github.com/erp/logistics/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles sign-in and session endpoints
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *identityapp.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login exchanges credentials for a token pair
func (h *AuthHandler) Login(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var input identityapp.LoginInput
	if !h.bindJSON(c, &input) {
		return
	}
	input.TenantID = tenantID
	input.IP = c.ClientIP()

	result, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Refresh rotates a refresh token into a new pair
func (h *AuthHandler) Refresh(c *gin.Context) {
	var input identityapp.RefreshTokenInput
	if !h.bindJSON(c, &input) {
		return
	}
	pair, err := h.authService.Refresh(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pair)
}

// Logout revokes the bearer token and, when given, the refresh token
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	userID, err := claims.GetUserUUID()
	if err != nil {
		h.Unauthorized(c, "Invalid token claims")
		return
	}

	var input identityapp.LogoutInput
	// the body is optional
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &input) {
		return
	}
	input.UserID = userID
	input.AccessJTI = claims.ID
	input.AccessTTL = claims.GetRemainingTTL()

	if err := h.authService.Logout(c.Request.Context(), input); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Logged out"})
}

// Me returns the signed-in user
func (h *AuthHandler) Me(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	info, err := h.authService.Me(c.Request.Context(), tenantID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}

// ChangePassword changes the caller's own password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	var input identityapp.ChangePasswordInput
	if !h.bindJSON(c, &input) {
		return
	}
	if err := h.authService.ChangePassword(c.Request.Context(), tenantID, userID, input); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Password changed"})
}
