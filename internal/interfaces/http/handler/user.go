package handler

import (
	identityapp "github.com/erp/logistics/internal/application/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserHandler handles account administration. Routes are admin only.
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identityapp.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List returns users
func (h *UserHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter identityapp.UserListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	users, total, err := h.userService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	f := filter.Filter()
	h.SuccessWithMeta(c, users, total, f.Page, f.PageSize)
}

// GetByID returns one user
func (h *UserHandler) GetByID(c *gin.Context) {
	h.withID(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.userService.GetByID(c.Request.Context(), tenantID, id)
	})
}

// Create adds an account
func (h *UserHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req identityapp.CreateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}
	actorID, _ := getUserID(c)
	user, err := h.userService.Create(c.Request.Context(), tenantID, actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// Update changes display name and role
func (h *UserHandler) Update(c *gin.Context) {
	var req identityapp.UpdateUserRequest
	actorID, _ := getUserID(c)
	h.withIDAndBody(c, &req, func(tenantID, id uuid.UUID) (any, error) {
		return h.userService.Update(c.Request.Context(), tenantID, actorID, id, req)
	})
}

// ResetPassword sets a new password for the account
func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req identityapp.ResetPasswordRequest
	h.withIDAndBody(c, &req, func(tenantID, id uuid.UUID) (any, error) {
		if err := h.userService.ResetPassword(c.Request.Context(), tenantID, id, req); err != nil {
			return nil, err
		}
		return gin.H{"id": id, "message": "Password reset"}, nil
	})
}

// Unlock clears a login lockout
func (h *UserHandler) Unlock(c *gin.Context) {
	h.withID(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.userService.Unlock(c.Request.Context(), tenantID, id)
	})
}

// Delete disables the account
func (h *UserHandler) Delete(c *gin.Context) {
	actorID, _ := getUserID(c)
	h.withID(c, func(tenantID, id uuid.UUID) (any, error) {
		if err := h.userService.Delete(c.Request.Context(), tenantID, actorID, id); err != nil {
			return nil, err
		}
		return gin.H{"id": id, "deleted": true}, nil
	})
}

// Restore re-enables the account
func (h *UserHandler) Restore(c *gin.Context) {
	h.withID(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.userService.Restore(c.Request.Context(), tenantID, id)
	})
}
