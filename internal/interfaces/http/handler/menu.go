package handler

import (
	menuapp "github.com/erp/logistics/internal/application/menu"
	"github.com/gin-gonic/gin"
)

// MenuCodeHandler handles menu code endpoints
type MenuCodeHandler struct {
	BaseHandler
	menuService *menuapp.Service
}

// NewMenuCodeHandler creates a new MenuCodeHandler
func NewMenuCodeHandler(menuService *menuapp.Service) *MenuCodeHandler {
	return &MenuCodeHandler{menuService: menuService}
}

// List returns menu codes
func (h *MenuCodeHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter menuapp.MenuCodeListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	items, total, err := h.menuService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	f := filter.Filter()
	h.SuccessWithMeta(c, items, total, f.Page, f.PageSize)
}

// Navigation returns active menu codes grouped by section
func (h *MenuCodeHandler) Navigation(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	groups, err := h.menuService.Navigation(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, groups)
}

// GetByID returns one menu code
func (h *MenuCodeHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	item, err := h.menuService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// GetByCode returns one menu code by its code
func (h *MenuCodeHandler) GetByCode(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	item, err := h.menuService.GetByCode(c.Request.Context(), tenantID, c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Create adds a menu code. A duplicate code answers 400.
func (h *MenuCodeHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req menuapp.CreateMenuCodeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	item, err := h.menuService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// Update changes a menu code
func (h *MenuCodeHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req menuapp.UpdateMenuCodeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	item, err := h.menuService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Delete deactivates a menu code, or removes it with ?hard=true
func (h *MenuCodeHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	hard, ok := h.hardDelete(c)
	if !ok {
		return
	}
	if err := h.menuService.Delete(c.Request.Context(), tenantID, id, hard); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"id": id, "deleted": true, "hard": hard})
}

// Restore reactivates a menu code
func (h *MenuCodeHandler) Restore(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	item, err := h.menuService.Restore(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}
