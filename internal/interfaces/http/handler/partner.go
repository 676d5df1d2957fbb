package handler

import (
	partnerapp "github.com/erp/logistics/internal/application/partner"
	"github.com/gin-gonic/gin"
)

// PartnerHandler handles supplier and customer endpoints
type PartnerHandler struct {
	BaseHandler
	partnerService *partnerapp.Service
}

// NewPartnerHandler creates a new PartnerHandler
func NewPartnerHandler(partnerService *partnerapp.Service) *PartnerHandler {
	return &PartnerHandler{partnerService: partnerService}
}

// List returns partners
func (h *PartnerHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter partnerapp.PartnerListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := h.partnerService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	f := filter.Filter()
	h.SuccessWithMeta(c, items, total, f.Page, f.PageSize)
}

// GetByID returns one partner
func (h *PartnerHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	item, err := h.partnerService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Create registers a partner
func (h *PartnerHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req partnerapp.CreatePartnerRequest
	if !h.bindJSON(c, &req) {
		return
	}
	userID, _ := getUserID(c)
	item, err := h.partnerService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// Update changes a partner
func (h *PartnerHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req partnerapp.UpdatePartnerRequest
	if !h.bindJSON(c, &req) {
		return
	}
	item, err := h.partnerService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Delete deactivates a partner
func (h *PartnerHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.partnerService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"id": id, "deleted": true})
}

// Restore reactivates a partner
func (h *PartnerHandler) Restore(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	item, err := h.partnerService.Restore(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}
