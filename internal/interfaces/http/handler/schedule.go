package handler

import (
	scheduleapp "github.com/erp/logistics/internal/application/schedule"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ScheduleHandler handles calendar endpoints
type ScheduleHandler struct {
	BaseHandler
	scheduleService *scheduleapp.Service
}

// NewScheduleHandler creates a new ScheduleHandler
func NewScheduleHandler(scheduleService *scheduleapp.Service) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// List returns calendar entries page by page
func (h *ScheduleHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter scheduleapp.ScheduleListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := h.scheduleService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	f := filter.Filter()
	h.SuccessWithMeta(c, items, total, f.Page, f.PageSize)
}

// Range returns every entry overlapping a calendar view
func (h *ScheduleHandler) Range(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req scheduleapp.RangeRequest
	if !h.bindQuery(c, &req) {
		return
	}
	items, err := h.scheduleService.Range(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// Conflicts returns the owner's entries overlapping a candidate range
func (h *ScheduleHandler) Conflicts(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req scheduleapp.ConflictRequest
	if !h.bindQuery(c, &req) {
		return
	}
	items, err := h.scheduleService.Conflicts(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// GetByID returns one entry
func (h *ScheduleHandler) GetByID(c *gin.Context) {
	h.withID(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.scheduleService.GetByID(c.Request.Context(), tenantID, id)
	})
}

// Create adds an entry
func (h *ScheduleHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req scheduleapp.CreateScheduleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	userID, _ := getUserID(c)
	entry, err := h.scheduleService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

// Update edits an entry
func (h *ScheduleHandler) Update(c *gin.Context) {
	var req scheduleapp.UpdateScheduleRequest
	h.withIDAndBody(c, &req, func(tenantID, id uuid.UUID) (any, error) {
		return h.scheduleService.Update(c.Request.Context(), tenantID, id, req)
	})
}

// Delete hides an entry, or removes it with ?hard=true
func (h *ScheduleHandler) Delete(c *gin.Context) {
	h.deleteByID(c, h.scheduleService.Delete)
}

// Restore brings back a hidden entry
func (h *ScheduleHandler) Restore(c *gin.Context) {
	h.withID(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.scheduleService.Restore(c.Request.Context(), tenantID, id)
	})
}
