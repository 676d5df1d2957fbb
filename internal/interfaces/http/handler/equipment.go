package handler

import (
	"time"

	equipmentapp "github.com/erp/logistics/internal/application/equipment"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EquipmentHandler handles equipment master endpoints
type EquipmentHandler struct {
	BaseHandler
	equipmentService *equipmentapp.EquipmentService
}

// NewEquipmentHandler creates a new EquipmentHandler
func NewEquipmentHandler(equipmentService *equipmentapp.EquipmentService) *EquipmentHandler {
	return &EquipmentHandler{equipmentService: equipmentService}
}

// List returns equipment
func (h *EquipmentHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter equipmentapp.EquipmentListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := h.equipmentService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	f := filter.Filter()
	h.SuccessWithMeta(c, items, total, f.Page, f.PageSize)
}

// Due lists equipment whose next maintenance falls on or before ?as_of
// (YYYY-MM-DD, default today)
func (h *EquipmentHandler) Due(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	asOf := time.Now()
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.BadRequest(c, "as_of must be a date in YYYY-MM-DD format")
			return
		}
		asOf = parsed
	}
	items, err := h.equipmentService.Due(c.Request.Context(), tenantID, asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// GetByID returns one equipment
func (h *EquipmentHandler) GetByID(c *gin.Context) {
	h.withID(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.equipmentService.GetByID(c.Request.Context(), tenantID, id)
	})
}

// Create registers equipment
func (h *EquipmentHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req equipmentapp.CreateEquipmentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	userID, _ := getUserID(c)
	eq, err := h.equipmentService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, eq)
}

// Update changes equipment
func (h *EquipmentHandler) Update(c *gin.Context) {
	var req equipmentapp.UpdateEquipmentRequest
	h.withIDAndBody(c, &req, func(tenantID, id uuid.UUID) (any, error) {
		return h.equipmentService.Update(c.Request.Context(), tenantID, id, req)
	})
}

// MarkBroken flags equipment as out of order
func (h *EquipmentHandler) MarkBroken(c *gin.Context) {
	h.withID(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.equipmentService.MarkBroken(c.Request.Context(), tenantID, id)
	})
}

// Retire takes equipment out of service for good
func (h *EquipmentHandler) Retire(c *gin.Context) {
	h.withID(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.equipmentService.Retire(c.Request.Context(), tenantID, id)
	})
}

// Restore reactivates equipment
func (h *EquipmentHandler) Restore(c *gin.Context) {
	h.withID(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.equipmentService.Restore(c.Request.Context(), tenantID, id)
	})
}

// Delete deactivates equipment, or removes it with ?hard=true
func (h *EquipmentHandler) Delete(c *gin.Context) {
	h.deleteByID(c, h.equipmentService.Delete)
}

// MaintenanceHandler handles maintenance record endpoints
type MaintenanceHandler struct {
	BaseHandler
	maintenanceService *equipmentapp.MaintenanceService
}

// NewMaintenanceHandler creates a new MaintenanceHandler
func NewMaintenanceHandler(maintenanceService *equipmentapp.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{maintenanceService: maintenanceService}
}

// List returns maintenance records
func (h *MaintenanceHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter equipmentapp.MaintenanceListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := h.maintenanceService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	f := filter.Filter()
	h.SuccessWithMeta(c, items, total, f.Page, f.PageSize)
}

// GetByID returns one record with download links for its attachments
func (h *MaintenanceHandler) GetByID(c *gin.Context) {
	h.withID(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.maintenanceService.GetByID(c.Request.Context(), tenantID, id)
	})
}

// Schedule books a maintenance job
func (h *MaintenanceHandler) Schedule(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req equipmentapp.ScheduleMaintenanceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	userID, _ := getUserID(c)
	rec, err := h.maintenanceService.Schedule(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, rec)
}

// Reschedule moves a scheduled job
func (h *MaintenanceHandler) Reschedule(c *gin.Context) {
	var req equipmentapp.RescheduleMaintenanceRequest
	h.withIDAndBody(c, &req, func(tenantID, id uuid.UUID) (any, error) {
		return h.maintenanceService.Reschedule(c.Request.Context(), tenantID, id, req)
	})
}

// Start marks a job in progress
func (h *MaintenanceHandler) Start(c *gin.Context) {
	h.withID(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.maintenanceService.Start(c.Request.Context(), tenantID, id)
	})
}

// Complete closes a running job
func (h *MaintenanceHandler) Complete(c *gin.Context) {
	var req equipmentapp.CompleteMaintenanceRequest
	h.withIDAndBody(c, &req, func(tenantID, id uuid.UUID) (any, error) {
		return h.maintenanceService.Complete(c.Request.Context(), tenantID, id, req)
	})
}

// Cancel cancels a job that has not finished
func (h *MaintenanceHandler) Cancel(c *gin.Context) {
	h.withID(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.maintenanceService.Cancel(c.Request.Context(), tenantID, id)
	})
}

// Delete removes a record and its stored attachments
func (h *MaintenanceHandler) Delete(c *gin.Context) {
	h.withID(c, func(tenantID, id uuid.UUID) (any, error) {
		if err := h.maintenanceService.Delete(c.Request.Context(), tenantID, id); err != nil {
			return nil, err
		}
		return gin.H{"id": id, "deleted": true}, nil
	})
}

// CreateUploadURL issues a presigned PUT URL for a new attachment
func (h *MaintenanceHandler) CreateUploadURL(c *gin.Context) {
	var req equipmentapp.UploadURLRequest
	h.withIDAndBody(c, &req, func(tenantID, id uuid.UUID) (any, error) {
		return h.maintenanceService.CreateUploadURL(c.Request.Context(), tenantID, id, req)
	})
}

// RegisterAttachment attaches an uploaded object
func (h *MaintenanceHandler) RegisterAttachment(c *gin.Context) {
	var req equipmentapp.RegisterAttachmentRequest
	h.withIDAndBody(c, &req, func(tenantID, id uuid.UUID) (any, error) {
		return h.maintenanceService.RegisterAttachment(c.Request.Context(), tenantID, id, req)
	})
}

// RemoveAttachment detaches and deletes an object. The key is passed as
// ?key= since object keys contain slashes.
func (h *MaintenanceHandler) RemoveAttachment(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		h.BadRequest(c, "key is required")
		return
	}
	h.withID(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.maintenanceService.RemoveAttachment(c.Request.Context(), tenantID, id, key)
	})
}
