package handler

import (
	"time"

	wmsapp "github.com/erp/logistics/internal/application/wms"
	"github.com/erp/logistics/internal/infrastructure/export"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// =============================================================================
// Locations
// =============================================================================

// LocationHandler handles WMS location endpoints
type LocationHandler struct {
	BaseHandler
	locationService *wmsapp.LocationService
}

// NewLocationHandler creates a new LocationHandler
func NewLocationHandler(locationService *wmsapp.LocationService) *LocationHandler {
	return &LocationHandler{locationService: locationService}
}

// List returns locations
func (h *LocationHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter wmsapp.LocationListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := h.locationService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	f := filter.Filter()
	h.SuccessWithMeta(c, items, total, f.Page, f.PageSize)
}

// GetByID returns one location
func (h *LocationHandler) GetByID(c *gin.Context) {
	h.withID(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.locationService.GetByID(c.Request.Context(), tenantID, id)
	})
}

// Create creates a location
func (h *LocationHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req wmsapp.CreateLocationRequest
	if !h.bindJSON(c, &req) {
		return
	}
	userID, _ := getUserID(c)
	loc, err := h.locationService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, loc)
}

// Update changes a location
func (h *LocationHandler) Update(c *gin.Context) {
	var req wmsapp.UpdateLocationRequest
	h.withIDAndBody(c, &req, func(tenantID, id uuid.UUID) (any, error) {
		return h.locationService.Update(c.Request.Context(), tenantID, id, req)
	})
}

// Delete deactivates a location, or removes it with ?hard=true
func (h *LocationHandler) Delete(c *gin.Context) {
	h.deleteByID(c, h.locationService.Delete)
}

// Restore reactivates a location
func (h *LocationHandler) Restore(c *gin.Context) {
	h.withID(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.locationService.Restore(c.Request.Context(), tenantID, id)
	})
}

// =============================================================================
// Part master
// =============================================================================

// PartHandler handles part master endpoints
type PartHandler struct {
	BaseHandler
	partService *wmsapp.PartService
}

// NewPartHandler creates a new PartHandler
func NewPartHandler(partService *wmsapp.PartService) *PartHandler {
	return &PartHandler{partService: partService}
}

// List returns parts
func (h *PartHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter wmsapp.PartListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := h.partService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	f := filter.Filter()
	h.SuccessWithMeta(c, items, total, f.Page, f.PageSize)
}

// Export downloads the filtered part master as xlsx
func (h *PartHandler) Export(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter wmsapp.PartListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	data, err := h.partService.Export(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.sendFile(c, export.Filename("parts", time.Now()), export.ContentType, data)
}

// GetByID returns one part
func (h *PartHandler) GetByID(c *gin.Context) {
	h.withID(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.partService.GetByID(c.Request.Context(), tenantID, id)
	})
}

// GetByCode returns a part by its part code
func (h *PartHandler) GetByCode(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	part, err := h.partService.GetByCode(c.Request.Context(), tenantID, c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, part)
}

// Create registers a part
func (h *PartHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req wmsapp.CreatePartRequest
	if !h.bindJSON(c, &req) {
		return
	}
	userID, _ := getUserID(c)
	part, err := h.partService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, part)
}

// Update changes a part
func (h *PartHandler) Update(c *gin.Context) {
	var req wmsapp.UpdatePartRequest
	h.withIDAndBody(c, &req, func(tenantID, id uuid.UUID) (any, error) {
		return h.partService.Update(c.Request.Context(), tenantID, id, req)
	})
}

// Delete deactivates a part, or removes it with ?hard=true
func (h *PartHandler) Delete(c *gin.Context) {
	h.deleteByID(c, h.partService.Delete)
}

// Restore reactivates a part
func (h *PartHandler) Restore(c *gin.Context) {
	h.withID(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.partService.Restore(c.Request.Context(), tenantID, id)
	})
}

// =============================================================================
// Rack master
// =============================================================================

// RackHandler handles rack master endpoints
type RackHandler struct {
	BaseHandler
	rackService *wmsapp.RackService
}

// NewRackHandler creates a new RackHandler
func NewRackHandler(rackService *wmsapp.RackService) *RackHandler {
	return &RackHandler{rackService: rackService}
}

// List returns racks
func (h *RackHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter wmsapp.RackListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := h.rackService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	f := filter.Filter()
	h.SuccessWithMeta(c, items, total, f.Page, f.PageSize)
}

// GetByID returns one rack
func (h *RackHandler) GetByID(c *gin.Context) {
	h.withID(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.rackService.GetByID(c.Request.Context(), tenantID, id)
	})
}

// Create registers a rack in a location
func (h *RackHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req wmsapp.CreateRackRequest
	if !h.bindJSON(c, &req) {
		return
	}
	userID, _ := getUserID(c)
	rack, err := h.rackService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, rack)
}

// Update changes a rack
func (h *RackHandler) Update(c *gin.Context) {
	var req wmsapp.UpdateRackRequest
	h.withIDAndBody(c, &req, func(tenantID, id uuid.UUID) (any, error) {
		return h.rackService.Update(c.Request.Context(), tenantID, id, req)
	})
}

// Delete deactivates a rack, or removes it with ?hard=true
func (h *RackHandler) Delete(c *gin.Context) {
	h.deleteByID(c, h.rackService.Delete)
}

// Restore reactivates a rack
func (h *RackHandler) Restore(c *gin.Context) {
	h.withID(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.rackService.Restore(c.Request.Context(), tenantID, id)
	})
}

// StartMaintenance takes a rack out of service
func (h *RackHandler) StartMaintenance(c *gin.Context) {
	h.withID(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.rackService.StartMaintenance(c.Request.Context(), tenantID, id)
	})
}

// EndMaintenance returns a rack to service
func (h *RackHandler) EndMaintenance(c *gin.Context) {
	h.withID(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.rackService.EndMaintenance(c.Request.Context(), tenantID, id)
	})
}

// =============================================================================
// Rack inventory
// =============================================================================

// InventoryHandler handles rack inventory endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService *wmsapp.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *wmsapp.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// List returns rack inventory records
func (h *InventoryHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter wmsapp.InventoryListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := h.inventoryService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	f := filter.Filter()
	h.SuccessWithMeta(c, items, total, f.Page, f.PageSize)
}

// GetByID returns one record
func (h *InventoryHandler) GetByID(c *gin.Context) {
	h.withID(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.inventoryService.GetByID(c.Request.Context(), tenantID, id)
	})
}

// Inbound stores a part lot in a rack slot
func (h *InventoryHandler) Inbound(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req wmsapp.InboundRequest
	if !h.bindJSON(c, &req) {
		return
	}
	userID, _ := getUserID(c)
	rec, err := h.inventoryService.Inbound(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, rec)
}

// Outbound takes quantity out of a record
func (h *InventoryHandler) Outbound(c *gin.Context) {
	var req wmsapp.OutboundRequest
	h.withIDAndBody(c, &req, func(tenantID, id uuid.UUID) (any, error) {
		return h.inventoryService.Outbound(c.Request.Context(), tenantID, id, req)
	})
}

// Move relocates a record to another rack slot
func (h *InventoryHandler) Move(c *gin.Context) {
	var req wmsapp.MoveRequest
	h.withIDAndBody(c, &req, func(tenantID, id uuid.UUID) (any, error) {
		return h.inventoryService.Move(c.Request.Context(), tenantID, id, req)
	})
}

// Reserve holds a stored record for picking
func (h *InventoryHandler) Reserve(c *gin.Context) {
	h.withID(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.inventoryService.Reserve(c.Request.Context(), tenantID, id)
	})
}

// Unreserve releases a held record
func (h *InventoryHandler) Unreserve(c *gin.Context) {
	h.withID(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.inventoryService.Unreserve(c.Request.Context(), tenantID, id)
	})
}

// Stock sums stored quantity per part. Repeat part_id to narrow the result.
func (h *InventoryHandler) Stock(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	raw := c.QueryArray("part_id")
	partIDs := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			h.BadRequest(c, "Invalid part_id: "+s)
			return
		}
		partIDs = append(partIDs, id)
	}
	stock, err := h.inventoryService.Stock(c.Request.Context(), tenantID, partIDs)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stock)
}

// LowStock lists parts stored below their safety stock
func (h *InventoryHandler) LowStock(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	stock, err := h.inventoryService.LowStock(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stock)
}
