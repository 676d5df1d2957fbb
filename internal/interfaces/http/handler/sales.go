package handler

import (
	salesapp "github.com/erp/logistics/internal/application/sales"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SalesOrderHandler handles sales order endpoints
type SalesOrderHandler struct {
	BaseHandler
	salesService *salesapp.Service
}

// NewSalesOrderHandler creates a new SalesOrderHandler
func NewSalesOrderHandler(salesService *salesapp.Service) *SalesOrderHandler {
	return &SalesOrderHandler{salesService: salesService}
}

// List returns sales orders
func (h *SalesOrderHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter salesapp.SalesOrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := h.salesService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	f := filter.Filter()
	h.SuccessWithMeta(c, items, total, f.Page, f.PageSize)
}

// GetByID returns one sales order with its items
func (h *SalesOrderHandler) GetByID(c *gin.Context) {
	h.withID(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.salesService.GetByID(c.Request.Context(), tenantID, id)
	})
}

// Create drafts a sales order
func (h *SalesOrderHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req salesapp.CreateSalesOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	userID, _ := getUserID(c)
	order, err := h.salesService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// Update changes a draft sales order
func (h *SalesOrderHandler) Update(c *gin.Context) {
	var req salesapp.UpdateSalesOrderRequest
	h.withIDAndBody(c, &req, func(tenantID, id uuid.UUID) (any, error) {
		return h.salesService.Update(c.Request.Context(), tenantID, id, req)
	})
}

// Confirm confirms a draft order
func (h *SalesOrderHandler) Confirm(c *gin.Context) {
	h.withID(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.salesService.Confirm(c.Request.Context(), tenantID, id)
	})
}

// Ship ships a confirmed order, which opens its receivable
func (h *SalesOrderHandler) Ship(c *gin.Context) {
	h.withID(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.salesService.Ship(c.Request.Context(), tenantID, id)
	})
}

// Cancel cancels a draft or confirmed order
func (h *SalesOrderHandler) Cancel(c *gin.Context) {
	h.withID(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.salesService.Cancel(c.Request.Context(), tenantID, id)
	})
}

// Delete removes a draft or cancelled order
func (h *SalesOrderHandler) Delete(c *gin.Context) {
	h.withID(c, func(tenantID, id uuid.UUID) (any, error) {
		if err := h.salesService.Delete(c.Request.Context(), tenantID, id); err != nil {
			return nil, err
		}
		return gin.H{"id": id, "deleted": true}, nil
	})
}
