package handler

import (
	purchasingapp "github.com/erp/logistics/internal/application/purchasing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PurchaseRequestHandler handles purchase request endpoints
type PurchaseRequestHandler struct {
	BaseHandler
	requestService *purchasingapp.PurchaseRequestService
}

// NewPurchaseRequestHandler creates a new PurchaseRequestHandler
func NewPurchaseRequestHandler(requestService *purchasingapp.PurchaseRequestService) *PurchaseRequestHandler {
	return &PurchaseRequestHandler{requestService: requestService}
}

// List returns purchase requests
func (h *PurchaseRequestHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter purchasingapp.PurchaseRequestListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := h.requestService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	f := filter.Filter()
	h.SuccessWithMeta(c, items, total, f.Page, f.PageSize)
}

// GetByID returns one purchase request with its items
func (h *PurchaseRequestHandler) GetByID(c *gin.Context) {
	h.withID(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.requestService.GetByID(c.Request.Context(), tenantID, id)
	})
}

// Create drafts a purchase request for the caller
func (h *PurchaseRequestHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req purchasingapp.CreatePurchaseRequestRequest
	if !h.bindJSON(c, &req) {
		return
	}
	userID, _ := getUserID(c)
	item, err := h.requestService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// Update changes a draft purchase request
func (h *PurchaseRequestHandler) Update(c *gin.Context) {
	var req purchasingapp.UpdatePurchaseRequestRequest
	h.withIDAndBody(c, &req, func(tenantID, id uuid.UUID) (any, error) {
		return h.requestService.Update(c.Request.Context(), tenantID, id, req)
	})
}

// Submit sends a draft for approval
func (h *PurchaseRequestHandler) Submit(c *gin.Context) {
	h.withID(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.requestService.Submit(c.Request.Context(), tenantID, id)
	})
}

// Approve approves a submitted request as the caller
func (h *PurchaseRequestHandler) Approve(c *gin.Context) {
	h.withID(c, func(tenantID, id uuid.UUID) (any, error) {
		userID, _ := getUserID(c)
		return h.requestService.Approve(c.Request.Context(), tenantID, id, userID)
	})
}

// Reject rejects a submitted request. The reason is mandatory.
func (h *PurchaseRequestHandler) Reject(c *gin.Context) {
	var req purchasingapp.RejectPurchaseRequestRequest
	h.withIDAndBody(c, &req, func(tenantID, id uuid.UUID) (any, error) {
		userID, _ := getUserID(c)
		return h.requestService.Reject(c.Request.Context(), tenantID, id, userID, req)
	})
}

// Reopen moves a rejected request back to draft
func (h *PurchaseRequestHandler) Reopen(c *gin.Context) {
	h.withID(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.requestService.Reopen(c.Request.Context(), tenantID, id)
	})
}

// Convert turns an approved request into a draft purchase order
func (h *PurchaseRequestHandler) Convert(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req purchasingapp.ConvertPurchaseRequestRequest
	if !h.bindJSON(c, &req) {
		return
	}
	userID, _ := getUserID(c)
	order, err := h.requestService.Convert(c.Request.Context(), tenantID, id, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// Delete removes a draft or rejected request
func (h *PurchaseRequestHandler) Delete(c *gin.Context) {
	h.withID(c, func(tenantID, id uuid.UUID) (any, error) {
		if err := h.requestService.Delete(c.Request.Context(), tenantID, id); err != nil {
			return nil, err
		}
		return gin.H{"id": id, "deleted": true}, nil
	})
}

// PurchaseOrderHandler handles purchase order endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	orderService *purchasingapp.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(orderService *purchasingapp.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{orderService: orderService}
}

// List returns purchase orders
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter purchasingapp.PurchaseOrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := h.orderService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	f := filter.Filter()
	h.SuccessWithMeta(c, items, total, f.Page, f.PageSize)
}

// GetByID returns one purchase order with its items
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
	h.withID(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.orderService.GetByID(c.Request.Context(), tenantID, id)
	})
}

// Create drafts a purchase order
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req purchasingapp.CreatePurchaseOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	userID, _ := getUserID(c)
	order, err := h.orderService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// Update changes a draft purchase order
func (h *PurchaseOrderHandler) Update(c *gin.Context) {
	var req purchasingapp.UpdatePurchaseOrderRequest
	h.withIDAndBody(c, &req, func(tenantID, id uuid.UUID) (any, error) {
		return h.orderService.Update(c.Request.Context(), tenantID, id, req)
	})
}

// Send marks a draft as sent to the supplier
func (h *PurchaseOrderHandler) Send(c *gin.Context) {
	h.withID(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.orderService.Send(c.Request.Context(), tenantID, id)
	})
}

// Confirm records the supplier's confirmation
func (h *PurchaseOrderHandler) Confirm(c *gin.Context) {
	h.withID(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.orderService.Confirm(c.Request.Context(), tenantID, id)
	})
}

// Receive books received quantities
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	var req purchasingapp.ReceivePurchaseOrderRequest
	h.withIDAndBody(c, &req, func(tenantID, id uuid.UUID) (any, error) {
		return h.orderService.Receive(c.Request.Context(), tenantID, id, req)
	})
}

// Cancel cancels an order that has not been received
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	var req purchasingapp.CancelPurchaseOrderRequest
	h.withIDAndBody(c, &req, func(tenantID, id uuid.UUID) (any, error) {
		return h.orderService.Cancel(c.Request.Context(), tenantID, id, req)
	})
}

// Delete removes a draft or cancelled order
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
	h.withID(c, func(tenantID, id uuid.UUID) (any, error) {
		if err := h.orderService.Delete(c.Request.Context(), tenantID, id); err != nil {
			return nil, err
		}
		return gin.H{"id": id, "deleted": true}, nil
	})
}
