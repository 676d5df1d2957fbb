package handler

import (
	"strings"
	"time"

	financeapp "github.com/erp/logistics/internal/application/finance"
	"github.com/erp/logistics/internal/infrastructure/export"
	"github.com/erp/logistics/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// IdempotencyKeyHeader lets clients retry a payment without applying it twice
const IdempotencyKeyHeader = middleware.IdempotencyKeyHeader

const maxIdempotencyKeyLength = 128

// idempotencyKey reads the retry key of a payment request
func (h *BaseHandler) idempotencyKey(c *gin.Context) (string, bool) {
	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	if len(key) > maxIdempotencyKeyLength {
		h.BadRequest(c, "Idempotency-Key must be at most 128 characters")
		return "", false
	}
	return key, true
}

// PayableHandler handles accounts payable endpoints
type PayableHandler struct {
	BaseHandler
	payableService *financeapp.PayableService
}

// NewPayableHandler creates a new PayableHandler
func NewPayableHandler(payableService *financeapp.PayableService) *PayableHandler {
	return &PayableHandler{payableService: payableService}
}

// List returns payables
func (h *PayableHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter financeapp.LedgerListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := h.payableService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	f := filter.Filter()
	h.SuccessWithMeta(c, items, total, f.Page, f.PageSize)
}

// Summary returns totals per payment status and the overdue part
func (h *PayableHandler) Summary(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	summary, err := h.payableService.Summary(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Export downloads the filtered payables as xlsx
func (h *PayableHandler) Export(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter financeapp.LedgerListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	data, err := h.payableService.Export(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.sendFile(c, export.Filename("payables", time.Now()), export.ContentType, data)
}

// GetByID returns one payable with its payments
func (h *PayableHandler) GetByID(c *gin.Context) {
	h.withID(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.payableService.GetByID(c.Request.Context(), tenantID, id)
	})
}

// Create opens a payable, from a purchase order or manually
func (h *PayableHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req financeapp.CreatePayableRequest
	if !h.bindJSON(c, &req) {
		return
	}
	userID, _ := getUserID(c)
	ap, err := h.payableService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ap)
}

// Update reschedules an open payable
func (h *PayableHandler) Update(c *gin.Context) {
	var req financeapp.UpdateLedgerRequest
	h.withIDAndBody(c, &req, func(tenantID, id uuid.UUID) (any, error) {
		return h.payableService.Update(c.Request.Context(), tenantID, id, req)
	})
}

// Cancel cancels a payable without payments
func (h *PayableHandler) Cancel(c *gin.Context) {
	var req financeapp.CancelLedgerRequest
	h.withIDAndBody(c, &req, func(tenantID, id uuid.UUID) (any, error) {
		return h.payableService.Cancel(c.Request.Context(), tenantID, id, req)
	})
}

// Pay posts a payment. The amount may not exceed the remaining amount.
func (h *PayableHandler) Pay(c *gin.Context) {
	key, ok := h.idempotencyKey(c)
	if !ok {
		return
	}
	var req financeapp.PaymentRequest
	h.withIDAndBody(c, &req, func(tenantID, id uuid.UUID) (any, error) {
		req.IdempotencyKey = key
		userID, _ := getUserID(c)
		return h.payableService.Pay(c.Request.Context(), tenantID, id, userID, req)
	})
}

// ReceivableHandler handles accounts receivable endpoints
type ReceivableHandler struct {
	BaseHandler
	receivableService *financeapp.ReceivableService
}

// NewReceivableHandler creates a new ReceivableHandler
func NewReceivableHandler(receivableService *financeapp.ReceivableService) *ReceivableHandler {
	return &ReceivableHandler{receivableService: receivableService}
}

// List returns receivables
func (h *ReceivableHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter financeapp.LedgerListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := h.receivableService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	f := filter.Filter()
	h.SuccessWithMeta(c, items, total, f.Page, f.PageSize)
}

// Summary returns totals per payment status and the overdue part
func (h *ReceivableHandler) Summary(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	summary, err := h.receivableService.Summary(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Export downloads the filtered receivables as xlsx
func (h *ReceivableHandler) Export(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter financeapp.LedgerListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	data, err := h.receivableService.Export(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.sendFile(c, export.Filename("receivables", time.Now()), export.ContentType, data)
}

// GetByID returns one receivable with its receipts
func (h *ReceivableHandler) GetByID(c *gin.Context) {
	h.withID(c, func(tenantID, id uuid.UUID) (any, error) {
		return h.receivableService.GetByID(c.Request.Context(), tenantID, id)
	})
}

// Create opens a receivable, from a sales order or manually
func (h *ReceivableHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req financeapp.CreateReceivableRequest
	if !h.bindJSON(c, &req) {
		return
	}
	userID, _ := getUserID(c)
	ar, err := h.receivableService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ar)
}

// Update reschedules an open receivable
func (h *ReceivableHandler) Update(c *gin.Context) {
	var req financeapp.UpdateLedgerRequest
	h.withIDAndBody(c, &req, func(tenantID, id uuid.UUID) (any, error) {
		return h.receivableService.Update(c.Request.Context(), tenantID, id, req)
	})
}

// Cancel cancels a receivable without receipts
func (h *ReceivableHandler) Cancel(c *gin.Context) {
	var req financeapp.CancelLedgerRequest
	h.withIDAndBody(c, &req, func(tenantID, id uuid.UUID) (any, error) {
		return h.receivableService.Cancel(c.Request.Context(), tenantID, id, req)
	})
}

// Collect posts a receipt. The amount may not exceed the remaining amount.
func (h *ReceivableHandler) Collect(c *gin.Context) {
	key, ok := h.idempotencyKey(c)
	if !ok {
		return
	}
	var req financeapp.PaymentRequest
	h.withIDAndBody(c, &req, func(tenantID, id uuid.UUID) (any, error) {
		req.IdempotencyKey = key
		userID, _ := getUserID(c)
		return h.receivableService.Collect(c.Request.Context(), tenantID, id, userID, req)
	})
}
