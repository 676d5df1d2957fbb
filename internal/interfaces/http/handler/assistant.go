package handler

import (
	"github.com/erp/logistics/internal/application/assistant"
	"github.com/gin-gonic/gin"
)

// AssistantHandler proxies chat messages to the language model
type AssistantHandler struct {
	BaseHandler
	assistantService *assistant.Service
}

// NewAssistantHandler creates a new AssistantHandler
func NewAssistantHandler(assistantService *assistant.Service) *AssistantHandler {
	return &AssistantHandler{assistantService: assistantService}
}

// Chat answers one message given the earlier turns
func (h *AssistantHandler) Chat(c *gin.Context) {
	var req assistant.ChatRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.assistantService.Chat(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
