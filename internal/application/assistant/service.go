// Package assistant forwards chat messages to the configured language model.
package assistant

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/infrastructure/ai"
	"github.com/erp/logistics/internal/infrastructure/logger"
	"github.com/erp/logistics/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

const (
	// maxHistory keeps the prompt bounded; older turns are dropped first
	maxHistory = 20
	// maxMessageLen counts characters, not bytes
	maxMessageLen = 4000
)

// Completer is the chat completion backend
type Completer interface {
	Configured() bool
	Complete(ctx context.Context, messages []ai.Message) (string, error)
}

// ChatTurn is one earlier message of the conversation. Turns that are not
// from the user or the assistant are ignored.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /ai/chat
type ChatRequest struct {
	Message string     `json:"message"`
	History []ChatTurn `json:"history"`
}

// ChatResponse carries the model's answer
type ChatResponse struct {
	Reply string `json:"reply"`
}

// Service proxies chat requests
type Service struct {
	client Completer
}

// NewService creates a new assistant service
func NewService(client Completer) *Service {
	return &Service{client: client}
}

// Chat sends the history and the new message and returns the reply.
// An empty message is invalid input; a missing or failing backend is
// reported as service unavailable.
func (s *Service) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "assistant", "Chat")
	defer span.End()

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, shared.NewValidationError("message is required")
	}
	if utf8.RuneCountInString(message) > maxMessageLen {
		return nil, shared.NewValidationError("message cannot exceed %d characters", maxMessageLen)
	}
	if s.client == nil || !s.client.Configured() {
		return nil, ai.ErrNotConfigured
	}

	reply, err := s.client.Complete(ctx, buildMessages(req.History, message))
	if err != nil {
		telemetry.RecordError(span, err)
		logger.L(ctx).Warn("assistant request failed", zap.Error(err))
		if shared.HasCode(err, shared.CodeServiceUnavailable) {
			return nil, err
		}
		return nil, ai.ErrUpstream
	}
	return &ChatResponse{Reply: reply}, nil
}

// buildMessages keeps the last turns of user and assistant messages.
// Client supplied system turns and blank turns are dropped, long turns are cut.
func buildMessages(history []ChatTurn, message string) []ai.Message {
	kept := make([]ai.Message, 0, len(history))
	for _, turn := range history {
		content := strings.TrimSpace(turn.Content)
		if content == "" {
			continue
		}
		switch turn.Role {
		case ai.RoleUser, ai.RoleAssistant:
			kept = append(kept, ai.Message{Role: turn.Role, Content: truncateRunes(content, maxMessageLen)})
		}
	}
	if len(kept) > maxHistory {
		kept = kept[len(kept)-maxHistory:]
	}
	return append(kept, ai.Message{Role: ai.RoleUser, Content: message})
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
