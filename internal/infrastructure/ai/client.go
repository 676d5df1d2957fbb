// Package ai talks to an OpenAI-compatible chat completions endpoint.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Roles accepted by the chat completions API
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var (
	// ErrNotConfigured is returned when no endpoint or key is set
	ErrNotConfigured = shared.NewDomainError(shared.CodeServiceUnavailable, "AI assistant is not configured")
	// ErrUpstream wraps transport failures and non-2xx replies
	ErrUpstream = shared.NewDomainError(shared.CodeServiceUnavailable, "AI assistant is unavailable")
)

// Message is one turn of the conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message      Message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Client calls POST {base_url}/chat/completions
type Client struct {
	cfg        config.AIConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client. An unconfigured client fails every call with ErrNotConfigured.
func NewClient(cfg config.AIConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// Configured reports whether calls can succeed
func (c *Client) Configured() bool {
	return c.cfg.Configured()
}

// Complete sends the conversation and returns the first choice's content.
// The configured system prompt is prepended when the conversation has none.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	if c.cfg.SystemPrompt != "" && (len(messages) == 0 || messages[0].Role != RoleSystem) {
		messages = append([]Message{{Role: RoleSystem, Content: c.cfg.SystemPrompt}}, messages...)
	}

	body, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("ai: failed to encode request: %w", err)
	}

	respBody, err := c.doRequest(ctx, body)
	if err != nil {
		return "", err
	}

	var resp chatResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("%w: malformed response: %v", ErrUpstream, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", ErrUpstream)
	}

	c.logger.Debug("AI completion",
		zap.String("model", c.cfg.Model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.String("finish_reason", resp.Choices[0].FinishReason))

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (c *Client) doRequest(ctx context.Context, body []byte) ([]byte, error) {
	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ai: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		c.logger.Warn("AI request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrUpstream, err)
	}

	if resp.StatusCode >= 400 {
		var errResp errorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error.Message != "" {
			c.logger.Warn("AI provider error",
				zap.Int("status", resp.StatusCode),
				zap.String("type", errResp.Error.Type),
				zap.String("message", errResp.Error.Message))
			return nil, fmt.Errorf("%w: %s", ErrUpstream, errResp.Error.Message)
		}
		return nil, fmt.Errorf("%w: HTTP %d", ErrUpstream, resp.StatusCode)
	}

	return respBody, nil
}
