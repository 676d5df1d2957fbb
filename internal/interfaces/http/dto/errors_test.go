package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusBadRequest},
		{ErrCodeInvalidState, http.StatusBadRequest},
		{ErrCodeConcurrencyConflict, http.StatusConflict},
		{ErrCodeLocked, http.StatusConflict},
		{ErrCodeServiceUnavailable, http.StatusServiceUnavailable},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input  string
		status int
	}{
		{shared.CodeNotFound, http.StatusNotFound},
		{shared.CodeAlreadyExists, http.StatusBadRequest},
		{shared.CodeInvalidInput, http.StatusBadRequest},
		{shared.CodeInvalidState, http.StatusBadRequest},
		{shared.CodeConcurrency, http.StatusConflict},
		{shared.CodeUnauthorized, http.StatusUnauthorized},
		{shared.CodeForbidden, http.StatusForbidden},
		{shared.CodeLockNotObtained, http.StatusConflict},
		{shared.CodeServiceUnavailable, http.StatusServiceUnavailable},
		{"PASSWORD_HASH_ERROR", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.status, GetHTTPStatus(NormalizeErrorCode(tt.input)))
		})
	}
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]int{1, 2}, 41, 2, 20)
	require.NotNil(t, resp.Meta)
	assert.True(t, resp.Success)
	assert.Equal(t, 3, resp.Meta.TotalPages)

	empty := NewSuccessResponseWithMeta([]int{}, 0, 1, 20)
	assert.Equal(t, 0, empty.Meta.TotalPages)
}

func TestErrorResponse_JSON(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-1", []ValidationDetail{
		{Field: "code", Message: "This field is required"},
	})
	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, false, decoded["success"])
	errObj := decoded["error"].(map[string]any)
	assert.Equal(t, ErrCodeValidation, errObj["code"])
	assert.Equal(t, "req-1", errObj["request_id"])
	assert.Len(t, errObj["details"], 1)
	assert.NotContains(t, decoded, "data")
}
