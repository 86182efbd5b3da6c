package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{"INVALID_INPUT", http.StatusBadRequest},
		{"VALIDATION_ERROR", http.StatusBadRequest},
		{"INVALID_BOUNDARY", http.StatusBadRequest},
		{"FLOOR_REQUIRED", http.StatusBadRequest},
		{"NOT_FOUND", http.StatusNotFound},
		{"NO_COVERAGE", http.StatusNotFound},
		{"ALREADY_EXISTS", http.StatusConflict},
		{"CONCURRENT_MODIFICATION", http.StatusConflict},
		{"IN_USE", http.StatusConflict},
		{"OPTIMISTIC_LOCK_FAILED", http.StatusConflict},
		{"INVALID_STATE", http.StatusUnprocessableEntity},
		{"UNAUTHORIZED", http.StatusUnauthorized},
		{"RATE_LIMIT_EXCEEDED", http.StatusTooManyRequests},
		{"INTERNAL_ERROR", http.StatusInternalServerError},
		{"DB_EXPLODED", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]int{1, 2}, 41, 2, 20)

	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 3, resp.Meta.TotalPages)
	assert.Equal(t, 2, resp.Meta.Page)

	empty := NewSuccessResponseWithMeta(nil, 0, 0, 0)
	assert.Equal(t, 1, empty.Meta.Page)
	assert.Zero(t, empty.Meta.TotalPages)
}

func TestErrorEnvelopeJSON(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-1", []ValidationDetail{
		{Field: "lat", Message: "Must be a latitude between -90 and 90"},
	})

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, false, decoded["success"])
	assert.NotContains(t, decoded, "data")

	errBody := decoded["error"].(map[string]any)
	assert.Equal(t, "VALIDATION_ERROR", errBody["code"])
	assert.Equal(t, "req-1", errBody["request_id"])
	details := errBody["details"].([]any)
	require.Len(t, details, 1)
	assert.Equal(t, "lat", details[0].(map[string]any)["field"])
}

func TestNewErrorResponse_OmitsRequestID(t *testing.T) {
	raw, err := json.Marshal(NewErrorResponse("NOT_FOUND", "Cliente no encontrado"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "request_id")
}
