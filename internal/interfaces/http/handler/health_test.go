package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/isp/backend/internal/interfaces/http/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name   string
		health *handler.HealthHandler
		code   int
		status string
	}{
		{"all up", handler.NewHealthHandler().AddCheck("database", ok, true).AddCheck("redis", ok, false), http.StatusOK, "healthy"},
		{"cache down", handler.NewHealthHandler().AddCheck("database", ok, true).AddCheck("redis", down, false), http.StatusOK, "degraded"},
		{"database down", handler.NewHealthHandler().AddCheck("database", down, true).AddCheck("redis", down, false), http.StatusServiceUnavailable, "unhealthy"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			engine := gin.New()
			engine.GET("/health", tc.health.Health)
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tc.code, w.Code)
			var body struct {
				Status string            `json:"status"`
				Checks map[string]string `json:"checks"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.status, body.Status)
			assert.Len(t, body.Checks, 2)
		})
	}
}
