package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/isp/backend/internal/infrastructure/auth"
	"github.com/isp/backend/internal/infrastructure/config"
	"github.com/isp/backend/internal/infrastructure/telemetry"
	"github.com/isp/backend/internal/interfaces/http/dto"
	"github.com/isp/backend/internal/interfaces/http/handler"
	"github.com/isp/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func newJWT() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Enabled:               true,
		Secret:                "router-test-secret-at-least-32-chars",
		Issuer:                "isp-test",
		AccessTokenExpiration: time.Hour,
	})
}

func TestNewEngine_OperationalEndpoints(t *testing.T) {
	metrics := telemetry.NewMetrics()
	engine, err := NewEngine(EngineConfig{Metrics: metrics})
	require.NoError(t, err)

	w := serve(engine, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))

	var health map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health["status"])

	w = serve(engine, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "isp_http_requests_total")
	assert.Contains(t, w.Body.String(), `route="/health"`)
}

func TestNewEngine_UnknownRoute(t *testing.T) {
	engine, err := NewEngine(EngineConfig{})
	require.NoError(t, err)

	w := serve(engine, http.MethodGet, "/api/v1/nada")
	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, dto.ErrCodeRouteMissing, resp.Error.Code)
	assert.Equal(t, w.Header().Get(middleware.RequestIDHeader), resp.Error.RequestID)
}

func TestNewEngine_Tracing(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	engine, err := NewEngine(EngineConfig{Tracer: tp, ServiceName: "isp-test"})
	require.NoError(t, err)

	serve(engine, http.MethodGet, "/health")
	assert.Empty(t, sr.Ended(), "health checks are not traced")

	serve(engine, http.MethodGet, "/api/v1/nada")
	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, trace.SpanKindServer, spans[0].SpanKind())
}

func TestNewEngine_UnhealthyDatabase(t *testing.T) {
	health := handler.NewHealthHandler().
		AddCheck("database", func(_ context.Context) error { return errors.New("down") }, true)
	engine, err := NewEngine(EngineConfig{Health: health})
	require.NoError(t, err)

	w := serve(engine, http.MethodGet, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"error"`)
}

func TestNewEngine_JWT(t *testing.T) {
	jwtService := newJWT()
	engine, err := NewEngine(EngineConfig{JWT: jwtService})
	require.NoError(t, err)

	t.Run("api requires a token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve(engine, http.MethodGet, "/api/v1/barrios").Code)
	})

	t.Run("health stays public", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/health").Code)
	})

	t.Run("capacity actions need the operator role", func(t *testing.T) {
		token, err := jwtService.GenerateAccessToken(uuid.New(), "tecnico1", middleware.RoleTechnician)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/postes/"+uuid.NewString()+"/reservar", nil)
		req.Header.Set("Authorization", "Bearer "+token.AccessToken)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestNewEngine_RateLimit(t *testing.T) {
	limiter := middleware.NewRateLimiter(1, time.Minute, 1)
	t.Cleanup(limiter.Close)

	engine, err := NewEngine(EngineConfig{Limiter: limiter})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/health").Code)
	w := serve(engine, http.MethodGet, "/health")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}
