package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/isp/backend/internal/infrastructure/auth"
	"github.com/isp/backend/internal/infrastructure/config"
	"github.com/isp/backend/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService(expiration time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Enabled:               true,
		Secret:                "test-secret-key-at-least-32-chars",
		Issuer:                "isp-test",
		AccessTokenExpiration: expiration,
	})
}

func newTestToken(t *testing.T, svc *auth.JWTService, roles ...string) string {
	t.Helper()
	token, err := svc.GenerateAccessToken(uuid.New(), "tecnico1", roles...)
	require.NoError(t, err)
	return token.AccessToken
}

func principalRouter(mw gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), mw)
	router.GET("/api/v1/clientes", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"principal": GetPrincipal(c),
			"logged":    logger.GetPrincipal(c.Request.Context()),
		})
	})
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func TestJWTAuthMiddleware(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	router := principalRouter(JWTAuthMiddleware(svc))

	tests := []struct {
		name     string
		path     string
		header   string
		wantCode int
		wantBody string
	}{
		{"valid token", "/api/v1/clientes", "Bearer " + newTestToken(t, svc), http.StatusOK, `"principal":"tecnico1"`},
		{"missing header", "/api/v1/clientes", "", http.StatusUnauthorized, `"code":"UNAUTHORIZED","message":"Missing authorization header"`},
		{"wrong scheme", "/api/v1/clientes", "Basic abc", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"empty token", "/api/v1/clientes", "Bearer ", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"garbage token", "/api/v1/clientes", "Bearer not.a.jwt", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"skip path", "/health", "", http.StatusOK, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set(AuthHeaderKey, tc.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tc.wantBody)
		})
	}
}

func TestJWTAuthMiddleware_PrincipalReachesLogger(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	router := principalRouter(JWTAuthMiddleware(svc))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/clientes", nil)
	req.Header.Set(AuthHeaderKey, "Bearer "+newTestToken(t, svc))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Contains(t, w.Body.String(), `"logged":"tecnico1"`)
}

func TestJWTAuthMiddleware_ExpiredToken(t *testing.T) {
	svc := newTestJWTService(time.Nanosecond)
	token := newTestToken(t, svc)
	time.Sleep(1100 * time.Millisecond)

	router := principalRouter(JWTAuthMiddleware(svc))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/clientes", nil)
	req.Header.Set(AuthHeaderKey, "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
}

func TestOptionalJWTAuthMiddleware(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	router := principalRouter(OptionalJWTAuthMiddleware(svc))

	t.Run("anonymous request passes", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/clientes", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"principal":""`)
	})

	t.Run("valid token sets the principal", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/clientes", nil)
		req.Header.Set(AuthHeaderKey, "Bearer "+newTestToken(t, svc))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Contains(t, w.Body.String(), `"principal":"tecnico1"`)
	})

	t.Run("invalid token is still rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/clientes", nil)
		req.Header.Set(AuthHeaderKey, "Bearer forged")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestGetJWTClaims_NotFound(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, GetJWTClaims(c))
	assert.Empty(t, GetPrincipal(c))
}
