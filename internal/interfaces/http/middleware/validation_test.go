package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/isp/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type coveragePayload struct {
	Lat    *float64 `json:"lat" binding:"required,latitude"`
	Lng    *float64 `json:"lng" binding:"required,longitude"`
	Radius float64  `json:"radio_metros" binding:"omitempty,gt=0,max=5000"`
	Email  string   `json:"email" binding:"omitempty,email"`
}

type nearbyQuery struct {
	Lat *float64 `form:"lat" binding:"required,latitude"`
	Lng *float64 `form:"lng" binding:"required,longitude"`
}

func validationRouter() *gin.Engine {
	SetupValidator()
	router := gin.New()
	router.Use(RequestID())
	router.POST("/cobertura", func(c *gin.Context) {
		var req coveragePayload
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})
	router.GET("/disponibles", func(c *gin.Context) {
		var q nearbyQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})
	return router
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) *dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error
}

func TestValidation_CoordinateRanges(t *testing.T) {
	router := validationRouter()

	tests := []struct {
		name      string
		body      string
		wantCode  int
		wantField string
	}{
		{"valid", `{"lat": -16.5, "lng": -68.1}`, http.StatusOK, ""},
		{"boundaries", `{"lat": 90, "lng": -180}`, http.StatusOK, ""},
		{"latitude too large", `{"lat": 91, "lng": 0}`, http.StatusBadRequest, "lat"},
		{"longitude too small", `{"lat": 0, "lng": -180.5}`, http.StatusBadRequest, "lng"},
		{"missing latitude", `{"lng": 0}`, http.StatusBadRequest, "lat"},
		{"zero radius ignored", `{"lat": 0, "lng": 0, "radio_metros": 0}`, http.StatusOK, ""},
		{"negative radius", `{"lat": 0, "lng": 0, "radio_metros": -1}`, http.StatusBadRequest, "radio_metros"},
		{"radius too large", `{"lat": 0, "lng": 0, "radio_metros": 5001}`, http.StatusBadRequest, "radio_metros"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/cobertura", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.wantCode, w.Code)
			if tc.wantField != "" {
				errInfo := decodeError(t, w)
				assert.Equal(t, dto.ErrCodeValidation, errInfo.Code)
				require.Len(t, errInfo.Details, 1)
				assert.Equal(t, tc.wantField, errInfo.Details[0].Field)
				assert.NotEmpty(t, errInfo.RequestID)
			}
		})
	}
}

func TestValidation_QueryBinding(t *testing.T) {
	router := validationRouter()

	tests := []struct {
		query    string
		wantCode int
	}{
		{"lat=-16.5&lng=-68.1", http.StatusOK},
		{"lat=-95&lng=-68.1", http.StatusBadRequest},
		{"lat=abc&lng=-68.1", http.StatusBadRequest},
		{"lng=-68.1", http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/disponibles?"+tc.query, nil))
			assert.Equal(t, tc.wantCode, w.Code)
		})
	}
}

func TestValidation_MalformedBodies(t *testing.T) {
	router := validationRouter()

	t.Run("syntax error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/cobertura", strings.NewReader(`{"lat": `))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("wrong type names the field", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/cobertura", strings.NewReader(`{"lat": "north", "lng": 0}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		errInfo := decodeError(t, w)
		require.Len(t, errInfo.Details, 1)
		assert.Equal(t, "lat", errInfo.Details[0].Field)
	})

	t.Run("email message", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/cobertura", strings.NewReader(`{"lat": 0, "lng": 0, "email": "nope"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		errInfo := decodeError(t, w)
		assert.Equal(t, "Invalid email format", errInfo.Details[0].Message)
	})
}
