package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/isp/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// HealthCheck checks one dependency
type HealthCheck func(ctx context.Context) error

type namedCheck struct {
	name     string
	check    HealthCheck
	critical bool
}

// HealthHandler serves /health
type HealthHandler struct {
	checks  []namedCheck
	timeout time.Duration
	now     func() time.Time
}

// NewHealthHandler creates a HealthHandler with no checks registered
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{timeout: 2 * time.Second, now: time.Now}
}

// AddCheck registers a check. A failing critical check makes the service
// unhealthy; any other failure only shows up as "degraded".
func (h *HealthHandler) AddCheck(name string, check HealthCheck, critical bool) *HealthHandler {
	h.checks = append(h.checks, namedCheck{name: name, check: check, critical: critical})
	return h
}

// Health runs every check
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	status := "healthy"
	code := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for _, nc := range h.checks {
		if err := nc.check(ctx); err != nil {
			logger.GetGinLogger(c).Warn("Health check failed", zap.String("check", nc.name), zap.Error(err))
			results[nc.name] = "error"
			if nc.critical {
				status = "unhealthy"
				code = http.StatusServiceUnavailable
			} else if status == "healthy" {
				status = "degraded"
			}
			continue
		}
		results[nc.name] = "ok"
	}

	c.JSON(code, gin.H{
		"status": status,
		"time":   h.now().Format(time.RFC3339),
		"checks": results,
	})
}
