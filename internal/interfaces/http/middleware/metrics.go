package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HTTPObserver records finished requests
type HTTPObserver interface {
	ObserveHTTP(method, route string, status int, elapsed time.Duration)
	TrackInFlight() func()
}

// Metrics reports each request under its route template so ids in the path
// do not explode label cardinality. The metrics endpoint itself is skipped.
func Metrics(observer HTTPObserver, metricsPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == metricsPath {
			c.Next()
			return
		}
		done := observer.TrackInFlight()
		start := time.Now()

		c.Next()

		done()
		status := c.Writer.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observer.ObserveHTTP(c.Request.Method, c.FullPath(), status, time.Since(start))
	}
}
