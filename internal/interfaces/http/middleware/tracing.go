package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	// Provider is the tracer provider spans are created from; nil uses the
	// global provider
	Provider trace.TracerProvider
	// SkipPaths are not traced (health checks and scrapes)
	SkipPaths []string
}

// Tracing returns the otelgin server span middleware followed by a handler
// that tags the span with the request id and the authenticated user. 4xx
// answers are marked as errors. It must run after RequestID.
func Tracing(cfg TracingConfig) []gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}
	opts := []otelgin.Option{
		otelgin.WithFilter(func(r *http.Request) bool {
			_, skipped := skip[r.URL.Path]
			return !skipped
		}),
	}
	if cfg.Provider != nil {
		opts = append(opts, otelgin.WithTracerProvider(cfg.Provider))
	}
	return []gin.HandlerFunc{otelgin.Middleware(cfg.ServiceName, opts...), annotateSpan}
}

func annotateSpan(c *gin.Context) {
	span := trace.SpanFromContext(c.Request.Context())
	if !span.IsRecording() {
		c.Next()
		return
	}
	if id := GetRequestID(c); id != "" {
		span.SetAttributes(attribute.String("request_id", id))
	}

	c.Next()

	if user := GetPrincipal(c); user != "" {
		span.SetAttributes(attribute.String("enduser.id", user))
	}
	// otelgin only flags 5xx
	if status := c.Writer.Status(); status >= http.StatusBadRequest && status < http.StatusInternalServerError {
		span.SetStatus(codes.Error, http.StatusText(status))
	}
}
