package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "request_id"
	principalKey contextKey = "principal"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext retrieves the logger from context, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID stores the request id and returns the enriched logger
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	enriched := logger.With(zap.String("request_id", requestID))
	return WithContext(ctx, enriched), enriched
}

// GetRequestID retrieves the request id from context
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithPrincipal stores the authenticated username and returns the enriched logger
func WithPrincipal(ctx context.Context, logger *zap.Logger, username string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, principalKey, username)
	enriched := logger.With(zap.String("user", username))
	return WithContext(ctx, enriched), enriched
}

// GetPrincipal retrieves the authenticated username, empty when anonymous
func GetPrincipal(ctx context.Context) string {
	name, _ := ctx.Value(principalKey).(string)
	return name
}

// GetTraceID returns the active trace id, empty when the context carries no
// valid span
func GetTraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}

// GetSpanID returns the active span id, empty without a valid span
func GetSpanID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasSpanID() {
		return ""
	}
	return sc.SpanID().String()
}

// WithTraceContext adds trace_id and span_id to the logger when ctx carries
// a valid span
func WithTraceContext(ctx context.Context, logger *zap.Logger) *zap.Logger {
	traceID := GetTraceID(ctx)
	if traceID == "" {
		return logger
	}
	return logger.With(
		zap.String("trace_id", traceID),
		zap.String("span_id", GetSpanID(ctx)),
	)
}
