package telemetry

import (
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database spans.
type DBTracingConfig struct {
	Enabled bool
	// DBSystem is the db.system attribute, "postgresql" unless overridden
	DBSystem string
	// WithQueryVariables includes bound parameters in db.statement. Leave it
	// off outside development: customer addresses end up in the spans.
	WithQueryVariables bool
}

// DefaultDBTracingConfig returns a disabled config that hides query variables
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{DBSystem: "postgresql"}
}

// RegisterDBTracing installs the otelgorm plugin so every GORM statement,
// including the reservation UPDATEs, becomes a child span of the request.
// A nil provider falls back to the global one.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, provider trace.TracerProvider, logger *zap.Logger) error {
	if !cfg.Enabled {
		logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}
	system := cfg.DBSystem
	if system == "" {
		system = "postgresql"
	}

	opts := []otelgorm.Option{
		otelgorm.WithDBName(system),
		// pool stats are already exported through Prometheus
		otelgorm.WithoutMetrics(),
	}
	if !cfg.WithQueryVariables {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if provider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(provider))
	}

	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return fmt.Errorf("register otelgorm plugin: %w", err)
	}
	logger.Info("Database tracing enabled",
		zap.String("db_system", system),
		zap.Bool("query_variables", cfg.WithQueryVariables),
	)
	return nil
}
