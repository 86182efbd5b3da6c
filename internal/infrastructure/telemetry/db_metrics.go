package telemetry

import (
	"context"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBMetricsConfig holds configuration for database metrics collection.
type DBMetricsConfig struct {
	Enabled bool
	// SlowQueryThreshold defines the threshold for slow query detection (default: 200ms).
	SlowQueryThreshold time.Duration
	// DBName labels the connection pool collector.
	DBName string
}

// DefaultDBMetricsConfig returns default configuration for database metrics.
func DefaultDBMetricsConfig() DBMetricsConfig {
	return DBMetricsConfig{
		Enabled:            true,
		SlowQueryThreshold: 200 * time.Millisecond,
		DBName:             "isp",
	}
}

// DBMetrics holds the query collectors.
type DBMetrics struct {
	queryTotal     *prometheus.CounterVec   // db_query_total
	queryDuration  *prometheus.HistogramVec // db_query_duration_seconds
	slowQueryTotal *prometheus.CounterVec   // db_slow_query_total

	config DBMetricsConfig
	logger *zap.Logger
}

// NewDBMetrics creates the query collectors and registers them on reg.
func NewDBMetrics(reg prometheus.Registerer, cfg DBMetricsConfig, logger *zap.Logger) (*DBMetrics, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SlowQueryThreshold == 0 {
		cfg.SlowQueryThreshold = 200 * time.Millisecond
	}

	m := &DBMetrics{
		queryTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "db_query_total",
			Help:      "Database queries by operation.",
		}, []string{"operation", "outcome"}),
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "db_query_duration_seconds",
			Help:      "Database query latency in seconds.",
			Buckets:   DBDurationBuckets,
		}, []string{"operation"}),
		slowQueryTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "db_slow_query_total",
			Help:      "Queries slower than the configured threshold, by table.",
		}, []string{"table"}),
		config: cfg,
		logger: logger,
	}

	for _, c := range []prometheus.Collector{m.queryTotal, m.queryDuration, m.slowQueryTotal} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RecordQuery records metrics for a database query.
func (m *DBMetrics) RecordQuery(operation string, table string, duration time.Duration, err error) {
	operation = strings.ToUpper(operation)
	if operation == "" {
		operation = "UNKNOWN"
	}

	outcome := "ok"
	if err != nil && err != gorm.ErrRecordNotFound {
		outcome = "error"
	}
	m.queryTotal.WithLabelValues(operation, outcome).Inc()
	m.queryDuration.WithLabelValues(operation).Observe(duration.Seconds())

	if duration > m.config.SlowQueryThreshold {
		if table == "" {
			table = "unknown"
		}
		m.slowQueryTotal.WithLabelValues(table).Inc()
		m.logger.Debug("Slow query",
			zap.String("operation", operation),
			zap.String("table", table),
			zap.Duration("elapsed", duration))
	}
}

// DBMetricsPlugin is a GORM plugin that collects query metrics.
type DBMetricsPlugin struct {
	metrics *DBMetrics
	logger  *zap.Logger
}

// NewDBMetricsPlugin creates a new GORM plugin for database metrics.
func NewDBMetricsPlugin(metrics *DBMetrics, logger *zap.Logger) *DBMetricsPlugin {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DBMetricsPlugin{metrics: metrics, logger: logger}
}

// Name returns the plugin name.
func (p *DBMetricsPlugin) Name() string {
	return "db_metrics"
}

// Initialize registers the GORM callbacks for metrics collection.
func (p *DBMetricsPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()

	if err := cb.Create().Before("gorm:create").Register("db_metrics:before_create", markStart); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("db_metrics:before_query", markStart); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("db_metrics:before_update", markStart); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("db_metrics:before_delete", markStart); err != nil {
		return err
	}
	if err := cb.Row().Before("gorm:row").Register("db_metrics:before_row", markStart); err != nil {
		return err
	}
	if err := cb.Raw().Before("gorm:raw").Register("db_metrics:before_raw", markStart); err != nil {
		return err
	}

	detect := func(db *gorm.DB) {
		p.recordMetrics(db, detectOperationType(db.Statement.SQL.String()))
	}

	if err := cb.Create().After("gorm:create").Register("db_metrics:after_create", p.fixed("INSERT")); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("db_metrics:after_query", p.fixed("SELECT")); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("db_metrics:after_update", p.fixed("UPDATE")); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("db_metrics:after_delete", p.fixed("DELETE")); err != nil {
		return err
	}
	if err := cb.Row().After("gorm:row").Register("db_metrics:after_row", detect); err != nil {
		return err
	}
	if err := cb.Raw().After("gorm:raw").Register("db_metrics:after_raw", detect); err != nil {
		return err
	}

	p.logger.Info("Database metrics plugin initialized")
	return nil
}

func (p *DBMetricsPlugin) fixed(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) { p.recordMetrics(db, operation) }
}

func markStart(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		ctx = context.Background()
	}
	db.Statement.Context = context.WithValue(ctx, dbMetricsStartTimeKey, time.Now())
}

func (p *DBMetricsPlugin) recordMetrics(db *gorm.DB, operation string) {
	var duration time.Duration
	if ctx := db.Statement.Context; ctx != nil {
		if start, ok := ctx.Value(dbMetricsStartTimeKey).(time.Time); ok {
			duration = time.Since(start)
		}
	}
	p.metrics.RecordQuery(operation, db.Statement.Table, duration, db.Error)
}

// detectOperationType attempts to detect the SQL operation type from the query.
func detectOperationType(sql string) string {
	sql = strings.TrimSpace(strings.ToUpper(sql))

	switch {
	case strings.HasPrefix(sql, "SELECT"):
		return "SELECT"
	case strings.HasPrefix(sql, "INSERT"):
		return "INSERT"
	case strings.HasPrefix(sql, "UPDATE"):
		return "UPDATE"
	case strings.HasPrefix(sql, "DELETE"):
		return "DELETE"
	default:
		return "OTHER"
	}
}

type dbMetricsContextKey string

const dbMetricsStartTimeKey dbMetricsContextKey = "db_metrics_start_time"

// RegisterDBMetrics installs the query plugin on db and a pool stats
// collector on the registry. It returns nil when disabled.
func RegisterDBMetrics(db *gorm.DB, metrics *Metrics, cfg DBMetricsConfig, logger *zap.Logger) (*DBMetrics, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Enabled || metrics == nil {
		logger.Debug("Database metrics disabled, skipping registration")
		return nil, nil
	}

	dbMetrics, err := NewDBMetrics(metrics.Registry(), cfg, logger)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	name := cfg.DBName
	if name == "" {
		name = "isp"
	}
	if err := metrics.Registry().Register(collectors.NewDBStatsCollector(sqlDB, name)); err != nil {
		return nil, err
	}

	if err := db.Use(NewDBMetricsPlugin(dbMetrics, logger)); err != nil {
		return nil, err
	}

	logger.Info("Database metrics registered",
		zap.Duration("slow_query_threshold", cfg.SlowQueryThreshold))
	return dbMetrics, nil
}
