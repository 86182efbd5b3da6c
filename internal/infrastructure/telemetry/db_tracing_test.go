package telemetry

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedPole struct {
	ID        string `gorm:"primaryKey"`
	Code      string
	Available int
}

func openTracingDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedPole{}))
	return db
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()
	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.WithQueryVariables)
	assert.Equal(t, "postgresql", cfg.DBSystem)
}

func TestRegisterDBTracing(t *testing.T) {
	t.Run("disabled registers nothing", func(t *testing.T) {
		sr := tracetest.NewSpanRecorder()
		tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
		db := openTracingDB(t)

		require.NoError(t, RegisterDBTracing(db, DefaultDBTracingConfig(), tp, zap.NewNop()))
		require.NoError(t, db.Create(&tracedPole{ID: "p1", Code: "LP-001", Available: 1}).Error)
		assert.Empty(t, sr.Ended())
	})

	t.Run("statements become child spans without variables", func(t *testing.T) {
		sr := tracetest.NewSpanRecorder()
		tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
		t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
		db := openTracingDB(t)

		cfg := DefaultDBTracingConfig()
		cfg.Enabled = true
		require.NoError(t, RegisterDBTracing(db, cfg, tp, zap.NewNop()))

		ctx, parent := tp.Tracer("test").Start(context.Background(), "reserve")
		require.NoError(t, db.WithContext(ctx).Create(&tracedPole{ID: "p1", Code: "LP-001", Available: 1}).Error)
		res := db.WithContext(ctx).Exec(
			"UPDATE traced_poles SET available = available - 1 WHERE id = ? AND available > 0", "p1")
		require.NoError(t, res.Error)
		parent.End()

		var statements []string
		for _, span := range sr.Ended() {
			if span.Name() == "reserve" {
				continue
			}
			assert.Equal(t, parent.SpanContext().SpanID(), span.Parent().SpanID())
			for _, kv := range span.Attributes() {
				if kv.Key == attribute.Key("db.statement") {
					statements = append(statements, kv.Value.AsString())
				}
			}
		}
		require.Len(t, statements, 2)
		assert.Contains(t, statements[1], "UPDATE traced_poles")
		assert.NotContains(t, statements[1], "'p1'")
	})
}
