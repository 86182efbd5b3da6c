package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGorm(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), recorded
}

func TestNewGormLogger_Options(t *testing.T) {
	gl, _ := newObservedGorm(gormlogger.Info,
		WithSlowThreshold(time.Second),
		WithNotFoundLogged())

	assert.Equal(t, gormlogger.Info, gl.level)
	assert.Equal(t, time.Second, gl.slowSQL)
	assert.True(t, gl.notFound)

	defaults, _ := newObservedGorm(gormlogger.Warn)
	assert.Equal(t, 200*time.Millisecond, defaults.slowSQL)
	assert.False(t, defaults.notFound)

	var _ gormlogger.Interface = gl
}

func TestGormLogger_LogModeCopies(t *testing.T) {
	gl, _ := newObservedGorm(gormlogger.Info)

	changed, ok := gl.LogMode(gormlogger.Error).(*GormLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Error, changed.level)
	assert.Equal(t, gormlogger.Info, gl.level)
}

func TestGormLogger_Messages(t *testing.T) {
	gl, recorded := newObservedGorm(gormlogger.Warn)
	ctx := context.Background()

	gl.Info(ctx, "migrated %d tables", 4)
	gl.Warn(ctx, "pole %s near capacity", "P-001")
	gl.Error(ctx, "constraint violated")

	entries := recorded.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "pole P-001 near capacity", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}

func TestGormLogger_Trace(t *testing.T) {
	fc := func() (string, int64) { return "UPDATE postes SET disponibles = disponibles - 1", 1 }

	tests := []struct {
		name    string
		level   gormlogger.LogLevel
		opts    []GormLoggerOption
		begin   time.Time
		err     error
		wantMsg string
	}{
		{"error is logged", gormlogger.Error, nil, time.Now(), errors.New("deadlock"), "sql statement failed"},
		{"not found ignored", gormlogger.Error, nil, time.Now(), gormlogger.ErrRecordNotFound, ""},
		{"not found ignored even when slow", gormlogger.Warn,
			[]GormLoggerOption{WithSlowThreshold(time.Millisecond)}, time.Now().Add(-time.Second), gormlogger.ErrRecordNotFound, ""},
		{"not found logged when configured", gormlogger.Error,
			[]GormLoggerOption{WithNotFoundLogged()}, time.Now(), gormlogger.ErrRecordNotFound, "sql statement failed"},
		{"slow statement", gormlogger.Warn,
			[]GormLoggerOption{WithSlowThreshold(time.Millisecond)}, time.Now().Add(-time.Second), nil, "slow sql statement"},
		{"slow logging off", gormlogger.Warn,
			[]GormLoggerOption{WithSlowThreshold(0)}, time.Now().Add(-time.Second), nil, ""},
		{"slow statement hidden at error", gormlogger.Error,
			[]GormLoggerOption{WithSlowThreshold(time.Millisecond)}, time.Now().Add(-time.Second), nil, ""},
		{"plain statement at info", gormlogger.Info, nil, time.Now(), nil, "sql statement"},
		{"plain statement hidden at warn", gormlogger.Warn, nil, time.Now(), nil, ""},
		{"silent", gormlogger.Silent, nil, time.Now(), errors.New("x"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gl, recorded := newObservedGorm(tt.level, tt.opts...)
			gl.Trace(context.Background(), tt.begin, fc, tt.err)

			if tt.wantMsg == "" {
				assert.Zero(t, recorded.Len())
				return
			}
			require.Equal(t, 1, recorded.Len())
			entry := recorded.All()[0]
			assert.Equal(t, tt.wantMsg, entry.Message)
			assert.Equal(t, int64(1), entry.ContextMap()["rows"])
		})
	}
}

func TestGormLogger_TraceCarriesRequestContext(t *testing.T) {
	gl, recorded := newObservedGorm(gormlogger.Info)
	ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-42")
	ctx, _ = WithPrincipal(ctx, zap.NewNop(), "tecnico")

	gl.Trace(ctx, time.Now(), func() (string, int64) { return "SELECT 1", -1 }, nil)

	require.Equal(t, 1, recorded.Len())
	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, "req-42", fields["request_id"])
	assert.Equal(t, "tecnico", fields["user"])
	assert.NotContains(t, fields, "rows", "unknown row counts are omitted")
	assert.NotContains(t, fields, "trace_id")
}

func TestMapGormLogLevel(t *testing.T) {
	tests := map[string]gormlogger.LogLevel{
		"silent":  gormlogger.Silent,
		"error":   gormlogger.Error,
		"warn":    gormlogger.Warn,
		"info":    gormlogger.Warn,
		"debug":   gormlogger.Info,
		"unknown": gormlogger.Warn,
		"":        gormlogger.Warn,
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, MapGormLogLevel(in))
		})
	}
}
