package logger

import (
	"go.opentelemetry.io/contrib/bridges/otelzap"
	otellog "go.opentelemetry.io/otel/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// WithOTel returns a logger that writes every entry at or above level both
// to base and to the OpenTelemetry log provider under the given scope name.
func WithOTel(base *zap.Logger, name string, provider otellog.LoggerProvider, level zapcore.Level) *zap.Logger {
	if provider == nil {
		return base
	}
	bridge := &minLevelCore{
		Core: otelzap.NewCore(name, otelzap.WithLoggerProvider(provider)),
		min:  level,
	}
	return base.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, bridge)
	}))
}

// minLevelCore drops entries below min. zapcore.NewIncreaseLevelCore cannot
// be used here: it refuses cores that report themselves disabled, which the
// bridge does whenever the provider is a no-op.
type minLevelCore struct {
	zapcore.Core
	min zapcore.Level
}

func (c *minLevelCore) Enabled(lvl zapcore.Level) bool {
	return lvl >= c.min && c.Core.Enabled(lvl)
}

func (c *minLevelCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if entry.Level < c.min {
		return ce
	}
	return c.Core.Check(entry, ce)
}

func (c *minLevelCore) With(fields []zapcore.Field) zapcore.Core {
	return &minLevelCore{Core: c.Core.With(fields), min: c.min}
}
