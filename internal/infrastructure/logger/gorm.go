package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

const defaultSlowSQL = 200 * time.Millisecond

// GormLogger sends GORM output to zap. Failed statements log at error,
// statements over the slow threshold at warn, and everything else at debug
// once the level is gormlogger.Info. Each line carries the request id, user
// and trace id found on the statement context.
type GormLogger struct {
	logger   *zap.Logger
	level    gormlogger.LogLevel
	slowSQL  time.Duration
	notFound bool
}

// GormLoggerOption configures a GormLogger
type GormLoggerOption func(*GormLogger)

// WithSlowThreshold sets the duration above which a statement is slow.
// Zero turns slow statement logging off.
func WithSlowThreshold(threshold time.Duration) GormLoggerOption {
	return func(l *GormLogger) {
		l.slowSQL = threshold
	}
}

// WithNotFoundLogged also reports gorm.ErrRecordNotFound as a failure. Lookups
// of unknown customers and poles are routine, so it is off by default.
func WithNotFoundLogged() GormLoggerOption {
	return func(l *GormLogger) {
		l.notFound = true
	}
}

// NewGormLogger returns a GORM logger writing to base under the name "gorm"
func NewGormLogger(base *zap.Logger, level gormlogger.LogLevel, opts ...GormLoggerOption) *GormLogger {
	l := &GormLogger{
		logger:  base.Named("gorm"),
		level:   level,
		slowSQL: defaultSlowSQL,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cp := *l
	cp.level = level
	return &cp
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		l.logger.Info(fmt.Sprintf(msg, data...), statementFields(ctx)...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		l.logger.Warn(fmt.Sprintf(msg, data...), statementFields(ctx)...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		l.logger.Error(fmt.Sprintf(msg, data...), statementFields(ctx)...)
	}
}

// Trace is called by GORM after every statement
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)

	failed := err != nil && (l.notFound || !errors.Is(err, gormlogger.ErrRecordNotFound))
	slow := l.slowSQL > 0 && elapsed > l.slowSQL

	var (
		msg string
		lvl gormlogger.LogLevel
	)
	switch {
	case failed:
		msg, lvl = "sql statement failed", gormlogger.Error
	case err != nil:
		// not found and not wanted
		return
	case slow:
		msg, lvl = "slow sql statement", gormlogger.Warn
	default:
		msg, lvl = "sql statement", gormlogger.Info
	}
	if l.level < lvl {
		return
	}

	sql, rows := fc()
	fields := append(statementFields(ctx),
		zap.String("sql", sql),
		zap.Duration("elapsed", elapsed),
	)
	// GORM reports -1 when the driver cannot tell
	if rows >= 0 {
		fields = append(fields, zap.Int64("rows", rows))
	}

	switch lvl {
	case gormlogger.Error:
		l.logger.Error(msg, append(fields, zap.Error(err))...)
	case gormlogger.Warn:
		l.logger.Warn(msg, append(fields, zap.Duration("threshold", l.slowSQL))...)
	default:
		l.logger.Debug(msg, fields...)
	}
}

func statementFields(ctx context.Context) []zap.Field {
	var fields []zap.Field
	if id := GetRequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if user := GetPrincipal(ctx); user != "" {
		fields = append(fields, zap.String("user", user))
	}
	if traceID := GetTraceID(ctx); traceID != "" {
		fields = append(fields, zap.String("trace_id", traceID))
	}
	return fields
}

// MapGormLogLevel maps the application log level to a GORM level. Only debug
// traces every statement.
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
