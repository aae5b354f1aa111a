// Package logger provides structured logging utilities.
package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a wrapper around zap.Logger.
type Logger struct {
	*zap.Logger
}

// Config selects level and encoding for New.
type Config struct {
	Level string
	// Development switches to a colored console encoder with stack traces
	// on warnings.
	Development bool
	// Service is attached to every entry when set.
	Service string
}

// New builds a logger writing to stdout. Production loggers encode JSON with
// ISO8601 timestamps.
func New(cfg Config) (*Logger, error) {
	var zc zap.Config
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.TimeKey = "ts"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		zc.EncoderConfig.EncodeDuration = zapcore.SecondsDurationEncoder
		zc.Sampling = nil
	}
	zc.Level = zap.NewAtomicLevelAt(ParseLevel(cfg.Level))
	zc.OutputPaths = []string{"stdout"}
	zc.ErrorOutputPaths = []string{"stderr"}
	if cfg.Service != "" {
		zc.InitialFields = map[string]interface{}{"service": cfg.Service}
	}

	zl, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{Logger: zl}, nil
}

// Wrap adapts an existing zap logger, e.g. one from zaptest.
func Wrap(zl *zap.Logger) *Logger {
	return &Logger{Logger: zl}
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// With creates a child logger with additional fields.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{Logger: l.Logger.With(fields...)}
}

// WithRequest creates a child logger carrying request-scoped identifiers.
// Empty identifiers are left out.
func (l *Logger) WithRequest(correlationID, accountID, userID string) *Logger {
	fields := make([]zap.Field, 0, 3)
	for _, f := range []struct{ key, val string }{
		{"correlation_id", correlationID},
		{"account_id", accountID},
		{"user_id", userID},
	} {
		if f.val != "" {
			fields = append(fields, zap.String(f.key, f.val))
		}
	}
	return l.With(fields...)
}

// ParseLevel maps a level name to a zap level, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	var lvl zapcore.Level
	switch strings.ToLower(level) {
	case "warning":
		return zapcore.WarnLevel
	case "", "dpanic", "panic":
		return zapcore.InfoLevel
	}
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

var global = func() *Logger {
	l, err := New(Config{Development: os.Getenv("ENV") == "development"})
	if err != nil {
		return NewNop()
	}
	return l
}()

// Global returns the process-wide logger.
func Global() *Logger {
	return global
}

// SetGlobal replaces the process-wide logger.
func SetGlobal(l *Logger) {
	global = l
}
