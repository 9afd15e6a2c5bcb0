package logger

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var global atomic.Pointer[zap.Logger]

type ctxKey struct{}

// Init builds the process logger. Production writes JSON at info, everything else
// writes colored console output at debug. A non-empty level overrides either default.
func Init(environment, level, service string) error {
	var cfg zap.Config
	if environment == "production" {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return fmt.Errorf("LOG_LEVEL: %w", err)
		}
		cfg.Level = lvl
	}

	l, err := cfg.Build(zap.Fields(zap.String("service", service), zap.String("env", environment)))
	if err != nil {
		return err
	}
	global.Store(l)
	return nil
}

// Get returns the process logger, a development logger until Init runs
func Get() *zap.Logger {
	if l := global.Load(); l != nil {
		return l
	}
	l, _ := zap.NewDevelopment()
	global.CompareAndSwap(nil, l)
	return global.Load()
}

// SetLogger swaps the process logger; tests pair it with zaptest/observer
func SetLogger(l *zap.Logger) {
	global.Store(l)
}

func ContextWithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, correlationID)
}

func CorrelationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// WithContext tags the logger with the request's correlation_id when one is present
func WithContext(ctx context.Context) *zap.Logger {
	l := Get()
	if id := CorrelationIDFromContext(ctx); id != "" {
		return l.With(zap.String("correlation_id", id))
	}
	return l
}

func Debug(msg string, fields ...zap.Field) { Get().Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field) { Get().Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field) { Get().Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { Get().Error(msg, fields...) }

// Fatal logs and exits the process
func Fatal(msg string, fields ...zap.Field) { Get().Fatal(msg, fields...) }

// Sync flushes buffered entries; call it once before exit
func Sync() error {
	if l := global.Load(); l != nil {
		return l.Sync()
	}
	return nil
}
