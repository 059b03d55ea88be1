package logging

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type requestIDKey struct{}

var (
	baseMu sync.RWMutex
	base   = zap.NewNop()
)

// New builds a zap logger for the given environment and level.
// Production uses JSON output; everything else uses the console encoder.
func New(environment, level string) (*zap.Logger, error) {
	var cfg zap.Config
	if environment == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	return cfg.Build()
}

// SetBase replaces the process logger used by NewLogger.
func SetBase(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	baseMu.Lock()
	base = l
	baseMu.Unlock()
}

// Base returns the process logger.
func Base() *zap.Logger {
	baseMu.RLock()
	defer baseMu.RUnlock()
	return base
}

// WithRequestID stores a request id in ctx.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, rid)
}

// RequestID extracts the request id from ctx, or "".
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok {
		return rid
	}
	return ""
}

// Logger provides operation-scoped logging with the request id attached.
type Logger struct {
	l *zap.SugaredLogger
}

// NewLogger creates a logger bound to the request in ctx.
func NewLogger(ctx context.Context) *Logger {
	requestID := RequestID(ctx)
	if requestID == "" {
		requestID = "unknown"
	}
	return &Logger{l: Base().Sugar().With("request_id", requestID)}
}

// With returns a logger carrying extra key/value pairs.
func (l *Logger) With(kv ...interface{}) *Logger {
	return &Logger{l: l.l.With(kv...)}
}

func (l *Logger) LogError(operation string, err error) {
	l.l.Errorw(operation, "operation", operation, "error", err)
}

func (l *Logger) LogErrorf(operation string, format string, args ...interface{}) {
	l.l.Errorw(fmt.Sprintf(format, args...), "operation", operation)
}

func (l *Logger) LogInfo(operation string, message string) {
	l.l.Infow(message, "operation", operation)
}

func (l *Logger) LogInfof(operation string, format string, args ...interface{}) {
	l.l.Infow(fmt.Sprintf(format, args...), "operation", operation)
}

func (l *Logger) LogWarn(operation string, message string) {
	l.l.Warnw(message, "operation", operation)
}

func (l *Logger) LogWarnf(operation string, format string, args ...interface{}) {
	l.l.Warnw(fmt.Sprintf(format, args...), "operation", operation)
}

func (l *Logger) LogDebugf(operation string, format string, args ...interface{}) {
	l.l.Debugw(fmt.Sprintf(format, args...), "operation", operation)
}
