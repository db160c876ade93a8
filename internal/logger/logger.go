// Package logger provides a structured logging wrapper using zap.
package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// L is the global logger instance
	L    *zap.Logger
	once sync.Once
)

// Init initializes the global logger.
// Debug mode logs at DEBUG with colored console output, otherwise JSON at INFO.
func Init(debug bool) {
	once.Do(func() {
		L = build(debug)
	})
}

func build(debug bool) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if debug {
		config := zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.DisableStacktrace = true
		logger, err = config.Build()
	} else {
		config := zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		logger, err = config.Build()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// Sync flushes any buffered log entries.
func Sync() {
	if L != nil {
		_ = L.Sync()
	}
}

// Default returns the global logger, initializing it from SONGBOOK_ENV when needed.
func Default() *zap.Logger {
	if L == nil {
		Init(os.Getenv("SONGBOOK_ENV") != "production")
	}
	return L
}

// Named returns a child logger scoped to a component.
func Named(component string) *zap.Logger {
	return Default().Named(component)
}

// With creates a child logger with additional fields.
func With(fields ...zap.Field) *zap.Logger {
	return Default().With(fields...)
}

// Debug logs a debug message.
func Debug(msg string, fields ...zap.Field) {
	Default().Debug(msg, fields...)
}

// Info logs an info message.
func Info(msg string, fields ...zap.Field) {
	Default().Info(msg, fields...)
}

// Warn logs a warning message.
func Warn(msg string, fields ...zap.Field) {
	Default().Warn(msg, fields...)
}

// Error logs an error message.
func Error(msg string, fields ...zap.Field) {
	Default().Error(msg, fields...)
}

// Fatal logs a fatal message and exits.
func Fatal(msg string, fields ...zap.Field) {
	Default().Fatal(msg, fields...)
}
