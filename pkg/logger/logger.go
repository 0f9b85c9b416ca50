package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	Log *zap.Logger
)

// Config holds logger configuration
type Config struct {
	Level       string
	LogDir      string
	Environment string
}

func init() {
	// Safe default so library consumers that never call Initialize still get a logger
	Log = zap.NewNop()
}

// Initialize sets up the global logger
func Initialize(cfg Config) error {
	level := zapcore.InfoLevel
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return fmt.Errorf("invalid log level %s: %w", cfg.Level, err)
	}

	var encoder zapcore.Encoder
	if cfg.Environment == "development" {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.TimeKey = "timestamp"
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level),
	}

	// File output with rotation when a log directory is configured
	if cfg.LogDir != "" {
		if err := os.MkdirAll(cfg.LogDir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		rotated := &lumberjack.Logger{
			Filename:   filepath.Join(cfg.LogDir, "learn-client.log"),
			MaxSize:    20, // megabytes
			MaxBackups: 5,
			MaxAge:     14, // days
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(rotated), level))
	}

	Log = zap.New(
		zapcore.NewTee(cores...),
		zap.AddCallerSkip(1),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	return nil
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	Log.Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	Log.Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	Log.Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	Log.Error(msg, fields...)
}

// Fatal logs a fatal message and exits
func Fatal(msg string, fields ...zap.Field) {
	Log.Fatal(msg, fields...)
}

// With creates a child logger with additional fields
func With(fields ...zap.Field) *zap.Logger {
	return Log.With(fields...)
}

// Sync flushes any buffered log entries
func Sync() {
	_ = Log.Sync()
}

// LogAPICall logs a call against the LEARN backend
func LogAPICall(operation, status string, duration float64, fields ...zap.Field) {
	baseFields := []zap.Field{
		zap.String("operation", operation),
		zap.String("status", status),
		zap.Float64("duration", duration),
	}
	baseFields = append(baseFields, fields...)

	if status == "error" {
		Error("API call failed", baseFields...)
	} else {
		Info("API call", baseFields...)
	}
}
