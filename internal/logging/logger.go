package logging

import (
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger   *zap.Logger
	loggerMu sync.RWMutex
)

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "RUE_LOG_LEVEL"

// Initialize creates a new logger with the specified level.
// If level is empty, it checks RUE_LOG_LEVEL environment variable.
// If neither is set, logging is disabled (silent mode).
func Initialize(level string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	if level == "" {
		SetLogger(zap.NewNop())
		return nil
	}

	zapLevel, err := parseLevel(level)
	if err != nil {
		return err
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	built, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	SetLogger(built)
	return nil
}

func parseLevel(level string) (zapcore.Level, error) {
	switch level {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", level)
	}
}

// SetLogger replaces the global logger. Tests use it to install an observer core.
func SetLogger(l *zap.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = l
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	loggerMu.RLock()
	l := logger
	loggerMu.RUnlock()
	if l == nil {
		// Silent until initialized so CLI output stays clean
		return zap.NewNop()
	}
	return l
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// LogDiscovery logs the result of a discovery pass
func LogDiscovery(method string, found int, elapsed time.Duration, err error) {
	fields := []zap.Field{
		zap.String("method", method),
		zap.Int("found", found),
		zap.Duration("elapsed", elapsed),
	}
	if err != nil {
		Warn("Discovery failed", append(fields, zap.Error(err))...)
		return
	}
	Info("Discovery finished", fields...)
}

// LogRound logs a pairing round transition
func LogRound(runID string, round, total int, event string) {
	Debug("Pairing round",
		zap.String("run_id", runID),
		zap.Int("round", round),
		zap.Int("total", total),
		zap.String("event", event),
	)
}

// LogAttempt logs the outcome of one authorization attempt.
// Non-credential outcomes are expected while the link button is unpressed,
// so they go out at debug level.
func LogAttempt(runID string, round int, address, outcome string, elapsed time.Duration, err error) {
	fields := []zap.Field{
		zap.String("run_id", runID),
		zap.Int("round", round),
		zap.String("bridge", address),
		zap.String("outcome", outcome),
		zap.Duration("elapsed", elapsed),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
		Debug("Authorization attempt", fields...)
		return
	}
	Info("Authorization attempt", fields...)
}

// Sync flushes any buffered log entries
func Sync() {
	_ = GetLogger().Sync()
}
