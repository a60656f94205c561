package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "MOONCRESCENT_LOG_LEVEL"

// LogFileEnvVar overrides the log file location. The TUI owns stdout, so
// enabled logging always goes to a file, never to the terminal.
const LogFileEnvVar = "MOONCRESCENT_LOG_FILE"

const defaultLogFile = "mooncrescent.log"

// Initialize creates a new logger with the specified level.
// If level is empty, it checks MOONCRESCENT_LOG_LEVEL environment variable.
// If neither is set, logging is disabled (silent mode).
func Initialize(level string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	// If still no level, use silent mode (nop logger)
	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		// Unknown level - use info as default when explicitly set to something
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{logFilePath()},
		ErrorOutputPaths: []string{logFilePath()},
	}

	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	var err error
	logger, err = config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	return nil
}

// InitializeFromEnv initializes the logger from the MOONCRESCENT_LOG_LEVEL
// environment variable. This is the recommended way to initialize logging
// for commands that want silent mode by default.
func InitializeFromEnv() error {
	return Initialize("")
}

// logFilePath resolves the log destination: the env override if set,
// otherwise mooncrescent.log in the user cache dir, falling back to the
// working directory.
func logFilePath() string {
	if path := os.Getenv(LogFileEnvVar); path != "" {
		return path
	}
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return defaultLogFile
	}
	dir := filepath.Join(cacheDir, "mooncrescent")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return defaultLogFile
	}
	return filepath.Join(dir, defaultLogFile)
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		// Fallback to silent logger if not initialized
		logger = zap.NewNop()
	}
	return logger
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

// LogConnection logs a connection lifecycle event
func LogConnection(addr string, event string) {
	Info("Connection event",
		zap.String("addr", addr),
		zap.String("event", event),
	)
}

// LogInbound logs an inbound WebSocket payload at debug level
func LogInbound(addr string, data []byte) {
	Debug("WebSocket message received",
		zap.String("addr", addr),
		zap.Int("length", len(data)),
		zap.String("content", truncate(string(data), 512)),
	)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
