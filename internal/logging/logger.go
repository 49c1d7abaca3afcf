package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "PROMODECK_LOG_LEVEL"

// LogFileEnvVar redirects log output to a file. The interactive page owns
// the terminal, so logs must go elsewhere while it runs.
const LogFileEnvVar = "PROMODECK_LOG_FILE"

// Initialize installs the package logger at level ("debug", "info", "warn"
// or "error"). An empty level falls back to PROMODECK_LOG_LEVEL, and when
// that is empty too logging stays silent.
func Initialize(level string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}
	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q (want debug, info, warn or error)", level)
	}

	l, err := newConfig(lvl, os.Getenv(LogFileEnvVar)).Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = l
	return nil
}

// newConfig builds a console config writing to path, or stdout when path is
// empty. Colour level names are only used on the terminal.
func newConfig(level zapcore.Level, path string) zap.Config {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeCaller = zapcore.ShortCallerEncoder
	enc.EncodeLevel = zapcore.CapitalColorLevelEncoder

	output := "stdout"
	if path != "" {
		output = path
		enc.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	return zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         "console",
		EncoderConfig:    enc,
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
	}
}

// InitializeFromEnv initializes the logger from the PROMODECK_LOG_LEVEL
// environment variable. This is the recommended way to initialize logging
// for CLI commands that want silent mode by default.
func InitializeFromEnv() error {
	return Initialize("")
}

// SetLogger replaces the global logger. Tests use it with zaptest/observer.
func SetLogger(l *zap.Logger) {
	logger = l
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		// Fallback to silent logger if not initialized
		// This ensures no unexpected log output in CLI commands
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

// LogTransition logs an unlock state change for a promo code
func LogTransition(codeID int, from, to string) {
	Info("Unlock state changed",
		zap.Int("code_id", codeID),
		zap.String("from", from),
		zap.String("to", to),
	)
}

// LogIgnoredRequest logs an unlock request that arrived outside the locked state
func LogIgnoredRequest(codeID int, state string) {
	Debug("Unlock request ignored",
		zap.Int("code_id", codeID),
		zap.String("state", state),
	)
}

// LogGateInvocation logs a call to the disclosure gate.
// Failures are warnings: they never block the reveal.
func LogGateInvocation(codeID int, outcome string, err error) {
	if err != nil {
		Warn("Disclosure gate failed, revealing anyway",
			zap.Int("code_id", codeID),
			zap.String("outcome", outcome),
			zap.Error(err),
		)
		return
	}
	Info("Disclosure gate invoked",
		zap.Int("code_id", codeID),
		zap.String("outcome", outcome),
	)
}

// LogConnection logs a connection event
func LogConnection(remoteAddr string, event string) {
	Info("Connection event",
		zap.String("remote_addr", remoteAddr),
		zap.String("event", event),
	)
}

// LogHTTPRequest logs an HTTP request
func LogHTTPRequest(remoteAddr string, method string, path string, status int) {
	Info("HTTP request",
		zap.String("remote_addr", remoteAddr),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status_code", status),
	)
}

// LogWebSocketMessage logs a WebSocket frame at debug level. Text frames
// carry JSON and are logged up to maxLoggedBytes.
func LogWebSocketMessage(remoteAddr string, direction string, messageType int, data []byte) {
	Debug("WebSocket message",
		zap.String("remote_addr", remoteAddr),
		zap.String("direction", direction),
		zap.String("message_type", wsMessageTypeName(messageType)),
		zap.Int("length", len(data)),
		zap.String("content", truncate(data)),
	)
}

const maxLoggedBytes = 256

// wsMessageTypeName names the RFC 6455 opcodes gorilla reports
func wsMessageTypeName(msgType int) string {
	switch msgType {
	case 1:
		return "text"
	case 2:
		return "binary"
	case 8:
		return "close"
	case 9:
		return "ping"
	case 10:
		return "pong"
	default:
		return fmt.Sprintf("unknown(%d)", msgType)
	}
}

func truncate(data []byte) string {
	if len(data) > maxLoggedBytes {
		return string(data[:maxLoggedBytes]) + "..."
	}
	return string(data)
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
