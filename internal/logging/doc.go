// Package logging provides structured logging for promodeck.
//
// This package wraps zap logger with convenience functions for common logging
// patterns used throughout the application. It provides both general logging
// functions and helpers for the unlock flow and the web surface.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Ignored unlock requests, WebSocket frames, gate fallback
//   - Info: State transitions, gate invocations, connections
//   - Warn: Gate failures (the reveal still happens)
//   - Error: Startup failures, listener errors
//
// # Silent by Default
//
// Logging is silent unless a level is passed to Initialize or the
// PROMODECK_LOG_LEVEL environment variable is set. The interactive page
// owns the terminal, so set PROMODECK_LOG_FILE as well when running it:
//
//	PROMODECK_LOG_LEVEL=debug PROMODECK_LOG_FILE=/tmp/promodeck.log promodeck
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.LogTransition(101, "locked", "checking")
//	logging.LogGateInvocation(101, "invoked", nil)
//	logging.LogConnection(remoteAddr, "websocket_upgraded")
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap logger
// handles synchronization automatically.
package logging
