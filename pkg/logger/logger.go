// Package logger defines the structured logging interface used across the mrsa
// toolkit. Concrete implementations live in internal/infrastructure/monitoring;
// library code defaults to NewNoopLogger.
package logger

import "context"

// Fields is a set of key-value pairs attached to a log entry
type Fields map[string]interface{}

// Logger defines the interface for structured logging
type Logger interface {
	// Debug logs a debug message
	Debug(ctx context.Context, msg string, fields ...Fields)

	// Info logs an informational message
	Info(ctx context.Context, msg string, fields ...Fields)

	// Warn logs a warning message
	Warn(ctx context.Context, msg string, fields ...Fields)

	// Error logs an error message
	Error(ctx context.Context, msg string, err error, fields ...Fields)

	// Fatal logs a fatal message and exits the application
	Fatal(ctx context.Context, msg string, err error, fields ...Fields)

	// WithFields creates a new logger with additional fields
	WithFields(fields Fields) Logger

	// ForContext returns a request-scoped logger stored in ctx, or the receiver
	ForContext(ctx context.Context) Logger
}

// sensitiveKeys are field names whose values must never reach log output.
var sensitiveKeys = map[string]struct{}{
	"d":                {},
	"p":                {},
	"q":                {},
	"lambda":           {},
	"private_exponent": {},
	"private_key":      {},
	"plaintext":        {},
}

// IsSensitive reports whether values logged under key must be redacted.
func IsSensitive(key string) bool {
	_, ok := sensitiveKeys[key]
	return ok
}

// Redacted is the placeholder written in place of sensitive values.
const Redacted = "***REDACTED***"
