package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across comex.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity and context
	FieldClientID  = "client_id"
	FieldRequestID = "request_id"

	// Components
	FieldComponent = "component"
	FieldChannel   = "channel"
	FieldOwner     = "owner"

	// Operations
	FieldOperation = "operation"
	FieldPath      = "path"
	FieldKey       = "key"
	FieldValue     = "value"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldCount         = "count"
	FieldCommentCount  = "comment_count"
	FieldSplitCount    = "split_count"
	FieldEdgeCount     = "edge_count"
	FieldListenerCount = "listener_count"

	// Graph
	FieldCommentID = "comment_id"
	FieldSplit     = "split"
	FieldWidth     = "width"
	FieldHeight    = "height"
	FieldScale     = "scale"
	FieldMode      = "mode"

	// Network
	FieldAddress = "address"
)

type contextKey string

const (
	requestIDKey contextKey = "logger_request_id"
	componentKey contextKey = "logger_component"
)

// WithRequestID adds a request ID to the context for logging
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithComponent adds a component name to the context for logging
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// FieldsFromContext extracts logging fields from context.
// Returns key-value pairs suitable for use with Infow/Errorw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}

	if requestID, ok := ctx.Value(requestIDKey).(string); ok && requestID != "" {
		fields = append(fields, FieldRequestID, requestID)
	}
	if component, ok := ctx.Value(componentKey).(string); ok && component != "" {
		fields = append(fields, FieldComponent, component)
	}

	return fields
}

// LoggerFromContext returns a logger with fields extracted from context.
func LoggerFromContext(ctx context.Context) *zap.SugaredLogger {
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return Logger
	}
	return Logger.With(fields...)
}

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	ctrl := interaction.New(bus, c, logger.ComponentLogger("interaction"))
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
//
// Example:
//
//	clientLogger := logger.ChildLogger(baseLogger, logger.FieldClientID, id)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
