package core

import "context"

// Context keys for execution options
type contextKey string

const (
	suppressHeaderKey contextKey = "suppressHeader"
	runIDKey          contextKey = "runID"
)

// WithSuppressHeader marks the context so that no run header is printed.
// The MCP server uses it because stdout carries the protocol.
func WithSuppressHeader(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressHeaderKey, true)
}

// shouldSuppressHeader returns whether headers should be suppressed from context
func shouldSuppressHeader(ctx context.Context) bool {
	val := ctx.Value(suppressHeaderKey)
	if val == nil {
		return false // default: show headers
	}
	suppress, ok := val.(bool)
	return ok && suppress
}

// withRunID stores the projection run being recorded.
func withRunID(ctx context.Context, runID int64) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// getRunID returns the projection run stored in the context, if any.
func getRunID(ctx context.Context) (int64, bool) {
	val := ctx.Value(runIDKey)
	if val == nil {
		return 0, false
	}
	id, ok := val.(int64)
	return id, ok && id > 0
}
