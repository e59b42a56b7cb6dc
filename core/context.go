package core

import "context"

// Context keys for analysis options
type contextKey string

const (
	sourceKey contextKey = "source"
	runIDKey  contextKey = "runID"
)

// defaultSource names input that did not come from a file.
const defaultSource = "stdin"

// WithSource records the origin of the code being analyzed, usually a file path.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceKey, source)
}

// sourceFrom returns the origin of the code from context
func sourceFrom(ctx context.Context) string {
	val, ok := ctx.Value(sourceKey).(string)
	if !ok || val == "" {
		return defaultSource
	}
	return val
}

// WithRunID groups the analyses of one CLI invocation in the history.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// runIDFrom returns the run id from context, or "" when none is set
func runIDFrom(ctx context.Context) string {
	val, _ := ctx.Value(runIDKey).(string)
	return val
}
