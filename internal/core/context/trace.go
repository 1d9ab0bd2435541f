// Package context carries per-request identity through call chains so log
// lines and import audit records can be tied back to the HTTP request that
// produced them.
package context

import (
	"context"

	"stockbook/internal/core/id"
)

// Trace identifies one request. TraceID follows the request across services
// when the caller supplies one; RequestID is minted locally per request.
type Trace struct {
	TraceID   string
	RequestID string
}

type traceKey struct{}

// WithTrace attaches request identity to the context.
func WithTrace(ctx context.Context, t Trace) context.Context {
	return context.WithValue(ctx, traceKey{}, t)
}

// TraceFrom returns the request identity and whether one was attached.
func TraceFrom(ctx context.Context) (Trace, bool) {
	t, ok := ctx.Value(traceKey{}).(Trace)
	return t, ok
}

// NewTrace mints a trace with fresh time-ordered IDs.
func NewTrace() Trace {
	return Trace{
		TraceID:   id.New().String(),
		RequestID: id.New().String(),
	}
}
