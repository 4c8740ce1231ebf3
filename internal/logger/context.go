package logger

import (
	"context"
	"time"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

// logContextKey is the key for LogContext in context.Context
var logContextKey = contextKey{}

// LogContext holds request-scoped logging context for a single registry
// operation (register, post, cancel, ...).
type LogContext struct {
	TraceID   string    // correlation id supplied by the front-end, if any
	Operation string    // register_plain, post, cancel, cancel_session, ...
	Name      string    // name key the operation targets, if applicable
	ClientID  uint32    // client id the operation targets, if applicable
	Session   string    // opaque session handle, if applicable
	UID       uint32    // caller uid supplied by the front-end
	GID       uint32    // caller gid supplied by the front-end
	StartTime time.Time // for duration calculation
}

// WithContext returns a new context with the given LogContext
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext retrieves the LogContext from context, or nil if not present
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// NewLogContext creates a new LogContext for the given operation.
func NewLogContext(operation string) *LogContext {
	return &LogContext{
		Operation: operation,
		StartTime: time.Now(),
	}
}

// Clone creates a copy of the LogContext
func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	clone := *lc
	return &clone
}

// WithName returns a copy with the name set
func (lc *LogContext) WithName(name string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Name = name
	}
	return clone
}

// WithClientID returns a copy with the client id set
func (lc *LogContext) WithClientID(clientID uint32) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.ClientID = clientID
	}
	return clone
}

// WithCaller returns a copy with the caller uid/gid set
func (lc *LogContext) WithCaller(uid, gid uint32) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.UID = uid
		clone.GID = gid
	}
	return clone
}

// DurationMs returns the duration since StartTime in milliseconds
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return float64(time.Since(lc.StartTime).Microseconds()) / 1000.0
}
