package logger

import (
	"log/slog"
)

// Standard field keys for structured logging.
//
// Use these keys consistently across registry, dispatch, and admin-surface
// log statements so that log aggregation and querying stay consistent.
const (
	// Correlation

	KeyTraceID = "trace_id" // front-end supplied correlation id

	// Operation

	KeyOperation = "op"          // register_plain, post, cancel, cancel_session, ...
	KeyStatus    = "status"      // registry.Status code returned
	KeyDuration  = "duration_ms" // operation latency

	// Name-space identity

	KeyName      = "name"       // name key
	KeyClientID  = "client_id"  // opaque 32-bit client id
	KeySession   = "session"    // opaque session handle
	KeyUID       = "uid"        // caller uid
	KeyGID       = "gid"        // caller gid
	KeyVal       = "val"        // name's change counter
	KeyRefcount  = "refcount"   // name's subscriber refcount
	KeyNextID    = "next_id"    // id allocator high-water mark
	KeyFreeCount = "free_count" // id allocator free-list length

	// Transport / delivery

	KeyTransport = "transport" // signal, descriptor, port, plain, memory-slot
	KeyPid       = "pid"       // signal transport target
	KeySignal    = "signal"    // signal number
	KeyToken     = "token"     // descriptor/port wire token
	KeyFD        = "fd"        // descriptor transport file descriptor

	// Errors

	KeyError = "error"
)

// TraceID returns a slog.Attr for the correlation id field.
func TraceID(id string) slog.Attr {
	return slog.String(KeyTraceID, id)
}

// Operation returns a slog.Attr for the registry operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Status returns a slog.Attr for a registry status code.
func Status(code int) slog.Attr {
	return slog.Int(KeyStatus, code)
}

// Name returns a slog.Attr for a registry name key.
func Name(name string) slog.Attr {
	return slog.String(KeyName, name)
}

// ClientID returns a slog.Attr for an opaque client id.
func ClientID(id uint32) slog.Attr {
	return slog.Uint64(KeyClientID, uint64(id))
}

// Session returns a slog.Attr for an opaque session handle.
func Session(s string) slog.Attr {
	return slog.String(KeySession, s)
}

// UID returns a slog.Attr for a caller uid.
func UID(uid uint32) slog.Attr {
	return slog.Uint64(KeyUID, uint64(uid))
}

// GID returns a slog.Attr for a caller gid.
func GID(gid uint32) slog.Attr {
	return slog.Uint64(KeyGID, uint64(gid))
}

// Val returns a slog.Attr for a name's change counter.
func Val(val uint32) slog.Attr {
	return slog.Uint64(KeyVal, uint64(val))
}

// Refcount returns a slog.Attr for a name's subscriber refcount.
func Refcount(n int) slog.Attr {
	return slog.Int(KeyRefcount, n)
}

// Transport returns a slog.Attr for a delivery transport kind.
func Transport(kind string) slog.Attr {
	return slog.String(KeyTransport, kind)
}

// Pid returns a slog.Attr for a signal transport's target pid.
func Pid(pid int32) slog.Attr {
	return slog.Int(KeyPid, int(pid))
}

// Token returns a slog.Attr for a descriptor/port wire token.
func Token(token uint32) slog.Attr {
	return slog.Uint64(KeyToken, uint64(token))
}

// DurationMs returns a slog.Attr for an operation's latency in milliseconds.
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDuration, ms)
}

// Err returns a slog.Attr for an error, or a zero Attr if err is nil.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Attempt returns a slog.Attr for a retry attempt counter.
func Attempt(n int) slog.Attr {
	return slog.Int("attempt", n)
}
