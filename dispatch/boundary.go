package dispatch

import (
	"unicode/utf8"

	"go.uber.org/zap"
)

// MaxMessageBytes caps the message carried across the boundary. Failure
// reports are one diagnostic line, not a transport for arbitrary payloads.
const MaxMessageBytes = 1024

// marker prefixes every converted failure so the guest side can tell a
// handler crash from an ordinary operational error.
const marker = "internal error in host function"

// HostError is the guest-visible form of a native handler failure.
type HostError struct {
	Message string
}

func (e *HostError) Error() string {
	return e.Message
}

// Is reports whether target matches this error type
func (e *HostError) Is(target error) bool {
	_, ok := target.(*HostError)
	return ok
}

// Internal builds a host error with the standard marker, for failures
// detected by the machinery itself rather than raised by a handler.
func Internal(detail string) *HostError {
	if detail == "" {
		return &HostError{Message: marker}
	}
	return &HostError{Message: truncate(marker + ": " + detail)}
}

// Guard runs fn and converts any panic into a *HostError, so a handler
// failure reaches the caller as an ordinary error instead of unwinding
// into the engine. Errors returned by fn pass through unchanged.
func Guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			herr := fromPanic(r)
			Logger().Error("recovered panic in host function",
				zap.String("message", herr.Message))
			err = herr
		}
	}()
	return fn()
}

// fromPanic maps a panic payload to the guest-visible error. Strings and
// errors carry their text; any other payload is reported as the bare
// marker rather than risking an unprintable value in the message.
func fromPanic(r any) *HostError {
	switch v := r.(type) {
	case *HostError:
		// Already converted at an inner boundary.
		return v
	case string:
		return Internal(v)
	case error:
		return Internal(v.Error())
	default:
		return &HostError{Message: marker}
	}
}

// truncate caps s at MaxMessageBytes without splitting a UTF-8 sequence.
func truncate(s string) string {
	if len(s) <= MaxMessageBytes {
		return s
	}
	cut := MaxMessageBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
