package errors

import (
	"fmt"
	"strings"

	guestmem "github.com/wippyai/guestmem"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseRegion   Phase = "region"   // carving targets out of memory
	PhaseBind     Phase = "bind"     // host module assembly and registration
	PhaseDispatch Phase = "dispatch" // per-call runtime operations
)

// Kind categorizes the error
type Kind string

const (
	KindOutOfBounds   Kind = "out_of_bounds"
	KindZeroSize      Kind = "zero_size"
	KindNoMemory      Kind = "no_memory"
	KindInvalidInput  Kind = "invalid_input"
	KindRegistration  Kind = "registration"
	KindInstantiation Kind = "instantiation"
	KindInternal      Kind = "internal"
)

// Error is the structured error type used throughout the library
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Addr   guestmem.Addr
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Addr != 0 {
		fmt.Fprintf(&b, " at %#x", uintptr(e.Addr))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Addr sets the identity address the error concerns
func (b *Builder) Addr(addr guestmem.Addr) *Builder {
	b.err.Addr = addr
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// OutOfBounds creates an out of bounds error for a memory range
func OutOfBounds(phase Phase, offset, size, limit uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("range [%d, %d) exceeds memory size %d", offset, uint64(offset)+uint64(size), limit),
		Value:  offset,
	}
}

// ZeroSize creates an error for a target with no extent
func ZeroSize(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindZeroSize,
		Detail: fmt.Sprintf("%s has zero size and no borrowable identity", what),
	}
}

// NoMemory creates an error for a module that exports no linear memory
func NoMemory(module string) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindNoMemory,
		Detail: fmt.Sprintf("module %q has no linear memory", module),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Registration creates a host function registration error
func Registration(module, name string, cause error) *Error {
	return &Error{
		Phase:  PhaseBind,
		Kind:   KindRegistration,
		Detail: fmt.Sprintf("register %s.%s", module, name),
		Cause:  cause,
	}
}

// Instantiation creates a host module instantiation error
func Instantiation(module string, cause error) *Error {
	return &Error{
		Phase:  PhaseBind,
		Kind:   KindInstantiation,
		Detail: fmt.Sprintf("instantiate module %q", module),
		Cause:  cause,
	}
}

// Internal creates an internal invariant violation error
func Internal(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInternal,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
