package errors

import (
	"fmt"
	"strings"

	"github.com/wippyai/remote-bridge/handle"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseSend      Phase = "send"      // outbound send_request path
	PhaseDispatch  Phase = "dispatch"  // inbound completion dispatch
	PhaseTransport Phase = "transport" // transport internals
	PhaseLoad      Phase = "load"      // transport construction / module loading
)

// Kind categorizes the error
type Kind string

const (
	KindInvocation        Kind = "invocation"          // foreign invocation could not be issued
	KindAwaitFailed       Kind = "await_failed"        // completion channel closed without a value
	KindBadPlatformHandle Kind = "bad_platform_handle" // completion for an unregistered platform
	KindUnknownResponse   Kind = "unknown_response"    // completion for a response with no waiter
	KindInvalidInput      Kind = "invalid_input"
	KindNotFound          Kind = "not_found"
	KindClosed            Kind = "closed"
	KindMemory            Kind = "memory" // foreign memory access failed
	KindUnsupported       Kind = "unsupported"
)

// noHandle marks the Platform/Response fields as not applicable.
const noHandle = int64(-1)

// Error is the structured error type used throughout the library
type Error struct {
	Cause    error
	Phase    Phase
	Kind     Kind
	Platform int64 // platform handle, or -1 when not applicable
	Response int64 // response handle, or -1 when not applicable
	Detail   string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Platform != noHandle {
		fmt.Fprintf(&b, " platform=%d", e.Platform)
	}
	if e.Response != noHandle {
		fmt.Fprintf(&b, " response=%d", e.Response)
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
			Phase:    phase,
			Kind:     kind,
			Platform: noHandle,
			Response: noHandle,
		},
	}
}

// Platform sets the platform handle
func (b *Builder) Platform(h handle.Platform) *Builder {
	b.err.Platform = int64(h)
	return b
}

// Response sets the response handle
func (b *Builder) Response(h handle.Response) *Builder {
	b.err.Response = int64(h)
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

// Invocation creates an error for a foreign invocation that could not be issued.
// The caller never suspended; no completion will arrive.
func Invocation(platform handle.Platform, response handle.Response, cause error) *Error {
	return &Error{
		Phase:    PhaseSend,
		Kind:     KindInvocation,
		Platform: int64(platform),
		Response: int64(response),
		Detail:   "foreign invocation failed",
		Cause:    cause,
	}
}

// AwaitFailed creates an error for a completion channel that closed without
// delivering a value (the error-callback path).
func AwaitFailed(platform handle.Platform, response handle.Response) *Error {
	return &Error{
		Phase:    PhaseSend,
		Kind:     KindAwaitFailed,
		Platform: int64(platform),
		Response: int64(response),
		Detail:   "request completed with error",
	}
}

// BadPlatformHandle creates a boundary fault for a completion that names a
// platform this process never registered. Reported back to the foreign side,
// since no native caller exists to fail.
func BadPlatformHandle(platform handle.Platform) *Error {
	return &Error{
		Phase:    PhaseDispatch,
		Kind:     KindBadPlatformHandle,
		Platform: int64(platform),
		Response: noHandle,
		Detail:   "no platform registered for handle",
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindInvalidInput,
		Platform: noHandle,
		Response: noHandle,
		Detail:   detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindNotFound,
		Platform: noHandle,
		Response: noHandle,
		Detail:   fmt.Sprintf("%s %q not found", what, name),
	}
}

// Closed creates an error for use of a closed transport
func Closed(what string) *Error {
	return &Error{
		Phase:    PhaseTransport,
		Kind:     KindClosed,
		Platform: noHandle,
		Response: noHandle,
		Detail:   fmt.Sprintf("%s is closed", what),
	}
}

// Memory creates an error for a failed foreign memory access
func Memory(detail string, args ...any) *Error {
	return &Error{
		Phase:    PhaseTransport,
		Kind:     KindMemory,
		Platform: noHandle,
		Response: noHandle,
		Detail:   fmt.Sprintf(detail, args...),
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(what string) *Error {
	return &Error{
		Phase:    PhaseTransport,
		Kind:     KindUnsupported,
		Platform: noHandle,
		Response: noHandle,
		Detail:   what,
	}
}

// Load creates a transport loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:    PhaseLoad,
		Kind:     KindInvalidInput,
		Platform: noHandle,
		Response: noHandle,
		Detail:   detail,
		Cause:    cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     kind,
		Platform: noHandle,
		Response: noHandle,
		Detail:   detail,
		Cause:    cause,
	}
}
