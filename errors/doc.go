// Package errors provides structured error types for the remote-bridge library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type carries the platform and response handles
// involved, a human-readable detail, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseSend, errors.KindInvocation).
//		Platform(ph).
//		Response(rh).
//		Cause(inner).
//		Detail("transport rejected request").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.AwaitFailed(ph, rh)
//	err := errors.BadPlatformHandle(ph)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
