// Package bridge implements the cross-boundary asynchronous correlation
// engine.
//
// A Platform represents one logical connection to a foreign-runtime
// endpoint. Platform.SendRequest issues a fire-and-forget foreign
// invocation, then suspends on a single-use completion channel keyed by a
// fresh response handle. The foreign runtime later delivers a success or
// error completion through the Dispatcher, which resolves the owning
// Platform in the Registry and unblocks the waiting caller.
//
//	b := bridge.New()
//	p := b.NewPlatform(transport)
//
//	// native caller, any goroutine:
//	response, err := p.SendRequest(ctx, connectionID, request)
//
//	// inbound boundary glue, any thread:
//	b.Dispatcher().Success(response, platformHandle, responseHandle)
//	b.Dispatcher().Error(code, platformHandle, responseHandle)
//
// Callers and completions run on independent threads; all shared state is
// mutex-guarded, and no lock is held across the suspension point, so new
// requests never deadlock against in-flight completions.
//
// The engine imposes no timeout: a request whose completion never arrives
// waits until its context is cancelled. Cancellation removes the pending
// entry, and a completion arriving for an abandoned handle is logged and
// dropped.
package bridge
