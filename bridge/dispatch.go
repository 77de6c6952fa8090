package bridge

import (
	"github.com/wippyai/remote-bridge/errors"
	"github.com/wippyai/remote-bridge/handle"
)

// Dispatcher is the inbound half of the foreign boundary: the entry points
// the transport glue invokes when the foreign runtime delivers a
// completion. Each entry point routes a platform handle to its Platform
// through the Registry and delegates to that Platform's completion
// handling.
//
// Safe for concurrent use from any goroutine or foreign thread.
type Dispatcher struct {
	registry *Registry
}

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Success delivers a success completion carrying response bytes.
//
// An unknown platform handle is a boundary fault: the foreign side
// referenced a platform this process never created. The returned
// bad-handle error must be reported back across the boundary by the
// caller, since no suspended native call exists to fail. A nil return
// means the completion was dispatched; whether a waiter was still present
// is the owning Platform's concern (a missing waiter is logged, not
// surfaced).
func (d *Dispatcher) Success(response []byte, platformHandle handle.Platform, responseHandle handle.Response) error {
	p, ok := d.registry.Resolve(platformHandle)
	if !ok {
		return errors.BadPlatformHandle(platformHandle)
	}
	p.completeSuccess(responseHandle, response)
	return nil
}

// Error delivers an error completion carrying a foreign error code.
// Unknown platform handling matches Success.
func (d *Dispatcher) Error(code int32, platformHandle handle.Platform, responseHandle handle.Response) error {
	p, ok := d.registry.Resolve(platformHandle)
	if !ok {
		return errors.BadPlatformHandle(platformHandle)
	}
	p.completeError(responseHandle, code)
	return nil
}
