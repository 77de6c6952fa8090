package bridge

import (
	remotebridge "github.com/wippyai/remote-bridge"
	"github.com/wippyai/remote-bridge/handle"
)

// Bridge owns the shared correlation state: the platform handle allocator,
// the registry, and the dispatcher serving the inbound boundary. One Bridge
// per process is typical, but nothing prevents several; each is fully
// independent.
type Bridge struct {
	alloc      handle.Allocator
	registry   *Registry
	dispatcher *Dispatcher
}

func New() *Bridge {
	registry := NewRegistry()
	return &Bridge{
		registry:   registry,
		dispatcher: NewDispatcher(registry),
	}
}

// NewPlatform creates a platform over the given transport, assigns it a
// fresh process-unique handle, and registers it for inbound dispatch. The
// platform lives for the remaining duration of the process; there is no
// destroy path.
func (b *Bridge) NewPlatform(transport remotebridge.Transport) *Platform {
	p := &Platform{
		handle:    b.alloc.Next(),
		transport: transport,
	}
	b.registry.Register(p)
	return p
}

// Dispatcher returns the inbound completion entry points. Transport glue
// holds this to deliver foreign callbacks.
func (b *Bridge) Dispatcher() *Dispatcher {
	return b.dispatcher
}

// Registry returns the platform registry.
func (b *Bridge) Registry() *Registry {
	return b.registry
}
