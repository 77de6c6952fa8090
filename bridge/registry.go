package bridge

import (
	"sync"

	"github.com/wippyai/remote-bridge/handle"
)

// Registry maps platform handles to their owning Platform instances. It
// backs the inbound dispatch path: completions arriving from the foreign
// runtime carry only a platform handle and must be routed to a live object.
//
// Entries are added once, at Platform construction, and never removed;
// platform teardown is owned by the surrounding system.
type Registry struct {
	mu        sync.RWMutex
	platforms map[handle.Platform]*Platform
}

func NewRegistry() *Registry {
	return &Registry{
		platforms: make(map[handle.Platform]*Platform),
	}
}

// Register inserts p under its own handle. Handles are allocator-unique, so
// an overwrite is not expected; if one happens anyway it is not rejected,
// matching the concurrent-map contract.
func (r *Registry) Register(p *Platform) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.platforms[p.Handle()] = p
}

// Resolve returns the Platform registered under h.
func (r *Registry) Resolve(h handle.Platform) (*Platform, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.platforms[h]
	return p, ok
}

// Len returns the number of registered platforms.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.platforms)
}
