package bridge

import (
	"sync"

	"github.com/wippyai/remote-bridge/handle"
)

// pendingTable maps response handles to single-use completion channels.
// An entry exists if and only if a caller is suspended awaiting that
// response. Each entry is consumed exactly once: taken by the first
// completion, or removed by the caller abandoning the wait.
type pendingTable struct {
	mu      sync.Mutex
	waiters map[handle.Response]chan []byte
}

// add registers a completion channel for h. The channel must have capacity
// one so the resolving side never blocks on delivery.
func (t *pendingTable) add(h handle.Response, ch chan []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.waiters == nil {
		t.waiters = make(map[handle.Response]chan []byte)
	}
	t.waiters[h] = ch
}

// take removes and returns the channel for h. The caller becomes the sole
// owner of the channel's sending side; a second take for the same handle
// reports false.
func (t *pendingTable) take(h handle.Response) (chan []byte, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ch, ok := t.waiters[h]
	if ok {
		delete(t.waiters, h)
	}
	return ch, ok
}

// remove discards the entry for h without resolving it. Used when the
// waiter abandons the request (invocation failure, context cancellation).
// Reports false if a completion already took the entry.
func (t *pendingTable) remove(h handle.Response) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.waiters[h]
	if ok {
		delete(t.waiters, h)
	}
	return ok
}

// size returns the number of outstanding entries.
func (t *pendingTable) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.waiters)
}
