package bridge

import (
	"sync"
	"testing"

	"github.com/wippyai/remote-bridge/handle"
)

func TestRegistry_RegisterResolve(t *testing.T) {
	r := NewRegistry()
	p := &Platform{handle: 5}

	r.Register(p)

	got, ok := r.Resolve(5)
	if !ok || got != p {
		t.Fatalf("Resolve(5) = (%v, %v), want registered platform", got, ok)
	}
	if _, ok := r.Resolve(999); ok {
		t.Fatal("Resolve(999) found a platform that was never registered")
	}
	if n := r.Len(); n != 1 {
		t.Fatalf("Len() = %d, want 1", n)
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			r.Register(&Platform{handle: handle.Platform(i)})
		}(i)
		go func(i int) {
			defer wg.Done()
			// Lookups race inserts; any result is valid, it must only
			// not corrupt the map.
			r.Resolve(handle.Platform(i))
		}(i)
	}
	wg.Wait()

	for i := 0; i < 16; i++ {
		if _, ok := r.Resolve(handle.Platform(i)); !ok {
			t.Fatalf("Resolve(%d) missing after concurrent registration", i)
		}
	}
}
