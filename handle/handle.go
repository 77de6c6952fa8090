package handle

import "sync/atomic"

// Platform identifies one platform instance to the foreign runtime for the
// lifetime of the process. Values are never reused once issued, even after
// the owning platform is gone.
type Platform int64

// Response identifies one outstanding logical request. Values are unique
// within a single platform instance and reused across distinct platforms.
type Response int64

// Allocator issues process-wide platform handles. The zero value is ready
// to use; handles start at 0 and increase monotonically.
//
// Exhaustion policy: allocating 2^63 handles is not reachable in practice
// (at one allocation per nanosecond it takes ~292 years), so instead of a
// wraparound scheme Next panics if the counter ever goes negative. Silent
// reuse would alias two platforms behind one handle, which is strictly
// worse than crashing.
type Allocator struct {
	next atomic.Int64
}

// Next returns a fresh platform handle.
func (a *Allocator) Next() Platform {
	n := a.next.Add(1)
	if n <= 0 {
		panic("handle: platform handle space exhausted")
	}
	return Platform(n - 1)
}

// Sequence issues response handles for a single platform. The zero value is
// ready to use; handles start at 0 and increase monotonically. Same
// exhaustion policy as Allocator.
type Sequence struct {
	next atomic.Int64
}

// Next returns a fresh response handle.
func (s *Sequence) Next() Response {
	n := s.next.Add(1)
	if n <= 0 {
		panic("handle: response handle space exhausted")
	}
	return Response(n - 1)
}
