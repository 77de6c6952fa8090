package bridge

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/wippyai/remote-bridge/errors"
	"github.com/wippyai/remote-bridge/handle"
)

// sentCall records one outbound foreign invocation.
type sentCall struct {
	connectionID   int32
	request        []byte
	responseHandle handle.Response
	platformHandle handle.Platform
}

// manualTransport hands every outbound call to the test, which delivers
// completions through the dispatcher itself.
type manualTransport struct {
	sent chan sentCall
	err  error // returned from SendRequest when set
}

func newManualTransport() *manualTransport {
	return &manualTransport{sent: make(chan sentCall, 64)}
}

func (t *manualTransport) SendRequest(_ context.Context, connectionID int32, request []byte, rh handle.Response, ph handle.Platform) error {
	if t.err != nil {
		return t.err
	}
	req := make([]byte, len(request))
	copy(req, request)
	t.sent <- sentCall{connectionID, req, rh, ph}
	return nil
}

func TestSendRequest_SuccessCompletion(t *testing.T) {
	b := New()
	transport := newManualTransport()

	// Walk the allocator to handle 7 so the platform matches the canonical
	// routing scenario: platform 7, connection 3, first response handle 0.
	var p *Platform
	for i := 0; i < 8; i++ {
		p = b.NewPlatform(transport)
	}
	if p.Handle() != 7 {
		t.Fatalf("platform handle = %d, want 7", p.Handle())
	}

	type result struct {
		response []byte
		err      error
	}
	done := make(chan result, 1)
	go func() {
		response, err := p.SendRequest(context.Background(), 3, []byte("ping"))
		done <- result{response, err}
	}()

	call := <-transport.sent
	if call.connectionID != 3 || !bytes.Equal(call.request, []byte("ping")) {
		t.Fatalf("transport saw (%d, %q), want (3, \"ping\")", call.connectionID, call.request)
	}
	if call.platformHandle != 7 || call.responseHandle != 0 {
		t.Fatalf("handles = %d:%d, want 7:0", call.platformHandle, call.responseHandle)
	}

	if err := b.Dispatcher().Success([]byte("pong"), call.platformHandle, call.responseHandle); err != nil {
		t.Fatalf("Success() = %v", err)
	}

	r := <-done
	if r.err != nil {
		t.Fatalf("SendRequest() error = %v", r.err)
	}
	if !bytes.Equal(r.response, []byte("pong")) {
		t.Fatalf("SendRequest() = %q, want \"pong\"", r.response)
	}
	if n := p.Pending(); n != 0 {
		t.Fatalf("Pending() = %d after completion, want 0", n)
	}
}

func TestSendRequest_ErrorCompletion(t *testing.T) {
	b := New()
	transport := newManualTransport()
	p := b.NewPlatform(transport)

	done := make(chan error, 1)
	go func() {
		_, err := p.SendRequest(context.Background(), 3, []byte("ping"))
		done <- err
	}()

	call := <-transport.sent
	if err := b.Dispatcher().Error(42, call.platformHandle, call.responseHandle); err != nil {
		t.Fatalf("Error() = %v", err)
	}

	err := <-done
	if err == nil {
		t.Fatal("SendRequest() succeeded, want await failure")
	}
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseSend, Kind: errors.KindAwaitFailed}) {
		t.Fatalf("SendRequest() error = %v, want await_failed", err)
	}
}

func TestSendRequest_InvocationFailure(t *testing.T) {
	b := New()
	transport := newManualTransport()
	transport.err = fmt.Errorf("runtime unreachable")
	p := b.NewPlatform(transport)

	_, err := p.SendRequest(context.Background(), 1, []byte("x"))
	if err == nil {
		t.Fatal("SendRequest() succeeded, want invocation failure")
	}
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseSend, Kind: errors.KindInvocation}) {
		t.Fatalf("SendRequest() error = %v, want invocation", err)
	}
	if n := p.Pending(); n != 0 {
		t.Fatalf("Pending() = %d after invocation failure, want 0", n)
	}
}

// capturingTransport records the response handle of each outbound call in
// call order and completes it immediately.
type capturingTransport struct {
	dispatcher *Dispatcher
	mu         sync.Mutex
	handles    []handle.Response
}

func (t *capturingTransport) SendRequest(_ context.Context, _ int32, _ []byte, rh handle.Response, ph handle.Platform) error {
	t.mu.Lock()
	t.handles = append(t.handles, rh)
	t.mu.Unlock()
	go func() { _ = t.dispatcher.Success(nil, ph, rh) }()
	return nil
}

func TestSendRequest_ResponseHandlesStrictlyIncreasing(t *testing.T) {
	b := New()
	transport := &capturingTransport{dispatcher: b.Dispatcher()}
	p := b.NewPlatform(transport)

	for i := 0; i < 50; i++ {
		if _, err := p.SendRequest(context.Background(), 0, nil); err != nil {
			t.Fatalf("SendRequest() error = %v", err)
		}
	}

	transport.mu.Lock()
	defer transport.mu.Unlock()
	if len(transport.handles) != 50 {
		t.Fatalf("transport saw %d calls, want 50", len(transport.handles))
	}
	prev := handle.Response(-1)
	for _, h := range transport.handles {
		if h <= prev {
			t.Fatalf("response handle %d issued after %d, want strictly increasing", h, prev)
		}
		prev = h
	}
}

func TestSendRequest_ConcurrentCallersGetOwnResponses(t *testing.T) {
	b := New()
	// Echo loopback: each response must equal the caller's own request.
	p := b.NewPlatform(NewLoopback(b.Dispatcher(), nil))

	const callers = 32
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			request := []byte(fmt.Sprintf("request-%d", i))
			response, err := p.SendRequest(context.Background(), int32(i), request)
			if err != nil {
				t.Errorf("caller %d: %v", i, err)
				return
			}
			if !bytes.Equal(response, request) {
				t.Errorf("caller %d got %q, want %q", i, response, request)
			}
		}(i)
	}
	wg.Wait()

	if n := p.Pending(); n != 0 {
		t.Fatalf("Pending() = %d after all completions, want 0", n)
	}
}

func TestCompletion_DuplicateDeliveryIsHarmless(t *testing.T) {
	b := New()
	transport := newManualTransport()
	p := b.NewPlatform(transport)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := p.SendRequest(context.Background(), 0, []byte("once")); err != nil {
			t.Errorf("SendRequest() error = %v", err)
		}
	}()

	call := <-transport.sent
	if err := b.Dispatcher().Success([]byte("first"), call.platformHandle, call.responseHandle); err != nil {
		t.Fatalf("first Success() = %v", err)
	}
	<-done

	// Second delivery of either outcome finds no entry: diagnostic only.
	if err := b.Dispatcher().Success([]byte("second"), call.platformHandle, call.responseHandle); err != nil {
		t.Fatalf("duplicate Success() = %v, want nil", err)
	}
	if err := b.Dispatcher().Error(7, call.platformHandle, call.responseHandle); err != nil {
		t.Fatalf("late Error() = %v, want nil", err)
	}
}

func TestSendRequest_ContextCancellationAbandonsEntry(t *testing.T) {
	b := New()
	transport := newManualTransport()
	p := b.NewPlatform(transport)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := p.SendRequest(ctx, 0, []byte("never answered"))
		done <- err
	}()

	call := <-transport.sent
	cancel()

	select {
	case err := <-done:
		if !stderrors.Is(err, context.Canceled) {
			t.Fatalf("SendRequest() error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("SendRequest did not observe cancellation")
	}
	if n := p.Pending(); n != 0 {
		t.Fatalf("Pending() = %d after abandonment, want 0", n)
	}

	// The late completion finds no entry and affects nothing.
	if err := b.Dispatcher().Success([]byte("late"), call.platformHandle, call.responseHandle); err != nil {
		t.Fatalf("late Success() = %v, want nil", err)
	}
}

func TestNewPlatform_HandlesDistinct(t *testing.T) {
	b := New()
	seen := make(map[handle.Platform]bool)
	for i := 0; i < 100; i++ {
		p := b.NewPlatform(newManualTransport())
		if seen[p.Handle()] {
			t.Fatalf("platform handle %d issued twice", p.Handle())
		}
		seen[p.Handle()] = true
	}
}
