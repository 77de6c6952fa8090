package bridge

import (
	"context"

	"github.com/wippyai/remote-bridge/handle"
)

// Loopback is an in-process Transport that completes every request through
// the dispatcher, standing in for a real foreign runtime. The default
// handler echoes the request bytes back; a custom handler can return a
// response or a non-zero code to exercise the error path.
//
// Completions are delivered on a separate goroutine, so the usual races
// between senders and completions are present just as with a real boundary.
type Loopback struct {
	dispatcher *Dispatcher
	handler    LoopbackHandler
}

// LoopbackHandler produces the completion for one request. Returning a
// non-zero code delivers an error completion instead of the response.
type LoopbackHandler func(connectionID int32, request []byte) (response []byte, code int32)

// NewLoopback creates a loopback transport completing through d. A nil
// handler echoes requests back unchanged.
func NewLoopback(d *Dispatcher, handler LoopbackHandler) *Loopback {
	if handler == nil {
		handler = func(_ int32, request []byte) ([]byte, int32) {
			return request, 0
		}
	}
	return &Loopback{dispatcher: d, handler: handler}
}

func (l *Loopback) SendRequest(_ context.Context, connectionID int32, request []byte, responseHandle handle.Response, platformHandle handle.Platform) error {
	// Copy before handing off; the caller may reuse the request buffer.
	req := make([]byte, len(request))
	copy(req, request)

	go func() {
		response, code := l.handler(connectionID, req)
		if code != 0 {
			_ = l.dispatcher.Error(code, platformHandle, responseHandle)
			return
		}
		_ = l.dispatcher.Success(response, platformHandle, responseHandle)
	}()
	return nil
}
