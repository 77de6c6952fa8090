//go:build !ios && !android && !windows && (amd64 || arm64)

package ffi

import (
	"context"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"go.uber.org/zap"

	"github.com/wippyai/remote-bridge/bridge"
	"github.com/wippyai/remote-bridge/errors"
	"github.com/wippyai/remote-bridge/handle"
)

const (
	statusOK        int32 = 0
	statusBadHandle int32 = 1
)

// Transport sends requests through a dlopen'd native library and feeds the
// library's completion callbacks into a bridge Dispatcher.
type Transport struct {
	sendRequest func(connectionID int32, request *byte, length uint32, responseHandle int64, platformHandle int64) int32

	mu     sync.Mutex
	closed bool
}

// Load opens the shared library at path, binds bridge_send_request, and
// installs the completion callbacks routing into dispatcher.
//
// The callbacks stay registered for the life of the process; purego
// callbacks cannot be released, so Load should be called once per library.
func Load(path string, dispatcher *bridge.Dispatcher) (*Transport, error) {
	if dispatcher == nil {
		return nil, errors.InvalidInput(errors.PhaseLoad, "dispatcher cannot be nil")
	}

	lib, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, errors.Load("open native library", err)
	}

	t := &Transport{}
	var setCallbacks func(onSuccess, onError uintptr)
	purego.RegisterLibFunc(&t.sendRequest, lib, "bridge_send_request")
	purego.RegisterLibFunc(&setCallbacks, lib, "bridge_set_callbacks")

	onSuccess := purego.NewCallback(func(buf *byte, length uint32, ph int64, rh int64) int32 {
		// The buffer belongs to the library and is only valid during the
		// callback.
		var response []byte
		if buf != nil && length > 0 {
			response = append([]byte(nil), unsafe.Slice(buf, int(length))...)
		}
		if err := dispatcher.Success(response, handle.Platform(ph), handle.Response(rh)); err != nil {
			Logger().Error("success callback rejected", zap.Error(err))
			return statusBadHandle
		}
		return statusOK
	})

	onError := purego.NewCallback(func(code int32, ph int64, rh int64) int32 {
		if err := dispatcher.Error(code, handle.Platform(ph), handle.Response(rh)); err != nil {
			Logger().Error("error callback rejected", zap.Error(err))
			return statusBadHandle
		}
		return statusOK
	})

	setCallbacks(onSuccess, onError)
	return t, nil
}

// SendRequest hands the request to the native library. The library does not
// accept a context; cancellation is honored up front and then by the
// awaiting caller.
func (t *Transport) SendRequest(ctx context.Context, connectionID int32, request []byte, responseHandle handle.Response, platformHandle handle.Platform) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return errors.Closed("ffi transport")
	}

	var ptr *byte
	if len(request) > 0 {
		ptr = &request[0]
	}
	if rc := t.sendRequest(connectionID, ptr, uint32(len(request)), int64(responseHandle), int64(platformHandle)); rc != 0 {
		return errors.New(errors.PhaseTransport, errors.KindInvocation).
			Platform(platformHandle).
			Response(responseHandle).
			Detail("native send returned %d", rc).
			Build()
	}
	return nil
}

// Close marks the transport unusable for new requests. The library itself
// stays loaded; dlclose with live callbacks is not safe.
func (t *Transport) Close(context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}
