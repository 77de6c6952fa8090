//go:build ios || android || windows || !(amd64 || arm64)

package ffi

import (
	"context"

	"github.com/wippyai/remote-bridge/bridge"
	"github.com/wippyai/remote-bridge/errors"
	"github.com/wippyai/remote-bridge/handle"
)

// Transport is unavailable on this platform.
type Transport struct{}

// Load reports that native library loading is not supported on this platform.
func Load(string, *bridge.Dispatcher) (*Transport, error) {
	return nil, errors.Unsupported("native library transport not supported on this platform")
}

func (t *Transport) SendRequest(context.Context, int32, []byte, handle.Response, handle.Platform) error {
	return errors.Unsupported("native library transport not supported on this platform")
}

func (t *Transport) Close(context.Context) error {
	return nil
}
