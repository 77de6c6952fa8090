package remotebridge

import (
	"context"

	"github.com/wippyai/remote-bridge/handle"
)

// Transport is the outbound half of the foreign boundary: one method on a
// foreign object that carries a request across, returning nothing of
// substance synchronously. Its eventual effect is exactly one success or
// error completion delivered back through the inbound dispatch path,
// carrying the same response and platform handles.
//
// SendRequest must not block waiting for the completion; it returns as soon
// as the foreign invocation has been issued. An error return means the
// invocation itself could not be made and no completion will ever arrive
// for responseHandle.
//
// Implementations must be safe for concurrent use: multiple callers issue
// requests against the same transport in parallel.
type Transport interface {
	SendRequest(ctx context.Context, connectionID int32, request []byte, responseHandle handle.Response, platformHandle handle.Platform) error
}
