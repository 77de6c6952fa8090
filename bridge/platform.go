package bridge

import (
	"context"

	"go.uber.org/zap"

	remotebridge "github.com/wippyai/remote-bridge"
	"github.com/wippyai/remote-bridge/errors"
	"github.com/wippyai/remote-bridge/handle"
)

// Platform is one logical connection endpoint to the foreign runtime. It
// owns a response handle sequence and the pending-request table correlating
// inbound completions to suspended callers.
//
// All methods are safe for concurrent use.
type Platform struct {
	handle    handle.Platform
	transport remotebridge.Transport
	seq       handle.Sequence
	pending   pendingTable
}

// Handle returns the process-unique handle identifying this platform to
// the foreign runtime.
func (p *Platform) Handle() handle.Platform {
	return p.handle
}

// Pending returns the number of requests currently awaiting a completion.
func (p *Platform) Pending() int {
	return p.pending.size()
}

// SendRequest sends request to the remote identified by connectionID and
// suspends until the foreign runtime delivers the matching completion.
//
// A fresh response handle is allocated per call; concurrent calls on the
// same Platform proceed independently, each receiving only its own
// completion. The foreign invocation is fire-and-forget: SendRequest does
// not wait for it to produce a value, only for the later inbound callback.
//
// Errors: an invocation failure is surfaced immediately and leaves no
// pending entry; an error completion surfaces as an await failure; context
// cancellation abandons the pending entry (a completion arriving later for
// the abandoned handle is dropped as unknown).
func (p *Platform) SendRequest(ctx context.Context, connectionID int32, request []byte) ([]byte, error) {
	rh := p.seq.Next()
	ch := make(chan []byte, 1)
	p.pending.add(rh, ch)

	if err := p.transport.SendRequest(ctx, connectionID, request, rh, p.handle); err != nil {
		p.pending.remove(rh)
		return nil, errors.Invocation(p.handle, rh, err)
	}

	Logger().Debug("request sent, awaiting response",
		zap.Int64("platform", int64(p.handle)),
		zap.Int64("response", int64(rh)),
		zap.Int32("connection", connectionID))

	select {
	case response, ok := <-ch:
		if !ok {
			return nil, errors.AwaitFailed(p.handle, rh)
		}
		return response, nil
	case <-ctx.Done():
		if p.pending.remove(rh) {
			return nil, ctx.Err()
		}
		// A completion took the entry before we could abandon it; the
		// channel resolves imminently and the completion wins.
		response, ok := <-ch
		if !ok {
			return nil, errors.AwaitFailed(p.handle, rh)
		}
		return response, nil
	}
}

// completeSuccess resolves the waiter for rh with response. A missing entry
// is a protocol violation (duplicate, unknown, or late completion) and is
// logged rather than treated as fatal: no caller is affected.
func (p *Platform) completeSuccess(rh handle.Response, response []byte) {
	ch, ok := p.pending.take(rh)
	if !ok {
		Logger().Warn("success completion with no pending request",
			zap.Int64("platform", int64(p.handle)),
			zap.Int64("response", int64(rh)))
		return
	}
	// Sole owner of the send side and the channel has capacity one, so
	// this never blocks.
	ch <- response

	Logger().Debug("request completed",
		zap.Int64("platform", int64(p.handle)),
		zap.Int64("response", int64(rh)),
		zap.Int("bytes", len(response)))
}

// completeError resolves the waiter for rh with an await failure by closing
// the channel without a value. The foreign error code is logged only; the
// payload of failures is not part of the correlation contract.
func (p *Platform) completeError(rh handle.Response, code int32) {
	ch, ok := p.pending.take(rh)
	if !ok {
		Logger().Warn("error completion with no pending request",
			zap.Int64("platform", int64(p.handle)),
			zap.Int64("response", int64(rh)),
			zap.Int32("code", code))
		return
	}
	close(ch)

	Logger().Error("request completed with error",
		zap.Int64("platform", int64(p.handle)),
		zap.Int64("response", int64(rh)),
		zap.Int32("code", code))
}
