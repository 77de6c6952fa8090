package wasmtransport

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"

	"github.com/wippyai/remote-bridge/bridge"
	"github.com/wippyai/remote-bridge/errors"
	"github.com/wippyai/remote-bridge/handle"
)

// Status codes returned to the guest from the completion host functions.
const (
	statusOK          int32 = 0
	statusBadHandle   int32 = 1
	statusMemoryFault int32 = 2
)

// Config holds the module and export names the transport binds to.
type Config struct {
	// HostModule is the module name the completion host functions are
	// exported under (default: "bridge_host").
	HostModule string

	// SendFunction is the guest export invoked to send a request
	// (default: "send-request").
	SendFunction string

	// AllocateFunction is the guest export used to place request bytes in
	// guest memory (default: "allocate").
	AllocateFunction string
}

// Option configures the transport.
type Option func(*Config)

// WithHostModule sets the host module name (default: "bridge_host").
func WithHostModule(name string) Option {
	return func(c *Config) { c.HostModule = name }
}

// WithSendFunction sets the guest send export name (default: "send-request").
func WithSendFunction(name string) Option {
	return func(c *Config) { c.SendFunction = name }
}

// WithAllocateFunction sets the guest allocator export name (default: "allocate").
func WithAllocateFunction(name string) Option {
	return func(c *Config) { c.AllocateFunction = name }
}

func defaultConfig() Config {
	return Config{
		HostModule:       "bridge_host",
		SendFunction:     "send-request",
		AllocateFunction: "allocate",
	}
}

// Transport sends requests to a wazero-hosted guest module and feeds the
// guest's completion callbacks into a bridge Dispatcher.
type Transport struct {
	runtime wazero.Runtime
	guest   api.Module
	sendFn  api.Function
	allocFn api.Function

	// Guest calls share one module instance; wazero instances are not
	// goroutine-safe, so outbound calls are serialized.
	mu     sync.Mutex
	closed bool
}

// New compiles and instantiates guestWasm, binds the completion host
// functions to dispatcher, and resolves the guest's send and allocate
// exports. WASI preview1 imports are provided for guests built against it.
func New(ctx context.Context, dispatcher *bridge.Dispatcher, guestWasm []byte, opts ...Option) (*Transport, error) {
	if dispatcher == nil {
		return nil, errors.InvalidInput(errors.PhaseLoad, "dispatcher cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	runtime := wazero.NewRuntime(ctx)

	if err := instantiateHost(ctx, runtime, cfg.HostModule, dispatcher); err != nil {
		_ = runtime.Close(ctx)
		return nil, errors.Load("instantiate host module", err)
	}
	wasi_snapshot_preview1.MustInstantiate(ctx, runtime)

	guest, err := runtime.Instantiate(ctx, guestWasm)
	if err != nil {
		_ = runtime.Close(ctx)
		return nil, errors.Load("instantiate guest module", err)
	}

	sendFn := guest.ExportedFunction(cfg.SendFunction)
	if sendFn == nil {
		_ = runtime.Close(ctx)
		return nil, errors.NotFound(errors.PhaseLoad, "guest export", cfg.SendFunction)
	}
	allocFn := guest.ExportedFunction(cfg.AllocateFunction)
	if allocFn == nil {
		_ = runtime.Close(ctx)
		return nil, errors.NotFound(errors.PhaseLoad, "guest export", cfg.AllocateFunction)
	}

	return &Transport{
		runtime: runtime,
		guest:   guest,
		sendFn:  sendFn,
		allocFn: allocFn,
	}, nil
}

// SendRequest copies request into guest memory and invokes the guest's send
// export with (connection_id, ptr, len, response_handle, platform_handle).
// Fire-and-forget: the export returns nothing; the completion arrives later
// through the host functions.
func (t *Transport) SendRequest(ctx context.Context, connectionID int32, request []byte, responseHandle handle.Response, platformHandle handle.Platform) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return errors.Closed("wasm transport")
	}

	results, err := t.allocFn.Call(ctx, uint64(uint32(len(request))))
	if err != nil {
		return errors.Wrap(errors.PhaseTransport, errors.KindMemory, err, "guest allocate")
	}
	ptr := uint32(results[0])

	if len(request) > 0 && !t.guest.Memory().Write(ptr, request) {
		return errors.Memory("write %d request bytes at %d", len(request), ptr)
	}

	_, err = t.sendFn.Call(ctx,
		api.EncodeI32(connectionID),
		uint64(ptr),
		uint64(uint32(len(request))),
		api.EncodeI64(int64(responseHandle)),
		api.EncodeI64(int64(platformHandle)),
	)
	if err != nil {
		return errors.Wrap(errors.PhaseTransport, errors.KindInvocation, err, "guest send")
	}
	return nil
}

// Close releases the wazero runtime and all guest resources. Requests still
// awaiting completions will only resolve through context cancellation.
func (t *Transport) Close(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	return t.runtime.Close(ctx)
}

// instantiateHost exports the two completion entry points to the guest.
func instantiateHost(ctx context.Context, runtime wazero.Runtime, moduleName string, dispatcher *bridge.Dispatcher) error {
	builder := runtime.NewHostModuleBuilder(moduleName)

	builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
			ptr := uint32(stack[0])
			length := uint32(stack[1])
			ph := handle.Platform(int64(stack[2]))
			rh := handle.Response(int64(stack[3]))

			buf, ok := mod.Memory().Read(ptr, length)
			if !ok {
				Logger().Error("success callback with unreadable response",
					zap.Uint32("ptr", ptr),
					zap.Uint32("len", length),
					zap.Int64("platform", int64(ph)),
					zap.Int64("response", int64(rh)))
				stack[0] = api.EncodeI32(statusMemoryFault)
				return
			}
			// The memory view is only valid during this call.
			response := make([]byte, len(buf))
			copy(response, buf)

			if err := dispatcher.Success(response, ph, rh); err != nil {
				// Boundary fault: the guest routed a completion to a
				// platform this process never created. Reported back to
				// the guest through the status code.
				Logger().Error("success callback rejected", zap.Error(err))
				stack[0] = api.EncodeI32(statusBadHandle)
				return
			}
			stack[0] = api.EncodeI32(statusOK)
		}), []api.ValueType{api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI64, api.ValueTypeI64}, []api.ValueType{api.ValueTypeI32}).
		Export("on-send-request-success")

	builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, _ api.Module, stack []uint64) {
			code := api.DecodeI32(stack[0])
			ph := handle.Platform(int64(stack[1]))
			rh := handle.Response(int64(stack[2]))

			if err := dispatcher.Error(code, ph, rh); err != nil {
				Logger().Error("error callback rejected", zap.Error(err))
				stack[0] = api.EncodeI32(statusBadHandle)
				return
			}
			stack[0] = api.EncodeI32(statusOK)
		}), []api.ValueType{api.ValueTypeI32, api.ValueTypeI64, api.ValueTypeI64}, []api.ValueType{api.ValueTypeI32}).
		Export("on-send-request-error")

	_, err := builder.Instantiate(ctx)
	return err
}
