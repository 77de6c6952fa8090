// Package remotebridge defines the shared contracts between the correlation
// engine and its transports.
//
// This library bridges native Go callers to a foreign managed runtime across
// a boundary where outbound calls are fire-and-forget and completions arrive
// asynchronously, on arbitrary threads, correlated only by opaque integer
// handles.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	remotebridge/        Root package with the Transport contract
//	├── bridge/          Correlation engine: Bridge, Platform, Registry, Dispatcher
//	├── handle/          Platform and response handle allocation
//	├── errors/          Structured error types for debugging
//	├── wasmtransport/   wazero-backed transport (foreign runtime = WASM guest)
//	├── ffi/             purego-backed transport (foreign runtime = native library)
//	└── cmd/bridge/      CLI for one-shot and interactive use
//
// # Quick Start
//
// Create a bridge, attach a transport, and issue a request:
//
//	b := bridge.New()
//	transport, err := wasmtransport.New(ctx, b.Dispatcher(), guestWasm)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer transport.Close(ctx)
//
//	p := b.NewPlatform(transport)
//	response, err := p.SendRequest(ctx, connectionID, []byte("ping"))
//
// SendRequest registers a single-use completion channel keyed by a fresh
// response handle, invokes the transport, and suspends until the foreign
// side delivers a success or error completion through the Dispatcher.
package remotebridge
