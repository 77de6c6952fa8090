// Package wasmtransport carries bridge requests to a WebAssembly guest
// hosted with wazero.
//
// The guest is the foreign runtime: outbound requests are copied into guest
// memory through its "allocate" export and handed to its "send-request"
// export together with the response and platform handles. The guest
// eventually calls one of two host functions exported under the
// "bridge_host" module:
//
//	on-send-request-success(ptr: i32, len: i32, platform: i64, response: i64) -> i32
//	on-send-request-error(code: i32, platform: i64, response: i64) -> i32
//
// Both are routed to the bridge Dispatcher. The i32 result is a status code
// reporting boundary faults back to the guest: 0 on success, 1 when the
// platform handle names no registered platform, 2 on a guest memory fault.
// Module and export names are configurable via options.
package wasmtransport
