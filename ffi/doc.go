// Package ffi carries bridge requests to a native shared library loaded
// with purego.
//
// The library is the foreign runtime. It must export:
//
//	int32_t bridge_send_request(int32_t connection_id, const uint8_t *request,
//	                            uint32_t len, int64_t response_handle,
//	                            int64_t platform_handle);
//	void bridge_set_callbacks(void *on_success, void *on_error);
//
// where the callbacks installed by bridge_set_callbacks have the signatures:
//
//	int32_t on_success(const uint8_t *response, uint32_t len,
//	                   int64_t platform_handle, int64_t response_handle);
//	int32_t on_error(int32_t code, int64_t platform_handle,
//	                 int64_t response_handle);
//
// bridge_send_request is fire-and-forget: a zero return means the request
// was accepted and exactly one callback will eventually fire for the
// response handle, on whatever thread the library chooses. Callback returns
// report boundary faults back to the library: 0 on success, 1 when the
// platform handle is unknown to this process.
package ffi
