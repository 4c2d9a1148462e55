// Package transport provides the WebSocket channel a generation session owns.
//
// The channel separates the write path (JSON control messages, mutex guarded)
// from the read pump (one goroutine delivering inbound frames in order). Close
// is idempotent so the session controller can release the transport on every
// exit path without tracking whether it already did.
package transport
