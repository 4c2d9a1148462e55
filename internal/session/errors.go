package session

import "errors"

// Error markers for the failure classes a session can produce. Callers use
// errors.Is against these to decide how to present a failure.
var (
	// ErrValidation marks a request rejected before any channel was opened.
	ErrValidation = errors.New("validation error")
	// ErrUpload marks a failed asset upload; the session never started.
	ErrUpload = errors.New("upload error")
	// ErrProtocol marks an unparseable server message. Non-fatal: the message
	// is skipped and the session continues.
	ErrProtocol = errors.New("protocol error")
	// ErrConnectivity marks a channel fault before a terminal event arrived.
	ErrConnectivity = errors.New("connectivity error")
)

// connectivityMessage is the generic status line shown when the channel fails
// before the server reported a terminal result.
const connectivityMessage = "Connection to the generation service was lost."
