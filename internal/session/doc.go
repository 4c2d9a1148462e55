// Package session implements the generation session controller: the state
// machine that drives one animation-generation request against the remote
// service.
//
// A Controller owns at most one channel at a time. Start validates the
// request, uploads the PDF asset when present, then opens the channel and
// sends the start control message. Inbound events are applied in arrival
// order; each result field (script, narration, audio, output file, image set)
// overwrites its own display slot independently. The first terminal signal
// wins: once the session reaches Completed, Errored, or Cancelled no further
// payloads are accepted, late events and transport faults are ignored, and
// the transport is closed exactly once per session.
//
// Malformed server messages are reported through the observer as protocol
// errors and skipped without closing the channel. A channel fault before a
// terminal event forces Errored with a generic connectivity message, so the
// controller always lands in a re-armable state.
package session
