// Package logging builds the slog loggers used across reel.
//
// Console (text) and JSON formats are supported. Logs are written to stderr
// plus an optional file under the configured log directory; stdout is reserved
// for command output and session progress rendering.
package logging
