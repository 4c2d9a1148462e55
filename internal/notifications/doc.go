// Package notifications sends optional ntfy pushes when a generation session
// reaches a terminal state. With no topic configured every call is a noop, so
// callers never need to guard notification sends.
package notifications
