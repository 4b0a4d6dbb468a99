// Package httpserver provides a lightweight wrapper around net/http adding
// graceful shutdown, configurable timeouts, health-check handlers, and
// structured logging via slog.
//
// Run blocks until the context is cancelled or an interrupt/TERM signal is
// received, then shuts the server down with a configurable deadline. Start
// errors are wrapped with ErrStart, shutdown errors with ErrShutdown, so they
// can be inspected with errors.Is.
package httpserver
