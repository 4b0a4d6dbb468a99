package httpserver

import (
	"log/slog"
	"time"
)

// Option configures the HTTP server.
type Option func(*serverConfig)

// WithAddr sets the address the server listens on.
func WithAddr(addr string) Option {
	return func(c *serverConfig) {
		if addr != "" {
			c.addr = addr
		}
	}
}

// WithReadTimeout sets the maximum duration for reading the entire request.
func WithReadTimeout(d time.Duration) Option {
	return func(c *serverConfig) { c.readTimeout = d }
}

// WithWriteTimeout sets the maximum duration before timing out writes of the response.
func WithWriteTimeout(d time.Duration) Option {
	return func(c *serverConfig) { c.writeTimeout = d }
}

// WithIdleTimeout sets the keep-alive idle timeout.
func WithIdleTimeout(d time.Duration) Option {
	return func(c *serverConfig) { c.idleTimeout = d }
}

// WithShutdownTimeout sets the deadline for graceful shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	return func(c *serverConfig) { c.shutdownTimeout = d }
}

// WithLogger sets the logger used for lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(c *serverConfig) { c.logger = l }
}
