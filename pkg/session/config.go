package session

import "time"

// Config holds session configuration.
type Config struct {
	// CookieName is the fixed name of the session cookie.
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"sid"`

	// TTL is the absolute session lifetime from creation.
	TTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// SecureCookies enables the Secure flag; required when the deployment is
	// served over TLS and mandatory for SameSite=None.
	SecureCookies bool `env:"SESSION_SECURE_COOKIES" envDefault:"false"`

	// CrossOrigin relaxes SameSite from Lax to None for deployments where
	// the client application is served from a different origin than the API.
	CrossOrigin bool `env:"SESSION_CROSS_ORIGIN" envDefault:"false"`
}

// DefaultConfig returns default session configuration.
func DefaultConfig() Config {
	return Config{
		CookieName: "sid",
		TTL:        24 * time.Hour,
	}
}

// NewFromConfig creates a Manager from the provided Config. A cookie manager
// must be supplied via options for the default cookie transport.
func NewFromConfig(cfg Config, opts ...Option) *Manager {
	configOpts := []Option{WithConfig(cfg)}
	configOpts = append(configOpts, opts...)
	return New(configOpts...)
}
