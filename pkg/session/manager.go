package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/pencraft/pencraft/pkg/cookie"
)

// Manager issues, resolves and destroys server-side sessions.
type Manager struct {
	store         Store
	transport     Transport
	config        Config
	cookieManager *cookie.Manager
}

// New creates a session manager with the given options.
func New(opts ...Option) *Manager {
	m := &Manager{
		config: DefaultConfig(),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.store == nil {
		m.store = NewMemoryStore()
	}

	if m.transport == nil {
		if m.cookieManager == nil {
			// Fail fast on misconfiguration to prevent insecure runtime behavior.
			panic("session: cookie manager is required when using default cookie transport")
		}
		m.transport = NewCookieTransport(m.cookieManager, m.config.CookieName, m.config.SecureCookies, m.config.CrossOrigin)
	}

	return m
}

// Create establishes a new session for the user. The record is durably
// persisted to the store before the cookie is written, so a response redirect
// that the client follows immediately will already resolve.
func (m *Manager) Create(ctx context.Context, w http.ResponseWriter, userID string) (*Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	session := NewSession(token, userID, m.config.TTL)

	if err := m.store.Create(ctx, session); err != nil {
		return nil, err
	}

	if err := m.transport.SetToken(w, session.Token, m.config.TTL); err != nil {
		_ = m.store.Delete(ctx, session.Token)
		return nil, err
	}

	return session, nil
}

// Resolve returns the session referenced by the request cookie. A missing,
// tampered or expired cookie yields an error; callers treat that as an
// anonymous request. Resolution never mutates the stored expiry.
func (m *Manager) Resolve(ctx context.Context, r *http.Request) (*Session, error) {
	token, err := m.transport.GetToken(r)
	if err != nil {
		return nil, err
	}

	session, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	if session.IsExpired() {
		return nil, ErrSessionExpired
	}

	return session, nil
}

// Destroy removes the session record and clears the cookie. The cookie is
// cleared even when the store delete fails: the user-facing goal of being
// logged out is achieved client-side regardless.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if token, err := m.transport.GetToken(r); err == nil && token != "" {
		_ = m.store.Delete(ctx, token)
	}

	return m.transport.ClearToken(w)
}

// Store exposes the underlying store, mostly for health checks and tests.
func (m *Manager) Store() Store {
	return m.store
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
