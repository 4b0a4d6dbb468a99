// Package session implements server-side sessions keyed by an opaque token
// carried in a signed, HttpOnly cookie.
//
// The Manager composes a Store (Redis in production, memory in tests) with a
// Transport (cookie by default). Sessions have a fixed absolute expiry set at
// creation; resolving a session never extends it. Session state lives
// entirely server-side; the cookie carries only the token.
package session
