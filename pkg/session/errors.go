package session

import "errors"

var (
	// ErrSessionNotFound indicates no session was found for the token.
	ErrSessionNotFound = errors.New("session: not found")

	// ErrSessionExpired indicates the session passed its absolute expiry.
	ErrSessionExpired = errors.New("session: expired")

	// ErrInvalidSession indicates a malformed session record.
	ErrInvalidSession = errors.New("session: invalid")

	// ErrTokenGeneration indicates the random source failed.
	ErrTokenGeneration = errors.New("session: token generation failed")

	// ErrNoTransport indicates no transport is configured.
	ErrNoTransport = errors.New("session: no transport configured")
)
