package session

import "context"

// Store defines the interface for session persistence. The production store
// is out-of-process and shared (Redis) so any number of stateless API
// instances behind a load balancer resolve the same sessions.
type Store interface {
	// Create persists a new session record.
	Create(ctx context.Context, session *Session) error

	// Get retrieves a session by token. Missing tokens return
	// ErrSessionNotFound; expired ones ErrSessionExpired.
	Get(ctx context.Context, token string) (*Session, error)

	// Delete removes a session by token. Deleting an absent token is not an
	// error.
	Delete(ctx context.Context, token string) error
}
