package auth

import (
	"context"
	"time"
)

// UserStorage defines the persistence operations required by the auth
// services. User ids cross this boundary as hex strings so callers (session
// records, HTTP handlers) stay decoupled from the document store.
type UserStorage interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByAuth0ID(ctx context.Context, auth0ID string) (*User, error)

	// UpdateProfile sets the constrained profile field set. Nil means
	// "leave unchanged". Provider, federated id and password are not
	// reachable through this operation.
	UpdateProfile(ctx context.Context, id string, fullname, bio *string) (*User, error)

	// IssueResetToken stores the token and expiry on the user in a single
	// conditional write that matches only when no unexpired token exists.
	// A live token yields ErrResetAlreadyPending and leaves the existing
	// token untouched.
	IssueResetToken(ctx context.Context, userID, token string, expiresAt time.Time) error

	// GetUserByResetToken finds the user holding an exact, unexpired token.
	// Unknown or expired tokens yield ErrTokenInvalid.
	GetUserByResetToken(ctx context.Context, token string) (*User, error)

	// ConsumeResetToken atomically swaps in the new password hash and clears
	// both reset fields, matching only an exact unexpired token. Unknown or
	// expired tokens yield ErrTokenInvalid with no partial state changes.
	ConsumeResetToken(ctx context.Context, token string, newHash []byte) (*User, error)
}

// StateStore persists one-time OAuth state tokens for CSRF protection.
type StateStore interface {
	StoreState(ctx context.Context, state string, ttl time.Duration) error

	// ConsumeState atomically checks that the state exists and removes it.
	// Returns ErrStateNotFound if the state is absent or already consumed.
	ConsumeState(ctx context.Context, state string) error
}
