package session

import "time"

// Session represents one authenticated browser session. The client cookie
// carries only the opaque token; everything else lives server-side.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewSession creates a session for the given user with an absolute expiry of
// now+ttl. Expiry is fixed at creation; resolution never extends it.
func NewSession(token, userID string, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired returns true if the session has passed its absolute expiry.
func (s *Session) IsExpired() bool {
	return s != nil && time.Now().After(s.ExpiresAt)
}
