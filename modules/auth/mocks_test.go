package auth_test

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/pencraft/pencraft/modules/auth"
	"github.com/pencraft/pencraft/pkg/email"
)

// memoryUserStore is an in-memory UserStorage with the same conditional
// write semantics as the MongoDB store.
type memoryUserStore struct {
	mu    sync.Mutex
	users map[string]*auth.User
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{users: make(map[string]*auth.User)}
}

func (s *memoryUserStore) CreateUser(_ context.Context, user *auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID.IsZero() {
		user.ID = bson.NewObjectID()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	clone := *user
	s.users[user.ID.Hex()] = &clone
	return nil
}

func (s *memoryUserStore) GetUserByID(_ context.Context, id string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (s *memoryUserStore) GetUserByEmail(_ context.Context, email string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

func (s *memoryUserStore) GetUserByAuth0ID(_ context.Context, auth0ID string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Auth0ID != "" && user.Auth0ID == auth0ID {
			clone := *user
			return &clone, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

func (s *memoryUserStore) UpdateProfile(_ context.Context, id string, fullname, bio *string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	if fullname != nil {
		user.FullName = *fullname
	}
	if bio != nil {
		user.Bio = *bio
	}
	user.UpdatedAt = time.Now().UTC()

	clone := *user
	return &clone, nil
}

func (s *memoryUserStore) IssueResetToken(_ context.Context, userID, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return auth.ErrUserNotFound
	}
	if user.HasLiveResetToken(time.Now()) {
		return auth.ErrResetAlreadyPending
	}

	user.ResetToken = token
	user.ResetExpires = &expiresAt
	return nil
}

func (s *memoryUserStore) GetUserByResetToken(_ context.Context, token string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.ResetToken == token && user.HasLiveResetToken(time.Now()) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, auth.ErrTokenInvalid
}

func (s *memoryUserStore) ConsumeResetToken(_ context.Context, token string, newHash []byte) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.ResetToken == token && user.HasLiveResetToken(time.Now()) {
			user.PasswordHash = newHash
			user.ResetToken = ""
			user.ResetExpires = nil
			clone := *user
			return &clone, nil
		}
	}
	return nil, auth.ErrTokenInvalid
}

// expireResetToken backdates the stored expiry for expiry tests.
func (s *memoryUserStore) expireResetToken(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user, ok := s.users[userID]; ok && user.ResetExpires != nil {
		past := time.Now().Add(-time.Minute)
		user.ResetExpires = &past
	}
}

// memoryStateStore is an in-memory StateStore.
type memoryStateStore struct {
	mu     sync.Mutex
	states map[string]time.Time
}

func newMemoryStateStore() *memoryStateStore {
	return &memoryStateStore{states: make(map[string]time.Time)}
}

func (s *memoryStateStore) StoreState(_ context.Context, state string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state] = time.Now().Add(ttl)
	return nil
}

func (s *memoryStateStore) ConsumeState(_ context.Context, state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.states[state]
	if !ok || time.Now().After(expiry) {
		return auth.ErrStateNotFound
	}
	delete(s.states, state)
	return nil
}

// captureMailer records sent emails and optionally fails.
type captureMailer struct {
	mu   sync.Mutex
	sent []email.SendEmailParams
	err  error
}

func (m *captureMailer) SendEmail(_ context.Context, params email.SendEmailParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, params)
	return nil
}

func (m *captureMailer) lastSent() (email.SendEmailParams, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return email.SendEmailParams{}, false
	}
	return m.sent[len(m.sent)-1], true
}

// stubAdapter is a canned ProviderAdapter.
type stubAdapter struct {
	profile auth.ProviderProfile
	err     error
}

func (a *stubAdapter) AuthURL(state string) string {
	return "https://idp.example.com/authorize?state=" + state
}

func (a *stubAdapter) ResolveProfile(context.Context, string) (auth.ProviderProfile, error) {
	if a.err != nil {
		return auth.ProviderProfile{}, a.err
	}
	return a.profile, nil
}
