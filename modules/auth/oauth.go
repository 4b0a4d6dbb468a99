package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pencraft/pencraft/pkg/logger"
	"github.com/pencraft/pencraft/pkg/sanitizer"
)

const defaultStateTTL = 10 * time.Minute

// ProviderProfile is the normalized identity an OAuth provider hands back.
type ProviderProfile struct {
	ProviderUserID string
	Email          string
	Name           string
	AvatarURL      string
}

// ProviderAdapter abstracts one OAuth provider. The service only ever sees
// an authorization URL and a resolved profile.
type ProviderAdapter interface {
	// AuthURL builds the provider authorization URL carrying state.
	AuthURL(state string) string

	// ResolveProfile exchanges the authorization code and fetches the
	// user's identity from the provider.
	ResolveProfile(ctx context.Context, code string) (ProviderProfile, error)
}

// OAuthService drives the federated login flow: state issuance, callback
// verification and just-in-time account provisioning keyed by the
// provider's subject id.
type OAuthService struct {
	storage  UserStorage
	states   StateStore
	adapter  ProviderAdapter
	stateTTL time.Duration
	log      *slog.Logger
}

// OAuthOption configures an OAuthService.
type OAuthOption func(*OAuthService)

// WithStateTTL overrides how long an issued state stays valid.
func WithStateTTL(ttl time.Duration) OAuthOption {
	return func(s *OAuthService) {
		s.stateTTL = ttl
	}
}

// WithOAuthLogger sets the service logger.
func WithOAuthLogger(log *slog.Logger) OAuthOption {
	return func(s *OAuthService) {
		s.log = log
	}
}

// NewOAuthService creates a federated login service.
func NewOAuthService(storage UserStorage, states StateStore, adapter ProviderAdapter, opts ...OAuthOption) *OAuthService {
	s := &OAuthService{
		storage:  storage,
		states:   states,
		adapter:  adapter,
		stateTTL: defaultStateTTL,
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AuthURL issues a fresh one-time state, persists it and returns the
// provider authorization URL to redirect the browser to.
func (s *OAuthService) AuthURL(ctx context.Context) (string, error) {
	state, err := generateState()
	if err != nil {
		return "", fmt.Errorf("generate oauth state: %w", err)
	}
	if err := s.states.StoreState(ctx, state, s.stateTTL); err != nil {
		return "", err
	}
	return s.adapter.AuthURL(state), nil
}

// Callback completes the flow: verifies and consumes the state, exchanges
// the code, and finds or creates the matching account. Lookup is by the
// provider subject id, never by email, so a federated login cannot attach
// to a local account sharing the address.
func (s *OAuthService) Callback(ctx context.Context, code, state string) (*User, error) {
	if state == "" {
		return nil, ErrInvalidState
	}
	if err := s.states.ConsumeState(ctx, state); err != nil {
		if errors.Is(err, ErrStateNotFound) {
			return nil, ErrInvalidState
		}
		return nil, err
	}

	if code == "" {
		return nil, ErrInvalidCode
	}
	profile, err := s.adapter.ResolveProfile(ctx, code)
	if err != nil {
		return nil, err
	}
	if profile.ProviderUserID == "" {
		return nil, ErrNoProviderID
	}

	user, err := s.storage.GetUserByAuth0ID(ctx, profile.ProviderUserID)
	if err == nil {
		s.log.InfoContext(ctx, "federated login",
			logger.Component("auth.oauth"),
			logger.UserID(user.ID.Hex()),
		)
		return user, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("lookup federated user: %w", err)
	}

	user = &User{
		FullName: sanitizer.TrimSpace(profile.Name),
		Email:    sanitizer.NormalizeEmail(profile.Email),
		Auth0ID:  profile.ProviderUserID,
		Provider: ProviderAuth0,
	}
	if err := s.storage.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("provision federated user: %w", err)
	}

	s.log.InfoContext(ctx, "federated account provisioned",
		logger.Component("auth.oauth"),
		logger.UserID(user.ID.Hex()),
	)
	return user, nil
}

func generateState() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
