package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/pencraft/pencraft/pkg/logger"
	"github.com/pencraft/pencraft/pkg/sanitizer"
	"github.com/pencraft/pencraft/pkg/validator"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 128
	maxNameLen     = 100
)

// PasswordService implements local email/password registration and login.
type PasswordService struct {
	storage    UserStorage
	bcryptCost int
	log        *slog.Logger
}

// PasswordOption configures a PasswordService.
type PasswordOption func(*PasswordService)

// WithBcryptCost overrides the hashing cost. Lower it in tests only.
func WithBcryptCost(cost int) PasswordOption {
	return func(s *PasswordService) {
		s.bcryptCost = cost
	}
}

// WithPasswordLogger sets the service logger.
func WithPasswordLogger(log *slog.Logger) PasswordOption {
	return func(s *PasswordService) {
		s.log = log
	}
}

// NewPasswordService creates a local credentials service.
func NewPasswordService(storage UserStorage, opts ...PasswordOption) *PasswordService {
	s := &PasswordService{
		storage:    storage,
		bcryptCost: bcrypt.DefaultCost,
		log:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterParams carries the local signup input.
type RegisterParams struct {
	FullName string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register validates the input, rejects duplicate emails and creates a local
// account. The returned user carries the assigned id.
func (s *PasswordService) Register(ctx context.Context, params RegisterParams) (*User, error) {
	fullname := sanitizer.TrimSpace(params.FullName)
	email := sanitizer.NormalizeEmail(params.Email)

	if err := validator.Apply(
		validator.Required("fullname", fullname),
		validator.MaxLen("fullname", fullname, maxNameLen),
		validator.Required("email", email),
		validator.ValidEmail("email", email),
		validator.Required("password", params.Password),
		validator.MinLen("password", params.Password, minPasswordLen),
		validator.MaxLen("password", params.Password, maxPasswordLen),
	); err != nil {
		return nil, err
	}

	if _, err := s.storage.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("check email uniqueness: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		FullName:     fullname,
		Email:        email,
		PasswordHash: hash,
		Provider:     ProviderLocal,
	}
	if err := s.storage.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.InfoContext(ctx, "user registered",
		logger.Component("auth.password"),
		logger.UserID(user.ID.Hex()),
	)
	return user, nil
}

// Authenticate verifies an email/password pair. Every failure mode, unknown
// email, federated-only account, wrong password, collapses into
// ErrInvalidCredentials so responses cannot be used to probe for accounts.
func (s *PasswordService) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = sanitizer.NormalizeEmail(email)

	user, err := s.storage.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if len(user.PasswordHash) == 0 {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	s.log.InfoContext(ctx, "user authenticated",
		logger.Component("auth.password"),
		logger.UserID(user.ID.Hex()),
	)
	return user, nil
}
