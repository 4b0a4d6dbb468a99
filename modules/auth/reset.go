package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/pencraft/pencraft/pkg/email"
	"github.com/pencraft/pencraft/pkg/logger"
	"github.com/pencraft/pencraft/pkg/sanitizer"
	"github.com/pencraft/pencraft/pkg/validator"
)

const (
	resetTokenBytes  = 64
	defaultResetTTL  = time.Hour
	emailSendTimeout = 10 * time.Second
)

// ResetService implements the password reset flow: a single outstanding
// token per user, one hour expiry, consumed exactly once.
type ResetService struct {
	storage    UserStorage
	mailer     email.EmailSender
	clientURL  string
	tokenTTL   time.Duration
	bcryptCost int
	log        *slog.Logger
}

// ResetOption configures a ResetService.
type ResetOption func(*ResetService)

// WithResetTTL overrides the token lifetime.
func WithResetTTL(ttl time.Duration) ResetOption {
	return func(s *ResetService) {
		s.tokenTTL = ttl
	}
}

// WithResetBcryptCost overrides the hashing cost. Lower it in tests only.
func WithResetBcryptCost(cost int) ResetOption {
	return func(s *ResetService) {
		s.bcryptCost = cost
	}
}

// WithResetLogger sets the service logger.
func WithResetLogger(log *slog.Logger) ResetOption {
	return func(s *ResetService) {
		s.log = log
	}
}

// NewResetService creates a password reset service. clientURL is the
// frontend origin the emailed reset link points at.
func NewResetService(storage UserStorage, mailer email.EmailSender, clientURL string, opts ...ResetOption) *ResetService {
	s := &ResetService{
		storage:    storage,
		mailer:     mailer,
		clientURL:  clientURL,
		tokenTTL:   defaultResetTTL,
		bcryptCost: bcrypt.DefaultCost,
		log:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Request issues a reset token for the account registered under email and
// dispatches the reset link. Unknown addresses yield ErrUserNotFound; an
// unexpired outstanding token yields ErrResetAlreadyPending.
func (s *ResetService) Request(ctx context.Context, rawEmail string) error {
	addr := sanitizer.NormalizeEmail(rawEmail)
	if err := validator.Apply(
		validator.Required("email", addr),
		validator.ValidEmail("email", addr),
	); err != nil {
		return err
	}

	user, err := s.storage.GetUserByEmail(ctx, addr)
	if err != nil {
		return err
	}

	token, err := generateResetToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	// The store write is conditional on no live token existing, so two
	// concurrent requests cannot both issue one.
	expiresAt := time.Now().Add(s.tokenTTL)
	if err := s.storage.IssueResetToken(ctx, user.ID.Hex(), token, expiresAt); err != nil {
		return err
	}

	sendCtx, cancel := context.WithTimeout(ctx, emailSendTimeout)
	defer cancel()

	if err := s.mailer.SendEmail(sendCtx, email.SendEmailParams{
		SendTo:   user.Email,
		Subject:  "Password Reset Request",
		BodyHTML: s.resetEmailBody(token),
		Tag:      "password-reset",
	}); err != nil {
		s.log.ErrorContext(ctx, "reset email dispatch failed",
			logger.Component("auth.reset"),
			logger.UserID(user.ID.Hex()),
			logger.Error(err),
		)
		return errors.Join(ErrEmailDispatch, err)
	}

	s.log.InfoContext(ctx, "reset token issued",
		logger.Component("auth.reset"),
		logger.UserID(user.ID.Hex()),
	)
	return nil
}

// Validate reports whether token is known and unexpired without consuming
// it. The frontend calls this before showing the new-password form.
func (s *ResetService) Validate(ctx context.Context, token string) error {
	if token == "" {
		return ErrTokenInvalid
	}
	_, err := s.storage.GetUserByResetToken(ctx, token)
	return err
}

// Consume sets a new password for the token's owner and invalidates the
// token in the same atomic write. A second call with the same token fails
// with ErrTokenInvalid.
func (s *ResetService) Consume(ctx context.Context, token, newPassword string) (*User, error) {
	if token == "" {
		return nil, ErrTokenInvalid
	}
	if err := validator.Apply(
		validator.Required("new_password", newPassword),
		validator.MinLen("new_password", newPassword, minPasswordLen),
		validator.MaxLen("new_password", newPassword, maxPasswordLen),
	); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.storage.ConsumeResetToken(ctx, token, hash)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "password reset completed",
		logger.Component("auth.reset"),
		logger.UserID(user.ID.Hex()),
	)
	return user, nil
}

func (s *ResetService) resetEmailBody(token string) string {
	link := fmt.Sprintf("%s/reset-password/%s", s.clientURL, token)
	return fmt.Sprintf(
		`<h3>Password Reset</h3>
<p>Click the link below to reset your password:</p>
<p><a href=%q>%s</a></p>
<p>This link will expire in 1 hour. If you did not request a reset, you can ignore this email.</p>`,
		link, link,
	)
}

func generateResetToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
