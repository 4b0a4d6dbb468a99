package auth

import "errors"

// General authentication errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)

// Password reset errors
var (
	ErrResetAlreadyPending = errors.New("a reset link has already been sent")
	ErrTokenInvalid        = errors.New("invalid or expired token")
	ErrEmailDispatch       = errors.New("failed to dispatch reset email")
)

// OAuth errors
var (
	ErrInvalidState  = errors.New("invalid OAuth state")
	ErrStateNotFound = errors.New("OAuth state not found or expired")
	ErrInvalidCode   = errors.New("invalid OAuth code")
	ErrNoProviderID  = errors.New("provider profile missing subject id")
)
