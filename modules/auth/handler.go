package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/pencraft/pencraft/pkg/binder"
	"github.com/pencraft/pencraft/pkg/logger"
	"github.com/pencraft/pencraft/pkg/response"
	"github.com/pencraft/pencraft/pkg/sanitizer"
	"github.com/pencraft/pencraft/pkg/session"
	"github.com/pencraft/pencraft/pkg/validator"
)

// Handler exposes the authentication HTTP surface: local register/login,
// federated login, profile, logout and the password reset flow.
type Handler struct {
	users     UserStorage
	passwords *PasswordService
	oauth     *OAuthService
	reset     *ResetService
	sessions  *session.Manager
	clientURL string
	log       *slog.Logger
}

// NewHandler wires the auth services into an HTTP handler. clientURL is the
// frontend origin federated flows redirect back to.
func NewHandler(
	users UserStorage,
	passwords *PasswordService,
	oauth *OAuthService,
	reset *ResetService,
	sessions *session.Manager,
	clientURL string,
	log *slog.Logger,
) *Handler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Handler{
		users:     users,
		passwords: passwords,
		oauth:     oauth,
		reset:     reset,
		sessions:  sessions,
		clientURL: clientURL,
		log:       log,
	}
}

// Routes returns the router for the authentication endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)

	r.Get("/auth/google", h.oauthRedirect)
	r.Get("/auth/callback", h.oauthCallback)

	r.Post("/forgot-password", h.forgotPassword)
	r.Get("/reset-password/{token}", h.verifyResetToken)
	r.Post("/reset-password/{token}", h.resetPassword)

	r.Group(func(r chi.Router) {
		r.Use(RequireUser(h.users))
		r.Get("/profile", h.getProfile)
		r.Put("/profile", h.updateProfile)
	})

	return r
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var params RegisterParams
	if err := binder.JSON(r, &params); err != nil {
		response.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := h.passwords.Register(r.Context(), params); err != nil {
		switch {
		case errors.Is(err, ErrEmailAlreadyExists):
			response.Message(w, http.StatusBadRequest, "Email already exists")
		case validator.ExtractValidationErrors(err) != nil:
			response.Message(w, http.StatusBadRequest, err.Error())
		default:
			h.serverError(w, r, "register failed", err)
		}
		return
	}

	response.Message(w, http.StatusCreated, "User registered successfully")
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var params struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := binder.JSON(r, &params); err != nil {
		response.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.passwords.Authenticate(r.Context(), params.Email, params.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Message(w, http.StatusBadRequest, "Invalid credentials")
			return
		}
		h.serverError(w, r, "login failed", err)
		return
	}

	if _, err := h.sessions.Create(r.Context(), w, user.ID.Hex()); err != nil {
		h.serverError(w, r, "session create failed", err)
		return
	}

	response.JSON(w, http.StatusOK, response.M{
		"message": "Login successful",
		"user":    user.PublicProfile(),
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context(), w, r); err != nil {
		h.serverError(w, r, "logout failed", err)
		return
	}
	response.Message(w, http.StatusOK, "Logout successful")
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		response.Message(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	response.JSON(w, http.StatusOK, response.M{"user": user.PublicProfile()})
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		response.Message(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var params struct {
		FullName *string `json:"fullname"`
		Bio      *string `json:"bio"`
	}
	if err := binder.JSON(r, &params); err != nil {
		response.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if params.FullName != nil {
		trimmed := sanitizer.TrimSpace(*params.FullName)
		if err := validator.Apply(
			validator.Required("fullname", trimmed),
			validator.MaxLen("fullname", trimmed, maxNameLen),
		); err != nil {
			response.Message(w, http.StatusBadRequest, err.Error())
			return
		}
		params.FullName = &trimmed
	}

	updated, err := h.users.UpdateProfile(r.Context(), user.ID.Hex(), params.FullName, params.Bio)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.Message(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		h.serverError(w, r, "profile update failed", err)
		return
	}

	response.JSON(w, http.StatusOK, response.M{
		"message": "Profile updated",
		"user":    updated.PublicProfile(),
	})
}

func (h *Handler) oauthRedirect(w http.ResponseWriter, r *http.Request) {
	authURL, err := h.oauth.AuthURL(r.Context())
	if err != nil {
		h.log.ErrorContext(r.Context(), "oauth redirect failed",
			logger.Component("auth.handler"),
			logger.Error(err),
		)
		h.loginRedirect(w, r, "server_error")
		return
	}
	http.Redirect(w, r, authURL, http.StatusFound)
}

func (h *Handler) oauthCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	// The provider signals denied consent and its own failures through the
	// error query parameter instead of a code.
	if provErr := q.Get("error"); provErr != "" {
		h.loginRedirect(w, r, provErr)
		return
	}

	user, err := h.oauth.Callback(r.Context(), q.Get("code"), q.Get("state"))
	if err != nil {
		h.log.WarnContext(r.Context(), "oauth callback rejected",
			logger.Component("auth.handler"),
			logger.Error(err),
		)
		h.loginRedirect(w, r, "auth_failed")
		return
	}

	// The session must be durably stored before the redirect is written;
	// the browser follows it immediately and the very next request has to
	// resolve as authenticated.
	if _, err := h.sessions.Create(r.Context(), w, user.ID.Hex()); err != nil {
		h.log.ErrorContext(r.Context(), "session create failed",
			logger.Component("auth.handler"),
			logger.Error(err),
		)
		h.loginRedirect(w, r, "server_error")
		return
	}

	http.Redirect(w, r, h.clientURL, http.StatusFound)
}

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var params struct {
		Email string `json:"email"`
	}
	if err := binder.JSON(r, &params); err != nil {
		response.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.reset.Request(r.Context(), params.Email)
	switch {
	case err == nil:
		response.Message(w, http.StatusOK, "Reset email sent successfully")
	case errors.Is(err, ErrUserNotFound):
		response.Message(w, http.StatusNotFound, "User not found")
	case errors.Is(err, ErrResetAlreadyPending):
		response.Message(w, http.StatusBadRequest, "A reset link was already sent. Please check your email.")
	case validator.ExtractValidationErrors(err) != nil:
		response.Message(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrEmailDispatch):
		h.serverError(w, r, "reset email dispatch failed", err)
	default:
		h.serverError(w, r, "forgot password failed", err)
	}
}

func (h *Handler) verifyResetToken(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	if err := h.reset.Validate(r.Context(), token); err != nil {
		if errors.Is(err, ErrTokenInvalid) {
			response.Message(w, http.StatusBadRequest, "Invalid or expired token")
			return
		}
		h.serverError(w, r, "reset token check failed", err)
		return
	}

	response.Message(w, http.StatusOK, "Token valid")
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var params struct {
		NewPassword string `json:"new_password"`
	}
	if err := binder.JSON(r, &params); err != nil {
		response.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := h.reset.Consume(r.Context(), token, params.NewPassword); err != nil {
		switch {
		case errors.Is(err, ErrTokenInvalid):
			response.Message(w, http.StatusBadRequest, "Invalid or expired token")
		case validator.ExtractValidationErrors(err) != nil:
			response.Message(w, http.StatusBadRequest, err.Error())
		default:
			h.serverError(w, r, "password reset failed", err)
		}
		return
	}

	response.Message(w, http.StatusOK, "Password successfully reset")
}

func (h *Handler) loginRedirect(w http.ResponseWriter, r *http.Request, errCode string) {
	target := fmt.Sprintf("%s/login?error=%s", h.clientURL, url.QueryEscape(errCode))
	http.Redirect(w, r, target, http.StatusFound)
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.log.ErrorContext(r.Context(), msg,
		logger.Component("auth.handler"),
		logger.Error(err),
	)
	response.Message(w, http.StatusInternalServerError, "Server error")
}
