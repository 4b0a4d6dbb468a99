package auth

import (
	"net/http"

	"github.com/pencraft/pencraft/pkg/response"
	"github.com/pencraft/pencraft/pkg/session"
)

// RequireUser guards routes that need an authenticated user. It expects the
// session middleware to have run already; a missing session, or a session
// whose account no longer exists, yields 401 without touching the handler.
func RequireUser(users UserStorage) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := session.FromContext(r.Context())
			if !ok {
				response.Message(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			user, err := users.GetUserByID(r.Context(), sess.UserID)
			if err != nil {
				response.Message(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}
