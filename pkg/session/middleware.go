package session

import "net/http"

// Middleware resolves the session cookie on every request and, when valid,
// stores the session in the request context. Unresolvable sessions pass
// through as anonymous; protected routes enforce authentication separately.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := m.Resolve(r.Context(), r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}
