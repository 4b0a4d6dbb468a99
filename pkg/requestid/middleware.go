package requestid

import (
	"net/http"

	"github.com/google/uuid"
)

// Header is the request/response header carrying the correlation id.
const Header = "X-Request-ID"

const maxHeaderLength = 64

// Middleware attaches a request id to every request. A client-supplied
// X-Request-ID is reused when it looks sane; otherwise a new UUIDv4 is
// generated. The id is stored in the request context and echoed back in the
// response header.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(Header)
		if requestID == "" || len(requestID) > maxHeaderLength {
			requestID = uuid.NewString()
		}

		w.Header().Set(Header, requestID)
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), requestID)))
	})
}
