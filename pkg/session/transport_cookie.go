package session

import (
	"net/http"
	"time"

	"github.com/pencraft/pencraft/pkg/cookie"
)

// CookieTransport carries the session token in an HMAC-signed, HttpOnly
// cookie.
type CookieTransport struct {
	cookieMgr   *cookie.Manager
	cookieName  string
	secure      bool
	crossOrigin bool
}

// NewCookieTransport creates a cookie-based transport. When crossOrigin is
// set the cookie is issued with SameSite=None so a SPA on another origin can
// send it; browsers require Secure alongside None.
func NewCookieTransport(cookieMgr *cookie.Manager, cookieName string, secure, crossOrigin bool) *CookieTransport {
	return &CookieTransport{
		cookieMgr:   cookieMgr,
		cookieName:  cookieName,
		secure:      secure || crossOrigin,
		crossOrigin: crossOrigin,
	}
}

// GetToken extracts and verifies the session token from the cookie.
func (t *CookieTransport) GetToken(r *http.Request) (string, error) {
	token, err := t.cookieMgr.GetSigned(r, t.cookieName)
	if err != nil {
		return "", ErrSessionNotFound
	}
	return token, nil
}

// SetToken stores the session token in a signed cookie.
func (t *CookieTransport) SetToken(w http.ResponseWriter, token string, ttl time.Duration) error {
	sameSite := http.SameSiteLaxMode
	if t.crossOrigin {
		sameSite = http.SameSiteNoneMode
	}

	return t.cookieMgr.SetSigned(w, t.cookieName, token,
		cookie.WithMaxAge(int(ttl.Seconds())),
		cookie.WithPath("/"),
		cookie.WithHTTPOnly(true),
		cookie.WithSameSite(sameSite),
		cookie.WithSecure(t.secure),
	)
}

// ClearToken removes the session cookie.
func (t *CookieTransport) ClearToken(w http.ResponseWriter) error {
	t.cookieMgr.Delete(w, t.cookieName)
	return nil
}
