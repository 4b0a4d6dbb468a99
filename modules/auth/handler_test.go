package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pencraft/pencraft/modules/auth"
	"github.com/pencraft/pencraft/pkg/cookie"
	"github.com/pencraft/pencraft/pkg/session"
)

type gatewayFixture struct {
	router  http.Handler
	store   *memoryUserStore
	mailer  *captureMailer
	adapter *stubAdapter
}

func newGateway(t *testing.T) *gatewayFixture {
	t.Helper()

	store := newMemoryUserStore()
	mailer := &captureMailer{}
	adapter := &stubAdapter{profile: auth.ProviderProfile{
		ProviderUserID: "google-oauth2|777",
		Email:          "fed@example.com",
		Name:           "Fed User",
	}}

	cookieMgr, err := cookie.New([]string{"0123456789abcdef0123456789abcdef"})
	require.NoError(t, err)

	sessions := session.New(
		session.WithStore(session.NewMemoryStore()),
		session.WithCookieManager(cookieMgr),
	)

	handler := auth.NewHandler(
		store,
		auth.NewPasswordService(store, auth.WithBcryptCost(bcrypt.MinCost)),
		auth.NewOAuthService(store, newMemoryStateStore(), adapter),
		auth.NewResetService(store, mailer, testClientURL, auth.WithResetBcryptCost(bcrypt.MinCost)),
		sessions,
		testClientURL,
		nil,
	)

	r := chi.NewRouter()
	r.Use(sessions.Middleware)
	r.Mount("/", handler.Routes())

	return &gatewayFixture{router: r, store: store, mailer: mailer, adapter: adapter}
}

func (f *gatewayFixture) do(t *testing.T, method, target, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *gatewayFixture) register(t *testing.T, email string) {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/register",
		`{"fullname":"Test User","email":"`+email+`","password":"password1"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
}

func (f *gatewayFixture) login(t *testing.T, email string) []*http.Cookie {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/login",
		`{"email":"`+email+`","password":"password1"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Message
}

func TestGateway_RegisterLoginProfile(t *testing.T) {
	t.Parallel()

	f := newGateway(t)
	f.register(t, "walk@example.com")
	cookies := f.login(t, "walk@example.com")

	rec := f.do(t, http.MethodGet, "/profile", "", cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		User auth.Profile `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "walk@example.com", body.User.Email)
	assert.Equal(t, "Test User", body.User.FullName)

	// The hash never appears in any response.
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestGateway_RegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	f := newGateway(t)
	f.register(t, "dup@example.com")

	rec := f.do(t, http.MethodPost, "/register",
		`{"fullname":"Again","email":"dup@example.com","password":"password2"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already exists", decodeMessage(t, rec))
}

func TestGateway_LoginInvalidCredentials(t *testing.T) {
	t.Parallel()

	f := newGateway(t)
	f.register(t, "real@example.com")

	wrongPassword := f.do(t, http.MethodPost, "/login",
		`{"email":"real@example.com","password":"wrong-password"}`, nil)
	unknownEmail := f.do(t, http.MethodPost, "/login",
		`{"email":"ghost@example.com","password":"password1"}`, nil)

	assert.Equal(t, http.StatusBadRequest, wrongPassword.Code)
	assert.Equal(t, http.StatusBadRequest, unknownEmail.Code)
	assert.Equal(t, decodeMessage(t, wrongPassword), decodeMessage(t, unknownEmail))
	assert.Empty(t, wrongPassword.Result().Cookies())
}

func TestGateway_ProfileWithoutSession(t *testing.T) {
	t.Parallel()

	f := newGateway(t)
	rec := f.do(t, http.MethodGet, "/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGateway_TamperedCookieIsAnonymous(t *testing.T) {
	t.Parallel()

	f := newGateway(t)
	f.register(t, "tamper@example.com")
	cookies := f.login(t, "tamper@example.com")

	cookies[0].Value += "x"
	rec := f.do(t, http.MethodGet, "/profile", "", cookies)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGateway_Logout(t *testing.T) {
	t.Parallel()

	f := newGateway(t)
	f.register(t, "bye@example.com")
	cookies := f.login(t, "bye@example.com")

	rec := f.do(t, http.MethodPost, "/logout", "", cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	// The server-side record is gone; the old cookie no longer resolves.
	after := f.do(t, http.MethodGet, "/profile", "", cookies)
	assert.Equal(t, http.StatusUnauthorized, after.Code)

	// Logout without a session still succeeds.
	again := f.do(t, http.MethodPost, "/logout", "", nil)
	assert.Equal(t, http.StatusOK, again.Code)
}

func TestGateway_UpdateProfile(t *testing.T) {
	t.Parallel()

	f := newGateway(t)
	f.register(t, "edit@example.com")
	cookies := f.login(t, "edit@example.com")

	rec := f.do(t, http.MethodPut, "/profile",
		`{"fullname":"New Name","bio":"Writes about Go."}`, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		User auth.Profile `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "New Name", body.User.FullName)
	assert.Equal(t, "Writes about Go.", body.User.Bio)

	// Email is untouched by a partial update.
	assert.Equal(t, "edit@example.com", body.User.Email)
}

func TestGateway_DeletedUserSessionIsUnauthorized(t *testing.T) {
	t.Parallel()

	f := newGateway(t)
	f.register(t, "gone@example.com")
	cookies := f.login(t, "gone@example.com")

	f.store.mu.Lock()
	for id := range f.store.users {
		delete(f.store.users, id)
	}
	f.store.mu.Unlock()

	rec := f.do(t, http.MethodGet, "/profile", "", cookies)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGateway_ForgotPassword(t *testing.T) {
	t.Parallel()

	f := newGateway(t)
	f.register(t, "forgot@example.com")

	unknown := f.do(t, http.MethodPost, "/forgot-password",
		`{"email":"nobody@example.com"}`, nil)
	assert.Equal(t, http.StatusNotFound, unknown.Code)

	ok := f.do(t, http.MethodPost, "/forgot-password",
		`{"email":"forgot@example.com"}`, nil)
	assert.Equal(t, http.StatusOK, ok.Code)

	pending := f.do(t, http.MethodPost, "/forgot-password",
		`{"email":"forgot@example.com"}`, nil)
	assert.Equal(t, http.StatusBadRequest, pending.Code)
}

func TestGateway_ResetPasswordFlow(t *testing.T) {
	t.Parallel()

	f := newGateway(t)
	f.register(t, "cycle@example.com")

	rec := f.do(t, http.MethodPost, "/forgot-password",
		`{"email":"cycle@example.com"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	sent, okSent := f.mailer.lastSent()
	require.True(t, okSent)
	idx := strings.LastIndex(sent.BodyHTML, "/reset-password/")
	require.Positive(t, idx)
	token := sent.BodyHTML[idx+len("/reset-password/"):]
	token = token[:strings.IndexAny(token, "\"<")]

	verify := f.do(t, http.MethodGet, "/reset-password/"+token, "", nil)
	assert.Equal(t, http.StatusOK, verify.Code)

	reset := f.do(t, http.MethodPost, "/reset-password/"+token,
		`{"new_password":"brand-new-pass"}`, nil)
	require.Equal(t, http.StatusOK, reset.Code)

	// The token is spent.
	replay := f.do(t, http.MethodPost, "/reset-password/"+token,
		`{"new_password":"other-pass"}`, nil)
	assert.Equal(t, http.StatusBadRequest, replay.Code)

	// Old password no longer works, new one does.
	oldLogin := f.do(t, http.MethodPost, "/login",
		`{"email":"cycle@example.com","password":"password1"}`, nil)
	assert.Equal(t, http.StatusBadRequest, oldLogin.Code)

	newLogin := f.do(t, http.MethodPost, "/login",
		`{"email":"cycle@example.com","password":"brand-new-pass"}`, nil)
	assert.Equal(t, http.StatusOK, newLogin.Code)
}

func TestGateway_VerifyUnknownResetToken(t *testing.T) {
	t.Parallel()

	f := newGateway(t)
	rec := f.do(t, http.MethodGet, "/reset-password/deadbeef", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid or expired token", decodeMessage(t, rec))
}

func TestGateway_OAuthRedirect(t *testing.T) {
	t.Parallel()

	f := newGateway(t)
	rec := f.do(t, http.MethodGet, "/auth/google", "", nil)
	require.Equal(t, http.StatusFound, rec.Code)

	location := rec.Header().Get("Location")
	require.NotEmpty(t, location)
	parsed, err := url.Parse(location)
	require.NoError(t, err)
	assert.NotEmpty(t, parsed.Query().Get("state"))
}

func TestGateway_OAuthCallback(t *testing.T) {
	t.Parallel()

	stateFor := func(t *testing.T, f *gatewayFixture) string {
		t.Helper()
		rec := f.do(t, http.MethodGet, "/auth/google", "", nil)
		require.Equal(t, http.StatusFound, rec.Code)
		parsed, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		return parsed.Query().Get("state")
	}

	t.Run("success sets a resolvable session before redirecting", func(t *testing.T) {
		t.Parallel()

		f := newGateway(t)
		state := stateFor(t, f)

		rec := f.do(t, http.MethodGet, "/auth/callback?code=ok&state="+state, "", nil)
		require.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, testClientURL, rec.Header().Get("Location"))

		// The cookie issued alongside the redirect already resolves.
		profile := f.do(t, http.MethodGet, "/profile", "", rec.Result().Cookies())
		require.Equal(t, http.StatusOK, profile.Code)
		assert.Contains(t, profile.Body.String(), "fed@example.com")
	})

	t.Run("forged state redirects to login with an error", func(t *testing.T) {
		t.Parallel()

		f := newGateway(t)
		rec := f.do(t, http.MethodGet, "/auth/callback?code=ok&state=forged", "", nil)
		require.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, testClientURL+"/login?error=auth_failed", rec.Header().Get("Location"))
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("provider error redirects without consuming anything", func(t *testing.T) {
		t.Parallel()

		f := newGateway(t)
		rec := f.do(t, http.MethodGet, "/auth/callback?error=access_denied", "", nil)
		require.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, testClientURL+"/login?error=access_denied", rec.Header().Get("Location"))
	})
}
