package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// Auth0Config holds the Auth0 application settings.
type Auth0Config struct {
	Domain       string        `env:"AUTH0_DOMAIN,required"`
	ClientID     string        `env:"AUTH0_CLIENT_ID,required"`
	ClientSecret string        `env:"AUTH0_CLIENT_SECRET,required"`
	CallbackURL  string        `env:"AUTH0_CALLBACK_URL,required"`
	Connection   string        `env:"AUTH0_CONNECTION" envDefault:"google-oauth2"`
	StateTTL     time.Duration `env:"AUTH0_STATE_TTL" envDefault:"10m"`
}

// Auth0Adapter implements ProviderAdapter against an Auth0 tenant. The
// connection parameter pins which upstream identity provider Auth0 uses,
// so /auth/google skips the Auth0 login picker entirely.
type Auth0Adapter struct {
	conf       *oauth2.Config
	connection string
	userinfo   string
	httpClient *http.Client
}

// NewAuth0Adapter builds an adapter from config. The OAuth endpoints follow
// Auth0's fixed tenant layout: https://{domain}/authorize and /oauth/token.
func NewAuth0Adapter(cfg Auth0Config) *Auth0Adapter {
	return &Auth0Adapter{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  fmt.Sprintf("https://%s/authorize", cfg.Domain),
				TokenURL: fmt.Sprintf("https://%s/oauth/token", cfg.Domain),
			},
		},
		connection: cfg.Connection,
		userinfo:   fmt.Sprintf("https://%s/userinfo", cfg.Domain),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (a *Auth0Adapter) AuthURL(state string) string {
	return a.conf.AuthCodeURL(state, oauth2.SetAuthURLParam("connection", a.connection))
}

func (a *Auth0Adapter) ResolveProfile(ctx context.Context, code string) (ProviderProfile, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)

	token, err := a.conf.Exchange(ctx, code)
	if err != nil {
		return ProviderProfile{}, fmt.Errorf("%w: %w", ErrInvalidCode, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.userinfo, nil)
	if err != nil {
		return ProviderProfile{}, fmt.Errorf("build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return ProviderProfile{}, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ProviderProfile{}, fmt.Errorf("fetch userinfo: unexpected status %d", resp.StatusCode)
	}

	var info struct {
		Sub     string `json:"sub"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return ProviderProfile{}, fmt.Errorf("decode userinfo: %w", err)
	}

	return ProviderProfile{
		ProviderUserID: info.Sub,
		Email:          info.Email,
		Name:           info.Name,
		AvatarURL:      info.Picture,
	}, nil
}
