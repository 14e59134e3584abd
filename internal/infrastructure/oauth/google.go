// Package oauth talks to external identity providers.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/oksasatya/go-ddd-diary/internal/domain/entity"
)

const defaultUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// ErrNotConfigured is returned when no client id/secret were provided.
var ErrNotConfigured = errors.New("google oauth is not configured")

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// Overridable for tests.
	AuthURL     string
	TokenURL    string
	UserInfoURL string
}

type Google struct {
	cfg         *oauth2.Config
	userInfoURL string
}

func NewGoogle(c GoogleConfig) *Google {
	endpoint := google.Endpoint
	if c.AuthURL != "" {
		endpoint.AuthURL = c.AuthURL
	}
	if c.TokenURL != "" {
		endpoint.TokenURL = c.TokenURL
	}
	userInfo := c.UserInfoURL
	if userInfo == "" {
		userInfo = defaultUserInfoURL
	}
	return &Google{
		cfg: &oauth2.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			RedirectURL:  c.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     endpoint,
		},
		userInfoURL: userInfo,
	}
}

func (g *Google) Configured() bool {
	return g.cfg.ClientID != "" && g.cfg.ClientSecret != ""
}

// AuthCodeURL returns the consent page URL carrying state.
func (g *Google) AuthCodeURL(state string) string {
	return g.cfg.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

type userInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// Exchange trades the authorization code for a token and fetches the
// profile it grants access to.
func (g *Google) Exchange(ctx context.Context, code string) (*entity.OAuthIdentity, error) {
	if !g.Configured() {
		return nil, ErrNotConfigured
	}
	tok, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build userinfo request: %w", err)
	}
	resp, err := g.cfg.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, fmt.Errorf("userinfo request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read userinfo: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo status %d: %s", resp.StatusCode, body)
	}
	var info userInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	if info.Sub == "" || info.Email == "" {
		return nil, errors.New("userinfo missing sub or email")
	}
	return &entity.OAuthIdentity{
		Provider:      entity.ProviderGoogle,
		Subject:       info.Sub,
		Email:         entity.NormalizeEmail(info.Email),
		EmailVerified: info.EmailVerified,
		Name:          info.Name,
	}, nil
}
