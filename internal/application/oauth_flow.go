package application

import (
	"context"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-diary/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-diary/internal/domain/entity"
)

// OAuthProvider performs the provider side of the authorization code flow.
type OAuthProvider interface {
	Configured() bool
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*entity.OAuthIdentity, error)
}

// StateStore issues single-use anti-forgery nonces for the OAuth redirect.
type StateStore interface {
	Issue(ctx context.Context) (string, error)
	Consume(ctx context.Context, state string) (bool, error)
}

// OAuthFlow drives the browser redirects around CompleteOAuth.
type OAuthFlow struct {
	Provider    OAuthProvider
	States      StateStore
	Auth        *AuthService
	ClientURL   string
	SuccessPath string
	Logger      *logrus.Logger
}

// Begin returns the provider consent URL for a fresh state nonce.
func (f *OAuthFlow) Begin(ctx context.Context) (string, error) {
	if f.Provider == nil || !f.Provider.Configured() {
		return "", apperror.New(apperror.KindUnavailable, "google login is not configured")
	}
	state, err := f.States.Issue(ctx)
	if err != nil {
		return "", apperror.Unavailable(err)
	}
	return f.Provider.AuthCodeURL(state), nil
}

// Callback validates state, exchanges the code and returns the client URL to
// redirect to. It always returns a URL; failures carry ?error=<code>.
func (f *OAuthFlow) Callback(ctx context.Context, state, code, providerErr string) string {
	if providerErr != "" {
		return f.failure("access_denied")
	}
	ok, err := f.States.Consume(ctx, state)
	if err != nil {
		f.warn(err, "oauth state lookup failed")
		return f.failure("unavailable")
	}
	if !ok || code == "" {
		return f.failure("invalid_state")
	}
	id, err := f.Provider.Exchange(ctx, code)
	if err != nil {
		f.warn(err, "oauth code exchange failed")
		return f.failure("exchange_failed")
	}
	res, err := f.Auth.CompleteOAuth(ctx, id)
	if err != nil {
		return f.failure(apperror.KindOf(err).String())
	}
	return f.success(res.Token)
}

func (f *OAuthFlow) base() string { return strings.TrimRight(f.ClientURL, "/") }

func (f *OAuthFlow) success(token string) string {
	path := f.SuccessPath
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return f.base() + path + "?" + url.Values{"token": {token}}.Encode()
}

func (f *OAuthFlow) failure(code string) string {
	return f.base() + "/login?" + url.Values{"error": {code}}.Encode()
}

func (f *OAuthFlow) warn(err error, msg string) {
	if f.Logger != nil {
		f.Logger.WithError(err).Warn(msg)
	}
}
