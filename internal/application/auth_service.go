package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-diary/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-diary/internal/domain/entity"
	"github.com/oksasatya/go-ddd-diary/internal/domain/repository"
	"github.com/oksasatya/go-ddd-diary/pkg/helpers"
)

const (
	msgInvalidCredentials = "invalid credentials"
	msgUseGoogle          = "use Google login"
	msgEmailTaken         = "email already registered"
)

type AuthService struct {
	Users  repository.UserRepository
	Tokens *helpers.TokenService
	Logger *logrus.Logger
	Now    func() time.Time
}

func NewAuthService(users repository.UserRepository, tokens *helpers.TokenService, logger *logrus.Logger) *AuthService {
	return &AuthService{Users: users, Tokens: tokens, Logger: logger, Now: time.Now}
}

// AuthResult is returned by every successful sign-in path.
type AuthResult struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
	User      entity.PublicUser `json:"user"`
}

const maxPasswordBytes = 72

type SignupInput struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *AuthService) unavailable(err error, msg string) error {
	helpers.LogError(s.Logger, msg, err, nil)
	return apperror.Unavailable(err)
}

func (s *AuthService) issue(u *entity.User) (*AuthResult, error) {
	token, exp, err := s.Tokens.Issue(u.ID)
	if err != nil {
		return nil, s.unavailable(err, "issue token")
	}
	return &AuthResult{Token: token, ExpiresAt: exp, User: u.Public()}, nil
}

// Signup creates a local account. A duplicate email is reported with the
// InvalidCredentials kind and never reveals anything about the other account.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	email := entity.NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if email == "" || name == "" || in.Password == "" {
		return nil, apperror.InvalidInput("name, email and password are required", nil)
	}
	// bcrypt reads at most 72 bytes; the binding's max counts runes.
	if len(in.Password) > maxPasswordBytes {
		return nil, apperror.InvalidInput("password too long", map[string]string{"password": "must be at most 72 bytes"})
	}

	_, err := s.Users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, apperror.InvalidCredentials(msgEmailTaken)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, s.unavailable(err, "signup lookup")
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, s.unavailable(err, "hash password")
	}
	now := s.Now().UTC()
	u := &entity.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Provider:     entity.ProviderLocal,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.InvalidCredentials(msgEmailTaken)
		}
		return nil, s.unavailable(err, "create user")
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Info("user signed up")
	}
	return s.issue(u)
}

// Login checks a password for a local account. Unknown email and wrong
// password share one message; accounts without a password are told to use Google.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	u, err := s.Users.FindByEmail(ctx, in.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.InvalidCredentials(msgInvalidCredentials)
	}
	if err != nil {
		return nil, s.unavailable(err, "login lookup")
	}
	if !u.HasPassword() {
		return nil, apperror.InvalidCredentials(msgUseGoogle)
	}
	if !helpers.VerifyPassword(u.PasswordHash, in.Password) {
		return nil, apperror.InvalidCredentials(msgInvalidCredentials)
	}
	return s.issue(u)
}

// Me returns the account behind an authenticated subject id.
func (s *AuthService) Me(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.New(apperror.KindUnauthenticated, "account no longer exists")
	}
	if err != nil {
		return nil, s.unavailable(err, "me lookup")
	}
	return u, nil
}

// CompleteOAuth resolves a provider identity to an account and issues a token.
//
// Lookup order: (provider, subject), then email. An existing account with the
// same email is reused only when the provider vouches for the email; it is
// never modified. Otherwise a new provider account without a password is created.
func (s *AuthService) CompleteOAuth(ctx context.Context, id *entity.OAuthIdentity) (*AuthResult, error) {
	if id == nil || id.Subject == "" || id.Email == "" {
		return nil, apperror.InvalidCredentials(msgInvalidCredentials)
	}
	u, err := s.Users.FindByOAuthID(ctx, id.Provider, id.Subject)
	if err == nil {
		return s.issue(u)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, s.unavailable(err, "oauth lookup")
	}

	u, err = s.Users.FindByEmail(ctx, id.Email)
	switch {
	case err == nil:
		if !id.EmailVerified {
			return nil, apperror.InvalidCredentials(msgInvalidCredentials)
		}
		if s.Logger != nil {
			s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "provider": id.Provider}).Info("oauth login resolved by verified email")
		}
		return s.issue(u)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, s.unavailable(err, "oauth email lookup")
	}

	now := s.Now().UTC()
	u = &entity.User{
		ID:        uuid.NewString(),
		Email:     entity.NormalizeEmail(id.Email),
		Name:      strings.TrimSpace(id.Name),
		Provider:  id.Provider,
		OAuthID:   id.Subject,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost a race with a concurrent callback for the same subject.
			if existing, ferr := s.Users.FindByOAuthID(ctx, id.Provider, id.Subject); ferr == nil {
				return s.issue(existing)
			}
		}
		return nil, s.unavailable(err, "create oauth user")
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "provider": id.Provider}).Info("oauth user created")
	}
	return s.issue(u)
}
