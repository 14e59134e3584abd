package application

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-ddd-diary/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-diary/internal/domain/entity"
	"github.com/oksasatya/go-ddd-diary/internal/domain/repository"
	"github.com/oksasatya/go-ddd-diary/internal/infrastructure/memory"
	"github.com/oksasatya/go-ddd-diary/pkg/helpers"
)

func init() {
	helpers.PasswordCost = bcrypt.MinCost
}

func newAuth(t *testing.T) (*AuthService, *memory.UserStore) {
	t.Helper()
	users := memory.NewUserStore()
	tokens := helpers.NewTokenService("test-secret", 7*24*time.Hour, "mydiary-test")
	return NewAuthService(users, tokens, helpers.NopLogger()), users
}

func subjectOf(t *testing.T, s *AuthService, token string) string {
	t.Helper()
	claims, err := s.Tokens.Verify(token)
	require.NoError(t, err)
	return claims.UserID
}

func TestSignup_TokenResolvesToNewUser(t *testing.T) {
	s, users := newAuth(t)
	ctx := context.Background()

	for _, in := range []SignupInput{
		{Name: "Ann", Email: "ann@x.com", Password: "secret1"},
		{Name: "Bo", Email: " BO@Example.org ", Password: "p"},
	} {
		res, err := s.Signup(ctx, in)
		require.NoError(t, err)

		stored, err := users.FindByEmail(ctx, in.Email)
		require.NoError(t, err)
		assert.Equal(t, stored.ID, res.User.ID)
		assert.Equal(t, stored.ID, subjectOf(t, s, res.Token))
		assert.Equal(t, entity.ProviderLocal, stored.Provider)
		assert.NotEqual(t, in.Password, stored.PasswordHash)
	}
}

func TestSignup_RejectsDuplicateAndMissingFields(t *testing.T) {
	s, _ := newAuth(t)
	ctx := context.Background()
	_, err := s.Signup(ctx, SignupInput{Name: "Ann", Email: "ann@x.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = s.Signup(ctx, SignupInput{Name: "Other", Email: "ANN@x.com", Password: "different"})
	assert.Equal(t, apperror.KindInvalidCredentials, apperror.KindOf(err))

	_, err = s.Signup(ctx, SignupInput{Name: " ", Email: "new@x.com", Password: "x"})
	assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err))
}

func TestSignup_PasswordLimitCountsBytes(t *testing.T) {
	s, users := newAuth(t)
	_, err := s.Signup(context.Background(), SignupInput{Name: "Zoé", Email: "zoe@x.com", Password: strings.Repeat("é", 37)})
	assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err))
	assert.NotErrorIs(t, err, bcrypt.ErrPasswordTooLong)

	_, err = users.FindByEmail(context.Background(), "zoe@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSignupThenLogin_CaseInsensitiveEmail(t *testing.T) {
	s, _ := newAuth(t)
	ctx := context.Background()

	signed, err := s.Signup(ctx, SignupInput{Name: "Ann", Email: "ANN@x.com", Password: "secret1"})
	require.NoError(t, err)

	logged, err := s.Login(ctx, LoginInput{Email: "ann@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, signed.User.ID, subjectOf(t, s, logged.Token))
	assert.Equal(t, "ann@x.com", logged.User.Email)
}

func TestLogin_NoMatchingLocalAccount(t *testing.T) {
	s, users := newAuth(t)
	ctx := context.Background()
	_, err := s.Signup(ctx, SignupInput{Name: "Ann", Email: "ann@x.com", Password: "secret1"})
	require.NoError(t, err)
	require.NoError(t, users.Create(ctx, &entity.User{ID: "g1", Email: "gina@x.com", Provider: entity.ProviderGoogle, OAuthID: "sub-1"}))

	cases := []struct {
		name, email, password, msg string
	}{
		{"unknown email", "nobody@x.com", "secret1", msgInvalidCredentials},
		{"wrong password", "ann@x.com", "secret2", msgInvalidCredentials},
		{"google account", "gina@x.com", "anything", msgUseGoogle},
		{"google account empty password", "gina@x.com", "", msgUseGoogle},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := s.Login(ctx, LoginInput{Email: tc.email, Password: tc.password})
			assert.Nil(t, res)
			var ae *apperror.Error
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, apperror.KindInvalidCredentials, ae.Kind)
			assert.Equal(t, tc.msg, ae.Message)
		})
	}
}

type mockUsers struct {
	mock.Mock
}

func (m *mockUsers) Create(ctx context.Context, u *entity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUsers) Save(ctx context.Context, u *entity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUsers) user(args mock.Arguments) (*entity.User, error) {
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *mockUsers) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return m.user(m.Called(ctx, id))
}

func (m *mockUsers) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return m.user(m.Called(ctx, email))
}

func (m *mockUsers) FindByOAuthID(ctx context.Context, p entity.Provider, id string) (*entity.User, error) {
	return m.user(m.Called(ctx, p, id))
}

func (m *mockUsers) ListAll(ctx context.Context) ([]*entity.User, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]*entity.User)
	return list, args.Error(1)
}

func TestLogin_StoreFailureIsUnavailable(t *testing.T) {
	users := new(mockUsers)
	users.On("FindByEmail", mock.Anything, "ann@x.com").Return(nil, errors.New("connection refused"))
	s := NewAuthService(users, helpers.NewTokenService("k", time.Hour, ""), helpers.NopLogger())

	_, err := s.Login(context.Background(), LoginInput{Email: "ann@x.com", Password: "x"})
	var ae *apperror.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperror.KindUnavailable, ae.Kind)
	assert.Equal(t, "service unavailable", ae.Message)
	users.AssertExpectations(t)
}

func TestMe(t *testing.T) {
	s, _ := newAuth(t)
	ctx := context.Background()
	res, err := s.Signup(ctx, SignupInput{Name: "Ann", Email: "ann@x.com", Password: "secret1"})
	require.NoError(t, err)

	u, err := s.Me(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", u.Name)

	_, err = s.Me(ctx, "ghost")
	assert.Equal(t, apperror.KindUnauthenticated, apperror.KindOf(err))
}

func TestCompleteOAuth(t *testing.T) {
	ctx := context.Background()

	t.Run("creates google account without password", func(t *testing.T) {
		s, users := newAuth(t)
		res, err := s.CompleteOAuth(ctx, &entity.OAuthIdentity{Provider: entity.ProviderGoogle, Subject: "sub-1", Email: "g@x.com", EmailVerified: true, Name: "G"})
		require.NoError(t, err)

		u, err := users.FindByOAuthID(ctx, entity.ProviderGoogle, "sub-1")
		require.NoError(t, err)
		assert.Equal(t, u.ID, subjectOf(t, s, res.Token))
		assert.Empty(t, u.PasswordHash)

		_, err = s.Login(ctx, LoginInput{Email: "g@x.com", Password: "whatever"})
		assert.Equal(t, apperror.KindInvalidCredentials, apperror.KindOf(err))
	})

	t.Run("returning subject resolves to same account", func(t *testing.T) {
		s, _ := newAuth(t)
		id := &entity.OAuthIdentity{Provider: entity.ProviderGoogle, Subject: "sub-1", Email: "g@x.com", EmailVerified: true}
		first, err := s.CompleteOAuth(ctx, id)
		require.NoError(t, err)
		second, err := s.CompleteOAuth(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, first.User.ID, second.User.ID)
	})

	t.Run("verified email reuses local account untouched", func(t *testing.T) {
		s, users := newAuth(t)
		local, err := s.Signup(ctx, SignupInput{Name: "Ann", Email: "ann@x.com", Password: "secret1"})
		require.NoError(t, err)

		res, err := s.CompleteOAuth(ctx, &entity.OAuthIdentity{Provider: entity.ProviderGoogle, Subject: "sub-9", Email: "ann@x.com", EmailVerified: true})
		require.NoError(t, err)
		assert.Equal(t, local.User.ID, res.User.ID)

		u, err := users.FindByID(ctx, local.User.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.ProviderLocal, u.Provider)
		assert.True(t, u.HasPassword())

		_, err = s.Login(ctx, LoginInput{Email: "ann@x.com", Password: "secret1"})
		assert.NoError(t, err)
	})

	t.Run("unverified email colliding with an account is rejected", func(t *testing.T) {
		s, _ := newAuth(t)
		_, err := s.Signup(ctx, SignupInput{Name: "Ann", Email: "ann@x.com", Password: "secret1"})
		require.NoError(t, err)

		_, err = s.CompleteOAuth(ctx, &entity.OAuthIdentity{Provider: entity.ProviderGoogle, Subject: "sub-9", Email: "ann@x.com"})
		assert.Equal(t, apperror.KindInvalidCredentials, apperror.KindOf(err))
	})

	t.Run("store write failure is unavailable", func(t *testing.T) {
		users := new(mockUsers)
		users.On("FindByOAuthID", mock.Anything, entity.ProviderGoogle, "sub-1").Return(nil, repository.ErrNotFound)
		users.On("FindByEmail", mock.Anything, "g@x.com").Return(nil, repository.ErrNotFound)
		users.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).Return(errors.New("disk full"))
		s := NewAuthService(users, helpers.NewTokenService("k", time.Hour, ""), helpers.NopLogger())

		_, err := s.CompleteOAuth(ctx, &entity.OAuthIdentity{Provider: entity.ProviderGoogle, Subject: "sub-1", Email: "g@x.com"})
		assert.Equal(t, apperror.KindUnavailable, apperror.KindOf(err))
		users.AssertExpectations(t)
	})
}
