package helpers

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestTokenService(clock *fakeClock) *TokenService {
	return NewTokenService("test-secret", 7*24*time.Hour, "mydiary-test").WithClock(clock.Now)
}

func TestTokenService_RoundTrip(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	svc := newTestTokenService(clock)

	for _, id := range []string{"u-1", "0b0c8f8e-3a84-4b7e-9a3e-5d0e2b8c1f00", "x"} {
		tok, exp, err := svc.Issue(id)
		require.NoError(t, err)
		assert.Equal(t, clock.t.Add(7*24*time.Hour), exp)

		claims, err := svc.Verify(tok)
		require.NoError(t, err)
		assert.Equal(t, id, claims.UserID)
		assert.Equal(t, id, claims.Subject)
		assert.Equal(t, "mydiary-test", claims.Issuer)
	}
}

func TestTokenService_ExpiresAfterValidity(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	svc := newTestTokenService(clock)

	tok, _, err := svc.IssueFor("u-1", time.Hour)
	require.NoError(t, err)

	clock.t = clock.t.Add(59 * time.Minute)
	_, err = svc.Verify(tok)
	require.NoError(t, err)

	clock.t = clock.t.Add(time.Minute + 2*time.Second)
	_, err = svc.Verify(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func flipSignature(tok string) string {
	parts := strings.Split(tok, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	parts[2] = string(sig)
	return strings.Join(parts, ".")
}

func TestTokenService_TamperedSignatureIsInvalid(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	svc := newTestTokenService(clock)
	tok, _, err := svc.Issue("u-1")
	require.NoError(t, err)

	_, err = svc.Verify(flipSignature(tok))
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_TamperedExpiredTokenIsInvalidNotExpired(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	svc := newTestTokenService(clock)
	tok, _, err := svc.IssueFor("u-1", time.Minute)
	require.NoError(t, err)

	clock.t = clock.t.Add(time.Hour)
	_, err = svc.Verify(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)

	_, err = svc.Verify(flipSignature(tok))
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_InvalidInputs(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	svc := newTestTokenService(clock)

	other := NewTokenService("another-secret", time.Hour, "mydiary-test")
	foreign, _, err := other.Issue("u-1")
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID: "u-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: "u-1", RegisteredClaims: jwt.RegisteredClaims{Subject: "u-1"}})
	noExpTok, err := noExp.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	cases := map[string]string{
		"empty":         "",
		"garbage":       "not-a-token",
		"two segments":  "abc.def",
		"wrong secret":  foreign,
		"alg none":      unsigned,
		"no expiration": noExpTok,
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Verify(tok)
			assert.ErrorIs(t, err, ErrTokenInvalid)
		})
	}
}

func TestTokenService_IssueRejectsEmptySubject(t *testing.T) {
	svc := NewTokenService("s", time.Hour, "i")
	_, _, err := svc.Issue("")
	assert.Error(t, err)
}
