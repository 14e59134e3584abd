package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-diary/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

type rejections map[string]int

func (r rejections) AuthRejected(reason string) { r[reason]++ }

func gated(tokens *helpers.TokenService, rec RejectionRecorder) *gin.Engine {
	r := gin.New()
	r.GET("/me", Authenticate(tokens, rec), func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c))
	})
	return r
}

func call(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticateStates(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tokens := helpers.NewTokenService("secret", time.Hour, "diary").WithClock(func() time.Time { return now })
	valid, _, err := tokens.Issue("user-1")
	require.NoError(t, err)
	expired, _, err := tokens.IssueFor("user-1", -time.Minute)
	require.NoError(t, err)
	foreign, _, err := helpers.NewTokenService("other", time.Hour, "diary").WithClock(func() time.Time { return now }).Issue("user-1")
	require.NoError(t, err)

	rec := rejections{}
	r := gated(tokens, rec)

	tests := []struct {
		name    string
		header  string
		status  int
		expired string
	}{
		{"valid token", "Bearer " + valid, http.StatusOK, ""},
		{"lowercase scheme", "bearer " + valid, http.StatusOK, ""},
		{"no header", "", http.StatusUnauthorized, `"expired":false`},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized, `"expired":false`},
		{"expired token", "Bearer " + expired, http.StatusUnauthorized, `"expired":true`},
		{"foreign signature", "Bearer " + foreign, http.StatusUnauthorized, `"expired":false`},
		{"garbage", "Bearer not.a.jwt", http.StatusUnauthorized, `"expired":false`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := call(r, tc.header)
			assert.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, "user-1", w.Body.String())
				return
			}
			assert.Contains(t, w.Body.String(), tc.expired)
			assert.Contains(t, w.Body.String(), `"code":"unauthenticated"`)
		})
	}
	assert.Equal(t, 2, rec["missing"])
	assert.Equal(t, 1, rec["expired"])
	assert.Equal(t, 2, rec["invalid"])
}

func TestAuthenticateStopsChain(t *testing.T) {
	reached := false
	r := gin.New()
	r.GET("/me", Authenticate(helpers.NewTokenService("secret", time.Hour, "diary"), nil), func(c *gin.Context) {
		reached = true
	})
	w := call(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, reached)
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(w.Body.String())
	assert.NoError(t, err)
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, incoming)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, incoming, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "<script>", w.Body.String())
}

func TestRealIP(t *testing.T) {
	for _, tc := range []struct {
		name  string
		trust bool
		hdr   map[string]string
		want  string
	}{
		{"cloudflare header", true, map[string]string{"CF-Connecting-IP": "203.0.113.7"}, "203.0.113.7"},
		{"forwarded for", true, map[string]string{"X-Forwarded-For": "198.51.100.2, 10.0.0.1"}, "198.51.100.2"},
		{"untrusted headers ignored", false, map[string]string{"CF-Connecting-IP": "203.0.113.7"}, "192.0.2.1"},
		{"untrusted forwarded for ignored", false, map[string]string{"X-Forwarded-For": "198.51.100.2"}, "192.0.2.1"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.Use(RealIP(tc.trust))
			r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("real_ip")) })
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "192.0.2.1:1234"
			for k, v := range tc.hdr {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Body.String())
		})
	}
}

type observed struct {
	route  string
	status int
}

type recorder struct{ got []observed }

func (r *recorder) ObserveRequest(_, route string, status int, _ time.Duration) {
	r.got = append(r.got, observed{route, status})
}

func TestAccessLogObservesRouteTemplate(t *testing.T) {
	obs := &recorder{}
	r := gin.New()
	r.Use(AccessLog(helpers.NopLogger(), obs))
	r.GET("/diary/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/diary/abc", nil))
	require.Len(t, obs.got, 1)
	assert.Equal(t, observed{"/diary/:id", http.StatusNoContent}, obs.got[0])
}
