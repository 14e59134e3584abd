package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-diary/pkg/helpers"
	"github.com/oksasatya/go-ddd-diary/pkg/response"
)

// CtxUserIDKey holds the authenticated subject id in the gin context.
const CtxUserIDKey = "userID"

// RejectionRecorder counts requests turned away by Authenticate.
type RejectionRecorder interface {
	AuthRejected(reason string)
}

func bearer(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

func reject(c *gin.Context, rec RejectionRecorder, reason, message string, expired bool) {
	if rec != nil {
		rec.AuthRejected(reason)
	}
	response.Abort(c, http.StatusUnauthorized, message, response.ErrorBody{Code: "unauthenticated", Expired: &expired})
}

// Authenticate verifies the bearer token and stores its subject under
// CtxUserIDKey. It never touches the credential store and never refreshes
// the token. rec may be nil.
func Authenticate(tokens *helpers.TokenService, rec RejectionRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearer(c)
		if raw == "" {
			reject(c, rec, "missing", "missing token", false)
			return
		}
		claims, err := tokens.Verify(raw)
		if errors.Is(err, helpers.ErrTokenExpired) {
			reject(c, rec, "expired", "token expired", true)
			return
		}
		if err != nil {
			reject(c, rec, "invalid", "invalid token", false)
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Next()
	}
}

// UserID returns the subject set by Authenticate.
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserIDKey)
}
