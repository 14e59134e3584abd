package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-diary/internal/application"
	"github.com/oksasatya/go-ddd-diary/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-diary/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-diary/pkg/response"
)

type AuthHandler struct {
	Svc    *application.AuthService
	OAuth  *application.OAuthFlow
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, oauth *application.OAuthFlow, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, OAuth: oauth, Logger: logger}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req application.SignupInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	res, err := h.Svc.Signup(c.Request.Context(), req)
	if err != nil {
		// a taken email is a bad request here, not a failed login
		status := 0
		if apperror.KindOf(err) == apperror.KindInvalidCredentials {
			status = http.StatusBadRequest
		}
		writeErrorStatus(c, err, status)
		return
	}
	response.Success(c, http.StatusCreated, res, "signup successful", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req application.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, "login successful", map[string]any{"expires_at": res.ExpiresAt})
}

func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.Svc.Me(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u.Public(), "profile", nil)
}

// GoogleBegin redirects the browser to the Google consent screen.
func (h *AuthHandler) GoogleBegin(c *gin.Context) {
	target, err := h.OAuth.Begin(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.Redirect(http.StatusFound, target)
}

// GoogleCallback always ends in a redirect back to the client.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	target := h.OAuth.Callback(c.Request.Context(), c.Query("state"), c.Query("code"), c.Query("error"))
	c.Redirect(http.StatusFound, target)
}
