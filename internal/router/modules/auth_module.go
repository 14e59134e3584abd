package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ddd-diary/internal/interface/http"
)

// AuthModule wires sign-in routes.
// Public: POST /auth/signup, POST /auth/login, GET /auth/google, GET /auth/google/callback
// Protected: GET /auth/me
type AuthModule struct {
	Handler *handlers.AuthHandler
	Gate    gin.HandlerFunc
}

func NewAuthModule(h *handlers.AuthHandler, gate gin.HandlerFunc) *AuthModule {
	return &AuthModule{Handler: h, Gate: gate}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/auth")
	g.POST("/signup", m.Handler.Signup)
	g.POST("/login", m.Handler.Login)
	g.GET("/google", m.Handler.GoogleBegin)
	g.GET("/google/callback", m.Handler.GoogleCallback)
	g.GET("/me", m.Gate, m.Handler.Me)
}
