package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/lingo-social/internal/interface/http"
)

// AuthModule serves signup, login, logout, onboarding and the current user.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Auth    gin.HandlerFunc
}

func NewAuthModule(h *handlers.AuthHandler, auth gin.HandlerFunc) *AuthModule {
	return &AuthModule{Handler: h, Auth: auth}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/auth")
	g.POST("/signup", m.Handler.Signup)
	g.POST("/login", m.Handler.Login)
	g.POST("/logout", m.Handler.Logout)

	protected := g.Group("/", m.Auth)
	{
		protected.POST("/onboarding", m.Handler.Onboard)
		protected.GET("/me", m.Handler.Me)
	}
}
