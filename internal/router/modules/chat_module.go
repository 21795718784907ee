package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/lingo-social/internal/interface/http"
)

type ChatModule struct {
	Handler *handlers.ChatHandler
	Auth    gin.HandlerFunc
}

func NewChatModule(h *handlers.ChatHandler, auth gin.HandlerFunc) *ChatModule {
	return &ChatModule{Handler: h, Auth: auth}
}

func (m *ChatModule) Register(rg *gin.RouterGroup) {
	rg.GET("/chat/token", m.Auth, m.Handler.Token)
}
