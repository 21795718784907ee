package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/lingo-social/internal/interface/http"
)

// UserModule serves recommendations, friends, friend requests, search and avatars.
// Every route requires a session.
type UserModule struct {
	Handler *handlers.UserHandler
	Auth    gin.HandlerFunc
}

func NewUserModule(h *handlers.UserHandler, auth gin.HandlerFunc) *UserModule {
	return &UserModule{Handler: h, Auth: auth}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/users", m.Auth)
	{
		g.GET("", m.Handler.Recommended)
		g.GET("/friends", m.Handler.Friends)
		g.GET("/search", m.Handler.Search)
		g.PUT("/me/avatar", m.Handler.UploadAvatar)

		g.POST("/friend-request/:id", m.Handler.SendFriendRequest)
		g.PUT("/friend-request/:id/accept", m.Handler.AcceptFriendRequest)
		g.GET("/friend-requests", m.Handler.FriendRequests)
		g.GET("/outgoing-friend-requests", m.Handler.OutgoingFriendRequests)
	}
}
