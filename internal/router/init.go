package router

import (
	"github.com/oksasatya/lingo-social/internal/container"
	handlers "github.com/oksasatya/lingo-social/internal/interface/http"
	"github.com/oksasatya/lingo-social/internal/interface/middleware"
	"github.com/oksasatya/lingo-social/internal/router/modules"
)

// InitModules builds the handlers from c and adds every module to r.
// Call once during startup, before RegisterAll.
func InitModules(r *Registry, c *container.Container) {
	auth := middleware.Auth(c.Sessions, c.Logger)

	r.AddRoot(modules.NewOpsModule(c.Config.MetricsEnabled))
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(c.Accounts, c.Sessions, c.Cookies, c.Logger), auth))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(c.Accounts, c.Relationships, c.Logger), auth))
	r.Add(modules.NewChatModule(handlers.NewChatHandler(c.Accounts, c.Logger), auth))
}
