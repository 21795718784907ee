// Package container wires infrastructure into the application services once
// at startup. Everything is passed explicitly; nothing is held in globals.
package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/lingo-social/config"
	"github.com/oksasatya/lingo-social/internal/application"
	"github.com/oksasatya/lingo-social/internal/domain/repository"
	"github.com/oksasatya/lingo-social/internal/infrastructure/notify"
	"github.com/oksasatya/lingo-social/internal/infrastructure/rediscache"
	"github.com/oksasatya/lingo-social/internal/infrastructure/search"
	avatarstore "github.com/oksasatya/lingo-social/internal/infrastructure/storage"
	"github.com/oksasatya/lingo-social/pkg/helpers"
)

// Infra holds the constructed clients. Only the two repositories are required.
type Infra struct {
	Users    repository.UserRepository
	Requests repository.FriendRequestRepository

	Redis  redis.Cmdable
	ES     *elasticsearch.Client
	GCS    *storage.Client
	Rabbit notify.Publisher
	Chat   application.RemoteIdentitySync
}

type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	Background    *application.Background
	Tokens        *helpers.TokenManager
	Cookies       *helpers.Manager
	Accounts      *application.AccountService
	Sessions      *application.SessionService
	Relationships *application.RelationshipService
}

func New(cfg *config.Config, logger *logrus.Logger, infra Infra) *Container {
	bg := application.NewBackground(logger, cfg.ChatSyncTimeout)
	tokens := helpers.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL)

	var cache application.UserCache
	if infra.Redis != nil {
		cache = rediscache.NewUserCache(infra.Redis, cfg.UserCacheTTL)
	}

	accounts := application.NewAccountService(
		infra.Users,
		application.NewIdentityPropagator(infra.Chat, bg),
		bg,
		logger,
		cfg.AvatarBaseURL,
	)
	accounts.Cache = cache
	accounts.Chat = infra.Chat
	if infra.ES != nil {
		accounts.Search = search.NewUserIndex(infra.ES, cfg.ESUsersIndex)
	}
	if infra.GCS != nil && cfg.GCSBucket != "" {
		accounts.Avatars = avatarstore.NewAvatarStore(infra.GCS, cfg.GCSBucket)
	}

	relationships := application.NewRelationshipService(infra.Users, infra.Requests, bg, logger)
	relationships.Cache = cache

	if infra.Rabbit != nil && cfg.MailSendEnabled {
		notifier := notify.NewEmailNotifier(infra.Rabbit, cfg.RabbitMQEmailQueue, cfg.AppName, cfg.AppURL)
		accounts.Notifier = notifier
		relationships.Notifier = notifier
	}

	return &Container{
		Config:        cfg,
		Logger:        logger,
		Background:    bg,
		Tokens:        tokens,
		Cookies:       helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure),
		Accounts:      accounts,
		Sessions:      application.NewSessionService(tokens, infra.Users, cache, logger),
		Relationships: relationships,
	}
}

// Drain waits for in-flight best-effort side effects.
func (c *Container) Drain() {
	c.Background.Wait()
}
