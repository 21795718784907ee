package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/oksasatya/lingo-social/config"
	"github.com/oksasatya/lingo-social/internal/application"
	"github.com/oksasatya/lingo-social/internal/container"
	"github.com/oksasatya/lingo-social/internal/infrastructure/chat"
	"github.com/oksasatya/lingo-social/internal/infrastructure/gormstore"
	pginfra "github.com/oksasatya/lingo-social/internal/infrastructure/postgres"
	"github.com/oksasatya/lingo-social/internal/interface/middleware"
	"github.com/oksasatya/lingo-social/internal/router"
	"github.com/oksasatya/lingo-social/pkg/helpers"
	"github.com/oksasatya/lingo-social/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()
	var infra container.Infra
	var cleanup []func()
	defer func() {
		for i := len(cleanup) - 1; i >= 0; i-- {
			cleanup[i]()
		}
	}()

	// Credential and relationship stores
	switch cfg.StoreDriver {
	case "sqlite":
		db, err := gormstore.Open("sqlite", cfg.SQLitePath, nil)
		if err != nil {
			log.Fatalf("failed to open sqlite store: %v", err)
		}
		infra.Users = gormstore.NewUserRepository(db)
		infra.Requests = gormstore.NewFriendRequestRepository(db)
	case "gorm-postgres":
		db, err := gormstore.Open("postgres", cfg.PostgresDSN(), cfg.ReplicaDSNs())
		if err != nil {
			log.Fatalf("failed to open gorm postgres store: %v", err)
		}
		infra.Users = gormstore.NewUserRepository(db)
		infra.Requests = gormstore.NewFriendRequestRepository(db)
	default:
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{
			MaxConns:    cfg.DBMaxConns,
			MinConns:    cfg.DBMinConns,
			MaxConnLife: cfg.DBMaxConnLife,
			AppName:     cfg.AppName,
		})
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		cleanup = append(cleanup, pool.Close)
		if err := runMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		infra.Users = pginfra.NewUserRepository(pool)
		infra.Requests = pginfra.NewFriendRequestRepository(pool)
	}

	// Redis user cache
	if cfg.RedisAddr != "" {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Warn("redis unavailable; session cache disabled")
			_ = rdb.Close()
		} else {
			infra.Redis = rdb
			cleanup = append(cleanup, func() { _ = rdb.Close() })
		}
	}

	// Elasticsearch user search
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.WithError(err).Warn("elasticsearch disabled")
		} else {
			infra.ES = es
		}
	}

	// GCS avatars
	if cfg.GCSBucket != "" {
		gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			log.Fatalf("failed to init GCS client: %v", err)
		}
		infra.GCS = gcsClient
		cleanup = append(cleanup, func() { _ = gcsClient.Close() })
	}

	// RabbitMQ for email jobs and queued identity sync
	var pub *helpers.RabbitPublisher
	if cfg.MailSendEnabled || cfg.ChatSyncMode == "queue" {
		p, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue, cfg.RabbitMQChatSyncQueue)
		if err != nil {
			log.Fatalf("failed to connect to rabbitmq: %v", err)
		}
		pub = p
		infra.Rabbit = pub
		cleanup = append(cleanup, pub.Close)
	}

	infra.Chat = buildChatSync(cfg, pub, logger)

	c := container.New(cfg, logger, infra)

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(middleware.AccessLog(logger))
	}

	reg := router.NewRegistry(r)
	if cfg.MetricsEnabled {
		reg.Use(middleware.Metrics())
	}
	router.InitModules(reg, c)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.WithError(err).Error("server forced to shutdown")
	}
	c.Drain()
	logger.Info("server exited properly")
}

// buildChatSync picks the identity sync mode. A nil result disables chat.
func buildChatSync(cfg *config.Config, pub *helpers.RabbitPublisher, logger *logrus.Logger) application.RemoteIdentitySync {
	if cfg.ChatSyncMode == "off" {
		logger.Info("chat identity sync disabled")
		return nil
	}
	client, err := chat.NewStreamClient(cfg.ChatAPIKey, cfg.ChatAPISecret, cfg.ChatBaseURL, cfg.ChatSyncTimeout)
	if err != nil {
		logger.WithError(err).Warn("chat identity sync disabled")
		return nil
	}
	if cfg.ChatSyncMode == "queue" && pub != nil {
		return chat.NewQueuedSync(pub, cfg.RabbitMQChatSyncQueue, client)
	}
	return client
}

func runMigrations(dsn string, migrationsDir string, logger *logrus.Logger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
