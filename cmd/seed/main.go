package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/joho/godotenv"

	"github.com/oksasatya/lingo-social/config"
	"github.com/oksasatya/lingo-social/internal/application"
	"github.com/oksasatya/lingo-social/internal/container"
	"github.com/oksasatya/lingo-social/internal/domain/apperror"
	"github.com/oksasatya/lingo-social/internal/infrastructure/gormstore"
	pginfra "github.com/oksasatya/lingo-social/internal/infrastructure/postgres"
	"github.com/oksasatya/lingo-social/pkg/helpers"
)

var languages = []string{"english", "spanish", "french", "german", "japanese", "korean", "mandarin", "portuguese", "italian", "arabic"}

var bios = []string{
	"Looking for conversation partners on weekends.",
	"Learning for an upcoming move abroad.",
	"Happy to help with grammar in exchange for speaking practice.",
	"Movie nerd, practicing through subtitles.",
	"Traveling a lot for work and want to order food without pointing.",
}

func main() {
	count := flag.Int("users", 20, "number of onboarded users to create")
	password := flag.String("password", "password123", "password for every seeded user")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	cfg.ChatSyncMode = "off"
	cfg.MailSendEnabled = false
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	var infra container.Infra
	switch cfg.StoreDriver {
	case "sqlite":
		db, err := gormstore.Open("sqlite", cfg.SQLitePath, nil)
		if err != nil {
			log.Fatalf("failed to open sqlite store: %v", err)
		}
		infra.Users = gormstore.NewUserRepository(db)
		infra.Requests = gormstore.NewFriendRequestRepository(db)
	default:
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{
			MaxConns:    cfg.DBMaxConns,
			MinConns:    cfg.DBMinConns,
			MaxConnLife: cfg.DBMaxConnLife,
			AppName:     cfg.AppName + "-seed",
		})
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		infra.Users = pginfra.NewUserRepository(pool)
		infra.Requests = pginfra.NewFriendRequestRepository(pool)
	}

	c := container.New(cfg, logger, infra)
	defer c.Drain()

	ids := make([]string, 0, *count)
	for i := 0; i < *count; i++ {
		first, last := gofakeit.FirstName(), gofakeit.LastName()
		email := fmt.Sprintf("%s.%s.%s@example.com", strings.ToLower(first), strings.ToLower(last), gofakeit.Numerify("####"))

		u, err := c.Accounts.CreateAccount(ctx, application.SignupInput{
			FullName: first + " " + last,
			Email:    email,
			Password: *password,
		})
		if apperror.IsConflict(err) {
			continue
		}
		if err != nil {
			log.Fatalf("failed to seed user %s: %v", email, err)
		}

		native := gofakeit.RandomString(languages)
		learning := gofakeit.RandomString(languages)
		for learning == native {
			learning = gofakeit.RandomString(languages)
		}
		if _, err := c.Accounts.CompleteOnboarding(ctx, u.ID, application.OnboardInput{
			FullName:         u.FullName,
			Bio:              gofakeit.RandomString(bios),
			NativeLanguage:   native,
			LearningLanguage: learning,
			Location:         gofakeit.City() + ", " + gofakeit.Country(),
		}); err != nil {
			log.Fatalf("failed to onboard %s: %v", email, err)
		}
		ids = append(ids, u.ID)
		fmt.Printf("seeded user: id=%s email=%s password=%s\n", u.ID, email, *password)
	}

	// a few pending requests and accepted friendships between neighbours
	for i := 0; i+1 < len(ids); i += 2 {
		req, err := c.Relationships.SendRequest(ctx, ids[i], ids[i+1])
		if err != nil {
			log.Printf("skip request %s -> %s: %v", ids[i], ids[i+1], err)
			continue
		}
		if gofakeit.Bool() {
			if _, err := c.Relationships.AcceptRequest(ctx, ids[i+1], req.ID); err != nil {
				log.Printf("skip accept %s: %v", req.ID, err)
			}
		}
	}
	fmt.Printf("seeded %d users\n", len(ids))
}
