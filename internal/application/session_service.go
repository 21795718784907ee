package application

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/lingo-social/internal/domain/apperror"
	"github.com/oksasatya/lingo-social/internal/domain/entity"
	repo "github.com/oksasatya/lingo-social/internal/domain/repository"
	"github.com/oksasatya/lingo-social/pkg/helpers"
)

// SessionService issues session tokens and resolves them back to users.
type SessionService struct {
	Tokens TokenService
	Users  repo.UserRepository
	Cache  UserCache
	Logger *logrus.Logger
}

func NewSessionService(tokens TokenService, users repo.UserRepository, cache UserCache, logger *logrus.Logger) *SessionService {
	return &SessionService{Tokens: tokens, Users: users, Cache: cache, Logger: logger}
}

func (s *SessionService) Issue(userID string) (string, time.Time, error) {
	return s.Tokens.Issue(userID)
}

// AuthenticateRequest validates rawToken and loads the user it names.
func (s *SessionService) AuthenticateRequest(ctx context.Context, rawToken string) (*entity.User, error) {
	if rawToken == "" {
		return nil, apperror.Unauthorized("missing token")
	}
	userID, err := s.Tokens.Validate(rawToken)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		u, ok, err := s.Cache.Get(ctx, userID)
		if err != nil {
			helpers.LogWarn(s.Logger, "user cache read failed", err, logrus.Fields{"user_id": userID})
		} else if ok {
			return u, nil
		}
	}

	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.Unauthorized("user no longer exists")
		}
		return nil, fmt.Errorf("load session user: %w", err)
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, u); err != nil {
			helpers.LogWarn(s.Logger, "user cache write failed", err, logrus.Fields{"user_id": userID})
		}
	}
	return u, nil
}
