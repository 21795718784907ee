package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/lingo-social/internal/domain/apperror"
	"github.com/oksasatya/lingo-social/internal/domain/entity"
	repo "github.com/oksasatya/lingo-social/internal/domain/repository"
	"github.com/oksasatya/lingo-social/pkg/helpers"
)

const defaultSearchSize = 20

var (
	errInvalidCredentials = apperror.Unauthorized("invalid credentials")
	errChatDisabled       = errors.New("chat provider not configured")
	errStorageDisabled    = errors.New("avatar storage not configured")
)

// AccountService owns signup, login, onboarding and profile changes.
// Search, Avatars, Notifier, Cache and Chat are optional.
type AccountService struct {
	Users         repo.UserRepository
	Identity      *IdentityPropagator
	Background    *Background
	Logger        *logrus.Logger
	AvatarBaseURL string

	Search   UserSearchIndex
	Avatars  AvatarStorage
	Notifier Notifier
	Cache    UserCache
	Chat     RemoteIdentitySync
}

func NewAccountService(users repo.UserRepository, identity *IdentityPropagator, bg *Background, logger *logrus.Logger, avatarBaseURL string) *AccountService {
	return &AccountService{
		Users:         users,
		Identity:      identity,
		Background:    bg,
		Logger:        logger,
		AvatarBaseURL: avatarBaseURL,
	}
}

// CreateAccount registers a new, not yet onboarded user.
func (s *AccountService) CreateAccount(ctx context.Context, in SignupInput) (*entity.User, error) {
	in.normalize()
	if err := ValidateSignup(in); err != nil {
		return nil, err
	}

	_, err := s.Users.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, apperror.Conflict("email already exists")
	case !apperror.IsNotFound(err):
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     in.FullName,
		AvatarURL:    helpers.RandomAvatarURL(s.AvatarBaseURL),
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if apperror.IsConflict(err) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.Identity.Propagate(ctx, u)
	s.reindex(ctx, u)
	if s.Notifier != nil {
		snapshot := *u
		s.Background.Go(ctx, "welcome_email", func(ctx context.Context) error {
			return s.Notifier.Welcome(ctx, &snapshot)
		})
	}
	return u, nil
}

// Authenticate returns the same AuthError for an unknown email and a wrong password.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	in := LoginInput{Email: normalizeEmail(email), Password: password}
	if err := ValidateLogin(in); err != nil {
		return nil, err
	}

	u, err := s.Users.GetByEmail(ctx, in.Email)
	if err != nil {
		if apperror.IsNotFound(err) {
			helpers.BurnPasswordCompare(password)
			return nil, errInvalidCredentials
		}
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, errInvalidCredentials
	}
	return u, nil
}

func (s *AccountService) CompleteOnboarding(ctx context.Context, userID string, in OnboardInput) (*entity.User, error) {
	in.normalize()
	if err := ValidateOnboarding(in); err != nil {
		return nil, err
	}

	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.FullName = in.FullName
	u.Bio = in.Bio
	u.NativeLanguage = in.NativeLanguage
	u.LearningLanguage = in.LearningLanguage
	u.Location = in.Location
	u.IsOnboarded = true
	if err := s.Users.Update(ctx, u); err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.invalidate(ctx, u.ID)
	s.Identity.Propagate(ctx, u)
	s.reindex(ctx, u)
	return u, nil
}

func (s *AccountService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	return s.Users.GetByID(ctx, userID)
}

// UploadAvatar stores an image and makes it the user's profile picture.
func (s *AccountService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (*entity.User, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return nil, apperror.Validation("avatar must be an image", "avatar")
	}
	if s.Avatars == nil {
		return nil, apperror.Dependency("storage", errStorageDisabled)
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := s.Avatars.Upload(ctx, userID, r, filename, contentType)
	if err != nil {
		return nil, apperror.Dependency("storage", err)
	}
	u.AvatarURL = url
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("update avatar: %w", err)
	}

	s.invalidate(ctx, u.ID)
	s.Identity.Propagate(ctx, u)
	s.reindex(ctx, u)
	return u, nil
}

// SearchUsers runs a full-text query over onboarded users other than actorID.
func (s *AccountService) SearchUsers(ctx context.Context, actorID, query string) ([]entity.UserSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperror.Validation("search query is required", "q")
	}
	if s.Search == nil {
		return []entity.UserSummary{}, nil
	}
	out, err := s.Search.SearchUsers(ctx, query, actorID, defaultSearchSize)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return out, nil
}

// IssueChatToken returns a chat provider token for userID.
func (s *AccountService) IssueChatToken(ctx context.Context, userID string) (string, error) {
	if s.Chat == nil {
		return "", apperror.Dependency("chat", errChatDisabled)
	}
	token, err := s.Chat.IssueRemoteToken(ctx, userID)
	if err != nil {
		return "", apperror.Dependency("chat", err)
	}
	return token, nil
}

func (s *AccountService) reindex(ctx context.Context, u *entity.User) {
	if s.Search == nil {
		return
	}
	snapshot := *u
	s.Background.Go(ctx, "search_index", func(ctx context.Context) error {
		if err := s.Search.IndexUser(ctx, &snapshot); err != nil {
			return apperror.Dependency("elasticsearch", err)
		}
		return nil
	})
}

func (s *AccountService) invalidate(ctx context.Context, ids ...string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx, ids...); err != nil {
		helpers.LogWarn(s.Logger, "user cache invalidation failed", err, logrus.Fields{"user_ids": ids})
	}
}
