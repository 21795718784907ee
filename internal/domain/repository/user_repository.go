package repository

import (
	"context"

	"github.com/oksasatya/lingo-social/internal/domain/entity"
)

// UserFilter selects users for FindExcluding.
type UserFilter struct {
	ExcludeIDs    []string
	OnboardedOnly bool
}

// UserRepository defines the interface for user-related storage operations.
// Implementations return apperror.NotFoundError for unknown ids/emails and
// apperror.ConflictError when the email is already taken.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	// FindExcluding returns users matching the filter, newest first.
	FindExcluding(ctx context.Context, f UserFilter) ([]entity.User, error)
	FriendIDs(ctx context.Context, userID string) ([]string, error)
	ListFriends(ctx context.Context, userID string) ([]entity.UserSummary, error)
	AreFriends(ctx context.Context, a, b string) (bool, error)
}
