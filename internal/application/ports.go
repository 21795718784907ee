package application

import (
	"context"
	"io"
	"time"

	"github.com/oksasatya/lingo-social/internal/domain/entity"
)

// RemoteIdentity is the profile mirrored into the chat provider.
type RemoteIdentity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// RemoteIdentitySync mirrors local identities into the external chat provider.
type RemoteIdentitySync interface {
	UpsertIdentity(ctx context.Context, id RemoteIdentity) error
	IssueRemoteToken(ctx context.Context, userID string) (string, error)
}

// TokenService issues and validates session tokens.
type TokenService interface {
	Issue(userID string) (string, time.Time, error)
	Validate(token string) (string, error)
}

// UserCache holds resolved users for the session middleware.
type UserCache interface {
	Get(ctx context.Context, id string) (*entity.User, bool, error)
	Set(ctx context.Context, u *entity.User) error
	Invalidate(ctx context.Context, ids ...string) error
}

// UserSearchIndex is the full-text user directory.
type UserSearchIndex interface {
	IndexUser(ctx context.Context, u *entity.User) error
	SearchUsers(ctx context.Context, query, excludeID string, size int) ([]entity.UserSummary, error)
}

// AvatarStorage stores uploaded profile pictures and returns their public URL.
type AvatarStorage interface {
	Upload(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error)
}

// Notifier enqueues user-facing notifications.
type Notifier interface {
	Welcome(ctx context.Context, u *entity.User) error
	FriendRequestAccepted(ctx context.Context, sender, recipient *entity.User) error
}
