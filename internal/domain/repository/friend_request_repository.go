package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/lingo-social/internal/domain/entity"
)

// FriendRequestRepository persists friend requests and the friend-set rows they produce.
type FriendRequestRepository interface {
	// Create inserts a pending request. A second row for the same unordered
	// pair fails with apperror.ConflictError.
	Create(ctx context.Context, fr *entity.FriendRequest) error
	GetByID(ctx context.Context, id string) (*entity.FriendRequest, error)
	ExistsBetween(ctx context.Context, a, b string) (bool, error)
	// Accept flips a pending request to accepted and adds each party to the
	// other's friend-set in one transaction. A request that is no longer
	// pending fails with apperror.ConflictError.
	Accept(ctx context.Context, id string) (*entity.FriendRequest, error)
	// ListIncoming returns requests addressed to userID, joined with the sender.
	ListIncoming(ctx context.Context, userID string, status entity.FriendRequestStatus) ([]entity.FriendRequestView, error)
	// ListOutgoing returns requests sent by userID, joined with the recipient.
	ListOutgoing(ctx context.Context, userID string, status entity.FriendRequestStatus) ([]entity.FriendRequestView, error)
}

// ErrTransient marks store failures that may succeed when the whole
// operation is retried (serialization failures, deadlocks, busy databases).
var ErrTransient = errors.New("transient store failure")
