package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/lingo-social/internal/domain/apperror"
	"github.com/oksasatya/lingo-social/internal/domain/entity"
	repo "github.com/oksasatya/lingo-social/internal/domain/repository"
	"github.com/oksasatya/lingo-social/pkg/helpers"
	"github.com/oksasatya/lingo-social/pkg/metrics"
)

const (
	defaultAcceptAttempts = 3
	acceptRetryBackoff    = 20 * time.Millisecond
)

// RelationshipService drives the friend-request state machine and the
// queries built on the friend-set.
type RelationshipService struct {
	Users      repo.UserRepository
	Requests   repo.FriendRequestRepository
	Background *Background
	Logger     *logrus.Logger

	Cache          UserCache
	Notifier       Notifier
	AcceptAttempts int
}

func NewRelationshipService(users repo.UserRepository, requests repo.FriendRequestRepository, bg *Background, logger *logrus.Logger) *RelationshipService {
	return &RelationshipService{
		Users:          users,
		Requests:       requests,
		Background:     bg,
		Logger:         logger,
		AcceptAttempts: defaultAcceptAttempts,
	}
}

// SendRequest creates a pending request from actorID to targetID.
// Any existing row between the pair blocks a new one, whatever its direction or status.
func (s *RelationshipService) SendRequest(ctx context.Context, actorID, targetID string) (*entity.FriendRequest, error) {
	fr, err := s.sendRequest(ctx, actorID, targetID)
	metrics.FriendRequestsTotal.WithLabelValues("send", outcome(err)).Inc()
	return fr, err
}

func (s *RelationshipService) sendRequest(ctx context.Context, actorID, targetID string) (*entity.FriendRequest, error) {
	if actorID == targetID {
		return nil, apperror.Validation("cannot friend self")
	}
	if _, err := s.Users.GetByID(ctx, targetID); err != nil {
		return nil, err
	}

	friends, err := s.Users.AreFriends(ctx, actorID, targetID)
	if err != nil {
		return nil, fmt.Errorf("check friendship: %w", err)
	}
	if friends {
		return nil, apperror.Conflict("already friends")
	}

	exists, err := s.Requests.ExistsBetween(ctx, actorID, targetID)
	if err != nil {
		return nil, fmt.Errorf("check existing request: %w", err)
	}
	if exists {
		return nil, apperror.Conflict("request already exists")
	}

	fr := &entity.FriendRequest{SenderID: actorID, RecipientID: targetID, Status: entity.StatusNone}
	if err := fr.Transition(entity.StatusPending); err != nil {
		return nil, err
	}
	// a concurrent send for the same pair loses here on the unique pair index
	if err := s.Requests.Create(ctx, fr); err != nil {
		if apperror.IsConflict(err) {
			return nil, err
		}
		return nil, fmt.Errorf("create friend request: %w", err)
	}
	return fr, nil
}

// AcceptRequest lets the recipient accept a pending request. The status flip
// and both friend-set inserts commit together or not at all.
func (s *RelationshipService) AcceptRequest(ctx context.Context, actorID, requestID string) (*entity.FriendRequest, error) {
	fr, err := s.acceptRequest(ctx, actorID, requestID)
	metrics.FriendRequestsTotal.WithLabelValues("accept", outcome(err)).Inc()
	return fr, err
}

func (s *RelationshipService) acceptRequest(ctx context.Context, actorID, requestID string) (*entity.FriendRequest, error) {
	fr, err := s.Requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if fr.RecipientID != actorID {
		return nil, apperror.Forbidden("not authorized")
	}
	if !entity.CanTransition(fr.Status, entity.StatusAccepted) {
		return nil, apperror.Conflict("request is not pending")
	}

	accepted, err := s.acceptWithRetry(ctx, requestID)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, accepted.SenderID, accepted.RecipientID)
	s.notifyAccepted(ctx, accepted)
	return accepted, nil
}

func (s *RelationshipService) acceptWithRetry(ctx context.Context, requestID string) (*entity.FriendRequest, error) {
	attempts := s.AcceptAttempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		var fr *entity.FriendRequest
		fr, err = s.Requests.Accept(ctx, requestID)
		if err == nil {
			return fr, nil
		}
		if !errors.Is(err, repo.ErrTransient) || i == attempts-1 {
			break
		}
		helpers.LogWarn(s.Logger, "accept friend request: retrying", err, logrus.Fields{"request_id": requestID, "attempt": i + 1})
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(acceptRetryBackoff * time.Duration(i+1)):
		}
	}
	if apperror.IsConflict(err) || apperror.IsNotFound(err) {
		return nil, err
	}
	return nil, fmt.Errorf("accept friend request: %w", err)
}

func (s *RelationshipService) notifyAccepted(ctx context.Context, fr *entity.FriendRequest) {
	if s.Notifier == nil {
		return
	}
	senderID, recipientID := fr.SenderID, fr.RecipientID
	s.Background.Go(ctx, "accepted_email", func(ctx context.Context) error {
		sender, err := s.Users.GetByID(ctx, senderID)
		if err != nil {
			return err
		}
		recipient, err := s.Users.GetByID(ctx, recipientID)
		if err != nil {
			return err
		}
		return s.Notifier.FriendRequestAccepted(ctx, sender, recipient)
	})
}

func (s *RelationshipService) ListIncomingPending(ctx context.Context, userID string) ([]entity.FriendRequestView, error) {
	return s.Requests.ListIncoming(ctx, userID, entity.StatusPending)
}

func (s *RelationshipService) ListOutgoingPending(ctx context.Context, userID string) ([]entity.FriendRequestView, error) {
	return s.Requests.ListOutgoing(ctx, userID, entity.StatusPending)
}

// ListOutgoingAccepted returns the caller's sent requests that were accepted.
func (s *RelationshipService) ListOutgoingAccepted(ctx context.Context, userID string) ([]entity.FriendRequestView, error) {
	return s.Requests.ListOutgoing(ctx, userID, entity.StatusAccepted)
}

func (s *RelationshipService) ListFriends(ctx context.Context, userID string) ([]entity.UserSummary, error) {
	return s.Users.ListFriends(ctx, userID)
}

// Recommend lists onboarded users that are neither userID nor already friends.
func (s *RelationshipService) Recommend(ctx context.Context, userID string) ([]entity.User, error) {
	friendIDs, err := s.Users.FriendIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load friend ids: %w", err)
	}
	exclude := append([]string{userID}, friendIDs...)
	users, err := s.Users.FindExcluding(ctx, repo.UserFilter{ExcludeIDs: exclude, OnboardedOnly: true})
	if err != nil {
		return nil, fmt.Errorf("find recommendations: %w", err)
	}
	return users, nil
}

func (s *RelationshipService) invalidate(ctx context.Context, ids ...string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx, ids...); err != nil {
		helpers.LogWarn(s.Logger, "user cache invalidation failed", err, logrus.Fields{"user_ids": ids})
	}
}

func outcome(err error) string {
	var (
		ve *apperror.ValidationError
		ae *apperror.AuthError
	)
	switch {
	case err == nil:
		return "ok"
	case apperror.IsConflict(err):
		return "conflict"
	case apperror.IsNotFound(err):
		return "not_found"
	case errors.As(err, &ve):
		return "invalid"
	case errors.As(err, &ae):
		return "forbidden"
	default:
		return "error"
	}
}
