package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/lingo-social/internal/domain/apperror"
	"github.com/oksasatya/lingo-social/internal/domain/entity"
	"github.com/oksasatya/lingo-social/internal/domain/repository"
)

var errRequestNotFound = apperror.NotFound("friend request not found")

const requestColumns = `id::text, sender_id::text, recipient_id::text, status, created_at, updated_at, accepted_at`

type FriendRequestRepository struct {
	pool *pgxpool.Pool
}

func NewFriendRequestRepository(pool *pgxpool.Pool) *FriendRequestRepository {
	return &FriendRequestRepository{pool: pool}
}

func scanRequest(row pgx.Row) (*entity.FriendRequest, error) {
	fr := &entity.FriendRequest{}
	var status string
	if err := row.Scan(&fr.ID, &fr.SenderID, &fr.RecipientID, &status,
		&fr.CreatedAt, &fr.UpdatedAt, &fr.AcceptedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errRequestNotFound
		}
		return nil, err
	}
	fr.Status = entity.FriendRequestStatus(status)
	return fr, nil
}

func (r *FriendRequestRepository) Create(ctx context.Context, fr *entity.FriendRequest) error {
	if !validID(fr.SenderID) || !validID(fr.RecipientID) {
		return apperror.NotFound("user not found")
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO friend_requests (sender_id, recipient_id, status)
		VALUES ($1, $2, $3)
		RETURNING id::text, created_at, updated_at
	`, fr.SenderID, fr.RecipientID, string(fr.Status))

	if err := row.Scan(&fr.ID, &fr.CreatedAt, &fr.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("request already exists")
		}
		return err
	}
	return nil
}

func (r *FriendRequestRepository) GetByID(ctx context.Context, id string) (*entity.FriendRequest, error) {
	if !validID(id) {
		return nil, errRequestNotFound
	}
	return scanRequest(r.pool.QueryRow(ctx, `SELECT `+requestColumns+` FROM friend_requests WHERE id = $1`, id))
}

func (r *FriendRequestRepository) ExistsBetween(ctx context.Context, a, b string) (bool, error) {
	if !validID(a) || !validID(b) {
		return false, nil
	}
	var ok bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM friend_requests
			WHERE LEAST(sender_id, recipient_id) = LEAST($1::uuid, $2::uuid)
			  AND GREATEST(sender_id, recipient_id) = GREATEST($1::uuid, $2::uuid)
		)
	`, a, b).Scan(&ok)
	return ok, err
}

func (r *FriendRequestRepository) Accept(ctx context.Context, id string) (*entity.FriendRequest, error) {
	if !validID(id) {
		return nil, errRequestNotFound
	}
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	fr, err := scanRequest(tx.QueryRow(ctx, `
		UPDATE friend_requests
		SET status = 'accepted', accepted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING `+requestColumns, id))
	if errors.Is(err, errRequestNotFound) {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM friend_requests WHERE id = $1)`, id).Scan(&exists); err != nil {
			return nil, err
		}
		if !exists {
			return nil, errRequestNotFound
		}
		return nil, apperror.Conflict("request is not pending")
	}
	if err != nil {
		return nil, markTransient(err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO friendships (user_id, friend_id)
		VALUES ($1, $2), ($2, $1)
		ON CONFLICT DO NOTHING
	`, fr.SenderID, fr.RecipientID); err != nil {
		return nil, markTransient(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, markTransient(err)
	}
	return fr, nil
}

func (r *FriendRequestRepository) ListIncoming(ctx context.Context, userID string, status entity.FriendRequestStatus) ([]entity.FriendRequestView, error) {
	return r.list(ctx, "recipient_id", "sender_id", userID, status)
}

func (r *FriendRequestRepository) ListOutgoing(ctx context.Context, userID string, status entity.FriendRequestStatus) ([]entity.FriendRequestView, error) {
	return r.list(ctx, "sender_id", "recipient_id", userID, status)
}

func (r *FriendRequestRepository) list(ctx context.Context, ownerCol, counterpartCol, userID string, status entity.FriendRequestStatus) ([]entity.FriendRequestView, error) {
	out := []entity.FriendRequestView{}
	if !validID(userID) {
		return out, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT fr.id::text, fr.sender_id::text, fr.recipient_id::text, fr.status,
			fr.created_at, fr.updated_at, fr.accepted_at,
			u.id::text, u.full_name, u.avatar_url, u.native_language, u.learning_language
		FROM friend_requests fr
		JOIN users u ON u.id = fr.`+counterpartCol+`
		WHERE fr.`+ownerCol+` = $1 AND fr.status = $2
		ORDER BY fr.created_at DESC
	`, userID, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var v entity.FriendRequestView
		var st string
		if err := rows.Scan(&v.ID, &v.SenderID, &v.RecipientID, &st,
			&v.CreatedAt, &v.UpdatedAt, &v.AcceptedAt,
			&v.Counterpart.ID, &v.Counterpart.FullName, &v.Counterpart.AvatarURL,
			&v.Counterpart.NativeLanguage, &v.Counterpart.LearningLanguage); err != nil {
			return nil, err
		}
		v.Status = entity.FriendRequestStatus(st)
		out = append(out, v)
	}
	return out, rows.Err()
}

var _ repository.FriendRequestRepository = (*FriendRequestRepository)(nil)
