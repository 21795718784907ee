package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oksasatya/lingo-social/internal/domain/apperror"
	"github.com/oksasatya/lingo-social/internal/domain/entity"
	"github.com/oksasatya/lingo-social/internal/domain/repository"
)

type FriendRequestRepository struct {
	db *gorm.DB
}

func NewFriendRequestRepository(db *gorm.DB) *FriendRequestRepository {
	return &FriendRequestRepository{db: db}
}

func (r *FriendRequestRepository) Create(ctx context.Context, fr *entity.FriendRequest) error {
	if fr.ID == "" {
		fr.ID = uuid.NewString()
	}
	m := &friendRequestModel{
		ID:          fr.ID,
		SenderID:    fr.SenderID,
		RecipientID: fr.RecipientID,
		PairKey:     entity.PairKey(fr.SenderID, fr.RecipientID),
		Status:      string(fr.Status),
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isDuplicate(err) {
			return apperror.Conflict("request already exists")
		}
		return err
	}
	fr.CreatedAt, fr.UpdatedAt = m.CreatedAt, m.UpdatedAt
	return nil
}

func (r *FriendRequestRepository) GetByID(ctx context.Context, id string) (*entity.FriendRequest, error) {
	return getRequest(r.db.WithContext(ctx), id)
}

func getRequest(db *gorm.DB, id string) (*entity.FriendRequest, error) {
	var m friendRequestModel
	if err := db.Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("friend request not found")
		}
		return nil, err
	}
	return m.toEntity(), nil
}

func (r *FriendRequestRepository) ExistsBetween(ctx context.Context, a, b string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&friendRequestModel{}).
		Where("pair_key = ?", entity.PairKey(a, b)).
		Count(&n).Error
	return n > 0, err
}

func (r *FriendRequestRepository) Accept(ctx context.Context, id string) (*entity.FriendRequest, error) {
	var accepted *entity.FriendRequest
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		res := tx.Model(&friendRequestModel{}).
			Where("id = ? AND status = ?", id, string(entity.StatusPending)).
			Updates(map[string]any{
				"status":      string(entity.StatusAccepted),
				"accepted_at": now,
				"updated_at":  now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if _, err := getRequest(tx, id); err != nil {
				return err
			}
			return apperror.Conflict("request is not pending")
		}

		fr, err := getRequest(tx, id)
		if err != nil {
			return err
		}
		pair := []friendshipModel{
			{UserID: fr.SenderID, FriendID: fr.RecipientID, CreatedAt: now},
			{UserID: fr.RecipientID, FriendID: fr.SenderID, CreatedAt: now},
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&pair).Error; err != nil {
			return err
		}
		accepted = fr
		return nil
	})
	if err != nil {
		if isBusy(err) {
			return nil, fmt.Errorf("%w: %v", repository.ErrTransient, err)
		}
		return nil, err
	}
	return accepted, nil
}

type requestViewRow struct {
	ID                 string     `gorm:"column:id"`
	SenderID           string     `gorm:"column:sender_id"`
	RecipientID        string     `gorm:"column:recipient_id"`
	Status             string     `gorm:"column:status"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
	AcceptedAt         *time.Time `gorm:"column:accepted_at"`
	CpID               string     `gorm:"column:cp_id"`
	CpFullName         string     `gorm:"column:cp_full_name"`
	CpAvatarURL        string     `gorm:"column:cp_avatar_url"`
	CpNativeLanguage   string     `gorm:"column:cp_native_language"`
	CpLearningLanguage string     `gorm:"column:cp_learning_language"`
}

func (r *FriendRequestRepository) ListIncoming(ctx context.Context, userID string, status entity.FriendRequestStatus) ([]entity.FriendRequestView, error) {
	return r.list(ctx, "recipient_id", "sender_id", userID, status)
}

func (r *FriendRequestRepository) ListOutgoing(ctx context.Context, userID string, status entity.FriendRequestStatus) ([]entity.FriendRequestView, error) {
	return r.list(ctx, "sender_id", "recipient_id", userID, status)
}

// list filters on ownerCol and joins the user referenced by counterpartCol.
func (r *FriendRequestRepository) list(ctx context.Context, ownerCol, counterpartCol, userID string, status entity.FriendRequestStatus) ([]entity.FriendRequestView, error) {
	var rows []requestViewRow
	err := r.db.WithContext(ctx).Table("friend_requests AS fr").
		Select("fr.id, fr.sender_id, fr.recipient_id, fr.status, fr.created_at, fr.updated_at, fr.accepted_at, " +
			"u.id AS cp_id, u.full_name AS cp_full_name, u.avatar_url AS cp_avatar_url, " +
			"u.native_language AS cp_native_language, u.learning_language AS cp_learning_language").
		Joins("JOIN users AS u ON u.id = fr." + counterpartCol).
		Where("fr."+ownerCol+" = ? AND fr.status = ?", userID, string(status)).
		Order("fr.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]entity.FriendRequestView, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.FriendRequestView{
			FriendRequest: entity.FriendRequest{
				ID:          row.ID,
				SenderID:    row.SenderID,
				RecipientID: row.RecipientID,
				Status:      entity.FriendRequestStatus(row.Status),
				CreatedAt:   row.CreatedAt,
				UpdatedAt:   row.UpdatedAt,
				AcceptedAt:  row.AcceptedAt,
			},
			Counterpart: entity.UserSummary{
				ID:               row.CpID,
				FullName:         row.CpFullName,
				AvatarURL:        row.CpAvatarURL,
				NativeLanguage:   row.CpNativeLanguage,
				LearningLanguage: row.CpLearningLanguage,
			},
		})
	}
	return out, nil
}

var _ repository.FriendRequestRepository = (*FriendRequestRepository)(nil)
