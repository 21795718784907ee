package gormstore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oksasatya/lingo-social/internal/domain/apperror"
	"github.com/oksasatya/lingo-social/internal/domain/entity"
	"github.com/oksasatya/lingo-social/internal/domain/repository"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	m := userModelFrom(u)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isDuplicate(err) {
			return apperror.Conflict("email already exists")
		}
		return err
	}
	u.CreatedAt, u.UpdatedAt = m.CreatedAt, m.UpdatedAt
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) first(ctx context.Context, query string, arg string) (*entity.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).Where(query, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, err
	}
	return m.toEntity(), nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", u.ID).Updates(map[string]any{
		"email":             u.Email,
		"password_hash":     u.PasswordHash,
		"full_name":         u.FullName,
		"bio":               u.Bio,
		"avatar_url":        u.AvatarURL,
		"native_language":   u.NativeLanguage,
		"learning_language": u.LearningLanguage,
		"location":          u.Location,
		"is_onboarded":      u.IsOnboarded,
		"updated_at":        u.UpdatedAt,
	})
	if res.Error != nil {
		if isDuplicate(res.Error) {
			return apperror.Conflict("email already exists")
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("user not found")
	}
	return nil
}

func (r *UserRepository) FindExcluding(ctx context.Context, f repository.UserFilter) ([]entity.User, error) {
	q := r.db.WithContext(ctx).Model(&userModel{})
	if f.OnboardedOnly {
		q = q.Where("is_onboarded = ?", true)
	}
	if len(f.ExcludeIDs) > 0 {
		q = q.Where("id NOT IN ?", f.ExcludeIDs)
	}
	var ms []userModel
	if err := q.Order("created_at DESC").Order("id ASC").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]entity.User, 0, len(ms))
	for i := range ms {
		out = append(out, *ms[i].toEntity())
	}
	return out, nil
}

func (r *UserRepository) FriendIDs(ctx context.Context, userID string) ([]string, error) {
	ids := []string{}
	err := r.db.WithContext(ctx).Model(&friendshipModel{}).
		Where("user_id = ?", userID).
		Pluck("friend_id", &ids).Error
	return ids, err
}

func (r *UserRepository) ListFriends(ctx context.Context, userID string) ([]entity.UserSummary, error) {
	var rows []summaryRow
	err := r.db.WithContext(ctx).Table("friendships AS f").
		Select("u.id, u.full_name, u.avatar_url, u.native_language, u.learning_language").
		Joins("JOIN users AS u ON u.id = f.friend_id").
		Where("f.user_id = ?", userID).
		Order("u.full_name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]entity.UserSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *UserRepository) AreFriends(ctx context.Context, a, b string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&friendshipModel{}).
		Where("user_id = ? AND friend_id = ?", a, b).
		Count(&n).Error
	return n > 0, err
}

var _ repository.UserRepository = (*UserRepository)(nil)
