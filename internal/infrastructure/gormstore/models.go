package gormstore

import (
	"time"

	"github.com/oksasatya/lingo-social/internal/domain/entity"
)

type userModel struct {
	ID               string `gorm:"primaryKey;size:36"`
	Email            string `gorm:"size:255;not null;uniqueIndex:users_email_key"`
	PasswordHash     string `gorm:"not null"`
	FullName         string `gorm:"size:255;not null"`
	Bio              string
	AvatarURL        string `gorm:"column:avatar_url"`
	NativeLanguage   string `gorm:"size:64"`
	LearningLanguage string `gorm:"size:64"`
	Location         string `gorm:"size:255"`
	IsOnboarded      bool   `gorm:"not null;default:false;index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (userModel) TableName() string { return "users" }

func (m *userModel) toEntity() *entity.User {
	return &entity.User{
		ID:               m.ID,
		Email:            m.Email,
		PasswordHash:     m.PasswordHash,
		FullName:         m.FullName,
		Bio:              m.Bio,
		AvatarURL:        m.AvatarURL,
		NativeLanguage:   m.NativeLanguage,
		LearningLanguage: m.LearningLanguage,
		Location:         m.Location,
		IsOnboarded:      m.IsOnboarded,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func userModelFrom(u *entity.User) *userModel {
	return &userModel{
		ID:               u.ID,
		Email:            u.Email,
		PasswordHash:     u.PasswordHash,
		FullName:         u.FullName,
		Bio:              u.Bio,
		AvatarURL:        u.AvatarURL,
		NativeLanguage:   u.NativeLanguage,
		LearningLanguage: u.LearningLanguage,
		Location:         u.Location,
		IsOnboarded:      u.IsOnboarded,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

// friendRequestModel keeps one row per unordered pair through PairKey.
type friendRequestModel struct {
	ID          string `gorm:"primaryKey;size:36"`
	SenderID    string `gorm:"size:36;not null;index"`
	RecipientID string `gorm:"size:36;not null;index"`
	PairKey     string `gorm:"size:80;not null;uniqueIndex:friend_requests_pair_key"`
	Status      string `gorm:"size:16;not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	AcceptedAt  *time.Time
}

func (friendRequestModel) TableName() string { return "friend_requests" }

func (m *friendRequestModel) toEntity() *entity.FriendRequest {
	return &entity.FriendRequest{
		ID:          m.ID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Status:      entity.FriendRequestStatus(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		AcceptedAt:  m.AcceptedAt,
	}
}

// friendshipModel is one direction of a friend-set membership.
type friendshipModel struct {
	UserID    string `gorm:"primaryKey;size:36"`
	FriendID  string `gorm:"primaryKey;size:36"`
	CreatedAt time.Time
}

func (friendshipModel) TableName() string { return "friendships" }

type summaryRow struct {
	ID               string `gorm:"column:id"`
	FullName         string `gorm:"column:full_name"`
	AvatarURL        string `gorm:"column:avatar_url"`
	NativeLanguage   string `gorm:"column:native_language"`
	LearningLanguage string `gorm:"column:learning_language"`
}

func (r summaryRow) toEntity() entity.UserSummary {
	return entity.UserSummary{
		ID:               r.ID,
		FullName:         r.FullName,
		AvatarURL:        r.AvatarURL,
		NativeLanguage:   r.NativeLanguage,
		LearningLanguage: r.LearningLanguage,
	}
}
