package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// PasswordHash holds a bcrypt hash and is never serialized.
// The friend-set lives in the store as symmetric rows and is loaded on demand.
type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	FullName         string    `json:"fullName"`
	Bio              string    `json:"bio"`
	AvatarURL        string    `json:"profilePic"`
	NativeLanguage   string    `json:"nativeLanguage"`
	LearningLanguage string    `json:"learningLanguage"`
	Location         string    `json:"location"`
	IsOnboarded      bool      `json:"isOnboarded"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// UserSummary is the minimal profile shown next to friends and requests.
type UserSummary struct {
	ID               string `json:"id"`
	FullName         string `json:"fullName"`
	AvatarURL        string `json:"profilePic"`
	NativeLanguage   string `json:"nativeLanguage"`
	LearningLanguage string `json:"learningLanguage"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:               u.ID,
		FullName:         u.FullName,
		AvatarURL:        u.AvatarURL,
		NativeLanguage:   u.NativeLanguage,
		LearningLanguage: u.LearningLanguage,
	}
}
