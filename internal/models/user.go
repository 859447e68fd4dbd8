package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the profile document kept in the store, mirroring the identity
// provider's profile at sign-up time. It is distinct from Credential so that
// deleting the user document and deleting the account are separate steps.
type User struct {
	ID                  uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"id"`
	Username            *string    `gorm:"size:50" json:"username,omitempty"`
	Email               *string    `gorm:"size:255" json:"email,omitempty"`
	ProfileImagePath    *string    `gorm:"size:255" json:"profile_image_path,omitempty"`
	ProfileImagePathURL *string    `gorm:"size:1024" json:"profile_image_path_url,omitempty"`
	DateCreated         time.Time  `gorm:"autoCreateTime" json:"date_created"`
	DateUpdated         *time.Time `json:"date_updated,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Credential is the identity-provider account: the thing a user signs in
// with. The account-deletion cascade removes it last, because once it is gone
// the session can no longer authenticate.
type Credential struct {
	UserID       uuid.UUID `gorm:"type:varchar(36);primarykey" json:"user_id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	DateCreated  time.Time `gorm:"autoCreateTime" json:"date_created"`
}
