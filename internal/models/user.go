package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is created lazily on the first successful authentication of a new
// identity-provider subject. Username and email are backfilled from the
// provider's userinfo endpoint during onboarding.
type User struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	Sub       string    `gorm:"size:255;not null;uniqueIndex" json:"sub"`
	Username  string    `gorm:"size:255" json:"username"`
	Email     string    `gorm:"size:255" json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}
