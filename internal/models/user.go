package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User is a platform account. Password is a bcrypt hash and never serialized.
type User struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Username        string         `gorm:"size:30;not null;uniqueIndex" json:"username"`
	Email           string         `gorm:"size:255;not null;uniqueIndex" json:"-"`
	Password        string         `gorm:"not null" json:"-"`
	Role            string         `gorm:"size:20;default:'user'" json:"role"`
	Bio             string         `gorm:"size:500" json:"bio"`
	EmailVerifiedAt *time.Time     `json:"-"`
	Preferences     datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"preferences"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

func (u *User) IsVerified() bool {
	return u.EmailVerifiedAt != nil
}
