package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment shares Post's moderation semantics: same hidden flag, same
// soft delete, same report ledger.
type Comment struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"post_id"`
	AuthorID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"author_id"`
	Body      string         `gorm:"type:text;not null" json:"body"`
	IsHidden  bool           `gorm:"default:false" json:"is_hidden"`
	VoteScore int            `gorm:"default:0" json:"vote_score"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Post      Post           `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	Author    User           `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
}
