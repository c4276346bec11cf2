package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post is a topic-scoped learning post. IsHidden is flipped automatically
// by the report ledger and cleared only by admin unhide/dismiss; it is
// never writable through the post endpoints.
type Post struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"author_id"`
	Topic        string         `gorm:"size:50;not null;index" json:"topic"`
	Title        string         `gorm:"size:200;not null" json:"title"`
	Body         string         `gorm:"type:text;not null" json:"body"`
	IsHidden     bool           `gorm:"default:false;index" json:"is_hidden"`
	VoteScore    int            `gorm:"default:0" json:"vote_score"`
	CommentCount int            `gorm:"default:0" json:"comment_count"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Author       User           `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
}

// Topics is the fixed set of post topics.
var Topics = []string{
	"mathematics", "programming", "languages", "science",
	"history", "music", "art", "study-tips", "career", "other",
}

func ValidTopic(topic string) bool {
	for _, t := range Topics {
		if t == topic {
			return true
		}
	}
	return false
}
