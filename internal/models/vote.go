package models

import (
	"time"

	"github.com/google/uuid"
)

// PostVote is one user's vote on a post. Value is +1 or -1.
type PostVote struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_post_votes_user_post" json:"user_id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_post_votes_user_post" json:"post_id"`
	Value     int       `gorm:"not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Post      Post      `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}

// CommentVote is one user's vote on a comment.
type CommentVote struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_comment_votes_user_comment" json:"user_id"`
	CommentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_comment_votes_user_comment" json:"comment_id"`
	Value     int       `gorm:"not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Comment   Comment   `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE" json:"-"`
}
