package models

import (
	"time"

	"github.com/google/uuid"
)

// Report reasons.
const (
	ReasonSpam           = "SPAM"
	ReasonInappropriate  = "INAPPROPRIATE"
	ReasonHarassment     = "HARASSMENT"
	ReasonMisinformation = "MISINFORMATION"
	ReasonOffTopic       = "OFF_TOPIC"
	ReasonOther          = "OTHER"
)

var ReportReasons = []string{
	ReasonSpam, ReasonInappropriate, ReasonHarassment,
	ReasonMisinformation, ReasonOffTopic, ReasonOther,
}

func ValidReportReason(reason string) bool {
	for _, r := range ReportReasons {
		if r == reason {
			return true
		}
	}
	return false
}

// Report is one user's flag against exactly one of a post or a comment.
// Rows are immutable once created; an admin dismiss bulk-deletes every
// row against the same target. The composite unique indexes enforce
// one report per reporter per target (NULL target ids do not collide).
type Report struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ReporterID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_reports_reporter_post;uniqueIndex:idx_reports_reporter_comment" json:"reporter_id"`
	PostID     *uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_reports_reporter_post" json:"post_id,omitempty"`
	CommentID  *uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_reports_reporter_comment" json:"comment_id,omitempty"`
	Reason     string     `gorm:"size:20;not null" json:"reason"`
	Details    string     `gorm:"size:1000" json:"details,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	Reporter   User       `gorm:"foreignKey:ReporterID;constraint:OnDelete:CASCADE" json:"-"`
	Post       *Post      `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	Comment    *Comment   `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE" json:"-"`
}
