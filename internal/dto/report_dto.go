package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateReportRequest targets exactly one of a post or a comment.
type CreateReportRequest struct {
	PostID    *uuid.UUID `json:"post_id"`
	CommentID *uuid.UUID `json:"comment_id"`
	Reason    string     `json:"reason"`
	Details   string     `json:"details"`
}

type ReportResponse struct {
	ID        uuid.UUID  `json:"id"`
	PostID    *uuid.UUID `json:"post_id,omitempty"`
	CommentID *uuid.UUID `json:"comment_id,omitempty"`
	Reason    string     `json:"reason"`
	Details   string     `json:"details,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ReportTarget is the admin projection of the reported content item.
type ReportTarget struct {
	Type     string       `json:"type"` // "post" or "comment"
	ID       uuid.UUID    `json:"id"`
	Excerpt  string       `json:"excerpt"`
	IsHidden bool         `json:"is_hidden"`
	Deleted  bool         `json:"deleted"`
	Author   UserResponse `json:"author"`
}

// AdminReportResponse is one row of the admin report queue.
type AdminReportResponse struct {
	ReportResponse
	Reporter     UserResponse `json:"reporter"`
	Target       ReportTarget `json:"target"`
	TotalReports int64        `json:"total_reports"`
}

type AdminReportListResponse struct {
	Reports []AdminReportResponse `json:"reports"`
	Limit   int                   `json:"limit"`
	Offset  int                   `json:"offset"`
	HasMore bool                  `json:"has_more"`
}

// AdminReportDetailResponse adds every sibling report against the same
// target. Reporter and author projections include email since this view
// is admin-only.
type AdminReportDetailResponse struct {
	AdminReportResponse
	AllReports []AdminReportResponse `json:"all_reports"`
}
