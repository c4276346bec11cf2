package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreatePostRequest struct {
	Topic string `json:"topic"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

type UpdatePostRequest struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
}

type CreateCommentRequest struct {
	Body string `json:"body"`
}

type VoteRequest struct {
	Value int `json:"value"`
}

// PostResponse is a post enriched with viewer-specific state. MyVote is 0
// when the viewer has not voted; IsHidden only surfaces to viewers who
// can see hidden content (the author and admins).
type PostResponse struct {
	ID           uuid.UUID `json:"id"`
	AuthorID     uuid.UUID `json:"author_id"`
	Author       string    `json:"author"`
	Topic        string    `json:"topic"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	IsHidden     bool      `json:"is_hidden"`
	VoteScore    int       `json:"vote_score"`
	CommentCount int       `json:"comment_count"`
	MyVote       int       `json:"my_vote"`
	IsSaved      bool      `json:"is_saved"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CommentResponse struct {
	ID        uuid.UUID `json:"id"`
	PostID    uuid.UUID `json:"post_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	IsHidden  bool      `json:"is_hidden"`
	VoteScore int       `json:"vote_score"`
	MyVote    int       `json:"my_vote"`
	CreatedAt time.Time `json:"created_at"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

type PostListResponse struct {
	Posts      []PostResponse `json:"posts"`
	Pagination Pagination     `json:"pagination"`
}

type CommentListResponse struct {
	Comments   []CommentResponse `json:"comments"`
	Pagination Pagination        `json:"pagination"`
}
