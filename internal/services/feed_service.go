package services

import (
	"github.com/google/uuid"
	"github.com/learnloop/learnloop-backend/internal/dto"
	"github.com/learnloop/learnloop-backend/internal/models"
	"github.com/learnloop/learnloop-backend/internal/visibility"
	"gorm.io/gorm"
)

// FeedService serves the read-only discovery surfaces. Every query goes
// through visibility.Scope; ordering is plain recency with the id as a
// deterministic tiebreaker.
type FeedService struct {
	db *gorm.DB
}

func NewFeedService(db *gorm.DB) *FeedService {
	return &FeedService{db: db}
}

func (s *FeedService) Home(viewer visibility.Viewer, page, limit int) (*dto.PostListResponse, error) {
	query := s.db.Model(&models.Post{}).Scopes(visibility.Scope(viewer))
	return s.pagePosts(viewer, query, page, limit)
}

func (s *FeedService) Topic(viewer visibility.Viewer, topic string, page, limit int) (*dto.PostListResponse, error) {
	if !models.ValidTopic(topic) {
		return nil, ErrInvalidTopic
	}
	query := s.db.Model(&models.Post{}).
		Scopes(visibility.Scope(viewer)).
		Where("topic = ?", topic)
	return s.pagePosts(viewer, query, page, limit)
}

// Author lists one user's posts. The viewer==author case falls out of the
// same scope, evaluated once for the whole page.
func (s *FeedService) Author(viewer visibility.Viewer, authorID uuid.UUID, page, limit int) (*dto.PostListResponse, error) {
	var author models.User
	if err := s.db.First(&author, "id = ?", authorID).Error; err != nil {
		return nil, ErrUserNotFound
	}

	query := s.db.Model(&models.Post{}).
		Scopes(visibility.Scope(viewer)).
		Where("author_id = ?", authorID)
	return s.pagePosts(viewer, query, page, limit)
}

// Saved lists the viewer's bookmarks, dropping posts that are not
// currently visible to them.
func (s *FeedService) Saved(viewer visibility.Viewer, page, limit int) (*dto.PostListResponse, error) {
	if viewer.UserID == nil {
		return nil, ErrUserNotFound
	}
	query := s.db.Model(&models.Post{}).
		Joins("JOIN saved_posts ON saved_posts.post_id = posts.id").
		Where("saved_posts.user_id = ?", *viewer.UserID).
		Scopes(visibility.Scope(viewer))
	return s.pagePosts(viewer, query, page, limit)
}

func (s *FeedService) Comments(viewer visibility.Viewer, postID uuid.UUID, page, limit int) (*dto.CommentListResponse, error) {
	// The parent post must itself be visible to the viewer.
	var post models.Post
	if err := s.db.First(&post, "id = ?", postID).Error; err != nil {
		return nil, ErrPostNotFound
	}
	if !visibility.Visible(post.IsHidden, post.AuthorID, viewer) {
		return nil, ErrPostNotFound
	}

	page, limit = clampPage(page, limit)
	offset := (page - 1) * limit

	query := s.db.Model(&models.Comment{}).
		Scopes(visibility.Scope(viewer)).
		Where("post_id = ?", postID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var comments []models.Comment
	err := query.Preload("Author", unscoped).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	rows, err := s.enrichComments(viewer, comments)
	if err != nil {
		return nil, err
	}

	return &dto.CommentListResponse{
		Comments:   rows,
		Pagination: paginate(page, limit, total),
	}, nil
}

// EnrichPost shapes a single post with the viewer's vote/save state.
func (s *FeedService) EnrichPost(viewer visibility.Viewer, post *models.Post) (*dto.PostResponse, error) {
	rows, err := s.enrichPosts(viewer, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &rows[0], nil
}

func (s *FeedService) pagePosts(viewer visibility.Viewer, query *gorm.DB, page, limit int) (*dto.PostListResponse, error) {
	page, limit = clampPage(page, limit)
	offset := (page - 1) * limit

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var posts []models.Post
	err := query.Preload("Author", unscoped).
		Order("posts.created_at DESC, posts.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	rows, err := s.enrichPosts(viewer, posts)
	if err != nil {
		return nil, err
	}

	return &dto.PostListResponse{
		Posts:      rows,
		Pagination: paginate(page, limit, total),
	}, nil
}

// enrichPosts attaches the viewer's vote and saved state with two batched
// lookups instead of per-row queries.
func (s *FeedService) enrichPosts(viewer visibility.Viewer, posts []models.Post) ([]dto.PostResponse, error) {
	voteMap := map[uuid.UUID]int{}
	saveMap := map[uuid.UUID]bool{}

	if viewer.UserID != nil && len(posts) > 0 {
		ids := make([]uuid.UUID, len(posts))
		for i := range posts {
			ids[i] = posts[i].ID
		}

		var votes []models.PostVote
		if err := s.db.Where("user_id = ? AND post_id IN ?", *viewer.UserID, ids).Find(&votes).Error; err != nil {
			return nil, err
		}
		for _, v := range votes {
			voteMap[v.PostID] = v.Value
		}

		var saves []models.SavedPost
		if err := s.db.Where("user_id = ? AND post_id IN ?", *viewer.UserID, ids).Find(&saves).Error; err != nil {
			return nil, err
		}
		for _, sp := range saves {
			saveMap[sp.PostID] = true
		}
	}

	rows := make([]dto.PostResponse, len(posts))
	for i := range posts {
		p := &posts[i]
		rows[i] = dto.PostResponse{
			ID:           p.ID,
			AuthorID:     p.AuthorID,
			Author:       p.Author.Username,
			Topic:        p.Topic,
			Title:        p.Title,
			Body:         p.Body,
			IsHidden:     p.IsHidden,
			VoteScore:    p.VoteScore,
			CommentCount: p.CommentCount,
			MyVote:       voteMap[p.ID],
			IsSaved:      saveMap[p.ID],
			CreatedAt:    p.CreatedAt,
			UpdatedAt:    p.UpdatedAt,
		}
	}
	return rows, nil
}

func (s *FeedService) enrichComments(viewer visibility.Viewer, comments []models.Comment) ([]dto.CommentResponse, error) {
	voteMap := map[uuid.UUID]int{}

	if viewer.UserID != nil && len(comments) > 0 {
		ids := make([]uuid.UUID, len(comments))
		for i := range comments {
			ids[i] = comments[i].ID
		}

		var votes []models.CommentVote
		if err := s.db.Where("user_id = ? AND comment_id IN ?", *viewer.UserID, ids).Find(&votes).Error; err != nil {
			return nil, err
		}
		for _, v := range votes {
			voteMap[v.CommentID] = v.Value
		}
	}

	rows := make([]dto.CommentResponse, len(comments))
	for i := range comments {
		c := &comments[i]
		rows[i] = dto.CommentResponse{
			ID:        c.ID,
			PostID:    c.PostID,
			AuthorID:  c.AuthorID,
			Author:    c.Author.Username,
			Body:      c.Body,
			IsHidden:  c.IsHidden,
			VoteScore: c.VoteScore,
			MyVote:    voteMap[c.ID],
			CreatedAt: c.CreatedAt,
		}
	}
	return rows, nil
}

func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}
	return page, limit
}

func paginate(page, limit int, total int64) dto.Pagination {
	return dto.Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
	}
}

func unscoped(db *gorm.DB) *gorm.DB { return db.Unscoped() }
