package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/learnloop/learnloop-backend/internal/dto"
	"github.com/learnloop/learnloop-backend/internal/models"
	"github.com/learnloop/learnloop-backend/internal/visibility"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrInvalidTopic    = errors.New("unknown topic")
	ErrNotOwner        = errors.New("you do not own this content")
	ErrInvalidInput    = errors.New("invalid input")
)

// invalidInput marks a caller mistake so handlers can answer 400 instead
// of treating it as a server fault.
func invalidInput(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}

type PostService struct {
	db     *gorm.DB
	filter *ContentFilter
}

func NewPostService(db *gorm.DB) *PostService {
	return &PostService{db: db, filter: NewContentFilter()}
}

func (s *PostService) CreatePost(authorID uuid.UUID, req *dto.CreatePostRequest) (*models.Post, error) {
	if !models.ValidTopic(req.Topic) {
		return nil, ErrInvalidTopic
	}
	if len(req.Title) < 1 || len(req.Title) > 200 {
		return nil, invalidInput("title must be 1-200 characters")
	}
	if len(req.Body) < 1 || len(req.Body) > 10000 {
		return nil, invalidInput("body must be 1-10000 characters")
	}
	if err := s.filter.Check(req.Title); err != nil {
		return nil, err
	}
	if err := s.filter.Check(req.Body); err != nil {
		return nil, err
	}

	if err := s.requireVerified(authorID); err != nil {
		return nil, err
	}

	post := &models.Post{
		ID:       uuid.New(),
		AuthorID: authorID,
		Topic:    req.Topic,
		Title:    req.Title,
		Body:     req.Body,
	}

	if err := s.db.Create(post).Error; err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

// GetPost returns a post the viewer is allowed to see; hidden posts
// resolve as not-found for everyone but the author and admins.
func (s *PostService) GetPost(viewer visibility.Viewer, postID uuid.UUID) (*models.Post, error) {
	var post models.Post
	if err := s.db.Preload("Author").First(&post, "id = ?", postID).Error; err != nil {
		return nil, ErrPostNotFound
	}
	if !visibility.Visible(post.IsHidden, post.AuthorID, viewer) {
		return nil, ErrPostNotFound
	}
	return &post, nil
}

func (s *PostService) UpdatePost(authorID, postID uuid.UUID, req *dto.UpdatePostRequest) (*models.Post, error) {
	var post models.Post
	if err := s.db.First(&post, "id = ?", postID).Error; err != nil {
		return nil, ErrPostNotFound
	}
	if post.AuthorID != authorID {
		return nil, ErrNotOwner
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		if len(*req.Title) < 1 || len(*req.Title) > 200 {
			return nil, invalidInput("title must be 1-200 characters")
		}
		if err := s.filter.Check(*req.Title); err != nil {
			return nil, err
		}
		updates["title"] = *req.Title
	}
	if req.Body != nil {
		if len(*req.Body) < 1 || len(*req.Body) > 10000 {
			return nil, invalidInput("body must be 1-10000 characters")
		}
		if err := s.filter.Check(*req.Body); err != nil {
			return nil, err
		}
		updates["body"] = *req.Body
	}
	if len(updates) > 0 {
		if err := s.db.Model(&post).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update post: %w", err)
		}
	}
	return &post, nil
}

func (s *PostService) DeletePost(authorID, postID uuid.UUID) error {
	var post models.Post
	if err := s.db.First(&post, "id = ?", postID).Error; err != nil {
		return ErrPostNotFound
	}
	if post.AuthorID != authorID {
		return ErrNotOwner
	}
	return s.db.Delete(&post).Error
}

// CreateComment adds a comment to a post the author can see.
func (s *PostService) CreateComment(authorID, postID uuid.UUID, req *dto.CreateCommentRequest) (*models.Comment, error) {
	if len(req.Body) < 1 || len(req.Body) > 2000 {
		return nil, invalidInput("comment must be 1-2000 characters")
	}
	if err := s.filter.Check(req.Body); err != nil {
		return nil, err
	}

	if err := s.requireVerified(authorID); err != nil {
		return nil, err
	}

	viewer := visibility.Viewer{UserID: &authorID}
	if _, err := s.GetPost(viewer, postID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:       uuid.New(),
		PostID:   postID,
		AuthorID: authorID,
		Body:     req.Body,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}
		return tx.Model(&models.Post{}).Where("id = ?", postID).
			Update("comment_count", gorm.Expr("comment_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *PostService) DeleteComment(authorID, commentID uuid.UUID) error {
	var comment models.Comment
	if err := s.db.First(&comment, "id = ?", commentID).Error; err != nil {
		return ErrCommentNotFound
	}
	if comment.AuthorID != authorID {
		return ErrNotOwner
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", comment.PostID).
			Update("comment_count", gorm.Expr("comment_count - 1")).Error
	})
}

func (s *PostService) GetUser(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (s *PostService) requireVerified(userID uuid.UUID) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return ErrUserNotFound
	}
	if !user.IsVerified() {
		return ErrEmailNotVerified
	}
	return nil
}
