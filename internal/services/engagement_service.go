package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/learnloop/learnloop-backend/internal/models"
	"github.com/learnloop/learnloop-backend/internal/visibility"
	"gorm.io/gorm"
)

var ErrInvalidVote = errors.New("vote value must be 1 or -1")

// EngagementService handles votes and bookmarks. Vote scores are kept
// consistent with the vote rows inside one transaction per operation.
type EngagementService struct {
	db *gorm.DB
}

func NewEngagementService(db *gorm.DB) *EngagementService {
	return &EngagementService{db: db}
}

// VotePost applies toggle/replace semantics: voting the same value again
// removes the vote, the opposite value replaces it. Returns the caller's
// resulting vote (0 when removed).
func (s *EngagementService) VotePost(userID, postID uuid.UUID, value int) (int, error) {
	if value != 1 && value != -1 {
		return 0, ErrInvalidVote
	}

	viewer := visibility.Viewer{UserID: &userID}
	var post models.Post
	if err := s.db.First(&post, "id = ?", postID).Error; err != nil {
		return 0, ErrPostNotFound
	}
	if !visibility.Visible(post.IsHidden, post.AuthorID, viewer) {
		return 0, ErrPostNotFound
	}

	result := 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.PostVote
		err := tx.Where("user_id = ? AND post_id = ?", userID, postID).First(&existing).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote := models.PostVote{ID: uuid.New(), UserID: userID, PostID: postID, Value: value}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
			result = value
			return bumpScore(tx, &models.Post{}, postID, value)
		case err != nil:
			return err
		case existing.Value == value:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			result = 0
			return bumpScore(tx, &models.Post{}, postID, -value)
		default:
			if err := tx.Model(&existing).Update("value", value).Error; err != nil {
				return err
			}
			result = value
			return bumpScore(tx, &models.Post{}, postID, 2*value)
		}
	})
	return result, err
}

func (s *EngagementService) VoteComment(userID, commentID uuid.UUID, value int) (int, error) {
	if value != 1 && value != -1 {
		return 0, ErrInvalidVote
	}

	viewer := visibility.Viewer{UserID: &userID}
	var comment models.Comment
	if err := s.db.First(&comment, "id = ?", commentID).Error; err != nil {
		return 0, ErrCommentNotFound
	}
	if !visibility.Visible(comment.IsHidden, comment.AuthorID, viewer) {
		return 0, ErrCommentNotFound
	}

	result := 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.CommentVote
		err := tx.Where("user_id = ? AND comment_id = ?", userID, commentID).First(&existing).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote := models.CommentVote{ID: uuid.New(), UserID: userID, CommentID: commentID, Value: value}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
			result = value
			return bumpScore(tx, &models.Comment{}, commentID, value)
		case err != nil:
			return err
		case existing.Value == value:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			result = 0
			return bumpScore(tx, &models.Comment{}, commentID, -value)
		default:
			if err := tx.Model(&existing).Update("value", value).Error; err != nil {
				return err
			}
			result = value
			return bumpScore(tx, &models.Comment{}, commentID, 2*value)
		}
	})
	return result, err
}

// ToggleSave bookmarks a post, or removes the bookmark when one exists.
// Returns whether the post is saved afterwards.
func (s *EngagementService) ToggleSave(userID, postID uuid.UUID) (bool, error) {
	viewer := visibility.Viewer{UserID: &userID}
	var post models.Post
	if err := s.db.First(&post, "id = ?", postID).Error; err != nil {
		return false, ErrPostNotFound
	}
	if !visibility.Visible(post.IsHidden, post.AuthorID, viewer) {
		return false, ErrPostNotFound
	}

	var existing models.SavedPost
	if err := s.db.Where("user_id = ? AND post_id = ?", userID, postID).First(&existing).Error; err == nil {
		return false, s.db.Delete(&existing).Error
	}

	saved := models.SavedPost{ID: uuid.New(), UserID: userID, PostID: postID}
	return true, s.db.Create(&saved).Error
}

func bumpScore(tx *gorm.DB, model interface{}, id uuid.UUID, delta int) error {
	return tx.Model(model).Where("id = ?", id).
		Update("vote_score", gorm.Expr("vote_score + ?", delta)).Error
}
