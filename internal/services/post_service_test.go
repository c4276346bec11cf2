package services

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/learnloop/learnloop-backend/internal/dto"
	"github.com/learnloop/learnloop-backend/internal/models"
	"github.com/learnloop/learnloop-backend/internal/visibility"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	db := testDB(t)
	svc := NewPostService(db)
	author := createUser(t, db, "author")

	post, err := svc.CreatePost(author.ID, &dto.CreatePostRequest{
		Topic: "programming",
		Title: "Understanding goroutine leaks",
		Body:  "A goroutine leaks when it blocks forever on a channel nobody closes.",
	})
	require.NoError(t, err)
	assert.Equal(t, author.ID, post.AuthorID)
	assert.False(t, post.IsHidden)

	_, err = svc.CreatePost(author.ID, &dto.CreatePostRequest{Topic: "astrology", Title: "t", Body: "b"})
	assert.ErrorIs(t, err, ErrInvalidTopic)

	_, err = svc.CreatePost(author.ID, &dto.CreatePostRequest{Topic: "programming", Title: "", Body: "b"})
	assert.Error(t, err)

	_, err = svc.CreatePost(author.ID, &dto.CreatePostRequest{
		Topic: "programming", Title: "t", Body: strings.Repeat("a", 10001),
	})
	assert.Error(t, err)
}

func TestCreatePost_ContentFilter(t *testing.T) {
	db := testDB(t)
	svc := NewPostService(db)
	author := createUser(t, db, "author")

	_, err := svc.CreatePost(author.ID, &dto.CreatePostRequest{
		Topic: "programming",
		Title: "This fucking compiler",
		Body:  "Why does it keep rejecting my code?",
	})
	assert.ErrorIs(t, err, ErrContentRejected)

	_, err = svc.CreatePost(author.ID, &dto.CreatePostRequest{
		Topic: "programming",
		Title: "Private tutoring",
		Body:  "Reach me at tutor@example.com for paid lessons.",
	})
	assert.ErrorIs(t, err, ErrContentRejected)

	// Nothing gets stored when the filter rejects.
	var count int64
	db.Model(&models.Post{}).Count(&count)
	assert.Zero(t, count)
}

func TestCreateComment_ContentFilter(t *testing.T) {
	db := testDB(t)
	svc := NewPostService(db)

	author := createUser(t, db, "author")
	commenter := createUser(t, db, "commenter")
	post := createPost(t, db, author)

	_, err := svc.CreateComment(commenter.ID, post.ID, &dto.CreateCommentRequest{
		Body: "what a shitty take",
	})
	assert.ErrorIs(t, err, ErrContentRejected)

	var current models.Post
	require.NoError(t, db.First(&current, "id = ?", post.ID).Error)
	assert.Equal(t, 0, current.CommentCount)
}

func TestCreatePost_RequiresVerifiedEmail(t *testing.T) {
	db := testDB(t)
	svc := NewPostService(db)

	unverified := createUser(t, db, "newcomer")
	require.NoError(t, db.Model(unverified).Update("email_verified_at", nil).Error)

	_, err := svc.CreatePost(unverified.ID, &dto.CreatePostRequest{
		Topic: "programming", Title: "t", Body: "b",
	})
	assert.ErrorIs(t, err, ErrEmailNotVerified)
}

func TestGetPost_Visibility(t *testing.T) {
	db := testDB(t)
	svc := NewPostService(db)

	author := createUser(t, db, "author")
	stranger := createUser(t, db, "stranger")
	admin := createAdmin(t, db, "moderator")
	post := createPost(t, db, author)
	hidePost(t, db, post)

	_, err := svc.GetPost(visibility.Viewer{}, post.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = svc.GetPost(viewerFor(stranger), post.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)

	own, err := svc.GetPost(viewerFor(author), post.ID)
	require.NoError(t, err)
	assert.True(t, own.IsHidden)

	_, err = svc.GetPost(viewerFor(admin), post.ID)
	assert.NoError(t, err)

	_, err = svc.GetPost(visibility.Viewer{}, uuid.New())
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestUpdatePost_OwnerOnly(t *testing.T) {
	db := testDB(t)
	svc := NewPostService(db)

	author := createUser(t, db, "author")
	stranger := createUser(t, db, "stranger")
	post := createPost(t, db, author)

	title := "Revised title"
	_, err := svc.UpdatePost(stranger.ID, post.ID, &dto.UpdatePostRequest{Title: &title})
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = svc.UpdatePost(author.ID, post.ID, &dto.UpdatePostRequest{Title: &title})
	require.NoError(t, err)

	var current models.Post
	require.NoError(t, db.First(&current, "id = ?", post.ID).Error)
	assert.Equal(t, title, current.Title)
}

func TestDeletePost(t *testing.T) {
	db := testDB(t)
	svc := NewPostService(db)

	author := createUser(t, db, "author")
	stranger := createUser(t, db, "stranger")
	post := createPost(t, db, author)

	assert.ErrorIs(t, svc.DeletePost(stranger.ID, post.ID), ErrNotOwner)
	require.NoError(t, svc.DeletePost(author.ID, post.ID))

	// Soft deleted: gone from default queries, row kept for audit.
	_, err := svc.GetPost(viewerFor(author), post.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)

	var count int64
	db.Unscoped().Model(&models.Post{}).Where("id = ?", post.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestCreateComment(t *testing.T) {
	db := testDB(t)
	svc := NewPostService(db)

	author := createUser(t, db, "author")
	commenter := createUser(t, db, "commenter")
	post := createPost(t, db, author)

	comment, err := svc.CreateComment(commenter.ID, post.ID, &dto.CreateCommentRequest{Body: "Great writeup."})
	require.NoError(t, err)
	assert.Equal(t, post.ID, comment.PostID)

	var current models.Post
	require.NoError(t, db.First(&current, "id = ?", post.ID).Error)
	assert.Equal(t, 1, current.CommentCount)

	_, err = svc.CreateComment(commenter.ID, post.ID, &dto.CreateCommentRequest{Body: ""})
	assert.Error(t, err)

	_, err = svc.CreateComment(commenter.ID, uuid.New(), &dto.CreateCommentRequest{Body: "hello"})
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestCreateComment_HiddenParent(t *testing.T) {
	db := testDB(t)
	svc := NewPostService(db)

	author := createUser(t, db, "author")
	stranger := createUser(t, db, "stranger")
	post := createPost(t, db, author)
	hidePost(t, db, post)

	_, err := svc.CreateComment(stranger.ID, post.ID, &dto.CreateCommentRequest{Body: "hello"})
	assert.ErrorIs(t, err, ErrPostNotFound)

	// The author can still comment on their own hidden post.
	_, err = svc.CreateComment(author.ID, post.ID, &dto.CreateCommentRequest{Body: "context"})
	assert.NoError(t, err)
}

func TestDeleteComment(t *testing.T) {
	db := testDB(t)
	svc := NewPostService(db)

	author := createUser(t, db, "author")
	commenter := createUser(t, db, "commenter")
	post := createPost(t, db, author)

	comment, err := svc.CreateComment(commenter.ID, post.ID, &dto.CreateCommentRequest{Body: "hi"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteComment(author.ID, comment.ID), ErrNotOwner)
	require.NoError(t, svc.DeleteComment(commenter.ID, comment.ID))

	var current models.Post
	require.NoError(t, db.First(&current, "id = ?", post.ID).Error)
	assert.Equal(t, 0, current.CommentCount)

	assert.ErrorIs(t, svc.DeleteComment(commenter.ID, comment.ID), ErrCommentNotFound)
}
