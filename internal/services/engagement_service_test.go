package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/learnloop/learnloop-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func postScore(t *testing.T, db *gorm.DB, id uuid.UUID) int {
	t.Helper()
	var post models.Post
	require.NoError(t, db.First(&post, "id = ?", id).Error)
	return post.VoteScore
}

func TestVotePost_ToggleAndReplace(t *testing.T) {
	db := testDB(t)
	svc := NewEngagementService(db)

	author := createUser(t, db, "author")
	voter := createUser(t, db, "voter")
	post := createPost(t, db, author)

	// Upvote.
	my, err := svc.VotePost(voter.ID, post.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, my)
	assert.Equal(t, 1, postScore(t, db, post.ID))

	// Same vote again removes it.
	my, err = svc.VotePost(voter.ID, post.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, my)
	assert.Equal(t, 0, postScore(t, db, post.ID))

	// Upvote then flip to downvote: score moves by two.
	_, err = svc.VotePost(voter.ID, post.ID, 1)
	require.NoError(t, err)
	my, err = svc.VotePost(voter.ID, post.ID, -1)
	require.NoError(t, err)
	assert.Equal(t, -1, my)
	assert.Equal(t, -1, postScore(t, db, post.ID))

	// Exactly one vote row regardless of the path taken.
	var count int64
	db.Model(&models.PostVote{}).Where("post_id = ?", post.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestVotePost_ScoreAggregatesVoters(t *testing.T) {
	db := testDB(t)
	svc := NewEngagementService(db)

	author := createUser(t, db, "author")
	post := createPost(t, db, author)

	up1 := createUser(t, db, "fan1")
	up2 := createUser(t, db, "fan2")
	down := createUser(t, db, "critic")

	_, err := svc.VotePost(up1.ID, post.ID, 1)
	require.NoError(t, err)
	_, err = svc.VotePost(up2.ID, post.ID, 1)
	require.NoError(t, err)
	_, err = svc.VotePost(down.ID, post.ID, -1)
	require.NoError(t, err)

	assert.Equal(t, 1, postScore(t, db, post.ID))
}

func TestVotePost_Validation(t *testing.T) {
	db := testDB(t)
	svc := NewEngagementService(db)

	author := createUser(t, db, "author")
	voter := createUser(t, db, "voter")
	post := createPost(t, db, author)

	_, err := svc.VotePost(voter.ID, post.ID, 2)
	assert.ErrorIs(t, err, ErrInvalidVote)

	_, err = svc.VotePost(voter.ID, uuid.New(), 1)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestVotePost_HiddenPostActsMissing(t *testing.T) {
	db := testDB(t)
	svc := NewEngagementService(db)

	author := createUser(t, db, "author")
	voter := createUser(t, db, "voter")
	post := createPost(t, db, author)
	hidePost(t, db, post)

	_, err := svc.VotePost(voter.ID, post.ID, 1)
	assert.ErrorIs(t, err, ErrPostNotFound)

	// The author can vote on their own hidden post.
	_, err = svc.VotePost(author.ID, post.ID, 1)
	assert.NoError(t, err)
}

func TestVoteComment(t *testing.T) {
	db := testDB(t)
	svc := NewEngagementService(db)

	author := createUser(t, db, "author")
	voter := createUser(t, db, "voter")
	post := createPost(t, db, author)
	comment := createComment(t, db, author, post)

	my, err := svc.VoteComment(voter.ID, comment.ID, -1)
	require.NoError(t, err)
	assert.Equal(t, -1, my)

	var current models.Comment
	require.NoError(t, db.First(&current, "id = ?", comment.ID).Error)
	assert.Equal(t, -1, current.VoteScore)

	my, err = svc.VoteComment(voter.ID, comment.ID, -1)
	require.NoError(t, err)
	assert.Equal(t, 0, my)

	_, err = svc.VoteComment(voter.ID, uuid.New(), 1)
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestToggleSave(t *testing.T) {
	db := testDB(t)
	svc := NewEngagementService(db)

	author := createUser(t, db, "author")
	reader := createUser(t, db, "reader")
	post := createPost(t, db, author)

	saved, err := svc.ToggleSave(reader.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, saved)

	saved, err = svc.ToggleSave(reader.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, saved)

	var count int64
	db.Model(&models.SavedPost{}).Where("user_id = ?", reader.ID).Count(&count)
	assert.Zero(t, count)

	_, err = svc.ToggleSave(reader.ID, uuid.New())
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestToggleSave_HiddenPostActsMissing(t *testing.T) {
	db := testDB(t)
	svc := NewEngagementService(db)

	author := createUser(t, db, "author")
	reader := createUser(t, db, "reader")
	post := createPost(t, db, author)
	hidePost(t, db, post)

	_, err := svc.ToggleSave(reader.ID, post.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
}
