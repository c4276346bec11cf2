package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/learnloop/learnloop-backend/internal/config"
	"github.com/learnloop/learnloop-backend/internal/email"
	"github.com/learnloop/learnloop-backend/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDB opens an isolated in-memory SQLite database. The pool is capped
// at one connection so every query sees the same memory database.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.EmailVerification{},
		&models.Post{},
		&models.Comment{},
		&models.PostVote{},
		&models.CommentVote{},
		&models.SavedPost{},
		&models.Report{},
	))

	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		JWTAccessExpiry:    15 * time.Minute,
		JWTRefreshExpiry:   168 * time.Hour,
		VerificationExpiry: 24 * time.Hour,
		BaseURL:            "http://localhost:8080",
	}
}

func testSender() *email.Sender {
	// No SMTP host: messages are logged, never sent.
	return email.NewSender(email.Config{})
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	now := time.Now()
	user := &models.User{
		ID:              uuid.New(),
		Username:        username,
		Email:           username + "@example.com",
		Password:        "x",
		Role:            "user",
		EmailVerifiedAt: &now,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createAdmin(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := createUser(t, db, username)
	require.NoError(t, db.Model(user).Update("role", "admin").Error)
	user.Role = "admin"
	return user
}

func createPost(t *testing.T, db *gorm.DB, author *models.User) *models.Post {
	t.Helper()

	post := &models.Post{
		ID:       uuid.New(),
		AuthorID: author.ID,
		Topic:    "programming",
		Title:    "How do goroutines work?",
		Body:     "Trying to understand the scheduler.",
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func createComment(t *testing.T, db *gorm.DB, author *models.User, post *models.Post) *models.Comment {
	t.Helper()

	comment := &models.Comment{
		ID:       uuid.New(),
		PostID:   post.ID,
		AuthorID: author.ID,
		Body:     "Start with the runtime docs.",
	}
	require.NoError(t, db.Create(comment).Error)
	return comment
}
