package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/learnloop/learnloop-backend/internal/dto"
	"github.com/learnloop/learnloop-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func authService(db *gorm.DB) *AuthService {
	return NewAuthService(db, testConfig(), testSender())
}

func register(t *testing.T, svc *AuthService, username, email string) *dto.AuthResponse {
	t.Helper()
	resp, err := svc.Register(&dto.RegisterRequest{
		Username: username,
		Email:    email,
		Password: "correct-horse",
	})
	require.NoError(t, err)
	return resp
}

func TestRegister(t *testing.T) {
	db := testDB(t)
	svc := authService(db)

	resp := register(t, svc, "alice", "alice@example.com")
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "alice", resp.User.Username)
	assert.False(t, resp.User.Verified, "new accounts start unverified")

	// A verification token was issued.
	var count int64
	db.Model(&models.EmailVerification{}).Where("user_id = ?", resp.User.ID).Count(&count)
	assert.EqualValues(t, 1, count)

	_, err := svc.Register(&dto.RegisterRequest{Username: "alice2", Email: "alice@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Register(&dto.RegisterRequest{Username: "alice", Email: "other@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = svc.Register(&dto.RegisterRequest{Username: "x", Email: "x@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrInvalidInput, "username shorter than 3 characters")

	_, err = svc.Register(&dto.RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "short"})
	assert.ErrorIs(t, err, ErrInvalidInput, "password shorter than 8 characters")

	_, err = svc.Register(&dto.RegisterRequest{Username: "bullshit", Email: "bs@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrContentRejected, "profane username")
}

func TestLogin(t *testing.T) {
	db := testDB(t)
	svc := authService(db)
	register(t, svc, "alice", "alice@example.com")

	resp, err := svc.Login(&dto.LoginRequest{Email: "alice@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.User.Username)
	assert.Equal(t, "alice@example.com", resp.User.Email)

	_, err = svc.Login(&dto.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(&dto.LoginRequest{Email: "nobody@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh_Rotation(t *testing.T) {
	db := testDB(t)
	svc := authService(db)
	first := register(t, svc, "alice", "alice@example.com")

	second, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: first.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The consumed token is revoked; replaying it fails.
	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: first.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)

	// The rotated token still works.
	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: second.RefreshToken})
	assert.NoError(t, err)
}

func TestRefresh_Expired(t *testing.T) {
	db := testDB(t)
	svc := authService(db)
	resp := register(t, svc, "alice", "alice@example.com")

	require.NoError(t, db.Model(&models.RefreshToken{}).
		Where("token_hash = ?", hashToken(resp.RefreshToken)).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	_, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogout(t *testing.T) {
	db := testDB(t)
	svc := authService(db)
	resp := register(t, svc, "alice", "alice@example.com")

	require.NoError(t, svc.Logout(&dto.LogoutRequest{RefreshToken: resp.RefreshToken}))

	_, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyEmail(t *testing.T) {
	db := testDB(t)
	svc := authService(db)
	resp := register(t, svc, "alice", "alice@example.com")

	// Issue a token with a known raw value.
	raw := "known-verification-token"
	require.NoError(t, db.Create(&models.EmailVerification{
		ID:        uuid.New(),
		UserID:    resp.User.ID,
		TokenHash: hashToken(raw),
		ExpiresAt: time.Now().Add(time.Hour),
	}).Error)

	require.NoError(t, svc.VerifyEmail(raw))

	var user models.User
	require.NoError(t, db.First(&user, "id = ?", resp.User.ID).Error)
	assert.True(t, user.IsVerified())

	// Single use.
	assert.ErrorIs(t, svc.VerifyEmail(raw), ErrInvalidVerification)

	assert.ErrorIs(t, svc.VerifyEmail("no-such-token"), ErrInvalidVerification)
}

func TestVerifyEmail_Expired(t *testing.T) {
	db := testDB(t)
	svc := authService(db)
	resp := register(t, svc, "alice", "alice@example.com")

	raw := "stale-token"
	require.NoError(t, db.Create(&models.EmailVerification{
		ID:        uuid.New(),
		UserID:    resp.User.ID,
		TokenHash: hashToken(raw),
		ExpiresAt: time.Now().Add(-time.Minute),
	}).Error)

	assert.ErrorIs(t, svc.VerifyEmail(raw), ErrInvalidVerification)

	var user models.User
	require.NoError(t, db.First(&user, "id = ?", resp.User.ID).Error)
	assert.False(t, user.IsVerified())
}

func TestResendVerification(t *testing.T) {
	db := testDB(t)
	svc := authService(db)
	resp := register(t, svc, "alice", "alice@example.com")

	require.NoError(t, svc.ResendVerification(resp.User.ID))

	var count int64
	db.Model(&models.EmailVerification{}).Where("user_id = ?", resp.User.ID).Count(&count)
	assert.EqualValues(t, 2, count)

	verified := createUser(t, db, "bob")
	assert.ErrorIs(t, svc.ResendVerification(verified.ID), ErrAlreadyVerified)

	assert.ErrorIs(t, svc.ResendVerification(uuid.New()), ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	db := testDB(t)
	svc := authService(db)
	user := createUser(t, db, "alice")

	bio := "Learning Go, one service at a time."
	_, err := svc.UpdateProfile(user.ID, &dto.UpdateProfileRequest{Bio: &bio})
	require.NoError(t, err)

	var current models.User
	require.NoError(t, db.First(&current, "id = ?", user.ID).Error)
	assert.Equal(t, bio, current.Bio)

	long := make([]byte, 501)
	for i := range long {
		long[i] = 'a'
	}
	tooLong := string(long)
	_, err = svc.UpdateProfile(user.ID, &dto.UpdateProfileRequest{Bio: &tooLong})
	assert.Error(t, err)
}

func TestDeleteAccount(t *testing.T) {
	db := testDB(t)
	svc := authService(db)
	resp := register(t, svc, "alice", "alice@example.com")

	// Wrong password is rejected.
	assert.ErrorIs(t, svc.DeleteAccount(resp.User.ID, "wrong"), ErrInvalidCredentials)

	require.NoError(t, svc.DeleteAccount(resp.User.ID, "correct-horse"))

	var count int64
	db.Model(&models.RefreshToken{}).Where("user_id = ?", resp.User.ID).Count(&count)
	assert.Zero(t, count)

	var user models.User
	err := db.First(&user, "id = ?", resp.User.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteAccount_RollsBackWhenChildDeleteFails(t *testing.T) {
	db := testDB(t)
	svc := authService(db)
	resp := register(t, svc, "alice", "alice@example.com")

	// Break one of the child tables so the cleanup cannot complete.
	require.NoError(t, db.Migrator().DropTable(&models.PostVote{}))

	err := svc.DeleteAccount(resp.User.ID, "correct-horse")
	require.Error(t, err)

	// Nothing was deleted: earlier child deletes rolled back with it.
	var user models.User
	require.NoError(t, db.First(&user, "id = ?", resp.User.ID).Error)

	var tokens int64
	db.Model(&models.RefreshToken{}).Where("user_id = ?", resp.User.ID).Count(&tokens)
	assert.EqualValues(t, 1, tokens)
}
