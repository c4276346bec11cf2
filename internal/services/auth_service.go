package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/learnloop/learnloop-backend/internal/config"
	"github.com/learnloop/learnloop-backend/internal/dto"
	"github.com/learnloop/learnloop-backend/internal/email"
	"github.com/learnloop/learnloop-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken          = errors.New("email already registered")
	ErrUsernameTaken       = errors.New("username already taken")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidToken        = errors.New("invalid or expired refresh token")
	ErrInvalidVerification = errors.New("invalid or expired verification token")
	ErrAlreadyVerified     = errors.New("email already verified")
	ErrUserNotFound        = errors.New("user not found")
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)

type AuthService struct {
	db     *gorm.DB
	cfg    *config.Config
	sender *email.Sender
	filter *ContentFilter
}

func NewAuthService(db *gorm.DB, cfg *config.Config, sender *email.Sender) *AuthService {
	return &AuthService{db: db, cfg: cfg, sender: sender, filter: NewContentFilter()}
}

func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if len(req.Email) == 0 || len(req.Password) < 8 {
		return nil, invalidInput("email required and password must be at least 8 characters")
	}
	if !usernamePattern.MatchString(req.Username) {
		return nil, invalidInput("username must be 3-30 characters (letters, digits, underscore)")
	}
	if s.filter.ContainsProfanity(req.Username) {
		return nil, rejection("inappropriate_language")
	}

	var existing models.User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}
	if err := s.db.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:          uuid.New(),
		Username:    req.Username,
		Email:       req.Email,
		Password:    string(hash),
		Preferences: datatypes.JSON([]byte(`{}`)),
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.sendVerification(&user); err != nil {
		// Registration stands even when the mail bounces; the user can
		// request a resend.
		slog.Error("failed to send verification email", "user_id", user.ID, "error", err)
	}

	return s.generateTokenPair(&user)
}

func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokenPair(&user)
}

func (s *AuthService) Refresh(req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	tokenHash := hashToken(req.RefreshToken)

	var stored models.RefreshToken
	if err := s.db.Where("token_hash = ? AND revoked = false", tokenHash).First(&stored).Error; err != nil {
		return nil, ErrInvalidToken
	}

	if time.Now().After(stored.ExpiresAt) {
		s.db.Model(&stored).Update("revoked", true)
		return nil, ErrInvalidToken
	}

	s.db.Model(&stored).Update("revoked", true)

	var user models.User
	if err := s.db.First(&user, "id = ?", stored.UserID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	return s.generateTokenPair(&user)
}

func (s *AuthService) Logout(req *dto.LogoutRequest) error {
	tokenHash := hashToken(req.RefreshToken)
	return s.db.Model(&models.RefreshToken{}).
		Where("token_hash = ?", tokenHash).
		Update("revoked", true).Error
}

// VerifyEmail consumes a verification token and marks the account verified.
func (s *AuthService) VerifyEmail(rawToken string) error {
	tokenHash := hashToken(rawToken)

	var verification models.EmailVerification
	if err := s.db.Where("token_hash = ? AND used_at IS NULL", tokenHash).First(&verification).Error; err != nil {
		return ErrInvalidVerification
	}
	if time.Now().After(verification.ExpiresAt) {
		return ErrInvalidVerification
	}

	now := time.Now()
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&verification).Update("used_at", now).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", verification.UserID).
			Update("email_verified_at", now).Error
	})
}

func (s *AuthService) ResendVerification(userID uuid.UUID) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return ErrUserNotFound
	}
	if user.IsVerified() {
		return ErrAlreadyVerified
	}
	return s.sendVerification(&user)
}

func (s *AuthService) GetProfile(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (s *AuthService) UpdateProfile(userID uuid.UUID, req *dto.UpdateProfileRequest) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}

	updates := map[string]interface{}{}
	if req.Bio != nil {
		if len(*req.Bio) > 500 {
			return nil, invalidInput("bio must be under 500 characters")
		}
		if err := s.filter.Check(*req.Bio); err != nil {
			return nil, err
		}
		updates["bio"] = *req.Bio
	}
	if len(req.Preferences) > 0 {
		updates["preferences"] = datatypes.JSON(req.Preferences)
	}
	if len(updates) > 0 {
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}
	return &user, nil
}

func (s *AuthService) DeleteAccount(userID uuid.UUID, password string) error {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return ErrUserNotFound
	}

	if password == "" {
		return invalidInput("password is required")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}

	// Every child delete must land or none do.
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.EmailVerification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.PostVote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.CommentVote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.SavedPost{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("reporter_id = ?", userID).Delete(&models.Report{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", userID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", userID).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
}

func (s *AuthService) sendVerification(user *models.User) error {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return fmt.Errorf("failed to generate random bytes: %w", err)
	}
	rawToken := base64.URLEncoding.EncodeToString(rawBytes)

	record := models.EmailVerification{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: time.Now().Add(s.cfg.VerificationExpiry),
	}
	if err := s.db.Create(&record).Error; err != nil {
		return fmt.Errorf("failed to store verification token: %w", err)
	}

	link := s.cfg.BaseURL + "/verify?token=" + rawToken
	body := "Hi " + user.Username + ",\n\n" +
		"Welcome to LearnLoop! Confirm your email address by opening the link below:\n\n" +
		link + "\n\n" +
		"The link expires in " + s.cfg.VerificationExpiry.String() + ". " +
		"If you did not create this account you can ignore this message.\n"

	return s.sender.Send(user.Email, "Confirm your LearnLoop account", body)
}

func (s *AuthService) generateTokenPair(user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         UserProjection(user, true),
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID.String(),
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(user *models.User) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)

	record := models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}

	if err := s.db.Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return rawToken, nil
}

// UserProjection shapes a user for responses. Email is included only for
// the self view and admin projections.
func UserProjection(user *models.User, includeEmail bool) dto.UserResponse {
	resp := dto.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Role:      user.Role,
		Bio:       user.Bio,
		Verified:  user.IsVerified(),
		CreatedAt: user.CreatedAt,
	}
	if includeEmail {
		resp.Email = user.Email
	}
	return resp
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
