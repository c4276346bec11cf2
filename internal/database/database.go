package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/learnloop/learnloop-backend/internal/config"
	"github.com/learnloop/learnloop-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect(cfg *config.Config) error {
	var err error
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	slog.Info("database connected")
	return nil
}

// Migrate runs AutoMigrate for all models.
func Migrate() error {
	return DB.AutoMigrate(AllModels()...)
}

// AllModels lists every persisted model, in FK dependency order.
func AllModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.RefreshToken{},
		&models.EmailVerification{},
		&models.Post{},
		&models.Comment{},
		&models.PostVote{},
		&models.CommentVote{},
		&models.SavedPost{},
		&models.Report{},
		&models.SystemLog{},
	}
}

func Ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
