package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"compass-go/internal/database"
	"compass-go/internal/models"
)

// GetUserProgress returns the user's rolling aggregate, or (nil, nil) when
// no session has completed for them yet.
func GetUserProgress(ctx context.Context, userID uint) (*models.UserProgress, error) {
	var progress models.UserProgress
	result := database.DB.WithContext(ctx).First(&progress, "user_id = ?", userID)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &progress, nil
}

// SaveUserProgress upserts the rolling aggregate.
func SaveUserProgress(ctx context.Context, progress *models.UserProgress) error {
	return database.DB.WithContext(ctx).Save(progress).Error
}

// ProgressStore adapts the repository onto the progress.Store interface.
type ProgressStore struct{}

func (ProgressStore) UserExists(ctx context.Context, userID uint) (bool, error) {
	var count int64
	result := database.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Count(&count)
	return count > 0, result.Error
}

func (ProgressStore) GetProgress(ctx context.Context, userID uint) (*models.UserProgress, error) {
	return GetUserProgress(ctx, userID)
}

func (ProgressStore) SaveProgress(ctx context.Context, progress *models.UserProgress) error {
	return SaveUserProgress(ctx, progress)
}
