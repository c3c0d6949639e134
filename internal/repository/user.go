package repository

import (
	"context"

	"compass-go/internal/database"
	"compass-go/internal/models"
)

func CreateUser(ctx context.Context, displayName string) (*models.User, error) {
	user := &models.User{DisplayName: displayName}
	result := database.DB.WithContext(ctx).Create(user)
	return user, result.Error
}

func GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	result := database.DB.WithContext(ctx).First(&user, id)
	return &user, result.Error
}
