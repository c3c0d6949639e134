package repository

import (
	"context"

	"gorm.io/gorm"

	"compass-go/internal/database"
	"compass-go/internal/models"
)

// SaveSessionTx saves the session record and all its classified transcript
// events in a single transaction.
func SaveSessionTx(ctx context.Context, sess *models.PracticeSession, events []models.TranscriptEvent) error {
	return database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sess).Error; err != nil {
			return err
		}
		for i := range events {
			events[i].SessionID = sess.ID
		}
		if len(events) > 0 {
			if err := tx.Create(&events).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetRecentSessions returns the user's most recent sessions, newest first.
func GetRecentSessions(ctx context.Context, userID uint, limit int) ([]models.PracticeSession, error) {
	var sessions []models.PracticeSession
	result := database.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("completed_at DESC").
		Limit(limit).
		Find(&sessions)
	return sessions, result.Error
}

// GetSessionEvents returns the stored transcript events for one session.
func GetSessionEvents(ctx context.Context, sessionID uint) ([]models.TranscriptEvent, error) {
	var events []models.TranscriptEvent
	result := database.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("start ASC").
		Find(&events)
	return events, result.Error
}
