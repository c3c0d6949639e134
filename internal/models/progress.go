package models

import "time"

// UserProgress is the rolling per-user aggregate across all completed
// sessions. Each average is a weighted running mean and must be updated
// exactly once per session, never recomputed from history.
type UserProgress struct {
	UserID              uint      `json:"userId" gorm:"primaryKey"`
	TotalSessions       int       `json:"totalSessions"`
	AvgEyeContact       float64   `json:"avgEyeContact"`
	AvgVoiceClarity     float64   `json:"avgVoiceClarity"`
	AvgSpeakingPace     float64   `json:"avgSpeakingPace"`
	TotalPracticeTimeMs float64   `json:"totalPracticeTimeMs"`
	LastSessionDate     time.Time `json:"lastSessionDate"`
	UpdatedAt           time.Time `json:"updatedAt"`
}
