package models

import "time"

// SessionPayload is the completed-session upload: everything the capture and
// transcription collaborators gathered while the session ran. EyeContactScore
// comes from the separate face-tracking subsystem and is carried through
// untouched.
type SessionPayload struct {
	UserID          uint                 `json:"userId"`
	CompletedAt     time.Time            `json:"completedAt"`
	DurationMs      float64              `json:"durationMs"`
	EyeContactScore float64              `json:"eyeContactScore"`
	Metrics         []InstantMetrics     `json:"metrics"`
	Events          []RawTranscriptEvent `json:"events"`
}

// SessionSummary aggregates one session's metric and transcript streams.
// Immutable once computed.
type SessionSummary struct {
	DurationMs          float64 `json:"durationMs"`
	AverageVolume       float64 `json:"averageVolume"`
	AverageClarity      float64 `json:"averageClarity"`
	SpeakingPercentage  float64 `json:"speakingPercentage"`
	TotalFillerWords    int     `json:"totalFillerWords"`
	FillerWordRate      float64 `json:"fillerWordRate"`
	VolumeIssues        int     `json:"volumeIssues"`
	ClarityIssues       int     `json:"clarityIssues"`
	PaceIssues          int     `json:"paceIssues"`
	DominantEmotion     string  `json:"dominantEmotion"`
	OverallSentiment    string  `json:"overallSentiment"`
	SpeakingPaceWpm     float64 `json:"speakingPaceWpm"`
	VocabularyDiversity float64 `json:"vocabularyDiversity"`
	SpeechSegments      int     `json:"speechSegments"`
	Rambling            bool    `json:"rambling"`
}

// PracticeSession is the stored record of one completed session.
type PracticeSession struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	UserID          uint           `json:"userId" gorm:"index"`
	CompletedAt     time.Time      `json:"completedAt"`
	EyeContactScore float64        `json:"eyeContactScore"`
	Summary         SessionSummary `json:"summary" gorm:"embedded"`
	CreatedAt       time.Time      `json:"createdAt"`
}
