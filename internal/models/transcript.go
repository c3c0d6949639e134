package models

// TagConfidence is a label with the upstream service's confidence in it.
type TagConfidence struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// RawTranscriptEvent is one word or phrase as delivered by the streaming
// transcription service. The filler/emotion/sentiment tags are optional:
// nil means the service did not classify that aspect and the fallback
// classifier decides.
type RawTranscriptEvent struct {
	Word       string         `json:"word"`
	Start      float64        `json:"start"`
	End        float64        `json:"end"`
	Confidence float64        `json:"confidence"`
	IsFiller   *bool          `json:"isFiller,omitempty"`
	Emotion    *TagConfidence `json:"emotion,omitempty"`
	Sentiment  *TagConfidence `json:"sentiment,omitempty"`
}

// TranscriptEvent is the fully classified form of a RawTranscriptEvent.
// Every aspect is resolved, either from the upstream tag or the fallback.
type TranscriptEvent struct {
	ID        uint `json:"-" gorm:"primaryKey"`
	SessionID uint `json:"-" gorm:"index"`

	Word                string  `json:"word"`
	Start               float64 `json:"start"`
	End                 float64 `json:"end"`
	Confidence          float64 `json:"confidence"`
	IsFiller            bool    `json:"isFiller"`
	Emotion             string  `json:"emotion"`
	EmotionConfidence   float64 `json:"emotionConfidence"`
	Sentiment           string  `json:"sentiment"`
	SentimentConfidence float64 `json:"sentimentConfidence"`
}
