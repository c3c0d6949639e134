package analysis

import (
	"errors"
	"fmt"
	"strings"

	"compass-go/internal/models"
)

// ErrMalformedEvent marks a transcript payload that cannot be classified.
// The caller should skip the event and continue with the rest of the stream.
var ErrMalformedEvent = errors.New("malformed transcript event")

// Classifier resolves the filler/emotion/sentiment aspects of raw transcript
// events. For every aspect the policy is: prefer the upstream service's tag,
// fall back to the lexicon heuristic only when the tag is absent.
// Classification is idempotent and side-effect free.
type Classifier struct {
	lex *models.Lexicon
}

// NewClassifier creates a classifier over the given lexicon.
func NewClassifier(lex *models.Lexicon) *Classifier {
	return &Classifier{lex: lex}
}

// Classify turns one raw event into a fully resolved TranscriptEvent.
func (c *Classifier) Classify(raw models.RawTranscriptEvent) (models.TranscriptEvent, error) {
	word := strings.TrimSpace(raw.Word)
	if word == "" {
		return models.TranscriptEvent{}, fmt.Errorf("%w: empty word", ErrMalformedEvent)
	}
	if raw.End < raw.Start {
		return models.TranscriptEvent{}, fmt.Errorf("%w: end %.0fms before start %.0fms", ErrMalformedEvent, raw.End, raw.Start)
	}

	lower := strings.ToLower(word)

	event := models.TranscriptEvent{
		Word:       word,
		Start:      raw.Start,
		End:        raw.End,
		Confidence: raw.Confidence,
	}

	if raw.IsFiller != nil {
		event.IsFiller = *raw.IsFiller
	} else {
		event.IsFiller = c.lex.IsFiller(lower)
	}

	if raw.Sentiment != nil {
		event.Sentiment = raw.Sentiment.Label
		event.SentimentConfidence = raw.Sentiment.Confidence
	} else {
		event.Sentiment, event.SentimentConfidence = c.sentiment(lower)
	}

	if raw.Emotion != nil {
		event.Emotion = raw.Emotion.Label
		event.EmotionConfidence = raw.Emotion.Confidence
	} else {
		event.Emotion, event.EmotionConfidence = c.emotion(lower)
	}

	return event, nil
}

// sentiment counts positive and negative lexicon hits over the tokens; the
// larger side wins, ties resolve to neutral.
func (c *Classifier) sentiment(lower string) (string, float64) {
	var pos, neg int
	for _, token := range strings.Fields(lower) {
		token = strings.Trim(token, ".,!?;:'\"")
		if c.lex.IsPositive(token) {
			pos++
		}
		if c.lex.IsNegative(token) {
			neg++
		}
	}

	total := float64(pos + neg)
	switch {
	case pos > neg:
		return "positive", float64(pos) / total
	case neg > pos:
		return "negative", float64(neg) / total
	default:
		return "neutral", 0.5
	}
}

// emotion substring-matches the lexicon's cue words in its fixed check
// order; the first hit wins, default is neutral at 0.5.
func (c *Classifier) emotion(lower string) (string, float64) {
	for _, entry := range c.lex.Emotions {
		for _, keyword := range entry.Keywords {
			if strings.Contains(lower, keyword) {
				return entry.Emotion, 0.7
			}
		}
	}
	return "neutral", 0.5
}
