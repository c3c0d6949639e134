package analysis

import (
	"errors"
	"reflect"
	"testing"

	"compass-go/internal/models"
)

func boolPtr(b bool) *bool { return &b }

func TestClassifyFillerFallback(t *testing.T) {
	c := NewClassifier(models.DefaultLexicon())

	cases := []struct {
		word string
		want bool
	}{
		{"um", true},
		{"Um", true},
		{"you know", true},
		{"basically", true},
		{"hello", false},
		{"umbrella", false},
	}
	for _, tc := range cases {
		event, err := c.Classify(models.RawTranscriptEvent{Word: tc.word, Start: 0, End: 100})
		if err != nil {
			t.Fatalf("Classify(%q) error: %v", tc.word, err)
		}
		if event.IsFiller != tc.want {
			t.Errorf("Classify(%q).IsFiller = %v, want %v", tc.word, event.IsFiller, tc.want)
		}
	}
}

func TestClassifyPrefersUpstreamTags(t *testing.T) {
	c := NewClassifier(models.DefaultLexicon())

	raw := models.RawTranscriptEvent{
		Word:      "um",
		Start:     0,
		End:       200,
		IsFiller:  boolPtr(false), // upstream says not a filler
		Emotion:   &models.TagConfidence{Label: "excited", Confidence: 0.92},
		Sentiment: &models.TagConfidence{Label: "positive", Confidence: 0.81},
	}
	event, err := c.Classify(raw)
	if err != nil {
		t.Fatal(err)
	}
	if event.IsFiller {
		t.Error("local filler heuristic overrode the upstream tag")
	}
	if event.Emotion != "excited" || event.EmotionConfidence != 0.92 {
		t.Errorf("emotion = %q@%v, want upstream excited@0.92", event.Emotion, event.EmotionConfidence)
	}
	if event.Sentiment != "positive" || event.SentimentConfidence != 0.81 {
		t.Errorf("sentiment = %q@%v, want upstream positive@0.81", event.Sentiment, event.SentimentConfidence)
	}
}

func TestClassifySentimentFallback(t *testing.T) {
	c := NewClassifier(models.DefaultLexicon())

	cases := []struct {
		text string
		want string
	}{
		{"that went really great", "positive"},
		{"it was a terrible awful day", "negative"},
		{"the meeting is on tuesday", "neutral"},
		{"good parts and bad parts", "neutral"}, // tie resolves to neutral
	}
	for _, tc := range cases {
		event, err := c.Classify(models.RawTranscriptEvent{Word: tc.text, Start: 0, End: 1000})
		if err != nil {
			t.Fatalf("Classify(%q) error: %v", tc.text, err)
		}
		if event.Sentiment != tc.want {
			t.Errorf("Classify(%q).Sentiment = %q, want %q", tc.text, event.Sentiment, tc.want)
		}
	}
}

func TestClassifyEmotionFallback(t *testing.T) {
	c := NewClassifier(models.DefaultLexicon())

	event, err := c.Classify(models.RawTranscriptEvent{Word: "I am so happy today", Start: 0, End: 900})
	if err != nil {
		t.Fatal(err)
	}
	if event.Emotion != "happy" {
		t.Errorf("emotion = %q, want happy", event.Emotion)
	}

	event, err = c.Classify(models.RawTranscriptEvent{Word: "the quarterly report", Start: 0, End: 900})
	if err != nil {
		t.Fatal(err)
	}
	if event.Emotion != "neutral" || event.EmotionConfidence != 0.5 {
		t.Errorf("default emotion = %q@%v, want neutral@0.5", event.Emotion, event.EmotionConfidence)
	}
}

func TestClassifyIdempotent(t *testing.T) {
	c := NewClassifier(models.DefaultLexicon())
	raw := models.RawTranscriptEvent{Word: "I feel nervous about this", Start: 100, End: 1800, Confidence: 0.88}

	first, err := c.Classify(raw)
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Classify(raw)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("classification not idempotent:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestClassifyMalformedEvents(t *testing.T) {
	c := NewClassifier(models.DefaultLexicon())

	cases := []models.RawTranscriptEvent{
		{Word: "", Start: 0, End: 100},
		{Word: "   ", Start: 0, End: 100},
		{Word: "hello", Start: 500, End: 100},
	}
	for _, raw := range cases {
		if _, err := c.Classify(raw); !errors.Is(err, ErrMalformedEvent) {
			t.Errorf("Classify(%+v) error = %v, want ErrMalformedEvent", raw, err)
		}
	}
}
