package models

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// EmotionKeywords maps one emotion label to the cue words that signal it.
// Order in the Lexicon is the fallback check order: first match wins.
type EmotionKeywords struct {
	Emotion  string   `yaml:"emotion"`
	Keywords []string `yaml:"keywords"`
}

// Lexicon holds the word lists the fallback classifier matches against when
// the upstream transcription service supplies no tags.
type Lexicon struct {
	FillerWords   []string          `yaml:"filler_words"`
	PositiveWords []string          `yaml:"positive_words"`
	NegativeWords []string          `yaml:"negative_words"`
	Emotions      []EmotionKeywords `yaml:"emotions"`

	fillerSet   map[string]bool
	positiveSet map[string]bool
	negativeSet map[string]bool
}

// LoadLexicon reads and parses a lexicon.yaml file.
func LoadLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon file: %w", err)
	}

	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("failed to unmarshal lexicon YAML: %w", err)
	}

	lex.index()
	return &lex, nil
}

// DefaultLexicon returns the built-in word lists, used when no lexicon file
// is deployed alongside the server.
func DefaultLexicon() *Lexicon {
	lex := &Lexicon{
		FillerWords: []string{
			"um", "uh", "like", "you know", "sort of", "kind of",
			"actually", "basically", "literally", "well",
		},
		PositiveWords: []string{
			"good", "great", "excellent", "happy", "confident", "strong",
			"success", "successful", "best", "love", "enjoy", "improve",
			"improved", "better", "positive", "glad", "proud", "won",
		},
		NegativeWords: []string{
			"bad", "terrible", "awful", "sad", "nervous", "weak", "fail",
			"failed", "failure", "worst", "hate", "worse", "negative",
			"afraid", "worried", "problem", "difficult", "lost",
		},
		Emotions: []EmotionKeywords{
			{Emotion: "happy", Keywords: []string{"happy", "glad", "excited", "wonderful", "joy"}},
			{Emotion: "sad", Keywords: []string{"sad", "unhappy", "disappointed", "sorry", "upset"}},
			{Emotion: "angry", Keywords: []string{"angry", "furious", "annoyed", "frustrated", "mad"}},
			{Emotion: "fearful", Keywords: []string{"afraid", "scared", "nervous", "anxious", "worried"}},
		},
	}
	lex.index()
	return lex
}

// index builds the lowercase lookup sets from the word slices.
func (l *Lexicon) index() {
	l.fillerSet = toSet(l.FillerWords)
	l.positiveSet = toSet(l.PositiveWords)
	l.negativeSet = toSet(l.NegativeWords)
}

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[strings.ToLower(strings.TrimSpace(w))] = true
	}
	return set
}

// IsFiller reports whether the lowercased word is on the filler list.
func (l *Lexicon) IsFiller(word string) bool {
	return l.fillerSet[word]
}

// IsPositive reports whether the lowercased token is on the positive list.
func (l *Lexicon) IsPositive(token string) bool {
	return l.positiveSet[token]
}

// IsNegative reports whether the lowercased token is on the negative list.
func (l *Lexicon) IsNegative(token string) bool {
	return l.negativeSet[token]
}
