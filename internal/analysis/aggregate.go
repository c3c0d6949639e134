package analysis

import (
	"sort"
	"strings"

	"compass-go/internal/config"
	"compass-go/internal/models"
)

// Aggregator folds a completed session's metric and transcript streams into
// one SessionSummary. It is invoked once per session, after capture has
// ended; every division guards its denominator and resolves to 0.
type Aggregator struct {
	cfg config.AnalysisConfig
}

// NewAggregator creates an aggregator with the given thresholds.
func NewAggregator(cfg config.AnalysisConfig) *Aggregator {
	return &Aggregator{cfg: cfg}
}

// segment is one maximal run of transcript events where consecutive gaps
// stay below the silence threshold.
type segment struct {
	start, end float64
	words      int
}

// Summarize computes the session summary over the two time-ordered streams.
func (g *Aggregator) Summarize(metrics []models.InstantMetrics, events []models.TranscriptEvent, durationMs float64) models.SessionSummary {
	s := models.SessionSummary{
		DurationMs:       durationMs,
		DominantEmotion:  "neutral",
		OverallSentiment: "neutral",
	}

	// Producers deliver in order, but sort defensively; the gap and
	// transition logic depends on it.
	metrics = sortedMetrics(metrics)
	events = sortedEvents(events)

	g.summarizeMetrics(&s, metrics)
	g.summarizeTranscript(&s, events, durationMs)
	return s
}

func (g *Aggregator) summarizeMetrics(s *models.SessionSummary, metrics []models.InstantMetrics) {
	if len(metrics) == 0 {
		return
	}

	var volumeSum, claritySum float64
	volumes := make([]float64, len(metrics))
	clarities := make([]float64, len(metrics))
	for i, m := range metrics {
		volumeSum += m.Volume
		claritySum += m.Clarity
		volumes[i] = m.Volume
		clarities[i] = m.Clarity
	}
	s.AverageVolume = volumeSum / float64(len(metrics))
	s.AverageClarity = claritySum / float64(len(metrics))

	// Issues count transitions into the bad band, so a sustained deviation
	// counts once rather than once per sample.
	s.VolumeIssues = countTransitions(volumes, func(v float64) bool {
		return v < g.cfg.VolumeMin || v > g.cfg.VolumeMax
	})
	s.ClarityIssues = countTransitions(clarities, func(v float64) bool {
		return v < g.cfg.ClarityFloor
	})
}

func (g *Aggregator) summarizeTranscript(s *models.SessionSummary, events []models.TranscriptEvent, durationMs float64) {
	if len(events) == 0 {
		return
	}

	totalWords := 0
	fillers := 0
	distinct := make(map[string]bool)
	for _, e := range events {
		words := strings.Fields(strings.ToLower(e.Word))
		totalWords += len(words)
		for _, w := range words {
			// A token that is pure punctuation trims to nothing and must
			// not count as a distinct word.
			if trimmed := strings.Trim(w, ".,!?;:'\""); trimmed != "" {
				distinct[trimmed] = true
			}
		}
		if e.IsFiller {
			fillers++
		}
	}

	s.TotalFillerWords = fillers
	if totalWords > 0 {
		s.FillerWordRate = float64(fillers) / float64(totalWords) * 100
		s.VocabularyDiversity = float64(len(distinct)) / float64(totalWords) * 100
	}

	speakingMs := coveredDuration(events)
	if durationMs > 0 {
		s.SpeakingPercentage = clamp(speakingMs/durationMs*100, 0, 100)
	}
	if speakingMs > 0 {
		s.SpeakingPaceWpm = float64(totalWords) / (speakingMs / 60000)
	}

	segments := g.splitSegments(events)
	s.SpeechSegments = len(segments)
	for _, seg := range segments {
		if seg.words > g.cfg.RamblingWordLimit || seg.end-seg.start > g.cfg.RamblingDurationMs {
			s.Rambling = true
			break
		}
	}

	s.PaceIssues = countTransitions(g.paceSeries(events), func(wpm float64) bool {
		return wpm < g.cfg.PaceMinWpm || wpm > g.cfg.PaceMaxWpm
	})

	s.DominantEmotion = dominantTag(events, "neutral", func(e models.TranscriptEvent) (string, float64) {
		return e.Emotion, e.EmotionConfidence
	})
	s.OverallSentiment = dominantTag(events, "neutral", func(e models.TranscriptEvent) (string, float64) {
		return e.Sentiment, e.SentimentConfidence
	})
}

// splitSegments groups events into maximal runs separated by gaps at or
// above the silence threshold.
func (g *Aggregator) splitSegments(events []models.TranscriptEvent) []segment {
	var segments []segment
	for _, e := range events {
		words := len(strings.Fields(e.Word))
		if n := len(segments); n > 0 && e.Start-segments[n-1].end < g.cfg.SilenceGapMs {
			segments[n-1].end = e.End
			segments[n-1].words += words
			continue
		}
		segments = append(segments, segment{start: e.Start, end: e.End, words: words})
	}
	return segments
}

// paceSeries derives an instantaneous words-per-minute sample for each pair
// of consecutive events inside the same speech segment. Gaps long enough to
// split segments are silence, not slow speech.
func (g *Aggregator) paceSeries(events []models.TranscriptEvent) []float64 {
	var series []float64
	for i := 1; i < len(events); i++ {
		gap := events[i].Start - events[i-1].End
		if gap >= g.cfg.SilenceGapMs {
			continue
		}
		dt := events[i].End - events[i-1].End
		if dt <= 0 {
			continue
		}
		words := float64(len(strings.Fields(events[i].Word)))
		series = append(series, words/dt*60000)
	}
	return series
}

// countTransitions counts entries into the bad region: a sample counts only
// when the previous sample (or the stream start) was acceptable.
func countTransitions(samples []float64, bad func(float64) bool) int {
	count := 0
	prevBad := false
	for _, v := range samples {
		if bad(v) && !prevBad {
			count++
		}
		prevBad = bad(v)
	}
	return count
}

// coveredDuration returns the length of the union of event time ranges,
// merging overlaps.
func coveredDuration(events []models.TranscriptEvent) float64 {
	var covered float64
	curStart, curEnd := events[0].Start, events[0].End
	for _, e := range events[1:] {
		if e.Start <= curEnd {
			if e.End > curEnd {
				curEnd = e.End
			}
			continue
		}
		covered += curEnd - curStart
		curStart, curEnd = e.Start, e.End
	}
	covered += curEnd - curStart
	return covered
}

// dominantTag accumulates confidence per tag and returns the heaviest one.
// Ties break toward the tag encountered first in event order.
func dominantTag(events []models.TranscriptEvent, fallback string, tag func(models.TranscriptEvent) (string, float64)) string {
	weights := make(map[string]float64)
	var order []string
	for _, e := range events {
		label, conf := tag(e)
		if label == "" {
			continue
		}
		if _, seen := weights[label]; !seen {
			order = append(order, label)
		}
		weights[label] += conf
	}

	best := fallback
	bestWeight := 0.0
	for _, label := range order {
		if weights[label] > bestWeight {
			best = label
			bestWeight = weights[label]
		}
	}
	return best
}

func sortedMetrics(metrics []models.InstantMetrics) []models.InstantMetrics {
	out := make([]models.InstantMetrics, len(metrics))
	copy(out, metrics)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp < out[j].Timestamp
	})
	return out
}

func sortedEvents(events []models.TranscriptEvent) []models.TranscriptEvent {
	out := make([]models.TranscriptEvent, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start < out[j].Start
	})
	return out
}
