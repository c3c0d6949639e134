package analysis

import (
	"math"

	"compass-go/internal/config"
	"compass-go/internal/models"
)

// tremorHistorySize bounds the ring buffer of recent mean sample deltas used
// to smooth tremor detection across frames.
const tremorHistorySize = 8

// FrameAnalyzer reduces SignalFrames to InstantMetrics. It is pure except
// for a bounded ring buffer of recent tremor deltas, so one analyzer must
// serve exactly one session, with frames arriving in timestamp order. Not
// safe for concurrent use.
type FrameAnalyzer struct {
	cfg config.AnalysisConfig

	deltaHistory [tremorHistorySize]float64
	deltaCount   int
	deltaPos     int
}

// NewFrameAnalyzer creates an analyzer for a single session's frame stream.
func NewFrameAnalyzer(cfg config.AnalysisConfig) *FrameAnalyzer {
	return &FrameAnalyzer{cfg: cfg}
}

// Analyze computes the instantaneous metrics for one frame. A frame with
// zero-length buffers yields zeroed metrics rather than a division by zero.
func (a *FrameAnalyzer) Analyze(frame models.SignalFrame) models.InstantMetrics {
	m := models.InstantMetrics{Timestamp: frame.Timestamp}
	if len(frame.TimeDomain) == 0 || len(frame.FrequencyDomain) == 0 {
		return m
	}

	m.Volume = a.volume(frame.TimeDomain)
	m.Pitch = a.pitch(frame.FrequencyDomain)
	m.Clarity = a.clarity(frame.FrequencyDomain, m.Volume)
	m.Tremor = a.tremor(frame.TimeDomain)
	return m
}

// volume is the mean time-domain amplitude scaled so a mid-range mean maps
// to 100.
func (a *FrameAnalyzer) volume(samples []float64) float64 {
	var sum float64
	for _, s := range samples {
		sum += s
	}
	mean := sum / float64(len(samples))

	mid := a.cfg.AmplitudeRange / 2
	if mid <= 0 {
		return 0
	}
	return clamp(mean/mid*100, 0, 100)
}

// pitch locates the strongest frequency bin inside the speech band and
// normalizes its frequency on a log scale across that band.
func (a *FrameAnalyzer) pitch(spectrum []float64) float64 {
	n := len(spectrum)
	binWidth := a.cfg.SampleRate / (2 * float64(n))
	if binWidth <= 0 || a.cfg.PitchMinHz <= 0 || a.cfg.PitchMaxHz <= a.cfg.PitchMinHz {
		return 0
	}

	lowBin := int(a.cfg.PitchMinHz / binWidth)
	highBin := int(a.cfg.PitchMaxHz / binWidth)
	if highBin > n-1 {
		highBin = n - 1
	}
	if lowBin > highBin {
		return 0
	}

	peakBin := lowBin
	peakMag := 0.0
	for i := lowBin; i <= highBin; i++ {
		if spectrum[i] > peakMag {
			peakMag = spectrum[i]
			peakBin = i
		}
	}
	if peakMag <= 0 {
		return 0
	}

	freq := float64(peakBin) * binWidth
	if freq < a.cfg.PitchMinHz {
		freq = a.cfg.PitchMinHz
	}

	norm := math.Log(freq/a.cfg.PitchMinHz) / math.Log(a.cfg.PitchMaxHz/a.cfg.PitchMinHz)
	return clamp(norm*100, 0, 100)
}

// clarity is the normalized spectral centroid weighted by total spectral
// energy and by how loud the frame is.
func (a *FrameAnalyzer) clarity(spectrum []float64, volume float64) float64 {
	var magSum, weightedSum, energy float64
	for i, mag := range spectrum {
		magSum += mag
		weightedSum += float64(i) * mag
		energy += mag * mag
	}
	if magSum <= 0 {
		return 0
	}

	centroid := weightedSum / magSum / float64(len(spectrum))

	energyFactor := 1.0
	if a.cfg.ReferenceEnergy > 0 {
		energyFactor = math.Min(1, energy/a.cfg.ReferenceEnergy)
	}
	volumeFactor := math.Min(1, volume/50)

	return clamp(centroid*energyFactor*volumeFactor*100, 0, 100)
}

// tremor measures the mean absolute sample-to-sample difference, smoothed
// over the recent-frame ring buffer.
func (a *FrameAnalyzer) tremor(samples []float64) models.Tremor {
	if len(samples) < 2 {
		return models.Tremor{}
	}

	var diffSum float64
	for i := 1; i < len(samples); i++ {
		diffSum += math.Abs(samples[i] - samples[i-1])
	}
	meanDiff := diffSum / float64(len(samples)-1)

	smoothed := a.pushDelta(meanDiff)

	t := models.Tremor{Detected: smoothed > a.cfg.TremorThreshold}
	if a.cfg.TremorNormal > 0 {
		t.Intensity = math.Min(1, smoothed/a.cfg.TremorNormal)
	}
	return t
}

// pushDelta records a frame's mean delta and returns the mean over the
// buffered history.
func (a *FrameAnalyzer) pushDelta(d float64) float64 {
	a.deltaHistory[a.deltaPos] = d
	a.deltaPos = (a.deltaPos + 1) % tremorHistorySize
	if a.deltaCount < tremorHistorySize {
		a.deltaCount++
	}

	var sum float64
	for i := 0; i < a.deltaCount; i++ {
		sum += a.deltaHistory[i]
	}
	return sum / float64(a.deltaCount)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
