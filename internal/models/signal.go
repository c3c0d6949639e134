package models

// SignalFrame is one snapshot of the capture layer's audio analysis output:
// byte-scale time-domain amplitudes and frequency-domain magnitudes of equal
// length, stamped with milliseconds since session start.
type SignalFrame struct {
	Timestamp       float64   `json:"timestamp"`
	TimeDomain      []float64 `json:"timeDomain"`
	FrequencyDomain []float64 `json:"frequencyDomain"`
}

// InstantMetrics is what one SignalFrame reduces to. Volume, pitch and
// clarity are clamped to [0,100]; tremor intensity to [0,1].
type InstantMetrics struct {
	Timestamp float64 `json:"timestamp"`
	Volume    float64 `json:"volume"`
	Pitch     float64 `json:"pitch"`
	Clarity   float64 `json:"clarity"`
	Tremor    Tremor  `json:"tremor"`
}

// Tremor marks short-timescale amplitude instability in the frame.
type Tremor struct {
	Detected  bool    `json:"detected"`
	Intensity float64 `json:"intensity"`
}
