// Package config defines service configuration structures and loading hooks.
//
// Conventions follow the rest of the codebase: defaults come from New, and
// Load layers an optional YAML file and environment variables on top.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// FrameRate sets the acquisition cadence in frames per second.
	FrameRate float64 `koanf:"frame_rate"`

	// QueueCapacity bounds the in-memory frame queue.
	QueueCapacity int `koanf:"queue_capacity"`

	// BufferCapacity bounds the landmark buffer (frames retained).
	BufferCapacity int `koanf:"buffer_capacity"`

	// ConfidenceThreshold gates landmark samples into the trajectory.
	ConfidenceThreshold float64 `koanf:"confidence_threshold"`

	// MinProminence is the vertical excursion a peak must exhibit.
	MinProminence float64 `koanf:"min_prominence"`

	// MinPeakDistanceMS is the refractory period between strokes.
	MinPeakDistanceMS int `koanf:"min_peak_distance_ms"`

	// RateWindowSeconds is the rolling window for the stroke rate.
	RateWindowSeconds int `koanf:"rate_window_seconds"`

	// SampleIntervalSeconds is the rate-history sampling cadence.
	SampleIntervalSeconds int `koanf:"sample_interval_seconds"`

	// HistoryCapacity bounds the sampled rate history.
	HistoryCapacity int `koanf:"history_capacity"`

	// Estimator selects the pose estimator: "synthetic" or "replay".
	Estimator string `koanf:"estimator"`

	// SyntheticCPM sets the synthetic estimator's stroke cadence.
	SyntheticCPM float64 `koanf:"synthetic_cpm"`

	// ReplayPath points at a JSON-lines pose recording.
	ReplayPath string `koanf:"replay_path"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		Addr:                  ":9180",
		FrameRate:             30,
		QueueCapacity:         30,
		BufferCapacity:        300,
		ConfidenceThreshold:   0.5,
		MinProminence:         30,
		MinPeakDistanceMS:     300,
		RateWindowSeconds:     15,
		SampleIntervalSeconds: 5,
		HistoryCapacity:       60,
		Estimator:             "synthetic",
		SyntheticCPM:          60,
	}
}
