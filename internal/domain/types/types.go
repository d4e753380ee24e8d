// Package types contains the wire types shared with external consumers.
package types

// Snapshot mirrors the session schema consumed by the display client and the
// other snapshot readers (voice assistant, notifications).
type Snapshot struct {
	SessionID      string      `json:"session_id,omitempty"`
	Active         bool        `json:"active"`
	ElapsedSeconds int         `json:"elapsed_seconds"`
	StrokeCount    int         `json:"stroke_count"`
	StrokeRate     float64     `json:"stroke_rate"`
	RateHistory    []RatePoint `json:"rate_history"`
	PoseDetected   bool        `json:"pose_detected"`
	IsSwimming     bool        `json:"is_swimming"`
}

// RatePoint is one sampled (timestamp, rate) pair. The timestamp is unix
// seconds, matching the estimator input contract's float timestamps.
type RatePoint struct {
	Timestamp float64 `json:"timestamp"`
	Rate      float64 `json:"rate"`
}
