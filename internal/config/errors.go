package config

import "errors"

// Validation errors.
var (
	ErrEmptyAddr         = errors.New("addr must not be empty")
	ErrBadFrameRate      = errors.New("frame_rate must be positive")
	ErrBadThreshold      = errors.New("confidence_threshold must be in [0,1]")
	ErrUnknownEstimator  = errors.New("estimator must be synthetic or replay")
	ErrMissingReplayPath = errors.New("replay_path required for replay estimator")
)
