// Package rate computes the rolling-window stroke rate.
package rate

import "time"

// Option applies a configuration option to the Estimator.
type Option func(*Estimator)

// WithWindow sets the trailing time span used to compute the rate.
func WithWindow(window time.Duration) Option {
	return func(e *Estimator) {
		if window > 0 {
			e.window = window
		}
	}
}

// WithSampleInterval sets the cadence at which the rate is appended to the
// history.
func WithSampleInterval(interval time.Duration) Option {
	return func(e *Estimator) {
		if interval > 0 {
			e.sampleInterval = interval
		}
	}
}

// WithHistoryCapacity bounds the sampled history length.
func WithHistoryCapacity(capacity int) Option {
	return func(e *Estimator) {
		if capacity > 0 {
			e.historyCapacity = capacity
		}
	}
}
