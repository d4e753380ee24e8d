// Package detect turns a limb trajectory into discrete stroke events.
package detect

import "time"

// Option applies a configuration option to the Detector.
type Option func(*Detector)

// WithMinProminence sets the vertical displacement magnitude a local maximum
// must exhibit to count as a peak.
func WithMinProminence(prominence float64) Option {
	return func(d *Detector) {
		if prominence > 0 {
			d.minProminence = prominence
		}
	}
}

// WithMinPeakSpacing sets the refractory period between accepted peaks,
// rejecting noise-induced double peaks.
func WithMinPeakSpacing(spacing time.Duration) Option {
	return func(d *Detector) {
		if spacing > 0 {
			d.minPeakSpacing = spacing
		}
	}
}
