// Package buffer provides the bounded trajectory sample store.
package buffer

// Option applies a configuration option to the Buffer.
type Option func(*Buffer)

// WithCapacity sets the maximum number of retained frames.
func WithCapacity(capacity int) Option {
	return func(b *Buffer) {
		if capacity > 0 {
			b.capacity = capacity
		}
	}
}

// WithConfidenceThreshold sets the gating threshold below which a landmark is
// stored as a gap marker.
func WithConfidenceThreshold(threshold float64) Option {
	return func(b *Buffer) {
		if threshold >= 0 && threshold <= 1 {
			b.threshold = threshold
		}
	}
}
