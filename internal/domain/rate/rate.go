// Package rate computes the rolling-window stroke rate and keeps a sampled
// history for trend consumers.
package rate

import (
	"time"

	"github.com/aquametrics/strokecore/internal/domain/model"
)

// Default rate estimation configuration constants.
const (
	defaultWindow          = 15 * time.Second
	defaultSampleInterval  = 5 * time.Second
	defaultHistoryCapacity = 60
	secondsPerMinute       = 60.0
)

// Estimator records stroke occurrences and derives strokes-per-minute over a
// trailing window. Registration is idempotent per timestamp: the same
// physical stroke re-reported by repeated detector passes is counted exactly
// once. Not safe for concurrent use; the pipeline runner is its only caller.
type Estimator struct {
	window          time.Duration
	sampleInterval  time.Duration
	historyCapacity int

	seen  map[int64]struct{} // registered timestamps (unix nanos) still inside the window
	times []time.Time        // same set, ordered; pruned together with seen
	total int                // cumulative count, survives pruning

	history    []model.RateSample
	lastSample time.Time
}

// New creates an estimator with configuration options.
func New(opts ...Option) *Estimator {
	e := &Estimator{
		window:          defaultWindow,
		sampleInterval:  defaultSampleInterval,
		historyCapacity: defaultHistoryCapacity,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.seen = make(map[int64]struct{})
	return e
}

// Register records a stroke occurrence at t. Returns true if the timestamp
// was newly recorded, false if it was already seen. Registering the same
// timestamp twice never increases the count.
func (e *Estimator) Register(t time.Time) bool {
	key := t.UnixNano()
	if _, dup := e.seen[key]; dup {
		return false
	}
	e.seen[key] = struct{}{}

	// Timestamps arrive in order from the watermark-gated pipeline; the
	// insertion sort below only walks on out-of-order registration.
	i := len(e.times)
	for i > 0 && e.times[i-1].After(t) {
		i--
	}
	e.times = append(e.times, time.Time{})
	copy(e.times[i+1:], e.times[i:])
	e.times[i] = t

	e.total++
	return true
}

// Rate returns strokes per minute computed from registered timestamps inside
// [now-window, now]. Zero registered strokes is a zero rate, not an error.
func (e *Estimator) Rate(now time.Time) float64 {
	e.prune(now)
	cutoff := now.Add(-e.window)
	count := 0
	for _, t := range e.times {
		if !t.Before(cutoff) && !t.After(now) {
			count++
		}
	}
	return float64(count) * secondsPerMinute / e.window.Seconds()
}

// Tick appends the current rate to the sampled history once per sample
// interval. The orchestrator calls it every frame; most calls are no-ops.
func (e *Estimator) Tick(now time.Time) {
	if e.lastSample.IsZero() {
		e.lastSample = now
		return
	}
	if now.Sub(e.lastSample) < e.sampleInterval {
		return
	}
	e.lastSample = now
	e.history = append(e.history, model.RateSample{Timestamp: now, Rate: e.Rate(now)})
	if len(e.history) > e.historyCapacity {
		// Evict oldest first.
		e.history = e.history[len(e.history)-e.historyCapacity:]
	}
}

// History returns the sampled rate sequence, oldest first. A positive limit
// restricts the result to the most recent samples.
func (e *Estimator) History(limit int) []model.RateSample {
	h := e.history
	if limit > 0 && limit < len(h) {
		h = h[len(h)-limit:]
	}
	out := make([]model.RateSample, len(h))
	copy(out, h)
	return out
}

// StrokeCount returns the cumulative number of registered strokes,
// independent of the rolling window.
func (e *Estimator) StrokeCount() int { return e.total }

// Reset clears all state.
func (e *Estimator) Reset() {
	e.seen = make(map[int64]struct{})
	e.times = nil
	e.total = 0
	e.history = nil
	e.lastSample = time.Time{}
}

// prune drops registered timestamps that fell out of the window, keeping
// memory bounded. The cumulative total is unaffected. Safe because the
// detector's look-back span is shorter than the window, so a pruned
// timestamp can no longer be re-reported.
func (e *Estimator) prune(now time.Time) {
	cutoff := now.Add(-e.window)
	i := 0
	for i < len(e.times) && e.times[i].Before(cutoff) {
		delete(e.seen, e.times[i].UnixNano())
		i++
	}
	if i > 0 {
		e.times = append(e.times[:0], e.times[i:]...)
	}
}
