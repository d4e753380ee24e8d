// Package buffer provides the bounded, time-ordered store of recent per-limb
// trajectory samples with confidence gating.
package buffer

import (
	"time"

	"github.com/aquametrics/strokecore/internal/domain/model"
)

// Default buffer configuration constants.
const (
	defaultCapacity            = 300 // ~10s of frames at 30 fps
	defaultConfidenceThreshold = 0.5
)

// sample is one limb's reading for a buffered frame. A frame whose landmark
// confidence fell below the gating threshold is kept as a gap (valid=false)
// so frame cadence is preserved without corrupting the trajectory.
type sample struct {
	y          float64
	confidence float64
	valid      bool
}

// frame is one buffered pose estimate, reduced to what the detector needs.
type frame struct {
	ts      int64 // unix nanos; avoids storing the full time.Time per limb
	samples [2]sample
}

// Buffer is a fixed-capacity FIFO store of recent frames. On overflow the
// oldest frame is evicted first, regardless of validity. Not safe for
// concurrent use; the pipeline runner is its only caller.
type Buffer struct {
	frames    []frame
	head      int // index of the oldest frame
	size      int
	capacity  int
	threshold float64
}

// New creates a buffer with configuration options.
func New(opts ...Option) *Buffer {
	b := &Buffer{
		capacity:  defaultCapacity,
		threshold: defaultConfidenceThreshold,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.frames = make([]frame, b.capacity)
	return b
}

// limbSlot maps a limb to its slot in the per-frame sample array.
func limbSlot(limb model.Limb) int {
	if limb == model.LimbLeftWrist {
		return 0
	}
	return 1
}

// Add ingests one pose estimate. Each wrist landmark is stored as a valid
// sample only if its confidence clears the gating threshold; otherwise the
// slot is a gap marker.
func (b *Buffer) Add(pose model.PoseEstimate) {
	var f frame
	f.ts = pose.Timestamp.UnixNano()
	for _, limb := range model.Limbs() {
		lm := pose.Landmark(limb)
		f.samples[limbSlot(limb)] = sample{
			y:          lm.Y,
			confidence: lm.Confidence,
			valid:      lm.Confidence >= b.threshold,
		}
	}

	if b.size == b.capacity {
		// Evict the oldest frame by advancing the head.
		b.frames[b.head] = f
		b.head = (b.head + 1) % b.capacity
		return
	}
	b.frames[(b.head+b.size)%b.capacity] = f
	b.size++
}

// Trajectory returns the ordered valid samples for the limb, excluding gaps.
// Positions and timestamps are index-aligned slices of identical length.
func (b *Buffer) Trajectory(limb model.Limb) model.Trajectory {
	slot := limbSlot(limb)
	traj := model.Trajectory{Limb: limb}
	for i := 0; i < b.size; i++ {
		f := b.frames[(b.head+i)%b.capacity]
		s := f.samples[slot]
		if !s.valid {
			continue
		}
		traj.Positions = append(traj.Positions, s.y)
		traj.Timestamps = append(traj.Timestamps, nanosToTime(f.ts))
		traj.Confidences = append(traj.Confidences, s.confidence)
	}
	return traj
}

// Len returns the total number of frames retained, gaps included.
func (b *Buffer) Len() int { return b.size }

// Capacity returns the configured maximum number of retained frames.
func (b *Buffer) Capacity() int { return b.capacity }

// Clear empties the buffer.
func (b *Buffer) Clear() {
	b.head = 0
	b.size = 0
}

func nanosToTime(ns int64) time.Time {
	return time.Unix(0, ns)
}
