// Package detect turns a limb trajectory into discrete stroke events using
// prominence-based peak detection with a refractory period.
package detect

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/aquametrics/strokecore/internal/domain/model"
)

// Default detection configuration constants.
const (
	defaultMinProminence  = 30.0
	defaultMinPeakSpacing = 300 * time.Millisecond
	minDetectableSamples  = 3
)

// Detector identifies stroke peaks in a trajectory. Stateless across calls;
// the orchestrator owns dedup of re-reported peaks.
type Detector struct {
	minProminence  float64
	minPeakSpacing time.Duration
}

// New creates a detector with configuration options.
func New(opts ...Option) *Detector {
	d := &Detector{
		minProminence:  defaultMinProminence,
		minPeakSpacing: defaultMinPeakSpacing,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect returns the ordered stroke events found in the trajectory. With
// fewer than three valid samples no peak is structurally detectable and the
// result is empty; absence of motion is a legitimate output, not a failure.
func (d *Detector) Detect(traj model.Trajectory) []model.StrokeEvent {
	n := traj.Len()
	if n < minDetectableSamples {
		return nil
	}

	var events []model.StrokeEvent
	var lastAccepted time.Time
	for i := 1; i < n-1; i++ {
		// Local maximum; on a plateau only the first sample qualifies,
		// so the earliest candidate in a cluster wins.
		if !(traj.Positions[i] > traj.Positions[i-1] && traj.Positions[i] >= traj.Positions[i+1]) {
			continue
		}

		prom, lo, hi := prominence(traj.Positions, i)
		if prom < d.minProminence {
			continue
		}

		ts := traj.Timestamps[i]
		if !lastAccepted.IsZero() && ts.Sub(lastAccepted) < d.minPeakSpacing {
			continue
		}
		lastAccepted = ts

		events = append(events, model.StrokeEvent{
			Timestamp:  ts,
			Limb:       traj.Limb,
			Confidence: model.ClampConfidence(stat.Mean(traj.Confidences[lo:hi+1], nil)),
		})
	}
	return events
}

// prominence computes the vertical excursion of the peak at idx: its height
// above the higher of the two flanking minima, where each flank extends until
// a sample taller than the peak (or the trajectory edge) is reached. Also
// returns the flank boundaries, which delimit the samples contributing to
// the peak.
func prominence(positions []float64, idx int) (prom float64, lo, hi int) {
	peak := positions[idx]

	leftMin := peak
	lo = idx
	for i := idx - 1; i >= 0; i-- {
		if positions[i] > peak {
			break
		}
		if positions[i] < leftMin {
			leftMin = positions[i]
		}
		lo = i
	}

	rightMin := peak
	hi = idx
	for i := idx + 1; i < len(positions); i++ {
		if positions[i] > peak {
			break
		}
		if positions[i] < rightMin {
			rightMin = positions[i]
		}
		hi = i
	}

	base := leftMin
	if rightMin > base {
		base = rightMin
	}
	return peak - base, lo, hi
}
