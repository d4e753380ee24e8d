package estimator

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/aquametrics/strokecore/internal/domain/model"
)

// Default synthetic motion constants.
const (
	defaultCyclesPerMinute = 60.0
	defaultFrameRate       = 30.0
	defaultAmplitude       = 50.0
	defaultBaseline        = 200.0
	defaultNoise           = 1.5
	defaultRandomSeed      = 42

	wristConfidence = 0.95
	lowerBodyConf   = 0.2 // submerged landmarks stay below the gating threshold
)

// Synthetic generates deterministic sinusoidal wrist motion at a configured
// stroke cadence. Timestamps advance by one frame interval per call, so runs
// are reproducible regardless of wall-clock jitter.
type Synthetic struct {
	cyclesPerMinute float64
	frameRate       float64
	amplitude       float64
	baseline        float64
	noise           float64

	start      time.Time
	frameIndex int64
	rng        *rand.Rand
}

// SyntheticOption applies a configuration option to the Synthetic estimator.
type SyntheticOption func(*Synthetic)

// WithCyclesPerMinute sets the stroke cadence of the generated motion.
func WithCyclesPerMinute(cpm float64) SyntheticOption {
	return func(s *Synthetic) {
		if cpm > 0 {
			s.cyclesPerMinute = cpm
		}
	}
}

// WithFrameRate sets the generated frame cadence.
func WithFrameRate(fps float64) SyntheticOption {
	return func(s *Synthetic) {
		if fps > 0 {
			s.frameRate = fps
		}
	}
}

// WithAmplitude sets the vertical excursion of the generated motion.
func WithAmplitude(amplitude float64) SyntheticOption {
	return func(s *Synthetic) {
		if amplitude > 0 {
			s.amplitude = amplitude
		}
	}
}

// WithNoise sets the magnitude of the positional jitter.
func WithNoise(noise float64) SyntheticOption {
	return func(s *Synthetic) {
		if noise >= 0 {
			s.noise = noise
		}
	}
}

// WithStart anchors the generated timestamps.
func WithStart(start time.Time) SyntheticOption {
	return func(s *Synthetic) {
		if !start.IsZero() {
			s.start = start
		}
	}
}

// NewSynthetic creates a synthetic estimator with configuration options.
func NewSynthetic(opts ...SyntheticOption) *Synthetic {
	s := &Synthetic{
		cyclesPerMinute: defaultCyclesPerMinute,
		frameRate:       defaultFrameRate,
		amplitude:       defaultAmplitude,
		baseline:        defaultBaseline,
		noise:           defaultNoise,
		start:           time.Now(),
		rng:             rand.New(rand.NewSource(defaultRandomSeed)), //nolint:gosec // deterministic seed for reproducible motion
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Estimate generates the next frame's pose. The wrists trace opposite phases
// of a sine wave, everything below the hips stays low-confidence.
func (s *Synthetic) Estimate(ctx context.Context) (model.PoseEstimate, bool, error) {
	if err := ctx.Err(); err != nil {
		return model.PoseEstimate{}, false, err
	}

	elapsed := float64(s.frameIndex) / s.frameRate
	ts := s.start.Add(time.Duration(elapsed * float64(time.Second)))
	idx := s.frameIndex
	s.frameIndex++

	phase := 2 * math.Pi * (s.cyclesPerMinute / 60.0) * elapsed
	left := s.baseline + s.amplitude*math.Sin(phase) + s.jitter()
	right := s.baseline + s.amplitude*math.Sin(phase+math.Pi) + s.jitter()

	var landmarks [model.LandmarkCount]model.Landmark
	for i := range landmarks {
		conf := wristConfidence
		if i >= model.IdxLeftHip {
			conf = lowerBodyConf
		}
		landmarks[i] = model.Landmark{X: 100, Y: s.baseline, Confidence: conf}
	}
	landmarks[model.IdxLeftWrist] = model.Landmark{X: 80, Y: left, Confidence: wristConfidence}
	landmarks[model.IdxRightWrist] = model.Landmark{X: 120, Y: right, Confidence: wristConfidence}

	return model.NewPoseEstimate(ts, idx, landmarks, wristConfidence, nil), true, nil
}

func (s *Synthetic) jitter() float64 {
	if s.noise == 0 {
		return 0
	}
	return (s.rng.Float64()*2 - 1) * s.noise
}
