// Package app provides the pipeline orchestrator service that implements the
// dependencies required by the HTTP API.
package app

import (
	"context"
	"sync"
	"time"

	framequeue "github.com/aquametrics/strokecore/internal/adapters/mq/queue"
	"github.com/aquametrics/strokecore/internal/adapters/session"
	"github.com/aquametrics/strokecore/internal/domain/buffer"
	"github.com/aquametrics/strokecore/internal/domain/detect"
	"github.com/aquametrics/strokecore/internal/domain/estimator"
	"github.com/aquametrics/strokecore/internal/domain/model"
	"github.com/aquametrics/strokecore/internal/domain/rate"
	"github.com/aquametrics/strokecore/internal/domain/types"
	"github.com/aquametrics/strokecore/pkg/logger"
	"github.com/aquametrics/strokecore/pkg/metrics"
)

// Default pipeline configuration constants.
const (
	defaultFrameRate       = 30.0
	defaultQueueCapacity   = 30
	defaultShutdownTimeout = 5 * time.Second
)

// Service orchestrates the per-frame flow: estimator -> buffer -> detector ->
// rate estimator -> session store. Frame processing runs on a single runner
// goroutine; one frame is fully processed before the next begins.
type Service struct {
	mu sync.RWMutex

	// Core components
	buf      *buffer.Buffer
	detector *detect.Detector
	rates    *rate.Estimator
	store    *session.Store
	frames   framequeue.Queue
	est      estimator.Estimator

	// pipelineMu serializes pipeline state (buffer, rate estimator,
	// watermarks) between the runner and the session lifecycle calls.
	pipelineMu sync.Mutex
	watermarks map[model.Limb]time.Time

	// Configuration
	frameRate           float64
	queueCapacity       int
	bufferCapacity      int
	confidenceThreshold float64
	minProminence       float64
	minPeakSpacing      time.Duration
	rateWindow          time.Duration
	sampleInterval      time.Duration
	historyCapacity     int

	// Lifecycle
	started bool
	cancel  context.CancelFunc
	acqDone chan struct{}
	runDone chan struct{}

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithEstimator sets the pose estimator implementation.
func WithEstimator(e estimator.Estimator) Option {
	return func(s *Service) {
		if e != nil {
			s.est = e
		}
	}
}

// WithFrameRate sets the acquisition frame rate.
func WithFrameRate(fps float64) Option {
	return func(s *Service) {
		if fps > 0 {
			s.frameRate = fps
		}
	}
}

// WithQueueCapacity bounds the frame queue.
func WithQueueCapacity(capacity int) Option {
	return func(s *Service) {
		if capacity > 0 {
			s.queueCapacity = capacity
		}
	}
}

// WithBufferCapacity bounds the landmark buffer.
func WithBufferCapacity(capacity int) Option {
	return func(s *Service) {
		if capacity > 0 {
			s.bufferCapacity = capacity
		}
	}
}

// WithConfidenceThreshold sets the landmark gating threshold.
func WithConfidenceThreshold(threshold float64) Option {
	return func(s *Service) {
		if threshold >= 0 && threshold <= 1 {
			s.confidenceThreshold = threshold
		}
	}
}

// WithMinProminence sets the detector's prominence threshold.
func WithMinProminence(prominence float64) Option {
	return func(s *Service) {
		if prominence > 0 {
			s.minProminence = prominence
		}
	}
}

// WithMinPeakSpacing sets the detector's refractory period.
func WithMinPeakSpacing(spacing time.Duration) Option {
	return func(s *Service) {
		if spacing > 0 {
			s.minPeakSpacing = spacing
		}
	}
}

// WithRateWindow sets the rolling rate window.
func WithRateWindow(window time.Duration) Option {
	return func(s *Service) {
		if window > 0 {
			s.rateWindow = window
		}
	}
}

// WithSampleInterval sets the rate-history sampling cadence.
func WithSampleInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.sampleInterval = interval
		}
	}
}

// WithHistoryCapacity bounds the rate history.
func WithHistoryCapacity(capacity int) Option {
	return func(s *Service) {
		if capacity > 0 {
			s.historyCapacity = capacity
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		frameRate:           defaultFrameRate,
		queueCapacity:       defaultQueueCapacity,
		bufferCapacity:      0, // package defaults apply when zero
		confidenceThreshold: -1,
		watermarks:          make(map[model.Limb]time.Time),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the pipeline components and launches the acquisition
// loop and the frame runner.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.initComponents()

	runCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.acqDone = make(chan struct{})
	s.runDone = make(chan struct{})
	go s.acquire(runCtx)
	go s.run()

	s.started = true
	s.logger.Info(ctx, "pipeline started",
		logger.Float64("frameRate", s.frameRate),
		logger.Int("queueCapacity", s.queueCapacity),
		logger.Int("bufferCapacity", s.buf.Capacity()),
	)
	return nil
}

// initComponents builds the pipeline stages from the configured options.
func (s *Service) initComponents() {
	if s.logger == nil {
		s.logger = logger.Get().Named("pipeline")
	}
	if s.est == nil {
		s.est = estimator.NewSynthetic(estimator.WithFrameRate(s.frameRate))
	}

	var bufOpts []buffer.Option
	if s.bufferCapacity > 0 {
		bufOpts = append(bufOpts, buffer.WithCapacity(s.bufferCapacity))
	}
	if s.confidenceThreshold >= 0 {
		bufOpts = append(bufOpts, buffer.WithConfidenceThreshold(s.confidenceThreshold))
	}
	s.buf = buffer.New(bufOpts...)

	var detOpts []detect.Option
	if s.minProminence > 0 {
		detOpts = append(detOpts, detect.WithMinProminence(s.minProminence))
	}
	if s.minPeakSpacing > 0 {
		detOpts = append(detOpts, detect.WithMinPeakSpacing(s.minPeakSpacing))
	}
	s.detector = detect.New(detOpts...)

	var rateOpts []rate.Option
	if s.rateWindow > 0 {
		rateOpts = append(rateOpts, rate.WithWindow(s.rateWindow))
	}
	if s.sampleInterval > 0 {
		rateOpts = append(rateOpts, rate.WithSampleInterval(s.sampleInterval))
	}
	if s.historyCapacity > 0 {
		rateOpts = append(rateOpts, rate.WithHistoryCapacity(s.historyCapacity))
	}
	s.rates = rate.New(rateOpts...)

	s.store = session.NewStore()
	s.frames = framequeue.NewInMemoryQueue(framequeue.WithCapacity(s.queueCapacity))
}

// Stop shuts the pipeline down. The acquisition loop stops first, then the
// queue is closed and the runner drains it, so any in-flight frame completes
// before resources are released.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping pipeline...")

	s.cancel()
	select {
	case <-s.acqDone:
	case <-time.After(defaultShutdownTimeout):
		s.logger.Warn(ctx, "acquisition shutdown timed out")
	}

	_ = s.frames.Close()
	select {
	case <-s.runDone:
	case <-time.After(defaultShutdownTimeout):
		s.logger.Warn(ctx, "runner shutdown timed out")
	}

	s.started = false
	s.logger.Info(ctx, "pipeline stopped")
}

// StartSession resets all counters and activates a new session.
func (s *Service) StartSession(ctx context.Context) types.Snapshot {
	s.pipelineMu.Lock()
	defer s.pipelineMu.Unlock()

	s.buf.Clear()
	s.rates.Reset()
	s.watermarks = make(map[model.Limb]time.Time)
	st := s.store.StartSession()

	metrics.UpdateSessionActive(true)
	s.logger.Info(ctx, "session started", logger.String("sessionID", st.SessionID))
	return st.Wire(time.Now())
}

// EndSession deactivates the session and returns the final snapshot.
// Calling it while inactive returns the last known snapshot unchanged.
func (s *Service) EndSession(ctx context.Context) types.Snapshot {
	s.pipelineMu.Lock()
	defer s.pipelineMu.Unlock()

	wasActive := s.store.Snapshot().Active
	st := s.store.EndSession()
	if wasActive {
		s.buf.Clear()
		metrics.UpdateSessionActive(false)
		s.logger.Info(ctx, "session ended",
			logger.String("sessionID", st.SessionID),
			logger.Int("strokeCount", st.StrokeCount),
		)
	}
	return st.Wire(time.Now())
}

// ResetSession discards the session record and all pipeline state.
func (s *Service) ResetSession(ctx context.Context) {
	s.pipelineMu.Lock()
	defer s.pipelineMu.Unlock()

	s.buf.Clear()
	s.rates.Reset()
	s.watermarks = make(map[model.Limb]time.Time)
	s.store.Reset()
	metrics.UpdateSessionActive(false)
	s.logger.Info(ctx, "session reset")
}

// Snapshot returns the current session snapshot in the wire schema.
func (s *Service) Snapshot(ctx context.Context) types.Snapshot {
	metrics.RecordSnapshotRead()
	return s.store.Wire()
}

// SetSwimming passes the upstream motion-activity signal through to the
// session state. The heuristic itself is computed outside this core.
func (s *Service) SetSwimming(ctx context.Context, swimming bool) {
	s.store.Apply(session.Update{IsSwimming: &swimming})
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":       s.started,
		"frameRate":     s.frameRate,
		"queueCapacity": s.queueCapacity,
	}
	if s.started {
		stats["queueLength"] = s.frames.Len()
		s.pipelineMu.Lock()
		stats["bufferFill"] = s.buf.Len()
		s.pipelineMu.Unlock()
		stats["strokeCount"] = s.store.Snapshot().StrokeCount
	}
	return stats
}
