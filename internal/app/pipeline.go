package app

import (
	"context"
	"time"

	"github.com/aquametrics/strokecore/internal/adapters/session"
	"github.com/aquametrics/strokecore/internal/domain/model"
	"github.com/aquametrics/strokecore/pkg/logger"
	"github.com/aquametrics/strokecore/pkg/metrics"
)

// acquire drives the external estimator at the configured frame rate and
// enqueues each result. When the runner lags, Enqueue rejects the frame and
// it is dropped; queuing work unboundedly is explicitly disallowed.
func (s *Service) acquire(ctx context.Context) {
	defer close(s.acqDone)

	interval := time.Duration(float64(time.Second) / s.frameRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			start := time.Now()
			pose, ok, err := s.est.Estimate(ctx)
			metrics.RecordEstimatorLatency(float64(time.Since(start).Milliseconds()))
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				metrics.RecordErrorByComponent("estimator", "estimate")
				s.logger.Error(ctx, "estimator failed", logger.Error(err))
				continue
			}

			frame := model.NoDetection(time.Now())
			if ok {
				frame = model.Detected(pose)
			}
			if !s.frames.Enqueue(ctx, frame) && ctx.Err() == nil {
				metrics.RecordFrameDropped()
			}
		}
	}
}

// run consumes queued frames strictly in order. The loop ends when the queue
// is closed and drained, so shutdown always completes the in-flight frame.
func (s *Service) run() {
	defer close(s.runDone)

	for frame := range s.frames.Dequeue() {
		s.processFrame(frame)
		metrics.UpdateQueueSize(s.frames.Len())
	}
}

// processFrame runs one frame through the pipeline stages. Frames arriving
// outside an active session are ignored.
func (s *Service) processFrame(frame model.Detection) {
	start := time.Now()
	defer func() {
		metrics.RecordFrameLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.pipelineMu.Lock()
	defer s.pipelineMu.Unlock()

	if !s.store.Snapshot().Active {
		return
	}
	metrics.RecordFrameProcessed()

	poseDetected := frame.OK
	if frame.OK {
		s.buf.Add(frame.Pose)
		metrics.RecordPoseDetected()
	} else {
		metrics.RecordFrameNoPose()
	}

	// The detector re-scans the full retained window every frame, so it
	// re-reports peaks it has seen before. The per-limb watermark admits
	// only strictly newer events, and registration is idempotent per
	// timestamp; together they guarantee each stroke counts exactly once.
	newStrokes := 0
	var lastStroke time.Time
	for _, limb := range model.Limbs() {
		traj := s.buf.Trajectory(limb)
		for _, ev := range s.detector.Detect(traj) {
			if !ev.Timestamp.After(s.watermarks[limb]) {
				continue
			}
			s.watermarks[limb] = ev.Timestamp
			if !s.rates.Register(ev.Timestamp) {
				metrics.RecordDuplicateStroke()
				continue
			}
			newStrokes++
			if ev.Timestamp.After(lastStroke) {
				lastStroke = ev.Timestamp
			}
			metrics.RecordStrokeDetected(string(ev.Limb))
		}
	}

	now := frame.Timestamp
	s.rates.Tick(now)
	strokeRate := s.rates.Rate(now)
	count := s.rates.StrokeCount()

	update := session.Update{
		StrokeCount:  &count,
		StrokeRate:   &strokeRate,
		RateHistory:  s.rates.History(0),
		PoseDetected: &poseDetected,
	}
	if newStrokes > 0 {
		update.LastStrokeAt = &lastStroke
	}
	s.store.Apply(update)

	metrics.UpdateBufferFill(s.buf.Len())
	metrics.UpdateStrokeRate(strokeRate)
	metrics.UpdateStrokeCount(count)
}
