package app

import (
	"context"
	"os"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/aquametrics/strokecore/internal/domain/estimator"
	"github.com/aquametrics/strokecore/internal/domain/model"
	"github.com/aquametrics/strokecore/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

// feedFrames generates n synthetic frames and runs each through the pipeline
// stages directly, bypassing the acquisition timer for determinism.
func feedFrames(ctx context.Context, s *Service, est *estimator.Synthetic, n int) {
	for i := 0; i < n; i++ {
		pose, ok, _ := est.Estimate(ctx)
		if ok {
			s.processFrame(model.Detected(pose))
		} else {
			s.processFrame(model.NoDetection(pose.Timestamp))
		}
	}
}

func TestPipeline(t *testing.T) {
	ctx := context.Background()
	start := time.Unix(1_700_000_000, 0)
	newSynthetic := func() *estimator.Synthetic {
		return estimator.NewSynthetic(
			estimator.WithFrameRate(30),
			estimator.WithCyclesPerMinute(60),
			estimator.WithNoise(0),
			estimator.WithStart(start),
		)
	}

	Convey("Given an initialized pipeline", t, func() {
		s := New()
		s.initComponents()

		Convey("When frames arrive with no active session", func() {
			feedFrames(ctx, s, newSynthetic(), 90)

			Convey("Then they are ignored entirely", func() {
				snap := s.Snapshot(ctx)
				So(snap.Active, ShouldBeFalse)
				So(snap.StrokeCount, ShouldEqual, 0)
			})
		})

		Convey("When 10s of synthetic motion at 60 cycles per minute is processed", func() {
			s.StartSession(ctx)
			feedFrames(ctx, s, newSynthetic(), 300)
			snap := s.Snapshot(ctx)

			Convey("Then both wrists contribute roughly one stroke per second", func() {
				So(snap.StrokeCount, ShouldBeGreaterThanOrEqualTo, 18)
				So(snap.StrokeCount, ShouldBeLessThanOrEqualTo, 22)
			})

			Convey("Then the stroke rate is positive and pose detection is reported", func() {
				So(snap.StrokeRate, ShouldBeGreaterThan, 0)
				So(snap.PoseDetected, ShouldBeTrue)
				So(len(snap.RateHistory), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When the detector re-scans frames it has already counted", func() {
			s.StartSession(ctx)
			est := newSynthetic()
			feedFrames(ctx, s, est, 300)
			counted := s.Snapshot(ctx).StrokeCount

			// Undetected frames advance the clock but add no new samples, so
			// every peak the detector reports was already seen.
			last := start.Add(10 * time.Second)
			for i := 0; i < 30; i++ {
				s.processFrame(model.NoDetection(last.Add(time.Duration(i) * 33 * time.Millisecond)))
			}

			Convey("Then the count does not move", func() {
				So(s.Snapshot(ctx).StrokeCount, ShouldEqual, counted)
			})
		})

		Convey("When frames carry no detection", func() {
			s.StartSession(ctx)
			for i := 0; i < 30; i++ {
				s.processFrame(model.NoDetection(start.Add(time.Duration(i) * 33 * time.Millisecond)))
			}
			snap := s.Snapshot(ctx)

			Convey("Then the snapshot reports pose lost with zero strokes", func() {
				So(snap.PoseDetected, ShouldBeFalse)
				So(snap.StrokeCount, ShouldEqual, 0)
				So(snap.StrokeRate, ShouldEqual, 0.0)
			})
		})

		Convey("When a new session starts after a counted one", func() {
			first := s.StartSession(ctx)
			feedFrames(ctx, s, newSynthetic(), 300)
			So(s.Snapshot(ctx).StrokeCount, ShouldBeGreaterThan, 0)

			second := s.StartSession(ctx)

			Convey("Then all counters reset under a fresh identifier", func() {
				So(second.SessionID, ShouldNotEqual, first.SessionID)
				snap := s.Snapshot(ctx)
				So(snap.StrokeCount, ShouldEqual, 0)
				So(snap.StrokeRate, ShouldEqual, 0.0)
				So(snap.RateHistory, ShouldBeEmpty)
			})

			Convey("Then previously counted strokes are not re-admitted", func() {
				feedFrames(ctx, s, newSynthetic(), 300)
				snap := s.Snapshot(ctx)
				So(snap.StrokeCount, ShouldBeGreaterThanOrEqualTo, 18)
				So(snap.StrokeCount, ShouldBeLessThanOrEqualTo, 22)
			})
		})

		Convey("When a session ends", func() {
			s.StartSession(ctx)
			feedFrames(ctx, s, newSynthetic(), 300)
			final := s.EndSession(ctx)

			Convey("Then the final snapshot is frozen and inactive", func() {
				So(final.Active, ShouldBeFalse)
				So(final.StrokeCount, ShouldBeGreaterThan, 0)
			})

			Convey("Then further frames are ignored", func() {
				count := final.StrokeCount
				feedFrames(ctx, s, newSynthetic(), 60)
				So(s.Snapshot(ctx).StrokeCount, ShouldEqual, count)
			})

			Convey("Then ending again returns the same state", func() {
				again := s.EndSession(ctx)
				So(again.Active, ShouldBeFalse)
				So(again.StrokeCount, ShouldEqual, final.StrokeCount)
			})
		})

		Convey("When a session with no strokes starts and ends", func() {
			s.StartSession(ctx)
			final := s.EndSession(ctx)

			Convey("Then the snapshot shows zero count, zero rate, inactive", func() {
				So(final.StrokeCount, ShouldEqual, 0)
				So(final.StrokeRate, ShouldEqual, 0.0)
				So(final.Active, ShouldBeFalse)
			})
		})

		Convey("When the session is reset", func() {
			s.StartSession(ctx)
			feedFrames(ctx, s, newSynthetic(), 300)
			s.ResetSession(ctx)

			Convey("Then the record is discarded", func() {
				snap := s.Snapshot(ctx)
				So(snap.SessionID, ShouldBeEmpty)
				So(snap.Active, ShouldBeFalse)
				So(snap.StrokeCount, ShouldEqual, 0)
			})
		})

		Convey("When the swimming signal is set", func() {
			s.StartSession(ctx)
			s.SetSwimming(ctx, true)

			Convey("Then it passes through to the snapshot", func() {
				So(s.Snapshot(ctx).IsSwimming, ShouldBeTrue)
				s.SetSwimming(ctx, false)
				So(s.Snapshot(ctx).IsSwimming, ShouldBeFalse)
			})
		})
	})

	Convey("Given a running service", t, func() {
		s := New(
			WithEstimator(newSynthetic()),
			WithFrameRate(60),
			WithQueueCapacity(8),
		)
		So(s.Start(ctx), ShouldBeNil)
		Reset(s.Stop)

		Convey("When a session runs against the live acquisition loop", func() {
			s.StartSession(ctx)
			time.Sleep(1200 * time.Millisecond)
			snap := s.EndSession(ctx)

			Convey("Then frames flow end to end", func() {
				So(snap.PoseDetected, ShouldBeTrue)
				So(snap.StrokeCount, ShouldBeGreaterThan, 0)
			})
		})

		Convey("When stats are requested", func() {
			stats := s.GetStats()

			Convey("Then they describe the running pipeline", func() {
				So(stats["started"], ShouldBeTrue)
				So(stats["queueCapacity"], ShouldEqual, 8)
			})
		})

		Convey("When Start is called twice", func() {
			Convey("Then the second call is a no-op", func() {
				So(s.Start(ctx), ShouldBeNil)
			})
		})
	})
}
