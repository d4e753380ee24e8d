package estimator_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/aquametrics/strokecore/internal/domain/estimator"
	"github.com/aquametrics/strokecore/internal/domain/model"
)

func TestSynthetic(t *testing.T) {
	ctx := context.Background()
	start := time.Unix(1_700_000_000, 0)

	Convey("Given a synthetic estimator at 30fps", t, func() {
		s := estimator.NewSynthetic(
			estimator.WithFrameRate(30),
			estimator.WithCyclesPerMinute(60),
			estimator.WithStart(start),
		)

		Convey("When frames are generated", func() {
			first, ok1, err1 := s.Estimate(ctx)
			second, ok2, err2 := s.Estimate(ctx)

			Convey("Then every frame detects a pose", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(ok1, ShouldBeTrue)
				So(ok2, ShouldBeTrue)
			})

			Convey("Then timestamps advance by exactly one frame interval", func() {
				So(first.Timestamp.Equal(start), ShouldBeTrue)
				So(second.Timestamp.Sub(first.Timestamp), ShouldEqual, time.Second/30)
				So(second.FrameIndex, ShouldEqual, first.FrameIndex+1)
			})

			Convey("Then wrists carry high confidence and lower body stays gated out", func() {
				So(first.Landmark(model.LimbLeftWrist).Confidence, ShouldBeGreaterThan, 0.5)
				So(first.Landmark(model.LimbRightWrist).Confidence, ShouldBeGreaterThan, 0.5)
				So(first.Landmarks[model.IdxLeftAnkle].Confidence, ShouldBeLessThan, 0.5)
			})
		})

		Convey("When the wrists are sampled over a full cycle", func() {
			var left, right []float64
			for i := 0; i < 30; i++ {
				pose, _, _ := s.Estimate(ctx)
				left = append(left, pose.Landmark(model.LimbLeftWrist).Y)
				right = append(right, pose.Landmark(model.LimbRightWrist).Y)
			}

			Convey("Then they trace opposite phases", func() {
				// Quarter cycle in: left near its crest, right near its trough.
				So(left[7], ShouldBeGreaterThan, right[7])
				So(right[22], ShouldBeGreaterThan, left[22])
			})
		})

		Convey("When the context is cancelled", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			_, ok, err := s.Estimate(cancelled)

			Convey("Then the error propagates", func() {
				So(ok, ShouldBeFalse)
				So(err, ShouldNotBeNil)
			})
		})
	})

	Convey("Given two synthetic estimators with identical settings", t, func() {
		a := estimator.NewSynthetic(estimator.WithStart(start))
		b := estimator.NewSynthetic(estimator.WithStart(start))

		Convey("When both generate the same frames", func() {
			Convey("Then the motion is identical", func() {
				for i := 0; i < 10; i++ {
					pa, _, _ := a.Estimate(ctx)
					pb, _, _ := b.Estimate(ctx)
					So(pa.Landmark(model.LimbLeftWrist).Y, ShouldEqual, pb.Landmark(model.LimbLeftWrist).Y)
				}
			})
		})
	})
}

func TestReplay(t *testing.T) {
	ctx := context.Background()

	writeRecording := func(t *testing.T, lines string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "frames.jsonl")
		if err := os.WriteFile(path, []byte(lines), 0o600); err != nil {
			t.Fatal(err)
		}
		return path
	}

	record := func(ts float64, idx int64, y float64) string {
		var sb strings.Builder
		fmt.Fprintf(&sb, `{"timestamp":%g,"frame_index":%d,"landmarks":[`, ts, idx)
		for i := 0; i < model.LandmarkCount; i++ {
			if i > 0 {
				sb.WriteByte(',')
			}
			fmt.Fprintf(&sb, `{"x":1,"y":%g,"confidence":0.9}`, y)
		}
		sb.WriteString(`],"overall_confidence":0.9}` + "\n")
		return sb.String()
	}

	Convey("Given a recorded pose stream", t, func() {
		path := writeRecording(t, record(100.0, 0, 210)+record(100.033, 1, 215)+"\n"+record(100.066, 2, 220))

		Convey("When it is replayed", func() {
			r, err := estimator.NewReplay(path)
			So(err, ShouldBeNil)
			So(r.Remaining(), ShouldEqual, 3)

			Convey("Then frames come back in recorded order with their payloads", func() {
				pose, ok, err := r.Estimate(ctx)
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(pose.FrameIndex, ShouldEqual, 0)
				So(pose.Landmark(model.LimbLeftWrist).Y, ShouldEqual, 210.0)
				So(pose.Timestamp.Unix(), ShouldEqual, 100)
			})

			Convey("Then exhaustion reports no detection, not an error", func() {
				for i := 0; i < 3; i++ {
					_, ok, err := r.Estimate(ctx)
					So(err, ShouldBeNil)
					So(ok, ShouldBeTrue)
				}
				_, ok, err := r.Estimate(ctx)
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
				So(r.Remaining(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given a recording with a malformed record", t, func() {
		Convey("When the landmark count is wrong", func() {
			path := writeRecording(t, `{"timestamp":1,"frame_index":0,"landmarks":[{"x":1,"y":2,"confidence":0.9}],"overall_confidence":0.9}`+"\n")
			_, err := estimator.NewReplay(path)

			Convey("Then loading fails up front", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When a line is not valid JSON", func() {
			path := writeRecording(t, "not json\n")
			_, err := estimator.NewReplay(path)

			Convey("Then loading fails up front", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})

	Convey("Given a missing recording file", t, func() {
		_, err := estimator.NewReplay(filepath.Join(t.TempDir(), "missing.jsonl"))

		Convey("Then the open error is surfaced", func() {
			So(err, ShouldNotBeNil)
		})
	})
}
