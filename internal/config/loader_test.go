package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/aquametrics/strokecore/internal/config"
)

// setenv sets an environment variable for the current leaf only. t.Setenv
// would leak across sibling Convey blocks, which share the test process env.
func setenv(t *testing.T, key, value string) {
	t.Helper()
	t.Setenv(key, value) // registers restoration at test end
	Reset(func() { os.Unsetenv(key) })
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	Convey("Given no configuration sources", t, func() {
		cfg, err := config.Load(ctx)

		Convey("Then defaults apply", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":9180")
			So(cfg.FrameRate, ShouldEqual, 30.0)
			So(cfg.BufferCapacity, ShouldEqual, 300)
			So(cfg.ConfidenceThreshold, ShouldEqual, 0.5)
			So(cfg.RateWindowSeconds, ShouldEqual, 15)
			So(cfg.Estimator, ShouldEqual, "synthetic")
		})
	})

	Convey("Given a YAML config file", t, func() {
		path := filepath.Join(t.TempDir(), "strokecore.yaml")
		So(os.WriteFile(path, []byte("addr: \":7777\"\nframe_rate: 24\nmin_prominence: 42\n"), 0o600), ShouldBeNil)
		setenv(t, "STROKECORE_CONFIG", path)

		cfg, err := config.Load(ctx)

		Convey("Then file values override defaults and the rest stay", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":7777")
			So(cfg.FrameRate, ShouldEqual, 24.0)
			So(cfg.MinProminence, ShouldEqual, 42.0)
			So(cfg.QueueCapacity, ShouldEqual, 30)
		})
	})

	Convey("Given environment variables", t, func() {
		setenv(t, "STROKECORE_ADDR", ":8888")
		setenv(t, "STROKECORE_HISTORY_CAPACITY", "10")

		cfg, err := config.Load(ctx)

		Convey("Then env values override defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":8888")
			So(cfg.HistoryCapacity, ShouldEqual, 10)
		})
	})

	Convey("Given both a file and environment variables", t, func() {
		path := filepath.Join(t.TempDir(), "strokecore.yaml")
		So(os.WriteFile(path, []byte("addr: \":7777\"\n"), 0o600), ShouldBeNil)
		setenv(t, "STROKECORE_CONFIG", path)
		setenv(t, "STROKECORE_ADDR", ":8888")

		cfg, err := config.Load(ctx)

		Convey("Then the environment wins", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":8888")
		})
	})

	Convey("Given an invalid frame rate", t, func() {
		setenv(t, "STROKECORE_FRAME_RATE", "0")
		_, err := config.Load(ctx)

		Convey("Then validation rejects it", func() {
			So(err, ShouldEqual, config.ErrBadFrameRate)
		})
	})

	Convey("Given an out-of-range confidence threshold", t, func() {
		setenv(t, "STROKECORE_CONFIDENCE_THRESHOLD", "1.5")
		_, err := config.Load(ctx)

		Convey("Then validation rejects it", func() {
			So(err, ShouldEqual, config.ErrBadThreshold)
		})
	})

	Convey("Given an unknown estimator kind", t, func() {
		setenv(t, "STROKECORE_ESTIMATOR", "webcam")
		_, err := config.Load(ctx)

		Convey("Then validation rejects it", func() {
			So(err, ShouldEqual, config.ErrUnknownEstimator)
		})
	})

	Convey("Given replay selected without a recording path", t, func() {
		setenv(t, "STROKECORE_ESTIMATOR", "replay")
		_, err := config.Load(ctx)

		Convey("Then validation rejects it", func() {
			So(err, ShouldEqual, config.ErrMissingReplayPath)
		})
	})
}
