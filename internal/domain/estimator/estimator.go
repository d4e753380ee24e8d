// Package estimator defines the pluggable pose-estimation capability and its
// variant implementations. The landmark model itself is an external
// collaborator; this package only fixes the contract the pipeline consumes
// and provides deterministic stand-ins for testing and replay.
package estimator

import (
	"context"
	"time"

	"github.com/aquametrics/strokecore/internal/domain/model"
)

// Estimator yields zero or one pose estimate per frame. A frame with no
// detection returns ok=false, which is a legitimate result, not an error.
type Estimator interface {
	Estimate(ctx context.Context) (pose model.PoseEstimate, ok bool, err error)
}

// Estimator kinds selectable by configuration.
const (
	KindSynthetic = "synthetic"
	KindReplay    = "replay"
)

// secondsToTime converts a float unix-seconds timestamp, the form used on
// the estimator wire contract, to a time.Time.
func secondsToTime(sec float64) time.Time {
	return time.Unix(0, int64(sec*float64(time.Second)))
}
