package estimator

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aquametrics/strokecore/internal/domain/model"
)

// frameRecord mirrors the estimator input contract, one JSON object per line.
type frameRecord struct {
	Timestamp  float64 `json:"timestamp"`
	FrameIndex int64   `json:"frame_index"`
	Landmarks  []struct {
		X          float64 `json:"x"`
		Y          float64 `json:"y"`
		Confidence float64 `json:"confidence"`
	} `json:"landmarks"`
	OverallConfidence float64    `json:"overall_confidence"`
	BBox              *[]float64 `json:"bbox,omitempty"`
}

// Replay plays back recorded pose estimates from a JSON-lines file. Once the
// recording is exhausted every further frame reports no detection.
type Replay struct {
	frames []model.PoseEstimate
	next   int
}

// NewReplay loads a recording. Records with a wrong landmark count are
// rejected up front rather than surfacing mid-session.
func NewReplay(path string) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open recording: %w", err)
	}
	defer f.Close()

	r := &Replay{}
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var rec frameRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("decode recording line %d: %w", line, err)
		}
		pose, err := rec.toPose()
		if err != nil {
			return nil, fmt.Errorf("recording line %d: %w", line, err)
		}
		r.frames = append(r.frames, pose)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read recording: %w", err)
	}
	return r, nil
}

// Estimate returns the next recorded pose, or ok=false once exhausted.
func (r *Replay) Estimate(ctx context.Context) (model.PoseEstimate, bool, error) {
	if err := ctx.Err(); err != nil {
		return model.PoseEstimate{}, false, err
	}
	if r.next >= len(r.frames) {
		return model.PoseEstimate{}, false, nil
	}
	pose := r.frames[r.next]
	r.next++
	return pose, true, nil
}

// Remaining reports how many recorded frames have not been played yet.
func (r *Replay) Remaining() int { return len(r.frames) - r.next }

func (rec frameRecord) toPose() (model.PoseEstimate, error) {
	if len(rec.Landmarks) != model.LandmarkCount {
		return model.PoseEstimate{}, fmt.Errorf("expected %d landmarks, got %d", model.LandmarkCount, len(rec.Landmarks))
	}
	var landmarks [model.LandmarkCount]model.Landmark
	for i, lm := range rec.Landmarks {
		landmarks[i] = model.Landmark{X: lm.X, Y: lm.Y, Confidence: lm.Confidence}
	}
	var bbox *model.BBox
	if rec.BBox != nil && len(*rec.BBox) == 4 {
		b := *rec.BBox
		bbox = &model.BBox{X1: b[0], Y1: b[1], X2: b[2], Y2: b[3]}
	}
	ts := secondsToTime(rec.Timestamp)
	return model.NewPoseEstimate(ts, rec.FrameIndex, landmarks, rec.OverallConfidence, bbox), nil
}
