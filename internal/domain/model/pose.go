// Package model contains domain models passed between pipeline stages.
package model

import "time"

// LandmarkCount is the fixed number of anatomical landmarks per estimate.
// The estimator always emits all of them; low-confidence landmarks are
// included and filtered downstream, never omitted.
const LandmarkCount = 17

// Landmark indices follow the COCO 17-keypoint convention. Only the wrists
// are consumed by the pipeline; the rest are carried for completeness.
const (
	IdxNose          = 0
	IdxLeftEye       = 1
	IdxRightEye      = 2
	IdxLeftEar       = 3
	IdxRightEar      = 4
	IdxLeftShoulder  = 5
	IdxRightShoulder = 6
	IdxLeftElbow     = 7
	IdxRightElbow    = 8
	IdxLeftWrist     = 9
	IdxRightWrist    = 10
	IdxLeftHip       = 11
	IdxRightHip      = 12
	IdxLeftKnee      = 13
	IdxRightKnee     = 14
	IdxLeftAnkle     = 15
	IdxRightAnkle    = 16
)

// Limb identifies which tracked limb a trajectory or event belongs to.
type Limb string

// Tracked limbs.
const (
	LimbLeftWrist  Limb = "left_wrist"
	LimbRightWrist Limb = "right_wrist"
)

// LandmarkIndex returns the landmark slot for the limb.
func (l Limb) LandmarkIndex() int {
	if l == LimbLeftWrist {
		return IdxLeftWrist
	}
	return IdxRightWrist
}

// Limbs lists the limbs the pipeline tracks, in a stable order.
func Limbs() []Limb {
	return []Limb{LimbLeftWrist, LimbRightWrist}
}

// Landmark is one tracked anatomical point: a planar coordinate pair and a
// confidence score in [0,1].
type Landmark struct {
	X          float64
	Y          float64
	Confidence float64
}

// BBox is an optional bounding region around the detected subject.
type BBox struct {
	X1, Y1, X2, Y2 float64
}

// PoseEstimate is one frame's result from the external estimator.
// Immutable once created.
type PoseEstimate struct {
	Timestamp         time.Time
	FrameIndex        int64
	Landmarks         [LandmarkCount]Landmark
	OverallConfidence float64
	BBox              *BBox
}

// NewPoseEstimate builds an estimate with all confidence values clamped to
// [0,1]. Out-of-range confidences are clamped, never rejected.
func NewPoseEstimate(ts time.Time, frameIndex int64, landmarks [LandmarkCount]Landmark, overall float64, bbox *BBox) PoseEstimate {
	for i := range landmarks {
		landmarks[i].Confidence = ClampConfidence(landmarks[i].Confidence)
	}
	return PoseEstimate{
		Timestamp:         ts,
		FrameIndex:        frameIndex,
		Landmarks:         landmarks,
		OverallConfidence: ClampConfidence(overall),
		BBox:              bbox,
	}
}

// Landmark returns the landmark tracked for the limb.
func (p PoseEstimate) Landmark(limb Limb) Landmark {
	return p.Landmarks[limb.LandmarkIndex()]
}

// ClampConfidence clamps a confidence score to [0,1].
func ClampConfidence(c float64) float64 {
	switch {
	case c < 0:
		return 0
	case c > 1:
		return 1
	default:
		return c
	}
}

// Detection is one frame's estimator outcome: a pose when OK is true, or an
// explicit no-detection otherwise. The timestamp is always present so the
// pipeline clock advances even through undetected frames.
type Detection struct {
	Timestamp time.Time
	Pose      PoseEstimate
	OK        bool
}

// Detected wraps a pose estimate as a positive detection.
func Detected(pose PoseEstimate) Detection {
	return Detection{Timestamp: pose.Timestamp, Pose: pose, OK: true}
}

// NoDetection marks a frame in which the estimator found no pose.
func NoDetection(ts time.Time) Detection {
	return Detection{Timestamp: ts}
}

// Trajectory is the gap-free sample sequence for one limb. Positions are the
// vertical coordinate used by peak detection. The three slices are always
// index-aligned and the same length, with strictly increasing timestamps.
type Trajectory struct {
	Limb        Limb
	Positions   []float64
	Timestamps  []time.Time
	Confidences []float64
}

// Len returns the number of valid samples in the trajectory.
func (t Trajectory) Len() int { return len(t.Positions) }

// StrokeEvent is a detected stroke. Produced by the detector, consumed once
// by the rate estimator.
type StrokeEvent struct {
	Timestamp  time.Time
	Limb       Limb
	Confidence float64
}

// RateSample is one point of the sampled stroke-rate history.
type RateSample struct {
	Timestamp time.Time
	Rate      float64
}
