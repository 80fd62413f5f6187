package detect

import "triagecam/pkg/geometry"

// Keypoint indexes the 17 COCO body keypoints.
type Keypoint int

const (
	KeypointNose Keypoint = iota
	KeypointLeftEye
	KeypointRightEye
	KeypointLeftEar
	KeypointRightEar
	KeypointLeftShoulder
	KeypointRightShoulder
	KeypointLeftElbow
	KeypointRightElbow
	KeypointLeftWrist
	KeypointRightWrist
	KeypointLeftHip
	KeypointRightHip
	KeypointLeftKnee
	KeypointRightKnee
	KeypointLeftAnkle
	KeypointRightAnkle

	NumKeypoints = 17
)

// Skeleton holds one body's keypoints, normalized to the ROI they were
// estimated in (0-1 on both axes). A keypoint below the model's
// per-point confidence gate is marked absent rather than carrying a
// low-quality position.
type Skeleton struct {
	Points  [NumKeypoints]geometry.Point
	Present [NumKeypoints]bool
}

// At returns the keypoint position and whether it was observed.
func (s *Skeleton) At(k Keypoint) (geometry.Point, bool) {
	if k < 0 || int(k) >= NumKeypoints {
		return geometry.Point{}, false
	}
	return s.Points[k], s.Present[k]
}

// Torso returns the shoulder and hip keypoints. ok is false if any of
// the four is missing; the posture signal needs all of them.
func (s *Skeleton) Torso() (ls, rs, lh, rh geometry.Point, ok bool) {
	var present bool
	if ls, present = s.At(KeypointLeftShoulder); !present {
		return ls, rs, lh, rh, false
	}
	if rs, present = s.At(KeypointRightShoulder); !present {
		return ls, rs, lh, rh, false
	}
	if lh, present = s.At(KeypointLeftHip); !present {
		return ls, rs, lh, rh, false
	}
	if rh, present = s.At(KeypointRightHip); !present {
		return ls, rs, lh, rh, false
	}
	return ls, rs, lh, rh, true
}
