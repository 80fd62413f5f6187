package triage

import (
	"gocv.io/x/gocv"

	"triagecam/pkg/detect"
	"triagecam/pkg/geometry"
)

// Fake capabilities so the fusion logic can be exercised without model
// files.

type fakeDetector struct {
	objects []detect.Object
	err     error
}

func (f *fakeDetector) Detect(frame gocv.Mat) ([]detect.Object, error) {
	return f.objects, f.err
}

func (f *fakeDetector) Close() error { return nil }

type fakePose struct {
	sk  *detect.Skeleton
	err error
}

func (f *fakePose) EstimatePose(roi gocv.Mat) (*detect.Skeleton, error) {
	return f.sk, f.err
}

func (f *fakePose) Close() error { return nil }

type fakeFaces struct {
	lm  *detect.FaceLandmarks
	err error
}

func (f *fakeFaces) DetectLandmarks(roi gocv.Mat) (*detect.FaceLandmarks, error) {
	return f.lm, f.err
}

func (f *fakeFaces) Close() error { return nil }

// uprightSkeleton has a vertical torso: shoulders above hips.
func uprightSkeleton() *detect.Skeleton {
	var sk detect.Skeleton
	set := func(k detect.Keypoint, x, y float64) {
		sk.Points[k] = geometry.Point{X: x, Y: y}
		sk.Present[k] = true
	}
	set(detect.KeypointLeftShoulder, 0.4, 0.2)
	set(detect.KeypointRightShoulder, 0.6, 0.2)
	set(detect.KeypointLeftHip, 0.42, 0.6)
	set(detect.KeypointRightHip, 0.58, 0.6)
	return &sk
}

// lyingSkeleton has a horizontal torso: shoulders level with hips.
func lyingSkeleton() *detect.Skeleton {
	var sk detect.Skeleton
	set := func(k detect.Keypoint, x, y float64) {
		sk.Points[k] = geometry.Point{X: x, Y: y}
		sk.Present[k] = true
	}
	set(detect.KeypointLeftShoulder, 0.2, 0.45)
	set(detect.KeypointRightShoulder, 0.2, 0.55)
	set(detect.KeypointLeftHip, 0.8, 0.44)
	set(detect.KeypointRightHip, 0.8, 0.56)
	return &sk
}

// faceWithLids builds mesh landmarks whose eye contours have the given
// lid gap. Corner-to-corner width is 0.1 per eye, so in a 100px-wide
// ROI a gap of 0.04 gives an aspect ratio of 0.4 (open) and 0.002
// gives 0.02 (closed).
func faceWithLids(gap float64) *detect.FaceLandmarks {
	eye := func(cx, cy float64) [6]geometry.Point {
		half := gap / 2
		return [6]geometry.Point{
			{X: cx - 0.05, Y: cy},        // outer corner
			{X: cx - 0.02, Y: cy - half}, // upper lid
			{X: cx + 0.02, Y: cy - half}, // upper lid
			{X: cx + 0.05, Y: cy},        // inner corner
			{X: cx + 0.02, Y: cy + half}, // lower lid
			{X: cx - 0.02, Y: cy + half}, // lower lid
		}
	}

	lm := &detect.FaceLandmarks{
		LeftEye:  eye(0.35, 0.4),
		RightEye: eye(0.65, 0.4),
	}
	lm.Points = append(lm.Points, lm.LeftEye[:]...)
	lm.Points = append(lm.Points, lm.RightEye[:]...)
	// Chin point so the face box has height.
	lm.Points = append(lm.Points, geometry.Point{X: 0.5, Y: 0.7})
	return lm
}

func openFace() *detect.FaceLandmarks   { return faceWithLids(0.04) }
func closedFace() *detect.FaceLandmarks { return faceWithLids(0.002) }
