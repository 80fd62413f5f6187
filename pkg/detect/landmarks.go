package detect

import "triagecam/pkg/geometry"

// FaceMesh landmark indices for the six-point eye contours used by the
// eye aspect ratio: corner, two upper lid points, corner, two lower lid
// points.
var (
	leftEyeIndices  = [6]int{33, 160, 158, 133, 153, 144}
	rightEyeIndices = [6]int{263, 387, 385, 362, 380, 373}
)

// FaceLandmarks holds one face's mesh landmarks, normalized to the ROI
// they were detected in (0-1 on both axes).
type FaceLandmarks struct {
	Points   []geometry.Point    // full mesh
	LeftEye  [6]geometry.Point   // ordered eye contour
	RightEye [6]geometry.Point
}

// Bounds returns the tight pixel box around all landmarks in a w x h
// ROI, clamped to the ROI. ok is false when the box is degenerate
// (all landmarks on one row or column), which callers treat as no
// usable face box.
func (f *FaceLandmarks) Bounds(w, h int) (geometry.Box, bool) {
	if len(f.Points) == 0 {
		return geometry.Box{}, false
	}

	minX, minY := f.Points[0].X, f.Points[0].Y
	maxX, maxY := minX, minY
	for _, p := range f.Points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	box := geometry.ClampBox(
		int(minX*float64(w)), int(minY*float64(h)),
		int(maxX*float64(w)), int(maxY*float64(h)),
		w, h,
	)
	if box.Empty() {
		return geometry.Box{}, false
	}
	return box, true
}

// EyePixels scales a normalized eye contour into ROI pixel space so the
// aspect ratio is computed on undistorted distances.
func EyePixels(eye [6]geometry.Point, w, h int) [6]geometry.Point {
	var out [6]geometry.Point
	for i, p := range eye {
		out[i] = geometry.Point{X: p.X * float64(w), Y: p.Y * float64(h)}
	}
	return out
}
