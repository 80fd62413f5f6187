package triage

import (
	"gocv.io/x/gocv"

	"triagecam/internal/log"
	"triagecam/pkg/detect"
	"triagecam/pkg/geometry"
)

// EyeClassifier decides whether the eyes in a person ROI are closed,
// using the six-point eye aspect ratio over face mesh landmarks.
type EyeClassifier struct {
	faces  detect.FaceLandmarker
	thresh float64
}

// NewEyeClassifier creates a classifier over the given landmarker.
func NewEyeClassifier(faces detect.FaceLandmarker, cfg Config) *EyeClassifier {
	return &EyeClassifier{faces: faces, thresh: cfg.EyeClosedThresh}
}

// EyeAspectRatio computes the openness ratio of a six-point eye contour
// (corner, upper lid x2, corner, lower lid x2): the two lid gaps over
// twice the corner-to-corner width. The ratio is scale invariant; the
// epsilon keeps degenerate contours finite.
func EyeAspectRatio(eye [6]geometry.Point) float64 {
	a := geometry.Distance(eye[1], eye[5])
	b := geometry.Distance(eye[2], eye[4])
	c := geometry.Distance(eye[0], eye[3])
	return (a + b) / (2*c + 1e-6)
}

// ClosedInROI reports whether a face in the ROI has closed eyes. No
// face, an empty ROI, or a landmarker failure all read as not closed;
// absence of evidence never raises this signal.
func (e *EyeClassifier) ClosedInROI(roi gocv.Mat) bool {
	if roi.Empty() {
		return false
	}

	lm, err := e.faces.DetectLandmarks(roi)
	if err != nil {
		log.Warn("face landmarks failed", "error", err)
		return false
	}
	if lm == nil {
		return false
	}

	w, h := roi.Cols(), roi.Rows()
	left := EyeAspectRatio(detect.EyePixels(lm.LeftEye, w, h))
	right := EyeAspectRatio(detect.EyePixels(lm.RightEye, w, h))
	return (left+right)/2 < e.thresh
}

// FaceBoxInROI returns the tight box around the face landmarks in ROI
// coordinates. ok is false when there is no face, the landmarker
// failed, or the landmark extent is degenerate.
func (e *EyeClassifier) FaceBoxInROI(roi gocv.Mat) (geometry.Box, bool) {
	if roi.Empty() {
		return geometry.Box{}, false
	}

	lm, err := e.faces.DetectLandmarks(roi)
	if err != nil {
		log.Warn("face landmarks failed", "error", err)
		return geometry.Box{}, false
	}
	if lm == nil {
		return geometry.Box{}, false
	}

	return lm.Bounds(roi.Cols(), roi.Rows())
}
