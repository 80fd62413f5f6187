// Package detect provides the vision capabilities the triage pipeline
// consumes: person detection, body pose estimation, and face landmarks.
// Concrete implementations run ONNX models through the gocv DNN module;
// the interfaces keep the fusion logic testable without model files.
package detect

import (
	"gocv.io/x/gocv"
)

// PersonDetector finds objects in a full frame.
type PersonDetector interface {
	// Detect returns all detections above the configured confidence
	// threshold, in model output order.
	Detect(frame gocv.Mat) ([]Object, error)

	// Close releases resources
	Close() error
}

// PoseEstimator estimates a single body skeleton inside a person ROI.
// A (nil, nil) return means the model ran and found no skeletal
// structure; callers treat that differently from an inference error.
type PoseEstimator interface {
	EstimatePose(roi gocv.Mat) (*Skeleton, error)
	Close() error
}

// FaceLandmarker locates a face and its mesh landmarks inside a person
// ROI. A (nil, nil) return means no face was found.
type FaceLandmarker interface {
	DetectLandmarks(roi gocv.Mat) (*FaceLandmarks, error)
	Close() error
}
