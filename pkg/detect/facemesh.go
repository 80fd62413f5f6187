package detect

import (
	"fmt"
	"image"
	"math"
	"os"
	"sync"

	"gocv.io/x/gocv"

	"triagecam/pkg/geometry"
)

const meshPoints = 468

// FaceMesh runs the MediaPipe face landmark model over a person ROI
// and returns the full 468-point mesh when a face is present.
type FaceMesh struct {
	net       gocv.Net
	config    FaceMeshConfig
	mu        sync.Mutex // Protects inference
	inputSize image.Point
}

// FaceMeshConfig holds face landmarker configuration
type FaceMeshConfig struct {
	ModelPath      string
	ScoreThresh    float32 // Minimum face presence score
	InputSize      int     // Model input is square
	LandmarkOutput string  // Landmark tensor name in the ONNX graph
	ScoreOutput    string  // Presence score tensor name
}

// DefaultFaceMeshConfig returns defaults for the ONNX export of
// MediaPipe face_landmark.
func DefaultFaceMeshConfig() FaceMeshConfig {
	return FaceMeshConfig{
		ModelPath:      "models/face_landmark.onnx",
		ScoreThresh:    0.5,
		InputSize:      192,
		LandmarkOutput: "conv2d_21",
		ScoreOutput:    "conv2d_31",
	}
}

// NewFaceMesh creates a new face landmarker
func NewFaceMesh(cfg FaceMeshConfig) (*FaceMesh, error) {
	if _, err := os.Stat(cfg.ModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", cfg.ModelPath)
	}

	net := gocv.ReadNetFromONNX(cfg.ModelPath)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load face mesh model from %s", cfg.ModelPath)
	}

	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	return &FaceMesh{
		net:       net,
		config:    cfg,
		inputSize: image.Pt(cfg.InputSize, cfg.InputSize),
	}, nil
}

// DetectLandmarks returns the face mesh for the ROI, or (nil, nil)
// when the presence score stays under the threshold.
func (f *FaceMesh) DetectLandmarks(roi gocv.Mat) (*FaceLandmarks, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if roi.Empty() {
		return nil, fmt.Errorf("empty roi")
	}

	blob := gocv.BlobFromImage(roi, 1.0/255.0, f.inputSize, gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	f.net.SetInput(blob, "")

	outs := f.net.ForwardLayers([]string{f.config.LandmarkOutput, f.config.ScoreOutput})
	if len(outs) != 2 {
		for i := range outs {
			outs[i].Close()
		}
		return nil, fmt.Errorf("unexpected face mesh outputs: %d", len(outs))
	}
	landmarks, scoreOut := outs[0], outs[1]
	defer landmarks.Close()
	defer scoreOut.Close()

	scoreData, err := scoreOut.DataPtrFloat32()
	if err != nil || len(scoreData) < 1 {
		return nil, fmt.Errorf("read face score: %w", err)
	}
	// The score tensor holds a logit.
	score := sigmoid(scoreData[0])
	if score < f.config.ScoreThresh {
		return nil, nil
	}

	data, err := landmarks.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("read face landmarks: %w", err)
	}
	if len(data) < meshPoints*3 {
		return nil, fmt.Errorf("unexpected landmark tensor size %d", len(data))
	}

	// Landmarks are x,y,z triples in input pixel space.
	out := &FaceLandmarks{Points: make([]geometry.Point, meshPoints)}
	size := float64(f.config.InputSize)
	for i := 0; i < meshPoints; i++ {
		out.Points[i] = geometry.Point{
			X: float64(data[3*i]) / size,
			Y: float64(data[3*i+1]) / size,
		}
	}
	for j, idx := range leftEyeIndices {
		out.LeftEye[j] = out.Points[idx]
	}
	for j, idx := range rightEyeIndices {
		out.RightEye[j] = out.Points[idx]
	}

	return out, nil
}

// Close releases the landmarker resources
func (f *FaceMesh) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.net.Close()
	return nil
}

func sigmoid(v float32) float32 {
	return float32(1 / (1 + math.Exp(-float64(v))))
}
