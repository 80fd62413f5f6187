package detect

import (
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"

	"triagecam/pkg/geometry"
)

// PoseNet runs YOLOv8-pose over a person ROI. The ROI is assumed to
// contain at most one person, so only the best-scoring candidate is
// decoded into a skeleton.
type PoseNet struct {
	net       gocv.Net
	config    PoseConfig
	mu        sync.Mutex // Protects inference
	inputSize image.Point
}

// PoseConfig holds pose estimator configuration
type PoseConfig struct {
	ModelPath      string
	ScoreThresh    float32 // Minimum candidate score to accept a skeleton
	KeypointThresh float32 // Per-keypoint confidence gate
	InputWidth     int
	InputHeight    int
}

// DefaultPoseConfig returns production defaults for YOLOv8n-pose
func DefaultPoseConfig() PoseConfig {
	return PoseConfig{
		ModelPath:      "models/yolov8n-pose.onnx",
		ScoreThresh:    0.5,
		KeypointThresh: 0.5,
		InputWidth:     640,
		InputHeight:    640,
	}
}

// NewPoseNet creates a new pose estimator
func NewPoseNet(cfg PoseConfig) (*PoseNet, error) {
	if _, err := os.Stat(cfg.ModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", cfg.ModelPath)
	}

	net := gocv.ReadNetFromONNX(cfg.ModelPath)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load pose model from %s", cfg.ModelPath)
	}

	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	return &PoseNet{
		net:       net,
		config:    cfg,
		inputSize: image.Pt(cfg.InputWidth, cfg.InputHeight),
	}, nil
}

// EstimatePose returns the skeleton of the person in the ROI, or
// (nil, nil) when no candidate clears the score threshold.
func (p *PoseNet) EstimatePose(roi gocv.Mat) (*Skeleton, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if roi.Empty() {
		return nil, fmt.Errorf("empty roi")
	}

	blob := gocv.BlobFromImage(roi, 1.0/255.0, p.inputSize, gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	p.net.SetInput(blob, "")

	output := p.net.Forward("")
	defer output.Close()

	// YOLOv8-pose output: [1, 56, 8400]
	// 56 = 4 bbox + 1 score + 17 keypoints x (x, y, conf)
	rows := output.Cols() // 8400 candidates
	cols := output.Rows() // 56

	data, err := output.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("read pose output: %w", err)
	}
	if cols < 4+1+3*NumKeypoints {
		return nil, fmt.Errorf("unexpected pose output shape %dx%d", cols, rows)
	}

	// Best candidate wins; the ROI holds one person.
	best := -1
	bestScore := float32(0)
	for i := 0; i < rows; i++ {
		score := data[4*rows+i]
		if score > bestScore {
			bestScore = score
			best = i
		}
	}

	if best < 0 || bestScore < p.config.ScoreThresh {
		return nil, nil
	}

	var sk Skeleton
	for k := 0; k < NumKeypoints; k++ {
		x := data[(5+3*k)*rows+best]
		y := data[(5+3*k+1)*rows+best]
		conf := data[(5+3*k+2)*rows+best]

		// Keypoint coordinates come out in blob space; dividing by the
		// blob size normalizes them to the ROI.
		sk.Points[k] = geometry.Point{
			X: float64(x) / float64(p.config.InputWidth),
			Y: float64(y) / float64(p.config.InputHeight),
		}
		sk.Present[k] = conf >= p.config.KeypointThresh
	}

	return &sk, nil
}

// Close releases the estimator resources
func (p *PoseNet) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.net.Close()
	return nil
}
