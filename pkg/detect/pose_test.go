package detect

import "testing"

// TestPoseNewInvalidPath tests error handling for missing model
func TestPoseNewInvalidPath(t *testing.T) {
	cfg := DefaultPoseConfig()
	cfg.ModelPath = "/nonexistent/path/pose.onnx"

	_, err := NewPoseNet(cfg)
	if err == nil {
		t.Error("Expected error for invalid model path")
	}
}

// TestPoseEstimate_SolidROI tests pose estimation on a solid color ROI
func TestPoseEstimate_SolidROI(t *testing.T) {
	modelPath := findModel("yolov8n-pose.onnx")
	if modelPath == "" {
		t.Skip("pose model not found, skipping test")
	}

	cfg := DefaultPoseConfig()
	cfg.ModelPath = modelPath

	pose, err := NewPoseNet(cfg)
	if err != nil {
		t.Fatalf("NewPoseNet failed: %v", err)
	}
	defer pose.Close()

	roi := solidMat(200, 400, 90, 90, 90)
	defer roi.Close()

	sk, err := pose.EstimatePose(roi)
	if err != nil {
		t.Fatalf("EstimatePose failed: %v", err)
	}
	if sk != nil {
		t.Error("Expected no skeleton in solid color ROI")
	}
}
