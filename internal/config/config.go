// Package config loads the triagecam runtime configuration from a
// YAML file, falling back to defaults for anything unset.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"triagecam/internal/log"
	"triagecam/pkg/detect"
	"triagecam/pkg/overlay"
	"triagecam/pkg/triage"
)

// DefaultPath is where scans look for a config file when no flag is
// given.
const DefaultPath = "config.yaml"

// Config is the full runtime configuration.
type Config struct {
	InputPath        string `yaml:"input_path"`
	OutputJSONL      string `yaml:"output_jsonl"`
	SaveProcessed    bool   `yaml:"save_processed"`
	SaveDir          string `yaml:"save_dir"`
	SaveEveryNFrames int    `yaml:"save_every_n_frames"`

	Thickness int     `yaml:"thickness"`
	FontScale float64 `yaml:"font_scale"`

	YOLOWeights   string  `yaml:"yolo_weights"`
	PoseWeights   string  `yaml:"pose_weights"`
	FaceMeshModel string  `yaml:"face_mesh"`
	Conf          float64 `yaml:"conf"`
	IoU           float64 `yaml:"iou"`

	BleedingMinAreaRatio float64 `yaml:"bleeding_min_area_ratio"`
	EARThreshold         float64 `yaml:"ear_threshold"`
	LyingAngleDeg        float64 `yaml:"lying_angle_deg"`
	LyingAspectThresh    float64 `yaml:"lying_aspect_thresh"`
	ShowPersonBox        bool    `yaml:"show_person_box"`

	Listen   string `yaml:"listen"`
	LogLevel string `yaml:"log_level"`
}

// Default returns the production defaults.
func Default() Config {
	return Config{
		InputPath:        "patient.png",
		OutputJSONL:      "output.jsonl",
		SaveProcessed:    true,
		SaveDir:          "yolo_outputs",
		SaveEveryNFrames: 1,

		Thickness: 2,
		FontScale: 0.9,

		YOLOWeights:   "models/yolov8n.onnx",
		PoseWeights:   "models/yolov8n-pose.onnx",
		FaceMeshModel: "models/face_landmark.onnx",
		Conf:          0.15,
		IoU:           0.45,

		BleedingMinAreaRatio: 0.01,
		EARThreshold:         0.25,
		LyingAngleDeg:        30.0,
		LyingAspectThresh:    1.02,
		ShowPersonBox:        true,

		Listen:   ":8080",
		LogLevel: "info",
	}
}

// Load reads the file at path over the defaults, then applies any
// environment overrides. A missing file is normal and yields
// defaults. A malformed file logs a warning and yields defaults; a
// bad config should never stop a scan that the defaults can run.
func Load(path string) Config {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("config unreadable, using defaults", "path", path, "error", err)
		}
		applyEnv(&cfg)
		return cfg
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Warn("config malformed, using defaults", "path", path, "error", err)
		cfg = Default()
	}

	applyEnv(&cfg)
	return cfg
}

// Validate rejects configurations that cannot produce sane output.
func (c Config) Validate() error {
	if c.Conf <= 0 || c.Conf > 1 {
		return fmt.Errorf("conf must be in (0,1], got %v", c.Conf)
	}
	if c.IoU <= 0 || c.IoU > 1 {
		return fmt.Errorf("iou must be in (0,1], got %v", c.IoU)
	}
	if c.BleedingMinAreaRatio < 0 || c.BleedingMinAreaRatio > 1 {
		return fmt.Errorf("bleeding_min_area_ratio must be in [0,1], got %v", c.BleedingMinAreaRatio)
	}
	if c.EARThreshold <= 0 {
		return fmt.Errorf("ear_threshold must be positive, got %v", c.EARThreshold)
	}
	if c.LyingAngleDeg <= 0 || c.LyingAngleDeg >= 90 {
		return fmt.Errorf("lying_angle_deg must be in (0,90), got %v", c.LyingAngleDeg)
	}
	if c.LyingAspectThresh <= 0 {
		return fmt.Errorf("lying_aspect_thresh must be positive, got %v", c.LyingAspectThresh)
	}
	if c.SaveEveryNFrames < 1 {
		return fmt.Errorf("save_every_n_frames must be >= 1, got %d", c.SaveEveryNFrames)
	}
	if c.Thickness < 1 {
		return fmt.Errorf("thickness must be >= 1, got %d", c.Thickness)
	}
	return nil
}

// Triage projects the fusion thresholds.
func (c Config) Triage() triage.Config {
	return triage.Config{
		BleedingMinAreaRatio: c.BleedingMinAreaRatio,
		EyeClosedThresh:      c.EARThreshold,
		LyingAngleDeg:        c.LyingAngleDeg,
		LyingAspectThresh:    c.LyingAspectThresh,
		ShowPersonBox:        c.ShowPersonBox,
	}
}

// YOLO projects the person detector configuration.
func (c Config) YOLO() detect.YOLOConfig {
	yc := detect.DefaultYOLOConfig()
	yc.ModelPath = c.YOLOWeights
	yc.ConfidenceThresh = float32(c.Conf)
	yc.NMSThresh = float32(c.IoU)
	return yc
}

// Pose projects the pose estimator configuration.
func (c Config) Pose() detect.PoseConfig {
	pc := detect.DefaultPoseConfig()
	pc.ModelPath = c.PoseWeights
	return pc
}

// Mesh projects the face landmarker configuration.
func (c Config) Mesh() detect.FaceMeshConfig {
	mc := detect.DefaultFaceMeshConfig()
	mc.ModelPath = c.FaceMeshModel
	return mc
}

// Style projects the overlay rendering style.
func (c Config) Style() overlay.Style {
	return overlay.Style{Thickness: c.Thickness, FontScale: c.FontScale}
}
