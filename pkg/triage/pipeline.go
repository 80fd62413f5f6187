// Package triage turns detected persons into per-frame triage findings.
// Three heuristics run per person and fuse into a status: a color-based
// bleeding detector, a pose-based collapse classifier, and an eye-closure
// classifier. The classifiers run independently, so one failing never
// silences the others.
package triage

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"triagecam/internal/log"
	"triagecam/pkg/detect"
	"triagecam/pkg/geometry"
)

// Pipeline processes frames into ordered triage detections.
type Pipeline struct {
	persons detect.PersonDetector
	pose    detect.PoseEstimator
	eyes    *EyeClassifier
	blood   *BleedingDetector
	cfg     Config
}

// NewPipeline wires the capabilities into a frame processor.
func NewPipeline(persons detect.PersonDetector, pose detect.PoseEstimator, eyes *EyeClassifier, blood *BleedingDetector, cfg Config) *Pipeline {
	return &Pipeline{
		persons: persons,
		pose:    pose,
		eyes:    eyes,
		blood:   blood,
		cfg:     cfg,
	}
}

// ProcessFrame runs detection and triage over one frame and returns the
// findings in a deterministic order: persons in detector order, each
// person's status record followed by its bleeding record if any.
//
// A person detector failure fails the whole frame. Failures of the
// per-person classifiers are contained: the affected signal falls back
// to its safe default and the remaining signals still contribute.
func (p *Pipeline) ProcessFrame(frame gocv.Mat) ([]Detection, error) {
	objects, err := p.persons.Detect(frame)
	if err != nil {
		return nil, fmt.Errorf("person detection: %w", err)
	}

	w, h := frame.Cols(), frame.Rows()
	var detections []Detection

	for _, obj := range objects {
		if !obj.IsPerson() {
			log.Debug("ignoring detection", "class", obj.ClassName)
			continue
		}

		box := geometry.ClampBox(obj.Box.X1, obj.Box.Y1, obj.Box.X2, obj.Box.Y2, w, h)
		aspect := box.Aspect()

		bleedBox, bleeding := p.safeBleeding(frame, box)

		unconscious := false
		var faceBox geometry.Box
		haveFace := false

		if !box.Empty() {
			roi := frame.Region(image.Rect(box.X1, box.Y1, box.X2, box.Y2))

			sk, err := p.pose.EstimatePose(roi)
			switch {
			case err != nil:
				// Signal skipped; the person is not marked on a model failure.
				log.Warn("pose estimation failed", "error", err)
			case sk == nil:
				// No recognizable skeleton is itself an unconscious signal.
				unconscious = true
			default:
				unconscious = Collapsed(sk, aspect, p.cfg)
			}

			if p.eyes.ClosedInROI(roi) {
				unconscious = true
			}

			if unconscious {
				if fb, ok := p.eyes.FaceBoxInROI(roi); ok {
					faceBox = fb.Translate(box.X1, box.Y1)
					haveFace = true
				}
			}

			roi.Close()
		}

		switch {
		case unconscious:
			recordBox := box
			if haveFace {
				recordBox = faceBox
			}
			detections = append(detections, Detection{Class: ClassPerson, Status: StatusUnconscious, Box: recordBox})
		case p.cfg.ShowPersonBox:
			detections = append(detections, Detection{Class: ClassPerson, Status: StatusPerson, Box: box})
		}

		// Bleeding is an independent additive finding: it follows its
		// person's record regardless of the status outcome.
		if bleeding {
			clamped := geometry.ClampBox(bleedBox.X1, bleedBox.Y1, bleedBox.X2, bleedBox.Y2, w, h)
			detections = append(detections, Detection{Class: ClassPerson, Status: StatusBleeding, Box: clamped})
		}
	}

	return detections, nil
}

// safeBleeding contains native-layer panics from the color pipeline so
// a malformed ROI cannot take down the frame.
func (p *Pipeline) safeBleeding(frame gocv.Mat, box geometry.Box) (bb geometry.Box, found bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn("bleeding detection panicked", "recover", r)
			bb, found = geometry.Box{}, false
		}
	}()
	return p.blood.Detect(frame, box)
}
