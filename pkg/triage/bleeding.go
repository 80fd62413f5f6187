package triage

import (
	"image"

	"gocv.io/x/gocv"

	"triagecam/pkg/geometry"
)

// Red hue wraps around the HSV cylinder, so blood is matched with two
// hue bands at moderate-to-high saturation and value.
var (
	redLow1  = gocv.NewScalar(0, 50, 50, 0)
	redHigh1 = gocv.NewScalar(10, 255, 255, 0)
	redLow2  = gocv.NewScalar(170, 50, 50, 0)
	redHigh2 = gocv.NewScalar(180, 255, 255, 0)
)

// BleedingDetector finds dominant red regions inside a person box.
type BleedingDetector struct {
	minAreaRatio float64
}

// NewBleedingDetector creates a detector with the configured area gate.
func NewBleedingDetector(cfg Config) *BleedingDetector {
	return &BleedingDetector{minAreaRatio: cfg.BleedingMinAreaRatio}
}

// Detect looks for a red region inside the (already clamped) person box
// and returns its bounding box in frame coordinates. The largest red
// blob must cover at least the configured fraction of the ROI.
func (b *BleedingDetector) Detect(frame gocv.Mat, box geometry.Box) (geometry.Box, bool) {
	if box.Empty() {
		return geometry.Box{}, false
	}

	roi := frame.Region(image.Rect(box.X1, box.Y1, box.X2, box.Y2))
	defer roi.Close()

	hsv := gocv.NewMat()
	defer hsv.Close()
	if err := gocv.CvtColor(roi, &hsv, gocv.ColorBGRToHSV); err != nil {
		return geometry.Box{}, false
	}

	mask1 := gocv.NewMat()
	defer mask1.Close()
	mask2 := gocv.NewMat()
	defer mask2.Close()
	if err := gocv.InRangeWithScalar(hsv, redLow1, redHigh1, &mask1); err != nil {
		return geometry.Box{}, false
	}
	if err := gocv.InRangeWithScalar(hsv, redLow2, redHigh2, &mask2); err != nil {
		return geometry.Box{}, false
	}

	mask := gocv.NewMat()
	defer mask.Close()
	if err := gocv.BitwiseOr(mask1, mask2, &mask); err != nil {
		return geometry.Box{}, false
	}

	// Open to drop speckle, then dilate to reconnect the blob.
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(3, 3))
	defer kernel.Close()
	if err := gocv.MorphologyEx(mask, &mask, gocv.MorphOpen, kernel); err != nil {
		return geometry.Box{}, false
	}
	if err := gocv.Dilate(mask, &mask, kernel); err != nil {
		return geometry.Box{}, false
	}

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()
	if contours.Size() == 0 {
		return geometry.Box{}, false
	}

	maxIdx := 0
	maxArea := 0.0
	for i := 0; i < contours.Size(); i++ {
		if area := gocv.ContourArea(contours.At(i)); area > maxArea {
			maxArea = area
			maxIdx = i
		}
	}

	roiArea := float64(roi.Rows() * roi.Cols())
	if maxArea/roiArea < b.minAreaRatio {
		return geometry.Box{}, false
	}

	rect := gocv.BoundingRect(contours.At(maxIdx))
	found := geometry.Box{X1: rect.Min.X, Y1: rect.Min.Y, X2: rect.Max.X, Y2: rect.Max.Y}
	return found.Translate(box.X1, box.Y1), true
}
