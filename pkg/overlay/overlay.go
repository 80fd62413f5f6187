// Package overlay renders triage findings onto frames. Drawing is
// driven entirely by the detection list so the classifiers never need
// to know how results are presented.
package overlay

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"triagecam/pkg/triage"
)

// Person and unconscious boxes draw blue, bleeding draws red.
var (
	personColor   = color.RGBA{R: 0, G: 0, B: 255, A: 0}
	bleedingColor = color.RGBA{R: 255, G: 0, B: 0, A: 0}
)

// Style controls line weight and label size.
type Style struct {
	Thickness int
	FontScale float64
}

// DefaultStyle returns the production rendering style.
func DefaultStyle() Style {
	return Style{Thickness: 2, FontScale: 0.9}
}

// Draw renders each detection onto the frame in record order, box plus
// status label. The frame is modified in place.
func Draw(frame *gocv.Mat, dets []triage.Detection, style Style) {
	for _, d := range dets {
		c := personColor
		if d.Status == triage.StatusBleeding {
			c = bleedingColor
		}

		rect := image.Rect(d.Box.X1, d.Box.Y1, d.Box.X2, d.Box.Y2)
		gocv.Rectangle(frame, rect, c, style.Thickness)

		labelY := d.Box.Y1 - 10
		if labelY < 0 {
			labelY = 0
		}
		gocv.PutText(frame, string(d.Status), image.Pt(d.Box.X1, labelY),
			gocv.FontHersheySimplex, style.FontScale, c, style.Thickness)
	}
}
