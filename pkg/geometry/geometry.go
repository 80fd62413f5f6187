// Package geometry provides the 2D primitives shared by the triage
// pipeline: pixel-space boxes, landmark points, and the angle/distance
// helpers the posture classifier is built on.
package geometry

import (
	"encoding/json"
	"fmt"
	"math"
)

// aspectEps keeps aspect ratios finite for degenerate boxes.
const aspectEps = 1e-6

// Point is a 2D point. Coordinates may be pixels or normalized depending
// on context; callers convert at the boundary.
type Point struct {
	X float64
	Y float64
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// AngleBetween returns the angle of the vector a->b in degrees,
// in (-180, 180]. 0 is rightward, 90 is downward in image coordinates.
func AngleBetween(a, b Point) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X) * 180 / math.Pi
}

// Box is an axis-aligned pixel box. X1,Y1 is the top-left corner and
// X2,Y2 the bottom-right; a well-formed box has X1 <= X2 and Y1 <= Y2.
// Its JSON form is the four-element array [x1, y1, x2, y2].
type Box struct {
	X1, Y1, X2, Y2 int
}

// ClampBox clamps the corners to a w x h frame and orders them so the
// result is always well-formed, even for inverted input.
func ClampBox(x1, y1, x2, y2, w, h int) Box {
	x1 = clamp(x1, 0, w-1)
	x2 = clamp(x2, 0, w-1)
	y1 = clamp(y1, 0, h-1)
	y2 = clamp(y2, 0, h-1)
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	return Box{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Width returns x2-x1. This is the ROI width in pixels when the box is
// used as a half-open slice bound.
func (b Box) Width() int { return b.X2 - b.X1 }

// Height returns y2-y1.
func (b Box) Height() int { return b.Y2 - b.Y1 }

// Empty reports whether the box encloses no pixels.
func (b Box) Empty() bool { return b.Width() <= 0 || b.Height() <= 0 }

// Aspect returns width/height with a small epsilon on both terms so
// degenerate boxes stay finite.
func (b Box) Aspect() float64 {
	return (float64(b.Width()) + aspectEps) / (float64(b.Height()) + aspectEps)
}

// Translate shifts the box by dx,dy. Used to lift ROI-relative boxes
// back into frame coordinates.
func (b Box) Translate(dx, dy int) Box {
	return Box{X1: b.X1 + dx, Y1: b.Y1 + dy, X2: b.X2 + dx, Y2: b.Y2 + dy}
}

// MarshalJSON encodes the box as [x1, y1, x2, y2].
func (b Box) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]int{b.X1, b.Y1, b.X2, b.Y2})
}

// UnmarshalJSON decodes the [x1, y1, x2, y2] form.
func (b *Box) UnmarshalJSON(data []byte) error {
	var arr [4]int
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("box: %w", err)
	}
	b.X1, b.Y1, b.X2, b.Y2 = arr[0], arr[1], arr[2], arr[3]
	return nil
}
