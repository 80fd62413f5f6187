package geometry

import (
	"encoding/json"
	"math"
	"testing"
)

const floatTolerance = 1e-9

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) < floatTolerance
}

func TestClampBox(t *testing.T) {
	tests := []struct {
		name           string
		x1, y1, x2, y2 int
		w, h           int
		want           Box
	}{
		{"inside", 10, 20, 30, 40, 100, 100, Box{10, 20, 30, 40}},
		{"negative corners", -5, -8, 30, 40, 100, 100, Box{0, 0, 30, 40}},
		{"overflow corners", 10, 20, 150, 220, 100, 100, Box{10, 20, 99, 99}},
		{"fully outside", -20, -20, -5, -5, 100, 100, Box{0, 0, 0, 0}},
		{"inverted x", 30, 20, 10, 40, 100, 100, Box{10, 20, 30, 40}},
		{"inverted y", 10, 40, 30, 20, 100, 100, Box{10, 20, 30, 40}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampBox(tt.x1, tt.y1, tt.x2, tt.y2, tt.w, tt.h)
			if got != tt.want {
				t.Errorf("ClampBox: got %v, want %v", got, tt.want)
			}
			if got.X1 < 0 || got.Y1 < 0 || got.X2 > tt.w-1 || got.Y2 > tt.h-1 {
				t.Errorf("ClampBox out of frame: %v", got)
			}
			if got.X2 < got.X1 || got.Y2 < got.Y1 {
				t.Errorf("ClampBox not ordered: %v", got)
			}
		})
	}
}

func TestAngleBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want float64
	}{
		{"rightward", Point{0, 0}, Point{10, 0}, 0},
		{"downward", Point{0, 0}, Point{0, 10}, 90},
		{"upward", Point{0, 0}, Point{0, -10}, -90},
		{"leftward", Point{0, 0}, Point{-10, 0}, 180},
		{"diagonal", Point{0, 0}, Point{10, 10}, 45},
		{"shallow", Point{2, 2}, Point{12, 3}, math.Atan2(1, 10) * 180 / math.Pi},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AngleBetween(tt.a, tt.b)
			if !floatEquals(got, tt.want) {
				t.Errorf("AngleBetween: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDistanceAndMidpoint(t *testing.T) {
	a := Point{0, 0}
	b := Point{3, 4}

	if d := Distance(a, b); !floatEquals(d, 5) {
		t.Errorf("Distance: got %v, want 5", d)
	}

	mid := Midpoint(a, b)
	if !floatEquals(mid.X, 1.5) || !floatEquals(mid.Y, 2) {
		t.Errorf("Midpoint: got %v, want {1.5 2}", mid)
	}
}

func TestBoxAspect(t *testing.T) {
	wide := Box{0, 0, 100, 50}
	if a := wide.Aspect(); a <= 1 {
		t.Errorf("wide aspect: got %v, want > 1", a)
	}

	tall := Box{0, 0, 50, 100}
	if a := tall.Aspect(); a >= 1 {
		t.Errorf("tall aspect: got %v, want < 1", a)
	}

	// Degenerate box must stay finite, not divide by zero.
	point := Box{10, 10, 10, 10}
	if a := point.Aspect(); math.IsNaN(a) || math.IsInf(a, 0) {
		t.Errorf("degenerate aspect not finite: got %v", a)
	}
}

func TestBoxEmpty(t *testing.T) {
	if !(Box{10, 10, 10, 40}).Empty() {
		t.Error("zero-width box should be empty")
	}
	if !(Box{10, 10, 40, 10}).Empty() {
		t.Error("zero-height box should be empty")
	}
	if (Box{10, 10, 11, 11}).Empty() {
		t.Error("1x1 box should not be empty")
	}
}

func TestBoxTranslate(t *testing.T) {
	b := Box{1, 2, 3, 4}.Translate(10, 20)
	want := Box{11, 22, 13, 24}
	if b != want {
		t.Errorf("Translate: got %v, want %v", b, want)
	}
}

func TestBoxJSON(t *testing.T) {
	b := Box{4, 8, 15, 16}
	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != "[4,8,15,16]" {
		t.Errorf("Marshal: got %s, want [4,8,15,16]", data)
	}

	var back Box
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back != b {
		t.Errorf("round trip: got %v, want %v", back, b)
	}

	if err := json.Unmarshal([]byte(`{"x":1}`), &back); err == nil {
		t.Error("expected error for non-array box")
	}
}
