package triage

import (
	"math"

	"triagecam/pkg/detect"
	"triagecam/pkg/geometry"
)

// Collapsed reports whether a skeleton reads as lying or collapsed.
// The torso axis runs from the shoulder midpoint to the hip midpoint;
// near-horizontal means lying. A person box much wider than tall is a
// second, independent lying cue. aspect is the width/height ratio of
// the clamped person box.
//
// A skeleton missing any torso keypoint yields false; the eye-closure
// check still runs independently.
func Collapsed(sk *detect.Skeleton, aspect float64, cfg Config) bool {
	ls, rs, lh, rh, ok := sk.Torso()
	if !ok {
		return false
	}

	shoulderMid := geometry.Midpoint(ls, rs)
	hipMid := geometry.Midpoint(lh, rh)
	angle := geometry.AngleBetween(shoulderMid, hipMid)

	if math.Abs(angle) < cfg.LyingAngleDeg {
		return true
	}
	return aspect > cfg.LyingAspectThresh
}
