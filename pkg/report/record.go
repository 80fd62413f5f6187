// Package report persists scan output: newline-delimited JSON records
// and annotated frames, in the layout downstream consumers already
// parse.
package report

import (
	"time"

	"triagecam/pkg/triage"
)

// timeFormat is the local-time layout downstream consumers expect.
const timeFormat = "2006-01-02T15:04:05"

// Record is one frame's worth of findings. Field order is part of the
// output contract; frame_id appears first and only for video frames.
type Record struct {
	FrameID    *int               `json:"frame_id,omitempty"`
	Timestamp  string             `json:"timestamp"`
	Source     string             `json:"source"`
	Detections []triage.Detection `json:"detections"`
}

// NewImageRecord builds the single record for an image input.
func NewImageRecord(now time.Time, source string, dets []triage.Detection) Record {
	return Record{
		Timestamp:  now.Format(timeFormat),
		Source:     source,
		Detections: nonNil(dets),
	}
}

// NewVideoRecord builds the record for one video frame.
func NewVideoRecord(now time.Time, source string, frameID int, dets []triage.Detection) Record {
	id := frameID
	return Record{
		FrameID:    &id,
		Timestamp:  now.Format(timeFormat),
		Source:     source,
		Detections: nonNil(dets),
	}
}

// nonNil keeps empty detection lists as [] rather than null in JSON.
func nonNil(dets []triage.Detection) []triage.Detection {
	if dets == nil {
		return []triage.Detection{}
	}
	return dets
}
