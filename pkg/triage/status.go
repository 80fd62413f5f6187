package triage

import "triagecam/pkg/geometry"

// ClassPerson is the only detection class the pipeline emits. Bleeding
// findings keep the person class; the status field carries the signal.
const ClassPerson = "person"

// Status is the triage assessment attached to a detection.
type Status string

const (
	StatusPerson      Status = "person"
	StatusUnconscious Status = "unconscious"
	StatusBleeding    Status = "bleeding"
)

// Detection is a single triage finding in a frame.
type Detection struct {
	Class  string       `json:"class"`
	Status Status       `json:"status"`
	Box    geometry.Box `json:"bbox"`
}
