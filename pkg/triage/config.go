package triage

// Config holds the fusion thresholds for the triage classifiers.
type Config struct {
	BleedingMinAreaRatio float64 // Min red-blob area as a fraction of the person ROI
	EyeClosedThresh      float64 // Mean eye aspect ratio below this reads as closed
	LyingAngleDeg        float64 // Torso axis within this many degrees of horizontal reads as lying
	LyingAspectThresh    float64 // Person box wider than tall beyond this reads as lying
	ShowPersonBox        bool    // Emit records for persons with no findings
}

// DefaultConfig returns the tuned production thresholds.
func DefaultConfig() Config {
	return Config{
		BleedingMinAreaRatio: 0.01,
		EyeClosedThresh:      0.25,
		LyingAngleDeg:        30.0,
		LyingAspectThresh:    1.02,
		ShowPersonBox:        true,
	}
}
