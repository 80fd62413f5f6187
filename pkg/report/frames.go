package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gocv.io/x/gocv"
)

// FrameStore saves annotated frames under a directory, keeping the
// naming scheme the rest of the tooling looks for.
type FrameStore struct {
	dir   string
	every int
}

// NewFrameStore creates the save directory if needed. saveEveryN
// controls video frame sampling; values below 1 save every frame.
func NewFrameStore(dir string, saveEveryN int) (*FrameStore, error) {
	if saveEveryN < 1 {
		saveEveryN = 1
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create save dir: %w", err)
	}
	return &FrameStore{dir: dir, every: saveEveryN}, nil
}

// SaveImage writes an annotated image as processed_<stem>.jpg and
// returns the path written.
func (s *FrameStore) SaveImage(inputPath string, frame gocv.Mat) (string, error) {
	name := filepath.Join(s.dir, fmt.Sprintf("processed_%s.jpg", inputStem(inputPath)))
	if ok := gocv.IMWrite(name, frame); !ok {
		return "", fmt.Errorf("write %s", name)
	}
	return name, nil
}

// SaveFrame writes an annotated video frame as
// <stem>_frame_<id>.jpg for every Nth frame id. It returns the empty
// string for skipped frames.
func (s *FrameStore) SaveFrame(inputPath string, frameID int, frame gocv.Mat) (string, error) {
	if frameID%s.every != 0 {
		return "", nil
	}
	name := filepath.Join(s.dir, fmt.Sprintf("%s_frame_%06d.jpg", inputStem(inputPath), frameID))
	if ok := gocv.IMWrite(name, frame); !ok {
		return "", fmt.Errorf("write %s", name)
	}
	return name, nil
}

func inputStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
