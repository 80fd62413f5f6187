package video

import (
	"fmt"
	"io"

	"gocv.io/x/gocv"
)

// cameraSource reads live frames from a local capture device.
type cameraSource struct {
	capture *gocv.VideoCapture
	label   string
	next    int
}

// OpenCamera returns a source reading from capture device index
// device. The stream reports no frame count and runs until the scan
// is cancelled or the device stops delivering.
func OpenCamera(device int) (Source, error) {
	capture, err := gocv.VideoCaptureDevice(device)
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", device, err)
	}
	return &cameraSource{capture: capture, label: CameraLabel(device)}, nil
}

// CameraLabel names a capture device for record sources and saved
// frame files.
func CameraLabel(device int) string {
	return fmt.Sprintf("cam%d", device)
}

func (s *cameraSource) Next(dst *gocv.Mat) (Meta, error) {
	if ok := s.capture.Read(dst); !ok || dst.Empty() {
		return Meta{}, io.EOF
	}

	id := s.next
	s.next++
	return Meta{Source: fmt.Sprintf("%s:%d", s.label, id), FrameID: id}, nil
}

func (s *cameraSource) IsVideo() bool    { return true }
func (s *cameraSource) TotalFrames() int { return 0 }
func (s *cameraSource) Close() error     { return s.capture.Close() }
