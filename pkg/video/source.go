// Package video provides the frame sources the scan pipeline reads:
// single images and video files, both through OpenCV.
package video

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gocv.io/x/gocv"
)

// Meta describes the frame a source just produced.
type Meta struct {
	Source  string // record source label
	FrameID int    // zero-based frame index within the source
}

// Source yields frames until io.EOF.
type Source interface {
	// Next reads the next frame into dst and returns its metadata.
	// io.EOF signals a clean end of input.
	Next(dst *gocv.Mat) (Meta, error)

	// IsVideo reports whether records should carry frame IDs.
	IsVideo() bool

	// TotalFrames returns the container's frame count, or 0 when
	// unknown. Used for progress display only.
	TotalFrames() int

	Close() error
}

var (
	imageExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}
	videoExts = map[string]bool{".mp4": true, ".avi": true, ".mov": true, ".mkv": true}
)

// Open returns a source for the given path, dispatching on extension.
func Open(path string) (Source, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case imageExts[ext]:
		return newImageSource(path)
	case videoExts[ext]:
		return newVideoSource(path)
	default:
		return nil, fmt.Errorf("unsupported input %q: want an image (.png/.jpg/.jpeg) or a video (.mp4/.avi/.mov/.mkv)", path)
	}
}

// stem returns the base name without its extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

type imageSource struct {
	path string
	done bool
}

func newImageSource(path string) (*imageSource, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	return &imageSource{path: path}, nil
}

func (s *imageSource) Next(dst *gocv.Mat) (Meta, error) {
	if s.done {
		return Meta{}, io.EOF
	}
	s.done = true

	img := gocv.IMRead(s.path, gocv.IMReadColor)
	if img.Empty() {
		return Meta{}, fmt.Errorf("could not read image %s", s.path)
	}
	defer img.Close()
	img.CopyTo(dst)

	return Meta{Source: filepath.Base(s.path)}, nil
}

func (s *imageSource) IsVideo() bool    { return false }
func (s *imageSource) TotalFrames() int { return 1 }
func (s *imageSource) Close() error     { return nil }

type videoSource struct {
	capture *gocv.VideoCapture
	stem    string
	next    int
	total   int
}

func newVideoSource(path string) (*videoSource, error) {
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("open video %s: %w", path, err)
	}

	total := int(capture.Get(gocv.VideoCaptureFrameCount))
	if total < 0 {
		total = 0
	}

	return &videoSource{capture: capture, stem: stem(path), total: total}, nil
}

func (s *videoSource) Next(dst *gocv.Mat) (Meta, error) {
	if ok := s.capture.Read(dst); !ok || dst.Empty() {
		return Meta{}, io.EOF
	}

	id := s.next
	s.next++
	return Meta{Source: fmt.Sprintf("%s:%d", s.stem, id), FrameID: id}, nil
}

func (s *videoSource) IsVideo() bool    { return true }
func (s *videoSource) TotalFrames() int { return s.total }
func (s *videoSource) Close() error     { return s.capture.Close() }
