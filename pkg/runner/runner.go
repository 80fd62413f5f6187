// Package runner drives a complete triage pass: it couples a frame
// source to the detection pipeline and fans results out to the record
// log, the frame store, and any live listeners.
package runner

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"gocv.io/x/gocv"

	"triagecam/internal/log"
	"triagecam/pkg/overlay"
	"triagecam/pkg/report"
	"triagecam/pkg/triage"
	"triagecam/pkg/video"
)

// FrameProcessor turns one frame into triage detections.
type FrameProcessor interface {
	ProcessFrame(frame gocv.Mat) ([]triage.Detection, error)
}

// Options configure a run.
type Options struct {
	// RunID labels the run in logs and on the monitor. Empty
	// generates one.
	RunID string

	// InputPath names the input; saved frames derive their file
	// names from it.
	InputPath string

	// Style controls how detections are drawn onto frames.
	Style overlay.Style

	// Progress renders a progress bar to stderr for video inputs.
	Progress bool

	// OnRecord, when set, observes every record after it is written.
	OnRecord func(rec report.Record)

	// OnFrame, when set, receives every annotated frame as JPEG.
	OnFrame func(frameID int, jpeg []byte)
}

// Result summarizes a completed run.
type Result struct {
	RunID   string
	Frames  int
	Records int
	Skipped int
}

// Runner executes triage passes over frame sources.
type Runner struct {
	proc   FrameProcessor
	writer *report.Writer
	frames *report.FrameStore
	opts   Options
}

// New assembles a runner. frames may be nil to disable frame saving.
func New(proc FrameProcessor, writer *report.Writer, frames *report.FrameStore, opts Options) *Runner {
	return &Runner{proc: proc, writer: writer, frames: frames, opts: opts}
}

// Run processes src to completion or until ctx is cancelled.
//
// A processing failure on a video frame skips that frame and keeps
// going; on a single image it fails the run. Record log write
// failures are always fatal. Cancellation takes effect between
// frames.
func (r *Runner) Run(ctx context.Context, src video.Source) (Result, error) {
	runID := r.opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	res := Result{RunID: runID}
	log.Info("run started", "run_id", res.RunID, "input", r.opts.InputPath, "video", src.IsVideo())

	var bar *progressbar.ProgressBar
	if r.opts.Progress && src.IsVideo() {
		total := src.TotalFrames()
		if total <= 0 {
			total = -1 // spinner when the container does not report a count
		}
		bar = progressbar.NewOptions(total,
			progressbar.OptionSetDescription("scanning"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
		)
	}

	frame := gocv.NewMat()
	defer frame.Close()

	for {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		meta, err := src.Next(&frame)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, err
		}
		res.Frames++
		if bar != nil {
			bar.Add(1)
		}

		dets, err := r.proc.ProcessFrame(frame)
		if err != nil {
			if src.IsVideo() {
				log.Warn("frame skipped", "frame_id", meta.FrameID, "error", err)
				res.Skipped++
				continue
			}
			return res, err
		}

		overlay.Draw(&frame, dets, r.opts.Style)

		rec := newRecord(src.IsVideo(), meta, dets)
		if err := r.writer.Write(rec); err != nil {
			return res, err
		}
		res.Records++

		if r.frames != nil {
			r.save(src.IsVideo(), meta, frame)
		}
		if r.opts.OnRecord != nil {
			r.opts.OnRecord(rec)
		}
		if r.opts.OnFrame != nil {
			if jpeg, err := encodeJPEG(frame); err != nil {
				log.Warn("frame encode failed", "frame_id", meta.FrameID, "error", err)
			} else {
				r.opts.OnFrame(meta.FrameID, jpeg)
			}
		}
	}

	if bar != nil {
		bar.Finish()
	}
	log.Info("run finished", "run_id", res.RunID,
		"frames", res.Frames, "records", res.Records, "skipped", res.Skipped)
	return res, nil
}

// save writes the annotated frame. Failures log and continue; the
// record log is the output that matters.
func (r *Runner) save(isVideo bool, meta video.Meta, frame gocv.Mat) {
	var err error
	if isVideo {
		_, err = r.frames.SaveFrame(r.opts.InputPath, meta.FrameID, frame)
	} else {
		_, err = r.frames.SaveImage(r.opts.InputPath, frame)
	}
	if err != nil {
		log.Warn("frame save failed", "frame_id", meta.FrameID, "error", err)
	}
}

func newRecord(isVideo bool, meta video.Meta, dets []triage.Detection) report.Record {
	now := time.Now()
	if isVideo {
		return report.NewVideoRecord(now, meta.Source, meta.FrameID, dets)
	}
	return report.NewImageRecord(now, meta.Source, dets)
}

// encodeJPEG copies the encoded bytes out so listeners can hold them
// after the native buffer is released.
func encodeJPEG(frame gocv.Mat) ([]byte, error) {
	buf, err := gocv.IMEncode(".jpg", frame)
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())
	return data, nil
}
