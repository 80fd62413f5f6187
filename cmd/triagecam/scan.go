package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"triagecam/internal/config"
	"triagecam/internal/log"
	"triagecam/pkg/detect"
	"triagecam/pkg/report"
	"triagecam/pkg/runner"
	"triagecam/pkg/triage"
	"triagecam/pkg/video"
	"triagecam/pkg/web"
)

var (
	scanInput  string
	scanOutput string
	scanNoSave bool
	scanCamera int
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan an image, video, or live camera and write triage records",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := cfg
		applyScanFlags(&c)
		return runScan(cmd.Context(), c, nil)
	},
}

func init() {
	addScanFlags(scanCmd)
	rootCmd.AddCommand(scanCmd)
}

func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&scanInput, "input", "i", "", "Input image or video (overrides config)")
	cmd.Flags().StringVarP(&scanOutput, "output", "o", "", "Record log path (overrides config)")
	cmd.Flags().BoolVar(&scanNoSave, "no-save", false, "Skip writing annotated frames")
	cmd.Flags().IntVar(&scanCamera, "camera", -1, "Capture device index; scans live instead of a file")
}

func applyScanFlags(c *config.Config) {
	if scanInput != "" {
		c.InputPath = scanInput
	}
	if scanOutput != "" {
		c.OutputJSONL = scanOutput
	}
	if scanNoSave {
		c.SaveProcessed = false
	}
}

// buildPipeline assembles the detector stack from config. The returned
// cleanup releases all three models.
func buildPipeline(c config.Config) (*triage.Pipeline, func(), error) {
	yolo, err := detect.NewYOLO(c.YOLO())
	if err != nil {
		return nil, nil, fmt.Errorf("load person detector: %w", err)
	}

	pose, err := detect.NewPoseNet(c.Pose())
	if err != nil {
		yolo.Close()
		return nil, nil, fmt.Errorf("load pose estimator: %w", err)
	}

	mesh, err := detect.NewFaceMesh(c.Mesh())
	if err != nil {
		yolo.Close()
		pose.Close()
		return nil, nil, fmt.Errorf("load face landmarker: %w", err)
	}

	tc := c.Triage()
	pipe := triage.NewPipeline(yolo, pose,
		triage.NewEyeClassifier(mesh, tc),
		triage.NewBleedingDetector(tc), tc)

	cleanup := func() {
		yolo.Close()
		pose.Close()
		mesh.Close()
	}
	return pipe, cleanup, nil
}

// openSource dispatches between file inputs and live capture. The
// returned label feeds record sources and saved-frame naming.
func openSource(c config.Config) (video.Source, string, error) {
	if scanCamera >= 0 {
		src, err := video.OpenCamera(scanCamera)
		return src, video.CameraLabel(scanCamera), err
	}
	src, err := video.Open(c.InputPath)
	return src, c.InputPath, err
}

// runScan executes one full pass over the configured input. When a
// monitor is given, records and annotated frames stream to it as they
// are produced.
func runScan(ctx context.Context, c config.Config, monitor *web.Server) error {
	pipe, cleanup, err := buildPipeline(c)
	if err != nil {
		return err
	}
	defer cleanup()

	src, input, err := openSource(c)
	if err != nil {
		return err
	}
	defer src.Close()

	writer, err := report.NewWriter(c.OutputJSONL)
	if err != nil {
		return err
	}
	defer writer.Close()

	var frames *report.FrameStore
	if c.SaveProcessed {
		frames, err = report.NewFrameStore(c.SaveDir, c.SaveEveryNFrames)
		if err != nil {
			return err
		}
	}

	runID := uuid.NewString()
	if monitor != nil {
		monitor.SetRun(runID, input)
	}

	// Every record echoes to stdout so scans pipe cleanly into jq
	// and friends; logs stay on stderr.
	stdout := json.NewEncoder(os.Stdout)

	opts := runner.Options{
		RunID:     runID,
		InputPath: input,
		Style:     c.Style(),
		Progress:  true,
		OnRecord: func(rec report.Record) {
			stdout.Encode(rec)
			if monitor != nil {
				monitor.PublishRecord(rec)
			}
		},
	}
	if monitor != nil {
		opts.OnFrame = func(frameID int, jpeg []byte) {
			monitor.PublishFrame(jpeg)
		}
	}

	res, err := runner.New(pipe, writer, frames, opts).Run(ctx, src)
	if err != nil {
		// Ctrl+C ends live and long scans; what was written stands.
		if errors.Is(err, context.Canceled) {
			log.Info("scan interrupted",
				"frames", res.Frames, "records", res.Records, "output", c.OutputJSONL)
			return nil
		}
		return err
	}

	log.Info("scan complete",
		"frames", res.Frames, "records", res.Records, "skipped", res.Skipped,
		"output", c.OutputJSONL)
	return nil
}
