// Command triagecam scans images and video for persons needing
// emergency attention: collapsed posture, closed eyes, visible
// bleeding. Findings stream to a JSONL record log, annotated frames,
// and an optional live web monitor.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"triagecam/internal/config"
	"triagecam/internal/log"
)

// Version is the application version.
const Version = "0.1.0"

var (
	cfgPath string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "triagecam",
	Short:   "Multi-signal emergency triage detection for images and video",
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load(cfgPath)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		log.Init(cfg.LogLevel)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", config.DefaultPath, "Path to YAML config")
}

func main() {
	// Ctrl+C or SIGTERM cancels the command context; scans stop
	// between frames and the record log stays parseable.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
