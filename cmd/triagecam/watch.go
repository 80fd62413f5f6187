package main

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"triagecam/internal/log"
)

var watchURL string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream triage records from a running monitor",
	Long: `Watch connects to a serve instance's record stream and prints
each record to stdout as it arrives, one JSON object per line.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(cmd.Context(), watchURL)
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchURL, "url", "ws://localhost:8080/ws/records", "Monitor record stream URL")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(ctx context.Context, url string) error {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("connect %s: %w", url, err)
	}
	defer ws.Close()

	log.Info("watching", "url", url)

	// Closing the connection is what unblocks ReadMessage on Ctrl+C.
	go func() {
		<-ctx.Done()
		ws.Close()
	}()

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("stream closed: %w", err)
		}
		fmt.Println(string(data))
	}
}
