package main

import (
	"github.com/spf13/cobra"

	"triagecam/internal/log"
	"triagecam/pkg/web"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Scan with a live web monitor",
	Long: `Serve runs a scan while exposing its progress over HTTP: REST
endpoints for status, recent records, and the latest annotated frame,
plus websocket streams for live records and frames. After the scan
finishes the monitor keeps serving buffered results until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := cfg
		applyScanFlags(&c)
		if serveListen != "" {
			c.Listen = serveListen
		}

		monitor := web.NewServer(c.Listen)
		monitor.StartAsync()
		defer monitor.Shutdown()

		if err := runScan(cmd.Context(), c, monitor); err != nil {
			return err
		}

		log.Info("monitor serving results", "addr", c.Listen)
		<-cmd.Context().Done()
		return nil
	},
}

func init() {
	addScanFlags(serveCmd)
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Monitor listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
