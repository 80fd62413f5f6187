// Package web serves the live triage monitor: REST endpoints for the
// current run and websocket streams of records and annotated frames.
package web

import (
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"triagecam/internal/log"
	"triagecam/pkg/hub"
	"triagecam/pkg/report"
	"triagecam/pkg/triage"
)

// maxRecords bounds the in-memory record buffer served by /api/records.
const maxRecords = 500

// Status is the current run as seen by the monitor.
type Status struct {
	RunID       string `json:"run_id"`
	Input       string `json:"input"`
	StartedAt   string `json:"started_at"`
	Records     int    `json:"records"`
	Unconscious int    `json:"unconscious"`
	Bleeding    int    `json:"bleeding"`
	Watchers    int    `json:"watchers"`
}

// Server is the monitor server. The scan feeds it through SetRun,
// PublishRecord, and PublishFrame; everything else is read-side.
type Server struct {
	app    *fiber.App
	listen string

	mu      sync.RWMutex
	status  Status
	records []report.Record
	frame   []byte // latest annotated JPEG

	recordHub *hub.Hub
	frameHub  *hub.Hub
}

// NewServer builds the monitor on the given listen address.
func NewServer(listen string) *Server {
	s := &Server{
		listen:    listen,
		records:   make([]report.Record, 0, maxRecords),
		recordHub: hub.New("records"),
		frameHub:  hub.New("frames"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "triagecam monitor",
		DisableStartupMessage: true,
	})

	// CORS for local dashboards
	app.Use(cors.New())

	app.Get("/healthz", s.handleHealth)

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/records", s.handleRecords)
	api.Get("/frame", s.handleFrame)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/records", websocket.New(s.handleRecordsWS))
	app.Get("/ws/frames", websocket.New(s.handleFramesWS))

	s.app = app
	return s
}

// Start runs the hubs and serves until Shutdown.
func (s *Server) Start() error {
	go s.recordHub.Run()
	go s.frameHub.Run()

	log.Info("monitor listening", "addr", s.listen)
	return s.app.Listen(s.listen)
}

// StartAsync starts the server in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("monitor server failed", "error", err)
		}
	}()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// SetRun records the identity of the run being monitored.
func (s *Server) SetRun(runID, input string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.RunID = runID
	s.status.Input = input
	s.status.StartedAt = time.Now().Format("2006-01-02T15:04:05")
}

// PublishRecord buffers a record, updates the running tallies, and
// broadcasts it to record watchers.
func (s *Server) PublishRecord(rec report.Record) {
	s.mu.Lock()
	s.records = append(s.records, rec)
	if len(s.records) > maxRecords {
		s.records = s.records[1:]
	}
	s.status.Records++
	for _, d := range rec.Detections {
		switch d.Status {
		case triage.StatusUnconscious:
			s.status.Unconscious++
		case triage.StatusBleeding:
			s.status.Bleeding++
		}
	}
	s.mu.Unlock()

	s.recordHub.BroadcastJSON(rec)
}

// PublishFrame stores the latest annotated frame and broadcasts it to
// frame watchers.
func (s *Server) PublishFrame(jpeg []byte) {
	s.mu.Lock()
	s.frame = jpeg
	s.mu.Unlock()

	s.frameHub.BroadcastBinary(jpeg)
}
