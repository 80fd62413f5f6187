package web

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"triagecam/pkg/hub"
	"triagecam/pkg/report"
)

// handleHealth is the liveness probe.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleStatus returns the current run status and tallies.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	s.mu.RLock()
	status := s.status
	s.mu.RUnlock()

	status.Watchers = s.recordHub.ClientCount() + s.frameHub.ClientCount()
	return c.JSON(status)
}

// handleRecords returns the last n buffered records, oldest first.
func (s *Server) handleRecords(c *fiber.Ctx) error {
	n := c.QueryInt("n", 50)
	if n < 1 {
		n = 1
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if n > len(s.records) {
		n = len(s.records)
	}
	tail := s.records[len(s.records)-n:]

	// Copy so the response never aliases the live buffer.
	out := make([]report.Record, n)
	copy(out, tail)
	return c.JSON(out)
}

// handleFrame returns the latest annotated frame as JPEG.
func (s *Server) handleFrame(c *fiber.Ctx) error {
	s.mu.RLock()
	frame := s.frame
	s.mu.RUnlock()

	if len(frame) == 0 {
		return fiber.NewError(fiber.StatusNotFound, "no frame yet")
	}

	c.Set(fiber.HeaderContentType, "image/jpeg")
	return c.Send(frame)
}

// handleRecordsWS streams records. New watchers get the buffered
// backlog first, then live records as they arrive.
func (s *Server) handleRecordsWS(c *websocket.Conn) {
	s.mu.RLock()
	backlog := make([]report.Record, len(s.records))
	copy(backlog, s.records)
	s.mu.RUnlock()

	for _, rec := range backlog {
		if err := c.WriteJSON(rec); err != nil {
			c.Close()
			return
		}
	}

	hub.NewClient(s.recordHub, c).Run()
}

// handleFramesWS streams annotated frames. New watchers get the
// latest frame immediately so the view is never blank.
func (s *Server) handleFramesWS(c *websocket.Conn) {
	s.mu.RLock()
	frame := s.frame
	s.mu.RUnlock()

	if len(frame) > 0 {
		if err := c.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			c.Close()
			return
		}
	}

	hub.NewClient(s.frameHub, c).Run()
}
