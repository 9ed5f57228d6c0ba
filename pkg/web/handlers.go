package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-scribecam/pkg/hub"
)

// handleIndex serves the built-in viewer page.
func (s *Server) handleIndex(c *fiber.Ctx) error {
	c.Type("html", "utf-8")
	return c.SendString(indexHTML)
}

// handleStatus returns the current installation snapshot.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	if s.StatusFunc == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "status not configured",
		})
	}
	return c.JSON(s.StatusFunc())
}

// handleCaptions returns buffered captions, oldest first. ?limit=N keeps
// only the newest N.
func (s *Server) handleCaptions(c *fiber.Ctx) error {
	return c.JSON(s.recentEvents(c.QueryInt("limit", 0)))
}

func (s *Server) recentEvents(limit int) []CaptionEvent {
	if s.CaptionsFunc == nil {
		return []CaptionEvent{}
	}

	buffered := s.CaptionsFunc(limit)
	events := make([]CaptionEvent, 0, len(buffered))
	for _, c := range buffered {
		events = append(events, Event(c))
	}
	return events
}

// handleCaptionsWS replays the visible buffer, then joins the viewer to
// the live caption feed.
func (s *Server) handleCaptionsWS(c *websocket.Conn) {
	// Safe to write directly here: the hub's write pump only starts
	// once the client is registered below.
	for _, ev := range s.recentEvents(0) {
		if err := c.WriteJSON(ev); err != nil {
			c.Close()
			return
		}
	}
	hub.NewClient(s.captionHub, c).Run()
}

// handleCameraWS joins the viewer to the live frame feed.
func (s *Server) handleCameraWS(c *websocket.Conn) {
	hub.NewClient(s.frameHub, c).Run()
}
