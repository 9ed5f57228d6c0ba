// Package web serves the installation's viewer page and realtime feeds.
package web

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-scribecam/internal/log"
	"github.com/teslashibe/go-scribecam/pkg/caption"
	"github.com/teslashibe/go-scribecam/pkg/hub"
)

// Status is the installation snapshot served at /api/status.
type Status struct {
	Uptime        string  `json:"uptime"`
	TotalCaptions uint64  `json:"total_captions"`
	Buffered      int     `json:"buffered"`
	Provider      string  `json:"provider"`
	Model         string  `json:"model"`
	Source        string  `json:"source"`
	Interval      float64 `json:"interval_seconds"`
	Mode          string  `json:"mode"`
	Viewers       int     `json:"viewers"`
	Archive       string  `json:"archive,omitempty"`
}

// CaptionEvent is the JSON shape of one caption on the wire.
type CaptionEvent struct {
	Seq  uint64    `json:"seq"`
	Text string    `json:"text"`
	Raw  string    `json:"raw"`
	At   time.Time `json:"at"`
}

// Event converts a buffered caption to its wire shape.
func Event(c caption.Caption) CaptionEvent {
	return CaptionEvent{Seq: c.Seq, Text: c.Text, Raw: c.Raw, At: c.At}
}

// Server is the viewer-facing web server.
type Server struct {
	app  *fiber.App
	addr string

	// Hubs for websocket broadcast
	captionHub *hub.Hub
	frameHub   *hub.Hub

	// StatusFunc supplies the /api/status payload.
	StatusFunc func() Status

	// CaptionsFunc supplies buffered captions, oldest first. A limit
	// of zero or less means everything buffered.
	CaptionsFunc func(limit int) []caption.Caption
}

// NewServer wires the routes and hubs for the given listen address.
func NewServer(addr string) *Server {
	s := &Server{
		addr:       addr,
		captionHub: hub.New("captions"),
		frameHub:   hub.New("camera"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "scribecam",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	app.Get("/", s.handleIndex)

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/captions", s.handleCaptions)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/captions", websocket.New(s.handleCaptionsWS))
	app.Get("/ws/camera", websocket.New(s.handleCameraWS))

	s.app = app
	return s
}

// Start runs the hubs and listens on the configured address. It blocks
// until Shutdown.
func (s *Server) Start() error {
	go s.captionHub.Run()
	go s.frameHub.Run()

	log.Info("web viewer listening", "addr", s.addr)
	return s.app.Listen(s.addr)
}

// StartAsync starts the server in a goroutine and logs any listen error.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("web server failed", "error", err)
		}
	}()
}

// BroadcastCaption pushes a caption event to every connected viewer.
func (s *Server) BroadcastCaption(c caption.Caption) {
	if err := s.captionHub.BroadcastJSON(Event(c)); err != nil {
		log.Warn("caption broadcast failed", "error", err)
	}
}

// BroadcastFrame pushes a JPEG camera frame to every connected viewer.
func (s *Server) BroadcastFrame(jpeg []byte) {
	s.frameHub.BroadcastBinary(jpeg)
}

// FrameViewers reports how many viewers are on the camera feed, so the
// engine can skip JPEG encoding when nobody is watching.
func (s *Server) FrameViewers() int {
	return s.frameHub.ClientCount()
}

// Viewers reports the connected viewer count across both feeds.
func (s *Server) Viewers() int {
	return s.captionHub.ClientCount() + s.frameHub.ClientCount()
}

// Shutdown stops the listener and disconnects every viewer.
func (s *Server) Shutdown() error {
	err := s.app.Shutdown()
	s.captionHub.Stop()
	s.frameHub.Stop()
	return err
}
