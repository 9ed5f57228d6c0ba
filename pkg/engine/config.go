// Package engine orchestrates the installation: camera in, captions
// out, wall on screen. It owns component lifecycle and the frame loop.
package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/teslashibe/go-scribecam/internal/config"
	"github.com/teslashibe/go-scribecam/pkg/camera"
	"github.com/teslashibe/go-scribecam/pkg/caption"
	"github.com/teslashibe/go-scribecam/pkg/display"
)

// DefaultInterval is how often a frame is sent for captioning.
const DefaultInterval = 5 * time.Second

// Config holds all configuration for the installation.
// Flag parsing is done in cmd/scribecam; this struct is data only.
type Config struct {
	// Camera selects and shapes the frame source. Camera.Source may be
	// a ws:// URL, which switches capture to the websocket relay.
	Camera camera.Config

	// Provider names the captioning backend: "openai", "gemini" or
	// "mock". A comma-separated list builds a fallback chain tried in
	// order.
	Provider string

	// Model overrides the provider's default model.
	Model string

	// BaseURL overrides the OpenAI-compatible endpoint, for local
	// inference servers.
	BaseURL string

	// Prompt overrides the captioning prompt.
	Prompt string

	// Interval is the time between captioning requests.
	Interval time.Duration

	// Mode selects the window setup: headless, camera or dual.
	Mode string

	// Layout is the caption wall geometry. Layout.GlyphHeight doubles
	// as the font point size.
	Layout caption.LayoutConfig

	// FontPath points at a TTF for the wall. Empty tries the usual
	// system locations and falls back to the built-in face.
	FontPath string

	// MaxCaptions bounds the caption buffer. Zero means the default.
	MaxCaptions int

	// WebAddr is the viewer listen address, e.g. ":8089". Empty
	// disables the web server.
	WebAddr string

	// ArchiveDir overrides where session files land. NoArchive turns
	// the archive off entirely.
	ArchiveDir string
	NoArchive  bool

	// API keys, typically from environment variables.
	OpenAIKey string
	GeminiKey string
}

// DefaultConfig returns the installation defaults: headless, OpenAI
// captioning every five seconds, the original wall geometry.
func DefaultConfig() Config {
	return Config{
		Camera:   camera.DefaultConfig(),
		Provider: "openai",
		Interval: DefaultInterval,
		Mode:     string(display.ModeHeadless),
		Layout:   caption.DefaultLayout(),
	}
}

// ApplyFile overlays the settings file onto the config. Only fields the
// file actually sets are touched, so defaults and later flag overrides
// survive.
func (c *Config) ApplyFile(f *config.File) {
	if f == nil {
		return
	}

	d := f.Display
	if d.CanvasWidth > 0 {
		c.Layout.CanvasWidth = d.CanvasWidth
	}
	if d.CanvasHeight > 0 {
		c.Layout.CanvasHeight = d.CanvasHeight
	}
	if d.ColumnWidth > 0 {
		c.Layout.ColumnWidth = d.ColumnWidth
	}
	if d.CharSpacing > 0 {
		c.Layout.CharSpacing = d.CharSpacing
	}
	if d.FontSize > 0 {
		c.Layout.GlyphHeight = d.FontSize
	}
	if d.FontPath != "" {
		c.FontPath = d.FontPath
	}
	if d.MaxCaptions > 0 {
		c.MaxCaptions = d.MaxCaptions
	}
	if d.Mode != "" {
		c.Mode = d.Mode
	}

	cam := f.Camera
	if cam.Index > 0 {
		c.Camera.DeviceID = cam.Index
	}
	if cam.Source != "" {
		c.Camera.Source = cam.Source
	}
	if cam.Width > 0 {
		c.Camera.Width = cam.Width
	}
	if cam.Height > 0 {
		c.Camera.Height = cam.Height
	}
	if cam.FPS > 0 {
		c.Camera.FPS = cam.FPS
	}

	cpt := f.Captioner
	if cpt.Provider != "" {
		c.Provider = cpt.Provider
	}
	if cpt.Model != "" {
		c.Model = cpt.Model
	}
	if cpt.BaseURL != "" {
		c.BaseURL = cpt.BaseURL
	}
	if cpt.Prompt != "" {
		c.Prompt = cpt.Prompt
	}
	if cpt.IntervalSeconds > 0 {
		c.Interval = time.Duration(cpt.IntervalSeconds) * time.Second
	}

	if f.Web.Addr != "" {
		c.WebAddr = f.Web.Addr
	}
	if f.Archive.Dir != "" {
		c.ArchiveDir = f.Archive.Dir
	}
	if f.Archive.Disabled {
		c.NoArchive = true
	}
}

// LoadEnvConfig loads configuration values from environment variables.
// Call this after ApplyFile and before flag overrides.
func (c *Config) LoadEnvConfig() {
	c.OpenAIKey = config.OpenAIKey()
	c.GeminiKey = config.GeminiKey()
	c.BaseURL = config.Getenv("OPENAI_BASE_URL", c.BaseURL)
	c.WebAddr = config.Getenv("SCRIBECAM_WEB_ADDR", c.WebAddr)
	c.FontPath = config.Getenv("SCRIBECAM_FONT", c.FontPath)
}

// Providers returns the configured provider names in fallback order.
func (c *Config) Providers() []string {
	parts := strings.Split(c.Provider, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return names
}

// Validate checks that the configuration can actually run.
func (c *Config) Validate() error {
	if c.Interval <= 0 {
		return &ConfigError{Field: "Interval", Message: "captioning interval must be positive"}
	}

	names := c.Providers()
	if len(names) == 0 {
		return &ConfigError{Field: "Provider", Message: "at least one captioning provider is required"}
	}
	for _, name := range names {
		switch name {
		case "openai", "mock":
		case "gemini":
			if c.GeminiKey == "" {
				return &ConfigError{Field: "GeminiKey", Message: "GEMINI_API_KEY environment variable is required for the gemini provider"}
			}
		default:
			return &ConfigError{Field: "Provider", Message: fmt.Sprintf("unknown provider %q (want openai, gemini or mock)", name)}
		}
	}

	if _, err := display.ParseMode(c.Mode); err != nil {
		return &ConfigError{Field: "Mode", Message: fmt.Sprintf("unknown display mode %q (want headless, camera or dual)", c.Mode)}
	}

	l := c.Layout
	if l.CanvasWidth <= 0 || l.CanvasHeight <= 0 {
		return &ConfigError{Field: "Layout", Message: "canvas dimensions must be positive"}
	}
	if l.ColumnWidth <= 0 || l.GlyphHeight <= 0 {
		return &ConfigError{Field: "Layout", Message: "column width and font size must be positive"}
	}
	if l.Slots() <= 0 || l.RowsPerColumn() <= 0 {
		return &ConfigError{Field: "Layout", Message: "canvas too small for a single column"}
	}

	if c.MaxCaptions < 0 {
		return &ConfigError{Field: "MaxCaptions", Message: "max captions cannot be negative"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}
