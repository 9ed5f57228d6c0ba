package engine

import (
	"time"

	"github.com/teslashibe/go-scribecam/pkg/archive"
	"github.com/teslashibe/go-scribecam/pkg/camera"
	"github.com/teslashibe/go-scribecam/pkg/caption"
	"github.com/teslashibe/go-scribecam/pkg/display"
)

// Info is the resolved configuration snapshot behind the status
// command.
type Info struct {
	// Provider and Model identify the primary captioning backend;
	// Providers lists the full fallback order.
	Provider  string
	Model     string
	BaseURL   string
	Providers []string

	Camera   camera.Config
	Interval time.Duration
	Mode     display.Mode

	// Wall geometry plus the column grid it yields.
	Layout  caption.LayoutConfig
	Columns int
	Rows    int

	MaxCaptions int
	FontPath    string
	WebAddr     string

	// ArchiveDir is where session files land, empty when archiving is
	// off.
	ArchiveDir string
	NoArchive  bool
}

// Info reports the resolved configuration. It builds the captioning
// client for its model info but touches neither camera nor network, so
// it works on a machine with neither.
func (a *App) Info() (Info, error) {
	if err := a.ensureProvider(); err != nil {
		return Info{}, err
	}
	mi := a.provider.ModelInfo()

	info := Info{
		Provider:    mi.Provider,
		Model:       mi.Model,
		BaseURL:     mi.BaseURL,
		Providers:   a.cfg.Providers(),
		Camera:      a.cfg.Camera,
		Interval:    a.cfg.Interval,
		Mode:        a.mode,
		Layout:      a.cfg.Layout,
		Columns:     a.cfg.Layout.Slots(),
		Rows:        a.cfg.Layout.RowsPerColumn(),
		MaxCaptions: a.buffer.Max(),
		FontPath:    a.cfg.FontPath,
		WebAddr:     a.cfg.WebAddr,
		NoArchive:   a.cfg.NoArchive,
	}

	if !a.cfg.NoArchive {
		dir := a.cfg.ArchiveDir
		if dir == "" {
			if d, err := archive.DefaultDir(); err == nil {
				dir = d
			}
		}
		info.ArchiveDir = dir
	}
	return info, nil
}
