package display

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/teslashibe/go-scribecam/pkg/caption"
)

// Canvas renders the caption wall: white glyphs stacked in vertical
// columns on black, newest caption at the right edge.
type Canvas struct {
	cfg  caption.LayoutConfig
	face font.Face

	background color.RGBA
	ink        color.RGBA
	footerInk  color.RGBA
}

// NewCanvas builds a renderer for the given geometry and face.
func NewCanvas(cfg caption.LayoutConfig, face font.Face) *Canvas {
	return &Canvas{
		cfg:        cfg,
		face:       face,
		background: color.RGBA{0, 0, 0, 255},
		ink:        color.RGBA{255, 255, 255, 255},
		footerInk:  color.RGBA{128, 128, 128, 255},
	}
}

// Layout returns the geometry this canvas renders with.
func (c *Canvas) Layout() caption.LayoutConfig { return c.cfg }

// Render lays out caps and draws them onto a fresh image. total is the
// lifetime caption count shown in the footer.
func (c *Canvas) Render(caps []caption.Caption, total uint64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, c.cfg.CanvasWidth, c.cfg.CanvasHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(c.background), image.Point{}, draw.Src)

	ascent := c.face.Metrics().Ascent.Ceil()
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c.ink),
		Face: c.face,
	}

	for _, col := range caption.Layout(caps, c.cfg) {
		for row, r := range col.Chars {
			// Dot is the baseline origin, so push down by the ascent to
			// anchor each glyph at the top of its cell.
			drawer.Dot = fixed.P(col.X, c.cfg.RowY(row)+ascent)
			drawer.DrawString(string(r))
		}
	}

	c.drawFooter(drawer, ascent, total)
	return img
}

func (c *Canvas) drawFooter(drawer *font.Drawer, ascent int, total uint64) {
	drawer.Src = image.NewUniform(c.footerInk)
	drawer.Dot = fixed.P(10, c.cfg.CanvasHeight-30+ascent)
	drawer.DrawString(fmt.Sprintf("Total Captions: %d | Press 'q' to quit", total))
}
