// Package display renders the caption wall and manages the installation
// windows. The canvas renderer is pure image code; OpenCV is only
// involved when a window is actually open.
package display

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/teslashibe/go-scribecam/pkg/caption"
)

// Mode selects which windows the installation opens.
type Mode string

const (
	// ModeHeadless opens no windows. Captions go to stdout, and to the
	// web viewer when one is running.
	ModeHeadless Mode = "headless"
	// ModeCamera opens a single camera window with the latest caption
	// overlaid on the frame.
	ModeCamera Mode = "camera"
	// ModeDual opens the camera preview plus the caption wall, with the
	// wall pushed to a second screen.
	ModeDual Mode = "dual"
)

const (
	canvasTitle  = "Generated Captions"
	previewTitle = "Camera Feed"

	// Horizontal offset for the canvas window in dual mode. Assumes a
	// 1080p operator screen to the left of the projector.
	dualOffsetX = 1920
)

// ParseMode maps a config string to a Mode. An empty string means
// headless.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeHeadless:
		return ModeHeadless, nil
	case ModeCamera:
		return ModeCamera, nil
	case ModeDual:
		return ModeDual, nil
	}
	return "", fmt.Errorf("display: unknown mode %q", s)
}

// Display owns the OpenCV windows for the installation.
type Display struct {
	mode   Mode
	canvas *Canvas

	canvasWin  *gocv.Window
	previewWin *gocv.Window
}

// New opens the windows required by mode and wires them to the canvas
// renderer.
func New(mode Mode, canvas *Canvas) *Display {
	d := &Display{mode: mode, canvas: canvas}
	if mode == ModeHeadless {
		return d
	}

	d.previewWin = gocv.NewWindow(previewTitle)
	d.previewWin.MoveWindow(0, 0)

	if mode == ModeDual {
		d.canvasWin = gocv.NewWindow(canvasTitle)
		d.canvasWin.ResizeWindow(canvas.cfg.CanvasWidth, canvas.cfg.CanvasHeight)
		d.canvasWin.MoveWindow(dualOffsetX, 0)
	}
	return d
}

// Mode reports the configured display mode.
func (d *Display) Mode() Mode { return d.mode }

// ShowCaptions renders the caption wall and puts it on screen when the
// wall window is open. The rendered image is returned so callers can
// inspect or persist it.
func (d *Display) ShowCaptions(caps []caption.Caption, total uint64) (*image.RGBA, error) {
	img := d.canvas.Render(caps, total)
	if d.canvasWin == nil {
		return img, nil
	}

	mat, err := gocv.ImageToMatRGBA(img)
	if err != nil {
		return img, fmt.Errorf("display: canvas to mat: %w", err)
	}
	defer mat.Close()

	// OpenCV windows expect BGR ordering.
	bgr := gocv.NewMat()
	defer bgr.Close()
	gocv.CvtColor(mat, &bgr, gocv.ColorRGBAToBGR)

	d.canvasWin.IMShow(bgr)
	return img, nil
}

// ShowPreview puts the camera frame on the preview window if one is
// open.
func (d *Display) ShowPreview(frame gocv.Mat) {
	if d.previewWin == nil || frame.Empty() {
		return
	}
	d.previewWin.IMShow(frame)
}

// CheckQuit pumps the UI event loop and reports whether the operator
// pressed q in any window. Headless mode always reports false.
func (d *Display) CheckQuit() bool {
	if d.previewWin == nil {
		return false
	}
	// WaitKey services every open window, so polling one is enough.
	return d.previewWin.WaitKey(1) == 'q'
}

// Close releases all windows.
func (d *Display) Close() error {
	if d.canvasWin != nil {
		if err := d.canvasWin.Close(); err != nil {
			return err
		}
	}
	if d.previewWin != nil {
		return d.previewWin.Close()
	}
	return nil
}
