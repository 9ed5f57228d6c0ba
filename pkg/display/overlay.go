package display

import (
	"image"
	"image/color"
	"time"

	"gocv.io/x/gocv"
)

// overlayWrapWidth matches the preview width at 640px with the Hershey
// face used below.
const overlayWrapWidth = 60

var (
	overlayGreen = color.RGBA{R: 0, G: 255, B: 0, A: 0}
	overlayWhite = color.RGBA{R: 255, G: 255, B: 255, A: 0}
)

// DrawOverlay writes the latest caption and a live clock onto the camera
// preview frame in place.
func DrawOverlay(frame *gocv.Mat, text string, now time.Time) {
	for i, line := range Wrap(text, overlayWrapWidth) {
		gocv.PutText(frame, line, image.Pt(10, 25+i*22),
			gocv.FontHersheySimplex, 0.6, overlayGreen, 2)
	}

	stamp := "Live - " + now.Format("15:04:05")
	gocv.PutText(frame, stamp, image.Pt(10, frame.Rows()-10),
		gocv.FontHersheySimplex, 0.5, overlayWhite, 1)
}
