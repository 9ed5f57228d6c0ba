// Package camera provides frame sources for the captioning pipeline,
// either a local webcam through OpenCV or a remote JPEG stream over
// WebSocket.
package camera

import "gocv.io/x/gocv"

// Info describes an opened frame source.
type Info struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	FPS    float64 `json:"fps"`
	Desc   string  `json:"desc"`
}

// Source is a stream of frames. Read fills dst with the next frame and
// reports false when the source has nothing more to give.
type Source interface {
	Read(dst *gocv.Mat) bool
	Info() Info
	Close() error
}
