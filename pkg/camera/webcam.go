package camera

import (
	"fmt"
	"strings"

	"gocv.io/x/gocv"
)

// Webcam captures frames from a local device or capture URL through
// OpenCV.
type Webcam struct {
	cap  *gocv.VideoCapture
	info Info
}

// Webcam implements Source
var _ Source = (*Webcam)(nil)

// OpenWebcam opens the device described by cfg and applies the requested
// resolution and frame rate. Drivers are free to ignore the requests, so
// Info reports what the device actually negotiated.
func OpenWebcam(cfg Config) (*Webcam, error) {
	if problems := cfg.Validate(); problems != nil {
		return nil, fmt.Errorf("camera: invalid config: %s", strings.Join(problems, "; "))
	}

	cap, err := gocv.OpenVideoCapture(cfg.captureTarget())
	if err != nil {
		return nil, fmt.Errorf("camera: open %v: %w", cfg.captureTarget(), err)
	}

	// Resolution requests only make sense for real devices. Streams and
	// files deliver whatever size they were encoded at.
	if cfg.Source == "" {
		cap.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
		cap.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
		cap.Set(gocv.VideoCaptureFPS, float64(cfg.FPS))
	}

	return &Webcam{
		cap: cap,
		info: Info{
			Width:  int(cap.Get(gocv.VideoCaptureFrameWidth)),
			Height: int(cap.Get(gocv.VideoCaptureFrameHeight)),
			FPS:    cap.Get(gocv.VideoCaptureFPS),
			Desc:   cfg.describe(),
		},
	}, nil
}

func (c *Config) describe() string {
	if c.Source != "" {
		return c.Source
	}
	return fmt.Sprintf("device %d", c.DeviceID)
}

// Read fills dst with the next frame. It reports false when the device
// stops delivering frames.
func (w *Webcam) Read(dst *gocv.Mat) bool {
	if ok := w.cap.Read(dst); !ok {
		return false
	}
	return !dst.Empty()
}

// Info reports the negotiated capture parameters.
func (w *Webcam) Info() Info { return w.info }

// Close releases the capture device.
func (w *Webcam) Close() error { return w.cap.Close() }
