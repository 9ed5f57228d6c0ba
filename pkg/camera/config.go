package camera

// Config holds capture parameters for a local webcam.
type Config struct {
	// DeviceID selects the capture device index.
	DeviceID int `json:"device_id"`

	// Source, when non-empty, overrides DeviceID with a capture URL or
	// file path (RTSP and HTTP streams, video files).
	Source string `json:"source"`

	Width  int `json:"width"`  // Requested frame width in pixels
	Height int `json:"height"` // Requested frame height in pixels
	FPS    int `json:"fps"`    // Requested frame rate
}

// DefaultConfig returns the standard capture configuration. 640x480
// keeps JPEG payloads small enough for fast captioning round trips.
func DefaultConfig() Config {
	return Config{
		DeviceID: 0,
		Width:    640,
		Height:   480,
		FPS:      30,
	}
}

// Validate checks if the config values are within valid ranges.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errors []string

	if c.DeviceID < 0 {
		errors = append(errors, "device_id must be >= 0")
	}
	if c.Width < 160 || c.Width > 7680 {
		errors = append(errors, "width must be between 160 and 7680")
	}
	if c.Height < 120 || c.Height > 4320 {
		errors = append(errors, "height must be between 120 and 4320")
	}
	if c.FPS < 1 || c.FPS > 120 {
		errors = append(errors, "fps must be between 1 and 120")
	}

	return errors
}

// captureTarget returns the argument for gocv.OpenVideoCapture, either
// the device index or the source URL.
func (c *Config) captureTarget() interface{} {
	if c.Source != "" {
		return c.Source
	}
	return c.DeviceID
}
