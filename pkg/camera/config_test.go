package camera

import (
	"strings"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if problems := cfg.Validate(); problems != nil {
		t.Fatalf("default config should validate, got %v", problems)
	}
	if cfg.Width != 640 || cfg.Height != 480 {
		t.Errorf("default resolution = %dx%d, want 640x480", cfg.Width, cfg.Height)
	}
	if cfg.FPS != 30 {
		t.Errorf("default fps = %d, want 30", cfg.FPS)
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := Config{DeviceID: -1, Width: 10, Height: 10, FPS: 0}
	problems := cfg.Validate()
	if len(problems) != 4 {
		t.Fatalf("got %d problems, want 4: %v", len(problems), problems)
	}
	joined := strings.Join(problems, "\n")
	for _, want := range []string{"device_id", "width", "height", "fps"} {
		if !strings.Contains(joined, want) {
			t.Errorf("problems missing %q: %v", want, problems)
		}
	}
}

func TestValidateBoundaries(t *testing.T) {
	cfg := Config{Width: 160, Height: 120, FPS: 1}
	if problems := cfg.Validate(); problems != nil {
		t.Errorf("minimum values should validate, got %v", problems)
	}

	cfg = Config{Width: 7680, Height: 4320, FPS: 120}
	if problems := cfg.Validate(); problems != nil {
		t.Errorf("maximum values should validate, got %v", problems)
	}
}

func TestCaptureTargetPrefersSource(t *testing.T) {
	cfg := Config{DeviceID: 2}
	if got := cfg.captureTarget(); got != 2 {
		t.Errorf("captureTarget = %v, want device index 2", got)
	}

	cfg.Source = "rtsp://gallery.local/live"
	if got := cfg.captureTarget(); got != "rtsp://gallery.local/live" {
		t.Errorf("captureTarget = %v, want source URL", got)
	}
}

func TestDescribe(t *testing.T) {
	cfg := Config{DeviceID: 1}
	if got := cfg.describe(); got != "device 1" {
		t.Errorf("describe = %q, want %q", got, "device 1")
	}

	cfg.Source = "video.mp4"
	if got := cfg.describe(); got != "video.mp4" {
		t.Errorf("describe = %q, want %q", got, "video.mp4")
	}
}

func TestPresets(t *testing.T) {
	presets := Presets()
	for _, name := range PresetNames() {
		if _, ok := presets[name]; !ok {
			t.Errorf("preset %q missing from Presets()", name)
		}
	}

	hd := GetPreset(Preset720p)
	if hd == nil {
		t.Fatal("720p preset should exist")
	}
	if hd.Width != 1280 || hd.Height != 720 {
		t.Errorf("720p preset = %dx%d, want 1280x720", hd.Width, hd.Height)
	}

	if GetPreset("cinema") != nil {
		t.Error("unknown preset should return nil")
	}
}
