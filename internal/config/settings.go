// Package config provides configuration helpers for scribecam commands:
// the optional TOML settings file and the environment lookups shared by
// the CLI and the engine.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// File is the persisted settings file schema. Every field is optional;
// zero values mean "not set" and leave the engine defaults untouched.
type File struct {
	Display   DisplaySection   `toml:"display"`
	Camera    CameraSection    `toml:"camera"`
	Captioner CaptionerSection `toml:"captioner"`
	Web       WebSection       `toml:"web"`
	Archive   ArchiveSection   `toml:"archive"`

	// Source records where the file was loaded from. Not persisted.
	Source string `toml:"-"`
}

// DisplaySection holds caption canvas and window settings.
type DisplaySection struct {
	CanvasWidth  int    `toml:"canvas_width"`
	CanvasHeight int    `toml:"canvas_height"`
	ColumnWidth  int    `toml:"column_width"`
	CharSpacing  int    `toml:"char_spacing"`
	FontPath     string `toml:"font_path"`
	FontSize     int    `toml:"font_size"`
	MaxCaptions  int    `toml:"max_captions"`
	Mode         string `toml:"mode"`
}

// CameraSection holds capture device settings.
type CameraSection struct {
	Index  int    `toml:"index"`
	Source string `toml:"source"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	FPS    int    `toml:"fps"`
}

// CaptionerSection holds model adapter settings.
type CaptionerSection struct {
	Provider        string `toml:"provider"`
	Model           string `toml:"model"`
	BaseURL         string `toml:"base_url"`
	Prompt          string `toml:"prompt"`
	IntervalSeconds int    `toml:"interval_seconds"`
}

// WebSection holds the dashboard listen address.
type WebSection struct {
	Addr string `toml:"addr"`
}

// ArchiveSection holds session archive settings.
type ArchiveSection struct {
	Dir      string `toml:"dir"`
	Disabled bool   `toml:"disabled"`
}

// DefaultPath returns the default settings file location
// (~/.scribecam/config.toml), or "" if the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".scribecam", "config.toml")
}

// Load reads the settings file at path, falling back to DefaultPath when
// path is empty. A missing file is not an error; the zero File is returned
// so engine defaults apply.
func Load(path string) (*File, error) {
	explicit := path != ""
	if path == "" {
		path = DefaultPath()
	}
	f := &File{Source: path}
	if path == "" {
		return f, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return f, nil
		}
		return f, err
	}

	if err := toml.Unmarshal(content, f); err != nil {
		return f, fmt.Errorf("parse %s: %w", path, err)
	}
	return f, nil
}
