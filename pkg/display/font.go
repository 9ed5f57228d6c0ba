package display

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"

	"github.com/teslashibe/go-scribecam/internal/log"
)

// Common system font locations, tried in order when no font path is
// configured.
var systemFonts = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/Library/Fonts/Arial.ttf",
	"C:\\Windows\\Fonts\\arial.ttf",
}

// LoadFace loads a TrueType or OpenType font at the given point size.
func LoadFace(path string, size float64) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("display: read font: %w", err)
	}

	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("display: parse font %s: %w", path, err)
	}

	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("display: build face: %w", err)
	}
	return face, nil
}

// Face loads the font at path, or searches the usual system locations
// when path is empty. When nothing loads, it falls back to the built-in
// bitmap face so the installation keeps running.
func Face(path string, size float64) font.Face {
	candidates := systemFonts
	if path != "" {
		candidates = []string{path}
	}

	for _, p := range candidates {
		face, err := LoadFace(p, size)
		if err == nil {
			return face
		}
		if path != "" {
			log.Warn("falling back to built-in font", "path", p, "error", err)
		}
	}
	return basicfont.Face7x13
}
