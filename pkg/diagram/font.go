package diagram

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/fogleman/gg"
)

// DefaultFontSize is the label size, in points, for TrueType faces.
const DefaultFontSize = 12

// FontCandidates returns monospace TrueType fonts commonly installed on
// the current platform, most preferred first.
func FontCandidates() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{
			"/System/Library/Fonts/Menlo.ttc",
			"/System/Library/Fonts/Supplemental/Courier New.ttf",
			"/Library/Fonts/Courier New.ttf",
		}
	case "windows":
		dir := filepath.Join(os.Getenv("WINDIR"), "Fonts")
		return []string{
			filepath.Join(dir, "consola.ttf"),
			filepath.Join(dir, "cour.ttf"),
		}
	}
	return []string{
		"/usr/share/fonts/truetype/dejavu/DejaVuSansMono.ttf",
		"/usr/share/fonts/dejavu/DejaVuSansMono.ttf",
		"/usr/share/fonts/TTF/DejaVuSansMono.ttf",
		"/usr/share/fonts/truetype/liberation/LiberationMono-Regular.ttf",
		"/usr/share/fonts/liberation/LiberationMono-Regular.ttf",
	}
}

// FindFont returns the first candidate that exists, or "".
func FindFont() string {
	for _, path := range FontCandidates() {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// loadFace switches dc to the font at path. gg's built-in bitmap face
// stays in place when path is empty or cannot be loaded.
func loadFace(dc *gg.Context, path string, size float64) bool {
	if path == "" {
		return false
	}
	if size <= 0 {
		size = DefaultFontSize
	}
	return dc.LoadFontFace(path, size) == nil
}

// fitLabel shortens label with a trailing ellipsis until it is at most
// maxWidth wide in the current face.
func fitLabel(dc *gg.Context, label string, maxWidth float64) string {
	if w, _ := dc.MeasureString(label); w <= maxWidth {
		return label
	}
	runes := []rune(label)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		s := string(runes) + "..."
		if w, _ := dc.MeasureString(s); w <= maxWidth {
			return s
		}
	}
	return ""
}
