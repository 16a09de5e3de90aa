package textmetrics

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"reelcap/internal/services"
)

// Font describes the font parameters a measurement depends on.
type Font struct {
	Path        string
	Size        int
	StrokeWidth int
}

// Size is a measured text extent in pixels.
type Size struct {
	Width  int
	Height int
}

// Measurer reports the pixel extent of text. Implementations must return the
// same Size for the same inputs.
type Measurer interface {
	Measure(text string, font Font) (Size, error)
}

// MeasureFunc adapts a plain function to Measurer.
type MeasureFunc func(text string, font Font) (Size, error)

// Measure calls f.
func (f MeasureFunc) Measure(text string, font Font) (Size, error) {
	return f(text, font)
}

// ResolveFont returns the path of a font file. An existing path is used as
// is, otherwise name is looked up inside fontDir.
func ResolveFont(name, fontDir string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", services.Wrap(services.ErrConfiguration, "textmetrics", "resolve font", "font name is empty", nil)
	}
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		return filepath.Abs(name)
	}
	if fontDir != "" {
		candidate := filepath.Join(fontDir, name)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", services.Wrap(services.ErrConfiguration, "textmetrics", "resolve font", fmt.Sprintf("stat %q", candidate), err)
		}
	}
	return "", services.Wrap(services.ErrNotFound, "textmetrics", "resolve font", fmt.Sprintf("font %q not found", name), nil)
}
