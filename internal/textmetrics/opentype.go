package textmetrics

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"

	"reelcap/internal/services"
)

type faceKey struct {
	path string
	size int
}

// OpenType measures text with TrueType and OpenType font files. Parsed fonts
// and sized faces are cached for the lifetime of the value. Faces are not
// safe for concurrent use, so every measurement runs under the mutex.
type OpenType struct {
	mu    sync.Mutex
	fonts map[string]*opentype.Font
	faces map[faceKey]font.Face
}

// NewOpenType returns an empty OpenType measurer.
func NewOpenType() *OpenType {
	return &OpenType{
		fonts: make(map[string]*opentype.Font),
		faces: make(map[faceKey]font.Face),
	}
}

// Measure returns the advance width and line height of text, each grown by
// twice the stroke width so outlined text is not clipped.
func (o *OpenType) Measure(text string, f Font) (Size, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	face, err := o.faceLocked(f.Path, f.Size)
	if err != nil {
		return Size{}, err
	}
	advance := font.MeasureString(face, text)
	metrics := face.Metrics()
	stroke := 2 * max(f.StrokeWidth, 0)
	return Size{
		Width:  advance.Ceil() + stroke,
		Height: (metrics.Ascent + metrics.Descent).Ceil() + stroke,
	}, nil
}

// Font returns the parsed font for path. The returned value is safe to share;
// callers drawing text should build their own face from it.
func (o *OpenType) Font(path string) (*opentype.Font, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.fontLocked(path)
}

// Close releases cached faces.
func (o *OpenType) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for key, face := range o.faces {
		_ = face.Close()
		delete(o.faces, key)
	}
	return nil
}

func (o *OpenType) faceLocked(path string, size int) (font.Face, error) {
	key := faceKey{path: path, size: size}
	if face, ok := o.faces[key]; ok {
		return face, nil
	}
	if size <= 0 {
		return nil, services.Wrap(services.ErrConfiguration, "textmetrics", "open face", fmt.Sprintf("font size %d must be positive", size), nil)
	}
	parsed, err := o.fontLocked(path)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "textmetrics", "open face", path, err)
	}
	o.faces[key] = face
	return face, nil
}

func (o *OpenType) fontLocked(path string) (*opentype.Font, error) {
	if parsed, ok := o.fonts[path]; ok {
		return parsed, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "textmetrics", "read font", path, err)
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "textmetrics", "parse font", path, err)
	}
	o.fonts[path] = parsed
	return parsed, nil
}
