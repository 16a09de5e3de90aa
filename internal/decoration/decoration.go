package decoration

import (
	"image"

	"reelcap/internal/textmetrics"
)

// Position places a decoration on the frame. When CenterX is set, X is
// ignored and the compositor centres the bitmap horizontally.
type Position struct {
	X       int  `json:"x"`
	Y       int  `json:"y"`
	CenterX bool `json:"center_x"`
}

// Decoration is a rendered bitmap shown during [Start, End] at Position.
// Inset is transparent padding on every side of the content, added by
// blurring; compositors shift the bitmap by it so content stays aligned.
type Decoration struct {
	Bitmap   *image.NRGBA
	Start    float64
	End      float64
	Position Position
	Inset    int
}

// Bounds returns the bitmap size, or zero when there is no bitmap.
func (d Decoration) Bounds() image.Rectangle {
	if d.Bitmap == nil {
		return image.Rectangle{}
	}
	return d.Bitmap.Bounds()
}

// Clone returns a copy that shares no pixel storage with d.
func (d Decoration) Clone() Decoration {
	out := d
	if d.Bitmap != nil {
		bm := &image.NRGBA{
			Pix:    make([]uint8, len(d.Bitmap.Pix)),
			Stride: d.Bitmap.Stride,
			Rect:   d.Bitmap.Rect,
		}
		copy(bm.Pix, d.Bitmap.Pix)
		out.Bitmap = bm
	}
	return out
}

// WithTiming returns a copy of d shown during [start, end]. The bitmap is
// shared; use Clone first when the pixels will be changed.
func (d Decoration) WithTiming(start, end float64) Decoration {
	d.Start = start
	d.End = end
	return d
}

// WithPosition returns a copy of d placed at pos. The bitmap is shared.
func (d Decoration) WithPosition(pos Position) Decoration {
	d.Position = pos
	return d
}

// Span is a run of text drawn in one colour. An empty Color uses the style
// colour.
type Span struct {
	Text  string `json:"text"`
	Color string `json:"color,omitempty"`
}

// TextStyle controls how a Renderer draws spans.
type TextStyle struct {
	Font        textmetrics.Font
	Color       string
	StrokeColor string
	Opacity     float64
}

// Renderer produces decorations from text.
type Renderer interface {
	RenderText(spans []Span, style TextStyle) (Decoration, error)
	Blur(d Decoration, radius int) (Decoration, error)
}
