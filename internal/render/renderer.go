package render

import (
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"reelcap/internal/decoration"
	"reelcap/internal/services"
	"reelcap/internal/textmetrics"
)

// FontSource supplies parsed fonts by path.
type FontSource interface {
	Font(path string) (*opentype.Font, error)
}

// Renderer implements decoration.Renderer.
type Renderer struct {
	fonts FontSource
}

var _ decoration.Renderer = (*Renderer)(nil)

// New returns a Renderer that loads fonts from fonts.
func New(fonts FontSource) *Renderer {
	return &Renderer{fonts: fonts}
}

// RenderText draws spans left to right separated by single spaces. The
// bitmap has the same size textmetrics.OpenType reports for the joined text.
// An opacity outside (0, 1) draws fully opaque.
func (r *Renderer) RenderText(spans []decoration.Span, style decoration.TextStyle) (decoration.Decoration, error) {
	fill, err := ParseColor(style.Color)
	if err != nil {
		return decoration.Decoration{}, err
	}
	stroke := max(style.Font.StrokeWidth, 0)
	var strokeColor color.NRGBA
	if stroke > 0 {
		if strokeColor, err = ParseColor(style.StrokeColor); err != nil {
			return decoration.Decoration{}, err
		}
	}
	spanColors := make([]color.NRGBA, len(spans))
	texts := make([]string, len(spans))
	for i, span := range spans {
		spanColors[i] = fill
		if span.Color != "" {
			if spanColors[i], err = ParseColor(span.Color); err != nil {
				return decoration.Decoration{}, err
			}
		}
		texts[i] = span.Text
	}

	face, err := r.face(style.Font)
	if err != nil {
		return decoration.Decoration{}, err
	}
	defer face.Close()

	full := strings.Join(texts, " ")
	metrics := face.Metrics()
	width := font.MeasureString(face, full).Ceil() + 2*stroke
	height := (metrics.Ascent + metrics.Descent).Ceil() + 2*stroke
	canvas := image.NewNRGBA(image.Rect(0, 0, max(width, 1), max(height, 1)))

	baseline := stroke + metrics.Ascent.Ceil()
	if stroke > 0 {
		src := image.NewUniform(strokeColor)
		for dy := -stroke; dy <= stroke; dy++ {
			for dx := -stroke; dx <= stroke; dx++ {
				if dx*dx+dy*dy > stroke*stroke {
					continue
				}
				d := font.Drawer{Dst: canvas, Src: src, Face: face, Dot: fixed.P(stroke+dx, baseline+dy)}
				d.DrawString(full)
			}
		}
	}

	d := font.Drawer{Dst: canvas, Face: face, Dot: fixed.P(stroke, baseline)}
	for i, text := range texts {
		if i > 0 {
			d.Src = image.NewUniform(fill)
			d.DrawString(" ")
		}
		d.Src = image.NewUniform(spanColors[i])
		d.DrawString(text)
	}

	if style.Opacity > 0 && style.Opacity < 1 {
		applyOpacity(canvas, style.Opacity)
	}
	return decoration.Decoration{Bitmap: canvas}, nil
}

// Blur softens d with a Gaussian of sigma radius. The canvas grows by twice
// the radius on every side and Inset records the growth.
func (r *Renderer) Blur(d decoration.Decoration, radius int) (decoration.Decoration, error) {
	if d.Bitmap == nil || radius <= 0 {
		return d.Clone(), nil
	}
	pad := 2 * radius
	bounds := d.Bitmap.Bounds()
	padded := imaging.New(bounds.Dx()+2*pad, bounds.Dy()+2*pad, color.NRGBA{})
	padded = imaging.Paste(padded, d.Bitmap, image.Pt(pad, pad))

	out := d
	out.Bitmap = imaging.Blur(padded, float64(radius))
	out.Inset = d.Inset + pad
	return out, nil
}

func (r *Renderer) face(f textmetrics.Font) (font.Face, error) {
	if r.fonts == nil {
		return nil, services.Wrap(services.ErrConfiguration, "render", "open face", "font source is required", nil)
	}
	parsed, err := r.fonts.Font(f.Path)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    float64(f.Size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "render", "open face", f.Path, err)
	}
	return face, nil
}

func applyOpacity(img *image.NRGBA, opacity float64) {
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = uint8(float64(img.Pix[i])*opacity + 0.5)
	}
}
