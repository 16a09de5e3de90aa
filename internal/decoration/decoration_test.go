package decoration_test

import (
	"errors"
	"image"
	"image/color"
	"math"
	"sync"
	"testing"

	"reelcap/internal/decoration"
)

type fakeRenderer struct {
	mu      sync.Mutex
	renders int
	blurs   []int
	styles  []decoration.TextStyle
	fail    error
}

func (r *fakeRenderer) RenderText(spans []decoration.Span, style decoration.TextStyle) (decoration.Decoration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return decoration.Decoration{}, r.fail
	}
	r.renders++
	r.styles = append(r.styles, style)
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	img.SetNRGBA(0, 0, color.NRGBA{A: uint8(style.Opacity * 255)})
	return decoration.Decoration{Bitmap: img}, nil
}

func (r *fakeRenderer) Blur(d decoration.Decoration, radius int) (decoration.Decoration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blurs = append(r.blurs, radius)
	return d, nil
}

func TestShadowLayers(t *testing.T) {
	tests := []struct {
		strength float64
		want     []float64
	}{
		{strength: 2.3, want: []float64{1, 1, 0.3}},
		{strength: 0, want: nil},
		{strength: -1, want: nil},
		{strength: 1.0, want: []float64{1}},
		{strength: 0.5, want: []float64{0.5}},
		{strength: 3, want: []float64{1, 1, 1}},
		{strength: 1e12, want: []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}},
		{strength: math.Inf(1), want: []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}},
		{strength: math.NaN(), want: nil},
	}
	for _, tt := range tests {
		got := decoration.ShadowLayers(tt.strength)
		if len(got) != len(tt.want) {
			t.Fatalf("ShadowLayers(%v) = %v, want %v", tt.strength, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("ShadowLayers(%v) = %v, want %v", tt.strength, got, tt.want)
			}
		}
	}
}

func key() decoration.ShadowKey {
	return decoration.ShadowKey{Text: "Hello world", FontSize: 100, FontPath: "/f.ttf", BlurRadius: 0.1, Opacity: 1}
}

func TestShadowForRendersOncePerKey(t *testing.T) {
	r := &fakeRenderer{}
	cache, err := decoration.NewShadowCache(r, 0)
	if err != nil {
		t.Fatalf("NewShadowCache returned error: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := cache.ShadowFor(key()); err != nil {
			t.Fatalf("ShadowFor returned error: %v", err)
		}
	}
	if r.renders != 1 {
		t.Fatalf("expected one render, got %d", r.renders)
	}
	if len(r.blurs) != 1 || r.blurs[0] != 10 {
		t.Fatalf("expected a single blur of radius 10, got %v", r.blurs)
	}
	style := r.styles[0]
	if style.Color != decoration.ShadowColor || style.Opacity != 1 || style.Font.Size != 100 || style.Font.StrokeWidth != 0 {
		t.Fatalf("unexpected shadow style %+v", style)
	}

	other := key()
	other.Opacity = 0.3
	if _, err := cache.ShadowFor(other); err != nil {
		t.Fatalf("ShadowFor returned error: %v", err)
	}
	if r.renders != 2 {
		t.Fatalf("opacity must be part of the key, renders = %d", r.renders)
	}
}

func TestShadowForCopyIsolation(t *testing.T) {
	cache, _ := decoration.NewShadowCache(&fakeRenderer{}, 0)

	first, _ := cache.ShadowFor(key())
	second, _ := cache.ShadowFor(key())
	if first.Bitmap == second.Bitmap {
		t.Fatal("expected distinct bitmaps")
	}

	second.Bitmap.Pix[3] = 7
	second = second.WithTiming(1, 2).WithPosition(decoration.Position{Y: 50, CenterX: true})

	if first.Bitmap.Pix[3] != 255 || first.Start != 0 || first.Position.Y != 0 {
		t.Fatalf("first copy changed: pix=%d %+v", first.Bitmap.Pix[3], first)
	}
	third, _ := cache.ShadowFor(key())
	if third.Bitmap.Pix[3] != 255 || third.Start != 0 || third.Position != (decoration.Position{}) {
		t.Fatalf("cached master changed: pix=%d %+v", third.Bitmap.Pix[3], third)
	}
}

func TestShadowForFirstResultDoesNotAliasMaster(t *testing.T) {
	cache, _ := decoration.NewShadowCache(&fakeRenderer{}, 0)

	first, _ := cache.ShadowFor(key())
	first.Bitmap.Pix[3] = 1

	second, _ := cache.ShadowFor(key())
	if second.Bitmap.Pix[3] != 255 {
		t.Fatalf("mutating a miss result corrupted the master: %d", second.Bitmap.Pix[3])
	}
}

func TestShadowForPropagatesRenderErrors(t *testing.T) {
	boom := errors.New("no font")
	cache, _ := decoration.NewShadowCache(&fakeRenderer{fail: boom}, 0)
	if _, err := cache.ShadowFor(key()); !errors.Is(err, boom) {
		t.Fatalf("expected render error, got %v", err)
	}
	if cache.Stats().Entries != 0 {
		t.Fatal("failed renders must not be cached")
	}
}

func TestCloneDeepCopies(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	d := decoration.Decoration{Bitmap: img, Start: 1, End: 2}
	c := d.Clone()
	c.Bitmap.Pix[0] = 9
	if d.Bitmap.Pix[0] != 0 {
		t.Fatal("clone shares pixels")
	}
	if c.Start != 1 || c.End != 2 || c.Bounds() != d.Bounds() {
		t.Fatalf("clone lost fields: %+v", c)
	}
	if (decoration.Decoration{}).Clone().Bitmap != nil {
		t.Fatal("clone of empty decoration should stay empty")
	}
}

func TestRadius(t *testing.T) {
	k := decoration.ShadowKey{FontSize: 55, BlurRadius: 0.1}
	if got := k.Radius(); got != 5 {
		t.Fatalf("Radius = %d, want 5", got)
	}
}
