package decoration

import (
	"fmt"
	"math"

	"reelcap/internal/memo"
	"reelcap/internal/services"
	"reelcap/internal/textmetrics"
)

// ShadowColor is the fill used for every shadow.
const ShadowColor = "black"

// ShadowKey identifies a cached shadow.
type ShadowKey struct {
	Text       string
	FontSize   int
	FontPath   string
	BlurRadius float64
	Opacity    float64
}

// Radius is the blur radius in pixels, font size times the relative blur.
func (k ShadowKey) Radius() int {
	return int(float64(k.FontSize) * k.BlurRadius)
}

// ShadowCache renders blurred text shadows once per key.
type ShadowCache struct {
	renderer Renderer
	cache    *memo.Cache[ShadowKey, Decoration]
}

// NewShadowCache returns a cache holding at most maxEntries masters. Zero
// means unbounded.
func NewShadowCache(renderer Renderer, maxEntries int) (*ShadowCache, error) {
	if renderer == nil {
		return nil, services.Wrap(services.ErrConfiguration, "decoration", "init", "renderer is required", nil)
	}
	cache, err := memo.New[ShadowKey, Decoration](maxEntries)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "decoration", "init", "shadow cache", err)
	}
	return &ShadowCache{renderer: renderer, cache: cache}, nil
}

// ShadowFor returns a fresh copy of the shadow for key, rendering and
// blurring it on first use.
func (c *ShadowCache) ShadowFor(key ShadowKey) (Decoration, error) {
	if master, ok := c.cache.Get(key); ok {
		return master.Clone(), nil
	}

	style := TextStyle{
		Font:    textmetrics.Font{Path: key.FontPath, Size: key.FontSize},
		Color:   ShadowColor,
		Opacity: key.Opacity,
	}
	shadow, err := c.renderer.RenderText([]Span{{Text: key.Text}}, style)
	if err != nil {
		return Decoration{}, fmt.Errorf("render shadow %q: %w", key.Text, err)
	}
	shadow, err = c.renderer.Blur(shadow, key.Radius())
	if err != nil {
		return Decoration{}, fmt.Errorf("blur shadow %q: %w", key.Text, err)
	}
	c.cache.Add(key, shadow.Clone())
	return shadow, nil
}

// Stats reports shadow cache counters.
func (c *ShadowCache) Stats() memo.Stats {
	return c.cache.Stats()
}

// MaxShadowStrength caps the number of stacked shadow layers.
const MaxShadowStrength = 10

// ShadowLayers expands a shadow strength into per-layer opacities: one full
// layer per whole unit and one partial layer for any fractional remainder.
// Strengths above MaxShadowStrength are clamped.
func ShadowLayers(strength float64) []float64 {
	if math.IsNaN(strength) || strength <= 0 {
		return nil
	}
	strength = math.Min(strength, MaxShadowStrength)
	whole := math.Floor(strength)
	// Rounding keeps 2.3 at a 0.3 remainder so cache keys stay stable.
	rest := math.Round((strength-whole)*1e9) / 1e9
	layers := make([]float64, 0, int(whole)+1)
	for i := 0; i < int(whole); i++ {
		layers = append(layers, 1.0)
	}
	if rest > 0 {
		if rest >= 1 {
			layers = append(layers, 1.0)
		} else {
			layers = append(layers, rest)
		}
	}
	return layers
}
