package overlay

import (
	"fmt"
	"math"

	"reelcap/internal/config"
	"reelcap/internal/decoration"
	"reelcap/internal/services"
	"reelcap/internal/textmetrics"
)

// Style is the caption look applied to every overlay.
type Style struct {
	Font                 textmetrics.Font
	FontColor            string
	StrokeColor          string
	HighlightCurrentWord bool
	HighlightColor       string
	LineCount            int
	Padding              int
	ShadowStrength       float64
	ShadowBlur           float64
}

// StyleFromConfig maps caption settings onto a Style using an already
// resolved font path.
func StyleFromConfig(c config.Captions, fontPath string) Style {
	return Style{
		Font: textmetrics.Font{
			Path:        fontPath,
			Size:        c.FontSize,
			StrokeWidth: c.StrokeWidth,
		},
		FontColor:            c.FontColor,
		StrokeColor:          c.StrokeColor,
		HighlightCurrentWord: c.HighlightCurrentWord,
		HighlightColor:       c.WordHighlightColor,
		LineCount:            c.LineCount,
		Padding:              c.Padding,
		ShadowStrength:       c.ShadowStrength,
		ShadowBlur:           c.ShadowBlur,
	}
}

func (s Style) validate() error {
	switch {
	case s.Font.Path == "":
		return services.Wrap(services.ErrConfiguration, "overlay", "style", "font path is required", nil)
	case s.Font.Size <= 0:
		return services.Wrap(services.ErrConfiguration, "overlay", "style", fmt.Sprintf("font size %d must be positive", s.Font.Size), nil)
	case s.LineCount < 1:
		return services.Wrap(services.ErrConfiguration, "overlay", "style", fmt.Sprintf("line count %d must be at least 1", s.LineCount), nil)
	case s.Padding < 0:
		return services.Wrap(services.ErrConfiguration, "overlay", "style", fmt.Sprintf("padding %d must not be negative", s.Padding), nil)
	case math.IsNaN(s.ShadowStrength) || s.ShadowStrength < 0 || s.ShadowStrength > decoration.MaxShadowStrength:
		return services.Wrap(services.ErrConfiguration, "overlay", "style",
			fmt.Sprintf("shadow strength %v must be between 0 and %d", s.ShadowStrength, decoration.MaxShadowStrength), nil)
	}
	return nil
}
