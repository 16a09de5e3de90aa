package config

import (
	"errors"
	"fmt"
)

// maxShadowStrength matches the layer cap the decoration package applies.
const maxShadowStrength = 10

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCaptions(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCaptions() error {
	if err := ensurePositiveMap(map[string]int{
		"captions.font_size":  c.Captions.FontSize,
		"captions.line_count": c.Captions.LineCount,
	}); err != nil {
		return err
	}
	if c.Captions.StrokeWidth < 0 {
		return errors.New("captions.stroke_width must be >= 0")
	}
	if c.Captions.Padding < 0 {
		return errors.New("captions.padding must be >= 0")
	}
	if !(c.Captions.ShadowStrength >= 0 && c.Captions.ShadowStrength <= maxShadowStrength) {
		return fmt.Errorf("captions.shadow_strength must be between 0 and %d", maxShadowStrength)
	}
	if c.Captions.ShadowBlur < 0 {
		return errors.New("captions.shadow_blur must be >= 0")
	}
	return nil
}

func (c *Config) validateRender() error {
	if c.Render.Threads <= 0 {
		return errors.New("render.threads must be positive")
	}
	if c.Render.ImageOverlaySeconds < 0 {
		return errors.New("render.image_overlay_seconds must be >= 0")
	}
	if c.Render.TailPaddingSeconds < 0 {
		return errors.New("render.tail_padding_seconds must be >= 0")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
