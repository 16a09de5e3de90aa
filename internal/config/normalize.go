package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCaptions()
	c.normalizeRender()
	c.normalizeCache()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	defaults := map[*string]string{
		&c.Paths.OutputDir: defaultOutputDir,
		&c.Paths.FontDir:   defaultFontDir,
		&c.Paths.VideoDir:  defaultVideoDir,
		&c.Paths.WorkDir:   defaultWorkDir,
		&c.Paths.LogDir:    defaultLogDir,
	}
	for field, fallback := range defaults {
		if strings.TrimSpace(*field) == "" {
			*field = fallback
		}
	}

	var err error
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.FontDir, err = expandPath(c.Paths.FontDir); err != nil {
		return fmt.Errorf("paths.font_dir: %w", err)
	}
	if c.Paths.VideoDir, err = expandPath(c.Paths.VideoDir); err != nil {
		return fmt.Errorf("paths.video_dir: %w", err)
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeCaptions() {
	c.Captions.Font = strings.TrimSpace(c.Captions.Font)
	if c.Captions.Font == "" {
		c.Captions.Font = defaultFont
	}
	c.Captions.FontColor = normalizeColor(c.Captions.FontColor, defaultFontColor)
	c.Captions.StrokeColor = normalizeColor(c.Captions.StrokeColor, defaultStrokeColor)
	c.Captions.WordHighlightColor = normalizeColor(c.Captions.WordHighlightColor, defaultWordHighlightColor)
	if c.Captions.ShadowStrength < 0 {
		c.Captions.ShadowStrength = 0
	}
}

func (c *Config) normalizeRender() {
	c.Render.BaseVideo = strings.TrimSpace(c.Render.BaseVideo)
	if c.Render.BaseVideo == "" {
		c.Render.BaseVideo = defaultBaseVideo
	}
	c.Render.VideoCodec = strings.TrimSpace(c.Render.VideoCodec)
	if c.Render.VideoCodec == "" {
		c.Render.VideoCodec = defaultVideoCodec
	}
	c.Render.AudioCodec = strings.TrimSpace(c.Render.AudioCodec)
	if c.Render.AudioCodec == "" {
		c.Render.AudioCodec = defaultAudioCodec
	}
	c.Render.FFmpegBinary = strings.TrimSpace(c.Render.FFmpegBinary)
	c.Render.FFprobeBinary = strings.TrimSpace(c.Render.FFprobeBinary)
	if c.Render.MinFreeMiB < 0 {
		c.Render.MinFreeMiB = 0
	}
}

func (c *Config) normalizeCache() {
	if c.Cache.LayoutMaxEntries < 0 {
		c.Cache.LayoutMaxEntries = 0
	}
	if c.Cache.ShadowMaxEntries < 0 {
		c.Cache.ShadowMaxEntries = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func normalizeColor(value, fallback string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return fallback
	}
	return value
}
