package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	OutputDir string `toml:"output_dir"`
	FontDir   string `toml:"font_dir"`
	VideoDir  string `toml:"video_dir"`
	WorkDir   string `toml:"work_dir"`
	LogDir    string `toml:"log_dir"`
	APIBind   string `toml:"api_bind"`
}

// Captions contains the caption look and the layout constraints fed to the
// caption engine.
type Captions struct {
	Font                 string  `toml:"font"`
	FontSize             int     `toml:"font_size"`
	FontColor            string  `toml:"font_color"`
	StrokeWidth          int     `toml:"stroke_width"`
	StrokeColor          string  `toml:"stroke_color"`
	HighlightCurrentWord bool    `toml:"highlight_current_word"`
	WordHighlightColor   string  `toml:"word_highlight_color"`
	LineCount            int     `toml:"line_count"`
	Padding              int     `toml:"padding"`
	ShadowStrength       float64 `toml:"shadow_strength"`
	ShadowBlur           float64 `toml:"shadow_blur"`
}

// Render contains compositor settings.
type Render struct {
	FFmpegBinary        string  `toml:"ffmpeg_binary"`
	FFprobeBinary       string  `toml:"ffprobe_binary"`
	BaseVideo           string  `toml:"base_video"`
	VideoCodec          string  `toml:"video_codec"`
	AudioCodec          string  `toml:"audio_codec"`
	Threads             int     `toml:"threads"`
	ImageOverlaySeconds float64 `toml:"image_overlay_seconds"`
	TailPaddingSeconds  float64 `toml:"tail_padding_seconds"`
	MinFreeMiB          int     `toml:"min_free_mib"`
}

// Cache bounds the per-run memoization tables. Zero means unbounded.
type Cache struct {
	LayoutMaxEntries int `toml:"layout_max_entries"`
	ShadowMaxEntries int `toml:"shadow_max_entries"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for reelcap.
//
// Configuration sections by subsystem:
//   - Paths: output, asset, scratch and log directories plus the API bind address
//   - Captions: font, colours, line budget, padding and shadow look
//   - Render: ffmpeg/ffprobe binaries, codecs and overlay timing
//   - Cache: per-run layout and shadow cache bounds
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Captions Captions `toml:"captions"`
	Render   Render   `toml:"render"`
	Cache    Cache    `toml:"cache"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/reelcap/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/reelcap/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("reelcap.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a generation run writes into.
// Asset directories are only read, so they are left alone.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.WorkDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// RunStorePath returns the SQLite database used for run history.
func (c *Config) RunStorePath() string {
	return filepath.Join(c.Paths.LogDir, "runs.db")
}

// LogFilePath returns the file the logger appends to next to stdout.
func (c *Config) LogFilePath() string {
	return filepath.Join(c.Paths.LogDir, "reelcap.log")
}

// FFmpegBinary returns the ffmpeg executable used for compositing.
func (c *Config) FFmpegBinary() string {
	if bin := strings.TrimSpace(c.Render.FFmpegBinary); bin != "" {
		return bin
	}
	return "ffmpeg"
}

// FFprobeBinary returns the ffprobe executable used for media inspection.
func (c *Config) FFprobeBinary() string {
	if bin := strings.TrimSpace(c.Render.FFprobeBinary); bin != "" {
		return bin
	}
	return "ffprobe"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
