package compositor

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"reelcap/internal/decoration"
	"reelcap/internal/fileutil"
	"reelcap/internal/logging"
	"reelcap/internal/render"
	"reelcap/internal/services"
)

// CommandRunner executes an external command and returns its combined output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

const (
	defaultVideoCodec = "libx264"
	defaultAudioCodec = "aac"
	maxErrorOutput    = 2048
)

// Compositor drives ffmpeg.
type Compositor struct {
	ffmpegBinary  string
	logger        *slog.Logger
	commandRunner CommandRunner
}

// New creates a compositor that runs ffmpegBinary.
func New(ffmpegBinary string, logger *slog.Logger) *Compositor {
	if strings.TrimSpace(ffmpegBinary) == "" {
		ffmpegBinary = "ffmpeg"
	}
	return &Compositor{
		ffmpegBinary: ffmpegBinary,
		logger:       logging.NewComponentLogger(logger, "compositor"),
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (c *Compositor) WithCommandRunner(runner CommandRunner) {
	c.commandRunner = runner
}

// Compose writes overlay PNGs and the filter script into job.WorkDir and
// runs ffmpeg. The encode lands in the work directory first and is moved to
// job.OutputPath only once ffmpeg succeeds.
func (c *Compositor) Compose(ctx context.Context, job Job) error {
	if err := job.validate(); err != nil {
		return err
	}
	logger := logging.WithContext(ctx, c.logger)

	if err := os.MkdirAll(job.WorkDir, 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "compositor", "prepare", "create work directory", err)
	}
	if err := os.MkdirAll(filepath.Dir(job.OutputPath), 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "compositor", "prepare", "create output directory", err)
	}

	inputs, unique, err := writeOverlays(job.WorkDir, job.Overlays)
	if err != nil {
		return err
	}

	scriptPath := filepath.Join(job.WorkDir, "overlays.filter")
	script := buildFilterScript(inputs, job.ImagePath, job.ImageSeconds)
	if err := os.WriteFile(scriptPath, []byte(script), 0o644); err != nil {
		return services.Wrap(services.ErrConfiguration, "compositor", "prepare", "write filter script", err)
	}

	stagedPath := filepath.Join(job.WorkDir, "render"+filepath.Ext(job.OutputPath))
	args := buildArgs(job, scriptPath, stagedPath)
	logger.Info("composing video",
		logging.Int("overlays", len(inputs)),
		logging.Int("bitmaps", unique),
		logging.Float64("duration_seconds", job.Duration),
		logging.String("output", job.OutputPath),
	)
	logger.Debug("ffmpeg command", logging.String("command", c.ffmpegBinary+" "+strings.Join(args, " ")))

	started := time.Now()
	output, err := c.run(ctx, args...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return services.Wrap(services.ErrTimeout, "compositor", "ffmpeg", "encode interrupted", ctxErr)
		}
		return services.Wrap(services.ErrExternalTool, "compositor", "ffmpeg", trimOutput(output), err)
	}
	if err := fileutil.MoveFile(stagedPath, job.OutputPath); err != nil {
		return services.Wrap(services.ErrExternalTool, "compositor", "publish", "move encoded video into place", err)
	}
	logger.Info("video encoded",
		logging.Duration("elapsed", time.Since(started)),
		logging.String("output", job.OutputPath),
	)
	return nil
}

func (c *Compositor) run(ctx context.Context, args ...string) ([]byte, error) {
	if c.commandRunner != nil {
		return c.commandRunner(ctx, c.ffmpegBinary, args...)
	}
	return exec.CommandContext(ctx, c.ffmpegBinary, args...).CombinedOutput()
}

// writeOverlays saves each distinct bitmap once and returns the overlay
// inputs in draw order plus the number of files written.
func writeOverlays(dir string, overlays []decoration.Decoration) ([]overlayInput, int, error) {
	inputs := make([]overlayInput, 0, len(overlays))
	written := make(map[string]string)
	for _, d := range overlays {
		sum := bitmapDigest(d)
		path, ok := written[sum]
		if !ok {
			path = filepath.Join(dir, fmt.Sprintf("overlay_%04d.png", len(written)))
			if err := render.WritePNG(d, path); err != nil {
				return nil, 0, services.Wrap(services.ErrConfiguration, "compositor", "write overlay", "", err)
			}
			written[sum] = path
		}
		inputs = append(inputs, overlayInput{path: path, decoration: d})
	}
	return inputs, len(written), nil
}

func bitmapDigest(d decoration.Decoration) string {
	h := sha256.New()
	var dims [16]byte
	b := d.Bitmap.Bounds()
	binary.LittleEndian.PutUint32(dims[0:], uint32(b.Min.X))
	binary.LittleEndian.PutUint32(dims[4:], uint32(b.Min.Y))
	binary.LittleEndian.PutUint32(dims[8:], uint32(b.Dx()))
	binary.LittleEndian.PutUint32(dims[12:], uint32(b.Dy()))
	h.Write(dims[:])
	h.Write(d.Bitmap.Pix)
	return hex.EncodeToString(h.Sum(nil))
}

func buildArgs(job Job, scriptPath, outputPath string) []string {
	args := []string{"-y", "-hide_banner", "-loglevel", "error"}
	if job.Duration > 0 {
		args = append(args, "-stream_loop", "-1")
	}
	args = append(args, "-i", job.BaseVideo)
	if job.AudioPath != "" {
		args = append(args, "-i", job.AudioPath)
	}
	args = append(args, "-filter_complex_script", scriptPath, "-map", "[vout]")
	if job.AudioPath != "" {
		args = append(args, "-map", "1:a:0")
	}
	if job.Duration > 0 {
		args = append(args, "-t", formatSeconds(job.Duration))
	}
	if job.FPS > 0 {
		args = append(args, "-r", strconv.FormatFloat(job.FPS, 'f', -1, 64))
	}
	videoCodec := strings.TrimSpace(job.VideoCodec)
	if videoCodec == "" {
		videoCodec = defaultVideoCodec
	}
	args = append(args, "-c:v", videoCodec, "-pix_fmt", "yuv420p")
	if job.AudioPath != "" {
		audioCodec := strings.TrimSpace(job.AudioCodec)
		if audioCodec == "" {
			audioCodec = defaultAudioCodec
		}
		args = append(args, "-c:a", audioCodec)
	}
	if job.Threads > 0 {
		args = append(args, "-threads", strconv.Itoa(job.Threads))
	}
	return append(args, outputPath)
}

func trimOutput(output []byte) string {
	text := strings.TrimSpace(string(output))
	if len(text) > maxErrorOutput {
		text = "..." + text[len(text)-maxErrorOutput:]
	}
	if text == "" {
		return "ffmpeg failed without output"
	}
	return text
}
