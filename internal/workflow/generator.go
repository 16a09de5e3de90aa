package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"reelcap/internal/compositor"
	"reelcap/internal/config"
	"reelcap/internal/decoration"
	"reelcap/internal/logging"
	"reelcap/internal/media/ffprobe"
	"reelcap/internal/overlay"
	"reelcap/internal/preflight"
	"reelcap/internal/render"
	"reelcap/internal/runstore"
	"reelcap/internal/services"
	"reelcap/internal/textmetrics"
	"reelcap/internal/transcript"
)

// Request describes one video to generate. Video defaults to the configured
// base video and OutputPath to <output_dir>/<title>.mp4.
type Request struct {
	Title          string
	TranscriptPath string
	AudioPath      string
	ImagePath      string
	Video          string
	OutputPath     string
}

// Result summarizes a completed run.
type Result struct {
	RunID      string
	OutputPath string
	Counts     overlay.Counts
	Duration   float64
	Elapsed    time.Duration
}

// Generator runs caption generations against a run store.
type Generator struct {
	cfg    *config.Config
	store  *runstore.Store
	logger *slog.Logger

	probeRunner   ffprobe.Runner
	commandRunner compositor.CommandRunner
	newID         func() string
}

// NewGenerator constructs a generator. store may be nil, in which case runs
// are not recorded.
func NewGenerator(cfg *config.Config, store *runstore.Store, logger *slog.Logger) *Generator {
	return &Generator{
		cfg:         cfg,
		store:       store,
		logger:      logging.NewComponentLogger(logger, "workflow"),
		probeRunner: ffprobe.ExecRunner,
		newID:       uuid.NewString,
	}
}

// WithProbeRunner replaces the ffprobe runner (for testing).
func (g *Generator) WithProbeRunner(runner ffprobe.Runner) {
	if runner != nil {
		g.probeRunner = runner
	}
}

// WithCommandRunner replaces the ffmpeg runner used by the compositor (for testing).
func (g *Generator) WithCommandRunner(runner compositor.CommandRunner) {
	g.commandRunner = runner
}

type media struct {
	frame    overlay.Frame
	fps      float64
	duration float64
}

// Generate runs one caption generation.
func (g *Generator) Generate(ctx context.Context, req Request) (Result, error) {
	started := time.Now()
	runID := g.newID()
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, g.logger)

	outputPath := strings.TrimSpace(req.OutputPath)
	if outputPath == "" {
		path, err := OutputPathFor(g.cfg.Paths.OutputDir, req.Title)
		if err != nil {
			return Result{RunID: runID}, err
		}
		outputPath = path
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(outputPath), filepath.Ext(outputPath))
	}

	if err := g.createRun(ctx, runstore.Run{
		ID:             runID,
		Title:          title,
		TranscriptPath: req.TranscriptPath,
		VideoPath:      g.videoName(req),
		AudioPath:      req.AudioPath,
		ImagePath:      req.ImagePath,
		OutputPath:     outputPath,
	}); err != nil {
		return Result{RunID: runID}, err
	}

	result, err := g.generate(ctx, logger, req, outputPath)
	result.RunID = runID
	result.OutputPath = outputPath
	if err != nil {
		status := services.FailureStatus(err)
		logging.ErrorWithContext(logger, "generation failed", "run_failed",
			logging.String("status", string(status)),
			logging.Error(err),
		)
		g.failRun(ctx, runID, status, err)
		return result, err
	}

	if g.store != nil {
		if err := g.store.Complete(ctx, runID); err != nil {
			logging.WarnWithContext(logger, "failed to mark run completed", "runstore_update_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "run history shows the run as rendering"),
			)
		}
	}
	result.Elapsed = time.Since(started)
	logger.Info("done",
		logging.String(logging.FieldEventType, "run_completed"),
		logging.Duration("elapsed", result.Elapsed),
		logging.String("output", outputPath),
	)
	return result, nil
}

func (g *Generator) generate(ctx context.Context, logger *slog.Logger, req Request, outputPath string) (Result, error) {
	cfg := g.cfg
	if err := cfg.EnsureDirectories(); err != nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "workflow", "prepare", "", err)
	}

	lock := flock.New(outputPath + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "workflow", "lock output", "", err)
	}
	if !locked {
		return Result{}, services.Wrap(services.ErrValidation, "workflow", "lock output",
			fmt.Sprintf("%s is being rendered by another run", outputPath), nil)
	}
	// The lock file is never removed; every run locks the same inode.
	defer lock.Unlock()

	fonts := textmetrics.NewOpenType()
	defer fonts.Close()
	if err := preflight.Err(preflight.RunAll(ctx, cfg, fonts)); err != nil {
		return Result{}, err
	}

	planStarted := time.Now()
	ctx = services.WithStage(ctx, string(runstore.StatusPlanning))
	g.advance(ctx, logger, runstore.StatusPlanning)

	videoPath, err := ResolveVideo(g.videoName(req), cfg.Paths.VideoDir)
	if err != nil {
		return Result{}, err
	}
	if err := requireFile("transcript", req.TranscriptPath); err != nil {
		return Result{}, err
	}
	for kind, path := range map[string]string{"audio": req.AudioPath, "image": req.ImagePath} {
		if path == "" {
			continue
		}
		if err := requireFile(kind, path); err != nil {
			return Result{}, err
		}
	}

	segments, err := transcript.Load(req.TranscriptPath)
	if err != nil {
		return Result{}, err
	}
	info, err := g.probe(ctx, videoPath, req.AudioPath, segments)
	if err != nil {
		return Result{}, err
	}

	fontPath, err := textmetrics.ResolveFont(cfg.Captions.Font, cfg.Paths.FontDir)
	if err != nil {
		return Result{}, err
	}
	engine, err := overlay.NewEngine(fonts, render.New(fonts), overlay.StyleFromConfig(cfg.Captions, fontPath),
		overlay.Options{LayoutMaxEntries: cfg.Cache.LayoutMaxEntries, ShadowMaxEntries: cfg.Cache.ShadowMaxEntries},
		g.logger)
	if err != nil {
		return Result{}, err
	}
	plan, err := engine.Build(ctx, segments, info.frame)
	if err != nil {
		return Result{}, err
	}
	counts := plan.Counts()
	g.recordCounts(ctx, logger, counts)

	layoutStats, shadowStats := engine.CacheStats()
	logger.Info("generated",
		logging.String(logging.FieldEventType, "plan_built"),
		logging.Int("chunks", counts.Chunks),
		logging.Int("sub_captions", counts.SubCaptions),
		logging.Int("overlays", counts.Overlays),
		logging.Int64("layout_hits", layoutStats.Hits),
		logging.Int64("shadow_hits", shadowStats.Hits),
		logging.Duration("elapsed", time.Since(planStarted)),
	)

	renderStarted := time.Now()
	ctx = services.WithStage(ctx, string(runstore.StatusRendering))
	g.advance(ctx, logger, runstore.StatusRendering)

	runID, _ := services.RunIDFromContext(ctx)
	workDir := filepath.Join(cfg.Paths.WorkDir, runID)
	defer os.RemoveAll(workDir)

	comp := compositor.New(cfg.FFmpegBinary(), g.logger)
	if g.commandRunner != nil {
		comp.WithCommandRunner(g.commandRunner)
	}
	job := compositor.Job{
		BaseVideo:    videoPath,
		AudioPath:    req.AudioPath,
		ImagePath:    req.ImagePath,
		ImageSeconds: cfg.Render.ImageOverlaySeconds,
		Overlays:     decorations(plan),
		FPS:          info.fps,
		Duration:     info.duration,
		OutputPath:   outputPath,
		WorkDir:      workDir,
		VideoCodec:   cfg.Render.VideoCodec,
		AudioCodec:   cfg.Render.AudioCodec,
		Threads:      cfg.Render.Threads,
	}
	if err := comp.Compose(ctx, job); err != nil {
		return Result{}, err
	}
	logger.Info("rendered",
		logging.String(logging.FieldEventType, "video_rendered"),
		logging.Duration("elapsed", time.Since(renderStarted)),
	)

	return Result{Counts: counts, Duration: info.duration}, nil
}

// probe reads the frame geometry from the base video and the run duration
// from the audio track. Without audio the captions set the duration.
func (g *Generator) probe(ctx context.Context, videoPath, audioPath string, segments []transcript.Segment) (media, error) {
	binary := g.cfg.FFprobeBinary()
	video, err := ffprobe.InspectWith(ctx, g.probeRunner, binary, videoPath)
	if err != nil {
		return media{}, services.Wrap(services.ErrExternalTool, "workflow", "probe video", "", err)
	}
	width, height, ok := video.VideoDimensions()
	if !ok {
		return media{}, services.Wrap(services.ErrValidation, "workflow", "probe video",
			fmt.Sprintf("%s has no video stream", videoPath), nil)
	}
	info := media{frame: overlay.Frame{Width: width, Height: height}, fps: video.FrameRate()}

	if audioPath != "" {
		audio, err := ffprobe.InspectWith(ctx, g.probeRunner, binary, audioPath)
		if err != nil {
			return media{}, services.Wrap(services.ErrExternalTool, "workflow", "probe audio", "", err)
		}
		if audio.AudioStreamCount() == 0 {
			return media{}, services.Wrap(services.ErrValidation, "workflow", "probe audio",
				fmt.Sprintf("%s has no audio stream", audioPath), nil)
		}
		info.duration = audio.DurationSeconds() + g.cfg.Render.TailPaddingSeconds
		return info, nil
	}
	_, end, _ := transcript.Span(segments)
	info.duration = end + g.cfg.Render.TailPaddingSeconds
	return info, nil
}

func (g *Generator) videoName(req Request) string {
	if v := strings.TrimSpace(req.Video); v != "" {
		return v
	}
	return g.cfg.Render.BaseVideo
}

// decorations lists the plan's bitmaps in draw order.
func decorations(plan overlay.Plan) []decoration.Decoration {
	out := make([]decoration.Decoration, 0, len(plan.Overlays))
	for _, d := range plan.Overlays {
		out = append(out, d.Decoration)
	}
	return out
}
