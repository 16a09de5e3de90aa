package workflow

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/gofrs/flock"

	"reelcap/internal/config"
	"reelcap/internal/logging"
	"reelcap/internal/runstore"
	"reelcap/internal/services"
	"reelcap/internal/testsupport"
)

const sampleTranscript = `{"segments":[{"start":0,"end":1.6,"words":[
  {"word":"Hello","start":0.0,"end":0.4},
  {"word":"there","start":0.4,"end":0.8},
  {"word":"from","start":0.8,"end":1.1},
  {"word":"reelcap","start":1.1,"end":1.6}
]}]}`

type ffmpegCall struct {
	mu   sync.Mutex
	args []string
}

func (c *ffmpegCall) runner(_ context.Context, _ string, args ...string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.args = append([]string(nil), args...)
	output := args[len(args)-1]
	if err := os.WriteFile(output, []byte("video"), 0o644); err != nil {
		return nil, err
	}
	return nil, nil
}

func probeRunner(_ context.Context, _ string, args ...string) ([]byte, error) {
	path := args[len(args)-1]
	if strings.HasSuffix(path, ".mp4") {
		return []byte(`{"streams":[{"codec_type":"video","width":1080,"height":1920,"r_frame_rate":"30/1"}],"format":{"duration":"60.0"}}`), nil
	}
	return []byte(`{"streams":[{"codec_type":"audio","duration":"2.0"}],"format":{"duration":"2.0"}}`), nil
}

type fixture struct {
	cfg        *config.Config
	store      *runstore.Store
	generator  *Generator
	ffmpeg     *ffmpegCall
	transcript string
	audio      string
}

func newFixture(t *testing.T, opts ...testsupport.ConfigOption) *fixture {
	t.Helper()
	opts = append([]testsupport.ConfigOption{testsupport.WithStubbedBinaries()}, opts...)
	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)

	testsupport.WriteBaseVideo(t, cfg.Paths.VideoDir, cfg.Render.BaseVideo)
	transcriptPath := testsupport.WriteFile(t, filepath.Join(base, "transcript.json"), []byte(sampleTranscript))
	audioPath := testsupport.WriteFile(t, filepath.Join(base, "voice.wav"), nil)

	store := testsupport.MustOpenStore(t, cfg)
	ffmpeg := &ffmpegCall{}
	gen := NewGenerator(cfg, store, logging.NewNop())
	gen.WithProbeRunner(probeRunner)
	gen.WithCommandRunner(ffmpeg.runner)
	return &fixture{cfg: cfg, store: store, generator: gen, ffmpeg: ffmpeg, transcript: transcriptPath, audio: audioPath}
}

func TestGenerateRendersAndRecordsRun(t *testing.T) {
	f := newFixture(t, testsupport.WithTestFont())
	ctx := context.Background()

	req := Request{
		Title:          "What: a day?",
		TranscriptPath: f.transcript,
		AudioPath:      f.audio,
	}
	result, err := f.generator.Generate(ctx, req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	wantOutput := filepath.Join(f.cfg.Paths.OutputDir, "What- a day.mp4")
	if result.OutputPath != wantOutput {
		t.Fatalf("output path = %q, want %q", result.OutputPath, wantOutput)
	}
	if _, err := os.Stat(wantOutput); err != nil {
		t.Fatalf("expected rendered output: %v", err)
	}
	if result.Duration != 2.5 {
		t.Fatalf("duration = %v, want audio plus tail padding", result.Duration)
	}
	if result.Counts.Chunks == 0 || result.Counts.SubCaptions != 4 || result.Counts.Overlays == 0 {
		t.Fatalf("unexpected counts %+v", result.Counts)
	}

	args := strings.Join(f.ffmpeg.args, " ")
	for _, want := range []string{"-t 2.500", "-r 30", "-i " + f.audio, "-threads 8"} {
		if !strings.Contains(args, want) {
			t.Fatalf("ffmpeg args missing %q: %s", want, args)
		}
	}
	if !slices.Contains(f.ffmpeg.args, filepath.Join(f.cfg.Paths.VideoDir, f.cfg.Render.BaseVideo)) {
		t.Fatalf("expected base video input, got %v", f.ffmpeg.args)
	}

	run, err := f.store.Get(ctx, result.RunID)
	if err != nil {
		t.Fatalf("store.Get: %v", err)
	}
	if run.Status != runstore.StatusCompleted {
		t.Fatalf("status = %s, want completed", run.Status)
	}
	if run.SubCaptionCount != result.Counts.SubCaptions || run.OverlayCount != result.Counts.Overlays {
		t.Fatalf("recorded counts %d/%d do not match %+v", run.SubCaptionCount, run.OverlayCount, result.Counts)
	}
	if run.Title != "What: a day?" {
		t.Fatalf("title = %q", run.Title)
	}

	if _, err := os.Stat(filepath.Join(f.cfg.Paths.WorkDir, result.RunID)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected work dir cleanup, got %v", err)
	}
	if _, err := os.Stat(wantOutput + ".lock"); err != nil {
		t.Fatalf("expected lock file to stay on disk, got %v", err)
	}
	next := flock.New(wantOutput + ".lock")
	ok, err := next.TryLock()
	if err != nil || !ok {
		t.Fatalf("expected lock to be released after the run, got %v %v", ok, err)
	}
	_ = next.Unlock()

	again, err := f.generator.Generate(ctx, req)
	if err != nil {
		t.Fatalf("second Generate over the kept lock file: %v", err)
	}
	if again.OutputPath != wantOutput {
		t.Fatalf("second output = %q, want %q", again.OutputPath, wantOutput)
	}
}

func TestGenerateWithoutAudioUsesCaptionSpan(t *testing.T) {
	f := newFixture(t, testsupport.WithTestFont())

	result, err := f.generator.Generate(context.Background(), Request{
		Title:          "silent",
		TranscriptPath: f.transcript,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if math.Abs(result.Duration-2.1) > 1e-9 {
		t.Fatalf("duration = %v, want last word end plus tail padding", result.Duration)
	}
	if slices.Contains(f.ffmpeg.args, "-c:a") {
		t.Fatalf("did not expect an audio codec without audio: %v", f.ffmpeg.args)
	}
}

func TestGenerateMarksInvalidRuns(t *testing.T) {
	tests := []struct {
		name   string
		font   bool
		edit   func(*testing.T, *fixture, *Request)
		marker error
	}{
		{
			name:   "missing font",
			font:   false,
			edit:   func(*testing.T, *fixture, *Request) {},
			marker: services.ErrConfiguration,
		},
		{
			name:   "missing video",
			font:   true,
			edit:   func(_ *testing.T, _ *fixture, r *Request) { r.Video = "nope.mp4" },
			marker: services.ErrNotFound,
		},
		{
			name:   "missing image",
			font:   true,
			edit:   func(_ *testing.T, f *fixture, r *Request) { r.ImagePath = filepath.Join(testsupport.BaseDir(f.cfg), "cover.png") },
			marker: services.ErrNotFound,
		},
		{
			name: "malformed transcript",
			font: true,
			edit: func(t *testing.T, f *fixture, _ *Request) {
				testsupport.WriteFile(t, f.transcript, []byte(`{"segments":[{"start":0,"end":2,"words":[{"word":"late","start":2,"end":1}]}]}`))
			},
			marker: services.ErrValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []testsupport.ConfigOption
			if tt.font {
				opts = append(opts, testsupport.WithTestFont())
			}
			f := newFixture(t, opts...)
			req := Request{Title: "clip", TranscriptPath: f.transcript, AudioPath: f.audio}
			tt.edit(t, f, &req)

			result, err := f.generator.Generate(context.Background(), req)
			if !errors.Is(err, tt.marker) {
				t.Fatalf("expected %v, got %v", tt.marker, err)
			}
			run, getErr := f.store.Get(context.Background(), result.RunID)
			if getErr != nil {
				t.Fatalf("store.Get: %v", getErr)
			}
			if run.Status != runstore.StatusInvalid {
				t.Fatalf("status = %s, want invalid", run.Status)
			}
			if run.ErrorMessage == "" {
				t.Fatal("expected error message to be recorded")
			}
			if f.ffmpeg.args != nil {
				t.Fatalf("ffmpeg should not run, got %v", f.ffmpeg.args)
			}
		})
	}
}

func TestGenerateRecordsToolFailure(t *testing.T) {
	f := newFixture(t, testsupport.WithTestFont())
	f.generator.WithCommandRunner(func(context.Context, string, ...string) ([]byte, error) {
		return []byte("Conversion failed!"), errors.New("exit status 1")
	})

	result, err := f.generator.Generate(context.Background(), Request{Title: "clip", TranscriptPath: f.transcript})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	run, err := f.store.Get(context.Background(), result.RunID)
	if err != nil {
		t.Fatalf("store.Get: %v", err)
	}
	if run.Status != runstore.StatusFailed || !strings.Contains(run.ErrorMessage, "Conversion failed!") {
		t.Fatalf("unexpected run %+v", run)
	}
}

func TestGenerateRejectsLockedOutput(t *testing.T) {
	f := newFixture(t, testsupport.WithTestFont())
	output, err := OutputPathFor(f.cfg.Paths.OutputDir, "clip")
	if err != nil {
		t.Fatalf("OutputPathFor: %v", err)
	}
	if err := os.MkdirAll(f.cfg.Paths.OutputDir, 0o755); err != nil {
		t.Fatalf("mkdir output: %v", err)
	}
	held := flock.New(output + ".lock")
	if ok, err := held.TryLock(); err != nil || !ok {
		t.Fatalf("TryLock: %v %v", ok, err)
	}
	defer held.Unlock()

	_, err = f.generator.Generate(context.Background(), Request{Title: "clip", TranscriptPath: f.transcript})
	if !errors.Is(err, services.ErrValidation) || !strings.Contains(err.Error(), "another run") {
		t.Fatalf("expected lock rejection, got %v", err)
	}
}

func TestGenerateRequiresUsableTitle(t *testing.T) {
	f := newFixture(t, testsupport.WithTestFont())
	_, err := f.generator.Generate(context.Background(), Request{Title: "???", TranscriptPath: f.transcript})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	runs, err := f.store.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("store.List: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected no run to be recorded, got %d", len(runs))
	}
}

func TestResolveVideo(t *testing.T) {
	dir := t.TempDir()
	clip := filepath.Join(dir, "base.mp4")
	if err := os.WriteFile(clip, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if got, err := ResolveVideo(clip, ""); err != nil || got != clip {
		t.Fatalf("ResolveVideo(path) = %q, %v", got, err)
	}
	if got, err := ResolveVideo("base.mp4", dir); err != nil || got != clip {
		t.Fatalf("ResolveVideo(name) = %q, %v", got, err)
	}
	if _, err := ResolveVideo("other.mp4", dir); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := ResolveVideo(" ", dir); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
