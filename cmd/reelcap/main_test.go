package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reelcap/internal/api"
	"reelcap/internal/overlay"
	"reelcap/internal/preflight"
	"reelcap/internal/testsupport"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.configPath)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected overwrite guard, got %v", err)
	}
}

func TestPlanCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"plan", env.transcript}, env.configPath)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	requireContains(t, out, "Highlight")
	requireContains(t, out, "captions")
	requireContains(t, out, "4 captions")
	requireContains(t, out, "on 1080x1920 (text width 980)")

	out, _, err = runCLI(t, []string{"plan", "--json", "--no-highlight", "--video", "base.mp4", env.transcript}, env.configPath)
	if err != nil {
		t.Fatalf("plan --json: %v", err)
	}
	var plan overlay.Plan
	if err := json.Unmarshal([]byte(out), &plan); err != nil {
		t.Fatalf("decode plan: %v\n%s", err, out)
	}
	if plan.Frame.Width != 720 || plan.Frame.Height != 1280 {
		t.Fatalf("expected probed frame, got %+v", plan.Frame)
	}
	if len(plan.SubCaptions) != len(plan.Chunks) {
		t.Fatalf("expected one caption per chunk without highlight, got %d/%d", len(plan.SubCaptions), len(plan.Chunks))
	}
	for _, sc := range plan.SubCaptions {
		if sc.HighlightIndex != -1 {
			t.Fatalf("unexpected highlight %+v", sc)
		}
	}
}

func TestRenderAndRunHistory(t *testing.T) {
	env := setupCLITestEnv(t)
	audio := testsupport.WriteFile(t, filepath.Join(env.baseDir, "voice.wav"), nil)

	out, _, err := runCLI(t, []string{"render", "--json", "--title", "Short clip", "--transcript", env.transcript, "--audio", audio}, env.configPath)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var result renderOutput
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode render output: %v\n%s", err, out)
	}
	wantOutput := filepath.Join(env.cfg.Paths.OutputDir, "Short clip.mp4")
	if result.Output != wantOutput || result.SubCaptions != 4 || result.Duration != 2.0 {
		t.Fatalf("unexpected render result %+v", result)
	}
	if _, err := os.Stat(wantOutput); err != nil {
		t.Fatalf("expected output video: %v", err)
	}

	out, _, err = runCLI(t, []string{"runs", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("runs list: %v", err)
	}
	requireContains(t, out, "Short clip")
	requireContains(t, out, "completed")

	out, _, err = runCLI(t, []string{"runs", "show", "--json", result.RunID}, env.configPath)
	if err != nil {
		t.Fatalf("runs show: %v", err)
	}
	var run api.RunResponse
	if err := json.Unmarshal([]byte(out), &run); err != nil {
		t.Fatalf("decode run: %v", err)
	}
	if run.Status != "completed" || run.AudioPath != audio || run.SubCaptionCount != 4 {
		t.Fatalf("unexpected run %+v", run)
	}

	out, _, err = runCLI(t, []string{"runs", "list", "--status", "failed"}, env.configPath)
	if err != nil {
		t.Fatalf("runs list --status: %v", err)
	}
	requireContains(t, out, "No runs recorded")

	if _, _, err := runCLI(t, []string{"runs", "list", "--status", "bogus"}, env.configPath); err == nil {
		t.Fatal("expected unknown status error")
	}
}

func TestRenderRequiresInputs(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"render", "--title", "x"}, env.configPath); err == nil || !strings.Contains(err.Error(), "--transcript") {
		t.Fatalf("expected transcript error, got %v", err)
	}
	if _, _, err := runCLI(t, []string{"render", "--transcript", env.transcript}, env.configPath); err == nil || !strings.Contains(err.Error(), "--title") {
		t.Fatalf("expected title error, got %v", err)
	}
}

func TestDoctorCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"doctor"}, env.configPath)
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	requireContains(t, out, "reelcap readiness")
	requireContains(t, out, "Caption font:")
	requireContains(t, out, "[OK]")

	if err := os.Remove(filepath.Join(env.cfg.Paths.VideoDir, env.cfg.Render.BaseVideo)); err != nil {
		t.Fatalf("remove base video: %v", err)
	}
	out, _, err = runCLI(t, []string{"doctor", "--json"}, env.configPath)
	if err == nil {
		t.Fatal("expected doctor to fail without a base video")
	}
	var results []preflight.Result
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("decode doctor output: %v", err)
	}
	last := results[len(results)-1]
	if last.Name != "Base video" || last.Passed {
		t.Fatalf("unexpected base video result %+v", last)
	}
}
