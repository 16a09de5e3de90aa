package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"reelcap/internal/config"
	"reelcap/internal/testsupport"
)

const fakeFFprobe = `#!/bin/sh
for last; do :; done
case "$last" in
  *.mp4) echo '{"streams":[{"codec_type":"video","width":720,"height":1280,"r_frame_rate":"25/1"}],"format":{"duration":"30"}}' ;;
  *) echo '{"streams":[{"codec_type":"audio"}],"format":{"duration":"1.5"}}' ;;
esac
`

const fakeFFmpeg = `#!/bin/sh
for last; do :; done
: > "$last"
`

const cliTranscript = `{"words":[
  {"word":"Short","start":0.0,"end":0.3},
  {"word":"clips","start":0.3,"end":0.6},
  {"word":"need","start":0.6,"end":0.8},
  {"word":"captions","start":0.8,"end":1.3}
]}`

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
	transcript string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, testsupport.WithTestFont(), testsupport.WithStubbedBinaries())
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	binDir := filepath.Join(base, "bin")
	writeExecutable(t, filepath.Join(binDir, "ffprobe"), fakeFFprobe)
	writeExecutable(t, filepath.Join(binDir, "ffmpeg"), fakeFFmpeg)

	testsupport.WriteBaseVideo(t, cfg.Paths.VideoDir, cfg.Render.BaseVideo)
	transcriptPath := testsupport.WriteFile(t, filepath.Join(base, "transcript.json"), []byte(cliTranscript))

	configPath := filepath.Join(homeDir, ".config", "reelcap", "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base, transcript: transcriptPath}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func writeExecutable(t *testing.T, path, script string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
