package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content to path, creating parent directories, and
// returns path. Media stand-ins only need to exist; ffprobe and ffmpeg are
// faked in tests.
func WriteFile(t testing.TB, path string, content []byte) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if len(content) == 0 {
		content = []byte{0x42}
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteBaseVideo places a stand-in for the configured base video in the
// video directory.
func WriteBaseVideo(t testing.TB, videoDir, name string) string {
	t.Helper()
	return WriteFile(t, filepath.Join(videoDir, name), []byte("base video"))
}
