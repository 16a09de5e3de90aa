package preflight

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reelcap/internal/services"
	"reelcap/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckFreeSpace(t *testing.T) {
	dir := t.TempDir()
	if result := CheckFreeSpace("space", dir, 1); !result.Passed {
		t.Fatalf("expected at least one free byte: %s", result.Detail)
	}
	result := CheckFreeSpace("space", dir, math.MaxUint64)
	if result.Passed || !strings.Contains(result.Detail, "need") {
		t.Fatalf("expected shortfall, got %+v", result)
	}
	if result := CheckFreeSpace("space", filepath.Join(dir, "missing"), 1); result.Passed {
		t.Fatal("expected failure for missing path")
	}
}

func TestCheckFont(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithTestFont())
	if result := CheckFont(cfg, nil); !result.Passed {
		t.Fatalf("expected font to pass: %s", result.Detail)
	}

	cfg.Captions.Font = "Missing.ttf"
	if result := CheckFont(cfg, nil); result.Passed {
		t.Fatal("expected missing font to fail")
	}
}

func TestRunAllPassesWithStubs(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithTestFont(), testsupport.WithStubbedBinaries())
	cfg.Render.FFmpegBinary = ""
	cfg.Render.FFprobeBinary = ""
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	results := RunAll(context.Background(), cfg, nil)
	if len(results) != 6 {
		t.Fatalf("expected 6 results, got %d: %+v", len(results), results)
	}
	if err := Err(results); err != nil {
		t.Fatalf("expected all checks to pass: %v", err)
	}
}

func TestRunAllReportsFailures(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Render.FFmpegBinary = "definitely-not-ffmpeg"

	err := Err(RunAll(context.Background(), cfg, nil))
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	for _, want := range []string{"Output directory", "Caption font", "FFmpeg"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %v", want, err)
		}
	}
}

func TestRunAllNilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil, nil); results != nil {
		t.Fatalf("expected nil results, got %+v", results)
	}
}
