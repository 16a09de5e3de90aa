package logging_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reelcap/internal/config"
	"reelcap/internal/logging"
	"reelcap/internal/services"
)

func tempLogPath(t *testing.T) (string, func() string) {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "out.log")
	read := func() string {
		content, err := os.ReadFile(logPath)
		if err != nil {
			t.Fatalf("read log file: %v", err)
		}
		return string(content)
	}
	return logPath, read
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Logging.Format = "json"

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello from config")

	content, err := os.ReadFile(cfg.LogFilePath())
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "hello from config") {
		t.Fatalf("expected message in log file, got %q", content)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath, read := tempLogPath(t)
	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message without caller")

	if content := read(); strings.Contains(content, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath, read := tempLogPath(t)
	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "debug",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message with caller")

	if content := read(); !strings.Contains(content, "logger_test.go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestConsoleLoggerFormatsComponentAndFields(t *testing.T) {
	logPath, read := tempLogPath(t)
	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	component := logging.NewComponentLogger(logger, "layout")
	component.Info("wrapped text", logging.Int("lines", 2), logging.String("text", "hello world"))

	content := read()
	for _, want := range []string{"INFO layout: wrapped text", "lines=2", `text="hello world"`} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in %q", want, content)
		}
	}
	if strings.Contains(content, "component=") {
		t.Fatalf("component should be promoted to prefix, got %q", content)
	}
}

func TestNoticeLevelLabel(t *testing.T) {
	logPath, read := tempLogPath(t)
	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.Notice(logger, "word exceeds frame", "word_overflow", logging.String("word", "supercalifragilistic"))

	content := read()
	if !strings.Contains(content, "NOTICE word exceeds frame") {
		t.Fatalf("expected NOTICE label, got %q", content)
	}
	if !strings.Contains(content, "event_type=word_overflow") {
		t.Fatalf("expected event_type field, got %q", content)
	}
}

func TestNoticeSuppressedAtWarnLevel(t *testing.T) {
	logPath, read := tempLogPath(t)
	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "warn",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.Notice(logger, "hidden", "word_overflow")
	logger.Warn("visible")

	content := read()
	if strings.Contains(content, "hidden") {
		t.Fatalf("notice should be filtered at warn level, got %q", content)
	}
	if !strings.Contains(content, "visible") {
		t.Fatalf("expected warn line, got %q", content)
	}
}

func TestJSONLoggerIncludesContextFields(t *testing.T) {
	logPath, read := tempLogPath(t)
	logger, err := logging.New(logging.Options{
		Format:      "json",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithRunID(context.Background(), "run-42")
	ctx = services.WithStage(ctx, "planning")
	ctx = services.WithRequestID(ctx, "req-7")
	logging.WithContext(ctx, logger).Info("planned")

	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(read())), &entry); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if entry["msg"] != "planned" || entry["level"] != "info" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if entry[logging.FieldRunID] != "run-42" || entry[logging.FieldStage] != "planning" || entry[logging.FieldCorrelationID] != "req-7" {
		t.Fatalf("missing context fields: %v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts key: %v", entry)
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	logPath, read := tempLogPath(t)
	logger, err := logging.New(logging.Options{
		Format:      "json",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.WarnWithContext(logger, "preflight degraded", "preflight_warning",
		logging.String(logging.FieldImpact, "render may fail"),
		logging.Error(errors.New("low disk")),
	)

	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(read())), &entry); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if entry[logging.FieldEventType] != "preflight_warning" {
		t.Fatalf("event_type = %v", entry[logging.FieldEventType])
	}
	if entry[logging.FieldErrorHint] != "check logs for details" {
		t.Fatalf("error_hint = %v", entry[logging.FieldErrorHint])
	}
	if entry[logging.FieldImpact] != "render may fail" {
		t.Fatalf("impact should keep caller value, got %v", entry[logging.FieldImpact])
	}
	if entry["error"] != "low disk" {
		t.Fatalf("error = %v", entry["error"])
	}
	if entry["level"] != "warn" {
		t.Fatalf("level = %v", entry["level"])
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), logging.LevelNotice) {
		t.Fatal("nop logger should not be enabled")
	}
	logging.Notice(nil, "ignored", "noop")
	logging.WarnWithContext(nil, "ignored", "noop")
}
