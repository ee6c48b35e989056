package logging_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fontmux/internal/config"
	"fontmux/internal/logging"
	"fontmux/internal/services"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return string(content)
}

func TestConsoleLoggerFormatsComponentAndFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.NewComponentLogger(logger, "matcher").Info("font resolved",
		logging.String("font", "Noto Sans"),
		logging.Int("glyphs", 12),
	)

	content := readFile(t, logPath)
	if !strings.Contains(content, "INFO matcher: font resolved") {
		t.Fatalf("expected level, component and message, got %q", content)
	}
	if !strings.Contains(content, `font="Noto Sans"`) || !strings.Contains(content, "glyphs=12") {
		t.Fatalf("expected quoted fields, got %q", content)
	}
	if strings.Contains(content, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "debug.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("message with caller")
	if content := readFile(t, logPath); !strings.Contains(content, ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestLogFileCarriesSessionID(t *testing.T) {
	dir := t.TempDir()
	consolePath := filepath.Join(dir, "console.log")
	filePath := filepath.Join(dir, "mux.log")
	logger, err := logging.New(logging.Options{
		Format:      "json",
		Level:       "info",
		OutputPaths: []string{consolePath},
		LogFile:     filePath,
		SessionID:   "run-42",
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Warn("subtitle missing", logging.Error(errors.New("no match")))

	console := readFile(t, consolePath)
	file := readFile(t, filePath)
	if strings.Contains(console, "run-42") {
		t.Fatalf("expected console output without session id, got %q", console)
	}
	if !strings.Contains(file, `"session_id":"run-42"`) {
		t.Fatalf("expected session id in log file, got %q", file)
	}
	if !strings.Contains(file, `"level":"warn"`) {
		t.Fatalf("expected lowercase level in json output, got %q", file)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewFromConfigWritesLogFileWhenSaving(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Save = true
	workDir := t.TempDir()

	logger, err := logging.NewFromConfig(&cfg, workDir, "session")
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello")

	if content := readFile(t, filepath.Join(workDir, "mux.log")); !strings.Contains(content, "hello") {
		t.Fatalf("expected record in mux.log, got %q", content)
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "warn.log")
	logger, err := logging.New(logging.Options{Format: "json", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "font missing", "font_missing", logging.String(logging.FieldImpact, "font not attached"))

	content := readFile(t, logPath)
	for _, fragment := range []string{`"event_type":"font_missing"`, `"error_hint":"check logs for details"`, `"impact":"font not attached"`} {
		if !strings.Contains(content, fragment) {
			t.Fatalf("expected %s in %q", fragment, content)
		}
	}
}

func TestWithContextAddsFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "ctx.log")
	logger, err := logging.New(logging.Options{Format: "json", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := context.Background()
	ctx = services.WithContainer(ctx, "ep01.mkv")
	ctx = services.WithStage(ctx, "match")
	logging.WithContext(ctx, logger).Info("contextual log")

	content := readFile(t, logPath)
	if !strings.Contains(content, `"container":"ep01.mkv"`) || !strings.Contains(content, `"stage":"match"`) {
		t.Fatalf("expected context fields, got %q", content)
	}
}
