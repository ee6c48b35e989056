package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"fontmux/internal/config"
)

func TestLoadDefaultConfig(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "fontmux", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if !cfg.Subset.Enabled {
		t.Fatal("expected subsetting enabled by default")
	}
	if cfg.Subset.Engine != config.EnginePyftsubset {
		t.Fatalf("unexpected engine %q", cfg.Subset.Engine)
	}
	if cfg.Subset.IdentifierLength != 10 {
		t.Fatalf("unexpected identifier length %d", cfg.Subset.IdentifierLength)
	}
	if cfg.Mux.Language != "chi" {
		t.Fatalf("unexpected language %q", cfg.Mux.Language)
	}
	if cfg.Mux.OutputDir != "output" {
		t.Fatalf("unexpected output dir %q", cfg.Mux.OutputDir)
	}
	if cfg.Run.ScratchDir != "temp_fonts_mux" {
		t.Fatalf("unexpected scratch dir %q", cfg.Run.ScratchDir)
	}
	if cfg.Logging.FileName != "mux.log" {
		t.Fatalf("unexpected log file name %q", cfg.Logging.FileName)
	}
	wantCache := filepath.Join(tempHome, ".cache", "fontmux", "fonts.db")
	if cfg.Fonts.CachePath != wantCache {
		t.Fatalf("unexpected cache path: got %q want %q", cfg.Fonts.CachePath, wantCache)
	}
	if len(cfg.Fonts.Dirs) != 0 {
		t.Fatalf("expected no configured font dirs, got %v", cfg.Fonts.Dirs)
	}
	if strings.Join(cfg.Fonts.Ignore, ",") != "default,arial,sans-serif" {
		t.Fatalf("unexpected ignore list %v", cfg.Fonts.Ignore)
	}
}

func TestLoadCustomConfigNormalizes(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg := config.Default()
	cfg.Fonts.Dirs = []string{"~/fonts", " ~/fonts ", ""}
	cfg.Fonts.SmartSuffixes = []string{"_GBK", "_gbk", " _Big5 "}
	cfg.Subset.Engine = " NATIVE "
	cfg.Mux.Language = "zh"
	cfg.Subtitles.Extensions = []string{"ASS", ".ssa"}
	cfg.Logging.Level = "DEBUG"

	payload, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	loaded, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected existing config at %q, got %q (exists=%v)", path, resolved, exists)
	}
	if len(loaded.Fonts.Dirs) != 1 || loaded.Fonts.Dirs[0] != filepath.Join(tempHome, "fonts") {
		t.Fatalf("unexpected font dirs %v", loaded.Fonts.Dirs)
	}
	if strings.Join(loaded.Fonts.SmartSuffixes, ",") != "_gbk,_big5" {
		t.Fatalf("unexpected suffixes %v", loaded.Fonts.SmartSuffixes)
	}
	if !loaded.NativeSubset() {
		t.Fatalf("expected native engine, got %q", loaded.Subset.Engine)
	}
	if loaded.Mux.Language != "chi" {
		t.Fatalf("expected zh to map to chi, got %q", loaded.Mux.Language)
	}
	if strings.Join(loaded.Subtitles.Extensions, ",") != ".ass,.ssa" {
		t.Fatalf("unexpected extensions %v", loaded.Subtitles.Extensions)
	}
	if loaded.Logging.Level != "debug" {
		t.Fatalf("unexpected level %q", loaded.Logging.Level)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"engine", func(c *config.Config) { c.Subset.Engine = "harfbuzz" }, "subset.engine"},
		{"identifier", func(c *config.Config) { c.Subset.IdentifierLength = 3 }, "subset.identifier_length"},
		{"language", func(c *config.Config) { c.Mux.Language = "chinese-simplified" }, "mux.language"},
		{"scratch", func(c *config.Config) { c.Run.ScratchDir = "a/b" }, "run.scratch_dir"},
		{"encoding", func(c *config.Config) { c.Subtitles.FallbackEncoding = "klingon-8" }, "subtitles.fallback_encoding"},
		{"format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"log file", func(c *config.Config) { c.Logging.FileName = "logs/mux.log" }, "logging.file_name"},
		{"same dirs", func(c *config.Config) { c.Mux.OutputDir = "temp_fonts_mux" }, "must differ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Finalize()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in error, got %v", tt.want, err)
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	if cfg.Subset.IdentifierLength != config.Default().Subset.IdentifierLength {
		t.Fatalf("sample drifted from defaults: %d", cfg.Subset.IdentifierLength)
	}
}
