package preflight

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fontmux/internal/config"
	"fontmux/internal/services"
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
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckDirectoryReadable("test", f); result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func writeStub(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCheckSystemDeps(t *testing.T) {
	bin := t.TempDir()
	cfg := config.Default()
	cfg.Mux.MkvmergeBinary = writeStub(t, bin, "mkvmerge")
	cfg.Subset.PyftsubsetBinary = filepath.Join(bin, "pyftsubset")

	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   []string
	}{
		{"pyftsubset engine", func(*config.Config) {}, []string{"mkvmerge", "pyftsubset"}},
		{"native engine", func(c *config.Config) { c.Subset.Engine = config.EngineNative }, []string{"mkvmerge"}},
		{"subset disabled", func(c *config.Config) { c.Subset.Enabled = false }, []string{"mkvmerge"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cfg
			tt.mutate(&c)
			statuses := CheckSystemDeps(&c)
			var got []string
			for _, s := range statuses {
				got = append(got, s.Name)
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Fatalf("requirements = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRunAllFailsOnMissingInputs(t *testing.T) {
	bin := t.TempDir()
	cfg := config.Default()
	cfg.Mux.MkvmergeBinary = writeStub(t, bin, "mkvmerge")
	cfg.Subset.PyftsubsetBinary = writeStub(t, bin, "pyftsubset")

	work := t.TempDir()
	results := RunAll(&cfg, Options{WorkDir: work})
	if err := Failed(results); err != nil {
		t.Fatalf("expected all checks to pass, got %v", err)
	}

	results = RunAll(&cfg, Options{
		WorkDir:      work,
		UserFontDirs: []string{filepath.Join(work, "missing-fonts")},
	})
	err := Failed(results)
	if err == nil || !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Font directory") {
		t.Fatalf("error should name the failing check: %v", err)
	}
}

func TestRunAllMissingMkvmerge(t *testing.T) {
	cfg := config.Default()
	cfg.Mux.MkvmergeBinary = filepath.Join(t.TempDir(), "mkvmerge")
	cfg.Subset.Enabled = false

	if err := Failed(RunAll(&cfg, Options{WorkDir: t.TempDir()})); err == nil {
		t.Fatal("expected failure when mkvmerge is missing")
	}
	if err := Failed(RunAll(&cfg, Options{WorkDir: t.TempDir(), ReportOnly: true})); err != nil {
		t.Fatalf("report-only runs should not need mkvmerge: %v", err)
	}
}
