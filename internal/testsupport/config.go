package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"fontmux/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Font scanning is limited to an empty fonts directory under the temp root
// and the index cache is disabled.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Fonts.Dirs = []string{filepath.Join(base, "fonts")}
	cfgVal.Fonts.CacheEnabled = false
	cfgVal.Fonts.CachePath = filepath.Join(base, "cache", "fonts.db")
	if err := os.MkdirAll(cfgVal.Fonts.Dirs[0], 0o755); err != nil {
		t.Fatalf("mkdir fonts dir: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.Finalize(); err != nil {
		t.Fatalf("finalize test config: %v", err)
	}
	return builder.cfg
}

// WithFontDirs replaces the scanned font directories.
func WithFontDirs(dirs ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Fonts.Dirs = append([]string(nil), dirs...)
	}
}

// WithCache enables the font index cache under the temp root.
func WithCache() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Fonts.CacheEnabled = true
	}
}

// WithSubsetDisabled attaches matched fonts unmodified.
func WithSubsetDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Subset.Enabled = false
	}
}

// WithNativeSubset selects the in-process subsetting engine.
func WithNativeSubset() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Subset.Engine = config.EngineNative
	}
}

// WithOverwrite replaces source containers in place.
func WithOverwrite() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Mux.Overwrite = true
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, mkvmerge and pyftsubset are
// stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"mkvmerge", "pyftsubset"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(filepath.Dir(cfg.Fonts.CachePath))
}

// FontDir returns the first configured font directory.
func FontDir(cfg *config.Config) string {
	if len(cfg.Fonts.Dirs) == 0 {
		return ""
	}
	return cfg.Fonts.Dirs[0]
}
