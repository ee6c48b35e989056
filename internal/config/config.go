package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Fonts contains configuration for the font index and name matching.
type Fonts struct {
	Dirs          []string `toml:"dirs"`
	ForceExact    bool     `toml:"force_exact"`
	Ignore        []string `toml:"ignore"`
	SmartSuffixes []string `toml:"smart_suffixes"`
	CacheEnabled  bool     `toml:"cache_enabled"`
	CachePath     string   `toml:"cache_path"`
}

// Subset contains configuration for font subsetting and obfuscation.
type Subset struct {
	Enabled          bool   `toml:"enabled"`
	Engine           string `toml:"engine"`
	PyftsubsetBinary string `toml:"pyftsubset_binary"`
	IdentifierLength int    `toml:"identifier_length"`
	TimeoutSeconds   int    `toml:"timeout_seconds"`
}

// Mux contains configuration for the mkvmerge invocation.
type Mux struct {
	MkvmergeBinary   string `toml:"mkvmerge_binary"`
	Overwrite        bool   `toml:"overwrite"`
	OutputDir        string `toml:"output_dir"`
	Language         string `toml:"language"`
	LanguageFromName bool   `toml:"language_from_name"`
	TimeoutSeconds   int    `toml:"timeout_seconds"`
}

// Run contains configuration for per-run scratch state.
type Run struct {
	ScratchDir string `toml:"scratch_dir"`
	RemoveTemp bool   `toml:"remove_temp"`
}

// Subtitles contains configuration for subtitle discovery and decoding.
type Subtitles struct {
	Extensions       []string `toml:"extensions"`
	FallbackEncoding string   `toml:"fallback_encoding"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format   string `toml:"format"`
	Level    string `toml:"level"`
	Save     bool   `toml:"save"`
	FileName string `toml:"file_name"`
}

// Config encapsulates all configuration values for fontmux.
//
// Configuration sections by subsystem:
//   - Fonts: scan directories, matching rules, index cache
//   - Subset: subsetting engine and obfuscated name length
//   - Mux: mkvmerge binary, output placement, subtitle language
//   - Run: scratch directory handling
//   - Subtitles: discovery extensions and legacy encoding fallback
//   - Logging: log format, level, and optional log file
type Config struct {
	Fonts     Fonts     `toml:"fonts"`
	Subset    Subset    `toml:"subset"`
	Mux       Mux       `toml:"mux"`
	Run       Run       `toml:"run"`
	Subtitles Subtitles `toml:"subtitles"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized. A missing file yields defaults.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// Finalize re-applies normalization and validation after callers (usually
// command-line flags) have modified a loaded config.
func (c *Config) Finalize() error {
	if err := c.normalize(); err != nil {
		return err
	}
	return c.Validate()
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("fontmux.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// SubsetEnabled reports whether matched fonts are subset and renamed before
// attaching.
func (c *Config) SubsetEnabled() bool {
	return c.Subset.Enabled
}

// NativeSubset reports whether the built-in subsetting engine replaces pyftsubset.
func (c *Config) NativeSubset() bool {
	return c.Subset.Engine == EngineNative
}
