package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
)

const (
	minIdentifierLength = 6
	maxIdentifierLength = 63
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSubset(); err != nil {
		return err
	}
	if err := c.validateMux(); err != nil {
		return err
	}
	if err := c.validateRun(); err != nil {
		return err
	}
	if err := c.validateSubtitles(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSubset() error {
	switch c.Subset.Engine {
	case EnginePyftsubset, EngineNative:
	default:
		return fmt.Errorf("subset.engine: unsupported value %q (want %q or %q)", c.Subset.Engine, EnginePyftsubset, EngineNative)
	}
	if c.Subset.IdentifierLength < minIdentifierLength || c.Subset.IdentifierLength > maxIdentifierLength {
		return fmt.Errorf("subset.identifier_length must be between %d and %d", minIdentifierLength, maxIdentifierLength)
	}
	if c.Subset.TimeoutSeconds < 0 {
		return errors.New("subset.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateMux() error {
	if len(c.Mux.Language) != 3 {
		return fmt.Errorf("mux.language: %q is not a 3-letter language code", c.Mux.Language)
	}
	if c.Mux.TimeoutSeconds < 0 {
		return errors.New("mux.timeout_seconds must be positive")
	}
	if c.Mux.OutputDir == c.Run.ScratchDir {
		return errors.New("mux.output_dir and run.scratch_dir must differ")
	}
	return nil
}

func (c *Config) validateRun() error {
	if strings.ContainsAny(c.Run.ScratchDir, `/\`) || c.Run.ScratchDir == "." || c.Run.ScratchDir == ".." {
		return fmt.Errorf("run.scratch_dir: %q must be a plain directory name", c.Run.ScratchDir)
	}
	return nil
}

func (c *Config) validateSubtitles() error {
	enc, err := ianaindex.IANA.Encoding(c.Subtitles.FallbackEncoding)
	if err != nil || enc == nil {
		return fmt.Errorf("subtitles.fallback_encoding: unsupported encoding %q", c.Subtitles.FallbackEncoding)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	if filepath.Base(c.Logging.FileName) != c.Logging.FileName {
		return fmt.Errorf("logging.file_name: %q must not contain directories", c.Logging.FileName)
	}
	return nil
}
