package config

import (
	"fmt"
	"strings"

	"fontmux/internal/language"
)

func (c *Config) normalize() error {
	if err := c.normalizeFonts(); err != nil {
		return err
	}
	if err := c.normalizeSubset(); err != nil {
		return err
	}
	if err := c.normalizeMux(); err != nil {
		return err
	}
	c.normalizeRun()
	c.normalizeSubtitles()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeFonts() error {
	dirs := make([]string, 0, len(c.Fonts.Dirs))
	seen := make(map[string]struct{}, len(c.Fonts.Dirs))
	for _, dir := range c.Fonts.Dirs {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			continue
		}
		expanded, err := expandPath(dir)
		if err != nil {
			return fmt.Errorf("fonts.dirs: %w", err)
		}
		if _, ok := seen[expanded]; ok {
			continue
		}
		seen[expanded] = struct{}{}
		dirs = append(dirs, expanded)
	}
	c.Fonts.Dirs = dirs

	c.Fonts.Ignore = trimList(c.Fonts.Ignore, false)
	c.Fonts.SmartSuffixes = trimList(c.Fonts.SmartSuffixes, true)

	if strings.TrimSpace(c.Fonts.CachePath) == "" {
		c.Fonts.CachePath = defaultFontCachePath
	}
	var err error
	if c.Fonts.CachePath, err = expandPath(strings.TrimSpace(c.Fonts.CachePath)); err != nil {
		return fmt.Errorf("fonts.cache_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeSubset() error {
	c.Subset.Engine = strings.ToLower(strings.TrimSpace(c.Subset.Engine))
	if c.Subset.Engine == "" {
		c.Subset.Engine = EnginePyftsubset
	}
	binary, err := normalizeBinary(c.Subset.PyftsubsetBinary, defaultPyftsubsetBinary)
	if err != nil {
		return fmt.Errorf("subset.pyftsubset_binary: %w", err)
	}
	c.Subset.PyftsubsetBinary = binary
	if c.Subset.IdentifierLength == 0 {
		c.Subset.IdentifierLength = defaultIdentifierLength
	}
	if c.Subset.TimeoutSeconds == 0 {
		c.Subset.TimeoutSeconds = defaultSubsetTimeout
	}
	return nil
}

func (c *Config) normalizeMux() error {
	binary, err := normalizeBinary(c.Mux.MkvmergeBinary, defaultMkvmergeBinary)
	if err != nil {
		return fmt.Errorf("mux.mkvmerge_binary: %w", err)
	}
	c.Mux.MkvmergeBinary = binary
	c.Mux.OutputDir = strings.TrimSpace(c.Mux.OutputDir)
	if c.Mux.OutputDir == "" {
		c.Mux.OutputDir = defaultOutputDir
	}
	c.Mux.Language = strings.TrimSpace(c.Mux.Language)
	if c.Mux.Language == "" {
		c.Mux.Language = defaultLanguage
	}
	if code := language.ToMatroska(c.Mux.Language); code != "und" || strings.EqualFold(c.Mux.Language, "und") {
		c.Mux.Language = code
	}
	if c.Mux.TimeoutSeconds == 0 {
		c.Mux.TimeoutSeconds = defaultMuxTimeoutSeconds
	}
	return nil
}

func (c *Config) normalizeRun() {
	c.Run.ScratchDir = strings.TrimSpace(c.Run.ScratchDir)
	if c.Run.ScratchDir == "" {
		c.Run.ScratchDir = defaultScratchDir
	}
}

func (c *Config) normalizeSubtitles() {
	exts := make([]string, 0, len(c.Subtitles.Extensions))
	for _, ext := range trimList(c.Subtitles.Extensions, true) {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	if len(exts) == 0 {
		exts = append(exts, defaultExtensions...)
	}
	c.Subtitles.Extensions = exts
	c.Subtitles.FallbackEncoding = strings.ToLower(strings.TrimSpace(c.Subtitles.FallbackEncoding))
	if c.Subtitles.FallbackEncoding == "" {
		c.Subtitles.FallbackEncoding = defaultFallbackEncoding
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.FileName = strings.TrimSpace(c.Logging.FileName)
	if c.Logging.FileName == "" {
		c.Logging.FileName = defaultLogFileName
	}
}

// normalizeBinary keeps bare command names for PATH lookup and expands
// anything that looks like a filesystem path.
func normalizeBinary(value, fallback string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	if !strings.ContainsAny(value, `/\`) && !strings.HasPrefix(value, "~") {
		return value, nil
	}
	return expandPath(value)
}

func trimList(values []string, lower bool) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if lower {
			value = strings.ToLower(value)
		}
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
