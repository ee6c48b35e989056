package pipeline

import (
	"context"
	"log/slog"
	"time"

	"fontmux/internal/command"
	"fontmux/internal/config"
	"fontmux/internal/fontindex"
	"fontmux/internal/logging"
	"fontmux/internal/services"
	"fontmux/internal/subset"
)

// FontDirs returns the configured font directories, or the platform
// defaults when none are configured.
func FontDirs(cfg *config.Config) []string {
	if len(cfg.Fonts.Dirs) > 0 {
		return cfg.Fonts.Dirs
	}
	return fontindex.DefaultDirs()
}

// BuildIndex scans the configured font directories, going through the
// sqlite cache when it is enabled. A cache that cannot be opened is logged
// and the scan proceeds without it.
func BuildIndex(ctx context.Context, logger *slog.Logger, cfg *config.Config) (*fontindex.Index, error) {
	var cache *fontindex.Cache
	if cfg.Fonts.CacheEnabled {
		c, err := fontindex.OpenCache(ctx, cfg.Fonts.CachePath, logger)
		if err != nil {
			logging.WarnWithContext(logger, "font cache unavailable", "font_cache_unavailable",
				logging.String("path", cfg.Fonts.CachePath),
				logging.Error(err),
				logging.String(logging.FieldImpact, "every font file is parsed on this run"),
				logging.String(logging.FieldErrorHint, "check fonts.cache_path or delete the cache file"),
			)
		} else {
			cache = c
			defer cache.Close()
		}
	}
	builder := fontindex.NewBuilder(logger, fontindex.Options{
		ForceExact:    cfg.Fonts.ForceExact,
		SmartSuffixes: cfg.Fonts.SmartSuffixes,
	}, cache)
	idx, err := builder.Build(ctx, FontDirs(cfg))
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "INDEX", "build", "font index scan interrupted", err)
	}
	return idx, nil
}

// NewEngine returns the subsetting engine selected by cfg.
func NewEngine(logger *slog.Logger, cfg *config.Config, runner command.Runner) subset.Engine {
	if cfg.NativeSubset() {
		return subset.NewNativeEngine(logger)
	}
	return subset.NewPyftsubsetEngine(logger, runner, cfg.Subset.PyftsubsetBinary, seconds(cfg.Subset.TimeoutSeconds))
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
