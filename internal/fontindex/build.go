package fontindex

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"fontmux/internal/fontfile"
	"fontmux/internal/logging"
)

// Face is the cached outcome of parsing one face of a font file.
type Face struct {
	Index int
	Names []string
}

// Builder scans font directories into an Index.
type Builder struct {
	logger *slog.Logger
	opts   Options
	cache  *Cache
}

// NewBuilder constructs a Builder. cache may be nil.
func NewBuilder(logger *slog.Logger, opts Options, cache *Cache) *Builder {
	return &Builder{
		logger: logging.NewComponentLogger(logger, "font-index"),
		opts:   opts,
		cache:  cache,
	}
}

// Build walks dirs in order and registers every face found. Unreadable
// directories and unparsable files are logged and skipped; only context
// cancellation aborts the scan.
func (b *Builder) Build(ctx context.Context, dirs []string) (*Index, error) {
	idx := New(b.opts)
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			logging.WarnWithContext(b.logger, "font directory unavailable", "font_dir_missing",
				logging.String("dir", dir),
				logging.String(logging.FieldImpact, "fonts in this directory cannot be matched"),
				logging.String(logging.FieldErrorHint, "check --font-directory or fonts.dirs"),
			)
			continue
		}
		if err := b.scanDir(ctx, idx, dir); err != nil {
			return nil, err
		}
	}
	if b.cache != nil {
		if removed, err := b.cache.Prune(ctx); err != nil {
			b.logger.Debug("font cache prune failed", logging.Error(err))
		} else if removed > 0 {
			b.logger.Debug("pruned font cache", logging.Int("removed", removed))
		}
	}
	stats := idx.Stats()
	b.logger.Info("font index built",
		logging.Int("files", stats.Files),
		logging.Int("faces", stats.Faces),
		logging.Int("keys", stats.Keys),
		logging.Int("skipped", stats.Skipped),
		logging.Int("cached", stats.Cached),
	)
	return idx, nil
}

func (b *Builder) scanDir(ctx context.Context, idx *Index, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			b.logger.Warn("font directory walk error",
				logging.String("path", path),
				logging.Error(walkErr),
			)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !Extensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		faces, cached, err := b.readFaces(ctx, path, d)
		if err != nil {
			idx.stats.Skipped++
			logging.WarnWithContext(b.logger, "skipping unreadable font", "font_parse_failed",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "font cannot be matched"),
				logging.String(logging.FieldErrorHint, "verify the file is a valid TrueType/OpenType font"),
			)
			return nil
		}
		idx.stats.Files++
		if cached {
			idx.stats.Cached++
		}
		for _, face := range faces {
			if len(face.Names) == 0 {
				continue
			}
			idx.stats.Faces++
			idx.Add(Record{Path: path, Index: face.Index, DisplayName: face.Names[0]}, face.Names...)
		}
		return nil
	})
}

func (b *Builder) readFaces(ctx context.Context, path string, d fs.DirEntry) ([]Face, bool, error) {
	info, err := d.Info()
	if err != nil {
		return nil, false, err
	}
	if b.cache != nil {
		faces, ok, err := b.cache.Lookup(ctx, path, info.Size(), info.ModTime())
		if err != nil {
			b.logger.Debug("font cache lookup failed", logging.String("path", path), logging.Error(err))
		} else if ok {
			return faces, true, nil
		}
	}

	faces, err := ReadFaces(path)
	if err != nil {
		return nil, false, err
	}
	if b.cache != nil {
		if err := b.cache.Store(ctx, path, info.Size(), info.ModTime(), faces); err != nil {
			b.logger.Debug("font cache store failed", logging.String("path", path), logging.Error(err))
		}
	}
	return faces, false, nil
}

// ReadFaces parses a font file and returns the lookup names of every face.
// Faces without usable names are reported with an empty name list.
func ReadFaces(path string) ([]Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	parsed, err := fontfile.Parse(data)
	if err != nil {
		return nil, err
	}
	faces := make([]Face, 0, len(parsed))
	var firstErr error
	for i, face := range parsed {
		names, err := face.Names()
		if err != nil && firstErr == nil {
			firstErr = err
		}
		faces = append(faces, Face{Index: i, Names: names})
	}
	if firstErr != nil && len(parsed) == 1 {
		return nil, firstErr
	}
	if len(faces) == 0 {
		return nil, errors.New("font file holds no faces")
	}
	return faces, nil
}
