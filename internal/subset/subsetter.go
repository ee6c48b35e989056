package subset

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"fontmux/internal/ass"
	"fontmux/internal/fontfile"
	"fontmux/internal/logging"
	"fontmux/internal/matcher"
)

// Output is the outcome for one matched face.
type Output struct {
	Names      []string
	Source     string
	Index      int
	Path       string
	MimeType   string
	Identifier string
	// Subset is false when the original file is attached as is.
	Subset bool
	Glyphs int
	Err    error
}

// Attached reports whether the output produced an attachment.
func (o Output) Attached() bool {
	return o.Err == nil && o.Path != ""
}

// Options configure a Subsetter.
type Options struct {
	// Enabled turns subsetting on; when false original files are attached.
	Enabled bool
	// IdentifierLength is the length of generated font names.
	IdentifierLength int
	// Dir receives subset files.
	Dir string
}

// Subsetter turns matched faces into attachments and a font name map.
type Subsetter struct {
	engine Engine
	opts   Options
	logger *slog.Logger
	newID  func(int) (string, error)
}

// New constructs a Subsetter.
func New(logger *slog.Logger, engine Engine, opts Options) *Subsetter {
	if opts.IdentifierLength <= 0 {
		opts.IdentifierLength = DefaultIdentifierLength
	}
	return &Subsetter{
		engine: engine,
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "subset"),
		newID:  GenerateIdentifier,
	}
}

// Process subsets every group. A failure drops that face only; the returned
// name map covers the faces that were subset and renamed.
func (s *Subsetter) Process(ctx context.Context, groups []matcher.Group) ([]Output, ass.NameMap) {
	outputs := make([]Output, 0, len(groups))
	names := ass.NameMap{}
	for _, g := range groups {
		if ctx.Err() != nil {
			outputs = append(outputs, Output{Names: g.Names, Source: g.Record.Path, Index: g.Record.Index, Err: ctx.Err()})
			continue
		}
		out := s.processOne(ctx, g)
		if out.Err != nil {
			logging.WarnWithContext(s.logger, "font dropped", "subset_failed",
				logging.String("font", g.Record.DisplayName),
				logging.String("source", g.Record.Path),
				logging.Int("face", g.Record.Index),
				logging.Error(out.Err),
				logging.String(logging.FieldImpact, "font is not attached to the container"),
			)
		} else if out.Identifier != "" {
			for _, name := range g.Names {
				names[name] = out.Identifier
			}
		}
		outputs = append(outputs, out)
	}
	return outputs, names
}

func (s *Subsetter) processOne(ctx context.Context, g matcher.Group) Output {
	src := g.Record.Path
	out := Output{Names: g.Names, Source: src, Index: g.Record.Index, Glyphs: len(g.Glyphs)}
	ext := OutputExt(src)

	if !s.opts.Enabled {
		out.Path = src
		out.MimeType = MimeType(ext)
		s.logger.Info("subsetting disabled, attaching original",
			logging.String("source", src),
		)
		return out
	}
	if len(g.Glyphs) == 0 {
		out.Err = fmt.Errorf("no characters requested")
		return out
	}

	id, err := s.newID(s.opts.IdentifierLength)
	if err != nil {
		out.Err = err
		return out
	}
	if err := os.MkdirAll(s.opts.Dir, 0o755); err != nil {
		out.Err = fmt.Errorf("create subset directory: %w", err)
		return out
	}

	base := BaseName(src, g.Record.Index)
	tmp := filepath.Join(s.opts.Dir, base+"_subset"+ext)
	final := filepath.Join(s.opts.Dir, base+"_"+id+ext)

	s.logger.Debug("subsetting font",
		logging.String("engine", s.engine.Name()),
		logging.String("source", src),
		logging.Int("face", g.Record.Index),
		logging.Int("chars", len(g.Glyphs)),
		logging.String("output", tmp),
	)
	req := Request{
		Source: src,
		Index:  g.Record.Index,
		Text:   g.Glyphs.String(),
		Output: tmp,
		Flavor: flavorOf(src),
	}
	if err := s.engine.Subset(ctx, req); err != nil {
		_ = os.Remove(tmp)
		out.Err = err
		return out
	}
	if err := obfuscate(tmp, final, id); err != nil {
		out.Err = fmt.Errorf("rename font: %w", err)
		return out
	}

	out.Path = final
	out.MimeType = MimeType(ext)
	out.Identifier = id
	out.Subset = true
	s.logger.Info("font subset",
		logging.String("source", filepath.Base(src)),
		logging.String("identifier", id),
		logging.Int("chars", len(g.Glyphs)),
	)
	return out
}

// obfuscate rewrites the names of the subset at tmp to id, writes the result
// to final and removes tmp.
func obfuscate(tmp, final, id string) error {
	data, err := os.ReadFile(tmp)
	if err != nil {
		return err
	}
	renamed, err := fontfile.Rename(data, 0, id)
	if err != nil {
		return err
	}
	if err := os.WriteFile(final, renamed, 0o644); err != nil {
		return err
	}
	return os.Remove(tmp)
}
