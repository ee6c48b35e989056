package matcher

import (
	"cmp"
	"log/slog"
	"path/filepath"
	"slices"

	"fontmux/internal/ass"
	"fontmux/internal/fontindex"
	"fontmux/internal/logging"
)

// Status is the outcome of one lookup.
type Status string

const (
	StatusOK      Status = "OK"
	StatusMissing Status = "Missing"
)

// Index is the lookup surface of the font index.
type Index interface {
	Lookup(name string) (fontindex.Resolution, bool)
}

// Result records how one requested font name resolved.
type Result struct {
	Requested string
	Glyphs    ass.GlyphSet
	Status    Status
	Record    fontindex.Record
	Method    fontindex.Method
	Reason    string
	// MissingGlyphs lists requested characters the matched face cannot
	// render. Nil when coverage could not be checked.
	MissingGlyphs []rune
}

// Matched reports whether the font resolved to an index record.
func (r Result) Matched() bool {
	return r.Status == StatusOK
}

// GlyphCount returns the number of requested characters.
func (r Result) GlyphCount() int {
	return len(r.Glyphs)
}

// Matcher resolves font usage against an index.
type Matcher struct {
	index    Index
	logger   *slog.Logger
	coverage *Coverage
}

// New constructs a Matcher. Coverage checking is enabled when coverage is
// non-nil.
func New(logger *slog.Logger, index Index, coverage *Coverage) *Matcher {
	return &Matcher{
		index:    index,
		logger:   logging.NewComponentLogger(logger, "matcher"),
		coverage: coverage,
	}
}

// Match looks up every font in usage and returns results sorted by the
// requested name. Files parsed for coverage are released on return.
func (m *Matcher) Match(usage ass.Usage) []Result {
	if m.coverage != nil {
		defer m.coverage.Reset()
	}
	results := make([]Result, 0, len(usage))
	for _, name := range usage.Names() {
		glyphs := usage[name]
		res := Result{Requested: name, Glyphs: glyphs}
		resolution, ok := m.index.Lookup(name)
		if !ok {
			res.Status = StatusMissing
			res.Reason = "no font with this name in the scanned directories"
			logging.WarnWithContext(m.logger, "font missing", "font_missing",
				logging.String("font", name),
				logging.Int("glyphs", len(glyphs)),
				logging.String(logging.FieldImpact, "subtitle text in this font renders with a fallback"),
				logging.String(logging.FieldErrorHint, "install the font or pass --font-directory"),
			)
			results = append(results, res)
			continue
		}
		res.Status = StatusOK
		res.Record = resolution.Record
		res.Method = resolution.Method
		if m.coverage != nil {
			missing, err := m.coverage.Missing(resolution.Record, glyphs.Runes())
			if err != nil {
				m.logger.Debug("coverage check skipped",
					logging.String("font", name),
					logging.String("path", resolution.Record.Path),
					logging.Error(err),
				)
			} else {
				res.MissingGlyphs = missing
				if len(missing) > 0 {
					logging.WarnWithContext(m.logger, "matched font lacks glyphs", "font_glyphs_missing",
						logging.String("font", name),
						logging.String("path", resolution.Record.Path),
						logging.String("missing", string(missing)),
						logging.String(logging.FieldImpact, "these characters render with a fallback font"),
					)
				}
			}
		}
		m.logger.Info("font matched",
			logging.String("font", name),
			logging.String("file", filepath.Base(resolution.Record.Path)),
			logging.Int("face", resolution.Record.Index),
			logging.String("method", string(resolution.Method)),
			logging.Int("glyphs", len(glyphs)),
		)
		results = append(results, res)
	}
	return results
}

// Group is one font face together with every requested name that resolved
// to it and the union of their glyphs.
type Group struct {
	Record fontindex.Record
	Names  []string
	Glyphs ass.GlyphSet
}

// Groups folds matched results by face so each face is processed once.
// Groups are ordered by file path and face index.
func Groups(results []Result) []Group {
	type key struct {
		path  string
		index int
	}
	byFace := make(map[key]*Group)
	for _, r := range results {
		if !r.Matched() {
			continue
		}
		k := key{r.Record.Path, r.Record.Index}
		g, ok := byFace[k]
		if !ok {
			g = &Group{Record: r.Record, Glyphs: ass.GlyphSet{}}
			byFace[k] = g
		}
		g.Names = append(g.Names, r.Requested)
		g.Glyphs.Union(r.Glyphs)
	}
	out := make([]Group, 0, len(byFace))
	for _, g := range byFace {
		slices.Sort(g.Names)
		out = append(out, *g)
	}
	slices.SortFunc(out, func(a, b Group) int {
		if c := cmp.Compare(a.Record.Path, b.Record.Path); c != 0 {
			return c
		}
		return cmp.Compare(a.Record.Index, b.Record.Index)
	})
	return out
}

// Counts returns the number of matched and missing results.
func Counts(results []Result) (matched, missing int) {
	for _, r := range results {
		if r.Matched() {
			matched++
		} else {
			missing++
		}
	}
	return matched, missing
}
