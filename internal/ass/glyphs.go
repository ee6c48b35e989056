package ass

import (
	"slices"
	"strings"
	"unicode"
)

// GlyphSet is a set of Unicode code points.
type GlyphSet map[rune]struct{}

// Add inserts r.
func (g GlyphSet) Add(r rune) {
	g[r] = struct{}{}
}

// AddString inserts every rune of s.
func (g GlyphSet) AddString(s string) {
	for _, r := range s {
		g[r] = struct{}{}
	}
}

// Union inserts every member of other.
func (g GlyphSet) Union(other GlyphSet) {
	for r := range other {
		g[r] = struct{}{}
	}
}

// Runes returns the members in ascending order.
func (g GlyphSet) Runes() []rune {
	out := make([]rune, 0, len(g))
	for r := range g {
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}

// String returns the members as a sorted string.
func (g GlyphSet) String() string {
	return string(g.Runes())
}

// Usage maps a font name, as referenced by a script, to the glyphs it must
// render.
type Usage map[string]GlyphSet

// Add records glyphs for font.
func (u Usage) Add(font string, glyphs string) {
	set, ok := u[font]
	if !ok {
		set = GlyphSet{}
		u[font] = set
	}
	set.AddString(glyphs)
}

// Merge folds other into u additively.
func (u Usage) Merge(other Usage) {
	for font, glyphs := range other {
		set, ok := u[font]
		if !ok {
			set = GlyphSet{}
			u[font] = set
		}
		set.Union(glyphs)
	}
}

// Names returns the referenced font names sorted.
func (u Usage) Names() []string {
	out := make([]string, 0, len(u))
	for name := range u {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// FoldName reduces a font name to its comparison form: lowercase, no
// whitespace, no vertical-writing '@' prefix.
func FoldName(name string) string {
	name = strings.TrimPrefix(strings.TrimSpace(name), "@")
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, name)
}
