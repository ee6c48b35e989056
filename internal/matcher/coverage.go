package matcher

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font/sfnt"

	"fontmux/internal/fontindex"
)

// Coverage checks requested characters against a face's cmap. Parsed files
// are kept until Reset.
type Coverage struct {
	mu    sync.Mutex
	files map[string]*sfnt.Collection
}

// NewCoverage returns an empty coverage checker.
func NewCoverage() *Coverage {
	return &Coverage{files: make(map[string]*sfnt.Collection)}
}

// Reset drops every cached file.
func (c *Coverage) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.files)
}

// Len reports the number of cached files.
func (c *Coverage) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.files)
}

// Missing returns the runes of glyphs that rec's face does not map.
func (c *Coverage) Missing(rec fontindex.Record, glyphs []rune) ([]rune, error) {
	face, err := c.face(rec)
	if err != nil {
		return nil, err
	}
	var buf sfnt.Buffer
	missing := []rune{}
	for _, r := range glyphs {
		gid, err := face.GlyphIndex(&buf, r)
		if err != nil {
			return nil, fmt.Errorf("glyph index for %U: %w", r, err)
		}
		if gid == 0 {
			missing = append(missing, r)
		}
	}
	return missing, nil
}

func (c *Coverage) face(rec fontindex.Record) (*sfnt.Font, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	collection, ok := c.files[rec.Path]
	if !ok {
		data, err := os.ReadFile(rec.Path)
		if err != nil {
			return nil, err
		}
		// ParseCollection also accepts single-face files.
		collection, err = sfnt.ParseCollection(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", rec.Path, err)
		}
		c.files[rec.Path] = collection
	}
	if rec.Index < 0 || rec.Index >= collection.NumFonts() {
		return nil, fmt.Errorf("face index %d out of range (%d faces)", rec.Index, collection.NumFonts())
	}
	return collection.Font(rec.Index)
}
