package subset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"seehuhn.de/go/sfnt"
	"seehuhn.de/go/sfnt/cmap"
	"seehuhn.de/go/sfnt/glyf"
	"seehuhn.de/go/sfnt/glyph"

	"fontmux/internal/fontfile"
	"fontmux/internal/logging"
)

// ErrNoGlyphs is returned when none of the requested characters are mapped
// by the face.
var ErrNoGlyphs = errors.New("font maps none of the requested characters")

// NativeEngine subsets fonts in-process. Only Basic Multilingual Plane
// characters are kept; the subset carries a single format 4 cmap and no
// layout tables.
type NativeEngine struct {
	logger *slog.Logger
}

// NewNativeEngine constructs the in-process engine.
func NewNativeEngine(logger *slog.Logger) *NativeEngine {
	return &NativeEngine{logger: logging.NewComponentLogger(logger, "native-subset")}
}

// Name identifies the engine.
func (e *NativeEngine) Name() string { return "native" }

// Subset writes the subset of req.Source to req.Output.
func (e *NativeEngine) Subset(ctx context.Context, req Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	font, err := readFace(req.Source, req.Index)
	if err != nil {
		return err
	}
	best, err := font.CMapTable.GetBest()
	if err != nil {
		return fmt.Errorf("read cmap: %w", err)
	}

	glyphs := []glyph.ID{0}
	position := map[glyph.ID]glyph.ID{0: 0}
	encoding := cmap.Format4{}
	var skipped []rune
	for _, r := range req.Text {
		if r > 0xFFFF {
			skipped = append(skipped, r)
			continue
		}
		gid := best.Lookup(r)
		if gid == 0 {
			continue
		}
		pos, ok := position[gid]
		if !ok {
			pos = glyph.ID(len(glyphs))
			position[gid] = pos
			glyphs = append(glyphs, gid)
		}
		encoding[uint16(r)] = pos
	}
	if len(glyphs) == 1 {
		return ErrNoGlyphs
	}
	if len(skipped) > 0 {
		e.logger.Warn("characters outside the BMP dropped from subset",
			logging.String("source", req.Source),
			logging.String("chars", string(skipped)),
		)
	}
	glyphs = withComponents(font, glyphs)

	font.CMapTable = nil
	font.Gdef = nil
	font.Gsub = nil
	font.Gpos = nil
	sub := font.Subset(glyphs)
	sub.CMapTable = cmap.Table{
		cmap.Key{PlatformID: 3, EncodingID: 1}: encoding.Encode(0),
		cmap.Key{PlatformID: 0, EncodingID: 3}: encoding.Encode(0),
	}

	out, err := os.Create(req.Output)
	if err != nil {
		return fmt.Errorf("create subset: %w", err)
	}
	if _, err := sub.Write(out); err != nil {
		out.Close()
		_ = os.Remove(req.Output)
		return fmt.Errorf("write subset: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close subset: %w", err)
	}
	e.logger.Debug("native subset written",
		logging.String("output", req.Output),
		logging.Int("glyphs", len(glyphs)),
		logging.Bool("cff", sub.IsCFF()),
	)
	return nil
}

// withComponents appends the components of composite TrueType glyphs that
// are not already listed. Existing positions are unchanged.
func withComponents(font *sfnt.Font, glyphs []glyph.ID) []glyph.ID {
	outlines, ok := font.Outlines.(*glyf.Outlines)
	if !ok {
		return glyphs
	}
	seen := make(map[glyph.ID]bool, len(glyphs))
	for _, gid := range glyphs {
		seen[gid] = true
	}
	for i := 0; i < len(glyphs); i++ {
		gid := glyphs[i]
		if int(gid) >= len(outlines.Glyphs) {
			continue
		}
		for _, comp := range outlines.Glyphs[gid].Components() {
			if !seen[comp] {
				seen[comp] = true
				glyphs = append(glyphs, comp)
			}
		}
	}
	return glyphs
}

// readFace loads one face of a font file with seehuhn sfnt.
func readFace(path string, index int) (*sfnt.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch fontfile.DetectFlavor(data) {
	case fontfile.FlavorWOFF, fontfile.FlavorWOFF2:
		return nil, fmt.Errorf("%w: %s", fontfile.ErrUnsupportedFlavor, path)
	}
	face, err := fontfile.Extract(data, index)
	if err != nil {
		return nil, err
	}
	font, err := sfnt.Read(bytes.NewReader(face))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return font, nil
}

// Chars returns every character the face at index maps to a glyph, in
// ascending order.
func Chars(path string, index int) ([]rune, error) {
	font, err := readFace(path, index)
	if err != nil {
		return nil, err
	}
	best, err := font.CMapTable.GetBest()
	if err != nil {
		return nil, fmt.Errorf("read cmap: %w", err)
	}
	low, high := best.CodeRange()
	var out []rune
	for r := low; r <= high && r <= 0x10FFFF; r++ {
		if best.Lookup(r) != 0 {
			out = append(out, r)
		}
	}
	return out, nil
}
