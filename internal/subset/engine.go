package subset

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"
)

// Request describes one subsetting job.
type Request struct {
	Source string
	// Index selects the face inside a collection.
	Index int
	// Text holds every character to keep.
	Text   string
	Output string
	// Flavor is "woff2" to keep a WOFF2 source compressed, empty otherwise.
	Flavor string
}

// Engine produces a subset font file.
type Engine interface {
	Name() string
	Subset(ctx context.Context, req Request) error
}

const (
	mimeOpenType = "application/vnd.ms-opentype"
	mimeTrueType = "application/x-truetype-font"
)

// OutputExt returns the extension a subset of source is written with:
// .otf sources stay .otf and everything else becomes .ttf.
func OutputExt(source string) string {
	if strings.EqualFold(filepath.Ext(source), ".otf") {
		return ".otf"
	}
	return ".ttf"
}

// MimeType returns the Matroska attachment mime type for a font file.
func MimeType(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".otf") {
		return mimeOpenType
	}
	return mimeTrueType
}

// BaseName derives the output base name of a face: the source stem, with
// _sub<index> appended for collection members past the first.
func BaseName(source string, index int) string {
	stem := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	if index > 0 {
		return stem + "_sub" + strconv.Itoa(index)
	}
	return stem
}

func flavorOf(source string) string {
	if strings.EqualFold(filepath.Ext(source), ".woff2") {
		return "woff2"
	}
	return ""
}
