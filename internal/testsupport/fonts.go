package testsupport

import (
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"fontmux/internal/fontfile"
)

// GoRegular returns a copy of the Go Regular TrueType font.
func GoRegular() []byte {
	return append([]byte(nil), goregular.TTF...)
}

// GoMono returns a copy of the Go Mono TrueType font.
func GoMono() []byte {
	return append([]byte(nil), gomono.TTF...)
}

// NamedFont returns Go Regular with its name table replaced so the face
// reports family as its family, full and PostScript name.
func NamedFont(t testing.TB, family string) []byte {
	t.Helper()

	data, err := fontfile.ReplaceNames(goregular.TTF, 0, map[uint16]string{
		fontfile.NameFamily:     family,
		fontfile.NameFull:       family,
		fontfile.NamePostScript: strings.ReplaceAll(family, " ", ""),
	})
	if err != nil {
		t.Fatalf("rename fixture font to %q: %v", family, err)
	}
	return data
}

// WriteFont writes a fixture font named family to dir/file.
func WriteFont(t testing.TB, dir, file, family string) string {
	t.Helper()
	return WriteFile(t, filepath.Join(dir, file), NamedFont(t, family))
}

// WriteCollection writes a TrueType collection holding one face per family.
func WriteCollection(t testing.TB, dir, file string, families ...string) string {
	t.Helper()

	faces := make([][]byte, 0, len(families))
	for _, family := range families {
		faces = append(faces, NamedFont(t, family))
	}
	data, err := fontfile.Collection(faces...)
	if err != nil {
		t.Fatalf("build collection: %v", err)
	}
	return WriteFile(t, filepath.Join(dir, file), data)
}
