package ass

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
)

// Decode converts raw subtitle bytes to text. A byte order mark decides the
// encoding when present; otherwise valid UTF-8 is taken as is and anything
// else is decoded with the fallback IANA charset. The detected charset name
// is returned alongside the text.
func Decode(data []byte, fallback string) (string, string, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return string(data[len(bomUTF8):]), "utf-8", nil
	case bytes.HasPrefix(data, bomUTF16BE), bytes.HasPrefix(data, bomUTF16LE):
		name := "utf-16be"
		if bytes.HasPrefix(data, bomUTF16LE) {
			name = "utf-16le"
		}
		out, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), data)
		if err != nil {
			return "", "", fmt.Errorf("decode %s: %w", name, err)
		}
		return string(out), name, nil
	case utf8.Valid(data):
		return string(data), "utf-8", nil
	}

	fallback = strings.TrimSpace(fallback)
	if fallback == "" {
		return "", "", fmt.Errorf("subtitle is not valid UTF-8 and no fallback encoding is configured")
	}
	enc, err := ianaindex.IANA.Encoding(fallback)
	if err != nil || enc == nil {
		return "", "", fmt.Errorf("unsupported fallback encoding %q", fallback)
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", "", fmt.Errorf("decode %s: %w", fallback, err)
	}
	return string(out), strings.ToLower(fallback), nil
}

// ReadFile reads and parses a subtitle script.
func ReadFile(path, fallback string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text, charset, err := Decode(data, fallback)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	script := Parse(text)
	script.Encoding = charset
	return script, nil
}

// Bytes renders the script as UTF-8 with a byte order mark.
func (s *Script) Bytes() []byte {
	text := s.String()
	out := make([]byte, 0, len(bomUTF8)+len(text))
	out = append(out, bomUTF8...)
	return append(out, text...)
}

// WriteFile writes the script to path as UTF-8 with a byte order mark.
func (s *Script) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create subtitle directory: %w", err)
	}
	return os.WriteFile(path, s.Bytes(), 0o644)
}
