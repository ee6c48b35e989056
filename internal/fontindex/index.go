package fontindex

import (
	"strings"
	"unicode"
)

// Record locates one face inside a font file.
type Record struct {
	Path        string
	Index       int
	DisplayName string
}

// Method describes how a lookup was satisfied.
type Method string

const (
	MethodExact   Method = "exact"
	MethodCompact Method = "compact"
	MethodSuffix  Method = "suffix"
)

// Resolution is a successful lookup.
type Resolution struct {
	Record Record
	Key    string
	Method Method
}

// Options control lookup fallbacks.
type Options struct {
	// ForceExact disables regional suffix stripping.
	ForceExact bool
	// SmartSuffixes are stripped (case-insensitively) from unmatched names
	// before retrying.
	SmartSuffixes []string
}

// DefaultSmartSuffixes lists the regional encoding markers fansub scripts
// append to font names.
var DefaultSmartSuffixes = []string{"_gbk", "_gb2312", "_big5", "_jis", "_kr"}

// Stats summarizes an index build.
type Stats struct {
	Files   int
	Faces   int
	Keys    int
	Skipped int
	Cached  int
}

// Index maps normalized font names to records. It is read-only once built
// and safe for concurrent lookups.
type Index struct {
	records  map[string]Record
	suffixes []string
	exact    bool
	stats    Stats
}

// New returns an empty index.
func New(opts Options) *Index {
	suffixes := make([]string, 0, len(opts.SmartSuffixes))
	for _, s := range opts.SmartSuffixes {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			suffixes = append(suffixes, s)
		}
	}
	return &Index{
		records:  make(map[string]Record),
		suffixes: suffixes,
		exact:    opts.ForceExact,
	}
}

// Normalize lowercases and trims a font name.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Compact normalizes a font name and removes all whitespace from it.
func Compact(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, Normalize(name))
}

// Add registers rec under every name. The last registration of a key wins.
func (idx *Index) Add(rec Record, names ...string) {
	for _, name := range names {
		if key := Normalize(name); key != "" {
			idx.records[key] = rec
		}
		if key := Compact(name); key != "" {
			idx.records[key] = rec
		}
	}
}

// Len returns the number of registered keys.
func (idx *Index) Len() int {
	return len(idx.records)
}

// Stats returns build statistics.
func (idx *Index) Stats() Stats {
	s := idx.stats
	s.Keys = len(idx.records)
	return s
}

// Lookup resolves a font name. It never fails; ok is false when no record
// matches.
func (idx *Index) Lookup(name string) (Resolution, bool) {
	key := Normalize(name)
	if key == "" {
		return Resolution{}, false
	}
	if res, ok := idx.lookupKey(key); ok {
		return res, true
	}
	if idx.exact {
		return Resolution{}, false
	}
	for _, suffix := range idx.suffixes {
		if !strings.HasSuffix(key, suffix) {
			continue
		}
		base := strings.TrimSpace(strings.TrimSuffix(key, suffix))
		if base == "" {
			continue
		}
		if res, ok := idx.lookupKey(base); ok {
			res.Method = MethodSuffix
			return res, true
		}
	}
	return Resolution{}, false
}

func (idx *Index) lookupKey(key string) (Resolution, bool) {
	if rec, ok := idx.records[key]; ok {
		return Resolution{Record: rec, Key: key, Method: MethodExact}, true
	}
	compact := Compact(key)
	if rec, ok := idx.records[compact]; ok {
		return Resolution{Record: rec, Key: compact, Method: MethodCompact}, true
	}
	return Resolution{}, false
}
