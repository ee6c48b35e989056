package pipeline

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// DiscoverContainers lists the .mkv files directly inside dir, sorted by
// name.
func DiscoverContainers(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".mkv") {
			out = append(out, filepath.Join(dir, entry.Name()))
		}
	}
	slices.Sort(out)
	return out, nil
}

// DiscoverSubtitles returns the subtitle files next to container whose name
// starts with the container stem, compared case-insensitively, and whose
// extension is one of exts.
func DiscoverSubtitles(container string, exts []string) ([]string, error) {
	dir := filepath.Dir(container)
	stem := strings.ToLower(strings.TrimSuffix(filepath.Base(container), filepath.Ext(container)))
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !hasExt(name, exts) {
			continue
		}
		if !strings.HasPrefix(strings.ToLower(name), stem) {
			continue
		}
		out = append(out, filepath.Join(dir, name))
	}
	slices.Sort(out)
	return out, nil
}

func hasExt(name string, exts []string) bool {
	ext := filepath.Ext(name)
	for _, want := range exts {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}
