package ass

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// FontMapPrefix starts every mapping comment line in [Script Info].
const FontMapPrefix = "; FontMap: "

// NameMap maps font names referenced by a script to replacement names.
type NameMap map[string]string

type nameResolver struct {
	norm    map[string]string
	compact map[string]string
}

func (m NameMap) resolver() nameResolver {
	r := nameResolver{norm: make(map[string]string, len(m)), compact: make(map[string]string, len(m))}
	for src, dst := range m {
		r.norm[normalizeName(src)] = dst
		r.compact[FoldName(src)] = dst
	}
	return r
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "@"))
}

// resolve maps name, keeping a vertical-writing '@' prefix.
func (r nameResolver) resolve(name string) (string, bool) {
	dst, ok := r.norm[normalizeName(name)]
	if !ok {
		dst, ok = r.compact[FoldName(name)]
	}
	if !ok {
		return "", false
	}
	if strings.HasPrefix(strings.TrimSpace(name), "@") {
		dst = "@" + dst
	}
	return dst, true
}

// Rewrite returns a copy of s whose style fonts and \fn arguments are
// replaced through m, with one FontMap comment per entry appended to
// [Script Info]. Unmapped names are left alone. When m is empty s is
// returned unchanged.
func Rewrite(s *Script, m NameMap) *Script {
	if len(m) == 0 {
		return s
	}
	out := s.Clone()
	r := m.resolver()
	for _, sec := range out.Sections {
		switch sec.Kind {
		case KindStyles:
			rewriteStyles(sec, r)
		case KindEvents:
			rewriteEvents(sec, r)
		}
	}
	insertFontMap(out, m)
	return out
}

func rewriteStyles(sec *Section, r nameResolver) {
	layout := newLayout(sec.format(defaultStyleFormat))
	for i, line := range sec.Lines {
		if !line.Is("Style") {
			continue
		}
		fields := layout.split(line.Value)
		fi, ok := layout.field(fields, "fontname")
		if !ok {
			continue
		}
		dst, ok := r.resolve(fields[fi])
		if !ok {
			continue
		}
		fields[fi] = dst
		sec.Lines[i] = line.WithValue(strings.Join(fields, ","))
	}
}

func rewriteEvents(sec *Section, r nameResolver) {
	layout := newLayout(sec.format(defaultEventFormat))
	for i, line := range sec.Lines {
		if !line.Is("Dialogue") && !line.Is("Comment") {
			continue
		}
		fields := layout.split(line.Value)
		ti, ok := layout.field(fields, "text")
		if !ok {
			continue
		}
		text := rewriteText(fields[ti], r)
		if text == fields[ti] {
			continue
		}
		fields[ti] = text
		sec.Lines[i] = line.WithValue(strings.Join(fields, ","))
	}
}

// rewriteText replaces \fn arguments inside override blocks.
func rewriteText(text string, r nameResolver) string {
	if !strings.Contains(text, `\fn`) {
		return text
	}
	var b strings.Builder
	for {
		open := strings.IndexByte(text, '{')
		if open < 0 {
			break
		}
		closing := strings.IndexByte(text[open+1:], '}')
		if closing < 0 {
			break
		}
		block := text[open+1 : open+1+closing]
		b.WriteString(text[:open+1])
		b.WriteString(rewriteBlock(block, r))
		b.WriteByte('}')
		text = text[open+2+closing:]
	}
	b.WriteString(text)
	return b.String()
}

func rewriteBlock(block string, r nameResolver) string {
	tags := overrideTags(block)
	for i := len(tags) - 1; i >= 0; i-- {
		tag := tags[i]
		if tag.name != "fn" || tag.arg == "" {
			continue
		}
		dst, ok := r.resolve(tag.arg)
		if !ok {
			continue
		}
		block = block[:tag.start] + dst + block[tag.end:]
	}
	return block
}

// FontMapLines renders the mapping comments sorted by original name.
func FontMapLines(m NameMap) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, FontMapPrefix+k+" -> "+m[k])
	}
	return lines
}

func insertFontMap(s *Script, m NameMap) {
	comments := FontMapLines(m)
	mapLines := make([]Line, 0, len(comments))
	for _, c := range comments {
		mapLines = append(mapLines, TextLine(c))
	}

	if info := s.Section(KindScriptInfo); info != nil {
		at := len(info.Lines)
		for at > 0 && strings.TrimSpace(info.Lines[at-1].String()) == "" {
			at--
		}
		info.Lines = slices.Insert(info.Lines, at, mapLines...)
		return
	}

	info := &Section{Header: ScriptInfoHeader, Name: "Script Info", Kind: KindScriptInfo}
	info.Lines = append(info.Lines, mapLines...)
	info.Lines = append(info.Lines, TextLine(""))
	info.Lines = append(info.Lines, s.Preamble...)
	s.Preamble = nil
	s.Sections = slices.Insert(s.Sections, 0, info)
	if len(s.Sections) == 1 {
		s.FinalNewline = true
	}
}

// RewriteFiles rewrites each subtitle into dir under its original base name
// and returns the new paths. The sources are never modified. With an empty
// map the input paths are returned as is.
func RewriteFiles(paths []string, m NameMap, dir, fallbackEncoding string) ([]string, error) {
	if len(m) == 0 {
		return paths, nil
	}
	out := make([]string, 0, len(paths))
	for _, path := range paths {
		script, err := ReadFile(path, fallbackEncoding)
		if err != nil {
			return nil, err
		}
		target := filepath.Join(dir, filepath.Base(path))
		if filepath.Clean(target) == filepath.Clean(path) {
			return nil, fmt.Errorf("refusing to overwrite source subtitle %s", path)
		}
		if err := Rewrite(script, m).WriteFile(target); err != nil {
			return nil, fmt.Errorf("write rewritten subtitle: %w", err)
		}
		out = append(out, target)
	}
	return out, nil
}
