package ass

import "strings"

var (
	defaultStyleFormat = []string{
		"name", "fontname", "fontsize", "primarycolour", "secondarycolour",
		"outlinecolour", "backcolour", "bold", "italic", "underline", "strikeout",
		"scalex", "scaley", "spacing", "angle", "borderstyle", "outline", "shadow",
		"alignment", "marginl", "marginr", "marginv", "encoding",
	}
	defaultEventFormat = []string{
		"layer", "start", "end", "style", "name", "marginl", "marginr", "marginv", "effect", "text",
	}
)

// StyleDef is a style table entry reduced to the fields fontmux uses.
type StyleDef struct {
	Name string
	Font string
}

// DialogueLine is an event line reduced to its style reference and text.
type DialogueLine struct {
	StyleRef string
	Text     string
}

// fieldLayout locates named fields inside comma separated descriptor values.
type fieldLayout struct {
	count int
	index map[string]int
}

func newLayout(format []string) fieldLayout {
	idx := make(map[string]int, len(format))
	for i, f := range format {
		if _, ok := idx[f]; !ok {
			idx[f] = i
		}
	}
	return fieldLayout{count: len(format), index: idx}
}

// split divides value into the declared number of fields; the last field
// keeps any further commas.
func (l fieldLayout) split(value string) []string {
	if l.count <= 0 {
		return strings.Split(value, ",")
	}
	return strings.SplitN(value, ",", l.count)
}

func (l fieldLayout) field(fields []string, name string) (int, bool) {
	i, ok := l.index[name]
	if !ok || i >= len(fields) {
		return 0, false
	}
	return i, true
}

// Styles returns every style definition in the script in file order.
func (s *Script) Styles() []StyleDef {
	var out []StyleDef
	for _, sec := range s.Sections {
		if sec.Kind != KindStyles {
			continue
		}
		layout := newLayout(sec.format(defaultStyleFormat))
		for _, line := range sec.Lines {
			if !line.Is("Style") {
				continue
			}
			fields := layout.split(line.Value)
			ni, okName := layout.field(fields, "name")
			fi, okFont := layout.field(fields, "fontname")
			if !okName || !okFont {
				continue
			}
			out = append(out, StyleDef{
				Name: strings.TrimSpace(fields[ni]),
				Font: strings.TrimSpace(fields[fi]),
			})
		}
	}
	return out
}

// Dialogue returns every Dialogue event in file order. Comment events are
// not rendered and are left out.
func (s *Script) Dialogue() []DialogueLine {
	var out []DialogueLine
	for _, sec := range s.Sections {
		if sec.Kind != KindEvents {
			continue
		}
		layout := newLayout(sec.format(defaultEventFormat))
		for _, line := range sec.Lines {
			if !line.Is("Dialogue") {
				continue
			}
			fields := layout.split(line.Value)
			ti, okText := layout.field(fields, "text")
			if !okText {
				continue
			}
			d := DialogueLine{Text: fields[ti]}
			if si, ok := layout.field(fields, "style"); ok {
				d.StyleRef = strings.TrimSpace(fields[si])
			}
			out = append(out, d)
		}
	}
	return out
}
