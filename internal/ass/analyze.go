package ass

import (
	"strings"
)

// DefaultFont is attributed to dialogue whose style cannot be resolved.
const DefaultFont = "Default"

// Analyzer attributes dialogue glyphs to fonts.
type Analyzer struct {
	ignore map[string]struct{}
}

// NewAnalyzer returns an analyzer that never tracks the ignored font names.
func NewAnalyzer(ignore []string) *Analyzer {
	set := make(map[string]struct{}, len(ignore))
	for _, name := range ignore {
		if key := FoldName(name); key != "" {
			set[key] = struct{}{}
		}
	}
	return &Analyzer{ignore: set}
}

// Ignored reports whether name is in the ignore set.
func (a *Analyzer) Ignored(name string) bool {
	_, ok := a.ignore[FoldName(name)]
	return ok
}

// Analyze returns the font usage of one script.
func (a *Analyzer) Analyze(s *Script) Usage {
	styles := newStyleTable(s.Styles())
	usage := Usage{}
	for _, d := range s.Dialogue() {
		base := styles.font(d.StyleRef)
		walkText(d.Text, base, styles, func(font string, r rune) {
			if font == "" || a.Ignored(font) {
				return
			}
			set, ok := usage[font]
			if !ok {
				set = GlyphSet{}
				usage[font] = set
			}
			set.Add(r)
		})
	}
	return usage
}

type styleTable struct {
	exact map[string]string
	fold  map[string]string
}

func newStyleTable(defs []StyleDef) styleTable {
	t := styleTable{exact: make(map[string]string), fold: make(map[string]string)}
	for _, def := range defs {
		font := cleanFontName(def.Font)
		t.exact[def.Name] = font
		t.fold[strings.ToLower(def.Name)] = font
	}
	return t
}

// font resolves a style reference. Renderers drop a leading '*' from style
// names; unknown styles use the Default style, and the DefaultFont sentinel
// when the script defines none.
func (t styleTable) font(ref string) string {
	if font, ok := t.lookup(ref); ok {
		return font
	}
	if font, ok := t.lookup(DefaultFont); ok {
		return font
	}
	return DefaultFont
}

func (t styleTable) lookup(ref string) (string, bool) {
	ref = strings.TrimPrefix(strings.TrimSpace(ref), "*")
	if font, ok := t.exact[ref]; ok {
		return font, true
	}
	font, ok := t.fold[strings.ToLower(ref)]
	return font, ok
}

func cleanFontName(name string) string {
	return strings.TrimPrefix(strings.TrimSpace(name), "@")
}

// walkText calls emit for every rendered rune of an event text with the font
// active at that point. Override blocks switch fonts through \fn and \r;
// the \N, \n and \h markers are skipped. An unterminated '{' is literal text.
func walkText(text, base string, styles styleTable, emit func(font string, r rune)) {
	active := base
	for i := 0; i < len(text); {
		switch c := text[i]; {
		case c == '{':
			end := strings.IndexByte(text[i+1:], '}')
			if end < 0 {
				emit(active, '{')
				i++
				continue
			}
			block := text[i+1 : i+1+end]
			for _, tag := range overrideTags(block) {
				switch tag.name {
				case "fn":
					if tag.arg == "" {
						active = base
					} else {
						active = cleanFontName(tag.arg)
					}
				case "r":
					if tag.arg == "" {
						active = base
					} else if font, ok := styles.lookup(tag.arg); ok {
						active = font
					} else {
						active = base
					}
				}
			}
			i += end + 2
		case c == '\\' && i+1 < len(text) && (text[i+1] == 'N' || text[i+1] == 'n' || text[i+1] == 'h'):
			i += 2
		default:
			r, size := decodeRune(text[i:])
			emit(active, r)
			i += size
		}
	}
}
