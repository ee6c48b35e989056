package ass

import (
	"strings"
)

// Kind classifies a script section.
type Kind int

const (
	KindOther Kind = iota
	KindScriptInfo
	KindStyles
	KindEvents
)

func (k Kind) String() string {
	switch k {
	case KindScriptInfo:
		return "script_info"
	case KindStyles:
		return "styles"
	case KindEvents:
		return "events"
	default:
		return "other"
	}
}

// ScriptInfoHeader is the canonical metadata section header.
const ScriptInfoHeader = "[Script Info]"

// Line is one physical line of a script. Descriptor lines ("Style: ...")
// keep the descriptor in Key and the remainder in Value; other lines have an
// empty Key and carry their full text in Value.
type Line struct {
	Key   string
	Value string
	sep   string
}

// String reassembles the line as it appears in the file.
func (l Line) String() string {
	return l.Key + l.sep + l.Value
}

// Is reports whether the line's descriptor equals key, ignoring case and
// surrounding space.
func (l Line) Is(key string) bool {
	return l.sep != "" && strings.EqualFold(strings.TrimSpace(l.Key), key)
}

// WithValue returns a copy of the line with its value replaced.
func (l Line) WithValue(value string) Line {
	l.Value = value
	return l
}

// TextLine builds a keyless line.
func TextLine(text string) Line {
	return Line{Value: text}
}

func parseLine(raw string) Line {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.HasPrefix(trimmed, ";") {
		return Line{Value: raw}
	}
	colon := strings.IndexByte(raw, ':')
	if colon <= 0 {
		return Line{Value: raw}
	}
	end := colon + 1
	for end < len(raw) && (raw[end] == ' ' || raw[end] == '\t') {
		end++
	}
	return Line{Key: raw[:colon], sep: raw[colon:end], Value: raw[end:]}
}

// Section is a bracketed block of a script.
type Section struct {
	Header string
	Name   string
	Kind   Kind
	Lines  []Line
}

func newSection(header string) *Section {
	name := strings.TrimSpace(header)
	name = strings.TrimSuffix(strings.TrimPrefix(name, "["), "]")
	return &Section{Header: header, Name: name, Kind: classify(name)}
}

func classify(name string) Kind {
	lower := strings.ToLower(strings.TrimSpace(name))
	switch {
	case lower == "script info":
		return KindScriptInfo
	case strings.HasPrefix(lower, "v4") && strings.HasSuffix(lower, "styles"):
		return KindStyles
	case lower == "events":
		return KindEvents
	default:
		return KindOther
	}
}

// format returns the lowercased field names declared by the section's
// Format line, or fallback when none is present.
func (s *Section) format(fallback []string) []string {
	for _, line := range s.Lines {
		if !line.Is("Format") {
			continue
		}
		parts := strings.Split(line.Value, ",")
		fields := make([]string, len(parts))
		for i, p := range parts {
			fields[i] = strings.ToLower(strings.TrimSpace(p))
		}
		return fields
	}
	return fallback
}

// Script is a parsed subtitle script.
type Script struct {
	// Preamble holds lines that precede the first section header.
	Preamble []Line
	Sections []*Section
	// Newline is the line terminator found in the source.
	Newline string
	// FinalNewline records whether the source ended with a terminator.
	FinalNewline bool
	// Encoding names the character set the source was decoded from.
	Encoding string
}

// Parse splits decoded script text into sections and lines.
func Parse(text string) *Script {
	s := &Script{Newline: "\n"}
	if strings.Contains(text, "\r\n") {
		s.Newline = "\r\n"
	}
	if text == "" {
		return s
	}
	raw := strings.Split(text, "\n")
	if raw[len(raw)-1] == "" {
		s.FinalNewline = true
		raw = raw[:len(raw)-1]
	}

	var current *Section
	for _, r := range raw {
		r = strings.TrimSuffix(r, "\r")
		trimmed := strings.TrimSpace(r)
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			current = newSection(r)
			s.Sections = append(s.Sections, current)
			continue
		}
		line := parseLine(r)
		if current == nil {
			s.Preamble = append(s.Preamble, line)
			continue
		}
		current.Lines = append(current.Lines, line)
	}
	return s
}

// String renders the script text without a byte order mark.
func (s *Script) String() string {
	var b strings.Builder
	first := true
	write := func(text string) {
		if !first {
			b.WriteString(s.Newline)
		}
		first = false
		b.WriteString(text)
	}
	for _, line := range s.Preamble {
		write(line.String())
	}
	for _, sec := range s.Sections {
		write(sec.Header)
		for _, line := range sec.Lines {
			write(line.String())
		}
	}
	if s.FinalNewline && !first {
		b.WriteString(s.Newline)
	}
	return b.String()
}

// Section returns the first section of the given kind.
func (s *Script) Section(kind Kind) *Section {
	for _, sec := range s.Sections {
		if sec.Kind == kind {
			return sec
		}
	}
	return nil
}

// Clone returns a deep copy of the script.
func (s *Script) Clone() *Script {
	out := *s
	out.Preamble = append([]Line(nil), s.Preamble...)
	out.Sections = make([]*Section, len(s.Sections))
	for i, sec := range s.Sections {
		c := *sec
		c.Lines = append([]Line(nil), sec.Lines...)
		out.Sections[i] = &c
	}
	return &out
}
