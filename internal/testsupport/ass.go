package testsupport

import (
	"fmt"
	"strings"
)

// Style describes one [V4+ Styles] entry of a fixture script.
type Style struct {
	Name string
	Font string
}

// Script renders a minimal ASS script with the given styles and dialogue
// lines. Each dialogue entry is "Style|Text".
func Script(styles []Style, dialogue ...string) string {
	var b strings.Builder
	b.WriteString("[Script Info]\r\n")
	b.WriteString("Title: fixture\r\n")
	b.WriteString("ScriptType: v4.00+\r\n")
	b.WriteString("\r\n[V4+ Styles]\r\n")
	b.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, Bold, Italic\r\n")
	for _, s := range styles {
		fmt.Fprintf(&b, "Style: %s,%s,48,&H00FFFFFF,0,0\r\n", s.Name, s.Font)
	}
	b.WriteString("\r\n[Events]\r\n")
	b.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\r\n")
	for _, line := range dialogue {
		style, text, _ := strings.Cut(line, "|")
		fmt.Fprintf(&b, "Dialogue: 0,0:00:01.00,0:00:02.00,%s,,0,0,0,,%s\r\n", style, text)
	}
	return b.String()
}
