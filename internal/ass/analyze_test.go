package ass

import (
	"testing"

	"fontmux/internal/testsupport"
)

func analyze(t *testing.T, text string, ignore ...string) Usage {
	t.Helper()
	if ignore == nil {
		ignore = []string{"default", "arial", "sans-serif"}
	}
	return NewAnalyzer(ignore).Analyze(Parse(text))
}

func usageStrings(u Usage) map[string]string {
	out := make(map[string]string, len(u))
	for font, set := range u {
		out[font] = set.String()
	}
	return out
}

func TestAnalyzeAttributesGlyphsToStyleFont(t *testing.T) {
	text := testsupport.Script(
		[]testsupport.Style{{Name: "Main", Font: "思源黑体"}, {Name: "Sign", Font: "Arial"}},
		"Main|你{\\b1}好\\N你",
		"Sign|ignored text",
	)
	got := usageStrings(analyze(t, text))
	if len(got) != 1 || got["思源黑体"] != "你好" {
		t.Fatalf("usage = %v", got)
	}
}

func TestAnalyzeOverrideTags(t *testing.T) {
	text := testsupport.Script(
		[]testsupport.Style{{Name: "Main", Font: "Base Font"}, {Name: "Alt", Font: "Alt Font"}},
		`Main|a{\fnOther Font\i1}b{\r}c{\fn@Vert}d{\rAlt}e{\rMissing}f{\fn}g`,
		`Main|{\t(\fnAnim)}h\hi\nj`,
	)
	got := usageStrings(analyze(t, text))
	want := map[string]string{
		"Base Font":  "acfg",
		"Other Font": "b",
		"Vert":       "d",
		"Alt Font":   "e",
		"Anim":       "hij",
	}
	if len(got) != len(want) {
		t.Fatalf("usage = %v, want %v", got, want)
	}
	for font, glyphs := range want {
		if got[font] != glyphs {
			t.Fatalf("font %q glyphs = %q, want %q (all: %v)", font, got[font], glyphs, got)
		}
	}
}

func TestAnalyzeUnresolvedStyle(t *testing.T) {
	withDefault := testsupport.Script(
		[]testsupport.Style{{Name: "Default", Font: "Fallback Sans"}},
		"Nope|x",
	)
	if got := usageStrings(analyze(t, withDefault)); got["Fallback Sans"] != "x" {
		t.Fatalf("expected Default style font, got %v", got)
	}

	withoutDefault := testsupport.Script(nil, "Nope|x")
	if got := analyze(t, withoutDefault); len(got) != 0 {
		t.Fatalf("sentinel Default font must be ignored, got %v", usageStrings(got))
	}
	if got := analyze(t, withoutDefault, "arial"); got[DefaultFont].String() != "x" {
		t.Fatalf("sentinel should be tracked when not ignored, got %v", usageStrings(got))
	}
}

func TestAnalyzeUnterminatedBraceIsText(t *testing.T) {
	text := testsupport.Script([]testsupport.Style{{Name: "Main", Font: "F"}}, "Main|a{b")
	if got := usageStrings(analyze(t, text)); got["F"] != "ab{" {
		t.Fatalf("usage = %v", got)
	}
}

func TestIgnoredNamesAreCaseAndSpaceInsensitive(t *testing.T) {
	a := NewAnalyzer([]string{"Sans-Serif", "default"})
	for _, name := range []string{"sans-serif", " SANS-SERIF ", "sans - serif", "@Default", "De Fault"} {
		if !a.Ignored(name) {
			t.Fatalf("%q should be ignored", name)
		}
	}
	if a.Ignored("Arial") {
		t.Fatal("arial is not in this ignore set")
	}
}

func TestUsageMerge(t *testing.T) {
	u := Usage{}
	u.Add("A", "ab")
	other := Usage{}
	other.Add("A", "bc")
	other.Add("B", "z")
	u.Merge(other)
	if u["A"].String() != "abc" || u["B"].String() != "z" {
		t.Fatalf("merged usage = %v", usageStrings(u))
	}
	if names := u.Names(); len(names) != 2 || names[0] != "A" {
		t.Fatalf("Names() = %v", names)
	}
}
