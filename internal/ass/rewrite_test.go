package ass

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"fontmux/internal/testsupport"
)

// referencedFonts collects style fonts and \fn arguments of a script.
func referencedFonts(s *Script) []string {
	var out []string
	for _, st := range s.Styles() {
		out = append(out, st.Font)
	}
	for _, d := range s.Dialogue() {
		text := d.Text
		for {
			open := strings.IndexByte(text, '{')
			if open < 0 {
				break
			}
			end := strings.IndexByte(text[open:], '}')
			if end < 0 {
				break
			}
			for _, tag := range overrideTags(text[open+1 : open+end]) {
				if tag.name == "fn" && tag.arg != "" {
					out = append(out, tag.arg)
				}
			}
			text = text[open+end+1:]
		}
	}
	return out
}

func TestRewriteRoundTrip(t *testing.T) {
	text := testsupport.Script(
		[]testsupport.Style{{Name: "Main", Font: "思源黑体"}, {Name: "Vert", Font: "@Source Han Serif"}, {Name: "Keep", Font: "Unmapped"}},
		`Main|{\fnSOURCE HAN SERIF\b1}a{\fnsourcehanserif}b`,
		`Vert|{\fn@思源黑体}c`,
	)
	m := NameMap{"思源黑体": "AbCdEfGhIj", "Source Han Serif": "ZyXwVuTsRq"}
	out := Rewrite(Parse(text), m)

	reparsed := Parse(out.String())
	want := []string{"AbCdEfGhIj", "@ZyXwVuTsRq", "Unmapped", "ZyXwVuTsRq", "ZyXwVuTsRq", "@AbCdEfGhIj"}
	if diff := cmp.Diff(want, referencedFonts(reparsed)); diff != "" {
		t.Fatalf("fonts mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(out.String(), `\b1}a`) {
		t.Fatalf("other tags must be preserved:\n%s", out.String())
	}

	info := reparsed.Section(KindScriptInfo)
	var comments []string
	for _, line := range info.Lines {
		if strings.HasPrefix(line.String(), FontMapPrefix) {
			comments = append(comments, line.String())
		}
	}
	wantComments := []string{
		"; FontMap: Source Han Serif -> ZyXwVuTsRq",
		"; FontMap: 思源黑体 -> AbCdEfGhIj",
	}
	if diff := cmp.Diff(wantComments, comments); diff != "" {
		t.Fatalf("comments mismatch (-want +got):\n%s", diff)
	}
}

func TestRewriteDoesNotMutateInput(t *testing.T) {
	text := testsupport.Script([]testsupport.Style{{Name: "Main", Font: "A"}}, `Main|{\fnA}x`)
	in := Parse(text)
	_ = Rewrite(in, NameMap{"A": "B"})
	if in.String() != text {
		t.Fatal("input script was modified")
	}
}

func TestRewriteEmptyMapIsNoop(t *testing.T) {
	in := Parse(testsupport.Script([]testsupport.Style{{Name: "Main", Font: "A"}}, "Main|x"))
	if out := Rewrite(in, nil); out != in {
		t.Fatal("empty map should return the input script")
	}
}

func TestRewriteAppendsToExistingScriptInfo(t *testing.T) {
	text := testsupport.Script([]testsupport.Style{{Name: "Main", Font: "A"}}, "Main|x")
	once := Rewrite(Parse(text), NameMap{"A": "B"})
	twice := Rewrite(Parse(once.String()), NameMap{"B": "C"})
	rendered := twice.String()

	if n := strings.Count(rendered, ScriptInfoHeader); n != 1 {
		t.Fatalf("[Script Info] appears %d times:\n%s", n, rendered)
	}
	first := strings.Index(rendered, "; FontMap: A -> B")
	second := strings.Index(rendered, "; FontMap: B -> C")
	styles := strings.Index(rendered, "[V4+ Styles]")
	if first < 0 || second < first || styles < second {
		t.Fatalf("unexpected comment placement:\n%s", rendered)
	}
	if !strings.Contains(rendered, "; FontMap: B -> C\r\n\r\n[V4+ Styles]") {
		t.Fatalf("blank separator before next section should be kept:\n%s", rendered)
	}
}

func TestRewriteSynthesizesScriptInfo(t *testing.T) {
	text := "[V4+ Styles]\nStyle: Main,A,48\n[Events]\nDialogue: 0,0:00:00.00,0:00:01.00,Main,,0,0,0,,x\n"
	out := Rewrite(Parse(text), NameMap{"A": "B"}).String()
	want := "[Script Info]\n; FontMap: A -> B\n\n[V4+ Styles]\nStyle: Main,B,48\n"
	if !strings.HasPrefix(out, want) {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestRewriteFiles(t *testing.T) {
	dir := t.TempDir()
	src := testsupport.WriteText(t, filepath.Join(dir, "ep01.chs.ass"),
		testsupport.Script([]testsupport.Style{{Name: "Main", Font: "A"}}, "Main|x"))
	scratch := filepath.Join(dir, "scratch", "temp_ass")

	same, err := RewriteFiles([]string{src}, nil, scratch, "gb18030")
	if err != nil || len(same) != 1 || same[0] != src {
		t.Fatalf("empty map should return originals: %v %v", same, err)
	}

	out, err := RewriteFiles([]string{src}, NameMap{"A": "Z"}, scratch, "gb18030")
	if err != nil {
		t.Fatalf("RewriteFiles: %v", err)
	}
	if len(out) != 1 || out[0] != filepath.Join(scratch, "ep01.chs.ass") {
		t.Fatalf("unexpected outputs %v", out)
	}
	data, err := os.ReadFile(out[0])
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.HasPrefix(string(data), "\xEF\xBB\xBF[Script Info]") {
		t.Fatalf("output should start with a UTF-8 BOM, got %q", data[:16])
	}
	if !strings.Contains(string(data), "Style: Main,Z,48") {
		t.Fatalf("style not rewritten:\n%s", data)
	}
	if orig := testsupport.ReadText(t, src); strings.Contains(orig, ",Z,") {
		t.Fatal("source subtitle was modified")
	}
}
