package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"fontmux/internal/ass"
	"fontmux/internal/fontindex"
	"fontmux/internal/matcher"
	"fontmux/internal/subset"
)

func TestShouldColorizeBuffer(t *testing.T) {
	if ShouldColorize(&bytes.Buffer{}) {
		t.Fatal("buffers are never terminals")
	}
}

func TestUsageTable(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	usage := ass.Usage{}
	usage.Add("思源黑体", "你好")
	usage.Add("Other", "abc")

	p.Usage("/media/ep01.mkv", usage)

	out := buf.String()
	for _, want := range []string{"Font usage: ep01.mkv", "思源黑体", "Other", "abc"} {
		if !strings.Contains(out, want) {
			t.Fatalf("usage table missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("unexpected colour codes in non-terminal output")
	}
}

func TestMatchTable(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	glyphs := ass.GlyphSet{}
	glyphs.AddString("你好")
	results := []matcher.Result{
		{
			Requested: "思源黑体",
			Glyphs:    glyphs,
			Status:    matcher.StatusOK,
			Record:    fontindex.Record{Path: "/fonts/SourceHanSans.ttc", Index: 2},
			Method:    fontindex.MethodExact,
		},
		{Requested: "Lost Font", Glyphs: glyphs, Status: matcher.StatusMissing},
	}

	p.Match("ep01.mkv", results)

	out := buf.String()
	for _, want := range []string{"SourceHanSans.ttc#2", "OK", "Missing", "exact", "1 matched, 1 missing"} {
		if !strings.Contains(out, want) {
			t.Fatalf("match table missing %q:\n%s", want, out)
		}
	}
}

func TestAttachmentsTable(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.Attachments("ep01.mkv", []subset.Output{
		{Names: []string{"A", "B"}, Source: "/fonts/a.ttf", Path: "/tmp/a_XYZ.ttf", Identifier: "XYZ"},
		{Names: []string{"C"}, Source: "/fonts/c.otf", Err: errors.New("boom")},
	})
	out := buf.String()
	for _, want := range []string{"A, B", "a_XYZ.ttf", "dropped: boom"} {
		if !strings.Contains(out, want) {
			t.Fatalf("attachments table missing %q:\n%s", want, out)
		}
	}
}

func TestSummaryTotals(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.Summary([]ContainerRow{
		{Container: "/w/ep01.mkv", Status: "muxed", Subtitles: 2, Matched: 3, Attached: 3},
		{Container: "/w/ep02.mkv", Status: "skipped", Detail: "no subtitles"},
		{Container: "/w/ep03.mkv", Status: "muxed", Subtitles: 1, Matched: 1, Attached: 1},
	}, 2048)

	out := buf.String()
	for _, want := range []string{"ep02.mkv", "no subtitles", "muxed 2, skipped 1", "scratch files kept: 2.0 kB"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestFindTable(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.Find([]Lookup{
		{Name: "Go Regular", Found: true, Resolution: fontindex.Resolution{
			Record: fontindex.Record{Path: "/fonts/go.ttf", DisplayName: "Go Regular"},
			Method: fontindex.MethodCompact,
		}},
		{Name: "nothing"},
	}, fontindex.Stats{Files: 1, Faces: 1})

	out := buf.String()
	for _, want := range []string{"/fonts/go.ttf", "compact", "Missing", "1 files, 1 faces indexed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("find table missing %q:\n%s", want, out)
		}
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := truncateRunes("你好世界", 2); got != "你好…" {
		t.Fatalf("truncateRunes = %q", got)
	}
	if got := truncateRunes("ab", 5); got != "ab" {
		t.Fatalf("truncateRunes = %q", got)
	}
}
