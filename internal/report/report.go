package report

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"fontmux/internal/ass"
	"fontmux/internal/fontindex"
	"fontmux/internal/matcher"
	"fontmux/internal/subset"
)

const sampleWidth = 24

// Usage prints the fonts a container's subtitles request and the characters
// drawn in each.
func (p *Printer) Usage(container string, usage ass.Usage) {
	p.section("Font usage: " + filepath.Base(container))
	rows := make([][]string, 0, len(usage))
	for _, name := range usage.Names() {
		glyphs := usage[name]
		rows = append(rows, []string{
			name,
			strconv.Itoa(len(glyphs)),
			truncateRunes(glyphs.String(), sampleWidth),
		})
	}
	p.table([]string{"Font", "Glyphs", "Sample"}, rows, []columnAlignment{alignLeft, alignRight, alignLeft})
}

// Match prints one row per requested font: status, source file and glyph
// count, plus how the name was resolved.
func (p *Printer) Match(container string, results []matcher.Result) {
	p.section("Font match: " + filepath.Base(container))
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		status := p.paint(string(r.Status), ansiGreen)
		source := ""
		method := string(r.Method)
		missing := ""
		if r.Matched() {
			source = recordLabel(r.Record)
			if len(r.MissingGlyphs) > 0 {
				missing = truncateRunes(string(r.MissingGlyphs), sampleWidth)
				status = p.paint(string(r.Status), ansiYellow)
			}
		} else {
			status = p.paint(string(r.Status), ansiRed)
			method = "-"
		}
		rows = append(rows, []string{
			r.Requested,
			status,
			source,
			strconv.Itoa(r.GlyphCount()),
			method,
			missing,
		})
	}
	matched, missing := matcher.Counts(results)
	p.table(
		[]string{"Font", "Status", "Source", "Glyphs", "Method", "Not in font"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	)
	fmt.Fprintf(p.w, "%d matched, %d missing\n", matched, missing)
}

// Attachments prints the fonts produced for a container.
func (p *Printer) Attachments(container string, outputs []subset.Output) {
	p.section("Fonts: " + filepath.Base(container))
	rows := make([][]string, 0, len(outputs))
	for _, o := range outputs {
		result := filepath.Base(o.Path)
		if o.Err != nil {
			result = p.paint("dropped: "+o.Err.Error(), ansiRed)
		}
		rows = append(rows, []string{
			strings.Join(o.Names, ", "),
			recordLabel(fontindex.Record{Path: o.Source, Index: o.Index}),
			o.Identifier,
			result,
		})
	}
	p.table([]string{"Fonts", "Source", "Name", "Attachment"}, rows, nil)
}

// ContainerRow is one line of the run summary.
type ContainerRow struct {
	Container string
	Status    string
	Subtitles int
	Matched   int
	Missing   int
	Attached  int
	Detail    string
}

// Summary prints the per-container outcome table followed by status totals
// and the scratch space left on disk.
func (p *Printer) Summary(rows []ContainerRow, scratchBytes int64) {
	p.section("Summary")
	out := make([][]string, 0, len(rows))
	totals := map[string]int{}
	var order []string
	for _, r := range rows {
		if _, ok := totals[r.Status]; !ok {
			order = append(order, r.Status)
		}
		totals[r.Status]++
		out = append(out, []string{
			filepath.Base(r.Container),
			p.paint(r.Status, statusColor(r.Status)),
			strconv.Itoa(r.Subtitles),
			strconv.Itoa(r.Matched),
			strconv.Itoa(r.Missing),
			strconv.Itoa(r.Attached),
			r.Detail,
		})
	}
	p.table(
		[]string{"Container", "Status", "Subtitles", "Matched", "Missing", "Attached", "Detail"},
		out,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft},
	)
	parts := make([]string, 0, len(order))
	for _, status := range order {
		parts = append(parts, fmt.Sprintf("%s %d", status, totals[status]))
	}
	if len(parts) == 0 {
		parts = append(parts, "no containers")
	}
	fmt.Fprintln(p.w, strings.Join(parts, ", "))
	if scratchBytes > 0 {
		fmt.Fprintf(p.w, "scratch files kept: %s\n", humanize.Bytes(uint64(scratchBytes)))
	}
}

// Lookup is one name resolved by the fonts find command.
type Lookup struct {
	Name       string
	Found      bool
	Resolution fontindex.Resolution
}

// Find prints index lookups.
func (p *Printer) Find(lookups []Lookup, stats fontindex.Stats) {
	rows := make([][]string, 0, len(lookups))
	for _, l := range lookups {
		if !l.Found {
			rows = append(rows, []string{l.Name, p.paint(string(matcher.StatusMissing), ansiRed), "", "", "", ""})
			continue
		}
		rec := l.Resolution.Record
		rows = append(rows, []string{
			l.Name,
			p.paint(string(matcher.StatusOK), ansiGreen),
			rec.DisplayName,
			rec.Path,
			strconv.Itoa(rec.Index),
			string(l.Resolution.Method),
		})
	}
	p.table(
		[]string{"Name", "Status", "Face", "File", "Index", "Method"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	)
	fmt.Fprintf(p.w, "%d files, %d faces indexed (%d from cache, %d skipped)\n",
		stats.Files, stats.Faces, stats.Cached, stats.Skipped)
}

func recordLabel(rec fontindex.Record) string {
	label := filepath.Base(rec.Path)
	if rec.Index > 0 {
		label += "#" + strconv.Itoa(rec.Index)
	}
	return label
}

func statusColor(status string) string {
	switch status {
	case "muxed":
		return ansiGreen
	case "reported":
		return ansiBlue
	case "skipped":
		return ansiYellow
	case "failed":
		return ansiRed
	}
	return ""
}
