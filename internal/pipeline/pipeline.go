package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"fontmux/internal/ass"
	"fontmux/internal/command"
	"fontmux/internal/config"
	"fontmux/internal/fileutil"
	"fontmux/internal/language"
	"fontmux/internal/logging"
	"fontmux/internal/matcher"
	"fontmux/internal/mkvmerge"
	"fontmux/internal/report"
	"fontmux/internal/services"
	"fontmux/internal/staging"
	"fontmux/internal/subset"
)

// Stage names recorded in logs and failure reports.
const (
	StageDiscover = "DISCOVER_SUBS"
	StageAnalyze  = "ANALYZE"
	StageMatch    = "MATCH"
	StageSubset   = "SUBSET"
	StageRewrite  = "REWRITE"
	StageMux      = "MUX"
)

// Mode selects how far each container is processed.
type Mode int

const (
	// ModeMux runs the full pipeline.
	ModeMux Mode = iota
	// ModeUsage prints the font usage and match tables and stops.
	ModeUsage
	// ModeMatch prints the match table and stops.
	ModeMatch
)

// Container outcomes beyond the failure statuses in services.
const (
	StatusMuxed    services.Status = "muxed"
	StatusReported services.Status = "reported"
)

const rewrittenSubtitleDir = "temp_ass"

// ContainerResult is the outcome of one container.
type ContainerResult struct {
	Container string
	Status    services.Status
	// Stage is where processing stopped when Err is set.
	Stage     string
	Subtitles []string
	Usage     ass.Usage
	Matches   []matcher.Result
	Fonts     []subset.Output
	Output    string
	Err       error
}

// Summary collects every container result of a run.
type Summary struct {
	Containers   []ContainerResult
	ScratchBytes int64
}

// Count returns the number of containers that ended with status.
func (s Summary) Count(status services.Status) int {
	n := 0
	for _, c := range s.Containers {
		if c.Status == status {
			n++
		}
	}
	return n
}

// Options wire the collaborators of an Orchestrator.
type Options struct {
	Mode   Mode
	Index  matcher.Index
	Engine subset.Engine
	Runner command.Runner
	// Printer receives the per-container tables and the summary. Nil
	// disables console reports.
	Printer *report.Printer
}

// Orchestrator runs the per-container pipeline.
type Orchestrator struct {
	cfg      *config.Config
	opts     Options
	logger   *slog.Logger
	analyzer *ass.Analyzer
	matcher  *matcher.Matcher
	muxer    *mkvmerge.Muxer
}

// New constructs an Orchestrator.
func New(logger *slog.Logger, cfg *config.Config, opts Options) *Orchestrator {
	if opts.Runner == nil {
		opts.Runner = command.ExecRunner{}
	}
	if opts.Engine == nil {
		opts.Engine = NewEngine(logger, cfg, opts.Runner)
	}
	return &Orchestrator{
		cfg:      cfg,
		opts:     opts,
		logger:   logging.NewComponentLogger(logger, "pipeline"),
		analyzer: ass.NewAnalyzer(cfg.Fonts.Ignore),
		matcher:  matcher.New(logger, opts.Index, matcher.NewCoverage()),
		muxer:    mkvmerge.NewMuxer(logger, opts.Runner, cfg.Mux.MkvmergeBinary, seconds(cfg.Mux.TimeoutSeconds)),
	}
}

// Run processes every container in workDir. Per-container failures are
// recorded in the summary; the returned error is reserved for conditions
// that stop the whole run.
func (o *Orchestrator) Run(ctx context.Context, workDir string) (Summary, error) {
	var summary Summary
	containers, err := DiscoverContainers(workDir)
	if err != nil {
		return summary, services.Wrap(services.ErrConfiguration, "RUN", "list", "cannot read work directory", err)
	}
	if len(containers) == 0 {
		logging.WarnWithContext(o.logger, "no containers found", "no_containers",
			logging.String("dir", workDir),
			logging.String(logging.FieldErrorHint, "fontmux processes .mkv files directly inside the directory"),
		)
	}

	var scratch *staging.Scratch
	if o.opts.Mode == ModeMux && len(containers) > 0 {
		scratch, err = staging.Acquire(workDir, o.cfg.Run.ScratchDir, o.logger)
		if err != nil {
			return summary, err
		}
		defer func() {
			if scratch != nil {
				_ = scratch.Release(o.cfg.Run.RemoveTemp)
			}
		}()
	}

	for _, container := range containers {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		res := o.processContainer(ctx, container, scratch)
		summary.Containers = append(summary.Containers, res)
	}

	if scratch != nil {
		if !o.cfg.Run.RemoveTemp {
			summary.ScratchBytes = scratchSize(scratch)
		}
		err := scratch.Release(o.cfg.Run.RemoveTemp)
		scratch = nil
		if err != nil {
			o.logger.Debug("scratch release failed", logging.Error(err))
		}
	}
	o.printSummary(summary)
	o.logger.Info("run complete",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("containers", len(summary.Containers)),
		logging.Int("muxed", summary.Count(StatusMuxed)),
		logging.Int("skipped", summary.Count(services.StatusSkipped)),
		logging.Int("failed", summary.Count(services.StatusFailed)),
	)
	return summary, ctx.Err()
}

func (o *Orchestrator) processContainer(ctx context.Context, container string, scratch *staging.Scratch) ContainerResult {
	ctx = services.WithContainer(ctx, filepath.Base(container))
	res := ContainerResult{Container: container}
	logger := logging.WithContext(ctx, o.logger)
	logger.Info("processing container", logging.String(logging.FieldEventType, "container_start"))

	fail := func(stage string, err error) ContainerResult {
		res.Stage = stage
		res.Err = err
		res.Status = services.FailureStatus(err)
		stageLogger := logging.WithContext(services.WithStage(ctx, stage), o.logger)
		if res.Status == services.StatusSkipped {
			logging.WarnWithContext(stageLogger, "container skipped", "container_skipped",
				logging.Error(err),
				logging.String(logging.FieldImpact, "container left unchanged"),
			)
		} else {
			logging.ErrorWithContext(stageLogger, "container failed", "container_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "container left unchanged"),
			)
		}
		return res
	}

	// DISCOVER_SUBS
	subs, err := DiscoverSubtitles(container, o.cfg.Subtitles.Extensions)
	if err != nil {
		return fail(StageDiscover, services.Wrap(services.ErrValidation, StageDiscover, "list", "cannot read container directory", err))
	}
	if len(subs) == 0 {
		return fail(StageDiscover, services.Wrap(services.ErrNotFound, StageDiscover, "match", "no subtitles found", nil))
	}
	res.Subtitles = subs

	// ANALYZE
	usage := ass.Usage{}
	for _, path := range subs {
		script, err := ass.ReadFile(path, o.cfg.Subtitles.FallbackEncoding)
		if err != nil {
			return fail(StageAnalyze, services.Wrap(services.ErrValidation, StageAnalyze, "read", filepath.Base(path), err))
		}
		usage.Merge(o.analyzer.Analyze(script))
	}
	res.Usage = usage
	logger.Info("subtitles analyzed",
		logging.Int("subtitles", len(subs)),
		logging.Int("fonts", len(usage)),
	)
	if o.opts.Mode == ModeUsage {
		o.printer(func(p *report.Printer) { p.Usage(container, usage) })
	}

	// MATCH
	res.Matches = o.matcher.Match(usage)
	o.printer(func(p *report.Printer) { p.Match(container, res.Matches) })
	if o.opts.Mode != ModeMux {
		res.Status = StatusReported
		return res
	}

	if err := ctx.Err(); err != nil {
		return fail(StageSubset, err)
	}
	work, err := scratch.ContainerDir(container)
	if err != nil {
		return fail(StageSubset, services.Wrap(services.ErrConfiguration, StageSubset, "scratch", "", err))
	}

	// SUBSET
	subsetter := subset.New(o.logger, o.opts.Engine, subset.Options{
		Enabled:          o.cfg.SubsetEnabled(),
		IdentifierLength: o.cfg.Subset.IdentifierLength,
		Dir:              work,
	})
	outputs, names := subsetter.Process(ctx, matcher.Groups(res.Matches))
	res.Fonts = outputs
	o.printer(func(p *report.Printer) {
		if len(outputs) > 0 {
			p.Attachments(container, outputs)
		}
	})
	// Faces of one collection share a path when subsetting is disabled.
	attachments := make([]mkvmerge.Attachment, 0, len(outputs))
	attached := make(map[string]bool, len(outputs))
	for _, out := range outputs {
		if !out.Attached() || attached[out.Path] {
			continue
		}
		attached[out.Path] = true
		attachments = append(attachments, mkvmerge.Attachment{Path: out.Path, MimeType: out.MimeType})
	}
	if err := ctx.Err(); err != nil {
		return fail(StageSubset, err)
	}
	if len(attachments) == 0 {
		return fail(StageSubset, services.Wrap(services.ErrNotFound, StageSubset, "attach", "no fonts to attach", nil))
	}

	// REWRITE
	rewritten, err := ass.RewriteFiles(subs, names, filepath.Join(work, rewrittenSubtitleDir), o.cfg.Subtitles.FallbackEncoding)
	if err != nil {
		return fail(StageRewrite, services.Wrap(services.ErrValidation, StageRewrite, "write", "", err))
	}

	// MUX
	output, final := o.outputPaths(container, work)
	req := mkvmerge.Request{
		Source:      container,
		Output:      output,
		Attachments: attachments,
	}
	stem := strings.TrimSuffix(filepath.Base(container), filepath.Ext(container))
	for i, path := range rewritten {
		req.Subtitles = append(req.Subtitles, mkvmerge.Track{
			Path:     path,
			Language: o.trackLanguage(subs[i], stem),
		})
	}
	muxCtx := services.WithStage(ctx, StageMux)
	if _, err := o.muxer.Mux(muxCtx, req); err != nil {
		return fail(StageMux, err)
	}
	if final != output {
		if err := fileutil.MoveFile(output, final); err != nil {
			return fail(StageMux, services.Wrap(services.ErrTransient, StageMux, "replace", "cannot replace source container", err))
		}
	}
	res.Output = final
	res.Status = StatusMuxed
	logger.Info("container done",
		logging.String(logging.FieldEventType, "container_done"),
		logging.String("output", final),
		logging.Int("fonts_attached", len(attachments)),
	)
	return res
}

// outputPaths returns where mkvmerge writes and where the result ends up.
// In overwrite mode mkvmerge writes into scratch and the result replaces the
// source afterwards.
func (o *Orchestrator) outputPaths(container, work string) (string, string) {
	name := filepath.Base(container)
	if o.cfg.Mux.Overwrite {
		return filepath.Join(work, "temp_"+name), container
	}
	out := filepath.Join(filepath.Dir(container), o.cfg.Mux.OutputDir, name)
	return out, out
}

func (o *Orchestrator) trackLanguage(subtitle, stem string) string {
	if o.cfg.Mux.LanguageFromName {
		if lang := language.FromFileName(subtitle, stem); lang != "" {
			return lang
		}
	}
	return o.cfg.Mux.Language
}

func (o *Orchestrator) printer(fn func(*report.Printer)) {
	if o.opts.Printer != nil {
		fn(o.opts.Printer)
	}
}

func (o *Orchestrator) printSummary(summary Summary) {
	if o.opts.Printer == nil || len(summary.Containers) == 0 {
		return
	}
	rows := make([]report.ContainerRow, 0, len(summary.Containers))
	for _, c := range summary.Containers {
		matched, missing := matcher.Counts(c.Matches)
		attached := 0
		for _, f := range c.Fonts {
			if f.Attached() {
				attached++
			}
		}
		detail := c.Output
		if c.Err != nil {
			detail = failureDetail(c)
		}
		rows = append(rows, report.ContainerRow{
			Container: c.Container,
			Status:    string(c.Status),
			Subtitles: len(c.Subtitles),
			Matched:   matched,
			Missing:   missing,
			Attached:  attached,
			Detail:    detail,
		})
	}
	o.opts.Printer.Summary(rows, summary.ScratchBytes)
}

func failureDetail(c ContainerResult) string {
	msg := c.Err.Error()
	if errors.Is(c.Err, context.Canceled) {
		msg = "cancelled"
	}
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return fmt.Sprintf("%s: %s", c.Stage, msg)
}

func scratchSize(s *staging.Scratch) int64 {
	dirs, err := s.ListDirectories()
	if err != nil {
		return 0
	}
	var total int64
	for _, d := range dirs {
		total += d.Size
	}
	return total
}
