package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"fontmux/internal/config"
	"fontmux/internal/logging"
	"fontmux/internal/pipeline"
	"fontmux/internal/preflight"
	"fontmux/internal/report"
	"fontmux/internal/services"
)

type runFlags struct {
	forceMatch     bool
	fontDirs       []string
	disableSubset  bool
	nativeSubset   bool
	saveLog        bool
	overwrite      bool
	removeTemp     bool
	printFonts     bool
	printMatchFont bool
	language       string
}

func bindRunFlags(cmd *cobra.Command, ctx *commandContext) {
	var flags runFlags
	f := cmd.Flags()
	f.BoolVar(&flags.forceMatch, "force-match", false, "Match font names exactly, without regional suffix fallback")
	f.StringSliceVar(&flags.fontDirs, "font-directory", nil, "Font directory to scan instead of the configured ones (repeatable)")
	f.BoolVar(&flags.disableSubset, "disable-subset", false, "Attach matched fonts unmodified")
	f.BoolVar(&flags.nativeSubset, "native-subset", false, "Subset in-process instead of running pyftsubset")
	f.BoolVar(&flags.saveLog, "save-log", false, "Also write the log to DIR/mux.log")
	f.BoolVar(&flags.overwrite, "overwrite", false, "Replace the source containers instead of writing to the output directory")
	f.BoolVar(&flags.removeTemp, "remove-temp", false, "Delete the scratch directory after the run")
	f.BoolVar(&flags.printFonts, "only-print-fonts", false, "Print the fonts each container's subtitles use and stop")
	f.BoolVar(&flags.printMatchFont, "only-print-matchfont", false, "Print how each font matched and stop")
	f.StringVar(&flags.language, "language", "", "Language tag for added subtitle tracks")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		return runPipeline(cmd, ctx, flags, dir)
	}
}

func (f runFlags) apply(cfg *config.Config) error {
	if f.forceMatch {
		cfg.Fonts.ForceExact = true
	}
	if len(f.fontDirs) > 0 {
		cfg.Fonts.Dirs = append([]string(nil), f.fontDirs...)
	}
	if f.disableSubset {
		cfg.Subset.Enabled = false
	}
	if f.nativeSubset {
		cfg.Subset.Engine = config.EngineNative
	}
	if f.saveLog {
		cfg.Logging.Save = true
	}
	if f.overwrite {
		cfg.Mux.Overwrite = true
	}
	if f.removeTemp {
		cfg.Run.RemoveTemp = true
	}
	if f.language != "" {
		cfg.Mux.Language = f.language
	}
	return cfg.Finalize()
}

func (f runFlags) mode() pipeline.Mode {
	switch {
	case f.printFonts:
		return pipeline.ModeUsage
	case f.printMatchFont:
		return pipeline.ModeMatch
	default:
		return pipeline.ModeMux
	}
}

func runPipeline(cmd *cobra.Command, ctx *commandContext, flags runFlags, dir string) error {
	cfg, err := ctx.configCopy()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := flags.apply(cfg); err != nil {
		return services.Wrap(services.ErrConfiguration, "CONFIG", "flags", "", err)
	}
	workDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve work directory: %w", err)
	}

	mode := flags.mode()
	results := preflight.RunAll(cfg, preflight.Options{
		WorkDir:      workDir,
		UserFontDirs: cfg.Fonts.Dirs,
		ReportOnly:   mode != pipeline.ModeMux,
	})
	if err := preflight.Failed(results); err != nil {
		return err
	}

	sessionID := uuid.NewString()
	logger, err := logging.NewFromConfig(cfg, workDir, sessionID)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	signalCtx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	runCtx := services.WithRunID(signalCtx, sessionID)

	logger.Info("fontmux starting",
		logging.String(logging.FieldEventType, "run_start"),
		logging.String(logging.FieldRunID, sessionID),
		logging.String("dir", workDir),
		logging.String("engine", cfg.Subset.Engine),
		logging.Bool("subset", cfg.SubsetEnabled()),
		logging.Bool("overwrite", cfg.Mux.Overwrite),
	)

	idx, err := pipeline.BuildIndex(runCtx, logger, cfg)
	if err != nil {
		return err
	}
	orchestrator := pipeline.New(logger, cfg, pipeline.Options{
		Mode:    mode,
		Index:   idx,
		Printer: report.NewPrinter(cmd.OutOrStdout()),
	})
	if _, err := orchestrator.Run(runCtx, workDir); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("run interrupted", logging.String(logging.FieldEventType, "run_cancelled"))
		}
		return err
	}
	return nil
}
