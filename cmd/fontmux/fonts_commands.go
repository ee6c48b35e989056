package main

import (
	"fmt"
	"unicode"

	"github.com/spf13/cobra"

	"fontmux/internal/fontindex"
	"fontmux/internal/logging"
	"fontmux/internal/matcher"
	"fontmux/internal/pipeline"
	"fontmux/internal/report"
	"fontmux/internal/subset"
)

func newFontsCommand(ctx *commandContext) *cobra.Command {
	fontsCmd := &cobra.Command{
		Use:   "fonts",
		Short: "Inspect the font index and font files",
	}
	fontsCmd.AddCommand(newFontsFindCommand(ctx))
	fontsCmd.AddCommand(newFontsCharsCommand())
	return fontsCmd
}

func newFontsFindCommand(ctx *commandContext) *cobra.Command {
	var dirs []string
	var forceExact bool

	cmd := &cobra.Command{
		Use:   "find NAME...",
		Short: "Resolve font names against the font index",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.configCopy()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if len(dirs) > 0 {
				cfg.Fonts.Dirs = append([]string(nil), dirs...)
			}
			if forceExact {
				cfg.Fonts.ForceExact = true
			}
			if err := cfg.Finalize(); err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg, "", "")
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			idx, err := pipeline.BuildIndex(cmd.Context(), logger, cfg)
			if err != nil {
				return err
			}
			lookups := make([]report.Lookup, 0, len(args))
			for _, name := range args {
				res, ok := idx.Lookup(name)
				lookups = append(lookups, report.Lookup{Name: name, Found: ok, Resolution: res})
			}
			report.NewPrinter(cmd.OutOrStdout()).Find(lookups, idx.Stats())
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&dirs, "font-directory", nil, "Font directory to scan instead of the configured ones (repeatable)")
	cmd.Flags().BoolVar(&forceExact, "force-match", false, "Disable regional suffix fallback")
	return cmd
}

func newFontsCharsCommand() *cobra.Command {
	var index int

	cmd := &cobra.Command{
		Use:         "chars FILE",
		Short:       "List the characters a font file maps",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			runes, err := subset.Chars(args[0], index)
			if err != nil {
				runes, err = coveredBMP(args[0], index)
				if err != nil {
					return fmt.Errorf("read font: %w", err)
				}
			}
			out := cmd.OutOrStdout()
			for _, r := range runes {
				fmt.Fprintln(out, charLine(r))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&index, "index", 0, "Face index inside a font collection")
	return cmd
}

// coveredBMP probes every BMP code point against the font's cmap. It backs
// up the cmap enumeration for fonts the subsetting reader rejects.
func coveredBMP(path string, index int) ([]rune, error) {
	all := make([]rune, 0, 0xFFFF)
	for r := rune(0x20); r <= 0xFFFF; r++ {
		if r >= 0xD800 && r <= 0xDFFF {
			continue
		}
		all = append(all, r)
	}
	missing, err := matcher.NewCoverage().Missing(fontindex.Record{Path: path, Index: index}, all)
	if err != nil {
		return nil, err
	}
	absent := make(map[rune]struct{}, len(missing))
	for _, r := range missing {
		absent[r] = struct{}{}
	}
	out := make([]rune, 0, len(all)-len(missing))
	for _, r := range all {
		if _, ok := absent[r]; !ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func charLine(r rune) string {
	glyph := string(r)
	if !unicode.IsPrint(r) {
		glyph = " "
	}
	return fmt.Sprintf("%s [U+%04X]", glyph, r)
}
