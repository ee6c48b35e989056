package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:   "fontmux [flags] [DIR]",
		Short: "Subset subtitle fonts and mux them into MKV containers",
		Long: "fontmux finds the ASS/SSA subtitles next to every .mkv file in DIR, " +
			"subsets and renames the fonts they use, rewrites the subtitles to the new " +
			"names and muxes subtitles and fonts into the container with mkvmerge.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	bindRunFlags(rootCmd, ctx)

	rootCmd.AddCommand(newFontsCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}
