// Command fontmux subsets the fonts used by ASS/SSA subtitles and muxes the
// fonts and rewritten subtitles into their Matroska containers.
//
// Usage:
//
//	fontmux [flags] [DIR]
//	fontmux fonts find NAME...
//	fontmux fonts chars FILE [--index N]
//	fontmux config init|validate
//	fontmux version
package main
