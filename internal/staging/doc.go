// Package staging manages the run-scoped scratch directory that holds subset
// fonts, rewritten subtitles and temporary mux outputs.
package staging
