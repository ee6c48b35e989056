// Package pipeline drives the per-container run: subtitle discovery, glyph
// analysis, font matching, subsetting, subtitle rewriting and the final
// mkvmerge mux.
//
// Containers are processed one at a time in directory order. A container
// that fails is recorded in the summary and the run moves on; only
// cancellation and scratch setup errors end the run early.
package pipeline
