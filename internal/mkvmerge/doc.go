// Package mkvmerge builds and runs the mkvmerge invocation that attaches
// rewritten subtitles and subset fonts to a Matroska container.
package mkvmerge
