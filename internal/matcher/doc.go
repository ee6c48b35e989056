// Package matcher resolves the fonts a container's subtitles reference
// against the font index and checks that matched faces cover the requested
// glyphs.
package matcher
