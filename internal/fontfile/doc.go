// Package fontfile reads and rewrites the SFNT container format shared by
// TrueType, OpenType, and TrueType/OpenType collection files.
//
// It exposes just enough structure for the font index and the obfuscator:
// the table directory of every face, the naming table with per-platform text
// decoding, and a writer that re-assembles a standalone face with replaced
// tables and recomputed checksums. Glyph outlines are never interpreted here.
package fontfile
