// Package fontindex builds the name-keyed lookup of installed fonts that
// subtitle font requests are resolved against.
//
// Every face of every font file under the scan directories is registered
// under its family, full, and PostScript names, each in a normalized
// (lowercased, trimmed) and a compact (whitespace-free) form. Later
// registrations replace earlier ones. Lookups fall back to stripping
// regional encoding suffixes such as "_gbk" unless exact matching is forced.
//
// An optional SQLite cache remembers parsed names per file so repeated runs
// over large system font directories skip re-parsing unchanged files.
package fontindex
