// Package ass parses Advanced SubStation Alpha scripts into a small tagged
// model, attributes dialogue glyphs to the fonts that render them, and
// rewrites font references through an obfuscation map.
//
// A script is parsed once into Sections of Lines. Lines keep their original
// spelling so a script that is written back without edits is byte-identical
// apart from the UTF-8 byte order mark added on output.
package ass
