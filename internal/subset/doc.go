// Package subset reduces matched fonts to the glyphs a container's subtitles
// use and renames each subset to a random identifier so it cannot collide
// with an installed font of the same family.
//
// Two engines are available: fontTools' pyftsubset, run through a
// command.Runner, and a native engine built on seehuhn.de/go/sfnt.
package subset
