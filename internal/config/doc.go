// Package config loads, normalizes, and validates fontmux configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// pipeline and CLI need: font scan directories and matching rules, the
// subsetting engine, mkvmerge placement, scratch handling, and logging.
//
// Command-line flags are layered on top of a loaded Config and then passed
// through Finalize so flag values get the same normalization as file values.
package config
