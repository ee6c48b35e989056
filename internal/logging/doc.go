// Package logging assembles the structured slog loggers used across fontmux.
//
// It owns the console and JSON handlers, tees records into the optional run
// log file, stamps that file with a session identifier, and exposes
// context-aware helpers so pipeline code can tag log lines with the container
// and stage being processed. A no-op logger is provided for tests and wiring
// code that cannot fail.
package logging
