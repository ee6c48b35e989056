// Package services defines shared utilities consumed by the pipeline stages.
//
// Key responsibilities:
//   - Context helpers that stamp container paths, stage names, and run
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent container statuses (skipped vs failed).
package services
