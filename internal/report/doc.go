// Package report renders the console tables fontmux prints: font usage,
// match status per container, the run summary and font lookups.
package report
