// Package preflight runs the fatal readiness checks that gate a fontmux run.
//
// Every check executes before the first container is touched: the work
// directory must be writable, user-supplied font directories must exist and
// be readable, and the external tools the configuration needs must be on
// PATH. A single failure aborts the run.
package preflight
