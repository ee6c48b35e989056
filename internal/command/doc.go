// Package command runs external tools (mkvmerge, pyftsubset) behind a small
// Runner interface so the pipeline can be exercised without the real binaries.
package command
