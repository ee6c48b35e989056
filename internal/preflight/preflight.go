package preflight

import (
	"errors"
	"fmt"
	"strings"

	"fontmux/internal/config"
	"fontmux/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Options names the inputs that are not part of the config file.
type Options struct {
	WorkDir string
	// UserFontDirs are font directories given explicitly by the operator.
	// Default system directories are never checked; a missing one is only
	// logged during the index scan.
	UserFontDirs []string
	// ReportOnly skips the tool checks since nothing is muxed.
	ReportOnly bool
}

// RunAll executes every applicable check for the given config.
func RunAll(cfg *config.Config, opts Options) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	results = append(results, CheckDirectoryAccess("Work directory", opts.WorkDir))
	for _, dir := range opts.UserFontDirs {
		results = append(results, CheckDirectoryReadable("Font directory", dir))
	}
	if opts.ReportOnly {
		return results
	}
	for _, status := range CheckSystemDeps(cfg) {
		detail := status.Command
		if !status.Available {
			detail = status.Detail
		}
		results = append(results, Result{
			Name:   status.Name,
			Passed: status.Available || status.Optional,
			Detail: detail,
		})
	}
	return results
}

// Failed folds the failing results into one configuration error, or returns
// nil when every check passed.
func Failed(results []Result) error {
	var failed []string
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, fmt.Sprintf("%s: %s", r.Name, r.Detail))
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return services.Wrap(services.ErrConfiguration, "PREFLIGHT", "check", strings.Join(failed, "; "), errors.New("preflight failed"))
}
