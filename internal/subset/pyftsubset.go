package subset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"fontmux/internal/command"
	"fontmux/internal/logging"
	"fontmux/internal/services"
)

// PyftsubsetEngine runs fontTools' pyftsubset.
type PyftsubsetEngine struct {
	binary  string
	runner  command.Runner
	timeout time.Duration
	logger  *slog.Logger
}

// NewPyftsubsetEngine constructs the engine. A zero timeout disables the
// per-call deadline.
func NewPyftsubsetEngine(logger *slog.Logger, runner command.Runner, binary string, timeout time.Duration) *PyftsubsetEngine {
	return &PyftsubsetEngine{
		binary:  binary,
		runner:  runner,
		timeout: timeout,
		logger:  logging.NewComponentLogger(logger, "pyftsubset"),
	}
}

// Name identifies the engine.
func (e *PyftsubsetEngine) Name() string { return "pyftsubset" }

// Args builds the pyftsubset argument list for req.
func (e *PyftsubsetEngine) Args(req Request) []string {
	args := []string{
		req.Source,
		"--text=" + req.Text,
		"--output-file=" + req.Output,
		"--font-number=" + strconv.Itoa(req.Index),
		"--layout-features=*",
		"--name-IDs=*",
	}
	if req.Flavor != "" {
		args = append(args, "--flavor="+req.Flavor)
	}
	return args
}

// Subset runs pyftsubset and maps a non-zero exit to ErrExternalTool.
func (e *PyftsubsetEngine) Subset(ctx context.Context, req Request) error {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	e.logger.Debug("running pyftsubset",
		logging.String("source", req.Source),
		logging.Int("face", req.Index),
		logging.Int("chars", len([]rune(req.Text))),
		logging.String("output", req.Output),
	)
	res, err := e.runner.Run(ctx, e.binary, e.Args(req)...)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return services.Wrap(services.ErrTimeout, "SUBSET", "pyftsubset", "subsetting timed out", err)
		}
		return services.Wrap(services.ErrExternalTool, "SUBSET", "pyftsubset", "failed to start", err)
	}
	if res.ExitCode != 0 {
		return services.Wrap(services.ErrExternalTool, "SUBSET", "pyftsubset",
			fmt.Sprintf("exit status %d", res.ExitCode), errors.New(res.Output()))
	}
	return nil
}
