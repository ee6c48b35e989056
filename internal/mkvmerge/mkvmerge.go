package mkvmerge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fontmux/internal/command"
	"fontmux/internal/logging"
	"fontmux/internal/services"
)

// Track is a subtitle file added as a new track.
type Track struct {
	Path     string
	Language string
}

// Attachment is a file attached to the container.
type Attachment struct {
	Path     string
	MimeType string
}

// Request describes one mux.
type Request struct {
	Source      string
	Output      string
	Subtitles   []Track
	Attachments []Attachment
}

// Result reports a finished mux.
type Result struct {
	Output string
	// Warnings holds mkvmerge's output when it exited with status 1.
	Warnings string
}

// BuildArgs returns the mkvmerge arguments for req.
func BuildArgs(req Request) []string {
	args := []string{"-o", req.Output, req.Source}
	for _, sub := range req.Subtitles {
		lang := strings.TrimSpace(sub.Language)
		if lang == "" {
			lang = "und"
		}
		args = append(args, "--language", "0:"+lang, sub.Path)
	}
	for _, att := range req.Attachments {
		args = append(args, "--attachment-mime-type", att.MimeType, "--attach-file", att.Path)
	}
	return args
}

// Muxer runs mkvmerge.
type Muxer struct {
	binary  string
	runner  command.Runner
	timeout time.Duration
	logger  *slog.Logger
}

// NewMuxer constructs a Muxer. A zero timeout disables the deadline.
func NewMuxer(logger *slog.Logger, runner command.Runner, binary string, timeout time.Duration) *Muxer {
	return &Muxer{
		binary:  binary,
		runner:  runner,
		timeout: timeout,
		logger:  logging.NewComponentLogger(logger, "mkvmerge"),
	}
}

// Mux runs mkvmerge for req. Exit status 1 means mkvmerge finished with
// warnings and counts as success; higher statuses fail with the tool output
// attached to the error.
func (m *Muxer) Mux(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.Source) == "" || strings.TrimSpace(req.Output) == "" {
		return Result{}, services.Wrap(services.ErrValidation, "MUX", "mkvmerge", "source and output are required", nil)
	}
	if err := os.MkdirAll(filepath.Dir(req.Output), 0o755); err != nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "MUX", "mkvmerge", "create output directory", err)
	}
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	args := BuildArgs(req)
	m.logger.Debug("executing mkvmerge",
		logging.String("source", req.Source),
		logging.String("output", req.Output),
		logging.Int("subtitle_count", len(req.Subtitles)),
		logging.Int("attachment_count", len(req.Attachments)),
	)
	res, err := m.runner.Run(ctx, m.binary, args...)
	if err != nil {
		_ = os.Remove(req.Output)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Result{}, services.Wrap(services.ErrTimeout, "MUX", "mkvmerge", "mux timed out", err)
		}
		return Result{}, services.Wrap(services.ErrExternalTool, "MUX", "mkvmerge", "failed to start", err)
	}
	switch {
	case res.ExitCode == 0:
	case res.ExitCode == 1:
		m.logger.Warn("mkvmerge finished with warnings",
			logging.String(logging.FieldEventType, "mux_warnings"),
			logging.String("output", req.Output),
			logging.String("warnings", res.Output()),
		)
	default:
		_ = os.Remove(req.Output)
		return Result{}, services.Wrap(services.ErrExternalTool, "MUX", "mkvmerge",
			fmt.Sprintf("exit status %d", res.ExitCode), errors.New(res.Output()))
	}

	if _, err := os.Stat(req.Output); err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, "MUX", "mkvmerge", "mkvmerge did not produce output file", err)
	}
	result := Result{Output: req.Output}
	if res.ExitCode == 1 {
		result.Warnings = res.Output()
	}
	m.logger.Info("container muxed",
		logging.String(logging.FieldEventType, "mux_complete"),
		logging.String("output", req.Output),
		logging.Int("tracks_added", len(req.Subtitles)),
		logging.Int("attachments", len(req.Attachments)),
	)
	return result, nil
}
