package mkvmerge

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"fontmux/internal/command"
	"fontmux/internal/logging"
	"fontmux/internal/services"
	"fontmux/internal/testsupport"
)

func TestBuildArgs(t *testing.T) {
	got := BuildArgs(Request{
		Source: "/w/ep01.mkv",
		Output: "/w/output/ep01.mkv",
		Subtitles: []Track{
			{Path: "/s/ep01.chs.ass", Language: "chi"},
			{Path: "/s/ep01.jpn.ass"},
		},
		Attachments: []Attachment{
			{Path: "/s/A_abc.otf", MimeType: "application/vnd.ms-opentype"},
			{Path: "/s/B_def.ttf", MimeType: "application/x-truetype-font"},
		},
	})
	want := []string{
		"-o", "/w/output/ep01.mkv", "/w/ep01.mkv",
		"--language", "0:chi", "/s/ep01.chs.ass",
		"--language", "0:und", "/s/ep01.jpn.ass",
		"--attachment-mime-type", "application/vnd.ms-opentype", "--attach-file", "/s/A_abc.otf",
		"--attachment-mime-type", "application/x-truetype-font", "--attach-file", "/s/B_def.ttf",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestMuxSuccessAndWarnings(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "output", "ep01.mkv")
	runner := &testsupport.FakeRunner{}
	m := NewMuxer(logging.NewNop(), runner, "mkvmerge", 0)

	res, err := m.Mux(context.Background(), Request{Source: filepath.Join(dir, "ep01.mkv"), Output: out})
	if err != nil {
		t.Fatalf("Mux: %v", err)
	}
	if res.Output != out || res.Warnings != "" {
		t.Fatalf("result = %+v", res)
	}
	if len(runner.CallsTo("mkvmerge")) != 1 {
		t.Fatalf("calls = %+v", runner.Calls())
	}

	runner.Handler = func(ctx context.Context, name string, args []string) (command.Result, error) {
		res, err := testsupport.FakeTools(ctx, name, args)
		res.ExitCode = 1
		res.Stdout = []byte("Warning: track 2 has no language")
		return res, err
	}
	res, err = m.Mux(context.Background(), Request{Source: filepath.Join(dir, "ep01.mkv"), Output: out})
	if err != nil {
		t.Fatalf("exit 1 should succeed: %v", err)
	}
	if !strings.Contains(res.Warnings, "no language") {
		t.Fatalf("warnings = %q", res.Warnings)
	}
}

func TestMuxFailureSurfacesOutput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "output", "ep01.mkv")
	runner := &testsupport.FakeRunner{Handler: func(_ context.Context, _ string, args []string) (command.Result, error) {
		_ = os.WriteFile(args[1], []byte("partial"), 0o644)
		return command.Result{ExitCode: 2, Stdout: []byte("Error: The file 'x.ass' could not be opened")}, nil
	}}
	m := NewMuxer(logging.NewNop(), runner, "mkvmerge", 0)

	_, err := m.Mux(context.Background(), Request{Source: filepath.Join(dir, "ep01.mkv"), Output: out})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
	if !strings.Contains(err.Error(), "could not be opened") {
		t.Fatalf("error should carry tool output: %v", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Fatal("partial output should be removed")
	}
}

func TestMuxMissingOutput(t *testing.T) {
	runner := &testsupport.FakeRunner{Handler: func(context.Context, string, []string) (command.Result, error) {
		return command.Result{}, nil
	}}
	m := NewMuxer(logging.NewNop(), runner, "mkvmerge", 0)
	dir := t.TempDir()
	_, err := m.Mux(context.Background(), Request{Source: filepath.Join(dir, "a.mkv"), Output: filepath.Join(dir, "out", "a.mkv")})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
}

func TestMuxValidation(t *testing.T) {
	m := NewMuxer(logging.NewNop(), &testsupport.FakeRunner{}, "mkvmerge", 0)
	if _, err := m.Mux(context.Background(), Request{}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
