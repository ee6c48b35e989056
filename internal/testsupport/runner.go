package testsupport

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"fontmux/internal/command"
)

// Call records one invocation seen by FakeRunner.
type Call struct {
	Name string
	Args []string
}

// FakeRunner is a command.Runner that records calls and delegates to Handler.
// A nil Handler simulates the external tools with FakeTools.
type FakeRunner struct {
	Handler func(ctx context.Context, name string, args []string) (command.Result, error)

	mu    sync.Mutex
	calls []Call
}

// Run records the call and invokes the handler.
func (f *FakeRunner) Run(ctx context.Context, name string, args ...string) (command.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Name: name, Args: append([]string(nil), args...)})
	handler := f.Handler
	f.mu.Unlock()
	if handler == nil {
		handler = FakeTools
	}
	return handler(ctx, name, args)
}

// Calls returns a snapshot of recorded calls.
func (f *FakeRunner) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsTo returns recorded calls whose binary base name is name.
func (f *FakeRunner) CallsTo(name string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if filepath.Base(c.Name) == name {
			out = append(out, c)
		}
	}
	return out
}

// FakeTools imitates mkvmerge and pyftsubset closely enough for pipeline
// tests: mkvmerge writes a placeholder to its -o target and pyftsubset copies
// the source font to --output-file.
func FakeTools(_ context.Context, name string, args []string) (command.Result, error) {
	switch filepath.Base(name) {
	case "mkvmerge":
		for i := 0; i+1 < len(args); i++ {
			if args[i] == "-o" {
				if err := os.WriteFile(args[i+1], []byte("muxed"), 0o644); err != nil {
					return command.Result{ExitCode: 2, Stderr: []byte(err.Error())}, nil
				}
				return command.Result{Stdout: []byte("Multiplexing took 0 seconds.")}, nil
			}
		}
		return command.Result{ExitCode: 2, Stderr: []byte("missing -o")}, nil
	case "pyftsubset":
		if len(args) == 0 {
			return command.Result{ExitCode: 2}, nil
		}
		var output string
		for _, a := range args[1:] {
			if v, ok := strings.CutPrefix(a, "--output-file="); ok {
				output = v
			}
		}
		data, err := os.ReadFile(args[0])
		if err != nil || output == "" {
			return command.Result{ExitCode: 1, Stderr: []byte("cannot subset")}, nil
		}
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return command.Result{ExitCode: 1, Stderr: []byte(err.Error())}, nil
		}
		return command.Result{}, nil
	}
	return command.Result{ExitCode: 127, Stderr: []byte(name + ": not found")}, nil
}
