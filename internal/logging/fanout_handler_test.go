package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
)

func TestNewFanoutHandlerWithoutLogFile(t *testing.T) {
	var console bytes.Buffer
	inner := slog.NewJSONHandler(&console, nil)

	tests := []struct {
		name     string
		handlers []slog.Handler
		want     slog.Handler
	}{
		{name: "no handlers", handlers: []slog.Handler{nil, nil}, want: NoopHandler{}},
		{name: "console only", handlers: []slog.Handler{inner, nil}, want: inner},
	}
	for _, tt := range tests {
		if got := newFanoutHandler(tt.handlers...); got != tt.want {
			t.Fatalf("%s: got %T, want %T", tt.name, got, tt.want)
		}
	}
}

func TestFanoutHandlerTeesConsoleAndLogFile(t *testing.T) {
	var console, file bytes.Buffer
	level := new(slog.LevelVar)
	level.Set(slog.LevelInfo)
	h := newFanoutHandler(
		slog.NewJSONHandler(&console, &slog.HandlerOptions{Level: level}),
		slog.NewJSONHandler(&file, &slog.HandlerOptions{Level: level}),
	)
	logger := NewComponentLogger(slog.New(h), "subset")

	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("debug should be disabled at info level")
	}
	logger.Debug("face parsed")
	logger.Info("font subset", String(FieldContainer, "ep01.mkv"))

	for name, buf := range map[string]*bytes.Buffer{"console": &console, "file": &file} {
		out := buf.Bytes()
		if bytes.Contains(out, []byte("face parsed")) {
			t.Fatalf("%s received a debug record: %s", name, out)
		}
		for _, want := range []string{`"msg":"font subset"`, `"component":"subset"`, `"container":"ep01.mkv"`} {
			if !bytes.Contains(out, []byte(want)) {
				t.Fatalf("%s missing %s: %s", name, want, out)
			}
		}
	}
}
