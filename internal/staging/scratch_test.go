package staging

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fontmux/internal/logging"
	"fontmux/internal/services"
)

func TestAcquireCreatesAndLocks(t *testing.T) {
	work := t.TempDir()
	s, err := Acquire(work, "temp_fonts_mux", logging.NewNop())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if s.Root() != filepath.Join(work, "temp_fonts_mux") {
		t.Fatalf("root = %q", s.Root())
	}

	_, err = Acquire(work, "temp_fonts_mux", logging.NewNop())
	if !errors.Is(err, ErrLocked) || !errors.Is(err, services.ErrValidation) {
		t.Fatalf("second acquire should fail with ErrLocked, got %v", err)
	}

	if err := s.Release(false); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, err := os.Stat(s.Root()); err != nil {
		t.Fatalf("scratch should be kept: %v", err)
	}

	again, err := Acquire(work, "temp_fonts_mux", logging.NewNop())
	if err != nil {
		t.Fatalf("reacquire after release: %v", err)
	}
	if err := again.Release(true); err != nil {
		t.Fatalf("Release(remove): %v", err)
	}
	if _, err := os.Stat(again.Root()); !os.IsNotExist(err) {
		t.Fatalf("scratch should be removed, stat err = %v", err)
	}
}

func TestContainerDirAndListing(t *testing.T) {
	s, err := Acquire(t.TempDir(), "scratch", logging.NewNop())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer s.Release(true)

	dir, err := s.ContainerDir("/media/show/ep01.mkv")
	if err != nil {
		t.Fatalf("ContainerDir: %v", err)
	}
	if dir != filepath.Join(s.Root(), "ep01") {
		t.Fatalf("dir = %q", dir)
	}
	if err := os.WriteFile(filepath.Join(dir, "font.ttf"), make([]byte, 128), 0o644); err != nil {
		t.Fatal(err)
	}

	dirs, err := s.ListDirectories()
	if err != nil {
		t.Fatalf("ListDirectories: %v", err)
	}
	if len(dirs) != 1 || dirs[0].Name != "ep01" || dirs[0].Size != 128 {
		t.Fatalf("dirs = %+v", dirs)
	}
}

func TestReleaseNil(t *testing.T) {
	var s *Scratch
	if err := s.Release(true); err != nil {
		t.Fatalf("nil release: %v", err)
	}
}
