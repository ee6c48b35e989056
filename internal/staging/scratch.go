package staging

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"fontmux/internal/logging"
	"fontmux/internal/services"
)

const lockFileName = ".fontmux.lock"

// ErrLocked is returned when another run holds the scratch directory.
var ErrLocked = errors.New("scratch directory is in use by another run")

// Scratch is the run-scoped working directory for subset fonts, rewritten
// subtitles and temporary mux outputs. It is guarded by a file lock for the
// lifetime of the run.
type Scratch struct {
	root   string
	lock   *flock.Flock
	logger *slog.Logger
}

// Acquire creates dir/name and takes its lock.
func Acquire(dir, name string, logger *slog.Logger) (*Scratch, error) {
	root := filepath.Join(dir, name)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "SCRATCH", "create", "cannot create scratch directory", err)
	}
	lock := flock.New(filepath.Join(root, lockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "SCRATCH", "lock", "cannot lock scratch directory", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrValidation, "SCRATCH", "lock", root, ErrLocked)
	}
	return &Scratch{
		root:   root,
		lock:   lock,
		logger: logging.NewComponentLogger(logger, "scratch"),
	}, nil
}

// Root returns the scratch directory.
func (s *Scratch) Root() string {
	return s.root
}

// ContainerDir returns a per-container subdirectory named after the
// container's file stem, creating it when needed.
func (s *Scratch) ContainerDir(container string) (string, error) {
	base := filepath.Base(container)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." {
		stem = "container"
	}
	dir := filepath.Join(s.root, stem)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create container scratch: %w", err)
	}
	return dir, nil
}

// Release drops the lock and, when remove is set, deletes the scratch
// directory with everything in it.
func (s *Scratch) Release(remove bool) error {
	if s == nil {
		return nil
	}
	var errs []error
	if err := s.lock.Unlock(); err != nil {
		errs = append(errs, fmt.Errorf("release scratch lock: %w", err))
	}
	if remove {
		if err := os.RemoveAll(s.root); err != nil {
			logging.WarnWithContext(s.logger, "failed to remove scratch directory", "scratch_cleanup_failed",
				logging.String("path", s.root),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check scratch_dir permissions"),
				logging.String(logging.FieldImpact, "disk space not reclaimed"),
			)
			errs = append(errs, err)
		} else {
			s.logger.Info("scratch directory removed",
				logging.String("path", s.root),
				logging.String(logging.FieldEventType, "scratch_cleanup"),
			)
		}
	}
	return errors.Join(errs...)
}

// DirInfo contains metadata about a scratch subdirectory.
type DirInfo struct {
	Name    string
	Path    string
	ModTime time.Time
	Size    int64
}

// ListDirectories returns the per-container directories under the scratch
// root with their sizes.
func (s *Scratch) ListDirectories() ([]DirInfo, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var dirs []DirInfo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		dirPath := filepath.Join(s.root, entry.Name())
		size, _ := dirSize(dirPath)
		dirs = append(dirs, DirInfo{
			Name:    entry.Name(),
			Path:    dirPath,
			ModTime: info.ModTime(),
			Size:    size,
		})
	}
	return dirs, nil
}

// dirSize calculates the total size of a directory recursively.
func dirSize(path string) (int64, error) {
	var size int64
	err := filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // best effort
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size, err
}
