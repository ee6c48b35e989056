package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"fontmux/internal/config"
	"fontmux/internal/deps"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	return checkDir(name, path, unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok")
}

// CheckDirectoryReadable verifies that the directory exists and can be listed.
func CheckDirectoryReadable(name, path string) Result {
	return checkDir(name, path, unix.R_OK|unix.X_OK, "readable")
}

func checkDir(name, path string, mode uint32, ok string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, ok)}
}

// CheckSystemDeps evaluates the external binaries required by cfg. The
// subsetting binary is only required when subsetting runs through it.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "mkvmerge",
			Command:     cfg.Mux.MkvmergeBinary,
			Description: "Required for muxing subtitles and fonts into MKV containers",
		},
	}
	if cfg.SubsetEnabled() && !cfg.NativeSubset() {
		requirements = append(requirements, deps.Requirement{
			Name:        "pyftsubset",
			Command:     cfg.Subset.PyftsubsetBinary,
			Description: "Required for font subsetting (fontTools)",
		})
	}
	return deps.CheckBinaries(requirements)
}
