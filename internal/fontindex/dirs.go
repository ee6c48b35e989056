package fontindex

import (
	"os"
	"path/filepath"
	"runtime"
)

// Extensions lists the font file extensions the scanner opens.
var Extensions = map[string]bool{
	".ttf": true,
	".otf": true,
	".ttc": true,
	".otc": true,
}

// DefaultDirs returns the system and per-user font directories for the
// running platform.
func DefaultDirs() []string {
	return defaultDirs(runtime.GOOS, os.Getenv, os.UserHomeDir)
}

func defaultDirs(goos string, getenv func(string) string, home func() (string, error)) []string {
	homeDir, _ := home()
	var dirs []string
	switch goos {
	case "windows":
		windir := getenv("WINDIR")
		if windir == "" {
			windir = `C:\Windows`
		}
		dirs = append(dirs, filepath.Join(windir, "Fonts"))
		if local := getenv("LOCALAPPDATA"); local != "" {
			dirs = append(dirs, filepath.Join(local, "Microsoft", "Windows", "Fonts"))
		}
	case "darwin":
		dirs = append(dirs, "/Library/Fonts", "/System/Library/Fonts")
		if homeDir != "" {
			dirs = append(dirs, filepath.Join(homeDir, "Library", "Fonts"))
		}
	default:
		dirs = append(dirs, "/usr/share/fonts", "/usr/local/share/fonts")
		if data := getenv("XDG_DATA_HOME"); data != "" {
			dirs = append(dirs, filepath.Join(data, "fonts"))
		} else if homeDir != "" {
			dirs = append(dirs, filepath.Join(homeDir, ".local", "share", "fonts"))
		}
		if homeDir != "" {
			dirs = append(dirs, filepath.Join(homeDir, ".fonts"))
		}
	}
	return dirs
}
