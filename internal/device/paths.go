package device

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "pagerterm"

// Paths locates the host directories that stand in for the device's flash
// filesystem and its key/value storage.
type Paths struct {
	// Root is the data directory everything else lives under.
	Root string
}

// FS is the directory served as the device filesystem root ("/").
func (p Paths) FS() string {
	return filepath.Join(p.Root, "fs")
}

// Blobs is the directory backing the blob store namespaces.
func (p Paths) Blobs() string {
	return filepath.Join(p.Root, "nvs")
}

// KeyFile is the secretbox key protecting the secure namespace.
func (p Paths) KeyFile() string {
	return filepath.Join(p.Root, "secure.key")
}

// DefaultPaths returns the OS-appropriate data directory:
//   - Linux: $XDG_DATA_HOME/pagerterm or $HOME/.local/share/pagerterm
//   - macOS: $HOME/.local/share/pagerterm (following XDG convention on macOS)
//   - Windows: %LOCALAPPDATA%\pagerterm
func DefaultPaths() (Paths, error) {
	var baseDir string

	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			userProfile := os.Getenv("USERPROFILE")
			if userProfile == "" {
				return Paths{}, fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
			}
			baseDir = filepath.Join(userProfile, "AppData", "Local", appName)
		} else {
			baseDir = filepath.Join(localAppData, appName)
		}

	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return Paths{}, fmt.Errorf("cannot determine home directory: %w", err)
		}
		baseDir = filepath.Join(homeDir, ".local", "share", appName)

	default:
		xdgDataHome := os.Getenv("XDG_DATA_HOME")
		if xdgDataHome != "" {
			baseDir = filepath.Join(xdgDataHome, appName)
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return Paths{}, fmt.Errorf("cannot determine home directory: %w", err)
			}
			baseDir = filepath.Join(homeDir, ".local", "share", appName)
		}
	}

	return Paths{Root: baseDir}, nil
}

// EnsureDirs creates the data directories with user-only permissions.
func (p Paths) EnsureDirs() error {
	for _, dir := range []string{p.Root, p.FS(), p.Blobs()} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}
