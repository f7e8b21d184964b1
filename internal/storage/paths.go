// Package storage provides persistent storage for user preferences, game
// records and statistics.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "neptune"

// DataDirEnv overrides the data directory when set.
const DataDirEnv = "NEPTUNE_DATA_DIR"

// GetDataDir returns the directory holding Neptune's database, creating it
// if needed. Unless DataDirEnv is set it is "neptune" under the per-user
// data root: ~/Library/Application Support on macOS, %APPDATA% on Windows,
// and $XDG_DATA_HOME or ~/.local/share elsewhere.
func GetDataDir() (string, error) {
	if dir := os.Getenv(DataDirEnv); dir != "" {
		return ensureDir(dir)
	}
	root, err := userDataRoot()
	if err != nil {
		return "", fmt.Errorf("locating data directory: %w", err)
	}
	return ensureDir(filepath.Join(root, appName))
}

// GetDatabaseDir returns the badger directory inside GetDataDir.
func GetDatabaseDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return ensureDir(filepath.Join(dataDir, "db"))
}

func userDataRoot() (string, error) {
	var envRoot string
	var fallback []string
	switch runtime.GOOS {
	case "darwin":
		fallback = []string{"Library", "Application Support"}
	case "windows":
		envRoot = os.Getenv("APPDATA")
		fallback = []string{"AppData", "Roaming"}
	default:
		envRoot = os.Getenv("XDG_DATA_HOME")
		fallback = []string{".local", "share"}
	}
	if envRoot != "" {
		return envRoot, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{home}, fallback...)...), nil
}

func ensureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	return dir, nil
}
