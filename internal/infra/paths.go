package infra

import (
	"os"
	"path/filepath"
	"runtime"
)

const AppName = "signals-hyperliquid"

// WorkspaceDir returns the root directory for runtime data such as the
// idempotency database. A local "_workspace" directory wins when it
// exists (dev/portable mode); otherwise the OS data directory is used.
func WorkspaceDir() string {
	localDir := "_workspace"
	if _, err := os.Stat(localDir); err == nil {
		return localDir
	}

	var baseDir string
	switch runtime.GOOS {
	case "windows":
		baseDir = os.Getenv("APPDATA")
		if baseDir == "" {
			baseDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, _ := os.UserHomeDir()
		baseDir = filepath.Join(home, "Library", "Application Support")
	default:
		if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
			baseDir = dataHome
		} else {
			home, _ := os.UserHomeDir()
			baseDir = filepath.Join(home, ".local", "share")
		}
	}
	return filepath.Join(baseDir, AppName)
}

// EnsureDir creates the directory if missing.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

// DefaultIdempotencyDBPath is where the sqlite claim table lives when
// the config does not pin a location.
func DefaultIdempotencyDBPath() string {
	return filepath.Join(WorkspaceDir(), "idempotency.db")
}
