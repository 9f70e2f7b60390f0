package config

import (
	"os"
	"path/filepath"
)

// DirName is the per-project plumb directory
const DirName = ".plumb"

// EnvConfig overrides config discovery when set
const EnvConfig = "PLUMB_CONFIG"

// FindConfigPath returns the config file to load for a run started in dir
// Priority order:
//  1. PLUMB_CONFIG environment variable (if set)
//  2. The nearest .plumb/config.yaml at or above dir
//  3. dir/.plumb/config.yaml (may not exist)
func FindConfigPath(dir string) string {
	if path := os.Getenv(EnvConfig); path != "" {
		return path
	}

	fallback := filepath.Join(dir, DirName, "config.yaml")

	current, err := filepath.Abs(dir)
	if err != nil {
		return fallback
	}
	for {
		candidate := filepath.Join(current, DirName, "config.yaml")
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}

		parent := filepath.Dir(current)
		if parent == current {
			// Reached filesystem root
			return fallback
		}
		current = parent
	}
}
