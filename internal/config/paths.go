package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "gh-mcp"

// Paths contains the standard per-user directories.
type Paths struct {
	Config string // ~/.config/gh-mcp
	State  string // ~/.local/state/gh-mcp
}

// GetPaths returns the standard paths, honoring XDG overrides.
func GetPaths() *Paths {
	return &Paths{
		Config: filepath.Join(getEnvOrDefault("XDG_CONFIG_HOME", defaultConfigHome()), appName),
		State:  filepath.Join(getEnvOrDefault("XDG_STATE_HOME", defaultStateHome()), appName),
	}
}

// LogDir returns the directory for log files.
func (p *Paths) LogDir() string {
	return filepath.Join(p.State, "log")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func defaultConfigHome() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("APPDATA")
	}
	return filepath.Join(os.Getenv("HOME"), ".config")
}

func defaultStateHome() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("APPDATA")
	}
	return filepath.Join(os.Getenv("HOME"), ".local", "state")
}

// GlobalConfigDir returns the directory holding the user config file.
func GlobalConfigDir() string {
	return GetPaths().Config
}
