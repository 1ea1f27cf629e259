// Package config resolves configuration and data locations and loads
// settings from config.yaml.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Environment variable overrides for directory resolution.
const (
	EnvConfigDir = "LINKPAD_CONFIG_DIR"
	EnvDataDir   = "LINKPAD_DATA_DIR"
)

const appDirName = "linkpad"

// platformDir holds platform-detection functions overridable in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/linkpad (fallback ~/.config/linkpad)
// macOS:   ~/Library/Application Support/linkpad
// Windows: %APPDATA%/linkpad
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appDirName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", appDirName), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appDirName), nil
	}
}

// DefaultDataDir returns the platform default data directory, where the
// database file lives.
//
// Linux:   $XDG_DATA_HOME/linkpad (fallback ~/.local/share/linkpad)
// macOS:   ~/Library/Application Support/linkpad
// Windows: %APPDATA%/linkpad
func DefaultDataDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, appDirName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share", appDirName), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appDirName), nil
	}
}

// ResolveConfigDir applies the precedence chain:
// flag > LINKPAD_CONFIG_DIR env > platform default.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDatabasePath applies the precedence chain for the database
// file: flag > config.yaml value > LINKPAD_DATA_DIR env > platform
// default data dir, with "linkpad.db" appended to directory results.
func ResolveDatabasePath(flag, configValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		abs, err := filepath.Abs(env)
		if err != nil {
			return "", err
		}
		return filepath.Join(abs, "linkpad.db"), nil
	}
	dir, err := DefaultDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "linkpad.db"), nil
}
