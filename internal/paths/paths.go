// Package paths resolves the configuration directory and the shared data
// directory. The data directory is the one location every process touching
// the store (the CLI, a share hand-off) must agree on.
package paths

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/mitchellh/go-homedir"
)

// appDirName is the directory created under platform config and data roots.
const appDirName = "compilations"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "COMPILATIONS_CONFIG_DIR"
	EnvDataDir   = "COMPILATIONS_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/compilations (fallback ~/.config/compilations)
// macOS:   ~/Library/Application Support/compilations
// Windows: %APPDATA%/compilations
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

// DefaultDataDir returns the platform-specific default shared data directory.
//
// Linux:   $XDG_DATA_HOME/compilations (fallback ~/.local/share/compilations)
// macOS:   ~/Library/Application Support/compilations
// Windows: %APPDATA%/compilations
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

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > COMPILATIONS_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return absolute(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return absolute(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > configYAMLValue > COMPILATIONS_DATA_DIR env > DefaultDataDir().
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	if flag != "" {
		return absolute(flag)
	}
	if configYAMLValue != "" {
		return absolute(configYAMLValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return absolute(env)
	}
	return DefaultDataDir()
}

// absolute expands a leading ~ and makes p absolute.
func absolute(p string) (string, error) {
	expanded, err := homedir.Expand(p)
	if err != nil {
		return "", err
	}
	return filepath.Abs(expanded)
}
