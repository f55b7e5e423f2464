package config

import (
	"os"
	"path/filepath"
)

// appName is the directory name used under each XDG base directory.
const appName = "truchet"

// DefaultPath returns the config file location.
func DefaultPath() (string, error) {
	dir, err := xdg("XDG_CONFIG_HOME", ".config")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DataDir returns $XDG_DATA_HOME/truchet (~/.local/share/truchet).
func DataDir() (string, error) {
	return xdg("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// CacheDir returns $XDG_CACHE_HOME/truchet (~/.cache/truchet).
func CacheDir() (string, error) {
	return xdg("XDG_CACHE_HOME", ".cache")
}

func xdg(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, appName), nil
}

func join(dir, name string) string {
	return filepath.Join(dir, name)
}
