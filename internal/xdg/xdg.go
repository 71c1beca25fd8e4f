// Package xdg provides helpers to resolve XDG Base Directory paths for forcedlogin.
// Configuration lives under the config directory; the profile cache database lives
// under the state directory.
//
// Both fall back to the traditional locations when the XDG environment variables
// are not set and are created with private permissions.
package xdg

import (
	"os"
	"path/filepath"
)

// AppName is the directory name used under every XDG base directory.
const AppName = "forcedlogin"

// ConfigDir returns the XDG config directory for forcedlogin.
// The directory is created with private permissions (0700) if missing.
// It falls back to ~/.config/forcedlogin when XDG_CONFIG_HOME is unset.
func ConfigDir() (string, error) {
	return resolve("XDG_CONFIG_HOME", ".config")
}

// StateDir returns the XDG state directory for forcedlogin.
// The directory is created with private permissions (0700) if missing.
// It falls back to ~/.local/state/forcedlogin when XDG_STATE_HOME is unset.
func StateDir() (string, error) {
	return resolve("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func resolve(env, fallback string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, fallback)
	}
	dir := filepath.Join(base, AppName)
	if err := os.MkdirAll(dir, 0o700); err != nil { // private dir
		return "", err
	}
	return dir, nil
}
