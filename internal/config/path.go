// Package config resolves bon's settings and the paths they point at.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath resolves a leading ~ to the home directory and substitutes $VARS.
// The path is returned unchanged when the home directory is unknown.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + strings.TrimPrefix(path, "~")
		}
	}

	return os.ExpandEnv(path)
}

// ConfigDir is where bon looks for config.{yaml,toml}.
func ConfigDir(home string) string {
	return filepath.Join(home, ".config", "bon")
}

// LegacyConfigFile is the single-file config written by earlier versions.
func LegacyConfigFile(home string) string {
	return filepath.Join(home, ".bon-scanner.toml")
}
