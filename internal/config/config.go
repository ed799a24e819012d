// Package config resolves storage locations and adapter settings for casetrack.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// GetDataDir resolves the base directory for all customer record storage. It
// checks CASETRACK_DIR first, then XDG paths, and finally falls back to the
// user's home directory.
func GetDataDir() string {
	if explicit := os.Getenv("CASETRACK_DIR"); explicit != "" {
		return explicit
	}

	xdg.Reload()

	dataHome := xdg.DataHome
	if dataHome == "" {
		home := xdg.Home
		if home == "" {
			var err error
			home, err = os.UserHomeDir()
			if err != nil {
				return filepath.Join(os.TempDir(), "casetrack")
			}
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	return filepath.Join(dataHome, "casetrack")
}

// GetIndexPath returns the absolute path to the global index document.
func GetIndexPath() string {
	return filepath.Join(GetDataDir(), "global_index.json")
}

// GetAPIKey returns the bearer token expected by the HTTP adapter.
func GetAPIKey() string {
	if key := os.Getenv("CASETRACK_API_KEY"); key != "" {
		return key
	}
	return "local-dev-key"
}

// RequireAuth reports whether the HTTP adapter should enforce bearer auth.
func RequireAuth() bool {
	return strings.EqualFold(os.Getenv("CASETRACK_REQUIRE_AUTH"), "true")
}

// GetPort returns the listen port for the HTTP adapter.
func GetPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8080"
}
