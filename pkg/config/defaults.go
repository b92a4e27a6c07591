package config

import (
	"os"
	"path/filepath"
)

// appDir returns ~/.config/watchvault, or "." without a home directory.
func appDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(homeDir, ".config", "watchvault")
}

// defaultDBPath returns the default database file path.
//
// Returns: ~/.config/watchvault/watchvault.db.
func defaultDBPath() string {
	return filepath.Join(appDir(), "watchvault.db")
}

// defaultBackupDir returns the default export directory.
//
// Returns: ~/Downloads when it exists, otherwise ~/.config/watchvault/backups.
func defaultBackupDir() string {
	homeDir, err := os.UserHomeDir()
	if err == nil {
		downloads := filepath.Join(homeDir, "Downloads")
		if info, err := os.Stat(downloads); err == nil && info.IsDir() {
			return downloads
		}
	}
	return filepath.Join(appDir(), "backups")
}

// DefaultConfigPath returns the default configuration file path.
//
// Returns: ~/.config/watchvault/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(appDir(), "config.yaml")
}
