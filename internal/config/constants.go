// Package config contains everything related to configuration
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Fusioo app IDs for the BookSpring workspace collections. Each is
// env-overridable so a staging workspace can swap in its own apps.
const (
	defaultActivityReportAppID = "i7c03b2f4a8d9e1065f2b38c4a7d90e12"
	defaultLegacyDataAppID     = "i3e91d05c6b2a48f7e013d9c5a64b7f28"
	defaultContentViewsAppID   = "i5a2c78e9f0d1b3465c8e92a7d4f01b36"
	defaultOriginalBooksAppID  = "i9f47a1c3d8e05b261a39f7c4e8d25a09"
	defaultPartnerSitesAppID   = "i2b85c4f0a7d3e9165b08c2f7a9d14e53"
)

const defaultRefreshInterval = 15 * time.Minute

// defaultGoalsPath returns the default location of the goal targets file.
func defaultGoalsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "goals.json"
	}
	return filepath.Join(home, ".config", "idt", "goals.json")
}
