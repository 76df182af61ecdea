// Package config contains everything related to configuration
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/bookspring/impact-dashboard-tui/internal/fusioo"
	"github.com/bookspring/impact-dashboard-tui/internal/normalize"
)

// AppIDs holds the Fusioo app identifier for each collection the pipeline
// pulls.
type AppIDs struct {
	ActivityReports string
	LegacyData      string
	ContentViews    string
	OriginalBooks   string
	PartnerSites    string
}

// Config holds the application configuration.
type Config struct {
	AccessToken     string
	APIBase         string
	Apps            AppIDs
	RefreshInterval time.Duration
	GoalsPath       string
	Notifications   bool
	LogLevel        string

	// LegacyCutoff is the schema boundary date: legacy rows dated on or
	// after it are superseded by the current collection.
	LegacyCutoff time.Time
}

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	for _, path := range envPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		AccessToken: getEnvString("FUSIOO_ACCESS_TOKEN", ""),
		APIBase:     getEnvString("FUSIOO_API_BASE", fusioo.DefaultBaseURL),
		Apps: AppIDs{
			ActivityReports: getEnvString("ACTIVITY_REPORT_APP_ID", defaultActivityReportAppID),
			LegacyData:      getEnvString("LEGACY_DATA_APP_ID", defaultLegacyDataAppID),
			ContentViews:    getEnvString("CONTENT_VIEWS_APP_ID", defaultContentViewsAppID),
			OriginalBooks:   getEnvString("ORIGINAL_BOOKS_APP_ID", defaultOriginalBooksAppID),
			PartnerSites:    getEnvString("PARTNER_SITES_APP_ID", defaultPartnerSitesAppID),
		},
		RefreshInterval: getEnvDuration("IDT_REFRESH_INTERVAL", defaultRefreshInterval),
		GoalsPath:       getEnvString("IDT_GOALS_PATH", defaultGoalsPath()),
		Notifications:   getEnvBool("IDT_NOTIFICATIONS", true),
		LogLevel:        getEnvString("IDT_LOG_LEVEL", "info"),
		LegacyCutoff:    getEnvDate("LEGACY_CUTOFF", normalize.DefaultCutoff),
	}

	if cfg.AccessToken == "" {
		return nil, fmt.Errorf(
			"FUSIOO_ACCESS_TOKEN is required (create an API token under Fusioo account settings and export it or add it to .env)")
	}

	// Ensure the goals file directory exists so the watcher can start
	if err := ensureDir(filepath.Dir(cfg.GoalsPath)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// envPaths returns a list of paths to check for .env files.
func envPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "idt", ".env"),
			filepath.Join(home, ".idt", ".env"),
		)
	}

	// Parent directories (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		parent := filepath.Dir(cwd)
		paths = append(paths, filepath.Join(parent, ".env"))
		grandparent := filepath.Dir(parent)
		paths = append(paths, filepath.Join(grandparent, ".env"))
	}

	return paths
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "15m", or bare seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns the default.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	switch strings.ToLower(value) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return defaultValue
	}
}

// getEnvDate retrieves a YYYY-MM-DD environment variable or returns the default.
func getEnvDate(key string, defaultValue time.Time) time.Time {
	if value := os.Getenv(key); value != "" {
		if t, err := time.Parse("2006-01-02", value); err == nil {
			return t
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
