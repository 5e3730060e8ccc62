package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Log level constants
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// SearchSettings configuration for the course search index
type SearchSettings struct {
	Enabled    bool `mapstructure:"enabled"`
	MaxResults int  `mapstructure:"max_results"`
}

// Settings application settings
type Settings struct {
	CatalogDir     string         `mapstructure:"catalog_dir"`
	SnapshotsPath  string         `mapstructure:"snapshots_path"`
	DuplicatesPath string         `mapstructure:"duplicates_path"`
	OutputDir      string         `mapstructure:"output_dir"`
	Parallelism    int            `mapstructure:"parallelism"`
	LogLevel       string         `mapstructure:"log_level"`
	Search         SearchSettings `mapstructure:"search"`
}

// LoadSettings loads settings from environment variables and optional .env file
func LoadSettings() (*Settings, error) {
	return LoadSettingsWithFlags(nil)
}

// LoadSettingsWithFlags loads settings with optional CLI flag overrides.
// Priority: CLI flags > environment variables > .env file > defaults.
// If flags is nil, only env vars and defaults are used.
func LoadSettingsWithFlags(flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	// Default values
	v.SetDefault("catalog_dir", "catalogs")
	v.SetDefault("snapshots_path", "college_snapshots.json")
	v.SetDefault("duplicates_path", "degree_duplicates_master.json")
	v.SetDefault("output_dir", defaultOutputDir())
	v.SetDefault("parallelism", 4)
	v.SetDefault("log_level", LogLevelInfo)
	v.SetDefault("search.enabled", true)
	v.SetDefault("search.max_results", 20)

	// Environment variables
	v.SetEnvPrefix("CATIDX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind specific env vars for nested config
	_ = v.BindEnv("catalog_dir", "CATIDX_CATALOG_DIR")
	_ = v.BindEnv("snapshots_path", "CATIDX_SNAPSHOTS_PATH")
	_ = v.BindEnv("duplicates_path", "CATIDX_DUPLICATES_PATH")
	_ = v.BindEnv("output_dir", "CATIDX_OUTPUT_DIR")
	_ = v.BindEnv("parallelism", "CATIDX_PARALLELISM")
	_ = v.BindEnv("log_level", "CATIDX_LOG_LEVEL")
	_ = v.BindEnv("search.enabled", "CATIDX_SEARCH_ENABLED")
	_ = v.BindEnv("search.max_results", "CATIDX_SEARCH_MAX_RESULTS")

	// Bind CLI flags if provided (highest priority)
	if flags != nil {
		_ = v.BindPFlag("catalog_dir", flags.Lookup("catalog-dir"))
		_ = v.BindPFlag("snapshots_path", flags.Lookup("snapshots"))
		_ = v.BindPFlag("duplicates_path", flags.Lookup("duplicates"))
		_ = v.BindPFlag("output_dir", flags.Lookup("output-dir"))
		_ = v.BindPFlag("parallelism", flags.Lookup("parallelism"))
		_ = v.BindPFlag("log_level", flags.Lookup("log-level"))
		_ = v.BindPFlag("search.enabled", flags.Lookup("search-enabled"))
		_ = v.BindPFlag("search.max_results", flags.Lookup("search-max-results"))
	}

	// Helper to look for .env file
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // Ignore error if .env doesn't exist

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, err
	}

	// Expand home directory in paths
	settings.CatalogDir = expandHomeDir(settings.CatalogDir)
	settings.SnapshotsPath = expandHomeDir(settings.SnapshotsPath)
	settings.DuplicatesPath = expandHomeDir(settings.DuplicatesPath)
	settings.OutputDir = expandHomeDir(settings.OutputDir)

	return &settings, nil
}

// defaultOutputDir returns the default output directory for run artifacts
func defaultOutputDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".catalog-indexer"
	}
	return filepath.Join(home, ".catalog-indexer")
}

// expandHomeDir expands ~ to the user's home directory
func expandHomeDir(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}
	return path
}

// ValidateSettings checks for missing or inconsistent configuration.
func ValidateSettings(s *Settings) error {
	if s.CatalogDir == "" {
		return errors.New("catalog-dir cannot be empty")
	}
	if s.SnapshotsPath == "" {
		return errors.New("snapshots path cannot be empty")
	}
	if s.DuplicatesPath == "" {
		return errors.New("duplicates path cannot be empty")
	}
	if s.OutputDir == "" {
		return errors.New("output-dir cannot be empty")
	}
	if s.Parallelism <= 0 {
		return errors.New("parallelism must be positive")
	}

	switch s.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		// valid
	default:
		return errors.New("log-level must be debug, info, warn or error, got: " + s.LogLevel)
	}

	if s.Search.Enabled && s.Search.MaxResults <= 0 {
		return errors.New("search-max-results must be positive")
	}

	return nil
}
