package config

import (
	"context"
	"log/slog"
)

// SlogLevel maps the configured log level string to a slog.Level.
func SlogLevel(s *Settings) slog.Level {
	switch s.LogLevel {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Log logs the resolved settings in a granular way, skipping irrelevant ones
func Log(s *Settings) {
	LogWithLogger(s, slog.Default())
}

// LogWithLogger logs the resolved settings using the provided logger
func LogWithLogger(s *Settings, logger *slog.Logger) {
	ctx := context.Background()
	logger.InfoContext(ctx, "Config: catalog_dir", "value", s.CatalogDir)
	logger.InfoContext(ctx, "Config: snapshots_path", "value", s.SnapshotsPath)
	logger.InfoContext(ctx, "Config: duplicates_path", "value", s.DuplicatesPath)
	logger.InfoContext(ctx, "Config: output_dir", "value", s.OutputDir)
	logger.InfoContext(ctx, "Config: parallelism", "value", s.Parallelism)
	logger.InfoContext(ctx, "Config: search.enabled", "value", s.Search.Enabled)
	if s.Search.Enabled {
		logger.InfoContext(ctx, "Config: search.max_results", "value", s.Search.MaxResults)
	}
}

// SettingsLogValue returns a slog.Value for Settings
func SettingsLogValue(s Settings) slog.Value {
	return slog.GroupValue(
		slog.String("catalog_dir", s.CatalogDir),
		slog.String("snapshots_path", s.SnapshotsPath),
		slog.String("duplicates_path", s.DuplicatesPath),
		slog.String("output_dir", s.OutputDir),
		slog.Int("parallelism", s.Parallelism),
		slog.Bool("search_enabled", s.Search.Enabled),
	)
}
