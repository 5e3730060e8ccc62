package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/coursegraph/catalog-indexer/internal/config"
	"github.com/coursegraph/catalog-indexer/internal/output"
	"github.com/coursegraph/catalog-indexer/internal/search"
	"github.com/spf13/pflag"
)

// RunParams contains dependencies for the run function
type RunParams struct {
	LoadSettings  func(*pflag.FlagSet) (*config.Settings, error)
	ValidSettings func(*config.Settings) error
	Run           func(context.Context, *config.Settings) (*PipelineResult, error)
}

// DefaultRunParams returns production dependencies
func DefaultRunParams() RunParams {
	return RunParams{
		LoadSettings:  config.LoadSettingsWithFlags,
		ValidSettings: config.ValidateSettings,
		Run:           RunPipeline,
	}
}

// RunWithDeps executes one full batch with the provided dependencies: load
// and validate settings, run the pipeline, write every artifact, and build
// the course search index.
func RunWithDeps(ctx context.Context, params RunParams, flags *pflag.FlagSet, version string) error {
	settings, err := params.LoadSettings(flags)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	if err := params.ValidSettings(settings); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Configure logging - always use stderr to avoid mixing with output
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.SlogLevel(settings)})
	slog.SetDefault(slog.New(handler))

	slog.Info("Starting catalog indexer", "version", version)
	config.Log(settings)

	result, err := params.Run(ctx, settings)
	if err != nil {
		return err
	}

	if err := writeArtifacts(settings, result); err != nil {
		return err
	}

	if settings.Search.Enabled {
		indexPath := filepath.Join(settings.OutputDir, search.IndexDirname)
		count, err := search.Build(indexPath, result.Courses)
		if err != nil {
			return fmt.Errorf("failed to build course search index: %w", err)
		}
		slog.Info("Course search index built", "path", indexPath, "courses", count)
	}

	slog.Info("Run complete",
		"catalog_files", result.CatalogFiles,
		"sections", result.Sections.Len(),
		"courses", result.Courses.Len(),
		"degree_snapshot_dates", len(result.DegreeSnapshots),
		"skipped_degrees", len(result.SkippedDegrees),
	)
	return nil
}

// writeArtifacts emits every file artifact of one run.
func writeArtifacts(settings *config.Settings, result *PipelineResult) error {
	dir := settings.OutputDir

	if err := output.WriteSectionsIndex(dir, result.Sections); err != nil {
		return err
	}
	if err := output.WriteDegreeSnapshots(dir, result.DegreeSnapshots); err != nil {
		return err
	}
	if err := output.WriteCourseIndex(dir, result.Courses); err != nil {
		return err
	}
	if err := output.WriteCoursesFlat(dir, result.Courses); err != nil {
		return err
	}
	if err := output.WriteCoursesWithColleges(dir, result.Courses); err != nil {
		return err
	}

	for date, lines := range result.AnomaliesByDate {
		if err := output.WriteAnomalies(dir, date, lines); err != nil {
			return err
		}
	}

	report := output.RunReport{
		CatalogFiles:   result.CatalogFiles,
		Sections:       result.Sections.Len(),
		Courses:        result.Courses.Len(),
		AnomaliesByDay: make(map[string]int, len(result.AnomaliesByDate)),
		SkippedDegrees: result.SkippedDegrees,
		SkippedFiles:   result.SkippedFiles,
	}
	for date, lines := range result.AnomaliesByDate {
		report.AnomaliesByDay[date] = len(lines)
	}
	return output.WriteRunReport(dir, report)
}

// RunSearch executes the search subcommand: open the index built by a prior
// run and print matching courses to stdout.
func RunSearch(flags *pflag.FlagSet, query, college string, maxResults int) error {
	settings, err := config.LoadSettingsWithFlags(flags)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if maxResults <= 0 {
		maxResults = settings.Search.MaxResults
	}

	index, err := search.Open(filepath.Join(settings.OutputDir, search.IndexDirname))
	if err != nil {
		return err
	}
	defer func() { _ = index.Close() }()

	hits, err := search.Find(index, search.Options{
		Query:      query,
		College:    college,
		MaxResults: maxResults,
	})
	if err != nil {
		return err
	}

	if len(hits) == 0 {
		fmt.Println("No matching courses")
		return nil
	}
	for _, hit := range hits {
		fmt.Printf("%s\t%s\t%d CUs", hit.Code, hit.Title, hit.CreditUnits)
		for _, c := range hit.Colleges {
			fmt.Printf("\t%s", c)
		}
		fmt.Println()
	}
	return nil
}
