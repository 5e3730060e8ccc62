package app

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/coursegraph/catalog-indexer/internal/catalog"
	"github.com/coursegraph/catalog-indexer/internal/config"
	"github.com/coursegraph/catalog-indexer/internal/domain"
)

// PipelineResult holds everything one batch run produced, ready for
// serialization. The builders are no longer mutated once the result is
// returned.
type PipelineResult struct {
	Sections        *catalog.SectionsBuilder
	Courses         *catalog.CourseIndexBuilder
	DegreeSnapshots map[string]domain.DegreeSnapshot
	AnomaliesByDate map[string][]string
	SkippedDegrees  []catalog.SkippedDegree
	SkippedFiles    map[string]string
	CatalogFiles    int
}

// fileResult is the private per-file outcome of the parallel phase. Each file
// owns its builders until the deterministic merge.
type fileResult struct {
	date       string
	lineCount  int
	programs   *domain.ProgramNames
	sections   *catalog.SectionsBuilder
	courses    *catalog.CourseIndexBuilder
	anomalies  []string
	skipped    []catalog.SkippedDegree
	skipReason string
	err        error
}

// RunPipeline executes the full batch: load configuration artifacts, process
// every catalog file, merge per-file results in filename order, and build the
// per-date degree snapshots.
//
// Per-file processing runs concurrently under a semaphore; because each
// file's sections, courses and anomalies are private until the merge, and the
// merge walks files in sorted-filename order, the result is identical to a
// serial run. Structural per-file failures skip the file; configuration
// inconsistencies abort the run.
func RunPipeline(ctx context.Context, settings *config.Settings) (*PipelineResult, error) {
	snapshots, err := catalog.LoadSnapshots(settings.SnapshotsPath)
	if err != nil {
		return nil, err
	}
	duplicates, err := catalog.LoadDuplicates(settings.DuplicatesPath)
	if err != nil {
		return nil, err
	}

	files, err := catalog.ListCatalogFiles(settings.CatalogDir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no catalog files in %s", settings.CatalogDir)
	}

	// Parallel per-file phase. Results land in a slice indexed by file
	// position, so the merge below sees them in filename order.
	results := make([]fileResult, len(files))
	sem := make(chan struct{}, settings.Parallelism)
	var wg sync.WaitGroup

	for i, path := range files {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			select {
			case sem <- struct{}{}: // Acquire
			case <-ctx.Done():
				results[i] = fileResult{err: ctx.Err()}
				return
			}
			defer func() { <-sem }() // Release
			if err := ctx.Err(); err != nil {
				results[i] = fileResult{err: err}
				return
			}
			results[i] = processFile(path, snapshots)
		}(i, path)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Deterministic merge in filename order.
	result := &PipelineResult{
		Sections:        catalog.NewSectionsBuilder(),
		Courses:         catalog.NewCourseIndexBuilder(),
		DegreeSnapshots: make(map[string]domain.DegreeSnapshot),
		AnomaliesByDate: make(map[string][]string),
		SkippedFiles:    make(map[string]string),
		CatalogFiles:    len(files),
	}
	programsByDate := make(map[string]*domain.ProgramNames)
	lineCounts := make(map[string]int)

	for i, fr := range results {
		if fr.err != nil {
			return nil, fmt.Errorf("catalog %s: %w", files[i], fr.err)
		}
		if fr.skipReason != "" {
			slog.Warn("Skipping catalog file", "file", files[i], "reason", fr.skipReason)
			result.SkippedFiles[fr.date] = fr.skipReason
			continue
		}

		lineCounts[fr.date] = fr.lineCount
		if err := result.Sections.Merge(fr.sections, lineCounts); err != nil {
			return nil, err
		}
		result.Courses.Merge(fr.courses)
		result.AnomaliesByDate[fr.date] = append(result.AnomaliesByDate[fr.date], fr.anomalies...)
		result.SkippedDegrees = append(result.SkippedDegrees, fr.skipped...)
		for _, sd := range fr.skipped {
			slog.Warn("Skipping degree section", "date", sd.Date, "college", sd.College, "degree", sd.Degree, "reason", sd.Reason)
		}
		if !fr.programs.Empty() {
			programsByDate[fr.date] = fr.programs
		}
	}

	// Degree snapshots per date with a usable program listing. Consistency
	// violations here are configuration errors and abort the run.
	dates := make([]string, 0, len(programsByDate))
	for date := range programsByDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	for _, date := range dates {
		snapshot, err := catalog.BuildDegreeSnapshot(date, programsByDate[date], duplicates, snapshots)
		if err != nil {
			return nil, err
		}
		result.DegreeSnapshots[date] = snapshot
	}

	return result, nil
}

// processFile loads one catalog and runs section indexing and course
// aggregation over it. A non-empty skipReason marks a recoverable structural
// failure; err marks a run-fatal condition.
func processFile(path string, snapshots catalog.SnapshotSet) fileResult {
	doc, err := catalog.LoadDocument(path)
	if err != nil {
		return fileResult{err: err}
	}

	fr := fileResult{
		date:      doc.Date,
		lineCount: len(doc.Lines),
		sections:  catalog.NewSectionsBuilder(),
		courses:   catalog.NewCourseIndexBuilder(),
	}

	fr.programs = catalog.ExtractProgramNames(doc)
	if !fr.programs.Empty() {
		fr.skipped = catalog.IndexSections(doc, fr.programs, fr.sections)
	} else {
		// No front-matter listing: fall back to the legacy upward scan
		// against the applicable valid-college snapshot.
		validColleges, err := catalog.PickSnapshot(doc.Date, snapshots)
		if err != nil {
			// A snapshot gap is a configuration error, not a file quirk.
			return fileResult{date: doc.Date, err: err}
		}
		if err := catalog.IndexSectionsLegacy(doc, validColleges, fr.sections); err != nil {
			// Missing anchors are structural quirks of one file, never
			// fatal for the batch.
			return fileResult{date: doc.Date, skipReason: err.Error()}
		}
	}

	fr.anomalies = catalog.AggregateSections(doc, fr.sections.Refs(), fr.courses)
	return fr
}
