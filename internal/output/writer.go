// Package output emits the run's JSON and CSV artifacts. Every file is
// written whole once per run via temp-file + rename so readers never observe
// a partial artifact.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/coursegraph/catalog-indexer/internal/catalog"
	"github.com/coursegraph/catalog-indexer/internal/domain"
)

// Artifact filenames. The v10 names are part of the external contract with
// downstream consumers.
const (
	SectionsIndexFilename   = "sections_index_v10.json"
	DegreeSnapshotsFilename = "degree_snapshots_v10_seed.json"
	CourseIndexFilename     = "course_index_v10.json"
	CoursesFlatFilename     = "courses_flat.csv"
	CoursesCollegeFilename  = "courses_with_college.csv"
	RunReportFilename       = "run_report.json"
)

// WriteJSON marshals v with indentation and writes it atomically.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	return writeAtomic(path, append(data, '\n'))
}

// writeAtomic writes data to a temporary file and renames it into place.
func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename output file: %w", err)
	}
	return nil
}

// WriteSectionsIndex writes {date: {college: {degree: [start, stop]}}}.
func WriteSectionsIndex(dir string, sections *catalog.SectionsBuilder) error {
	return WriteJSON(filepath.Join(dir, SectionsIndexFilename), sections.View())
}

// WriteDegreeSnapshots writes {date: {college: [degree, ...]}} with colleges
// in canonical order per date.
func WriteDegreeSnapshots(dir string, snapshots map[string]domain.DegreeSnapshot) error {
	return WriteJSON(filepath.Join(dir, DegreeSnapshotsFilename), snapshots)
}

// WriteCourseIndex writes {code: {canonical_title, canonical_cus, instances}}.
func WriteCourseIndex(dir string, courses *catalog.CourseIndexBuilder) error {
	byCode := make(map[string]*domain.CourseEntry, courses.Len())
	for _, entry := range courses.Entries() {
		byCode[entry.Code] = entry
	}
	return WriteJSON(filepath.Join(dir, CourseIndexFilename), byCode)
}

// WriteCoursesFlat writes the CourseCode,CourseName CSV sorted by code.
func WriteCoursesFlat(dir string, courses *catalog.CourseIndexBuilder) error {
	rows := [][]string{{"CourseCode", "CourseName"}}
	for _, code := range sortedCodes(courses) {
		entry := courses.Entry(code)
		rows = append(rows, []string{entry.Code, entry.CanonicalTitle})
	}
	return writeCSV(filepath.Join(dir, CoursesFlatFilename), rows)
}

// WriteCoursesWithColleges writes CourseCode,CourseName,Colleges with the
// colleges semicolon-joined, sorted and deduplicated.
func WriteCoursesWithColleges(dir string, courses *catalog.CourseIndexBuilder) error {
	rows := [][]string{{"CourseCode", "CourseName", "Colleges"}}
	for _, code := range sortedCodes(courses) {
		entry := courses.Entry(code)
		colleges := strings.Join(courses.CollegesFor(code), ";")
		rows = append(rows, []string{entry.Code, entry.CanonicalTitle, colleges})
	}
	return writeCSV(filepath.Join(dir, CoursesCollegeFilename), rows)
}

// AnomaliesFilename returns the per-date anomaly artifact name for a
// "YYYY-MM" catalog date.
func AnomaliesFilename(date string) string {
	return "anomalies_" + strings.ReplaceAll(date, "-", "_") + ".json"
}

// WriteAnomalies writes one JSON array of unmatched raw lines for a date.
// An empty array is still written: the absence of anomalies is itself part
// of the audit trail.
func WriteAnomalies(dir, date string, lines []string) error {
	if lines == nil {
		lines = []string{}
	}
	return WriteJSON(filepath.Join(dir, AnomaliesFilename(date)), lines)
}

// RunReport summarizes one batch run for later inspection.
type RunReport struct {
	CatalogFiles   int                     `json:"catalog_files"`
	Sections       int                     `json:"sections"`
	Courses        int                     `json:"courses"`
	AnomaliesByDay map[string]int          `json:"anomalies_by_date"`
	SkippedDegrees []catalog.SkippedDegree `json:"skipped_degrees"`
	SkippedFiles   map[string]string       `json:"skipped_files,omitempty"`
}

// WriteRunReport writes the run report artifact.
func WriteRunReport(dir string, report RunReport) error {
	if report.AnomaliesByDay == nil {
		report.AnomaliesByDay = map[string]int{}
	}
	if report.SkippedDegrees == nil {
		report.SkippedDegrees = []catalog.SkippedDegree{}
	}
	return WriteJSON(filepath.Join(dir, RunReportFilename), report)
}

// sortedCodes returns course codes sorted lexicographically for CSV output.
func sortedCodes(courses *catalog.CourseIndexBuilder) []string {
	codes := append([]string(nil), courses.Codes()...)
	sort.Strings(codes)
	return codes
}

// writeCSV renders rows and writes them atomically.
func writeCSV(path string, rows [][]string) error {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to render CSV %s: %w", filepath.Base(path), err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to render CSV %s: %w", filepath.Base(path), err)
	}
	return writeAtomic(path, []byte(sb.String()))
}
