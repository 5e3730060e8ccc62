package catalog

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/coursegraph/catalog-indexer/internal/domain"
)

// reCatalogFilename extracts year and month from "catalog_YYYY_MM.txt".
var reCatalogFilename = regexp.MustCompile(`^catalog_(\d{4})_(\d{2})\.txt$`)

// DateFromFilename derives the "YYYY-MM" catalog date from a catalog
// filename. Returns an error for any other name shape.
func DateFromFilename(name string) (string, error) {
	m := reCatalogFilename.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return "", fmt.Errorf("not a catalog filename: %s", name)
	}
	return m[1] + "-" + m[2], nil
}

// LoadDocument reads a catalog file into an immutable CatalogDocument.
// Every line is whitespace-trimmed on load.
func LoadDocument(path string) (*domain.CatalogDocument, error) {
	date, err := DateFromFilename(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var lines []string
	scanner := bufio.NewScanner(f)
	// Catalog lines are short, but allow for the occasional run-on row.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	return &domain.CatalogDocument{Date: date, Lines: lines}, nil
}

// ListCatalogFiles returns the catalog files in dir sorted by filename.
// Filename order is the deterministic scan order for the whole batch.
func ListCatalogFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if reCatalogFilename.MatchString(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
