// Package search maintains a Bleve full-text index over the aggregated
// course entries, so downstream consumers can look courses up by code or by
// free text against the canonical titles.
package search

import (
	"fmt"
	"os"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/coursegraph/catalog-indexer/internal/catalog"
	"github.com/coursegraph/catalog-indexer/internal/domain"
)

const (
	// IndexDirname is the index directory name inside the output dir.
	IndexDirname = "courses.bleve"

	// MaxBatchSize is the maximum number of documents per index batch.
	MaxBatchSize = 100
)

// CreateIndexMapping creates the Bleve index mapping for course documents.
func CreateIndexMapping() mapping.IndexMapping {
	docMapping := bleve.NewDocumentMapping()

	// Code - keyword (not analyzed), stored for retrieval
	codeField := bleve.NewTextFieldMapping()
	codeField.Analyzer = keyword.Name
	codeField.Store = true
	docMapping.AddFieldMappingsAt(domain.CourseFieldCode, codeField)

	// Title - analyzed for full-text search
	titleField := bleve.NewTextFieldMapping()
	titleField.Analyzer = standard.Name
	titleField.Store = true
	titleField.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt(domain.CourseFieldTitle, titleField)

	// Colleges - keyword, stored
	collegesField := bleve.NewTextFieldMapping()
	collegesField.Analyzer = keyword.Name
	collegesField.Store = true
	docMapping.AddFieldMappingsAt(domain.CourseFieldColleges, collegesField)

	// Credit units - stored numeric
	cusField := bleve.NewNumericFieldMapping()
	cusField.Store = true
	docMapping.AddFieldMappingsAt(domain.CourseFieldCreditUnits, cusField)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = standard.Name

	return indexMapping
}

// Build rebuilds the course index at path from the aggregated entries.
// Any previous index is replaced; the artifact is regenerated whole per run
// like every other output. Returns the number of indexed courses.
func Build(path string, courses *catalog.CourseIndexBuilder) (count int, err error) {
	if err := os.RemoveAll(path); err != nil {
		return 0, fmt.Errorf("failed to remove previous index: %w", err)
	}

	index, err := bleve.New(path, CreateIndexMapping())
	if err != nil {
		return 0, fmt.Errorf("failed to create index: %w", err)
	}
	defer func() {
		if cerr := index.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	batch := index.NewBatch()
	batchSize := 0
	total := 0

	for _, entry := range courses.Entries() {
		doc := domain.CourseDocument{
			Code:        entry.Code,
			Title:       entry.CanonicalTitle,
			Colleges:    courses.CollegesFor(entry.Code),
			CreditUnits: entry.CanonicalCUs,
		}
		if err := batch.Index(doc.Code, doc); err != nil {
			return total, fmt.Errorf("failed to index course %s: %w", doc.Code, err)
		}
		batchSize++

		if batchSize >= MaxBatchSize {
			if err := index.Batch(batch); err != nil {
				return total, fmt.Errorf("batch index failed: %w", err)
			}
			total += batchSize
			batch = index.NewBatch()
			batchSize = 0
		}
	}

	if batchSize > 0 {
		if err := index.Batch(batch); err != nil {
			return total, fmt.Errorf("batch index failed: %w", err)
		}
		total += batchSize
	}

	return total, nil
}

// Open opens an existing course index for reading.
func Open(path string) (bleve.Index, error) {
	index, err := bleve.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open course index: %w", err)
	}
	return index, nil
}
