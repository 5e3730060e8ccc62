package search

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/coursegraph/catalog-indexer/internal/domain"
)

// Options control one course lookup.
type Options struct {
	// Query is matched against titles and, with a boost, against codes.
	Query string

	// College, when set, restricts hits to courses offered by the college.
	College string

	// MaxResults caps the number of hits returned.
	MaxResults int
}

// Hit is one search result.
type Hit struct {
	Code        string
	Title       string
	Colleges    []string
	CreditUnits int
	Score       float64
}

// Find executes a course lookup against an open index.
func Find(index bleve.Index, opts Options) ([]Hit, error) {
	if strings.TrimSpace(opts.Query) == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = 10
	}

	req := bleve.NewSearchRequest(buildQuery(opts))
	req.Size = opts.MaxResults
	req.Fields = []string{
		domain.CourseFieldCode,
		domain.CourseFieldTitle,
		domain.CourseFieldColleges,
		domain.CourseFieldCreditUnits,
	}

	results, err := index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	hits := make([]Hit, 0, len(results.Hits))
	for _, h := range results.Hits {
		hits = append(hits, Hit{
			Code:        stringField(h.Fields, domain.CourseFieldCode),
			Title:       stringField(h.Fields, domain.CourseFieldTitle),
			Colleges:    stringsField(h.Fields, domain.CourseFieldColleges),
			CreditUnits: intField(h.Fields, domain.CourseFieldCreditUnits),
			Score:       h.Score,
		})
	}
	return hits, nil
}

// buildQuery constructs the Bleve query: title match OR exact code term
// (boosted, so a code lookup surfaces its course first), optionally
// restricted to a college.
func buildQuery(opts Options) query.Query {
	titleQuery := bleve.NewMatchQuery(opts.Query)
	titleQuery.SetField(domain.CourseFieldTitle)

	codeQuery := bleve.NewTermQuery(opts.Query)
	codeQuery.SetField(domain.CourseFieldCode)
	codeQuery.SetBoost(5.0)

	searchQuery := query.Query(bleve.NewDisjunctionQuery(titleQuery, codeQuery))

	if opts.College == "" {
		return searchQuery
	}

	collegeQuery := bleve.NewTermQuery(opts.College)
	collegeQuery.SetField(domain.CourseFieldColleges)
	return bleve.NewConjunctionQuery(searchQuery, collegeQuery)
}

func stringField(fields map[string]any, name string) string {
	if v, ok := fields[name].(string); ok {
		return v
	}
	return ""
}

func stringsField(fields map[string]any, name string) []string {
	switch v := fields[name].(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func intField(fields map[string]any, name string) int {
	if v, ok := fields[name].(float64); ok {
		return int(v)
	}
	return 0
}
