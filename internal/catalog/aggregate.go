package catalog

import (
	"sort"

	"github.com/coursegraph/catalog-indexer/internal/domain"
)

// CourseIndexBuilder accumulates the global course index. Only the
// aggregation phase mutates it; serialization consumes the finished view.
// First-sighting order fixes each code's canonical title and credit units,
// so insertion order is preserved.
type CourseIndexBuilder struct {
	codes   []string
	entries map[string]*domain.CourseEntry
}

// NewCourseIndexBuilder creates an empty builder.
func NewCourseIndexBuilder() *CourseIndexBuilder {
	return &CourseIndexBuilder{entries: make(map[string]*domain.CourseEntry)}
}

// Upsert records one sighting of a course code. The first sighting fixes the
// canonical title and credit units; every sighting appends an instance.
func (b *CourseIndexBuilder) Upsert(code, title string, creditUnits int, instance domain.CourseInstance) {
	entry, ok := b.entries[code]
	if !ok {
		entry = &domain.CourseEntry{
			Code:           code,
			CanonicalTitle: title,
			CanonicalCUs:   creditUnits,
		}
		b.entries[code] = entry
		b.codes = append(b.codes, code)
	}
	entry.Instances = append(entry.Instances, instance)
}

// Merge folds another builder's entries in, preserving the other builder's
// first-sighting order. Used to combine per-file results deterministically.
func (b *CourseIndexBuilder) Merge(other *CourseIndexBuilder) {
	for _, code := range other.codes {
		src := other.entries[code]
		entry, ok := b.entries[code]
		if !ok {
			entry = &domain.CourseEntry{
				Code:           code,
				CanonicalTitle: src.CanonicalTitle,
				CanonicalCUs:   src.CanonicalCUs,
			}
			b.entries[code] = entry
			b.codes = append(b.codes, code)
		}
		entry.Instances = append(entry.Instances, src.Instances...)
	}
}

// Entry returns the entry for a code, or nil.
func (b *CourseIndexBuilder) Entry(code string) *domain.CourseEntry {
	return b.entries[code]
}

// Codes returns all course codes in first-sighting order.
func (b *CourseIndexBuilder) Codes() []string {
	return b.codes
}

// Len returns the number of distinct course codes.
func (b *CourseIndexBuilder) Len() int {
	return len(b.codes)
}

// Entries returns all entries in first-sighting order.
func (b *CourseIndexBuilder) Entries() []*domain.CourseEntry {
	out := make([]*domain.CourseEntry, len(b.codes))
	for i, code := range b.codes {
		out[i] = b.entries[code]
	}
	return out
}

// CollegesFor returns the sorted, deduplicated colleges a code appeared
// under, across all instances.
func (b *CourseIndexBuilder) CollegesFor(code string) []string {
	entry := b.entries[code]
	if entry == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, inst := range entry.Instances {
		if !seen[inst.College] {
			seen[inst.College] = true
			out = append(out, inst.College)
		}
	}
	sort.Strings(out)
	return out
}

// AggregateSections walks every section of one document in insertion order
// and classifies every course-area line. A section may contain repeated CCN
// headers marking sub-blocks; a footer closes the current block until the
// next CCN header reopens one. Rows with an extractable code upsert the
// course index; FALLBACK rows and unmatched rows are collected as anomalies.
func AggregateSections(doc *domain.CatalogDocument, refs []SectionRef, courses *CourseIndexBuilder) (anomalies []string) {
	for _, ref := range refs {
		if ref.Date != doc.Date {
			continue
		}

		// The section starts at its own CCN header, so the first block
		// is already open.
		inBlock := true
		for i := ref.Section.Start + 1; i < ref.Section.Stop; i++ {
			line := doc.Lines[i]
			switch {
			case line == "":
				continue
			case IsCCNHeader(line):
				inBlock = true
				continue
			case IsFooter(line):
				inBlock = false
				continue
			case !inBlock:
				continue
			}

			row := ClassifyRow(line)
			if row == nil || row.Code == "" {
				anomalies = append(anomalies, line)
				continue
			}

			courses.Upsert(row.Code, row.Title, row.CreditUnits, domain.CourseInstance{
				CatalogDate: ref.Date,
				College:     ref.College,
				Degree:      ref.Degree,
				Pattern:     row.Pattern.String(),
				Raw:         line,
			})
		}
	}
	return anomalies
}
