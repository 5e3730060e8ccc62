package catalog

import (
	"errors"
	"fmt"

	"github.com/coursegraph/catalog-indexer/internal/domain"
)

// ErrNoEnclosingCollege means the upward scan found no valid college above
// the first CCN header. Non-fatal: the file is skipped.
var ErrNoEnclosingCollege = errors.New("no enclosing college above CCN header")

// SectionRef identifies one indexed section and its line interval.
type SectionRef struct {
	Date    string
	College string
	Degree  string
	Section domain.Section
}

// SkippedDegree records a per-degree indexing failure. These never abort the
// batch; they are logged and surfaced in the run report.
type SkippedDegree struct {
	Date    string `json:"date"`
	College string `json:"college"`
	Degree  string `json:"degree"`
	Reason  string `json:"reason"`
}

// SectionsBuilder accumulates sections across the file loop. It is owned by
// the section-indexing phase; everything downstream reads the finished view.
// Insertion order is preserved because it defines the deterministic scan
// order for course aggregation.
type SectionsBuilder struct {
	refs  []SectionRef
	index map[string]map[string]map[string]domain.Section
}

// NewSectionsBuilder creates an empty builder.
func NewSectionsBuilder() *SectionsBuilder {
	return &SectionsBuilder{
		index: make(map[string]map[string]map[string]domain.Section),
	}
}

// Insert adds a section after validating the interval invariant against the
// document's line count.
func (b *SectionsBuilder) Insert(ref SectionRef, lineCount int) error {
	if !ref.Section.Valid(lineCount) {
		return fmt.Errorf("invalid section [%d, %d) for %d lines (%s / %s / %s)",
			ref.Section.Start, ref.Section.Stop, lineCount, ref.Date, ref.College, ref.Degree)
	}

	byCollege, ok := b.index[ref.Date]
	if !ok {
		byCollege = make(map[string]map[string]domain.Section)
		b.index[ref.Date] = byCollege
	}
	byDegree, ok := byCollege[ref.College]
	if !ok {
		byDegree = make(map[string]domain.Section)
		byCollege[ref.College] = byDegree
	}
	byDegree[ref.Degree] = ref.Section
	b.refs = append(b.refs, ref)
	return nil
}

// Merge appends another builder's sections in their insertion order.
func (b *SectionsBuilder) Merge(other *SectionsBuilder, lineCounts map[string]int) error {
	for _, ref := range other.refs {
		if err := b.Insert(ref, lineCounts[ref.Date]); err != nil {
			return err
		}
	}
	return nil
}

// Refs returns all sections in insertion order.
func (b *SectionsBuilder) Refs() []SectionRef {
	return b.refs
}

// View returns the nested date -> college -> degree -> section mapping.
// The caller must treat it as read-only.
func (b *SectionsBuilder) View() map[string]map[string]map[string]domain.Section {
	return b.index
}

// Len returns the number of indexed sections.
func (b *SectionsBuilder) Len() int {
	return len(b.refs)
}

// IndexSections runs the heading-driven strategy: for every (college, degree)
// pair in the front-matter listing, locate the degree heading in the course
// area, anchor the section start at the next CCN header, and fence the stop
// at the first sibling degree heading, any known college heading, or a
// footer. Failures to locate a heading or CCN header skip that degree only.
func IndexSections(doc *domain.CatalogDocument, programs *domain.ProgramNames, builder *SectionsBuilder) []SkippedDegree {
	var skipped []SkippedDegree

	// The front-matter listing repeats every degree name the course area
	// will anchor, so the heading search must start past it.
	searchFrom := programListingEnd(doc)

	for _, college := range programs.Colleges {
		for _, degree := range programs.ByCollege[college] {
			ref, reason := indexOneSection(doc, programs, college, degree, searchFrom)
			if reason != "" {
				skipped = append(skipped, SkippedDegree{
					Date: doc.Date, College: college, Degree: degree, Reason: reason,
				})
				continue
			}
			if err := builder.Insert(ref, len(doc.Lines)); err != nil {
				skipped = append(skipped, SkippedDegree{
					Date: doc.Date, College: college, Degree: degree, Reason: err.Error(),
				})
			}
		}
	}
	return skipped
}

// programListingEnd returns the index just past the last line that belongs to
// the front-matter program listing: college headings, the degree names
// collected under them, and the break lines that close them. It walks the
// same states as ExtractProgramNames so the two agree on where the listing
// ends.
func programListingEnd(doc *domain.CatalogDocument) int {
	end := 0
	collecting := false

	for i, line := range doc.Lines {
		if IsCCNHeader(line) {
			break
		}
		if IsSchoolHeading(line) || line == domain.CertificatesBucket {
			collecting = true
			end = i + 1
			continue
		}
		if isProgramListingBreak(line) {
			if collecting {
				end = i + 1
			}
			collecting = false
			continue
		}
		if collecting && line != "" && !isProgramNoise(line) {
			end = i + 1
		}
	}
	return end
}

// indexOneSection locates one degree's section, searching headings from
// searchFrom onward. A non-empty reason string reports a recoverable failure.
func indexOneSection(doc *domain.CatalogDocument, programs *domain.ProgramNames, college, degree string, searchFrom int) (SectionRef, string) {
	headingAt := -1
	for i := searchFrom; i < len(doc.Lines); i++ {
		if doc.Lines[i] == degree {
			headingAt = i
			break
		}
	}
	if headingAt < 0 {
		return SectionRef{}, "degree heading not found"
	}

	start := -1
	for i := headingAt; i < len(doc.Lines); i++ {
		if IsCCNHeader(doc.Lines[i]) {
			start = i
			break
		}
	}
	if start < 0 {
		return SectionRef{}, "no CCN header after degree heading"
	}

	stop := len(doc.Lines)
	for i := start + 1; i < len(doc.Lines); i++ {
		if isSectionStop(doc.Lines[i], programs, college, degree) {
			stop = i
			break
		}
	}

	return SectionRef{
		Date:    doc.Date,
		College: college,
		Degree:  degree,
		Section: domain.Section{Start: start, Stop: stop},
	}, ""
}

// isSectionStop implements the strict stop fence: a sibling degree heading
// under the same college, any known college heading, or a footer anchor.
func isSectionStop(line string, programs *domain.ProgramNames, college, degree string) bool {
	if line == "" {
		return false
	}
	if IsFooter(line) {
		return true
	}
	if programs.Has(line) {
		return true
	}
	for _, sibling := range programs.ByCollege[college] {
		if sibling != degree && line == sibling {
			return true
		}
	}
	return false
}

// IndexSectionsLegacy runs the upward-scan fallback for catalogs with no
// usable front-matter program listing. From the document's first CCN header
// it scans upward for the nearest line matching the snapshot's valid college
// list, takes the next non-heading line below that college as a best-guess
// degree name, and fences the section at the next college heading or footer.
func IndexSectionsLegacy(doc *domain.CatalogDocument, validColleges []string, builder *SectionsBuilder) error {
	start := -1
	for i, line := range doc.Lines {
		if IsCCNHeader(line) {
			start = i
			break
		}
	}
	if start < 0 {
		return fmt.Errorf("no CCN header in catalog %s", doc.Date)
	}

	college := ""
	collegeAt := -1
	for i := start - 1; i >= 0; i-- {
		for _, candidate := range validColleges {
			if matchesCollege(doc.Lines[i], candidate) {
				college = candidate
				collegeAt = i
				break
			}
		}
		if college != "" {
			break
		}
	}
	if college == "" {
		return fmt.Errorf("%w: catalog %s", ErrNoEnclosingCollege, doc.Date)
	}

	degree := ""
	for i := collegeAt + 1; i < start; i++ {
		line := doc.Lines[i]
		if line == "" || IsCollegeHeading(line) {
			continue
		}
		degree = line
		break
	}
	if degree == "" {
		return fmt.Errorf("no degree heading between college and CCN header in catalog %s", doc.Date)
	}

	stop := len(doc.Lines)
	for i := start + 1; i < len(doc.Lines); i++ {
		line := doc.Lines[i]
		if line == "" {
			continue
		}
		if IsCollegeHeading(line) || IsFooter(line) {
			stop = i
			break
		}
	}

	return builder.Insert(SectionRef{
		Date:    doc.Date,
		College: college,
		Degree:  degree,
		Section: domain.Section{Start: start, Stop: stop},
	}, len(doc.Lines))
}
