package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CatalogDocument is an immutable, line-oriented view of one catalog dump.
// Lines are whitespace-trimmed; Date has the form "YYYY-MM".
type CatalogDocument struct {
	Date  string
	Lines []string
}

// Section is a half-open line interval [Start, Stop) into a CatalogDocument.
type Section struct {
	Start int
	Stop  int
}

// Valid reports whether the section is a well-formed interval for a document
// with lineCount lines: 0 <= Start < Stop <= lineCount.
func (s Section) Valid(lineCount int) bool {
	return s.Start >= 0 && s.Start < s.Stop && s.Stop <= lineCount
}

// MarshalJSON serializes a section as a two-element array [start, stop].
func (s Section) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{s.Start, s.Stop})
}

// UnmarshalJSON parses the [start, stop] array form.
func (s *Section) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	s.Start, s.Stop = pair[0], pair[1]
	return nil
}

// ProgramNames holds the degree names listed in a catalog's front matter,
// grouped by college. Colleges preserves first-seen order so downstream
// section indexing is deterministic.
type ProgramNames struct {
	Colleges  []string
	ByCollege map[string][]string
}

// NewProgramNames creates an empty ProgramNames.
func NewProgramNames() *ProgramNames {
	return &ProgramNames{ByCollege: make(map[string][]string)}
}

// Add appends degree names under a college, registering the college on first use.
func (p *ProgramNames) Add(college string, names []string) {
	if len(names) == 0 {
		return
	}
	if _, ok := p.ByCollege[college]; !ok {
		p.Colleges = append(p.Colleges, college)
	}
	p.ByCollege[college] = append(p.ByCollege[college], names...)
}

// Has reports whether the college appears in the listing.
func (p *ProgramNames) Has(college string) bool {
	_, ok := p.ByCollege[college]
	return ok
}

// Empty reports whether no degree names were collected.
func (p *ProgramNames) Empty() bool {
	return len(p.ByCollege) == 0
}

// PatternID identifies which course-row pattern classified a line.
// The numeric order is the match order: earlier patterns win.
type PatternID int

const (
	// PatternCCNFull matches department, course number, code, title, credit
	// units and term. The richest row shape, used by earlier catalogs.
	PatternCCNFull PatternID = iota

	// PatternCodeOnly matches code, title, credit units and term. Later
	// catalogs dropped the department/number columns.
	PatternCodeOnly

	// PatternFallback matches title, credit units and term with no
	// extractable code. Rows classified this way never enter the course
	// index; they are retained as anomalies.
	PatternFallback
)

// String returns the serialized pattern name.
func (p PatternID) String() string {
	switch p {
	case PatternCCNFull:
		return "CCN_FULL"
	case PatternCodeOnly:
		return "CODE_ONLY"
	case PatternFallback:
		return "FALLBACK"
	default:
		return fmt.Sprintf("PatternID(%d)", int(p))
	}
}

// MarshalJSON serializes the pattern by name.
func (p PatternID) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// ClassifiedRow is a course line plus the pattern that matched it and the
// pattern's captured fields. Department/Number are only set for CCN_FULL;
// Code is empty for FALLBACK.
type ClassifiedRow struct {
	Pattern     PatternID
	Department  string
	Number      string
	Code        string
	Title       string
	CreditUnits int
	Term        int
	Raw         string
}

// CourseInstance records one sighting of a course code in a catalog section.
type CourseInstance struct {
	CatalogDate string `json:"catalog_date"`
	College     string `json:"college"`
	Degree      string `json:"degree"`
	Pattern     string `json:"pattern"`
	Raw         string `json:"raw"`
}

// CourseEntry is the aggregated record for one course code. The canonical
// title and credit units come from the first instance in deterministic scan
// order; Instances lists every sighting, first included.
type CourseEntry struct {
	Code           string           `json:"-"`
	CanonicalTitle string           `json:"canonical_title"`
	CanonicalCUs   int              `json:"canonical_cus"`
	Instances      []CourseInstance `json:"instances"`
}

// DegreeSnapshot is the per-date canonical view of degree offerings: colleges
// in canonical snapshot order, each with its sorted unique canonical degree
// names. An optional trailing Certificates bucket comes last.
type DegreeSnapshot struct {
	Colleges []string
	Degrees  map[string][]string
}

// MarshalJSON emits the snapshot as a JSON object whose keys appear in
// canonical college order. encoding/json sorts map keys, which would destroy
// the ordering contract, so the object is assembled by hand.
func (s DegreeSnapshot) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, college := range s.Colleges {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(college)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		names := s.Degrees[college]
		if names == nil {
			names = []string{}
		}
		val, err := json.Marshal(names)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// CertificatesBucket is the literal college key under which trailing
// certificate programs are listed in the catalog front matter.
const CertificatesBucket = "Certificates - Standard Paths"
