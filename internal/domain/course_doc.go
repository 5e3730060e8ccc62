package domain

// CourseDocument represents an aggregated course in the Bleve search index.
type CourseDocument struct {
	// Code is the course code, e.g. "C100". Doubles as the document ID.
	Code string `json:"code"`

	// Title is the canonical course title.
	Title string `json:"title"`

	// Colleges lists every college the course appeared under, sorted and
	// deduplicated across all catalog dates.
	Colleges []string `json:"colleges"`

	// CreditUnits is the canonical CU value.
	CreditUnits int `json:"credit_units"`
}

// Bleve field name constants for consistent field references in queries and mappings.
const (
	CourseFieldCode        = "code"
	CourseFieldTitle       = "title"
	CourseFieldColleges    = "colleges"
	CourseFieldCreditUnits = "credit_units"
)
