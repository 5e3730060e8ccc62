package catalog

import (
	"regexp"
	"strconv"

	"github.com/coursegraph/catalog-indexer/internal/domain"
)

// Course-row patterns, in match order. Ordering is load-bearing: later-era
// catalogs dropped the department/number columns but kept a code, and some
// rows carry neither, so each pattern is a strict relaxation of the one
// before it and the first match wins.
var (
	// CCN_FULL: DEPT NUMBER CODE TITLE CUS TERM
	reRowCCNFull = regexp.MustCompile(`^([A-Za-z]{2,5})\s+(\d{1,4})\s+([A-Za-z0-9]{2,5})\s+(.+?)\s+(\d+)\s+(\d+)$`)

	// CODE_ONLY: CODE TITLE CUS TERM
	reRowCodeOnly = regexp.MustCompile(`^([A-Za-z0-9]{1,6})\s+(.+?)\s+(\d+)\s+(\d+)$`)

	// FALLBACK: TITLE CUS TERM
	reRowFallback = regexp.MustCompile(`^(.+?)\s+(\d+)\s+(\d+)$`)
)

// ClassifyRow attempts the three course-row patterns in order and returns
// the first match, or nil when the line matches none (the caller records it
// as an anomaly).
func ClassifyRow(line string) *domain.ClassifiedRow {
	if m := reRowCCNFull.FindStringSubmatch(line); m != nil {
		return &domain.ClassifiedRow{
			Pattern:     domain.PatternCCNFull,
			Department:  m[1],
			Number:      m[2],
			Code:        m[3],
			Title:       m[4],
			CreditUnits: mustInt(m[5]),
			Term:        mustInt(m[6]),
			Raw:         line,
		}
	}

	if m := reRowCodeOnly.FindStringSubmatch(line); m != nil {
		return &domain.ClassifiedRow{
			Pattern:     domain.PatternCodeOnly,
			Code:        m[1],
			Title:       m[2],
			CreditUnits: mustInt(m[3]),
			Term:        mustInt(m[4]),
			Raw:         line,
		}
	}

	if m := reRowFallback.FindStringSubmatch(line); m != nil {
		return &domain.ClassifiedRow{
			Pattern:     domain.PatternFallback,
			Title:       m[1],
			CreditUnits: mustInt(m[2]),
			Term:        mustInt(m[3]),
			Raw:         line,
		}
	}

	return nil
}

// mustInt converts a digits-only capture. The patterns guarantee the input
// is numeric.
func mustInt(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
