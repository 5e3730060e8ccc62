package catalog

import (
	"github.com/coursegraph/catalog-indexer/internal/domain"
)

// ExtractProgramNames scans the catalog front matter (everything before the
// first CCN header) and collects the degree names listed under each college
// heading. The walk is a small state machine: a "School of ..." heading (or
// the literal certificates bucket) opens a college and starts collecting;
// break anchors (course section start, "Program Outcomes", footers) flush
// the pending buffer and stop collecting; noise lines are skipped.
func ExtractProgramNames(doc *domain.CatalogDocument) *domain.ProgramNames {
	result := domain.NewProgramNames()

	currentCollege := ""
	var buffer []string
	collecting := false

	flush := func() {
		if currentCollege != "" && len(buffer) > 0 {
			result.Add(currentCollege, buffer)
		}
		buffer = nil
	}

	for _, line := range doc.Lines {
		if IsCCNHeader(line) {
			// First course listing: the front matter is over.
			break
		}

		if IsSchoolHeading(line) || line == domain.CertificatesBucket {
			flush()
			currentCollege = line
			collecting = true
			continue
		}

		if isProgramListingBreak(line) {
			flush()
			currentCollege = ""
			collecting = false
			continue
		}

		if collecting && line != "" && !isProgramNoise(line) {
			buffer = append(buffer, line)
		}
	}

	flush()
	return result
}
