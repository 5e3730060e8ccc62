// Package catalog implements the course-catalog parsing core: program-name
// extraction, section indexing, course-row classification, degree
// canonicalization and course-index aggregation.
package catalog

import (
	"regexp"
	"strings"
)

// Anchors are regular expressions matched against whole trimmed lines to
// detect structural boundaries. Catalog formatting drifted over the years,
// so anchors are deliberately loose about trailing text.
var (
	// reCCNHeader marks the start of a course listing block, e.g.
	// "CCN Course Number Title CUS Term".
	reCCNHeader = regexp.MustCompile(`^CCN\b`)

	// reSchoolHeading matches front-matter college headings ("School of
	// Business"). The certificates bucket uses a literal key instead.
	reSchoolHeading = regexp.MustCompile(`^School of\s+\S`)

	// reCollegeHeading matches course-area college headings, which use
	// either prefix depending on the catalog era.
	reCollegeHeading = regexp.MustCompile(`^(College|School) of\s+\S`)

	// reProgramOutcomes ends a front-matter program listing.
	reProgramOutcomes = regexp.MustCompile(`^Program Outcomes\b`)

	// reFooterCopyright matches page-footer copyright lines. Anchored to the
	// line start: course titles may contain the word ("Copyright Law").
	reFooterCopyright = regexp.MustCompile(`^(?i)(©|copyright\b)`)

	// reFooterTotalCUs matches the "Total CUs <n>" footer line.
	reFooterTotalCUs = regexp.MustCompile(`^Total CUs\b`)

	// reProgramNoise excludes non-program lines inside a front-matter
	// listing: step lists, numbered lines, bullets and dashes.
	reProgramNoise = regexp.MustCompile(`^(Steps|\d|•|-|–)`)
)

// IsCCNHeader reports whether the line is a CCN course-listing header.
func IsCCNHeader(line string) bool {
	return reCCNHeader.MatchString(line)
}

// IsSchoolHeading reports whether the line is a front-matter college heading.
func IsSchoolHeading(line string) bool {
	return reSchoolHeading.MatchString(line)
}

// IsCollegeHeading reports whether the line is a course-area college heading.
func IsCollegeHeading(line string) bool {
	return reCollegeHeading.MatchString(line)
}

// IsFooter reports whether the line is a page footer (copyright or Total CUs).
func IsFooter(line string) bool {
	return reFooterTotalCUs.MatchString(line) || reFooterCopyright.MatchString(line)
}

// isProgramListingBreak reports whether the line ends a front-matter program
// listing without opening a new college.
func isProgramListingBreak(line string) bool {
	return IsCCNHeader(line) || reProgramOutcomes.MatchString(line) || IsFooter(line)
}

// isProgramNoise reports whether a line inside a program listing should be
// skipped rather than collected as a degree name.
func isProgramNoise(line string) bool {
	return reProgramNoise.MatchString(line)
}

// matchesCollege reports whether a line names the given college, exactly or
// as a prefix (footers and page headers sometimes run into the college name).
func matchesCollege(line, college string) bool {
	return line == college || strings.HasPrefix(line, college)
}
