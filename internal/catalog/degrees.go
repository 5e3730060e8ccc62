package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/coursegraph/catalog-indexer/internal/domain"
)

// ErrDuplicateCertificate means a certificate appears both embedded under a
// subject college and in the trailing certificates bucket. Fatal: the
// duplicates configuration and the catalog data disagree.
var ErrDuplicateCertificate = errors.New("certificate listed both embedded and in trailing bucket")

// ErrMissingCollege means a canonical college from the applicable snapshot
// has no degree data for the date. Fatal: the snapshot configuration and the
// catalog data disagree.
var ErrMissingCollege = errors.New("canonical college missing from catalog data")

// BuildDegreeSnapshot canonicalizes one date's program listing: every raw
// name is resolved through the duplicates map, names are deduplicated and
// sorted per college, certificates under the literal trailing bucket are
// consolidated last, and colleges are emitted in the canonical order of the
// snapshot version resolved for the date.
func BuildDegreeSnapshot(date string, programs *domain.ProgramNames, duplicates DuplicatesMap, ordering SnapshotSet) (domain.DegreeSnapshot, error) {
	version, err := PickSnapshotVersion(date, ordering)
	if err != nil {
		return domain.DegreeSnapshot{}, err
	}
	canonicalOrder := ordering[version]

	resolved := make(map[string][]string)
	embeddedCertificates := make(map[string]bool)
	trailingCertificates := make(map[string]bool)

	for _, college := range programs.Colleges {
		if college == domain.CertificatesBucket {
			for _, raw := range programs.ByCollege[college] {
				trailingCertificates[duplicates.Resolve(raw)] = true
			}
			continue
		}

		names := dedupeSorted(resolveAll(programs.ByCollege[college], duplicates))
		resolved[college] = names
		for _, name := range names {
			if strings.Contains(name, "Certificate") {
				embeddedCertificates[name] = true
			}
		}
	}

	if len(trailingCertificates) > 0 {
		var clash []string
		for name := range trailingCertificates {
			if embeddedCertificates[name] {
				clash = append(clash, name)
			}
		}
		if len(clash) > 0 {
			sort.Strings(clash)
			return domain.DegreeSnapshot{}, fmt.Errorf("%w (%s, version %s): %s",
				ErrDuplicateCertificate, date, version, strings.Join(clash, "; "))
		}
	}

	snapshot := domain.DegreeSnapshot{Degrees: make(map[string][]string)}
	for _, college := range canonicalOrder {
		if college == domain.CertificatesBucket {
			continue
		}
		names, ok := resolved[college]
		if !ok {
			return domain.DegreeSnapshot{}, fmt.Errorf("%w: %s (%s, version %s)",
				ErrMissingCollege, college, date, version)
		}
		snapshot.Colleges = append(snapshot.Colleges, college)
		snapshot.Degrees[college] = names
	}

	if len(trailingCertificates) > 0 {
		names := make([]string, 0, len(trailingCertificates))
		for name := range trailingCertificates {
			names = append(names, name)
		}
		sort.Strings(names)
		snapshot.Colleges = append(snapshot.Colleges, domain.CertificatesBucket)
		snapshot.Degrees[domain.CertificatesBucket] = names
	}

	return snapshot, nil
}

// resolveAll maps every raw name through the duplicates map.
func resolveAll(raw []string, duplicates DuplicatesMap) []string {
	out := make([]string, len(raw))
	for i, name := range raw {
		out[i] = duplicates.Resolve(name)
	}
	return out
}

// dedupeSorted returns the sorted unique elements of names.
func dedupeSorted(names []string) []string {
	seen := make(map[string]bool, len(names))
	var out []string
	for _, name := range names {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
