package catalog

import (
	"errors"
	"reflect"
	"testing"

	"github.com/coursegraph/catalog-indexer/internal/domain"
)

func TestBuildDegreeSnapshot(t *testing.T) {
	programs := domain.NewProgramNames()
	programs.Add("School of IT", []string{"BS Software Development"})
	programs.Add("School of Business", []string{
		"Bachelor of Science, Marketing",
		"B.S. Accounting",
		"BS Accounting",
		"Bachelor of Science, Marketing",
	})

	duplicates := DuplicatesMap{
		"B.S. Accounting":         "Bachelor of Science, Accounting",
		"BS Accounting":           "Bachelor of Science, Accounting",
		"BS Software Development": "Bachelor of Science, Software Development",
	}
	ordering := SnapshotSet{
		"2019-01": {"School of Business", "School of IT"},
	}

	snapshot, err := BuildDegreeSnapshot("2019-03", programs, duplicates, ordering)
	if err != nil {
		t.Fatalf("BuildDegreeSnapshot failed: %v", err)
	}

	// Colleges must follow canonical order, not the catalog's scan order.
	wantColleges := []string{"School of Business", "School of IT"}
	if !reflect.DeepEqual(snapshot.Colleges, wantColleges) {
		t.Errorf("Colleges = %v, want %v", snapshot.Colleges, wantColleges)
	}

	// Aliases resolved, duplicates collapsed, names sorted.
	wantBusiness := []string{"Bachelor of Science, Accounting", "Bachelor of Science, Marketing"}
	if !reflect.DeepEqual(snapshot.Degrees["School of Business"], wantBusiness) {
		t.Errorf("Business = %v, want %v", snapshot.Degrees["School of Business"], wantBusiness)
	}
}

func TestBuildDegreeSnapshot_TrailingCertificates(t *testing.T) {
	programs := domain.NewProgramNames()
	programs.Add("School of Business", []string{"Bachelor of Science, Accounting"})
	programs.Add(domain.CertificatesBucket, []string{
		"Leadership Certificate",
		"Data Analytics Certificate",
		"Leadership Certificate",
	})

	ordering := SnapshotSet{"2019-01": {"School of Business"}}

	snapshot, err := BuildDegreeSnapshot("2019-03", programs, nil, ordering)
	if err != nil {
		t.Fatalf("BuildDegreeSnapshot failed: %v", err)
	}

	wantColleges := []string{"School of Business", domain.CertificatesBucket}
	if !reflect.DeepEqual(snapshot.Colleges, wantColleges) {
		t.Errorf("Colleges = %v, want %v", snapshot.Colleges, wantColleges)
	}
	wantCerts := []string{"Data Analytics Certificate", "Leadership Certificate"}
	if !reflect.DeepEqual(snapshot.Degrees[domain.CertificatesBucket], wantCerts) {
		t.Errorf("Certificates = %v, want %v", snapshot.Degrees[domain.CertificatesBucket], wantCerts)
	}
}

func TestBuildDegreeSnapshot_DuplicateCertificate(t *testing.T) {
	programs := domain.NewProgramNames()
	programs.Add("School of Business", []string{"Leadership Certificate"})
	programs.Add(domain.CertificatesBucket, []string{"Leadership Certificate"})

	ordering := SnapshotSet{"2019-01": {"School of Business"}}

	_, err := BuildDegreeSnapshot("2019-03", programs, nil, ordering)
	if !errors.Is(err, ErrDuplicateCertificate) {
		t.Errorf("Expected ErrDuplicateCertificate, got: %v", err)
	}
}

func TestBuildDegreeSnapshot_DuplicateCertificateViaAlias(t *testing.T) {
	// The clash is only visible after alias resolution.
	programs := domain.NewProgramNames()
	programs.Add("School of Business", []string{"Leadership Certificate"})
	programs.Add(domain.CertificatesBucket, []string{"Cert. Leadership"})

	duplicates := DuplicatesMap{"Cert. Leadership": "Leadership Certificate"}
	ordering := SnapshotSet{"2019-01": {"School of Business"}}

	_, err := BuildDegreeSnapshot("2019-03", programs, duplicates, ordering)
	if !errors.Is(err, ErrDuplicateCertificate) {
		t.Errorf("Expected ErrDuplicateCertificate, got: %v", err)
	}
}

func TestBuildDegreeSnapshot_MissingCollege(t *testing.T) {
	programs := domain.NewProgramNames()
	programs.Add("School of Business", []string{"Bachelor of Science, Accounting"})

	ordering := SnapshotSet{"2019-01": {"School of Business", "School of Health"}}

	_, err := BuildDegreeSnapshot("2019-03", programs, nil, ordering)
	if !errors.Is(err, ErrMissingCollege) {
		t.Errorf("Expected ErrMissingCollege, got: %v", err)
	}
}

func TestBuildDegreeSnapshot_CertificatesBucketMayBeAbsent(t *testing.T) {
	// The certificates bucket in the canonical ordering is optional.
	programs := domain.NewProgramNames()
	programs.Add("School of Business", []string{"Bachelor of Science, Accounting"})

	ordering := SnapshotSet{"2019-01": {"School of Business", domain.CertificatesBucket}}

	snapshot, err := BuildDegreeSnapshot("2019-03", programs, nil, ordering)
	if err != nil {
		t.Fatalf("BuildDegreeSnapshot failed: %v", err)
	}
	if len(snapshot.Colleges) != 1 {
		t.Errorf("Colleges = %v", snapshot.Colleges)
	}
}

func TestBuildDegreeSnapshot_NoApplicableOrdering(t *testing.T) {
	programs := domain.NewProgramNames()
	programs.Add("School of Business", []string{"Bachelor of Science, Accounting"})

	ordering := SnapshotSet{"2020-01": {"School of Business"}}

	_, err := BuildDegreeSnapshot("2019-03", programs, nil, ordering)
	if !errors.Is(err, ErrNoApplicableSnapshot) {
		t.Errorf("Expected ErrNoApplicableSnapshot, got: %v", err)
	}
}

func TestDegreeSnapshot_MarshalPreservesCollegeOrder(t *testing.T) {
	snapshot := domain.DegreeSnapshot{
		Colleges: []string{"School of IT", "School of Business"},
		Degrees: map[string][]string{
			"School of Business": {"Bachelor of Science, Accounting"},
			"School of IT":       {"Bachelor of Science, Software Development"},
		},
	}

	data, err := snapshot.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}

	want := `{"School of IT":["Bachelor of Science, Software Development"],"School of Business":["Bachelor of Science, Accounting"]}`
	if string(data) != want {
		t.Errorf("MarshalJSON = %s, want %s", data, want)
	}
}
