package catalog

import (
	"errors"
	"testing"

	"github.com/coursegraph/catalog-indexer/internal/domain"
)

func programsFor(t *testing.T, pairs ...[2]string) *domain.ProgramNames {
	t.Helper()
	programs := domain.NewProgramNames()
	for _, p := range pairs {
		programs.Add(p[0], []string{p[1]})
	}
	return programs
}

func TestIndexSections_HeadingDriven(t *testing.T) {
	doc := docWithLines("2019-03",
		"Bachelor of Science, Accounting",  // 0
		"CCN Course Number Title CUS Term", // 1
		"ACC 201 C213 Accounting for Decision Makers 3 1", // 2
		"Bachelor of Science, Marketing",   // 3: sibling degree fences the stop
		"CCN Course Number Title CUS Term", // 4
		"MKT 301 C212 Marketing Fundamentals 3 1", // 5
		"Total CUs 120", // 6
	)
	programs := domain.NewProgramNames()
	programs.Add("School of Business", []string{
		"Bachelor of Science, Accounting",
		"Bachelor of Science, Marketing",
	})

	builder := NewSectionsBuilder()
	skipped := IndexSections(doc, programs, builder)

	if len(skipped) != 0 {
		t.Fatalf("Expected no skipped degrees, got %v", skipped)
	}
	if builder.Len() != 2 {
		t.Fatalf("Expected 2 sections, got %d", builder.Len())
	}

	view := builder.View()
	acc := view["2019-03"]["School of Business"]["Bachelor of Science, Accounting"]
	if acc.Start != 1 || acc.Stop != 3 {
		t.Errorf("Accounting section = [%d, %d), want [1, 3)", acc.Start, acc.Stop)
	}
	mkt := view["2019-03"]["School of Business"]["Bachelor of Science, Marketing"]
	if mkt.Start != 4 || mkt.Stop != 6 {
		t.Errorf("Marketing section = [%d, %d), want [4, 6)", mkt.Start, mkt.Stop)
	}
}

// The two historical implementations of this pipeline disagreed on the stop
// fence: one stopped only at a sibling degree heading, the other also stopped
// at any known college heading. This test pins the stricter behavior.
func TestIndexSections_StopsOnForeignCollegeHeading(t *testing.T) {
	doc := docWithLines("2019-03",
		"Bachelor of Science, Accounting",  // 0
		"CCN Course Number Title CUS Term", // 1
		"ACC 201 C213 Accounting for Decision Makers 3 1", // 2
		"School of IT",                     // 3: a known college key, not a sibling degree
		"ITX 101 C779 Web Development 3 1", // 4
	)
	programs := programsFor(t,
		[2]string{"School of Business", "Bachelor of Science, Accounting"},
		[2]string{"School of IT", "Bachelor of Science, Software Development"},
	)

	builder := NewSectionsBuilder()
	IndexSections(doc, programs, builder)

	sec := builder.View()["2019-03"]["School of Business"]["Bachelor of Science, Accounting"]
	if sec.Start != 1 || sec.Stop != 3 {
		t.Errorf("Section = [%d, %d), want [1, 3): any known college heading fences the stop", sec.Start, sec.Stop)
	}
}

// The front-matter listing repeats the exact degree names the course area
// anchors. The heading search must start past the listing, or every degree
// after the first anchors at the document's first CCN header and swallows
// its predecessors' courses.
func TestIndexSections_SkipsFrontMatterListing(t *testing.T) {
	doc := docWithLines("2019-03",
		"School of Business",               // 0
		"Bachelor of Science, Accounting",  // 1: listing entry
		"Bachelor of Science, Marketing",   // 2: listing entry
		"Program Outcomes",                 // 3
		"Bachelor of Science, Accounting",  // 4: course-area heading
		"CCN Course Number Title CUS Term", // 5
		"ACC 201 C213 Accounting for Decision Makers 3 1", // 6
		"Bachelor of Science, Marketing",   // 7: course-area heading
		"CCN Course Number Title CUS Term", // 8
		"MKT 301 C212 Marketing Fundamentals 3 1", // 9
	)
	programs := ExtractProgramNames(doc)

	builder := NewSectionsBuilder()
	skipped := IndexSections(doc, programs, builder)

	if len(skipped) != 0 {
		t.Fatalf("Expected no skipped degrees, got %v", skipped)
	}
	view := builder.View()
	acc := view["2019-03"]["School of Business"]["Bachelor of Science, Accounting"]
	if acc.Start != 5 || acc.Stop != 7 {
		t.Errorf("Accounting section = [%d, %d), want [5, 7)", acc.Start, acc.Stop)
	}
	mkt := view["2019-03"]["School of Business"]["Bachelor of Science, Marketing"]
	if mkt.Start != 8 || mkt.Stop != 10 {
		t.Errorf("Marketing section = [%d, %d), want [8, 10)", mkt.Start, mkt.Stop)
	}
}

func TestProgramListingEnd(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  int
	}{
		{
			name: "listing closed by break",
			lines: []string{
				"School of Business",
				"Bachelor of Science, Accounting",
				"Program Outcomes",
				"Bachelor of Science, Accounting",
			},
			want: 3,
		},
		{
			name: "no front matter",
			lines: []string{
				"Bachelor of Science, Accounting",
				"CCN Course Number Title CUS Term",
			},
			want: 0,
		},
		{
			name: "footer outside a listing does not extend it",
			lines: []string{
				"School of Business",
				"Bachelor of Science, Accounting",
				"Program Outcomes",
				"Total CUs 120",
			},
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := docWithLines("2019-03", tt.lines...)
			if got := programListingEnd(doc); got != tt.want {
				t.Errorf("programListingEnd = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIndexSections_MissingHeadingSkipsDegree(t *testing.T) {
	doc := docWithLines("2019-03",
		"CCN Course Number Title CUS Term",
		"ACC 201 C213 Accounting for Decision Makers 3 1",
	)
	programs := programsFor(t, [2]string{"School of Business", "Bachelor of Science, Accounting"})

	builder := NewSectionsBuilder()
	skipped := IndexSections(doc, programs, builder)

	if builder.Len() != 0 {
		t.Errorf("Expected no sections, got %d", builder.Len())
	}
	if len(skipped) != 1 {
		t.Fatalf("Expected 1 skipped degree, got %d", len(skipped))
	}
	if skipped[0].Reason != "degree heading not found" {
		t.Errorf("Reason = %q", skipped[0].Reason)
	}
}

func TestIndexSections_MissingCCNHeaderSkipsDegree(t *testing.T) {
	doc := docWithLines("2019-03",
		"Bachelor of Science, Accounting",
		"no course listing follows",
	)
	programs := programsFor(t, [2]string{"School of Business", "Bachelor of Science, Accounting"})

	builder := NewSectionsBuilder()
	skipped := IndexSections(doc, programs, builder)

	if len(skipped) != 1 {
		t.Fatalf("Expected 1 skipped degree, got %d", len(skipped))
	}
	if skipped[0].Reason != "no CCN header after degree heading" {
		t.Errorf("Reason = %q", skipped[0].Reason)
	}
}

func TestIndexSections_RunsToEndOfDocument(t *testing.T) {
	doc := docWithLines("2019-03",
		"Bachelor of Science, Accounting",
		"CCN Course Number Title CUS Term",
		"ACC 201 C213 Accounting for Decision Makers 3 1",
	)
	programs := programsFor(t, [2]string{"School of Business", "Bachelor of Science, Accounting"})

	builder := NewSectionsBuilder()
	IndexSections(doc, programs, builder)

	sec := builder.View()["2019-03"]["School of Business"]["Bachelor of Science, Accounting"]
	if sec.Start != 1 || sec.Stop != 3 {
		t.Errorf("Section = [%d, %d), want [1, 3)", sec.Start, sec.Stop)
	}
}

// Spec example: the legacy upward scan locates the enclosing college above
// the first CCN header and fences the section at the footer.
func TestIndexSectionsLegacy(t *testing.T) {
	doc := docWithLines("2018-07",
		"College of Business",               // 0
		"Bachelor of Science, Business",     // 1
		"CCN Course Number Title CUS Term",  // 2
		"BUS 1010 C100 Intro to Business 3 1", // 3
		"Total CUs 120",                     // 4
	)

	builder := NewSectionsBuilder()
	err := IndexSectionsLegacy(doc, []string{"College of Business"}, builder)
	if err != nil {
		t.Fatalf("IndexSectionsLegacy failed: %v", err)
	}

	refs := builder.Refs()
	if len(refs) != 1 {
		t.Fatalf("Expected 1 section, got %d", len(refs))
	}
	ref := refs[0]
	if ref.College != "College of Business" || ref.Degree != "Bachelor of Science, Business" {
		t.Errorf("Resolved %q / %q", ref.College, ref.Degree)
	}
	if ref.Section.Start != 2 || ref.Section.Stop != 4 {
		t.Errorf("Section = [%d, %d), want [2, 4)", ref.Section.Start, ref.Section.Stop)
	}
}

func TestIndexSectionsLegacy_PrefixCollegeMatch(t *testing.T) {
	doc := docWithLines("2018-07",
		"College of Health Professions continued", // prefix match
		"Bachelor of Science, Nursing",
		"CCN Course Number Title CUS Term",
		"NUR 220 C475 Care of Populations 4 3",
	)

	builder := NewSectionsBuilder()
	err := IndexSectionsLegacy(doc, []string{"College of Health Professions"}, builder)
	if err != nil {
		t.Fatalf("IndexSectionsLegacy failed: %v", err)
	}
	if got := builder.Refs()[0].College; got != "College of Health Professions" {
		t.Errorf("College = %q", got)
	}
}

func TestIndexSectionsLegacy_NoEnclosingCollege(t *testing.T) {
	doc := docWithLines("2018-07",
		"Bachelor of Science, Business",
		"CCN Course Number Title CUS Term",
		"BUS 1010 C100 Intro to Business 3 1",
	)

	builder := NewSectionsBuilder()
	err := IndexSectionsLegacy(doc, []string{"College of Business"}, builder)
	if !errors.Is(err, ErrNoEnclosingCollege) {
		t.Errorf("Expected ErrNoEnclosingCollege, got: %v", err)
	}
}

func TestIndexSectionsLegacy_NoCCNHeader(t *testing.T) {
	doc := docWithLines("2018-07",
		"College of Business",
		"Bachelor of Science, Business",
	)

	builder := NewSectionsBuilder()
	if err := IndexSectionsLegacy(doc, []string{"College of Business"}, builder); err == nil {
		t.Error("Expected error for document without CCN header")
	}
}

func TestSectionsBuilder_RejectsInvalidInterval(t *testing.T) {
	builder := NewSectionsBuilder()

	tests := []domain.Section{
		{Start: -1, Stop: 2},
		{Start: 3, Stop: 3},
		{Start: 4, Stop: 2},
		{Start: 0, Stop: 11},
	}
	for _, sec := range tests {
		err := builder.Insert(SectionRef{Date: "2019-03", College: "c", Degree: "d", Section: sec}, 10)
		if err == nil {
			t.Errorf("Insert accepted invalid section [%d, %d) for 10 lines", sec.Start, sec.Stop)
		}
	}
	if builder.Len() != 0 {
		t.Errorf("Builder should stay empty, has %d", builder.Len())
	}
}

func TestSectionsBuilder_PreservesInsertionOrder(t *testing.T) {
	builder := NewSectionsBuilder()
	refs := []SectionRef{
		{Date: "2019-03", College: "b", Degree: "z", Section: domain.Section{Start: 0, Stop: 1}},
		{Date: "2019-03", College: "a", Degree: "y", Section: domain.Section{Start: 1, Stop: 2}},
		{Date: "2019-03", College: "a", Degree: "x", Section: domain.Section{Start: 2, Stop: 3}},
	}
	for _, ref := range refs {
		if err := builder.Insert(ref, 10); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	got := builder.Refs()
	for i := range refs {
		if got[i].Degree != refs[i].Degree {
			t.Errorf("Order violated at %d: got %q, want %q", i, got[i].Degree, refs[i].Degree)
		}
	}
}
