package roster

import "testing"

var (
	compSecondA = BatchDefinition{
		ID:         "b1",
		Department: "Computer Engineering",
		Class:      "Second Year",
		Division:   "A",
		SubBatch:   "A1",
		RbtFrom:    "CS2401",
		RbtTo:      "CS2420",
	}
	compSecondA2 = BatchDefinition{
		ID:         "b2",
		Department: "Computer Engineering",
		Class:      "SE", // short spelling coexists in data
		Division:   "A",
		SubBatch:   "A2",
		RbtFrom:    "CS2421",
		RbtTo:      "CS2440",
	}
	mechSecondA = BatchDefinition{
		ID:         "b3",
		Department: "Mechanical Engineering",
		Class:      "Second Year",
		Division:   "A",
		RbtFrom:    "ME2401",
		RbtTo:      "ME2420",
	}
)

func TestResolveBatchForStudent(t *testing.T) {
	defs := []BatchDefinition{compSecondA, compSecondA2, mechSecondA}
	aliases := DefaultYearAliases()

	tests := []struct {
		name   string
		st     Student
		wantID string // "" means unassigned
	}{
		{
			name: "sub-batch division prefix match",
			st: Student{
				PRN: "72200001", RollNo: "CS2410", Name: "A",
				Branch: "Computer Engineering", YearOfStudy: "Second Year", Division: "A1",
			},
			wantID: "b1",
		},
		{
			name: "second sub-batch",
			st: Student{
				PRN: "72200002", RollNo: "CS2430",
				Branch: "Computer Engineering", YearOfStudy: "Second Year", Division: "A",
			},
			wantID: "b2",
		},
		{
			name: "short year spelling on student",
			st: Student{
				PRN: "72200003", RollNo: "CS2405",
				Branch: "Computer Engineering", YearOfStudy: "SE", Division: "A",
			},
			wantID: "b1",
		},
		{
			name: "out of range resolves to unassigned",
			st: Student{
				PRN: "72200004", RollNo: "CS2450",
				Branch: "Computer Engineering", YearOfStudy: "Second Year", Division: "A",
			},
			wantID: "",
		},
		{
			name: "wrong department never matches",
			st: Student{
				PRN: "72200005", RollNo: "CS2410",
				Branch: "Civil Engineering", YearOfStudy: "Second Year", Division: "A",
			},
			wantID: "",
		},
		{
			name: "wrong year never matches",
			st: Student{
				PRN: "72200006", RollNo: "CS2410",
				Branch: "Computer Engineering", YearOfStudy: "TE", Division: "A",
			},
			wantID: "",
		},
		{
			name: "wrong division prefix never matches",
			st: Student{
				PRN: "72200007", RollNo: "CS2410",
				Branch: "Computer Engineering", YearOfStudy: "Second Year", Division: "B1",
			},
			wantID: "",
		},
		{
			name: "admission-year prefix folded out",
			st: Student{
				PRN: "72200008", RollNo: "CS1410", // 1410 % 1000 is inside [401, 420]
				Branch: "Computer Engineering", YearOfStudy: "Second Year", Division: "A",
			},
			wantID: "b1",
		},
		{
			name: "falls back to PRN when roll number missing",
			st: Student{
				PRN: "72200410", // PRN sequence 410 inside [401, 420]
				Branch: "Computer Engineering", YearOfStudy: "Second Year", Division: "A",
			},
			wantID: "b1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveBatchForStudent(tt.st, defs, aliases)
			if tt.wantID == "" {
				if got != nil {
					t.Errorf("ResolveBatchForStudent() = %v, want nil", got.ID)
				}
				return
			}
			if got == nil {
				t.Fatalf("ResolveBatchForStudent() = nil, want %s", tt.wantID)
			}
			if got.ID != tt.wantID {
				t.Errorf("ResolveBatchForStudent() = %s, want %s", got.ID, tt.wantID)
			}
		})
	}
}

func TestResolveBatchForStudentOverlap(t *testing.T) {
	// overlapping ranges: a data-entry error; first match in input order wins
	overlap := compSecondA
	overlap.ID = "b1-dup"
	defs := []BatchDefinition{compSecondA, overlap}

	st := Student{
		PRN: "72200001", RollNo: "CS2410",
		Branch: "Computer Engineering", YearOfStudy: "Second Year", Division: "A",
	}

	matches := MatchingBatches(st, defs, DefaultYearAliases())
	if len(matches) != 2 {
		t.Fatalf("MatchingBatches() returned %d matches, want 2", len(matches))
	}
	if got := ResolveBatchForStudent(st, defs, DefaultYearAliases()); got == nil || got.ID != "b1" {
		t.Errorf("ResolveBatchForStudent() should pick the first match, got %v", got)
	}
}

func TestResolveStudentsForBatch(t *testing.T) {
	students := []Student{
		{PRN: "1", RollNo: "CS2401", Branch: "Computer Engineering", YearOfStudy: "Second Year", Division: "A1"},
		{PRN: "2", RollNo: "CS2420", Branch: "Computer Engineering", YearOfStudy: "SE", Division: "A"},
		{PRN: "3", RollNo: "CS2421", Branch: "Computer Engineering", YearOfStudy: "Second Year", Division: "A"},  // out of range
		{PRN: "4", RollNo: "CS2410", Branch: "Mechanical Engineering", YearOfStudy: "Second Year", Division: "A"}, // wrong dept
		{PRN: "5", RollNo: "BADROLL", Branch: "Computer Engineering", YearOfStudy: "Second Year", Division: "A"},  // unextractable
	}

	matched := ResolveStudentsForBatch(compSecondA, students, DefaultYearAliases())
	if len(matched) != 2 {
		t.Fatalf("ResolveStudentsForBatch() returned %d students, want 2", len(matched))
	}
	if matched[0].PRN != "1" || matched[1].PRN != "2" {
		t.Errorf("ResolveStudentsForBatch() = %v, want PRNs [1 2]", matched)
	}
}
