package gradebook_test

import (
	"errors"
	"testing"

	"github.com/tallybook/tally/pkg/gradebook"
)

func TestSubjectAverage(t *testing.T) {
	tests := []struct {
		name   string
		terms  gradebook.Terms
		want   float64
		wantOK bool
	}{
		{"empty", gradebook.Terms{}, 0, false},
		{"one grade", gradebook.Terms{grade(6)}, 6, true},
		{"skips missing", gradebook.Terms{grade(8), nil, grade(6), nil}, 7, true},
		{"all four", gradebook.Terms{grade(10), grade(9), grade(8), grade(7)}, 8.5, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := gradebook.SubjectAverage(tc.terms)
			if ok != tc.wantOK || got != tc.want {
				t.Errorf("SubjectAverage() = %v, %v; want %v, %v", got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		below int
		want  gradebook.Status
	}{
		{0, gradebook.StatusApproved},
		{1, gradebook.StatusRecovery},
		{2, gradebook.StatusRecovery},
		{3, gradebook.StatusFailed},
		{9, gradebook.StatusFailed},
	}
	for _, tc := range tests {
		if got := gradebook.StatusFor(tc.below); got != tc.want {
			t.Errorf("StatusFor(%d) = %s, want %s", tc.below, got, tc.want)
		}
	}
}

func TestReport(t *testing.T) {
	b := newBook(t)

	// no grades yet: nothing counts against the student
	r, err := b.Report("ana")
	if err != nil {
		t.Fatalf("Report() error: %v", err)
	}
	if r.Status != gradebook.StatusApproved || r.BelowCount != 0 {
		t.Errorf("expected approved with no grades, got %s/%d", r.Status, r.BelowCount)
	}

	_ = b.SetGrade("ana", "Matemática", 1, grade(5))
	_ = b.SetGrade("ana", "Matemática", 2, grade(8))
	_ = b.SetGrade("ana", "História", 1, grade(7))
	_ = b.SetGrade("ana", "Inglês", 1, grade(6.9))

	r, _ = b.Report("ana")
	if r.BelowCount != 2 || r.Status != gradebook.StatusRecovery {
		t.Errorf("expected recovery with 2 subjects below, got %s/%d", r.Status, r.BelowCount)
	}
	if r.Status.Label() != "STUDENT IN RECOVERY" {
		t.Errorf("unexpected label %q", r.Status.Label())
	}
	if len(r.Subjects) != len(gradebook.DefaultSubjects) {
		t.Fatalf("expected %d rows, got %d", len(gradebook.DefaultSubjects), len(r.Subjects))
	}
	for _, row := range r.Subjects {
		switch row.Subject {
		case "Matemática":
			if row.Average == nil || *row.Average != 6.5 || !row.Below {
				t.Errorf("unexpected Matemática row %+v", row)
			}
		case "História":
			if row.Average == nil || *row.Average != 7 || row.Below {
				t.Errorf("a 7 average passes, got %+v", row)
			}
		case "Geografia":
			if row.Average != nil {
				t.Errorf("expected no average for Geografia")
			}
		}
	}

	_ = b.SetGrade("ana", "Ciências", 1, grade(2))
	status, below, err := b.Status("ana")
	if err != nil {
		t.Fatalf("Status() error: %v", err)
	}
	if status != gradebook.StatusFailed || below != 3 {
		t.Errorf("expected failed with 3 below, got %s/%d", status, below)
	}

	if _, err := b.Report("nobody"); !errors.Is(err, gradebook.ErrStudentNotFound) {
		t.Errorf("expected ErrStudentNotFound, got %v", err)
	}
}
