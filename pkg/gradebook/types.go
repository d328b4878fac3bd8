// Package gradebook keeps students, their subjects and four bimonthly
// grades per subject, and derives averages and approval status.
package gradebook

import "fmt"

// TermsPerYear is the number of grading periods in a school year.
const TermsPerYear = 4

// PassingGrade is the lowest subject average that counts as passed.
const PassingGrade = 7.0

// DefaultSubjects are the subjects every class year starts with.
var DefaultSubjects = []string{
	"Português", "Matemática", "Inglês", "Espanhol",
	"História", "Geografia", "Ciências", "Ed. Física", "Ed. Artística",
}

// ClassYear is a school class and its core subjects.
type ClassYear struct {
	Name     string   `json:"name"`
	Subjects []string `json:"subjects"`
}

// DefaultClassYears returns "1º ano" through "9º ano", each with the
// default subjects.
func DefaultClassYears() []ClassYear {
	years := make([]ClassYear, 0, 9)
	for i := 1; i <= 9; i++ {
		subjects := make([]string, len(DefaultSubjects))
		copy(subjects, DefaultSubjects)
		years = append(years, ClassYear{Name: fmt.Sprintf("%dº ano", i), Subjects: subjects})
	}
	return years
}

// Terms holds the grade of each term; nil means no grade recorded.
type Terms [TermsPerYear]*float64

// Student is a grade book entry, keyed by ShortName.
type Student struct {
	ShortName string            `json:"short_name"`
	FullName  string            `json:"full_name"`
	Parents   string            `json:"parents,omitempty"`
	Age       int               `json:"age"`
	Birthday  string            `json:"birthday,omitempty"` // DD/MM/YYYY
	ClassYear string            `json:"class_year"`
	Electives []string          `json:"electives"`
	Grades    map[string]*Terms `json:"grades"`
}

// NewStudent is what's required to add a student.
type NewStudent struct {
	ShortName string `json:"short_name" validate:"notblank"`
	FullName  string `json:"full_name" validate:"notblank"`
	Parents   string `json:"parents"`
	Age       int    `json:"age" validate:"min=1"`
	Birthday  string `json:"birthday" validate:"omitempty,ddmmyyyy"`
	ClassYear string `json:"class_year" validate:"classyear"`
}

// Status is the approval outcome of a student's year.
type Status string

const (
	StatusApproved Status = "approved"
	StatusRecovery Status = "recovery"
	StatusFailed   Status = "failed"
)

// Label is the banner shown on a report card.
func (s Status) Label() string {
	switch s {
	case StatusApproved:
		return "STUDENT APPROVED"
	case StatusRecovery:
		return "STUDENT IN RECOVERY"
	case StatusFailed:
		return "STUDENT FAILED"
	default:
		return string(s)
	}
}

// SubjectReport is one row of a report card.
type SubjectReport struct {
	Subject string   `json:"subject"`
	Terms   Terms    `json:"terms"`
	Average *float64 `json:"average"`
	Below   bool     `json:"below_passing"`
}

// Report is a student's report card.
type Report struct {
	ShortName  string          `json:"short_name"`
	FullName   string          `json:"full_name"`
	ClassYear  string          `json:"class_year"`
	Subjects   []SubjectReport `json:"subjects"`
	BelowCount int             `json:"below_passing"`
	Status     Status          `json:"status"`
}
