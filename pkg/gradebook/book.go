package gradebook

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/tallybook/tally/internal/validate"
)

var (
	ErrStudentNotFound = errors.New("student not found")
	ErrStudentExists   = errors.New("a student with this short name already exists")
	ErrInvalidTerm     = errors.New("term must be 1, 2, 3 or 4")
	ErrInvalidSubject  = errors.New("invalid subject")
)

// Book is an in-memory grade book. It is safe for concurrent use.
type Book struct {
	mu       sync.RWMutex
	students map[string]*Student
}

// NewBook returns an empty grade book.
func NewBook() *Book {
	return &Book{students: make(map[string]*Student)}
}

// AddStudent validates ns and adds the student with an empty report card
// for the subjects of their class year.
func (b *Book) AddStudent(ns NewStudent) (Student, error) {
	ns = cleanNewStudent(ns)
	if err := validate.Struct(ns); err != nil {
		return Student{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.students[ns.ShortName]; ok {
		return Student{}, ErrStudentExists
	}
	st := &Student{
		ShortName: ns.ShortName,
		FullName:  ns.FullName,
		Parents:   ns.Parents,
		Age:       ns.Age,
		Birthday:  ns.Birthday,
		ClassYear: ns.ClassYear,
		Electives: []string{},
		Grades:    emptyGrades(ns.ClassYear, nil),
	}
	b.students[st.ShortName] = st
	return st.clone(), nil
}

// UpdateStudent replaces the details of an existing student. Moving to
// another class year rebuilds the report card from the new class
// subjects and the student's electives; grades of subjects present in
// both are kept.
func (b *Book) UpdateStudent(ns NewStudent) (Student, error) {
	ns = cleanNewStudent(ns)
	if err := validate.Struct(ns); err != nil {
		return Student{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	st, ok := b.students[ns.ShortName]
	if !ok {
		return Student{}, ErrStudentNotFound
	}
	st.FullName = ns.FullName
	st.Parents = ns.Parents
	st.Age = ns.Age
	st.Birthday = ns.Birthday
	if ns.ClassYear != st.ClassYear {
		grades := emptyGrades(ns.ClassYear, st.Electives)
		for subject := range grades {
			if old, ok := st.Grades[subject]; ok {
				grades[subject] = old
			}
		}
		st.ClassYear = ns.ClassYear
		st.Grades = grades
	}
	return st.clone(), nil
}

// RemoveStudent deletes a student.
func (b *Book) RemoveStudent(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.students[name]; !ok {
		return ErrStudentNotFound
	}
	delete(b.students, name)
	return nil
}

// Student returns a copy of the named student.
func (b *Book) Student(name string) (Student, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	st, ok := b.students[name]
	if !ok {
		return Student{}, ErrStudentNotFound
	}
	return st.clone(), nil
}

// Students returns every student, sorted by short name.
func (b *Book) Students() []Student {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Student, 0, len(b.students))
	for _, st := range b.students {
		out = append(out, st.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ShortName < out[j].ShortName })
	return out
}

// AddElective adds an optional subject to the student's report card.
// Adding an elective twice is a no-op.
func (b *Book) AddElective(name, subject string) error {
	subject = validate.CleanString(subject)
	if subject == "" {
		return ErrInvalidSubject
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	st, ok := b.students[name]
	if !ok {
		return ErrStudentNotFound
	}
	if !contains(st.Electives, subject) {
		st.Electives = append(st.Electives, subject)
	}
	if _, ok := st.Grades[subject]; !ok {
		st.Grades[subject] = &Terms{}
	}
	return nil
}

// RemoveElective drops an optional subject and its grades. Core subjects
// of the student's class year stay on the report card.
func (b *Book) RemoveElective(name, subject string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	st, ok := b.students[name]
	if !ok {
		return ErrStudentNotFound
	}
	for i, e := range st.Electives {
		if e == subject {
			st.Electives = append(st.Electives[:i], st.Electives[i+1:]...)
			break
		}
	}
	core, _ := classSubjects(st.ClassYear)
	if !contains(core, subject) {
		delete(st.Grades, subject)
	}
	return nil
}

// SetGrade records the grade of a subject for term 1 to 4. A nil grade
// clears the term.
func (b *Book) SetGrade(name, subject string, term int, grade *float64) error {
	if term < 1 || term > TermsPerYear {
		return ErrInvalidTerm
	}
	if grade != nil {
		if err := validate.Var("grade", *grade, "min=0,max=10"); err != nil {
			return err
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	st, ok := b.students[name]
	if !ok {
		return ErrStudentNotFound
	}
	terms, ok := st.Grades[subject]
	if !ok {
		return fmt.Errorf("%w: %q is not on %s's report card", ErrInvalidSubject, subject, name)
	}
	if grade == nil {
		terms[term-1] = nil
		return nil
	}
	g := *grade
	terms[term-1] = &g
	return nil
}

// ClearGrade removes the grade of a subject for a term.
func (b *Book) ClearGrade(name, subject string, term int) error {
	return b.SetGrade(name, subject, term, nil)
}

// Subjects lists the student's subjects: the class year subjects in
// order, then any extra subjects sorted by name.
func (b *Book) Subjects(name string) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	st, ok := b.students[name]
	if !ok {
		return nil, ErrStudentNotFound
	}
	return st.subjects(), nil
}

// Status returns the approval status of the student and the number of
// subjects averaging below PassingGrade.
func (b *Book) Status(name string) (Status, int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	st, ok := b.students[name]
	if !ok {
		return "", 0, ErrStudentNotFound
	}
	below := CountBelow(st.Grades)
	return StatusFor(below), below, nil
}

// Report builds the student's report card.
func (b *Book) Report(name string) (Report, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	st, ok := b.students[name]
	if !ok {
		return Report{}, ErrStudentNotFound
	}

	r := Report{ShortName: st.ShortName, FullName: st.FullName, ClassYear: st.ClassYear}
	for _, subject := range st.subjects() {
		row := SubjectReport{Subject: subject, Terms: cloneTerms(st.Grades[subject])}
		if avg, ok := SubjectAverage(row.Terms); ok {
			row.Average = &avg
			row.Below = avg < PassingGrade
			if row.Below {
				r.BelowCount++
			}
		}
		r.Subjects = append(r.Subjects, row)
	}
	r.Status = StatusFor(r.BelowCount)
	return r, nil
}

type snapshot struct {
	Students []Student `json:"students"`
}

// Snapshot encodes the whole book as JSON.
func (b *Book) Snapshot() ([]byte, error) {
	return json.Marshal(snapshot{Students: b.Students()})
}

// Restore replaces the contents of the book with a Snapshot.
func (b *Book) Restore(data []byte) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decoding grade book: %w", err)
	}

	students := make(map[string]*Student, len(snap.Students))
	for i := range snap.Students {
		st := snap.Students[i].clone()
		if st.Grades == nil {
			st.Grades = emptyGrades(st.ClassYear, st.Electives)
		}
		students[st.ShortName] = &st
	}

	b.mu.Lock()
	b.students = students
	b.mu.Unlock()
	return nil
}

func (s *Student) subjects() []string {
	base, _ := classSubjects(s.ClassYear)
	out := make([]string, 0, len(s.Grades))
	var extras []string
	for _, subject := range base {
		if _, ok := s.Grades[subject]; ok {
			out = append(out, subject)
		}
	}
	for subject := range s.Grades {
		if !contains(base, subject) {
			extras = append(extras, subject)
		}
	}
	sort.Strings(extras)
	return append(out, extras...)
}

func (s *Student) clone() Student {
	c := *s
	c.Electives = append([]string{}, s.Electives...)
	c.Grades = make(map[string]*Terms, len(s.Grades))
	for subject, t := range s.Grades {
		terms := cloneTerms(t)
		c.Grades[subject] = &terms
	}
	return c
}

func cloneTerms(t *Terms) Terms {
	var out Terms
	if t == nil {
		return out
	}
	for i, g := range t {
		if g != nil {
			v := *g
			out[i] = &v
		}
	}
	return out
}

func emptyGrades(classYear string, electives []string) map[string]*Terms {
	subjects, _ := classSubjects(classYear)
	grades := make(map[string]*Terms, len(subjects)+len(electives))
	for _, s := range subjects {
		grades[s] = &Terms{}
	}
	for _, s := range electives {
		if _, ok := grades[s]; !ok {
			grades[s] = &Terms{}
		}
	}
	return grades
}

func cleanNewStudent(ns NewStudent) NewStudent {
	ns.ShortName = validate.CleanString(ns.ShortName)
	ns.FullName = validate.CleanString(ns.FullName)
	ns.Parents = validate.CleanString(ns.Parents)
	ns.Birthday = validate.CleanString(ns.Birthday)
	ns.ClassYear = validate.CleanString(ns.ClassYear)
	return ns
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
