package gradebook

// SubjectAverage is the mean of the recorded grades. ok is false when no
// term has a grade.
func SubjectAverage(t Terms) (avg float64, ok bool) {
	var (
		sum float64
		n   int
	)
	for _, g := range t {
		if g != nil {
			sum += *g
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// StatusFor maps the number of subjects averaging below PassingGrade to
// a Status.
func StatusFor(below int) Status {
	switch {
	case below == 0:
		return StatusApproved
	case below <= 2:
		return StatusRecovery
	default:
		return StatusFailed
	}
}

// CountBelow returns how many subjects in grades average below
// PassingGrade. Subjects without grades are not counted.
func CountBelow(grades map[string]*Terms) int {
	var below int
	for _, t := range grades {
		if t == nil {
			continue
		}
		if avg, ok := SubjectAverage(*t); ok && avg < PassingGrade {
			below++
		}
	}
	return below
}
