package rental

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tallybook/tally/internal/validate"
)

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(validate.ISODateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// Days is the number of billable days between two dates: the calendar
// difference, with a minimum of one.
func Days(start, end string) (int, error) {
	s, err := ParseDate(start)
	if err != nil {
		return 0, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return 0, err
	}
	days := int((e.Unix() - s.Unix()) / 86400)
	if days < 1 {
		days = 1
	}
	return days, nil
}

// Price is days times rate, rounded to cents.
func Price(days int, rate float64) float64 {
	return round2(float64(days) * rate)
}

// ParseAmount parses a money amount written with a comma or a dot.
func ParseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
