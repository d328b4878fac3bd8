package scoring_test

import (
	"math"
	"testing"

	"github.com/tallybook/tally/pkg/scoring"
)

func TestCurveEval(t *testing.T) {
	c := scoring.NewCurve(
		scoring.Point{X: 2, Score: 4},
		scoring.Point{X: 0, Score: 0}, // out of order on purpose
		scoring.Point{X: 3, Score: 4},
	)

	tests := []struct {
		x    float64
		want float64
	}{
		{-1, 0},
		{0, 0},
		{1, 2},
		{2, 4},
		{2.5, 4},
		{3, 4},
		{3.1, 0},
	}
	for _, tt := range tests {
		if got := c.Eval(tt.x); !approx(got, tt.want, eps) {
			t.Errorf("Eval(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestCurveHold(t *testing.T) {
	c := scoring.NewCurve(scoring.Point{X: 1, Score: 1}, scoring.Point{X: 2, Score: 3})
	c.HoldLeft = true
	c.HoldRight = true

	if got := c.Eval(0); got != 1 {
		t.Errorf("HoldLeft: Eval(0) = %v, want 1", got)
	}
	if got := c.Eval(10); got != 3 {
		t.Errorf("HoldRight: Eval(10) = %v, want 3", got)
	}
	if c.Max() != 3 {
		t.Errorf("Max() = %v, want 3", c.Max())
	}
}

func TestCurveEmpty(t *testing.T) {
	var c scoring.Curve
	if got := c.Eval(5); got != 0 {
		t.Errorf("empty curve Eval = %v, want 0", got)
	}
}

func TestCurveNaN(t *testing.T) {
	c := scoring.NewCurve(scoring.Point{X: 1, Score: 1}, scoring.Point{X: 2, Score: 3})
	c.HoldLeft = true
	c.HoldRight = true
	if got := c.Eval(math.NaN()); got != 0 {
		t.Errorf("Eval(NaN) = %v, want 0", got)
	}
}
