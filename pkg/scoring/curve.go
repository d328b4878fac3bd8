package scoring

import (
	"math"
	"sort"
)

// Point is a single (x, points) breakpoint of a Curve.
type Point struct {
	X     float64 `json:"x" yaml:"x"`
	Score float64 `json:"score" yaml:"score"`
}

// Curve is a piecewise-linear scoring curve over ordered breakpoints.
// Between two adjacent points the score is linearly interpolated.
// Outside the breakpoint span the score is 0, unless HoldLeft/HoldRight
// is set, in which case the nearest endpoint score is held.
type Curve struct {
	Points    []Point `json:"points"`
	HoldLeft  bool    `json:"hold_left,omitempty"`
	HoldRight bool    `json:"hold_right,omitempty"`
}

// NewCurve returns a curve over the given points, sorted by X.
func NewCurve(points ...Point) Curve {
	pts := make([]Point, len(points))
	copy(pts, points)
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].X < pts[j].X })
	return Curve{Points: pts}
}

// Eval returns the curve value at x.
func (c Curve) Eval(x float64) float64 {
	n := len(c.Points)
	if n == 0 || math.IsNaN(x) {
		return 0
	}

	first, last := c.Points[0], c.Points[n-1]
	if x < first.X {
		if c.HoldLeft {
			return first.Score
		}
		return 0
	}
	if x > last.X {
		if c.HoldRight {
			return last.Score
		}
		return 0
	}

	// first index with X >= x
	i := sort.Search(n, func(i int) bool { return c.Points[i].X >= x })
	p1 := c.Points[i]
	if p1.X == x || i == 0 {
		return p1.Score
	}
	p0 := c.Points[i-1]
	return p0.Score + (p1.Score-p0.Score)*(x-p0.X)/(p1.X-p0.X)
}

// Max returns the highest score any point of the curve reaches.
func (c Curve) Max() float64 {
	var max float64
	for _, p := range c.Points {
		if p.Score > max {
			max = p.Score
		}
	}
	return max
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
