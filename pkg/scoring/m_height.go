package scoring

// HeightMetric scores height against an ideal plateau.
type HeightMetric struct {
	Max          float64 // points on the plateau
	Floor        float64 // metres; 0 points at or below
	PlateauStart float64
	PlateauEnd   float64
	Ceiling      float64 // metres; 0 points at or above
}

func (m *HeightMetric) Key() string        { return "height" }
func (m *HeightMetric) Name() string       { return "Height" }
func (m *HeightMetric) MaxPoints() float64 { return m.Max }

// Curve rises from Floor to PlateauStart, holds, then falls to Ceiling.
func (m *HeightMetric) Curve() Curve {
	return NewCurve(
		Point{X: m.Floor, Score: 0},
		Point{X: m.PlateauStart, Score: m.Max},
		Point{X: m.PlateauEnd, Score: m.Max},
		Point{X: m.Ceiling, Score: 0},
	)
}

func (m *HeightMetric) Evaluate(ind Indicators) MetricResult {
	return evaluateCurve(m, m.Curve(), ind.HeightM)
}
