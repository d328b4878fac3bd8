package scoring

// BodyFatMetric scores body fat percentage against an ideal band.
//
// Above the band the score falls to 0 at Cutoff. Below the band it falls
// with the same slope, so the zero point sits (Cutoff-IdealHigh) below
// IdealLow.
type BodyFatMetric struct {
	Max       float64
	IdealLow  float64
	IdealHigh float64
	Cutoff    float64
}

func (m *BodyFatMetric) Key() string        { return "body_fat" }
func (m *BodyFatMetric) Name() string       { return "Body fat" }
func (m *BodyFatMetric) MaxPoints() float64 { return m.Max }

func (m *BodyFatMetric) Curve() Curve {
	width := m.Cutoff - m.IdealHigh
	return NewCurve(
		Point{X: m.IdealLow - width, Score: 0},
		Point{X: m.IdealLow, Score: m.Max},
		Point{X: m.IdealHigh, Score: m.Max},
		Point{X: m.Cutoff, Score: 0},
	)
}

func (m *BodyFatMetric) Evaluate(ind Indicators) MetricResult {
	return evaluateCurve(m, m.Curve(), ind.BodyFatPct)
}
