package scoring

// ProportionMetric scores the shoulder to waist ratio. Ratios past
// IdealHigh earn nothing.
type ProportionMetric struct {
	Max       float64
	Floor     float64
	IdealLow  float64
	IdealHigh float64
}

func (m *ProportionMetric) Key() string        { return "proportion" }
func (m *ProportionMetric) Name() string       { return "Shoulder/waist proportion" }
func (m *ProportionMetric) MaxPoints() float64 { return m.Max }

func (m *ProportionMetric) Curve() Curve {
	return NewCurve(
		Point{X: m.Floor, Score: 0},
		Point{X: m.IdealLow, Score: m.Max},
		Point{X: m.IdealHigh, Score: m.Max},
	)
}

func (m *ProportionMetric) Evaluate(ind Indicators) MetricResult {
	return evaluateCurve(m, m.Curve(), ind.ShoulderWaistRatio)
}
