package scoring

// FFMIMetric scores the fat-free mass index. Anything at or above Ideal
// earns full points.
type FFMIMetric struct {
	Max   float64
	Floor float64
	Ideal float64
}

func (m *FFMIMetric) Key() string        { return "ffmi" }
func (m *FFMIMetric) Name() string       { return "Fat-free mass index" }
func (m *FFMIMetric) MaxPoints() float64 { return m.Max }

func (m *FFMIMetric) Curve() Curve {
	c := NewCurve(
		Point{X: m.Floor, Score: 0},
		Point{X: m.Ideal, Score: m.Max},
	)
	c.HoldRight = true
	return c
}

func (m *FFMIMetric) Evaluate(ind Indicators) MetricResult {
	return evaluateCurve(m, m.Curve(), ind.FFMI)
}
