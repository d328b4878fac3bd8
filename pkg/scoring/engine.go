package scoring

import "fmt"

// Metric is the interface that all scoring metrics implement.
type Metric interface {
	// Key returns the machine-readable metric identifier.
	Key() string
	// Name returns the human-readable metric name.
	Name() string
	// MaxPoints returns the most points the metric can award.
	MaxPoints() float64
	// Evaluate computes the metric's points for the given indicators.
	Evaluate(ind Indicators) MetricResult
}

// Engine runs all configured metrics against a set of measurements and
// produces a ScoreResult. An Engine holds no mutable state.
type Engine struct {
	metrics    []Metric
	classifier *Classifier
}

// NewEngine creates a scoring engine with the given metrics and the
// default tier table.
func NewEngine(metrics ...Metric) *Engine {
	return &Engine{metrics: metrics, classifier: NewClassifier(DefaultTiers()...)}
}

// WithClassifier replaces the tier table used by the engine.
func (e *Engine) WithClassifier(c *Classifier) *Engine {
	e.classifier = c
	return e
}

// Metrics returns the configured metrics.
func (e *Engine) Metrics() []Metric { return e.metrics }

// Classifier returns the tier table used by the engine.
func (e *Engine) Classifier() *Classifier { return e.classifier }

// MaxPoints is the sum of the metric maxima.
func (e *Engine) MaxPoints() float64 {
	var max float64
	for _, m := range e.metrics {
		max += m.MaxPoints()
	}
	return max
}

// Score validates the measurements, evaluates all metrics and produces a
// complete ScoreResult. No partial result is returned on error.
func (e *Engine) Score(m Measurements) (*ScoreResult, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	maxPoints := e.MaxPoints()
	if maxPoints <= 0 {
		return nil, fmt.Errorf("engine has no scoring metrics")
	}

	ind := m.Derive()
	if !ind.finite() {
		return nil, errOutOfRange
	}
	result := &ScoreResult{
		Measurements: m,
		Indicators:   ind,
		MaxPoints:    maxPoints,
	}

	for _, metric := range e.metrics {
		mr := metric.Evaluate(ind)
		result.Breakdown = append(result.Breakdown, mr)
		result.TotalPoints += mr.Points
	}

	result.Percentage = 100 * result.TotalPoints / maxPoints
	result.Tier = e.classifier.Classify(result.Percentage)

	return result, nil
}

var defaultEngine = NewEngine(DefaultMetrics()...)

// Compute scores m with the default metrics and tier table.
func Compute(m Measurements) (*ScoreResult, error) {
	return defaultEngine.Score(m)
}

// evaluateCurve scores x on c and clamps the result to [0, m.MaxPoints()].
func evaluateCurve(m Metric, c Curve, x float64) MetricResult {
	return MetricResult{
		Key:       m.Key(),
		Name:      m.Name(),
		Input:     x,
		Points:    clamp(c.Eval(x), 0, m.MaxPoints()),
		MaxPoints: m.MaxPoints(),
	}
}
