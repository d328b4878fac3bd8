// Package scoring implements the aesthetic score calculator.
// It turns five body measurements into weighted sub-scores, a percentage
// and a classification tier.
package scoring

// Measurements are the raw inputs of a score computation.
type Measurements struct {
	HeightCm      float64 `json:"height_cm"`
	WeightKg      float64 `json:"weight_kg"`
	BodyFatPct    float64 `json:"body_fat_pct"`
	ShoulderWidth float64 `json:"shoulder_width"`
	WaistWidth    float64 `json:"waist_width"`
}

// Indicators are the values derived from Measurements that the metrics score.
type Indicators struct {
	HeightM            float64 `json:"height_m"`
	LeanMassKg         float64 `json:"lean_mass_kg"`
	FFMI               float64 `json:"ffmi"`
	BodyFatPct         float64 `json:"body_fat_pct"`
	ShoulderWaistRatio float64 `json:"shoulder_waist_ratio"`
}

// ScoreResult is the complete output of one computation.
// Immutable once computed.
type ScoreResult struct {
	Measurements Measurements   `json:"measurements"`
	Indicators   Indicators     `json:"indicators"`
	Breakdown    []MetricResult `json:"breakdown"`
	TotalPoints  float64        `json:"total_points"`
	MaxPoints    float64        `json:"max_points"`
	Percentage   float64        `json:"percentage"`
	Tier         Tier           `json:"tier"`
}

// MetricResult is the output of a single scoring metric.
type MetricResult struct {
	Key       string  `json:"key"`   // machine key: "ffmi"
	Name      string  `json:"name"`  // human name: "Fat-free mass index"
	Input     float64 `json:"input"` // indicator value that was scored
	Points    float64 `json:"points"`
	MaxPoints float64 `json:"max_points"`
}

// Metric returns the breakdown entry for key, or nil.
func (r *ScoreResult) Metric(key string) *MetricResult {
	for i := range r.Breakdown {
		if r.Breakdown[i].Key == key {
			return &r.Breakdown[i]
		}
	}
	return nil
}
