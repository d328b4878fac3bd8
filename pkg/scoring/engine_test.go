package scoring_test

import (
	"math"
	"testing"

	"github.com/tallybook/tally/pkg/scoring"
)

const eps = 1e-9

func approx(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestComputeEndToEnd(t *testing.T) {
	result, err := scoring.Compute(scoring.Measurements{
		HeightCm:      185,
		WeightKg:      80,
		BodyFatPct:    12,
		ShoulderWidth: 120,
		WaistWidth:    75,
	})
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}

	if !approx(result.Indicators.HeightM, 1.85, eps) {
		t.Errorf("expected height 1.85m, got %f", result.Indicators.HeightM)
	}
	wantFFMI := 80 * 0.88 / (1.85 * 1.85)
	if !approx(result.Indicators.FFMI, wantFFMI, 1e-9) {
		t.Errorf("expected FFMI %f, got %f", wantFFMI, result.Indicators.FFMI)
	}

	checks := map[string]float64{
		"height":     2.0,
		"body_fat":   3.0,
		"ffmi":       3.0 * (wantFFMI - 16) / 7,
		"proportion": 2.0,
	}
	for key, want := range checks {
		mr := result.Metric(key)
		if mr == nil {
			t.Fatalf("expected %s metric in breakdown", key)
		}
		if !approx(mr.Points, want, 1e-9) {
			t.Errorf("%s: expected %f points, got %f", key, want, mr.Points)
		}
	}

	if result.MaxPoints != 10.0 {
		t.Errorf("expected max points 10, got %f", result.MaxPoints)
	}
	if !approx(result.TotalPoints, 8.9585, 1e-3) {
		t.Errorf("expected total ≈ 8.9585, got %f", result.TotalPoints)
	}
	if !approx(result.Percentage, 89.585, 1e-2) {
		t.Errorf("expected percentage ≈ 89.59, got %f", result.Percentage)
	}
	if result.Tier.Key != scoring.TierChadLight {
		t.Errorf("expected tier %s, got %s", scoring.TierChadLight, result.Tier.Key)
	}
}

func TestComputePerfectScore(t *testing.T) {
	// 1.85m, 10% fat, FFMI well above 23, ratio 1.65
	result, err := scoring.Compute(scoring.Measurements{
		HeightCm:      185,
		WeightKg:      100,
		BodyFatPct:    10,
		ShoulderWidth: 132,
		WaistWidth:    80,
	})
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	if result.Percentage != 100 {
		t.Fatalf("expected 100%%, got %f", result.Percentage)
	}
	if result.Tier.Key != scoring.TierGreekGod {
		t.Errorf("expected tier %s, got %s", scoring.TierGreekGod, result.Tier.Key)
	}
}

func TestComputeInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		m    scoring.Measurements
	}{
		{"zero height", scoring.Measurements{HeightCm: 0, WeightKg: 80, BodyFatPct: 12, ShoulderWidth: 120, WaistWidth: 75}},
		{"zero waist", scoring.Measurements{HeightCm: 180, WeightKg: 80, BodyFatPct: 12, ShoulderWidth: 120, WaistWidth: 0}},
		{"negative weight", scoring.Measurements{HeightCm: 180, WeightKg: -1, BodyFatPct: 12, ShoulderWidth: 120, WaistWidth: 75}},
		{"negative shoulder", scoring.Measurements{HeightCm: 180, WeightKg: 80, BodyFatPct: 12, ShoulderWidth: -120, WaistWidth: 75}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := scoring.Compute(tc.m)
			if err == nil {
				t.Fatal("expected error")
			}
			if !scoring.IsInvalidInput(err) {
				t.Errorf("expected InvalidInputError, got %T: %v", err, err)
			}
			if result != nil {
				t.Error("expected no result on error")
			}
		})
	}
}

func TestComputeNonFinite(t *testing.T) {
	base := scoring.Measurements{HeightCm: 180, WeightKg: 80, BodyFatPct: 12, ShoulderWidth: 120, WaistWidth: 75}
	tests := []struct {
		name   string
		mutate func(m *scoring.Measurements)
	}{
		{"NaN height", func(m *scoring.Measurements) { m.HeightCm = math.NaN() }},
		{"NaN weight", func(m *scoring.Measurements) { m.WeightKg = math.NaN() }},
		{"NaN body fat", func(m *scoring.Measurements) { m.BodyFatPct = math.NaN() }},
		{"+Inf shoulder", func(m *scoring.Measurements) { m.ShoulderWidth = math.Inf(1) }},
		{"-Inf waist", func(m *scoring.Measurements) { m.WaistWidth = math.Inf(-1) }},
		{"height squared underflows", func(m *scoring.Measurements) { m.HeightCm = 1e-200; m.WeightKg = 0 }},
		{"ratio overflows", func(m *scoring.Measurements) { m.ShoulderWidth = 1e300; m.WaistWidth = 1e-300 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := base
			tc.mutate(&m)
			result, err := scoring.Compute(m)
			if !scoring.IsInvalidInput(err) {
				t.Fatalf("expected InvalidInputError, got %T: %v", err, err)
			}
			if result != nil {
				t.Error("expected no result on error")
			}
		})
	}
}

func TestComputeParsedUnderflow(t *testing.T) {
	m, err := scoring.ParseMeasurements("1e-200", "0", "12", "120", "75")
	if err != nil {
		t.Fatalf("ParseMeasurements() error: %v", err)
	}
	if _, err := scoring.Compute(m); !scoring.IsInvalidInput(err) {
		t.Errorf("expected InvalidInputError, got %v", err)
	}
}

func TestComputeZeroMessage(t *testing.T) {
	_, err := scoring.Compute(scoring.Measurements{HeightCm: 0, WaistWidth: 75})
	if err == nil || err.Error() != "height and waist must be greater than zero" {
		t.Errorf("unexpected error: %v", err)
	}
	_, err = scoring.Compute(scoring.Measurements{HeightCm: -5, WaistWidth: 0})
	if err == nil || err.Error() != "values cannot be negative" {
		t.Errorf("negative values must be reported first, got: %v", err)
	}
}

func TestComputeIsIdempotent(t *testing.T) {
	m := scoring.Measurements{HeightCm: 176.5, WeightKg: 72.3, BodyFatPct: 17.2, ShoulderWidth: 118, WaistWidth: 81}
	a, err := scoring.Compute(m)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	b, err := scoring.Compute(m)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	if a.Percentage != b.Percentage || a.Tier != b.Tier || a.TotalPoints != b.TotalPoints {
		t.Errorf("expected identical results, got %+v and %+v", a, b)
	}
}

func TestSubScoresWithinBounds(t *testing.T) {
	for h := 100.0; h <= 230; h += 7.3 {
		for fat := 0.0; fat <= 50; fat += 3.1 {
			for ratio := 0.5; ratio <= 2.2; ratio += 0.13 {
				result, err := scoring.Compute(scoring.Measurements{
					HeightCm:      h,
					WeightKg:      75,
					BodyFatPct:    fat,
					ShoulderWidth: 80 * ratio,
					WaistWidth:    80,
				})
				if err != nil {
					t.Fatalf("Compute() error: %v", err)
				}
				var sum float64
				for _, mr := range result.Breakdown {
					if mr.Points < 0 || mr.Points > mr.MaxPoints {
						t.Fatalf("%s points %f out of [0, %f]", mr.Key, mr.Points, mr.MaxPoints)
					}
					sum += mr.Points
				}
				if !approx(sum, result.TotalPoints, eps) {
					t.Fatalf("total %f != sum of breakdown %f", result.TotalPoints, sum)
				}
				if result.Percentage < 0 || result.Percentage > 100 {
					t.Fatalf("percentage %f out of range", result.Percentage)
				}
			}
		}
	}
}

func TestPercentageMonotonicInFFMI(t *testing.T) {
	// Raising weight at fixed fat raises FFMI and never lowers the score.
	prev := -1.0
	for w := 40.0; w <= 140; w += 2.5 {
		result, err := scoring.Compute(scoring.Measurements{
			HeightCm: 180, WeightKg: w, BodyFatPct: 12, ShoulderWidth: 110, WaistWidth: 80,
		})
		if err != nil {
			t.Fatalf("Compute() error: %v", err)
		}
		if result.Percentage < prev {
			t.Fatalf("percentage decreased from %f to %f at weight %f", prev, result.Percentage, w)
		}
		prev = result.Percentage
	}
}

// Whenever a single sub-score rises while the others are held, the
// percentage must not fall, and vice versa.
func TestPercentageMonotonicInEachSubScore(t *testing.T) {
	base := scoring.Measurements{HeightCm: 180, WeightKg: 80, BodyFatPct: 12, ShoulderWidth: 120, WaistWidth: 80}
	tests := []struct {
		metric   string
		from, to float64
		step     float64
		set      func(m *scoring.Measurements, v float64)
	}{
		{"height", 150, 215, 0.5, func(m *scoring.Measurements, v float64) {
			// FFMI held at 25, above the ideal
			m.HeightCm = v
			m.WeightKg = 25 * (v / 100) * (v / 100) / 0.88
		}},
		{"body_fat", 0, 40, 0.25, func(m *scoring.Measurements, v float64) {
			// keep lean mass, and so FFMI, fixed while fat varies
			m.BodyFatPct = v
			m.WeightKg = 70 / ((100 - v) / 100)
		}},
		{"proportion", 60, 150, 0.5, func(m *scoring.Measurements, v float64) { m.ShoulderWidth = v }},
	}
	for _, tc := range tests {
		t.Run(tc.metric, func(t *testing.T) {
			var prevPoints, prevPct float64
			first := true
			for v := tc.from; v <= tc.to; v += tc.step {
				m := base
				tc.set(&m, v)
				result, err := scoring.Compute(m)
				if err != nil {
					t.Fatalf("Compute() error at %f: %v", v, err)
				}
				points := result.Metric(tc.metric).Points
				if !first {
					switch {
					case points > prevPoints+eps && result.Percentage < prevPct-eps:
						t.Fatalf("%s rose at %f but percentage fell from %f to %f", tc.metric, v, prevPct, result.Percentage)
					case points < prevPoints-eps && result.Percentage > prevPct+eps:
						t.Fatalf("%s fell at %f but percentage rose from %f to %f", tc.metric, v, prevPct, result.Percentage)
					case approx(points, prevPoints, eps) && !approx(result.Percentage, prevPct, 1e-6):
						t.Fatalf("%s unchanged at %f but percentage moved from %f to %f", tc.metric, v, prevPct, result.Percentage)
					}
				}
				prevPoints, prevPct, first = points, result.Percentage, false
			}
		})
	}
}

func TestEngineWithoutMetrics(t *testing.T) {
	engine := scoring.NewEngine()
	_, err := engine.Score(scoring.Measurements{HeightCm: 180, WaistWidth: 80})
	if err == nil {
		t.Error("expected error for engine without metrics")
	}
}

func TestEngineMaxPoints(t *testing.T) {
	engine := scoring.NewEngine(scoring.DefaultMetrics()...)
	if engine.MaxPoints() != 10.0 {
		t.Errorf("expected 10 max points, got %f", engine.MaxPoints())
	}
	if len(engine.Metrics()) != 4 {
		t.Errorf("expected 4 metrics, got %d", len(engine.Metrics()))
	}
}
