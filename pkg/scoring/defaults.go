package scoring

import (
	"fmt"
	"sort"

	"github.com/tallybook/tally/pkg/config"
)

// DefaultMetrics returns the standard set of scoring metrics with default weights.
func DefaultMetrics() []Metric {
	return MetricsFromWeights(Defaults())
}

// MetricsFromWeights builds the four metrics from w.
func MetricsFromWeights(w DefaultWeights) []Metric {
	return []Metric{
		&HeightMetric{
			Max:          w.HeightMax,
			Floor:        w.HeightFloor,
			PlateauStart: w.HeightPlateauStart,
			PlateauEnd:   w.HeightPlateauEnd,
			Ceiling:      w.HeightCeiling,
		},
		&BodyFatMetric{
			Max:       w.BodyFatMax,
			IdealLow:  w.BodyFatIdealLow,
			IdealHigh: w.BodyFatIdealHigh,
			Cutoff:    w.BodyFatCutoff,
		},
		&FFMIMetric{
			Max:   w.FFMIMax,
			Floor: w.FFMIFloor,
			Ideal: w.FFMIIdeal,
		},
		&ProportionMetric{
			Max:       w.ProportionMax,
			Floor:     w.ProportionFloor,
			IdealLow:  w.ProportionIdealLow,
			IdealHigh: w.ProportionIdealHigh,
		},
	}
}

// WeightsFromConfig applies the overrides in cfg.Weights on top of Defaults.
// Unknown keys are an error.
func WeightsFromConfig(cfg config.ScoringConfig) (DefaultWeights, error) {
	w := Defaults()
	keys := w.weightKeys()

	names := make([]string, 0, len(cfg.Weights))
	for k := range cfg.Weights {
		names = append(names, k)
	}
	sort.Strings(names)

	for _, k := range names {
		dst, ok := keys[k]
		if !ok {
			return DefaultWeights{}, fmt.Errorf("unknown scoring weight %q", k)
		}
		*dst = cfg.Weights[k]
	}
	return w, nil
}

// FromConfig builds an engine from the scoring section of the config file.
func FromConfig(cfg config.ScoringConfig) (*Engine, error) {
	w, err := WeightsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	tiers, err := TiersFromConfig(cfg.Tiers)
	if err != nil {
		return nil, err
	}
	return NewEngine(MetricsFromWeights(w)...).WithClassifier(NewClassifier(tiers...)), nil
}
