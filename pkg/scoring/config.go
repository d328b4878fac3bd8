package scoring

// DefaultWeights holds the default curve parameters for all metrics.
type DefaultWeights struct {
	// Height, in metres
	HeightMax          float64
	HeightFloor        float64 // 0 points at or below
	HeightPlateauStart float64
	HeightPlateauEnd   float64
	HeightCeiling      float64 // 0 points at or above

	// Body fat, in percent
	BodyFatMax       float64
	BodyFatIdealLow  float64
	BodyFatIdealHigh float64
	BodyFatCutoff    float64 // 0 points at or above

	// Fat-free mass index, in kg/m²
	FFMIMax   float64
	FFMIFloor float64 // 0 points at or below
	FFMIIdeal float64 // max points at or above

	// Shoulder to waist ratio
	ProportionMax       float64
	ProportionFloor     float64 // 0 points at or below
	ProportionIdealLow  float64
	ProportionIdealHigh float64 // 0 points above
}

// Defaults returns the default scoring weights.
func Defaults() DefaultWeights {
	return DefaultWeights{
		HeightMax:          2.0,
		HeightFloor:        1.65,
		HeightPlateauStart: 1.82,
		HeightPlateauEnd:   1.87,
		HeightCeiling:      2.05,

		BodyFatMax:       3.0,
		BodyFatIdealLow:  10.0,
		BodyFatIdealHigh: 13.0,
		BodyFatCutoff:    35.0,

		FFMIMax:   3.0,
		FFMIFloor: 16.0,
		FFMIIdeal: 23.0,

		ProportionMax:       2.0,
		ProportionFloor:     1.0,
		ProportionIdealLow:  1.6,
		ProportionIdealHigh: 1.7,
	}
}

// weightKeys maps config keys to the weight they override.
func (w *DefaultWeights) weightKeys() map[string]*float64 {
	return map[string]*float64{
		"height_max":           &w.HeightMax,
		"height_floor":         &w.HeightFloor,
		"height_plateau_start": &w.HeightPlateauStart,
		"height_plateau_end":   &w.HeightPlateauEnd,
		"height_ceiling":       &w.HeightCeiling,

		"body_fat_max":        &w.BodyFatMax,
		"body_fat_ideal_low":  &w.BodyFatIdealLow,
		"body_fat_ideal_high": &w.BodyFatIdealHigh,
		"body_fat_cutoff":     &w.BodyFatCutoff,

		"ffmi_max":   &w.FFMIMax,
		"ffmi_floor": &w.FFMIFloor,
		"ffmi_ideal": &w.FFMIIdeal,

		"proportion_max":        &w.ProportionMax,
		"proportion_floor":      &w.ProportionFloor,
		"proportion_ideal_low":  &w.ProportionIdealLow,
		"proportion_ideal_high": &w.ProportionIdealHigh,
	}
}
