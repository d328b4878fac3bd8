package scoring

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Validate checks the preconditions of a computation. Non-finite values
// are rejected first, then negatives, then zero height or waist.
func (m Measurements) Validate() error {
	values := []float64{m.HeightCm, m.WeightKg, m.BodyFatPct, m.ShoulderWidth, m.WaistWidth}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errNonFinite
		}
	}
	for _, v := range values {
		if v < 0 {
			return errNegative
		}
	}
	if m.HeightCm <= 0 || m.WaistWidth <= 0 {
		return errHeightWaistZero
	}
	return nil
}

// Derive computes the indicators. Callers must Validate first.
func (m Measurements) Derive() Indicators {
	heightM := m.HeightCm / 100
	lean := m.WeightKg * (100 - m.BodyFatPct) / 100
	return Indicators{
		HeightM:            heightM,
		LeanMassKg:         lean,
		FFMI:               lean / (heightM * heightM),
		BodyFatPct:         m.BodyFatPct,
		ShoulderWaistRatio: m.ShoulderWidth / m.WaistWidth,
	}
}

// finite reports whether every derived indicator is a usable number.
// Extreme but valid inputs can still underflow or overflow.
func (ind Indicators) finite() bool {
	for _, v := range []float64{ind.HeightM, ind.LeanMassKg, ind.FFMI, ind.BodyFatPct, ind.ShoulderWaistRatio} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ParseDecimal parses a number written with either a comma or a dot as
// the decimal separator.
func ParseDecimal(s string) (float64, error) {
	raw := s
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ParseError{Value: raw, Err: err}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ParseError{Value: raw, Err: errNotFinite}
	}
	return v, nil
}

// ParseMeasurements parses the five form fields, in calculator order.
func ParseMeasurements(height, weight, bodyFat, shoulder, waist string) (Measurements, error) {
	var m Measurements
	fields := []struct {
		name string
		raw  string
		dst  *float64
	}{
		{"height", height, &m.HeightCm},
		{"weight", weight, &m.WeightKg},
		{"body_fat", bodyFat, &m.BodyFatPct},
		{"shoulder", shoulder, &m.ShoulderWidth},
		{"waist", waist, &m.WaistWidth},
	}

	for _, f := range fields {
		v, err := ParseDecimal(f.raw)
		if err != nil {
			return Measurements{}, &ParseError{Field: f.name, Value: f.raw, Err: errors.Unwrap(err)}
		}
		*f.dst = v
	}
	return m, nil
}
