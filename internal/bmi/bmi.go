// Package bmi derives body-mass index and a categorical verdict from a
// height (centimetres) and weight (kilograms).
//
// Nothing here is ever persisted. Callers recompute the metrics from the
// current measurements every time a record is read or changed.
package bmi

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidMeasurement is returned when height or weight is not a positive,
// finite number, or when together they do not give a finite BMI.
var ErrInvalidMeasurement = errors.New("bmi: height and weight must be positive")

// Verdict is the categorical classification of a BMI value.
type Verdict string

const (
	Underweight Verdict = "Underweight"
	Normal      Verdict = "Normal"
	Overweight  Verdict = "Overweight"
	Obese       Verdict = "Obese"
)

// Bands selects the verdict threshold table.
//
//	legacy: <18.5 Underweight, [18.5,30) Normal, >=30 Obese
//	who:    <18.5 Underweight, [18.5,25) Normal, [25,30) Overweight, >=30 Obese
//
// legacy keeps the historical behaviour of reporting the 25–30 range as
// Normal. who splits it out as Overweight.
type Bands string

const (
	BandsLegacy Bands = "legacy"
	BandsWHO    Bands = "who"
)

// ParseBands converts a config value into a Bands. An empty string selects
// BandsLegacy.
func ParseBands(s string) (Bands, error) {
	switch Bands(s) {
	case "", BandsLegacy:
		return BandsLegacy, nil
	case BandsWHO:
		return BandsWHO, nil
	default:
		return "", fmt.Errorf("bmi: unknown verdict bands %q (want %q or %q)", s, BandsLegacy, BandsWHO)
	}
}

// Metrics holds the derived values for one record.
type Metrics struct {
	BMI     float64
	Verdict Verdict
}

// Derive computes the metrics using the legacy bands.
func Derive(heightCm, weightKg float64) (Metrics, error) {
	return BandsLegacy.Derive(heightCm, weightKg)
}

// Derive computes BMI = weight / (height in metres)², rounded to two decimal
// places, and classifies the rounded value.
func (b Bands) Derive(heightCm, weightKg float64) (Metrics, error) {
	if !positive(heightCm) || !positive(weightKg) {
		return Metrics{}, ErrInvalidMeasurement
	}

	m := heightCm / 100
	value := Round2(weightKg / (m * m))
	// Extreme but positive inputs can still overflow to +Inf.
	if !finite(value) {
		return Metrics{}, ErrInvalidMeasurement
	}

	return Metrics{BMI: value, Verdict: b.Classify(value)}, nil
}

// Classify maps a BMI value to a verdict. Thresholds are checked in order and
// the first match wins.
func (b Bands) Classify(value float64) Verdict {
	switch {
	case value < 18.5:
		return Underweight
	case value < 25:
		return Normal
	case value < 30:
		if b == BandsWHO {
			return Overweight
		}
		return Normal
	default:
		return Obese
	}
}

// Round2 rounds to two decimal places, halves away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func positive(v float64) bool {
	return v > 0 && finite(v)
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
