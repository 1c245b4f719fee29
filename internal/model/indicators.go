package model

import "math"

// IndicatorSet holds bar-aligned indicator values for one series.
// Undefined values are NaN. RSI, ATR, VolumeMean and ATRMean are only
// populated for the coarse series.
type IndicatorSet struct {
	EMAFast    []float64
	EMASlow    []float64
	RSI        []float64
	ATR        []float64
	VolumeMean []float64
	ATRMean    []float64
}

// Latest returns the last value of an indicator, or NaN when there is none.
func Latest(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return values[len(values)-1]
}

// Defined reports whether every value is a real number.
func Defined(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) {
			return false
		}
	}
	return true
}
