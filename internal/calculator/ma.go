package calculator

import (
	"errors"
	"math"
)

// CalculateSMA computes the simple moving average of the last period values.
func CalculateSMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(values) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(period), nil
}

// EMA computes the exponential moving average with smoothing 2/(period+1),
// seeded with the simple average of the first period values.
// Values before index period-1 are NaN.
func EMA(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	alpha := 2.0 / float64(period+1)
	sum := 0.0
	for i := 0; i < period; i++ {
		sum += values[i]
	}
	prev := sum / float64(period)
	out[period-1] = prev

	for i := period; i < len(values); i++ {
		// prev + α(x−prev) keeps a constant input exactly constant.
		prev = prev + alpha*(values[i]-prev)
		out[i] = prev
	}
	return out
}

// RollingMean returns the mean of the trailing period values ending at each
// index. The window must be full and free of NaN, otherwise the value is NaN.
func RollingMean(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		mean, err := CalculateSMA(values[i-period+1:i+1], period)
		if err != nil {
			continue
		}
		out[i] = mean // NaN inside the window propagates
	}
	return out
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
