package calculator

import (
	"math"

	"SignalSentinel/internal/model"
)

// TrueRange returns the true range of every bar. Index 0 has no previous
// close and is NaN.
func TrueRange(bars []model.OHLCV) []float64 {
	out := nanSlice(len(bars))
	for i := 1; i < len(bars); i++ {
		prevClose := bars[i-1].Close
		hl := bars[i].High - bars[i].Low
		hc := math.Abs(bars[i].High - prevClose)
		lc := math.Abs(bars[i].Low - prevClose)
		out[i] = math.Max(hl, math.Max(hc, lc))
	}
	return out
}

// ATR computes Wilder's average true range. The seed is the mean of the
// first period true ranges, so the first value is at index period.
func ATR(bars []model.OHLCV, period int) []float64 {
	out := nanSlice(len(bars))
	if period <= 0 || len(bars) < period+1 {
		return out
	}
	tr := TrueRange(bars)

	sum := 0.0
	for i := 1; i <= period; i++ {
		sum += tr[i]
	}
	atr := sum / float64(period)
	out[period] = atr

	for i := period + 1; i < len(bars); i++ {
		atr = wilder(atr, tr[i], period)
		out[i] = atr
	}
	return out
}
