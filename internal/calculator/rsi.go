package calculator

// RSI computes Wilder's relative strength index over closes.
// The first value sits at index period, after period price changes; earlier
// values are NaN. RSI is 100 when the average loss is zero.
func RSI(closes []float64, period int) []float64 {
	out := nanSlice(len(closes))
	if period <= 0 || len(closes) < period+1 {
		return out
	}

	// Initial average gain/loss over the first `period` changes
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		gain, loss := split(closes[i] - closes[i-1])
		avgGain += gain
		avgLoss += loss
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	// Wilder smoothing for remaining bars
	for i := period + 1; i < len(closes); i++ {
		gain, loss := split(closes[i] - closes[i-1])
		avgGain = wilder(avgGain, gain, period)
		avgLoss = wilder(avgLoss, loss, period)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func split(change float64) (gain, loss float64) {
	if change > 0 {
		return change, 0
	}
	return 0, -change
}

func wilder(prev, current float64, period int) float64 {
	return (prev*float64(period-1) + current) / float64(period)
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}
