package calculator

import "SignalSentinel/internal/model"

// Periods are the lookback lengths used to build an IndicatorSet.
type Periods struct {
	EMAFast int
	EMASlow int
	RSI     int
	ATR     int
	Rolling int
}

// ComputeCoarse builds the full indicator set for the daily series.
func ComputeCoarse(s model.Series, p Periods) model.IndicatorSet {
	closes := s.Closes()
	atr := ATR(s, p.ATR)
	return model.IndicatorSet{
		EMAFast:    EMA(closes, p.EMAFast),
		EMASlow:    EMA(closes, p.EMASlow),
		RSI:        RSI(closes, p.RSI),
		ATR:        atr,
		VolumeMean: RollingMean(s.Volumes(), p.Rolling),
		ATRMean:    RollingMean(atr, p.Rolling),
	}
}

// ComputeFine builds the trend-only indicator set for the intraday series.
func ComputeFine(s model.Series, p Periods) model.IndicatorSet {
	closes := s.Closes()
	return model.IndicatorSet{
		EMAFast: EMA(closes, p.EMAFast),
		EMASlow: EMA(closes, p.EMASlow),
	}
}

// MinCoarseBars is the history needed for every coarse indicator to be defined.
func (p Periods) MinCoarseBars() int {
	n := p.EMASlow
	if v := p.EMAFast; v > n {
		n = v
	}
	if v := p.RSI + 1; v > n {
		n = v
	}
	if v := p.Rolling; v > n {
		n = v
	}
	if v := p.ATR + p.Rolling; v > n {
		n = v // ATR mean needs Rolling defined ATR values
	}
	return n
}

// MinFineBars is the history needed for both fine EMAs to be defined.
func (p Periods) MinFineBars() int {
	if p.EMAFast > p.EMASlow {
		return p.EMAFast
	}
	return p.EMASlow
}
