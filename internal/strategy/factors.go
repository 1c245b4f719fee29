package strategy

import (
	"SignalSentinel/internal/model"
)

// scoreTrend: daily EMA-fast above EMA-slow.
func scoreTrend(ind model.IndicatorSet, weight int) model.RuleHit {
	fast, slow := model.Latest(ind.EMAFast), model.Latest(ind.EMASlow)
	return hit(model.RuleTrend, model.Defined(fast, slow) && fast > slow, weight)
}

// scoreMomentum: daily RSI strictly inside (low, high).
func scoreMomentum(ind model.IndicatorSet, low, high float64, weight int) model.RuleHit {
	rsi := model.Latest(ind.RSI)
	return hit(model.RuleMomentum, model.Defined(rsi) && low < rsi && rsi < high, weight)
}

// scoreVolumeSurge: latest volume above its rolling mean. Equal is not a surge.
func scoreVolumeSurge(volume float64, ind model.IndicatorSet, weight int) model.RuleHit {
	mean := model.Latest(ind.VolumeMean)
	return hit(model.RuleVolumeSurge, model.Defined(mean) && volume > mean, weight)
}

// scoreMultiTimeframe: intraday EMA-fast above EMA-slow.
func scoreMultiTimeframe(ind model.IndicatorSet, weight int) model.RuleHit {
	fast, slow := model.Latest(ind.EMAFast), model.Latest(ind.EMASlow)
	return hit(model.RuleMultiTimeframe, model.Defined(fast, slow) && fast > slow, weight)
}

// scoreVolatility: ATR below its rolling mean.
func scoreVolatility(ind model.IndicatorSet, weight int) model.RuleHit {
	atr, mean := model.Latest(ind.ATR), model.Latest(ind.ATRMean)
	return hit(model.RuleVolatility, model.Defined(atr, mean) && atr < mean, weight)
}

func hit(rule model.Rule, passed bool, weight int) model.RuleHit {
	return model.RuleHit{Rule: rule, Passed: passed, Weight: weight}
}
