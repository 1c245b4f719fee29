package strategy

import (
	"SignalSentinel/internal/model"
)

// Grade maps a score to a grade: first ladder step whose minimum is met wins.
func (p Policy) Grade(score int) model.Grade {
	for _, step := range p.Ladder {
		if score >= step.MinScore {
			return step.Grade
		}
	}
	return p.Floor
}

// Score evaluates the rules on the latest bar of both series.
// Rules with undefined operands contribute nothing.
func Score(symbol string, coarse model.Series, coarseInd, fineInd model.IndicatorSet, p Policy) model.ScoreResult {
	var volume float64
	if len(coarse) > 0 {
		volume = coarse.Last().Volume
	}

	hits := []model.RuleHit{
		scoreTrend(coarseInd, p.Weights.Trend),
		scoreMomentum(coarseInd, p.RSILow, p.RSIHigh, p.Weights.Momentum),
		scoreVolumeSurge(volume, coarseInd, p.Weights.VolumeSurge),
		scoreMultiTimeframe(fineInd, p.Weights.MultiTimeframe),
		scoreVolatility(coarseInd, p.Weights.Volatility),
	}

	total := 0
	for _, h := range hits {
		if h.Passed {
			total += h.Weight
		}
	}

	return model.ScoreResult{
		Symbol: symbol,
		Score:  total,
		Grade:  p.Grade(total),
		Rules:  hits,
	}
}
