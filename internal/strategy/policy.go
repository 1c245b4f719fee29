package strategy

import (
	"errors"
	"fmt"

	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/model"
)

// Weights are the points each rule contributes when it passes.
type Weights struct {
	Trend          int `yaml:"trend"`
	Momentum       int `yaml:"momentum"`
	VolumeSurge    int `yaml:"volume_surge"`
	MultiTimeframe int `yaml:"multi_timeframe"`
	Volatility     int `yaml:"volatility"`
}

// Total is the maximum reachable score.
func (w Weights) Total() int {
	return w.Trend + w.Momentum + w.VolumeSurge + w.MultiTimeframe + w.Volatility
}

// GradeStep maps a minimum score to a grade.
type GradeStep struct {
	MinScore int
	Grade    model.Grade
}

// Policy is the immutable rule table used by Score and Grade.
type Policy struct {
	Weights Weights
	RSILow  float64 // exclusive
	RSIHigh float64 // exclusive
	Periods calculator.Periods
	Ladder  []GradeStep // evaluated top down
	Floor   model.Grade // grade below the last step
}

// DefaultPolicy returns the production rule table.
func DefaultPolicy() Policy {
	return Policy{
		Weights: Weights{Trend: 30, Momentum: 20, VolumeSurge: 15, MultiTimeframe: 25, Volatility: 10},
		RSILow:  55,
		RSIHigh: 75,
		Periods: calculator.Periods{EMAFast: 20, EMASlow: 50, RSI: 14, ATR: 14, Rolling: 20},
		Ladder: []GradeStep{
			{85, model.GradeAPlus},
			{75, model.GradeA},
			{60, model.GradeB},
		},
		Floor: model.GradeC,
	}
}

// Validate checks that the policy is usable.
func (p Policy) Validate() error {
	w := p.Weights
	if w.Trend < 0 || w.Momentum < 0 || w.VolumeSurge < 0 || w.MultiTimeframe < 0 || w.Volatility < 0 {
		return errors.New("weights must not be negative")
	}
	if w.Total() > 100 {
		return fmt.Errorf("weights sum to %d, must not exceed 100", w.Total())
	}
	if p.RSILow >= p.RSIHigh {
		return fmt.Errorf("rsi band (%v, %v) is empty", p.RSILow, p.RSIHigh)
	}
	pp := p.Periods
	if pp.EMAFast <= 0 || pp.EMASlow <= 0 || pp.RSI <= 0 || pp.ATR <= 0 || pp.Rolling <= 0 {
		return errors.New("periods must be positive")
	}
	if p.Floor == "" {
		return errors.New("floor grade is required")
	}
	for i := 1; i < len(p.Ladder); i++ {
		if p.Ladder[i].MinScore >= p.Ladder[i-1].MinScore {
			return fmt.Errorf("grade ladder must be strictly descending at step %d", i)
		}
	}
	return nil
}
