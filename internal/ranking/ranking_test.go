package ranking

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalSentinel/internal/model"
	"SignalSentinel/internal/risk"
	"SignalSentinel/internal/strategy"
)

var account = risk.Account{Size: 100000, RiskPercent: 1, RewardMultiple: 2}

func newEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	e, err := New(strategy.DefaultPolicy(), account)
	require.NoError(t, err)
	return e
}

func flat(n int, step time.Duration) model.Series {
	start := time.Date(2024, 1, 2, 14, 30, 0, 0, time.UTC)
	s := make(model.Series, n)
	for i := range s {
		s[i] = model.OHLCV{Time: start.Add(time.Duration(i) * step), Open: 100, High: 100, Low: 100, Close: 100, Volume: 1000}
	}
	return s
}

// rising closes at 100, 101, ... with a constant two-point range.
func rising(n int, step time.Duration) model.Series {
	s := flat(n, step)
	for i := range s {
		c := 100 + float64(i)
		s[i].Open, s[i].Close, s[i].High, s[i].Low = c, c, c+1, c-1
	}
	return s
}

const (
	day  = 24 * time.Hour
	hour = time.Hour
)

func TestEvaluate_FlatSeries(t *testing.T) {
	e := newEvaluator(t)
	report := e.Evaluate([]model.SymbolInput{{Symbol: "FLAT", Coarse: flat(60, day), Fine: flat(60, hour)}})

	require.Len(t, report.Results, 1)
	r := report.Results[0]
	assert.Equal(t, 0, r.Score)
	assert.Equal(t, model.GradeC, r.Grade)
	assert.Equal(t, 100.0, r.Plan.Entry)
	assert.Equal(t, r.Plan.Entry, r.Plan.Stop)
	assert.Equal(t, int64(0), r.Plan.Shares)
}

func TestEvaluate_RisingSeries(t *testing.T) {
	e := newEvaluator(t)
	report := e.Evaluate([]model.SymbolInput{{Symbol: "UP", Coarse: rising(60, day), Fine: rising(60, hour)}})
	require.Len(t, report.Results, 1)
	r := report.Results[0]

	passed := map[model.Rule]bool{}
	sum := 0
	for _, h := range r.Rules {
		passed[h.Rule] = h.Passed
		if h.Passed {
			sum += h.Weight
		}
	}
	assert.Equal(t, sum, r.Score)

	// Trend and intraday confirmation hold, RSI pins at 100, volume and ATR
	// are constant so neither exceeds nor undercuts its mean.
	assert.True(t, passed[model.RuleTrend])
	assert.False(t, passed[model.RuleMomentum])
	assert.False(t, passed[model.RuleVolumeSurge])
	assert.True(t, passed[model.RuleMultiTimeframe])
	assert.False(t, passed[model.RuleVolatility])
	assert.Equal(t, 55, r.Score)
	assert.Equal(t, model.GradeC, r.Grade)

	assert.InDelta(t, 159.0, r.Plan.Entry, 1e-9)
	assert.InDelta(t, 157.0, r.Plan.Stop, 1e-9)
	assert.InDelta(t, 163.0, r.Plan.Target, 1e-9)
	assert.Equal(t, int64(500), r.Plan.Shares)
}

func TestEvaluate_SkipsEmptySeries(t *testing.T) {
	e := newEvaluator(t)
	var inputs []model.SymbolInput
	for i := 0; i < 10; i++ {
		inputs = append(inputs, model.SymbolInput{Symbol: fmt.Sprintf("S%d", i), Coarse: rising(60, day), Fine: rising(60, hour)})
	}
	inputs[4].Coarse = nil

	report := e.Evaluate(inputs)
	assert.Len(t, report.Results, 9)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "S4", report.Skipped[0].Symbol)
	assert.Equal(t, model.StatusNoData, report.Skipped[0].Status)
}

func TestEvaluate_SkipsMalformedSeries(t *testing.T) {
	e := newEvaluator(t)
	bad := rising(60, day)
	bad[10].Time = bad[9].Time

	report := e.Evaluate([]model.SymbolInput{
		{Symbol: "BAD", Coarse: bad, Fine: rising(60, hour)},
		{Symbol: "OK", Coarse: rising(60, day), Fine: rising(60, hour)},
	})
	require.Len(t, report.Results, 1)
	assert.Equal(t, "OK", report.Results[0].Symbol)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, model.StatusMalformed, report.Skipped[0].Status)
}

func TestEvaluate_InsufficientHistory(t *testing.T) {
	e := newEvaluator(t)

	short := e.EvaluateSymbol(model.SymbolInput{Symbol: "SHORT", Coarse: flat(10, day), Fine: flat(10, hour)})
	assert.Equal(t, model.StatusInsufficientHistory, short.Status)
	assert.Nil(t, short.Result)

	// Short history still counts when a rule can fire.
	coarse := flat(30, day)
	coarse[29].Volume = 5000
	partial := e.EvaluateSymbol(model.SymbolInput{Symbol: "PARTIAL", Coarse: coarse, Fine: flat(30, hour)})
	require.Equal(t, model.StatusOK, partial.Status)
	assert.Equal(t, 15, partial.Result.Score)
}

func TestEvaluate_EmptyUniverse(t *testing.T) {
	e := newEvaluator(t)
	report := e.Evaluate(nil)
	assert.True(t, report.Empty())
	_, ok := report.Best()
	assert.False(t, ok)
	assert.Empty(t, report.Rows())
}

func TestEvaluate_RanksDescendingAndStable(t *testing.T) {
	e := newEvaluator(t)
	report := e.Evaluate([]model.SymbolInput{
		{Symbol: "FLAT1", Coarse: flat(60, day), Fine: flat(60, hour)},
		{Symbol: "UP1", Coarse: rising(60, day), Fine: rising(60, hour)},
		{Symbol: "FLAT2", Coarse: flat(60, day), Fine: flat(60, hour)},
		{Symbol: "UP2", Coarse: rising(60, day), Fine: rising(60, hour)},
	})
	var order []string
	for _, r := range report.Results {
		order = append(order, r.Symbol)
	}
	assert.Equal(t, []string{"UP1", "UP2", "FLAT1", "FLAT2"}, order)

	best, ok := report.Best()
	require.True(t, ok)
	assert.Equal(t, "UP1", best.Symbol)
}

func TestEvaluate_Idempotent(t *testing.T) {
	var inputs []model.SymbolInput
	for i := 0; i < 8; i++ {
		c := rising(60, day)
		c[59].Volume = float64(900 + 50*i)
		inputs = append(inputs, model.SymbolInput{Symbol: fmt.Sprintf("S%d", i), Coarse: c, Fine: rising(60, hour)})
	}

	e := newEvaluator(t)
	first := e.Evaluate(inputs)
	second := e.Evaluate(inputs)
	assert.Equal(t, first, second)

	serial := newEvaluator(t)
	serial.Workers = 1
	assert.Equal(t, first, serial.Evaluate(inputs))
}

func TestEvaluate_DoesNotMutateInputs(t *testing.T) {
	in := model.SymbolInput{Symbol: "UP", Coarse: rising(60, day), Fine: rising(60, hour)}
	before := append(model.Series(nil), in.Coarse...)
	newEvaluator(t).Evaluate([]model.SymbolInput{in})
	assert.Equal(t, before, in.Coarse)
}

func TestEvaluate_RaisedCloseShiftsPlan(t *testing.T) {
	e := newEvaluator(t)
	base := rising(60, day)
	raised := append(model.Series(nil), base...)
	raised[59].Close += 0.5 // still inside the bar's range

	a := e.EvaluateSymbol(model.SymbolInput{Symbol: "A", Coarse: base, Fine: rising(60, hour)})
	b := e.EvaluateSymbol(model.SymbolInput{Symbol: "B", Coarse: raised, Fine: rising(60, hour)})
	require.NotNil(t, a.Result)
	require.NotNil(t, b.Result)

	assert.InDelta(t, 0.5, b.Result.Plan.Entry-a.Result.Plan.Entry, 1e-9)
	assert.InDelta(t, 0.5, b.Result.Plan.Stop-a.Result.Plan.Stop, 1e-9)
	assert.InDelta(t, 0.5, b.Result.Plan.Target-a.Result.Plan.Target, 1e-9)
}

func TestRank_KeepsSkipped(t *testing.T) {
	report := Rank([]model.Outcome{
		{Symbol: "A", Status: model.StatusNoData},
		{Symbol: "B", Status: model.StatusOK, Result: &model.SymbolResult{ScoreResult: model.ScoreResult{Symbol: "B", Score: 30}}},
	})
	assert.Len(t, report.Results, 1)
	assert.Len(t, report.Skipped, 1)
}

func TestNew_RejectsInvalidSettings(t *testing.T) {
	_, err := New(strategy.DefaultPolicy(), risk.Account{})
	assert.Error(t, err)

	p := strategy.DefaultPolicy()
	p.Periods.EMAFast = 0
	_, err = New(p, account)
	assert.Error(t, err)
}
