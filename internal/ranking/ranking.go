// Package ranking runs the per-symbol scoring pipeline across a universe and
// orders the results.
package ranking

import (
	"errors"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/model"
	"SignalSentinel/internal/risk"
	"SignalSentinel/internal/strategy"
)

// Evaluator holds the immutable settings of one evaluation cycle.
type Evaluator struct {
	Policy  strategy.Policy
	Account risk.Account
	Workers int // parallel symbols, <= 0 means GOMAXPROCS
}

// New returns an Evaluator after validating its settings.
func New(policy strategy.Policy, account risk.Account) (*Evaluator, error) {
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("policy: %w", err)
	}
	if err := account.Validate(); err != nil {
		return nil, fmt.Errorf("account: %w", err)
	}
	return &Evaluator{Policy: policy, Account: account}, nil
}

// Evaluate scores every symbol and returns them ranked by score, highest
// first. Ties keep input order. Symbols without usable data are reported in
// Skipped and never fail the batch.
func (e *Evaluator) Evaluate(inputs []model.SymbolInput) model.RankedReport {
	outcomes := make([]model.Outcome, len(inputs))

	workers := e.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for i := range inputs {
		g.Go(func() error {
			outcomes[i] = e.EvaluateSymbol(inputs[i])
			return nil
		})
	}
	_ = g.Wait() // workers never fail

	return Rank(outcomes)
}

// Rank filters OK outcomes and stable-sorts them by descending score.
func Rank(outcomes []model.Outcome) model.RankedReport {
	var report model.RankedReport
	for _, o := range outcomes {
		if o.Status == model.StatusOK && o.Result != nil {
			report.Results = append(report.Results, *o.Result)
			continue
		}
		report.Skipped = append(report.Skipped, o)
	}
	sort.SliceStable(report.Results, func(i, j int) bool {
		return report.Results[i].Score > report.Results[j].Score
	})
	return report
}

// EvaluateSymbol runs indicators, scoring and sizing for one symbol.
func (e *Evaluator) EvaluateSymbol(in model.SymbolInput) model.Outcome {
	out := model.Outcome{Symbol: in.Symbol}

	for _, s := range []struct {
		name   string
		series model.Series
	}{{"coarse", in.Coarse}, {"fine", in.Fine}} {
		if err := s.series.Validate(); err != nil {
			out.Status = model.StatusMalformed
			if errors.Is(err, model.ErrEmptySeries) {
				out.Status = model.StatusNoData
			}
			out.Reason = fmt.Sprintf("%s series: %v", s.name, err)
			return out
		}
	}

	periods := e.Policy.Periods
	coarseInd := calculator.ComputeCoarse(in.Coarse, periods)
	fineInd := calculator.ComputeFine(in.Fine, periods)

	score := strategy.Score(in.Symbol, in.Coarse, coarseInd, fineInd, e.Policy)

	short := len(in.Coarse) < periods.MinCoarseBars() || len(in.Fine) < periods.MinFineBars()
	if short && score.Score == 0 {
		out.Status = model.StatusInsufficientHistory
		out.Reason = fmt.Sprintf("coarse %d/%d bars, fine %d/%d bars",
			len(in.Coarse), periods.MinCoarseBars(), len(in.Fine), periods.MinFineBars())
		return out
	}

	plan := risk.Plan(in.Coarse.Last().Close, model.Latest(coarseInd.ATR), e.Account)

	out.Status = model.StatusOK
	out.Result = &model.SymbolResult{ScoreResult: score, Plan: plan}
	return out
}
