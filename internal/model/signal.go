package model

import (
	"github.com/shopspring/decimal"
)

// Grade is the ordinal bucket derived from a score.
type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeB     Grade = "B"
	GradeC     Grade = "C"
)

// Rule identifies one of the scoring rules.
type Rule string

const (
	RuleTrend          Rule = "TREND"
	RuleMomentum       Rule = "MOMENTUM"
	RuleVolumeSurge    Rule = "VOLUME_SURGE"
	RuleMultiTimeframe Rule = "MULTI_TIMEFRAME"
	RuleVolatility     Rule = "VOLATILITY"
)

// RuleHit records whether a rule fired and what it contributed.
type RuleHit struct {
	Rule   Rule
	Passed bool
	Weight int
}

// ScoreResult is the output of the scoring engine for one symbol.
type ScoreResult struct {
	Symbol string
	Score  int
	Grade  Grade
	Rules  []RuleHit
}

// TradePlan is a volatility-sized long setup.
type TradePlan struct {
	Entry      float64
	Stop       float64
	Target     float64
	Shares     int64
	RiskAmount float64
}

// SymbolResult combines the score and trade plan of one symbol.
type SymbolResult struct {
	ScoreResult
	Plan TradePlan
}

// Status tags the outcome of evaluating a single symbol.
type Status string

const (
	StatusOK                  Status = "OK"
	StatusNoData              Status = "NO_DATA"
	StatusMalformed           Status = "MALFORMED"
	StatusInsufficientHistory Status = "INSUFFICIENT_HISTORY"
)

// Outcome is the tagged per-symbol result. Result is only set for StatusOK.
type Outcome struct {
	Symbol string
	Status Status
	Reason string
	Result *SymbolResult
}

// RankedReport is the ranked output of one evaluation cycle.
type RankedReport struct {
	Results []SymbolResult // descending by score
	Skipped []Outcome
}

// Empty reports the "no signal" state.
func (r RankedReport) Empty() bool { return len(r.Results) == 0 }

// Best returns the top-ranked result, if any.
func (r RankedReport) Best() (SymbolResult, bool) {
	if r.Empty() {
		return SymbolResult{}, false
	}
	return r.Results[0], true
}

// ReportRow is the presentation record of a SymbolResult.
type ReportRow struct {
	Symbol string
	Price  decimal.Decimal
	Score  int
	Grade  Grade
	Stop   decimal.Decimal
	Target decimal.Decimal
	Shares int64
}

// Row converts a result into its presentation record, prices rounded to cents.
func (r SymbolResult) Row() ReportRow {
	return ReportRow{
		Symbol: r.Symbol,
		Price:  decimal.NewFromFloat(r.Plan.Entry).Round(2),
		Score:  r.Score,
		Grade:  r.Grade,
		Stop:   decimal.NewFromFloat(r.Plan.Stop).Round(2),
		Target: decimal.NewFromFloat(r.Plan.Target).Round(2),
		Shares: r.Plan.Shares,
	}
}

// Rows returns the presentation records in rank order.
func (r RankedReport) Rows() []ReportRow {
	rows := make([]ReportRow, len(r.Results))
	for i, res := range r.Results {
		rows[i] = res.Row()
	}
	return rows
}
