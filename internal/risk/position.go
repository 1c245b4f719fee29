package risk

import (
	"errors"
	"math"

	"SignalSentinel/internal/model"
)

// Account holds the sizing inputs that stay fixed for an evaluation cycle.
type Account struct {
	Size           float64 // account equity
	RiskPercent    float64 // 1 means 1% of Size at risk per trade
	RewardMultiple float64 // target distance in ATRs
}

// DefaultRewardMultiple places the target two ATRs above entry.
const DefaultRewardMultiple = 2.0

// Validate checks that the account can size trades.
func (a Account) Validate() error {
	if !(a.Size > 0) || math.IsInf(a.Size, 0) {
		return errors.New("account size must be positive and finite")
	}
	if !(a.RiskPercent > 0) || math.IsInf(a.RiskPercent, 0) {
		return errors.New("risk percent must be positive and finite")
	}
	if !(a.RewardMultiple > 0) || math.IsInf(a.RewardMultiple, 0) {
		return errors.New("reward multiple must be positive and finite")
	}
	return nil
}

// RiskAmount is the cash put at risk on a single trade.
func (a Account) RiskAmount() float64 {
	return a.Size * (a.RiskPercent / 100)
}

// Plan derives entry, stop, target and share count from the latest close and
// ATR. An undefined ATR is sized as a zero stop distance.
func Plan(entry, atr float64, a Account) model.TradePlan {
	if math.IsNaN(atr) {
		atr = 0
	}
	stop := entry - atr
	riskAmt := a.RiskAmount()

	return model.TradePlan{
		Entry:      entry,
		Stop:       stop,
		Target:     entry + a.RewardMultiple*atr,
		Shares:     Shares(riskAmt, entry, stop),
		RiskAmount: riskAmt,
	}
}

// Shares sizes a position so that a stop-out loses riskAmt. A non-positive
// stop distance or risk budget yields zero shares. Counts beyond the int64
// range saturate at math.MaxInt64.
func Shares(riskAmt, entry, stop float64) int64 {
	perShare := entry - stop
	if perShare <= 0 || riskAmt <= 0 || math.IsNaN(perShare) || math.IsNaN(riskAmt) {
		return 0
	}
	n := math.Floor(riskAmt / perShare)
	if n >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(n)
}
