package collector

import (
	"context"

	"SignalSentinel/internal/model"
)

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	FetchBars(ctx context.Context, symbol string, g model.Granularity) ([]model.OHLCV, error)
	Name() string
}
