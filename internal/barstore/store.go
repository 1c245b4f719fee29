package barstore

import (
	"context"

	"SignalSentinel/internal/model"
)

// Store persists raw price bars keyed by symbol and granularity.
type Store interface {
	SaveBars(ctx context.Context, symbol string, g model.Granularity, bars []model.OHLCV) error
	LoadBars(ctx context.Context, symbol string, g model.Granularity) ([]model.OHLCV, error)
	Close() error
}
