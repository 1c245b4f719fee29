package barstore

import (
	"context"

	"SignalSentinel/internal/model"
)

// NoopStore is a no-op implementation used when SQLite is not configured.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (n *NoopStore) SaveBars(_ context.Context, _ string, _ model.Granularity, _ []model.OHLCV) error {
	return nil
}

func (n *NoopStore) LoadBars(_ context.Context, _ string, _ model.Granularity) ([]model.OHLCV, error) {
	return nil, nil
}

func (n *NoopStore) Close() error { return nil }
