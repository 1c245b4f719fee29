package collector

import (
	"context"
	"log"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"SignalSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price  float64
	Bars   map[string]map[model.Granularity][]model.OHLCV
	Errors map[string]error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(_ context.Context, symbol string, g model.Granularity) ([]model.OHLCV, error) {
	if err, ok := m.Errors[symbol]; ok {
		return nil, err
	}
	if bars, ok := m.Bars[symbol][g]; ok {
		return bars, nil
	}
	step := 24 * time.Hour
	if g == model.Fine {
		step = time.Hour
	}
	return generateMockBars(m.Price, 120, step), nil
}

func generateMockBars(basePrice float64, count int, step time.Duration) []model.OHLCV {
	end := time.Now().Truncate(step)
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   end.Add(-time.Duration(count-i) * step),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// Collector gathers both series for every symbol of the universe.
type Collector struct {
	Fetcher     Fetcher
	Universe    []string
	Concurrency int
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, universe []string, concurrency int) *Collector {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Collector{Fetcher: fetcher, Universe: universe, Concurrency: concurrency}
}

// Collect fetches the coarse and fine series of one symbol. A failed fetch
// leaves that series empty; the engine then skips the symbol.
func (c *Collector) Collect(ctx context.Context, symbol string) model.SymbolInput {
	in := model.SymbolInput{Symbol: symbol}
	for _, g := range []model.Granularity{model.Coarse, model.Fine} {
		bars, err := c.Fetcher.FetchBars(ctx, symbol, g)
		if err != nil {
			log.Printf("[WARN] fetch %s %s bars: %v", symbol, g, err)
			continue
		}
		if g == model.Coarse {
			in.Coarse = Normalize(bars)
		} else {
			in.Fine = Normalize(bars)
		}
	}
	return in
}

// CollectUniverse fetches every symbol concurrently. The result is in
// universe order.
func (c *Collector) CollectUniverse(ctx context.Context) []model.SymbolInput {
	inputs := make([]model.SymbolInput, len(c.Universe))
	g, gctx := errgroup.WithContext(ctx)
	if c.Concurrency > 0 {
		g.SetLimit(c.Concurrency)
	}
	for i, symbol := range c.Universe {
		g.Go(func() error {
			inputs[i] = c.Collect(gctx, symbol)
			return nil
		})
	}
	_ = g.Wait()
	return inputs
}

// Normalize sorts bars by time and keeps the last bar of each timestamp.
func Normalize(bars []model.OHLCV) model.Series {
	if len(bars) == 0 {
		return nil
	}
	sorted := make([]model.OHLCV, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	out := make(model.Series, 0, len(sorted))
	for _, b := range sorted {
		if n := len(out); n > 0 && out[n-1].Time.Equal(b.Time) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}
