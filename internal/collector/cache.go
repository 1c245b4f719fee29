package collector

import (
	"context"
	"fmt"
	"log"
	"time"

	"SignalSentinel/internal/barstore"
	"SignalSentinel/internal/model"
)

// CachingFetcher stores every successful fetch and falls back to the stored
// bars when the upstream source fails. Cached bars whose newest bar is older
// than MaxAge are not served; zero MaxAge disables the check.
type CachingFetcher struct {
	Upstream Fetcher
	Store    barstore.Store
	MaxAge   time.Duration

	now func() time.Time
}

// NewCachingFetcher wraps upstream with a bar store.
func NewCachingFetcher(upstream Fetcher, store barstore.Store, maxAge time.Duration) *CachingFetcher {
	return &CachingFetcher{Upstream: upstream, Store: store, MaxAge: maxAge, now: time.Now}
}

func (f *CachingFetcher) Name() string { return f.Upstream.Name() + "+cache" }

func (f *CachingFetcher) FetchBars(ctx context.Context, symbol string, g model.Granularity) ([]model.OHLCV, error) {
	bars, err := f.Upstream.FetchBars(ctx, symbol, g)
	if err == nil && len(bars) > 0 {
		if serr := f.Store.SaveBars(ctx, symbol, g, bars); serr != nil {
			log.Printf("[WARN] cache %s %s bars: %v", symbol, g, serr)
		}
		return bars, nil
	}

	cached, cerr := f.Store.LoadBars(ctx, symbol, g)
	if cerr != nil {
		if err == nil {
			return bars, nil
		}
		return nil, fmt.Errorf("%w; cache fallback also failed: %w", err, cerr)
	}
	if len(cached) > 0 && f.stale(cached) {
		age := f.clock().Sub(cached[len(cached)-1].Time).Truncate(time.Minute)
		log.Printf("[WARN] %s %s: upstream unavailable (%v), cached bars are %v old, not served", symbol, g, err, age)
		if err == nil {
			return bars, nil
		}
		return nil, fmt.Errorf("%w; cached bars are %v old", err, age)
	}
	if len(cached) > 0 {
		log.Printf("[WARN] %s %s: upstream unavailable (%v), serving %d cached bars", symbol, g, err, len(cached))
		return cached, nil
	}
	if err != nil {
		return nil, err
	}
	return bars, nil
}

// stale reports whether the newest cached bar is older than MaxAge.
func (f *CachingFetcher) stale(cached []model.OHLCV) bool {
	if f.MaxAge <= 0 {
		return false
	}
	return f.clock().Sub(cached[len(cached)-1].Time) > f.MaxAge
}

func (f *CachingFetcher) clock() time.Time {
	if f.now != nil {
		return f.now()
	}
	return time.Now()
}
