package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"SignalSentinel/internal/model"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using Yahoo Finance public API.
type YahooFetcher struct {
	BaseURL     string
	Client      *http.Client
	CoarseRange string // e.g. "6mo" of daily bars
	FineRange   string // e.g. "30d" of hourly bars
}

// NewYahooFetcher creates a new Yahoo Finance fetcher with optional proxy support.
func NewYahooFetcher(proxyURL, coarseRange, fineRange string) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if coarseRange == "" {
		coarseRange = "6mo"
	}
	if fineRange == "" {
		fineRange = "30d"
	}
	return &YahooFetcher{
		BaseURL: yahooBaseURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		CoarseRange: coarseRange,
		FineRange:   fineRange,
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// FetchBars downloads daily bars for the coarse series and hourly bars for the fine one.
func (f *YahooFetcher) FetchBars(ctx context.Context, symbol string, g model.Granularity) ([]model.OHLCV, error) {
	switch g {
	case model.Coarse:
		return f.fetchChart(ctx, symbol, "1d", f.CoarseRange)
	case model.Fine:
		return f.fetchChart(ctx, symbol, "1h", f.FineRange)
	default:
		return nil, fmt.Errorf("yahoo: unknown granularity %q", g)
	}
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol, interval, rng string) ([]model.OHLCV, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		f.BaseURL, url.PathEscape(symbol), interval, rng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	return parseChart(body)
}

// parseChart walks the chart API payload. Null OHLC entries (halts,
// holidays) are dropped.
func parseChart(body []byte) ([]model.OHLCV, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("yahoo decode: invalid json")
	}
	chart := gjson.GetBytes(body, "chart")
	if desc := chart.Get("error.description"); desc.Exists() {
		return nil, fmt.Errorf("yahoo api error: %s", desc.String())
	}
	result := chart.Get("result.0")
	timestamps := result.Get("timestamp").Array()
	if len(timestamps) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned")
	}

	quote := result.Get("indicators.quote.0")
	opens := quote.Get("open").Array()
	highs := quote.Get("high").Array()
	lows := quote.Get("low").Array()
	closes := quote.Get("close").Array()
	volumes := quote.Get("volume").Array()

	bars := make([]model.OHLCV, 0, len(timestamps))
	for i, ts := range timestamps {
		if i >= len(closes) || closes[i].Type == gjson.Null {
			continue
		}
		o, h, l, c := at(opens, i), at(highs, i), at(lows, i), at(closes, i)
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(ts.Int(), 0).UTC(),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: at(volumes, i),
		})
	}
	return bars, nil
}

func at(values []gjson.Result, i int) float64 {
	if i >= len(values) {
		return 0
	}
	return values[i].Float()
}
