package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalSentinel/internal/barstore"
	"SignalSentinel/internal/model"
)

const chartPayload = `{"chart":{"result":[{"timestamp":[1700000000,1700086400,1700172800],
"indicators":{"quote":[{"open":[10,null,12],"high":[11,null,13],"low":[9,null,11],
"close":[10.5,null,12.5],"volume":[100,null,300]}]}}],"error":null}}`

func TestParseChart(t *testing.T) {
	bars, err := parseChart([]byte(chartPayload))
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), bars[0].Time)
	assert.Equal(t, 12.5, bars[1].Close)
	assert.Equal(t, 300.0, bars[1].Volume)
}

func TestParseChart_Errors(t *testing.T) {
	_, err := parseChart([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
	assert.ErrorContains(t, err, "No data found")

	_, err = parseChart([]byte(`{"chart":{"result":[{"timestamp":[]}],"error":null}}`))
	assert.Error(t, err)

	_, err = parseChart([]byte(`not json`))
	assert.Error(t, err)
}

func TestYahooFetcher_FetchBars(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Path + "?" + r.URL.RawQuery
		w.Write([]byte(chartPayload))
	}))
	defer srv.Close()

	f := NewYahooFetcher("", "", "")
	f.BaseURL = srv.URL

	bars, err := f.FetchBars(context.Background(), "RY.TO", model.Fine)
	require.NoError(t, err)
	assert.Len(t, bars, 2)
	assert.True(t, strings.HasPrefix(gotQuery, "/v8/finance/chart/RY.TO?"))
	assert.Contains(t, gotQuery, "interval=1h")
	assert.Contains(t, gotQuery, "range=30d")

	_, err = f.FetchBars(context.Background(), "RY.TO", model.Coarse)
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "interval=1d")
	assert.Contains(t, gotQuery, "range=6mo")
}

func TestYahooFetcher_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := NewYahooFetcher("", "", "")
	f.BaseURL = srv.URL
	_, err := f.FetchBars(context.Background(), "RY.TO", model.Coarse)
	assert.ErrorContains(t, err, "status 429")
}

func TestNormalize(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	in := []model.OHLCV{
		{Time: t0.Add(2 * time.Hour), Close: 3},
		{Time: t0, Close: 1},
		{Time: t0.Add(time.Hour), Close: 2},
		{Time: t0.Add(time.Hour), Close: 2.5},
	}
	out := Normalize(in)
	require.Len(t, out, 3)
	assert.Equal(t, []float64{1, 2.5, 3}, out.Closes())
	assert.Equal(t, 3.0, in[0].Close, "input must not be reordered")

	assert.Nil(t, Normalize(nil))
}

func TestCollector_CollectUniverse(t *testing.T) {
	f := &MockFetcher{
		Price:  100,
		Errors: map[string]error{"BAD.TO": errors.New("boom")},
	}
	c := NewCollector(f, []string{"A.TO", "BAD.TO", "C.TO"}, 2)

	inputs := c.CollectUniverse(context.Background())
	require.Len(t, inputs, 3)
	assert.Equal(t, "A.TO", inputs[0].Symbol)
	assert.Len(t, inputs[0].Coarse, 120)
	assert.NoError(t, inputs[0].Coarse.Validate())
	assert.NoError(t, inputs[0].Fine.Validate())
	assert.Equal(t, "BAD.TO", inputs[1].Symbol)
	assert.Empty(t, inputs[1].Coarse)
	assert.Empty(t, inputs[1].Fine)
	assert.Equal(t, "C.TO", inputs[2].Symbol)
}

type flakyFetcher struct {
	fail bool
	bars []model.OHLCV
}

func (f *flakyFetcher) Name() string { return "flaky" }

func (f *flakyFetcher) FetchBars(_ context.Context, _ string, _ model.Granularity) ([]model.OHLCV, error) {
	if f.fail {
		return nil, errors.New("upstream down")
	}
	return f.bars, nil
}

type memStore struct {
	barstore.NoopStore
	data map[string][]model.OHLCV
}

func (m *memStore) SaveBars(_ context.Context, symbol string, g model.Granularity, bars []model.OHLCV) error {
	m.data[symbol+string(g)] = bars
	return nil
}

func (m *memStore) LoadBars(_ context.Context, symbol string, g model.Granularity) ([]model.OHLCV, error) {
	return m.data[symbol+string(g)], nil
}

func TestCachingFetcher_FallsBackToStore(t *testing.T) {
	ctx := context.Background()
	bars := generateMockBars(10, 5, time.Hour)
	up := &flakyFetcher{bars: bars}
	store := &memStore{data: map[string][]model.OHLCV{}}
	f := NewCachingFetcher(up, store, 0)
	assert.Equal(t, "flaky+cache", f.Name())

	got, err := f.FetchBars(ctx, "X", model.Fine)
	require.NoError(t, err)
	assert.Equal(t, bars, got)

	up.fail = true
	got, err = f.FetchBars(ctx, "X", model.Fine)
	require.NoError(t, err)
	assert.Equal(t, bars, got)

	_, err = f.FetchBars(ctx, "Y", model.Fine)
	assert.ErrorContains(t, err, "upstream down")
}

func TestCachingFetcher_SkipsStaleCache(t *testing.T) {
	ctx := context.Background()
	bars := generateMockBars(10, 5, time.Hour)
	up := &flakyFetcher{bars: bars}
	store := &memStore{data: map[string][]model.OHLCV{}}
	f := NewCachingFetcher(up, store, 24*time.Hour)

	_, err := f.FetchBars(ctx, "X", model.Coarse)
	require.NoError(t, err)
	up.fail = true

	newest := bars[len(bars)-1].Time
	f.now = func() time.Time { return newest.Add(23 * time.Hour) }
	got, err := f.FetchBars(ctx, "X", model.Coarse)
	require.NoError(t, err)
	assert.Equal(t, bars, got)

	f.now = func() time.Time { return newest.Add(25 * time.Hour) }
	got, err = f.FetchBars(ctx, "X", model.Coarse)
	assert.ErrorContains(t, err, "upstream down")
	assert.ErrorContains(t, err, "old")
	assert.Empty(t, got)
}
