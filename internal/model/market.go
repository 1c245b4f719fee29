package model

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Granularity selects which of the two series of a symbol a bar set belongs to.
type Granularity string

const (
	Coarse Granularity = "coarse" // daily bars
	Fine   Granularity = "fine"   // intraday bars
)

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// ErrEmptySeries is returned by Validate for a series without bars.
var ErrEmptySeries = errors.New("empty series")

// Series is an ordered run of bars, strictly increasing in time.
type Series []OHLCV

// Validate checks that the series is non-empty, finite and strictly ordered.
func (s Series) Validate() error {
	if len(s) == 0 {
		return ErrEmptySeries
	}
	for i, b := range s {
		if !finite(b.Open, b.High, b.Low, b.Close, b.Volume) {
			return fmt.Errorf("bar %d: non-finite value", i)
		}
		if b.Close <= 0 {
			return fmt.Errorf("bar %d: close must be positive, got %v", i, b.Close)
		}
		if b.High < b.Low {
			return fmt.Errorf("bar %d: high %v below low %v", i, b.High, b.Low)
		}
		if b.Volume < 0 {
			return fmt.Errorf("bar %d: negative volume", i)
		}
		if i > 0 && !b.Time.After(s[i-1].Time) {
			return fmt.Errorf("bar %d: time %s not after %s", i, b.Time.Format(time.RFC3339), s[i-1].Time.Format(time.RFC3339))
		}
	}
	return nil
}

// Last returns the most recent bar. The series must not be empty.
func (s Series) Last() OHLCV {
	return s[len(s)-1]
}

// Closes extracts the close prices.
func (s Series) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, b := range s {
		closes[i] = b.Close
	}
	return closes
}

// Volumes extracts the traded volumes.
func (s Series) Volumes() []float64 {
	vols := make([]float64, len(s))
	for i, b := range s {
		vols[i] = b.Volume
	}
	return vols
}

// SymbolInput is everything the engine needs to evaluate one symbol.
type SymbolInput struct {
	Symbol string
	Coarse Series
	Fine   Series
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
