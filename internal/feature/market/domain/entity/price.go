// Package entity defines the domain models for the market feature.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceBar is one daily bar of a price series.
type PriceBar struct {
	Date          time.Time       // Trading day (UTC midnight)
	Open          decimal.Decimal // Opening price
	High          decimal.Decimal // Highest price of the day
	Low           decimal.Decimal // Lowest price of the day
	Close         decimal.Decimal // Raw closing price
	AdjustedClose decimal.Decimal // Close adjusted for splits and dividends
	Volume        int64           // Trading volume
}

// PriceSeries holds daily bars for one symbol, most recent first.
type PriceSeries struct {
	Symbol string
	Bars   []PriceBar
}

// IsEmpty reports whether the series has no bars.
func (s PriceSeries) IsEmpty() bool {
	return len(s.Bars) == 0
}

// Latest returns the most recent bar.
func (s PriceSeries) Latest() (PriceBar, bool) {
	if s.IsEmpty() {
		return PriceBar{}, false
	}
	return s.Bars[0], true
}

// Head returns a copy of the series truncated to the n most recent bars.
func (s PriceSeries) Head(n int) PriceSeries {
	if n <= 0 || n >= len(s.Bars) {
		return s
	}
	return PriceSeries{Symbol: s.Symbol, Bars: s.Bars[:n]}
}
