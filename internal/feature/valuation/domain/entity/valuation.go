// Package entity defines the valuation results served to the dashboard.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// FetchStatus tells an absent value apart from a failed fetch.
type FetchStatus string

const (
	StatusOK          FetchStatus = "ok"
	StatusMissing     FetchStatus = "missing"
	StatusNotFound    FetchStatus = "not_found"
	StatusRateLimited FetchStatus = "rate_limited"
	StatusError       FetchStatus = "error"
)

// EnrichedHolding is a holding joined with its current price and sector.
// Price, Value, Gain and GainPct are null when the holding is unpriced.
type EnrichedHolding struct {
	Symbol        string
	Units         int64
	PurchasePrice decimal.Decimal
	AddedAt       time.Time

	Industry       string
	OverviewStatus FetchStatus

	Priced       bool
	PriceStatus  FetchStatus
	PriceDate    time.Time
	CurrentPrice decimal.NullDecimal
	Value        decimal.NullDecimal

	Cost    decimal.Decimal
	Gain    decimal.NullDecimal
	GainPct decimal.NullDecimal
}

// AllocationSlice is one pie slice: value summed per symbol.
type AllocationSlice struct {
	Symbol     string
	Value      decimal.Decimal
	Proportion decimal.Decimal
}

// SectorExposure is one bar: value summed per industry.
type SectorExposure struct {
	Industry   string
	Value      decimal.Decimal
	Proportion decimal.Decimal
}

// Warning names a symbol that could not be priced.
type Warning struct {
	Symbol string
	Status FetchStatus
}

// Valuation is the full derived view of one portfolio.
type Valuation struct {
	Holdings   []EnrichedHolding
	Total      decimal.Decimal
	TotalCost  decimal.Decimal
	TotalGain  decimal.Decimal
	GainPct    decimal.NullDecimal
	Allocation []AllocationSlice
	Sectors    []SectorExposure
	Warnings   []Warning
	AsOf       time.Time
}

// CompanyHealth is the fundamentals panel for one held symbol.
type CompanyHealth struct {
	Symbol            string
	Name              string
	Industry          string
	Sector            string
	RevenueTTM        string
	ProfitMargin      string
	OperatingCashflow string
	Status            FetchStatus
	// Summary is empty when no analyzer is configured or it failed.
	Summary string
}
