// Package dto はvaluationフィーチャーのレスポンス型を定義します。
package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// HoldingValuationResponse は評価済み保有1行です。未評価の値はnullです。
type HoldingValuationResponse struct {
	Symbol         string              `json:"symbol"`
	Units          int64               `json:"units"`
	PurchasePrice  decimal.Decimal     `json:"purchase_price"`
	Industry       string              `json:"industry"`
	OverviewStatus string              `json:"overview_status"`
	Priced         bool                `json:"priced"`
	PriceStatus    string              `json:"price_status"`
	PriceDate      *string             `json:"price_date"`
	CurrentPrice   decimal.NullDecimal `json:"current_price"`
	Value          decimal.NullDecimal `json:"value"`
	Cost           decimal.Decimal     `json:"cost"`
	Gain           decimal.NullDecimal `json:"gain"`
	GainPct        decimal.NullDecimal `json:"gain_pct"`
}

// AllocationSliceResponse は円グラフの1要素です。
type AllocationSliceResponse struct {
	Symbol     string          `json:"symbol"`
	Value      decimal.Decimal `json:"value"`
	Proportion decimal.Decimal `json:"proportion"`
}

// SectorExposureResponse は棒グラフの1要素です。
type SectorExposureResponse struct {
	Industry   string          `json:"industry"`
	Value      decimal.Decimal `json:"value"`
	Proportion decimal.Decimal `json:"proportion"`
}

// WarningResponse は評価できなかった銘柄の通知です。
type WarningResponse struct {
	Symbol  string `json:"symbol"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ValuationResponse はポートフォリオ評価のレスポンスです。
type ValuationResponse struct {
	Currency     string                     `json:"currency"`
	Total        decimal.Decimal            `json:"total"`
	TotalDisplay string                     `json:"total_display"`
	TotalCost    decimal.Decimal            `json:"total_cost"`
	TotalGain    decimal.Decimal            `json:"total_gain"`
	GainDisplay  string                     `json:"total_gain_display"`
	GainPct      decimal.NullDecimal        `json:"total_gain_pct"`
	Holdings     []HoldingValuationResponse `json:"holdings"`
	Allocation   []AllocationSliceResponse  `json:"allocation"`
	Sectors      []SectorExposureResponse   `json:"sectors"`
	Warnings     []WarningResponse          `json:"warnings"`
	AsOf         time.Time                  `json:"as_of"`
}

// CompanyHealthResponse は企業概要パネルのレスポンスです。
type CompanyHealthResponse struct {
	Symbol            string `json:"symbol"`
	Name              string `json:"name"`
	Industry          string `json:"industry"`
	Sector            string `json:"sector"`
	RevenueTTM        string `json:"revenue_ttm"`
	ProfitMargin      string `json:"profit_margin"`
	OperatingCashflow string `json:"operating_cashflow"`
	Status            string `json:"status"`
	Summary           string `json:"summary,omitempty"`
}
