// Package dto defines data transfer objects for the market HTTP API.
package dto

import "github.com/shopspring/decimal"

// PriceBarResponse は日足1本分のレスポンスDTOです。
type PriceBarResponse struct {
	Date          string          `json:"date"`           // 日付
	Open          decimal.Decimal `json:"open"`           // 始値
	High          decimal.Decimal `json:"high"`           // 高値
	Low           decimal.Decimal `json:"low"`            // 安値
	Close         decimal.Decimal `json:"close"`          // 終値
	AdjustedClose decimal.Decimal `json:"adjusted_close"` // 調整後終値
	Volume        int64           `json:"volume"`         // 出来高
}

// PriceSeriesResponse は日足系列のレスポンスDTOです。
type PriceSeriesResponse struct {
	Symbol string             `json:"symbol"`
	Bars   []PriceBarResponse `json:"bars"`
}

// OverviewResponse は企業概要のレスポンスDTOです。
type OverviewResponse struct {
	Symbol string            `json:"symbol"`
	Sector string            `json:"sector"`
	Fields map[string]string `json:"fields"`
}
