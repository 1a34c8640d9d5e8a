// Package dto はholdingsフィーチャーのリクエスト・レスポンス型を定義します。
package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddHoldingRequest は保有銘柄追加リクエストです。
// 値の検証はusecaseで行い、ここではJSONの型のみを確認します。
type AddHoldingRequest struct {
	Symbol        string          `json:"symbol"`
	Units         int64           `json:"units"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
}

// HoldingResponse は保有銘柄1行のレスポンスです。
type HoldingResponse struct {
	Symbol        string          `json:"symbol"`
	Units         int64           `json:"units"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	AddedAt       time.Time       `json:"added_at"`
}

// HoldingsResponse は保有銘柄テーブルのレスポンスです。
type HoldingsResponse struct {
	Holdings []HoldingResponse `json:"holdings"`
}
