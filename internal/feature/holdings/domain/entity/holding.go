// Package entity はholdingsフィーチャーのドメインエンティティを定義します。
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Holding はポートフォリオの1行（銘柄・株数・取得単価）を表します。
// Symbol は正規化済み（大文字・前後空白なし）です。
type Holding struct {
	Symbol        string          `json:"symbol"`
	Units         int64           `json:"units"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	AddedAt       time.Time       `json:"added_at"`
}

// Cost は取得総額（Units × PurchasePrice）を返します。
func (h Holding) Cost() decimal.Decimal {
	return h.PurchasePrice.Mul(decimal.NewFromInt(h.Units))
}
