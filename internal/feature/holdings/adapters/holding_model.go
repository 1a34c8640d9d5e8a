package adapters

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"portfolio_tracker/internal/feature/holdings/domain/entity"
)

// HoldingModel is the GORM model for the holdings table.
// PurchasePrice is stored as text to keep the exact decimal on every driver.
type HoldingModel struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"`
	SessionID     string    `gorm:"index;size:64;not null"`
	Symbol        string    `gorm:"size:20;not null"`
	Units         int64     `gorm:"not null"`
	PurchasePrice string    `gorm:"size:64;not null"`
	AddedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM.
func (HoldingModel) TableName() string {
	return "holdings"
}

// ToEntity converts the GORM model to a domain entity.
func (m *HoldingModel) ToEntity() (entity.Holding, error) {
	price, err := decimal.NewFromString(m.PurchasePrice)
	if err != nil {
		return entity.Holding{}, fmt.Errorf("holding %d: invalid purchase price %q: %w", m.ID, m.PurchasePrice, err)
	}
	return entity.Holding{
		Symbol:        m.Symbol,
		Units:         m.Units,
		PurchasePrice: price,
		AddedAt:       m.AddedAt,
	}, nil
}

// HoldingModelFromEntity converts a domain entity to a GORM model.
func HoldingModelFromEntity(sessionID string, h entity.Holding) *HoldingModel {
	return &HoldingModel{
		SessionID:     sessionID,
		Symbol:        h.Symbol,
		Units:         h.Units,
		PurchasePrice: h.PurchasePrice.String(),
		AddedAt:       h.AddedAt,
	}
}
