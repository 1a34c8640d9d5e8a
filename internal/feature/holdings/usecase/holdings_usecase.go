// Package usecase はポートフォリオ保有銘柄の管理ロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"portfolio_tracker/internal/feature/holdings/domain"
	"portfolio_tracker/internal/feature/holdings/domain/entity"
	"portfolio_tracker/internal/shared/symbol"
)

// HoldingRepository はセッション単位のポートフォリオを保存するリポジトリです。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type HoldingRepository interface {
	// Append は保有銘柄を末尾に追加します。
	Append(ctx context.Context, sessionID string, h entity.Holding) error
	// List は追加順に保有銘柄を返します。
	List(ctx context.Context, sessionID string) ([]entity.Holding, error)
	// Clear はセッションのポートフォリオを空にします。
	Clear(ctx context.Context, sessionID string) error
}

// HoldingsUsecase はポートフォリオへの追加・クリア・参照を提供します。
type HoldingsUsecase struct {
	repo HoldingRepository
	now  func() time.Time
}

// NewHoldingsUsecase はHoldingsUsecaseの新しいインスタンスを生成します。
func NewHoldingsUsecase(repo HoldingRepository) *HoldingsUsecase {
	return &HoldingsUsecase{repo: repo, now: time.Now}
}

// Add は入力を検証し、正規化した保有銘柄をポートフォリオ末尾に追加します。
// 検証エラー時は状態を変更しません。
func (u *HoldingsUsecase) Add(ctx context.Context, sessionID, sym string, units int64, purchasePrice decimal.Decimal) (entity.Holding, error) {
	if sessionID == "" {
		return entity.Holding{}, domain.ErrEmptySession
	}
	h, err := u.validate(sym, units, purchasePrice)
	if err != nil {
		return entity.Holding{}, err
	}
	if err := u.repo.Append(ctx, sessionID, h); err != nil {
		return entity.Holding{}, fmt.Errorf("append holding: %w", err)
	}
	return h, nil
}

// Clear はポートフォリオを空にします。
func (u *HoldingsUsecase) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return domain.ErrEmptySession
	}
	if err := u.repo.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("clear holdings: %w", err)
	}
	return nil
}

// List は追加順の保有銘柄を返します。空のポートフォリオは空スライスです。
func (u *HoldingsUsecase) List(ctx context.Context, sessionID string) ([]entity.Holding, error) {
	if sessionID == "" {
		return nil, domain.ErrEmptySession
	}
	hs, err := u.repo.List(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list holdings: %w", err)
	}
	if hs == nil {
		hs = []entity.Holding{}
	}
	return hs, nil
}

func (u *HoldingsUsecase) validate(sym string, units int64, purchasePrice decimal.Decimal) (entity.Holding, error) {
	s, err := symbol.Parse(sym)
	switch {
	case errors.Is(err, symbol.ErrEmpty):
		return entity.Holding{}, domain.ErrEmptySymbol
	case err != nil:
		return entity.Holding{}, domain.ErrInvalidSymbol
	}
	if units <= 0 {
		return entity.Holding{}, domain.ErrInvalidUnits
	}
	if !purchasePrice.IsPositive() {
		return entity.Holding{}, domain.ErrInvalidPurchasePrice
	}
	return entity.Holding{
		Symbol:        s,
		Units:         units,
		PurchasePrice: purchasePrice,
		AddedAt:       u.now().UTC(),
	}, nil
}
