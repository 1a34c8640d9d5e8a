// Package usecase は市場データ参照のビジネスロジックを実装します。
package usecase

import (
	"context"

	"portfolio_tracker/internal/feature/market/domain/entity"
	"portfolio_tracker/internal/shared/symbol"
)

const (
	// DefaultPriceLimit はデフォルトの返却件数です（compact出力のおよそ全件）。
	DefaultPriceLimit = 100
	// MaxPriceLimit は返却件数の上限です。
	MaxPriceLimit = 100
)

// MarketRepository は株価・企業概要を取得するリポジトリのインターフェイスです。
// 外部 API の実装とキャッシュ層を抽象化します。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type MarketRepository interface {
	// FetchPriceSeries は直近の日足を新しい順で返します。
	FetchPriceSeries(ctx context.Context, symbol string) (entity.PriceSeries, error)
	// FetchOverview は企業概要のフィールドを返します。
	FetchOverview(ctx context.Context, symbol string) (entity.CompanyOverview, error)
}

// MarketUsecase は市場データ参照のユースケースを定義します。
type MarketUsecase struct {
	market MarketRepository
}

// NewMarketUsecase はMarketUsecaseの新しいインスタンスを生成します。
func NewMarketUsecase(market MarketRepository) *MarketUsecase {
	return &MarketUsecase{market: market}
}

// GetPrices は指定された銘柄の日足を最大limit件返します。
func (u *MarketUsecase) GetPrices(ctx context.Context, sym string, limit int) (entity.PriceSeries, error) {
	s, err := symbol.Parse(sym)
	if err != nil {
		return entity.PriceSeries{}, err
	}
	if limit <= 0 || limit > MaxPriceLimit {
		limit = DefaultPriceLimit
	}

	series, err := u.market.FetchPriceSeries(ctx, s)
	if err != nil {
		return entity.PriceSeries{}, err
	}
	return series.Head(limit), nil
}

// GetOverview は指定された銘柄の企業概要を返します。
func (u *MarketUsecase) GetOverview(ctx context.Context, sym string) (entity.CompanyOverview, error) {
	s, err := symbol.Parse(sym)
	if err != nil {
		return entity.CompanyOverview{}, err
	}
	return u.market.FetchOverview(ctx, s)
}
