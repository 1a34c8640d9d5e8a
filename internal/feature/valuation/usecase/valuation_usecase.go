// Package usecase はポートフォリオ評価（価格・セクターの結合と集計）を実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	holdingsentity "portfolio_tracker/internal/feature/holdings/domain/entity"
	marketdomain "portfolio_tracker/internal/feature/market/domain"
	marketentity "portfolio_tracker/internal/feature/market/domain/entity"
	"portfolio_tracker/internal/feature/valuation/domain"
	"portfolio_tracker/internal/feature/valuation/domain/entity"
	"portfolio_tracker/internal/shared/symbol"
)

const (
	// UnknownName は企業名が取得できない場合の表示名です。
	UnknownName = "Unknown"
	// FetchConcurrency は銘柄ごとの取得を並列実行する最大数です。
	FetchConcurrency = 4
	// HealthPromptTemplate は企業の財務状況サマリーのプロンプトテンプレートです。
	HealthPromptTemplate = "In three short sentences for a retail investor, summarize the financial health of %s (%s, %s). " +
		"Revenue TTM: %s. Profit margin: %s. Operating cash flow: %s."
)

// HoldingsReader はセッションのポートフォリオを読み出します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type HoldingsReader interface {
	List(ctx context.Context, sessionID string) ([]holdingsentity.Holding, error)
}

// MarketData は価格系列と企業概要を取得します。
type MarketData interface {
	FetchPriceSeries(ctx context.Context, symbol string) (marketentity.PriceSeries, error)
	FetchOverview(ctx context.Context, symbol string) (marketentity.CompanyOverview, error)
}

// CacheInvalidator は銘柄のキャッシュを破棄します。
type CacheInvalidator interface {
	Invalidate(ctx context.Context, symbols ...string) error
}

// CompanyAnalyzer は企業分析を生成するインターフェースです。
type CompanyAnalyzer interface {
	// Analyze はプロンプトから分析サマリーを生成します。
	Analyze(ctx context.Context, prompt string) (string, error)
}

// ValuationUsecase はポートフォリオの評価額・配分・セクター構成を計算します。
type ValuationUsecase struct {
	holdings    HoldingsReader
	market      MarketData
	invalidator CacheInvalidator
	analyzer    CompanyAnalyzer
	now         func() time.Time
}

// NewValuationUsecase はValuationUsecaseの新しいインスタンスを生成します。
// invalidator と analyzer は nil でも構いません。
func NewValuationUsecase(holdings HoldingsReader, market MarketData, invalidator CacheInvalidator, analyzer CompanyAnalyzer) *ValuationUsecase {
	return &ValuationUsecase{
		holdings:    holdings,
		market:      market,
		invalidator: invalidator,
		analyzer:    analyzer,
		now:         time.Now,
	}
}

// symbolData は1銘柄分の取得結果です。
type symbolData struct {
	series      marketentity.PriceSeries
	seriesErr   error
	overview    marketentity.CompanyOverview
	overviewErr error
}

// Value はセッションのポートフォリオを評価します。
// 価格が取れない保有はPriced=falseとなり、合計とチャートから除外されます。
func (u *ValuationUsecase) Value(ctx context.Context, sessionID string) (entity.Valuation, error) {
	hs, err := u.holdings.List(ctx, sessionID)
	if err != nil {
		return entity.Valuation{}, fmt.Errorf("load holdings: %w", err)
	}

	symbols := distinctSymbols(hs)
	data, err := u.fetchAll(ctx, symbols)
	if err != nil {
		return entity.Valuation{}, err
	}
	return u.build(hs, symbols, data), nil
}

// Refresh は保有銘柄のキャッシュを破棄してから再評価します。
func (u *ValuationUsecase) Refresh(ctx context.Context, sessionID string) (entity.Valuation, error) {
	hs, err := u.holdings.List(ctx, sessionID)
	if err != nil {
		return entity.Valuation{}, fmt.Errorf("load holdings: %w", err)
	}
	if u.invalidator != nil {
		if symbols := distinctSymbols(hs); len(symbols) > 0 {
			if err := u.invalidator.Invalidate(ctx, symbols...); err != nil {
				// 失敗してもキャッシュ済みデータで評価を続ける
				slog.Warn("market cache invalidation failed", "error", err, "symbols", symbols)
			}
		}
	}
	return u.Value(ctx, sessionID)
}

// CompanyHealth はポートフォリオ内の銘柄の企業概要パネルを返します。
func (u *ValuationUsecase) CompanyHealth(ctx context.Context, sessionID, sym string) (entity.CompanyHealth, error) {
	s, err := symbol.Parse(sym)
	if err != nil {
		return entity.CompanyHealth{}, fmt.Errorf("%w: %v", domain.ErrInvalidSymbol, err)
	}

	hs, err := u.holdings.List(ctx, sessionID)
	if err != nil {
		return entity.CompanyHealth{}, fmt.Errorf("load holdings: %w", err)
	}
	held := false
	for _, h := range hs {
		if h.Symbol == s {
			held = true
			break
		}
	}
	if !held {
		return entity.CompanyHealth{}, domain.ErrHoldingNotFound
	}

	o, err := u.market.FetchOverview(ctx, s)
	status := statusOf(err, o.IsEmpty())
	if status != entity.StatusOK {
		slog.Warn("company overview degraded", "symbol", s, "status", status, "error", err)
	}

	health := entity.CompanyHealth{
		Symbol:            s,
		Name:              o.FieldOr(marketentity.FieldName, UnknownName),
		Industry:          o.FieldOr(marketentity.FieldIndustry, marketentity.NotAvailable),
		Sector:            o.Sector(),
		RevenueTTM:        o.FieldOr(marketentity.FieldRevenueTTM, marketentity.NotAvailable),
		ProfitMargin:      o.FieldOr(marketentity.FieldProfitMargin, marketentity.NotAvailable),
		OperatingCashflow: o.FieldOr(marketentity.FieldOperatingCashflow, marketentity.NotAvailable),
		Status:            status,
	}

	if u.analyzer != nil && status == entity.StatusOK {
		prompt := fmt.Sprintf(HealthPromptTemplate,
			health.Name, s, health.Industry, health.RevenueTTM, health.ProfitMargin, health.OperatingCashflow)
		summary, err := u.analyzer.Analyze(ctx, prompt)
		if err != nil {
			slog.Warn("company analyzer failed", "symbol", s, "error", err)
		} else {
			health.Summary = strings.TrimSpace(summary)
		}
	}
	return health, nil
}

// fetchAll は銘柄ごとに価格系列と企業概要を並列取得します。
// 個別の取得失敗は結果に記録し、全体は失敗させません。
func (u *ValuationUsecase) fetchAll(ctx context.Context, symbols []string) ([]symbolData, error) {
	out := make([]symbolData, len(symbols))
	if len(symbols) == 0 {
		return out, nil
	}

	var g errgroup.Group
	g.SetLimit(FetchConcurrency)
	for i, s := range symbols {
		g.Go(func() error {
			d := &out[i]
			d.series, d.seriesErr = u.market.FetchPriceSeries(ctx, s)
			d.overview, d.overviewErr = u.market.FetchOverview(ctx, s)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// build は保有と取得結果を結合し、合計・配分・セクター構成を計算します。
func (u *ValuationUsecase) build(hs []holdingsentity.Holding, symbols []string, data []symbolData) entity.Valuation {
	bySymbol := make(map[string]symbolData, len(symbols))
	for i, s := range symbols {
		bySymbol[s] = data[i]
	}

	v := entity.Valuation{
		Holdings:   make([]entity.EnrichedHolding, 0, len(hs)),
		Total:      decimal.Zero,
		TotalCost:  decimal.Zero,
		TotalGain:  decimal.Zero,
		Allocation: []entity.AllocationSlice{},
		Sectors:    []entity.SectorExposure{},
		Warnings:   []entity.Warning{},
		AsOf:       u.now().UTC(),
	}

	for _, s := range symbols {
		d := bySymbol[s]
		if st := statusOf(d.seriesErr, d.series.IsEmpty()); st != entity.StatusOK {
			slog.Warn("price unavailable", "symbol", s, "status", st, "error", d.seriesErr)
			v.Warnings = append(v.Warnings, entity.Warning{Symbol: s, Status: st})
		}
		if st := statusOf(d.overviewErr, d.overview.IsEmpty()); st != entity.StatusOK {
			slog.Warn("overview unavailable, sector defaults to Unknown", "symbol", s, "status", st, "error", d.overviewErr)
		}
	}

	allocIdx := map[string]int{}
	sectorIdx := map[string]int{}
	for _, h := range hs {
		d := bySymbol[h.Symbol]
		eh := enrich(h, d)
		v.Holdings = append(v.Holdings, eh)
		if !eh.Priced {
			continue
		}

		value := eh.Value.Decimal
		v.Total = v.Total.Add(value)
		v.TotalCost = v.TotalCost.Add(eh.Cost)

		if i, ok := allocIdx[eh.Symbol]; ok {
			v.Allocation[i].Value = v.Allocation[i].Value.Add(value)
		} else {
			allocIdx[eh.Symbol] = len(v.Allocation)
			v.Allocation = append(v.Allocation, entity.AllocationSlice{Symbol: eh.Symbol, Value: value})
		}
		if i, ok := sectorIdx[eh.Industry]; ok {
			v.Sectors[i].Value = v.Sectors[i].Value.Add(value)
		} else {
			sectorIdx[eh.Industry] = len(v.Sectors)
			v.Sectors = append(v.Sectors, entity.SectorExposure{Industry: eh.Industry, Value: value})
		}
	}

	v.TotalGain = v.Total.Sub(v.TotalCost)
	if v.TotalCost.IsPositive() {
		v.GainPct = decimal.NewNullDecimal(v.TotalGain.Div(v.TotalCost))
	}
	for i := range v.Allocation {
		v.Allocation[i].Proportion = proportion(v.Allocation[i].Value, v.Total)
	}
	for i := range v.Sectors {
		v.Sectors[i].Proportion = proportion(v.Sectors[i].Value, v.Total)
	}
	return v
}

// enrich は1保有に現在値・評価額・損益・セクターを付与します。
func enrich(h holdingsentity.Holding, d symbolData) entity.EnrichedHolding {
	eh := entity.EnrichedHolding{
		Symbol:         h.Symbol,
		Units:          h.Units,
		PurchasePrice:  h.PurchasePrice,
		AddedAt:        h.AddedAt,
		Industry:       d.overview.Sector(),
		OverviewStatus: statusOf(d.overviewErr, d.overview.IsEmpty()),
		PriceStatus:    statusOf(d.seriesErr, d.series.IsEmpty()),
		Cost:           h.Cost(),
	}
	if eh.PriceStatus != entity.StatusOK {
		return eh
	}
	bar, ok := d.series.Latest()
	if !ok {
		eh.PriceStatus = entity.StatusMissing
		return eh
	}

	price := bar.AdjustedClose
	value := price.Mul(decimal.NewFromInt(h.Units))
	gain := value.Sub(eh.Cost)

	eh.Priced = true
	eh.PriceDate = bar.Date
	eh.CurrentPrice = decimal.NewNullDecimal(price)
	eh.Value = decimal.NewNullDecimal(value)
	eh.Gain = decimal.NewNullDecimal(gain)
	if eh.Cost.IsPositive() {
		eh.GainPct = decimal.NewNullDecimal(gain.Div(eh.Cost))
	}
	return eh
}

// statusOf は取得結果を状態に分類します。
func statusOf(err error, empty bool) entity.FetchStatus {
	switch {
	case err == nil && !empty:
		return entity.StatusOK
	case err == nil:
		return entity.StatusMissing
	case errors.Is(err, marketdomain.ErrSymbolNotFound):
		return entity.StatusNotFound
	case errors.Is(err, marketdomain.ErrRateLimited):
		return entity.StatusRateLimited
	default:
		return entity.StatusError
	}
}

// distinctSymbols は初出順に重複のない銘柄一覧を返します。
func distinctSymbols(hs []holdingsentity.Holding) []string {
	seen := make(map[string]struct{}, len(hs))
	out := make([]string, 0, len(hs))
	for _, h := range hs {
		if _, ok := seen[h.Symbol]; ok {
			continue
		}
		seen[h.Symbol] = struct{}{}
		out = append(out, h.Symbol)
	}
	return out
}

// proportion は part / total を返します。total が0なら0です。
func proportion(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Div(total)
}
