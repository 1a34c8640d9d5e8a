// Package handler はvaluationフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio_tracker/internal/api"
	"portfolio_tracker/internal/feature/valuation/domain"
	"portfolio_tracker/internal/feature/valuation/domain/entity"
	"portfolio_tracker/internal/feature/valuation/transport/http/dto"
	jwtmw "portfolio_tracker/internal/platform/jwt"
	"portfolio_tracker/internal/shared/moneyfmt"
)

// ValuationUsecase はポートフォリオ評価のユースケースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type ValuationUsecase interface {
	Value(ctx context.Context, sessionID string) (entity.Valuation, error)
	Refresh(ctx context.Context, sessionID string) (entity.Valuation, error)
	CompanyHealth(ctx context.Context, sessionID, symbol string) (entity.CompanyHealth, error)
}

// ValuationHandler は評価・企業概要のHTTPリクエストを処理します。
type ValuationHandler struct {
	uc       ValuationUsecase
	currency string
}

// NewValuationHandler はValuationHandlerの新しいインスタンスを生成します。
// currency は合計金額の表示通貨です（空ならUSD）。
func NewValuationHandler(uc ValuationUsecase, currency string) *ValuationHandler {
	if currency == "" {
		currency = moneyfmt.DefaultCurrency
	}
	return &ValuationHandler{uc: uc, currency: currency}
}

// Value は評価済みテーブル・合計・配分・セクター構成を返します。
//
// エンドポイント例:
// GET /portfolio/valuation
func (h *ValuationHandler) Value(c *gin.Context) {
	h.respond(c, h.uc.Value)
}

// Refresh はキャッシュを破棄してから評価を返します。
//
// エンドポイント例:
// POST /portfolio/refresh
func (h *ValuationHandler) Refresh(c *gin.Context) {
	h.respond(c, h.uc.Refresh)
}

func (h *ValuationHandler) respond(c *gin.Context, run func(ctx context.Context, sessionID string) (entity.Valuation, error)) {
	sid, ok := jwtmw.SessionID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "missing session"})
		return
	}
	v, err := run(c.Request.Context(), sid)
	if err != nil {
		slog.Error("valuation failed", "error", err, "session_id", sid)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to value portfolio"})
		return
	}
	c.JSON(http.StatusOK, h.toResponse(v))
}

// CompanyHealth は保有銘柄の企業概要パネルを返します。
//
// エンドポイント例:
// GET /portfolio/health/AAPL
func (h *ValuationHandler) CompanyHealth(c *gin.Context) {
	sid, ok := jwtmw.SessionID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "missing session"})
		return
	}
	health, err := h.uc.CompanyHealth(c.Request.Context(), sid, c.Param("symbol"))
	switch {
	case errors.Is(err, domain.ErrInvalidSymbol):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	case errors.Is(err, domain.ErrHoldingNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
		return
	case err != nil:
		slog.Error("company health failed", "error", err, "session_id", sid)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to load company health"})
		return
	}
	c.JSON(http.StatusOK, dto.CompanyHealthResponse{
		Symbol:            health.Symbol,
		Name:              health.Name,
		Industry:          health.Industry,
		Sector:            health.Sector,
		RevenueTTM:        health.RevenueTTM,
		ProfitMargin:      health.ProfitMargin,
		OperatingCashflow: health.OperatingCashflow,
		Status:            string(health.Status),
		Summary:           health.Summary,
	})
}

func (h *ValuationHandler) toResponse(v entity.Valuation) dto.ValuationResponse {
	out := dto.ValuationResponse{
		Currency:     h.currency,
		Total:        v.Total,
		TotalDisplay: moneyfmt.Format(v.Total, h.currency),
		TotalCost:    v.TotalCost,
		TotalGain:    v.TotalGain,
		GainDisplay:  moneyfmt.Format(v.TotalGain, h.currency),
		GainPct:      v.GainPct,
		Holdings:     make([]dto.HoldingValuationResponse, 0, len(v.Holdings)),
		Allocation:   make([]dto.AllocationSliceResponse, 0, len(v.Allocation)),
		Sectors:      make([]dto.SectorExposureResponse, 0, len(v.Sectors)),
		Warnings:     make([]dto.WarningResponse, 0, len(v.Warnings)),
		AsOf:         v.AsOf,
	}
	for _, eh := range v.Holdings {
		var date *string
		if eh.Priced {
			d := eh.PriceDate.UTC().Format("2006-01-02")
			date = &d
		}
		out.Holdings = append(out.Holdings, dto.HoldingValuationResponse{
			Symbol:         eh.Symbol,
			Units:          eh.Units,
			PurchasePrice:  eh.PurchasePrice,
			Industry:       eh.Industry,
			OverviewStatus: string(eh.OverviewStatus),
			Priced:         eh.Priced,
			PriceStatus:    string(eh.PriceStatus),
			PriceDate:      date,
			CurrentPrice:   eh.CurrentPrice,
			Value:          eh.Value,
			Cost:           eh.Cost,
			Gain:           eh.Gain,
			GainPct:        eh.GainPct,
		})
	}
	for _, a := range v.Allocation {
		out.Allocation = append(out.Allocation, dto.AllocationSliceResponse{Symbol: a.Symbol, Value: a.Value, Proportion: a.Proportion})
	}
	for _, s := range v.Sectors {
		out.Sectors = append(out.Sectors, dto.SectorExposureResponse{Industry: s.Industry, Value: s.Value, Proportion: s.Proportion})
	}
	for _, w := range v.Warnings {
		out.Warnings = append(out.Warnings, dto.WarningResponse{
			Symbol:  w.Symbol,
			Status:  string(w.Status),
			Message: warningMessage(w),
		})
	}
	return out
}

func warningMessage(w entity.Warning) string {
	switch w.Status {
	case entity.StatusMissing:
		return fmt.Sprintf("no price data returned for %s", w.Symbol)
	case entity.StatusNotFound:
		return fmt.Sprintf("%s was not recognized by the market data provider", w.Symbol)
	case entity.StatusRateLimited:
		return fmt.Sprintf("market data rate limit reached while pricing %s", w.Symbol)
	default:
		return fmt.Sprintf("failed to fetch price for %s", w.Symbol)
	}
}
