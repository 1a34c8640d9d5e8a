// Package handler はmarketフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"portfolio_tracker/internal/api"
	"portfolio_tracker/internal/feature/market/domain"
	"portfolio_tracker/internal/feature/market/domain/entity"
	"portfolio_tracker/internal/feature/market/transport/http/dto"
	"portfolio_tracker/internal/shared/symbol"
)

// MarketUsecase は市場データ参照のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type MarketUsecase interface {
	GetPrices(ctx context.Context, symbol string, limit int) (entity.PriceSeries, error)
	GetOverview(ctx context.Context, symbol string) (entity.CompanyOverview, error)
}

// MarketHandler は市場データのHTTPリクエストを処理します。
type MarketHandler struct {
	uc MarketUsecase
}

// NewMarketHandler は指定されたusecaseでMarketHandlerの新しいインスタンスを生成します。
func NewMarketHandler(uc MarketUsecase) *MarketHandler {
	return &MarketHandler{uc: uc}
}

// GetPrices は銘柄の日足をJSONで返します。
//
// エンドポイント例:
// GET /market/:symbol/prices?limit=30
func (h *MarketHandler) GetPrices(c *gin.Context) {
	// 不正な値は0となり、usecase側でデフォルト値に変換される
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	series, err := h.uc.GetPrices(c.Request.Context(), c.Param("symbol"), limit)
	if err != nil {
		writeError(c, err)
		return
	}

	out := dto.PriceSeriesResponse{
		Symbol: series.Symbol,
		Bars:   make([]dto.PriceBarResponse, 0, len(series.Bars)),
	}
	for _, b := range series.Bars {
		out.Bars = append(out.Bars, dto.PriceBarResponse{
			Date:          b.Date.UTC().Format("2006-01-02"),
			Open:          b.Open,
			High:          b.High,
			Low:           b.Low,
			Close:         b.Close,
			AdjustedClose: b.AdjustedClose,
			Volume:        b.Volume,
		})
	}
	c.JSON(http.StatusOK, out)
}

// GetOverview は銘柄の企業概要をJSONで返します。
//
// エンドポイント例:
// GET /market/:symbol/overview
func (h *MarketHandler) GetOverview(c *gin.Context) {
	o, err := h.uc.GetOverview(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		writeError(c, err)
		return
	}
	fields := o.Fields
	if fields == nil {
		fields = map[string]string{}
	}
	c.JSON(http.StatusOK, dto.OverviewResponse{Symbol: o.Symbol, Sector: o.Sector(), Fields: fields})
}

// writeError はエラー種別をHTTPステータスに変換します。
func writeError(c *gin.Context, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, symbol.ErrEmpty), errors.Is(err, symbol.ErrInvalid):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrSymbolNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrRateLimited):
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, api.ErrorResponse{Error: err.Error()})
}
