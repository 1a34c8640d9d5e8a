// Package handler はholdingsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"portfolio_tracker/internal/api"
	"portfolio_tracker/internal/feature/holdings/domain"
	"portfolio_tracker/internal/feature/holdings/domain/entity"
	"portfolio_tracker/internal/feature/holdings/transport/http/dto"
	jwtmw "portfolio_tracker/internal/platform/jwt"
)

// HoldingsUsecase はポートフォリオ操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type HoldingsUsecase interface {
	Add(ctx context.Context, sessionID, symbol string, units int64, purchasePrice decimal.Decimal) (entity.Holding, error)
	Clear(ctx context.Context, sessionID string) error
	List(ctx context.Context, sessionID string) ([]entity.Holding, error)
}

// HoldingsHandler はポートフォリオのHTTPリクエストを処理します。
type HoldingsHandler struct {
	uc HoldingsUsecase
}

// NewHoldingsHandler はHoldingsHandlerの新しいインスタンスを生成します。
func NewHoldingsHandler(uc HoldingsUsecase) *HoldingsHandler {
	return &HoldingsHandler{uc: uc}
}

// List は保有銘柄テーブルを返します。
//
// エンドポイント例:
// GET /portfolio/holdings
func (h *HoldingsHandler) List(c *gin.Context) {
	sid, ok := jwtmw.SessionID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "missing session"})
		return
	}
	hs, err := h.uc.List(c.Request.Context(), sid)
	if err != nil {
		slog.Error("list holdings failed", "error", err, "session_id", sid)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to load portfolio"})
		return
	}
	c.JSON(http.StatusOK, dto.HoldingsResponse{Holdings: ToResponses(hs)})
}

// Add は保有銘柄を追加します。
// - JSONの型が不正な場合は400を返却
// - 検証エラーはインラインメッセージ付きで400を返却
// - 成功時は保存した行とともに201を返却
func (h *HoldingsHandler) Add(c *gin.Context) {
	sid, ok := jwtmw.SessionID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "missing session"})
		return
	}
	var req dto.AddHoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("add holding bind failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}

	added, err := h.uc.Add(c.Request.Context(), sid, req.Symbol, req.Units, req.PurchasePrice)
	if err != nil {
		if domain.IsValidation(err) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		slog.Error("add holding failed", "error", err, "session_id", sid)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to add holding"})
		return
	}
	slog.Info("holding added", "session_id", sid, "symbol", added.Symbol, "units", added.Units)
	c.JSON(http.StatusCreated, ToResponse(added))
}

// Clear はポートフォリオを空にします。
func (h *HoldingsHandler) Clear(c *gin.Context) {
	sid, ok := jwtmw.SessionID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "missing session"})
		return
	}
	if err := h.uc.Clear(c.Request.Context(), sid); err != nil {
		slog.Error("clear holdings failed", "error", err, "session_id", sid)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to clear portfolio"})
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "portfolio cleared"})
}

// ToResponse converts a holding entity to its JSON shape.
func ToResponse(h entity.Holding) dto.HoldingResponse {
	return dto.HoldingResponse{
		Symbol:        h.Symbol,
		Units:         h.Units,
		PurchasePrice: h.PurchasePrice,
		AddedAt:       h.AddedAt,
	}
}

// ToResponses converts holdings, never returning nil.
func ToResponses(hs []entity.Holding) []dto.HoldingResponse {
	out := make([]dto.HoldingResponse, 0, len(hs))
	for _, h := range hs {
		out = append(out, ToResponse(h))
	}
	return out
}
