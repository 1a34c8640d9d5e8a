// Package handler はsessionフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio_tracker/internal/api"
	"portfolio_tracker/internal/feature/session/domain/entity"
	"portfolio_tracker/internal/feature/session/transport/http/dto"
)

// SessionUsecase はセッション開始のユースケースを定義します。
type SessionUsecase interface {
	Start(ctx context.Context) (entity.Session, error)
}

// SessionHandler はセッションのHTTPリクエストを処理します。
type SessionHandler struct {
	uc SessionUsecase
}

// NewSessionHandler はSessionHandlerの新しいインスタンスを生成します。
func NewSessionHandler(uc SessionUsecase) *SessionHandler {
	return &SessionHandler{uc: uc}
}

// Start は新しいセッションを開始し、201とトークンを返します。
//
// エンドポイント例:
// POST /sessions
func (h *SessionHandler) Start(c *gin.Context) {
	s, err := h.uc.Start(c.Request.Context())
	if err != nil {
		slog.Error("start session failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to start session"})
		return
	}
	slog.Info("session started", "session_id", s.ID, "remote_addr", c.ClientIP())

	expiresIn := int64(time.Until(s.ExpiresAt).Round(time.Second) / time.Second)
	if expiresIn < 0 {
		expiresIn = 0
	}
	c.JSON(http.StatusCreated, dto.SessionResponse{
		SessionID: s.ID,
		Token:     s.Token,
		ExpiresIn: expiresIn,
	})
}
