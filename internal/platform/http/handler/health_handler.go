// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

// checkTimeout は依存先ごとの確認時間の上限です。
const checkTimeout = 2 * time.Second

// Check は依存先の疎通を確認します。
type Check func(ctx context.Context) error

// HealthResponse は /healthz のレスポンスです。
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HealthHandler はサービスと依存先（Redis、DBなど）の状態を返します。
// 依存先の障害はフォールバックがあるため、livenessとしては200のまま"degraded"を返します。
type HealthHandler struct {
	checks map[string]Check
}

// NewHealthHandler はHealthHandlerの新しいインスタンスを生成します。
func NewHealthHandler(checks map[string]Check) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Health はサービスヘルスチェック用の /healthz エンドポイントを処理します。
// HTTPメソッドに応じて適切にレスポンスし、キャッシュを防止します。
func (h *HealthHandler) Health(c *gin.Context) {
	// 明示的にキャッシュを防止
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
		return
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
		return
	}

	resp := HealthResponse{Status: "ok"}
	if len(h.checks) > 0 {
		resp.Checks = make(map[string]string, len(h.checks))
		names := make([]string, 0, len(h.checks))
		for name := range h.checks {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
			err := h.checks[name](ctx)
			cancel()
			if err != nil {
				resp.Status = "degraded"
				resp.Checks[name] = err.Error()
				continue
			}
			resp.Checks[name] = "ok"
		}
	}
	c.JSON(http.StatusOK, resp)
}
