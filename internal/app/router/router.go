// Package router はHTTPルーティングを定義します。
package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	holdingshandler "portfolio_tracker/internal/feature/holdings/transport/handler"
	markethandler "portfolio_tracker/internal/feature/market/transport/handler"
	sessionhandler "portfolio_tracker/internal/feature/session/transport/handler"
	valuationhandler "portfolio_tracker/internal/feature/valuation/transport/handler"
	platformhandler "portfolio_tracker/internal/platform/http/handler"
	jwtmw "portfolio_tracker/internal/platform/jwt"
)

// Handlers はルーターに登録するハンドラー一式です。
type Handlers struct {
	Health    *platformhandler.HealthHandler
	Session   *sessionhandler.SessionHandler
	Holdings  *holdingshandler.HoldingsHandler
	Valuation *valuationhandler.ValuationHandler
	Market    *markethandler.MarketHandler
}

// NewRouter はルートを登録したgin.Engineを返します。
// jwtSecret はセッショントークンの検証に使用します。
func NewRouter(jwtSecret string, h Handlers) *gin.Engine {
	r := gin.Default()

	// ダッシュボードのフロントエンドは別オリジンから呼び出す
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodHead, http.MethodOptions},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:          12 * time.Hour,
	}))

	// 認証不要
	// 導通確認用
	r.GET("/healthz", h.Health.Health)
	r.HEAD("/healthz", h.Health.Health)
	r.OPTIONS("/healthz", h.Health.Health)
	// セッション開始（JWT 発行）
	r.POST("/sessions", h.Session.Start)

	// 市場データ参照（ポートフォリオに依存しない）
	market := r.Group("/market")
	{
		market.GET("/:symbol/prices", h.Market.GetPrices)
		market.GET("/:symbol/overview", h.Market.GetOverview)
	}

	// セッション必須のルート
	// → リクエストヘッダーに JWT が必要になる
	portfolio := r.Group("/portfolio")
	portfolio.Use(jwtmw.SessionRequired(jwtSecret))
	{
		portfolio.GET("/holdings", h.Holdings.List)
		portfolio.POST("/holdings", h.Holdings.Add)
		portfolio.DELETE("/holdings", h.Holdings.Clear)
		portfolio.GET("/valuation", h.Valuation.Value)
		portfolio.POST("/refresh", h.Valuation.Refresh)
		portfolio.GET("/health/:symbol", h.Valuation.CompanyHealth)
	}

	return r
}
