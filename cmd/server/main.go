package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"portfolio_tracker/internal/app/di"
	"portfolio_tracker/internal/app/router"
	holdingshandler "portfolio_tracker/internal/feature/holdings/transport/handler"
	holdingsusecase "portfolio_tracker/internal/feature/holdings/usecase"
	markethandler "portfolio_tracker/internal/feature/market/transport/handler"
	marketusecase "portfolio_tracker/internal/feature/market/usecase"
	sessionhandler "portfolio_tracker/internal/feature/session/transport/handler"
	sessionusecase "portfolio_tracker/internal/feature/session/usecase"
	valuationhandler "portfolio_tracker/internal/feature/valuation/transport/handler"
	valuationusecase "portfolio_tracker/internal/feature/valuation/usecase"
	"portfolio_tracker/internal/platform/config"
	infradb "portfolio_tracker/internal/platform/db"
	platformhandler "portfolio_tracker/internal/platform/http/handler"
	jwtmw "portfolio_tracker/internal/platform/jwt"
	"portfolio_tracker/internal/platform/logger"
	infraredis "portfolio_tracker/internal/platform/redis"
)

const (
	// dbConnectDeadline はDB接続リトライの上限です。
	dbConnectDeadline = 30 * time.Second
	// expirySweepInterval は期限切れholdingsの削除間隔です（sqlストアのみ）。
	expirySweepInterval = 10 * time.Minute
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger.Setup(os.Stdout, cfg.Logging.Level, cfg.Logging.Format)

	if cfg.AlphaVantage.APIKey == "" {
		slog.Warn("ALPHA_VANTAGE_API_KEY is not set; market data requests will be rejected upstream")
	}

	// JWT_SECRETチェック（未設定の場合は再起動でセッションが無効になる）
	secret := cfg.Session.JWTSecret
	if secret == "" {
		secret = randomSecret()
		slog.Warn("JWT_SECRET is not set; using an ephemeral secret. Sessions will not survive a restart.")
	}

	ctx := context.Background()
	checks := map[string]platformhandler.Check{}

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(cfg.Redis); err != nil {
		if !errors.Is(err, infraredis.ErrNotConfigured) {
			slog.Warn("Redis unavailable. Falling back to in-memory cache.", "error", err)
		}
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	// db（sqlストア選択時のみ）
	var db *gorm.DB
	if cfg.Holdings.Store == config.StoreSQL {
		db, err = infradb.Open(cfg.Database, dbConnectDeadline)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		sqlDB, err := db.DB()
		if err != nil {
			slog.Error("failed to get sql.DB", "error", err)
			os.Exit(1)
		}
		defer func() { _ = sqlDB.Close() }()
		checks["database"] = sqlDB.PingContext
	}

	// Repository
	holdingRepo, err := di.NewHoldingRepository(cfg, rdb, db)
	if err != nil {
		slog.Error("failed to create holdings store", "store", cfg.Holdings.Store, "error", err)
		os.Exit(1)
	}
	go di.RunExpirySweep(ctx, holdingRepo, expirySweepInterval)
	// キャッシュでラップしたマーケットクライアント
	market := di.NewMarket(cfg, rdb)

	// Usecase
	holdingsUC := holdingsusecase.NewHoldingsUsecase(holdingRepo)
	sessionUC := sessionusecase.NewSessionUsecase(jwtmw.NewGenerator(secret, cfg.Session.TTL))
	valuationUC := valuationusecase.NewValuationUsecase(holdingsUC, market, market, di.NewAnalyzer(ctx, cfg.Gemini))
	marketUC := marketusecase.NewMarketUsecase(market)

	// Handler
	handlers := router.Handlers{
		Health:    platformhandler.NewHealthHandler(checks),
		Session:   sessionhandler.NewSessionHandler(sessionUC),
		Holdings:  holdingshandler.NewHoldingsHandler(holdingsUC),
		Valuation: valuationhandler.NewValuationHandler(valuationUC, cfg.Display.Currency),
		Market:    markethandler.NewMarketHandler(marketUC),
	}

	// ルータ生成
	r := router.NewRouter(secret, handlers)

	addr := ":" + strconv.Itoa(cfg.Server.Port)
	slog.Info("starting server", "addr", addr, "holdings_store", cfg.Holdings.Store)
	if err := r.Run(addr); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// randomSecret は起動ごとに異なる署名鍵を生成します。
func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		slog.Error("failed to generate JWT secret", "error", err)
		os.Exit(1)
	}
	return hex.EncodeToString(b)
}
