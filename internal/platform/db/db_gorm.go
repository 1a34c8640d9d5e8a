// Package db はholdingsのSQLストア用のgorm接続を提供します。
package db

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	holdingsadapters "portfolio_tracker/internal/feature/holdings/adapters"
	"portfolio_tracker/internal/platform/config"
)

// Dialector はドライバ名とDSNからgormのDialectorを選択します。
func Dialector(cfg config.Database) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverSQLite, "":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = "file::memory:?cache=shared"
		}
		return sqlite.Open(dsn), nil
	case config.DriverPostgres:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("postgres requires DB_DSN")
		}
		return postgres.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Open はデータベースに接続し、holdingsテーブルをマイグレーションします。
// Postgresは起動直後に未準備のことがあるため、deadlineまで再試行します。
func Open(cfg config.Database, deadline time.Duration) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
	until := time.Now().Add(deadline)

	var db *gorm.DB
	for {
		db, err = gorm.Open(dialector, gcfg)
		if err == nil {
			break
		}
		if time.Now().After(until) {
			return nil, fmt.Errorf("db connect failed after %s: %w", deadline, err)
		}
		slog.Warn("db connect failed, retrying", "driver", cfg.Driver, "error", err)
		time.Sleep(3 * time.Second)
	}

	if err := db.AutoMigrate(&holdingsadapters.HoldingModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	slog.Info("database ready", "driver", cfg.Driver)
	return db, nil
}
