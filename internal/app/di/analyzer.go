package di

import (
	"context"
	"log/slog"

	"portfolio_tracker/internal/feature/valuation/usecase"
	"portfolio_tracker/internal/platform/config"
	"portfolio_tracker/internal/platform/externalapi/gemini"
)

// NewAnalyzer returns the Gemini analyzer, or nil when it is disabled or cannot be created.
// Company health works without it; the summary is simply omitted.
func NewAnalyzer(ctx context.Context, cfg config.Gemini) usecase.CompanyAnalyzer {
	if !cfg.Enabled {
		return nil
	}
	analyzer, err := gemini.NewGeminiAnalyzer(ctx, cfg.Model)
	if err != nil {
		slog.Warn("gemini analyzer unavailable; company summaries disabled", "error", err)
		return nil
	}
	return analyzer
}
