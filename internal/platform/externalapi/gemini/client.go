// Package gemini はGoogle Gemini APIを使用した企業サマリー生成クライアントを提供します。
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"portfolio_tracker/internal/feature/valuation/usecase"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"
)

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("gemini returned an empty response")

// generator は genai.Models の GenerateContent をテスト用に抽象化します。
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiAnalyzer はGoogle Gemini APIを使用して企業の財務サマリーを生成します。
type GeminiAnalyzer struct {
	models generator
	model  string
}

// GeminiAnalyzerがCompanyAnalyzerを実装していることをコンパイル時に検証します。
var _ usecase.CompanyAnalyzer = (*GeminiAnalyzer)(nil)

// NewGeminiAnalyzer はGeminiAnalyzerの新しいインスタンスを生成します。
// 認証情報は環境変数（GEMINI_API_KEY、またはVertex AI用の GOOGLE_GENAI_USE_VERTEXAI 等）から読み込まれます。
func NewGeminiAnalyzer(ctx context.Context, model string) (*GeminiAnalyzer, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &GeminiAnalyzer{models: client.Models, model: model}, nil
}

// Analyze はプロンプトを使用して分析サマリーを生成します。
func (g *GeminiAnalyzer) Analyze(ctx context.Context, prompt string) (string, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini API request failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
