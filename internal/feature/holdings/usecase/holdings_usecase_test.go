package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio_tracker/internal/feature/holdings/domain"
	"portfolio_tracker/internal/feature/holdings/domain/entity"
	"portfolio_tracker/internal/feature/holdings/usecase"
)

// mockHoldingRepository はHoldingRepositoryインターフェースのモック実装です。
type mockHoldingRepository struct {
	AppendFunc func(ctx context.Context, sessionID string, h entity.Holding) error
	ListFunc   func(ctx context.Context, sessionID string) ([]entity.Holding, error)
	ClearFunc  func(ctx context.Context, sessionID string) error

	appended []entity.Holding
}

func (m *mockHoldingRepository) Append(ctx context.Context, sessionID string, h entity.Holding) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, sessionID, h)
	}
	m.appended = append(m.appended, h)
	return nil
}

func (m *mockHoldingRepository) List(ctx context.Context, sessionID string) ([]entity.Holding, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, sessionID)
	}
	return m.appended, nil
}

func (m *mockHoldingRepository) Clear(ctx context.Context, sessionID string) error {
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx, sessionID)
	}
	m.appended = nil
	return nil
}

// TestHoldingsUsecase_Add は入力検証と正規化をテーブル駆動テストで検証します。
func TestHoldingsUsecase_Add(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		symbol         string
		units          int64
		price          string
		expectedSymbol string
		expectedErr    error
	}{
		{"success: plain symbol", "AAPL", 10, "150.00", "AAPL", nil},
		{"success: lowercase with spaces is normalized", "  msft ", 3, "300", "MSFT", nil},
		{"success: dotted symbol", "brk.b", 1, "0.01", "BRK.B", nil},
		{"failure: empty symbol", "", 10, "150", "", domain.ErrEmptySymbol},
		{"failure: blank symbol", "   ", 10, "150", "", domain.ErrEmptySymbol},
		{"failure: invalid characters", "AA PL", 10, "150", "", domain.ErrInvalidSymbol},
		{"failure: too long", "ABCDEFGHIJKLMNOPQRSTU", 10, "150", "", domain.ErrInvalidSymbol},
		{"failure: zero units", "AAPL", 0, "150", "", domain.ErrInvalidUnits},
		{"failure: negative units", "AAPL", -5, "150", "", domain.ErrInvalidUnits},
		{"failure: zero price", "AAPL", 10, "0", "", domain.ErrInvalidPurchasePrice},
		{"failure: negative price", "AAPL", 10, "-1.5", "", domain.ErrInvalidPurchasePrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := &mockHoldingRepository{}
			uc := usecase.NewHoldingsUsecase(repo)

			h, err := uc.Add(context.Background(), "session-1", tt.symbol, tt.units, decimal.RequireFromString(tt.price))

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.True(t, domain.IsValidation(err))
				assert.Empty(t, repo.appended, "no state change on validation error")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedSymbol, h.Symbol)
			assert.Equal(t, tt.units, h.Units)
			assert.True(t, h.PurchasePrice.Equal(decimal.RequireFromString(tt.price)))
			assert.False(t, h.AddedAt.IsZero())
			require.Len(t, repo.appended, 1)
			assert.Equal(t, h, repo.appended[0])
		})
	}
}

func TestHoldingsUsecase_Add_RepositoryError(t *testing.T) {
	t.Parallel()

	repoErr := errors.New("redis down")
	repo := &mockHoldingRepository{
		AppendFunc: func(ctx context.Context, sessionID string, h entity.Holding) error { return repoErr },
	}
	uc := usecase.NewHoldingsUsecase(repo)

	_, err := uc.Add(context.Background(), "session-1", "AAPL", 1, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, repoErr)
	assert.False(t, domain.IsValidation(err))
}

// TestHoldingsUsecase_EmptySession はセッションIDが空の場合に全操作がエラーになることを検証します。
func TestHoldingsUsecase_EmptySession(t *testing.T) {
	t.Parallel()

	uc := usecase.NewHoldingsUsecase(&mockHoldingRepository{})
	ctx := context.Background()

	_, err := uc.Add(ctx, "", "AAPL", 1, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrEmptySession)

	_, err = uc.List(ctx, "")
	assert.ErrorIs(t, err, domain.ErrEmptySession)

	assert.ErrorIs(t, uc.Clear(ctx, ""), domain.ErrEmptySession)
}

// TestHoldingsUsecase_ListAndClear は追加順の保持とクリア後の空リストを検証します。
func TestHoldingsUsecase_ListAndClear(t *testing.T) {
	t.Parallel()

	repo := &mockHoldingRepository{}
	uc := usecase.NewHoldingsUsecase(repo)
	ctx := context.Background()

	hs, err := uc.List(ctx, "s")
	require.NoError(t, err)
	assert.NotNil(t, hs, "empty portfolio should be an empty slice")
	assert.Empty(t, hs)

	for _, sym := range []string{"MSFT", "AAPL", "MSFT"} {
		_, err := uc.Add(ctx, "s", sym, 1, decimal.NewFromInt(10))
		require.NoError(t, err)
	}

	hs, err = uc.List(ctx, "s")
	require.NoError(t, err)
	require.Len(t, hs, 3)
	assert.Equal(t, "MSFT", hs[0].Symbol)
	assert.Equal(t, "AAPL", hs[1].Symbol)
	assert.Equal(t, "MSFT", hs[2].Symbol)

	require.NoError(t, uc.Clear(ctx, "s"))
	hs, err = uc.List(ctx, "s")
	require.NoError(t, err)
	assert.Empty(t, hs)
}

func TestHoldingsUsecase_List_RepositoryError(t *testing.T) {
	t.Parallel()

	repo := &mockHoldingRepository{
		ListFunc: func(ctx context.Context, sessionID string) ([]entity.Holding, error) {
			return nil, errors.New("database connection failed")
		},
		ClearFunc: func(ctx context.Context, sessionID string) error {
			return errors.New("database connection failed")
		},
	}
	uc := usecase.NewHoldingsUsecase(repo)

	_, err := uc.List(context.Background(), "s")
	assert.ErrorContains(t, err, "database connection failed")
	assert.ErrorContains(t, uc.Clear(context.Background(), "s"), "database connection failed")
}

func TestHolding_Cost(t *testing.T) {
	t.Parallel()

	h := entity.Holding{Symbol: "AAPL", Units: 3, PurchasePrice: decimal.RequireFromString("10.50")}
	assert.True(t, h.Cost().Equal(decimal.RequireFromString("31.5")))
}
