package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio_tracker/internal/feature/holdings/domain"
	"portfolio_tracker/internal/feature/holdings/domain/entity"
	"portfolio_tracker/internal/feature/holdings/transport/handler"
	jwtmw "portfolio_tracker/internal/platform/jwt"
)

// mockHoldingsUsecase はHoldingsUsecaseインターフェースのモック実装です。
type mockHoldingsUsecase struct {
	AddFunc   func(ctx context.Context, sessionID, symbol string, units int64, price decimal.Decimal) (entity.Holding, error)
	ClearFunc func(ctx context.Context, sessionID string) error
	ListFunc  func(ctx context.Context, sessionID string) ([]entity.Holding, error)
}

func (m *mockHoldingsUsecase) Add(ctx context.Context, sessionID, symbol string, units int64, price decimal.Decimal) (entity.Holding, error) {
	return m.AddFunc(ctx, sessionID, symbol, units, price)
}

func (m *mockHoldingsUsecase) Clear(ctx context.Context, sessionID string) error {
	return m.ClearFunc(ctx, sessionID)
}

func (m *mockHoldingsUsecase) List(ctx context.Context, sessionID string) ([]entity.Holding, error) {
	return m.ListFunc(ctx, sessionID)
}

// newRouter はセッションIDを固定で注入するテスト用ルーターを生成します。
func newRouter(uc handler.HoldingsUsecase, sessionID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handler.NewHoldingsHandler(uc)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if sessionID != "" {
			c.Set(jwtmw.ContextSessionID, sessionID)
		}
		c.Next()
	})
	r.GET("/portfolio/holdings", h.List)
	r.POST("/portfolio/holdings", h.Add)
	r.DELETE("/portfolio/holdings", h.Clear)
	return r
}

// TestHoldingsHandler_Add はAddのHTTPリクエスト/レスポンス処理をテストします。
func TestHoldingsHandler_Add(t *testing.T) {
	added := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		body           string
		mockAdd        func(ctx context.Context, sid, symbol string, units int64, price decimal.Decimal) (entity.Holding, error)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "success: holding stored",
			body: `{"symbol":"aapl","units":10,"purchase_price":"150.25"}`,
			mockAdd: func(ctx context.Context, sid, s string, units int64, price decimal.Decimal) (entity.Holding, error) {
				assert.Equal(t, "session-1", sid)
				assert.Equal(t, "aapl", s)
				assert.True(t, price.Equal(decimal.RequireFromString("150.25")))
				return entity.Holding{Symbol: "AAPL", Units: units, PurchasePrice: price, AddedAt: added}, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "success: numeric purchase price",
			body: `{"symbol":"MSFT","units":1,"purchase_price":300.5}`,
			mockAdd: func(ctx context.Context, sid, s string, units int64, price decimal.Decimal) (entity.Holding, error) {
				return entity.Holding{Symbol: s, Units: units, PurchasePrice: price, AddedAt: added}, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "failure: malformed json",
			body:           `{"symbol":`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid request body",
		},
		{
			name:           "failure: fractional units",
			body:           `{"symbol":"AAPL","units":1.5,"purchase_price":"1"}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid request body",
		},
		{
			name: "failure: validation error is shown inline",
			body: `{"symbol":"","units":10,"purchase_price":"150"}`,
			mockAdd: func(ctx context.Context, sid, s string, units int64, price decimal.Decimal) (entity.Holding, error) {
				return entity.Holding{}, domain.ErrEmptySymbol
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  domain.ErrEmptySymbol.Error(),
		},
		{
			name: "failure: invalid units",
			body: `{"symbol":"AAPL","units":0,"purchase_price":"150"}`,
			mockAdd: func(ctx context.Context, sid, s string, units int64, price decimal.Decimal) (entity.Holding, error) {
				return entity.Holding{}, domain.ErrInvalidUnits
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  domain.ErrInvalidUnits.Error(),
		},
		{
			name: "failure: storage error",
			body: `{"symbol":"AAPL","units":1,"purchase_price":"1"}`,
			mockAdd: func(ctx context.Context, sid, s string, units int64, price decimal.Decimal) (entity.Holding, error) {
				return entity.Holding{}, errors.New("redis down")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "failed to add holding",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockHoldingsUsecase{AddFunc: tt.mockAdd}
			r := newRouter(uc, "session-1")

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/portfolio/holdings", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, body["error"])
				return
			}
			assert.NotEmpty(t, body["symbol"])
			assert.NotEmpty(t, body["added_at"])
		})
	}
}

// TestHoldingsHandler_List は保有銘柄テーブルのレスポンスを検証します。
func TestHoldingsHandler_List(t *testing.T) {
	uc := &mockHoldingsUsecase{
		ListFunc: func(ctx context.Context, sid string) ([]entity.Holding, error) {
			return []entity.Holding{
				{Symbol: "MSFT", Units: 2, PurchasePrice: decimal.RequireFromString("300")},
				{Symbol: "AAPL", Units: 10, PurchasePrice: decimal.RequireFromString("150.5")},
			}, nil
		},
	}
	r := newRouter(uc, "session-1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/portfolio/holdings", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Holdings []struct {
			Symbol        string `json:"symbol"`
			Units         int64  `json:"units"`
			PurchasePrice string `json:"purchase_price"`
		} `json:"holdings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Holdings, 2)
	assert.Equal(t, "MSFT", body.Holdings[0].Symbol)
	assert.Equal(t, "150.5", body.Holdings[1].PurchasePrice)
}

func TestHoldingsHandler_List_Empty(t *testing.T) {
	uc := &mockHoldingsUsecase{
		ListFunc: func(ctx context.Context, sid string) ([]entity.Holding, error) { return nil, nil },
	}
	r := newRouter(uc, "session-1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/portfolio/holdings", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"holdings":[]}`, w.Body.String())
}

func TestHoldingsHandler_Clear(t *testing.T) {
	called := false
	uc := &mockHoldingsUsecase{
		ClearFunc: func(ctx context.Context, sid string) error {
			called = true
			assert.Equal(t, "session-1", sid)
			return nil
		},
	}
	r := newRouter(uc, "session-1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/portfolio/holdings", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, called)
	assert.JSONEq(t, `{"message":"portfolio cleared"}`, w.Body.String())
}

// TestHoldingsHandler_MissingSession はセッションが無い場合に401が返されることを検証します。
func TestHoldingsHandler_MissingSession(t *testing.T) {
	r := newRouter(&mockHoldingsUsecase{}, "")

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodDelete} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(method, "/portfolio/holdings", strings.NewReader("{}")))
		assert.Equal(t, http.StatusUnauthorized, w.Code, method)
	}
}
