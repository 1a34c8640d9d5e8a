package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"portfolio_tracker/internal/feature/market/domain"
	"portfolio_tracker/internal/feature/market/domain/entity"
	"portfolio_tracker/internal/feature/market/usecase"
	"portfolio_tracker/internal/platform/externalapi/alphavantage/dto"
	"portfolio_tracker/internal/shared/ratelimiter"
)

const (
	functionDailyAdjusted = "TIME_SERIES_DAILY_ADJUSTED"
	functionOverview      = "OVERVIEW"
	outputSizeCompact     = "compact"
)

// AlphaVantageMarket はAlpha Vantage外部APIから株価・企業概要を取得するMarketRepository実装です。
type AlphaVantageMarket struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.Limiter
}

// AlphaVantageMarketがMarketRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.MarketRepository = (*AlphaVantageMarket)(nil)

// NewAlphaVantageMarket は指定された設定とHTTPクライアントでAlphaVantageMarketの新しいインスタンスを生成します。
// limiter が nil の場合は呼び出し頻度を制限しません。
func NewAlphaVantageMarket(cfg Config, client *http.Client, limiter ratelimiter.Limiter) *AlphaVantageMarket {
	return &AlphaVantageMarket{cfg: cfg.withDefaults(), client: client, limiter: limiter}
}

// FetchPriceSeries はAlpha Vantage APIから直近およそ100本の日足を取得し、新しい順で返します。
//
// 時系列キーが存在しない場合は空の系列を返します。APIが通知（Error Message / Note /
// Information）を返した場合も空の系列を返しますが、原因を示すエラーを併せて返します。
func (a *AlphaVantageMarket) FetchPriceSeries(ctx context.Context, symbol string) (entity.PriceSeries, error) {
	q := url.Values{}
	q.Set("function", functionDailyAdjusted)
	q.Set("symbol", symbol)
	q.Set("outputsize", outputSizeCompact)

	empty := entity.PriceSeries{Symbol: symbol}

	var body dto.TimeSeriesDailyAdjustedResponse
	if err := a.get(ctx, q, &body); err != nil {
		return empty, err
	}
	if body.TimeSeries == nil {
		return empty, noticeError(symbol, body.Notice)
	}

	bars := make([]entity.PriceBar, 0, len(body.TimeSeries))
	for day, v := range body.TimeSeries {
		bar, err := parseBar(day, v)
		if err != nil {
			// 1本の不正なデータで系列全体を失わないようスキップする
			slog.Warn("skipping malformed price bar", "symbol", symbol, "date", day, "error", err)
			continue
		}
		bars = append(bars, bar)
	}
	// 新しい日付が先頭
	slices.SortFunc(bars, func(x, y entity.PriceBar) int {
		return y.Date.Compare(x.Date)
	})

	return entity.PriceSeries{Symbol: symbol, Bars: bars}, nil
}

// FetchOverview はAlpha Vantage APIから企業概要を取得します。
// 未知の銘柄ではAPIが空のオブジェクトを返すため、空の概要とnilエラーになります。
func (a *AlphaVantageMarket) FetchOverview(ctx context.Context, symbol string) (entity.CompanyOverview, error) {
	q := url.Values{}
	q.Set("function", functionOverview)
	q.Set("symbol", symbol)

	empty := entity.CompanyOverview{Symbol: symbol, Fields: map[string]string{}}

	var raw map[string]any
	if err := a.get(ctx, q, &raw); err != nil {
		return empty, err
	}

	notice := dto.Notice{
		ErrorMessage: stringValue(raw["Error Message"]),
		Note:         stringValue(raw["Note"]),
		Information:  stringValue(raw["Information"]),
	}
	if err := noticeError(symbol, notice); err != nil {
		return empty, err
	}

	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		fields[k] = stringValue(v)
	}
	return entity.CompanyOverview{Symbol: symbol, Fields: fields}, nil
}

// get はクエリを実行し、JSONレスポンスをoutにデコードします。
func (a *AlphaVantageMarket) get(ctx context.Context, q url.Values, out any) error {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	q.Set("apikey", a.cfg.APIKey)
	u := fmt.Sprintf("%s?%s", a.cfg.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	res, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", domain.ErrUpstream, q.Get("function"), q.Get("symbol"), err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return fmt.Errorf("%w: alphavantage http %d", domain.ErrUpstream, res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", domain.ErrUpstream, q.Get("function"), err)
	}
	return nil
}

// noticeError はAPIの通知をドメインエラーに変換します。通知がなければnilを返します。
func noticeError(symbol string, n dto.Notice) error {
	switch {
	case n.ErrorMessage != "":
		return fmt.Errorf("%w: %s: %s", domain.ErrSymbolNotFound, symbol, n.ErrorMessage)
	case n.Note != "":
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, n.Note)
	case n.Information != "":
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, n.Information)
	}
	return nil
}

func parseBar(day string, v dto.DailyAdjustedBar) (entity.PriceBar, error) {
	tm, err := time.Parse("2006-01-02", day)
	if err != nil {
		return entity.PriceBar{}, fmt.Errorf("parse date %q: %w", day, err)
	}
	o, err := decimal.NewFromString(v.Open)
	if err != nil {
		return entity.PriceBar{}, fmt.Errorf("parse open %q: %w", v.Open, err)
	}
	h, err := decimal.NewFromString(v.High)
	if err != nil {
		return entity.PriceBar{}, fmt.Errorf("parse high %q: %w", v.High, err)
	}
	l, err := decimal.NewFromString(v.Low)
	if err != nil {
		return entity.PriceBar{}, fmt.Errorf("parse low %q: %w", v.Low, err)
	}
	c, err := decimal.NewFromString(v.Close)
	if err != nil {
		return entity.PriceBar{}, fmt.Errorf("parse close %q: %w", v.Close, err)
	}
	adj, err := decimal.NewFromString(v.AdjustedClose)
	if err != nil {
		return entity.PriceBar{}, fmt.Errorf("parse adjusted close %q: %w", v.AdjustedClose, err)
	}
	var vol int64
	if v.Volume != "" {
		vol, err = strconv.ParseInt(v.Volume, 10, 64)
		if err != nil {
			return entity.PriceBar{}, fmt.Errorf("parse volume %q: %w", v.Volume, err)
		}
	}
	return entity.PriceBar{
		Date:          tm,
		Open:          o,
		High:          h,
		Low:           l,
		Close:         c,
		AdjustedClose: adj,
		Volume:        vol,
	}, nil
}

// stringValue は概要フィールドの値を文字列に変換します。
func stringValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
