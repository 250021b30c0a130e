package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"time"

	"stock_ingest/internal/feature/pricebars/domain"
	"stock_ingest/internal/feature/pricebars/domain/entity"
	"stock_ingest/internal/feature/pricebars/usecase"
	"stock_ingest/internal/platform/externalapi/alphavantage/dto"

	"github.com/shopspring/decimal"
	"resty.dev/v3"
)

// AlphaVantageMarket はAlpha Vantage外部APIから株価バーを取得するMarketRepository実装です。
// 1回の Fetch につきリクエストは1回のみで、リトライは行いません。
type AlphaVantageMarket struct {
	cfg    Config
	series Series
	client *resty.Client
	now    func() time.Time
}

// AlphaVantageMarketがMarketRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.MarketRepository = (*AlphaVantageMarket)(nil)

// NewAlphaVantageMarket は指定された設定とHTTPクライアントでAlphaVantageMarketの新しいインスタンスを生成します。
func NewAlphaVantageMarket(cfg Config, series Series, httpClient *http.Client) *AlphaVantageMarket {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	client := resty.NewWithClient(httpClient).
		SetBaseURL(cfg.BaseURL).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)

	return &AlphaVantageMarket{
		cfg:    cfg,
		series: series,
		client: client,
		now:    time.Now,
	}
}

// WithClock は基準時刻の取得関数を差し替えます（テスト用）。
func (a *AlphaVantageMarket) WithClock(now func() time.Time) *AlphaVantageMarket {
	a.now = now
	return a
}

// Fetch はAlpha Vantage APIから時系列データを取得し、window内のバーを時刻の昇順で返します。
func (a *AlphaVantageMarket) Fetch(ctx context.Context, symbol string, window entity.FetchWindow) entity.FetchResult {
	// クエリパラメータを追加
	params := map[string]string{
		"function": a.series.Function,
		"symbol":   symbol,
		"apikey":   a.cfg.APIKey,
	}
	if a.series.Interval != "" {
		params["interval"] = a.series.Interval
	}

	// リクエストを実行
	resp, err := a.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get("")
	if err != nil {
		return entity.Failure(domain.NewTransportError(symbol, 0, err))
	}
	if !resp.IsSuccess() {
		return entity.Failure(domain.NewTransportError(symbol, resp.StatusCode(),
			fmt.Errorf("alphavantage http %d", resp.StatusCode())))
	}

	// トップレベルのキーごとにデコード
	var body map[string]json.RawMessage
	if err := json.Unmarshal(resp.Bytes(), &body); err != nil {
		return entity.Failure(domain.NewParseError(symbol, fmt.Errorf("decode response: %w", err)))
	}

	raw, ok := body[a.series.ResponseKey]
	if !ok {
		return entity.Failure(domain.NewAPIError(symbol, providerMessage(resp.Bytes(), a.series.ResponseKey)))
	}

	var records map[string]dto.TimeSeriesRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return entity.Failure(domain.NewParseError(symbol, fmt.Errorf("decode %q: %w", a.series.ResponseKey, err)))
	}

	now := a.now().In(a.cfg.Location)
	bars := make([]entity.PriceBar, 0, len(records))
	for ts, rec := range records {
		// タイムスタンプをパース
		tm, err := time.ParseInLocation(a.series.Layout, ts, a.cfg.Location)
		if err != nil {
			return entity.Failure(domain.NewParseError(symbol, fmt.Errorf("parse time %q: %w", ts, err)))
		}
		if !window.Contains(tm, now) {
			continue
		}

		bar, err := toPriceBar(symbol, tm, rec)
		if err != nil {
			return entity.Failure(domain.NewParseError(symbol, fmt.Errorf("%s: %w", ts, err)))
		}
		bars = append(bars, bar)
	}

	if len(bars) == 0 {
		return entity.Empty()
	}
	slices.SortFunc(bars, func(x, y entity.PriceBar) int {
		return x.Timestamp.Compare(y.Timestamp)
	})
	return entity.Success(bars)
}

// toPriceBar は1件のレコードをドメインエンティティに変換し、OHLCの整合性を検証します。
func toPriceBar(symbol string, tm time.Time, rec dto.TimeSeriesRecord) (entity.PriceBar, error) {
	// 始値をパース
	o, err := parseDecimal("open", rec.Open)
	if err != nil {
		return entity.PriceBar{}, err
	}
	// 高値をパース
	h, err := parseDecimal("high", rec.High)
	if err != nil {
		return entity.PriceBar{}, err
	}
	// 安値をパース
	l, err := parseDecimal("low", rec.Low)
	if err != nil {
		return entity.PriceBar{}, err
	}
	// 終値をパース
	c, err := parseDecimal("close", rec.Close)
	if err != nil {
		return entity.PriceBar{}, err
	}
	// 出来高をパース
	if rec.Volume == "" {
		return entity.PriceBar{}, fmt.Errorf("parse volume: missing")
	}
	vol, err := strconv.ParseInt(rec.Volume, 10, 64)
	if err != nil {
		return entity.PriceBar{}, fmt.Errorf("parse volume %q: %w", rec.Volume, err)
	}

	bar := entity.PriceBar{
		Symbol:    symbol,
		Timestamp: tm,
		Open:      o,
		High:      h,
		Low:       l,
		Close:     c,
		Volume:    vol,
	}
	if err := bar.Validate(); err != nil {
		return entity.PriceBar{}, err
	}
	return bar, nil
}

func parseDecimal(field, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("parse %s: missing", field)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse %s %q: %w", field, s, err)
	}
	return d, nil
}

// providerMessage はエラー時のメッセージ（"Error Message", "Note", "Information"）を取り出します。
func providerMessage(data []byte, key string) string {
	var msg dto.ProviderMessage
	if err := json.Unmarshal(data, &msg); err == nil {
		if text := msg.Text(); text != "" {
			return text
		}
	}
	return fmt.Sprintf("time series key %q not found", key)
}
