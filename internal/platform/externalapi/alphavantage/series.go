package alphavantage

import (
	"fmt"
	"slices"
)

const (
	functionDaily    = "TIME_SERIES_DAILY"
	functionIntraday = "TIME_SERIES_INTRADAY"

	layoutDate     = "2006-01-02"
	layoutDateTime = "2006-01-02 15:04:05"
)

// IntradayIntervals は TIME_SERIES_INTRADAY が受け付ける足の一覧です。
var IntradayIntervals = []string{"1min", "5min", "15min", "30min", "60min"}

// Series は1種類の時系列エンドポイントを表します。
// ResponseKey はレスポンス中で時系列を保持するキーで、Interval から導出されます。
type Series struct {
	Name        string // "daily" or "intraday"
	Function    string // API の function パラメータ
	Interval    string // intraday のみ
	ResponseKey string // 例: "Time Series (Daily)", "Time Series (5min)"
	Layout      string // タイムスタンプの書式
}

// DailySeries は日足の Series を返します。
func DailySeries() Series {
	return Series{
		Name:        "daily",
		Function:    functionDaily,
		ResponseKey: "Time Series (Daily)",
		Layout:      layoutDate,
	}
}

// NewIntradaySeries は指定された足の intraday Series を返します。
func NewIntradaySeries(interval string) (Series, error) {
	if !slices.Contains(IntradayIntervals, interval) {
		return Series{}, fmt.Errorf("unsupported intraday interval %q (want one of %v)", interval, IntradayIntervals)
	}
	return Series{
		Name:        "intraday",
		Function:    functionIntraday,
		Interval:    interval,
		ResponseKey: fmt.Sprintf("Time Series (%s)", interval),
		Layout:      layoutDateTime,
	}, nil
}

// SeriesByName は設定値から Series を解決します。interval は intraday の場合のみ使用します。
func SeriesByName(name, interval string) (Series, error) {
	switch name {
	case "daily":
		return DailySeries(), nil
	case "intraday":
		return NewIntradaySeries(interval)
	default:
		return Series{}, fmt.Errorf("unknown series %q (want daily or intraday)", name)
	}
}
