// Package di provides dependency injection factories for creating application components.
package di

import (
	"fmt"

	"stock_ingest/internal/platform/config"
	"stock_ingest/internal/platform/externalapi/alphavantage"
	infrahttp "stock_ingest/internal/platform/http"
)

// NewMarket creates a fully configured AlphaVantageMarket with HTTP client.
func NewMarket(cfg *config.Config) (*alphavantage.AlphaVantageMarket, error) {
	series, err := cfg.SeriesDef()
	if err != nil {
		return nil, fmt.Errorf("resolve series: %w", err)
	}
	avCfg := cfg.AlphaVantage()
	httpClient := infrahttp.NewHTTPClient(avCfg.Timeout)
	return alphavantage.NewAlphaVantageMarket(avCfg, series, httpClient), nil
}
