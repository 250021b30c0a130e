package di

import (
	"time"

	"stock_ingest/internal/feature/pricebars/usecase"
	"stock_ingest/internal/platform/config"
)

// NewIngestUsecase wires one run of the pipeline. The fetch window is fixed from now.
func NewIngestUsecase(cfg *config.Config, market usecase.MarketRepository, sink usecase.BarSink, now time.Time) *usecase.IngestUsecase {
	return usecase.NewIngestUsecase(market, sink, cfg.FetchWindow(now))
}
