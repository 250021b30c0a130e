package di

import (
	"context"
	"errors"
	"fmt"

	"stock_ingest/internal/feature/pricebars/adapters"
	"stock_ingest/internal/feature/pricebars/usecase"
	"stock_ingest/internal/platform/config"
	"stock_ingest/internal/platform/objectstore"

	"cloud.google.com/go/storage"
	"gorm.io/gorm"
)

// NewSink creates the BarSink selected by cfg.Sink.
// The returned close function releases clients owned by the sink and is never nil.
// db is only used for the postgres sink; the caller keeps ownership of it.
func NewSink(ctx context.Context, cfg *config.Config, db *gorm.DB) (usecase.BarSink, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Sink {
	case config.SinkPostgres:
		if db == nil {
			return nil, noop, errors.New("postgres sink requires a database connection")
		}
		return adapters.NewStockDataRepository(db), noop, nil

	case config.SinkGCS:
		series, err := cfg.SeriesDef()
		if err != nil {
			return nil, noop, fmt.Errorf("resolve series: %w", err)
		}
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, noop, fmt.Errorf("create storage client: %w", err)
		}
		writer := objectstore.NewGCSWriter(client, cfg.GCSBucket)
		return adapters.NewCSVSnapshotSink(writer, series.Layout), client.Close, nil

	default:
		return nil, noop, fmt.Errorf("unknown sink %q", cfg.Sink)
	}
}
