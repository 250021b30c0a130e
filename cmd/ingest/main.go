package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"stock_ingest/internal/app/di"
	"stock_ingest/internal/platform/config"
	"stock_ingest/internal/platform/db"
	"stock_ingest/internal/platform/logging"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	window := flag.String("window", "", "fetch window: last_n_days or single_day")
	days := flag.Int("days", 0, "number of days for last_n_days")
	date := flag.String("date", "", "target date (YYYY-MM-DD) for single_day")
	sink := flag.String("sink", "", "sink: postgres or gcs")
	series := flag.String("series", "", "series: daily or intraday")
	flag.Parse()

	// 指定されたフラグのみ設定を上書き
	overrides := map[string]any{}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "window":
			overrides["window"] = *window
		case "days":
			overrides["window_days"] = *days
		case "date":
			overrides["window_date"] = *date
		case "sink":
			overrides["sink"] = *sink
		case "series":
			overrides["series"] = *series
		}
	})

	cfg, err := config.Load(overrides)
	if err != nil {
		log.Fatal(err)
	}
	logging.Setup(os.Stdout, cfg.LogLevel)

	// 銘柄単位の失敗はログに残して終了コード0、実行自体の失敗のみ1
	if err := run(cfg); err != nil {
		slog.Error("ingest failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	// postgres の場合のみ DB に接続
	var gdb *gorm.DB
	if cfg.Sink == config.SinkPostgres {
		var err error
		gdb, err = db.OpenDB(cfg.DB(), cfg.DBConnectTimeout)
		if err != nil {
			return err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return fmt.Errorf("get sql.DB: %w", err)
		}
		defer func() {
			if err := sqlDB.Close(); err != nil {
				slog.Error("failed to close db", "error", err)
			}
		}()
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RunTimeout)
	defer cancel()

	market, err := di.NewMarket(cfg)
	if err != nil {
		return err
	}
	barSink, closeSink, err := di.NewSink(ctx, cfg, gdb)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeSink(); err != nil {
			slog.Error("failed to close sink", "error", err)
		}
	}()

	uc := di.NewIngestUsecase(cfg, market, barSink, time.Now())
	summary, err := uc.IngestAll(ctx, cfg.Symbols)
	if err != nil {
		return err
	}

	for _, o := range summary.Outcomes {
		if o.Err != nil {
			slog.Warn("symbol not ingested", "symbol", o.Symbol, "error", o.Err)
		}
	}
	slog.Info("ingest ok",
		"symbols", len(summary.Outcomes),
		"succeeded", summary.Succeeded,
		"empty", summary.Empty,
		"failed", summary.Failed)
	return nil
}
