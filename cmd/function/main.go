package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"stock_ingest/internal/app/di"
	"stock_ingest/internal/app/router"
	ingesthandler "stock_ingest/internal/feature/pricebars/transport/handler"
	"stock_ingest/internal/platform/config"
	"stock_ingest/internal/platform/db"
	"stock_ingest/internal/platform/http/handler"
	"stock_ingest/internal/platform/logging"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	cfg, err := config.Load(nil)
	if err != nil {
		log.Fatal(err)
	}
	logging.Setup(os.Stdout, cfg.LogLevel)

	// db（postgres の場合のみ）
	var gdb *gorm.DB
	var ping handler.Pinger
	if cfg.Sink == config.SinkPostgres {
		gdb, err = db.OpenDB(cfg.DB(), cfg.DBConnectTimeout)
		if err != nil {
			log.Fatal(err)
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			log.Fatal(err)
		}
		defer func() {
			if err := sqlDB.Close(); err != nil {
				slog.Error("failed to close db", "error", err)
			}
		}()
		ping = sqlDB.PingContext
	}

	market, err := di.NewMarket(cfg)
	if err != nil {
		log.Fatal(err)
	}
	barSink, closeSink, err := di.NewSink(context.Background(), cfg, gdb)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := closeSink(); err != nil {
			slog.Error("failed to close sink", "error", err)
		}
	}()

	// 取得ウィンドウはリクエスト時刻で確定させる
	newRunner := func() ingesthandler.IngestRunner {
		return di.NewIngestUsecase(cfg, market, barSink, time.Now())
	}
	ingestH := ingesthandler.NewIngestHandler(newRunner, cfg.Symbols, cfg.RunTimeout)

	r := router.NewRouter(ingestH, handler.NewHealth(ping))

	slog.Info("function server listening", "port", cfg.Port, "sink", cfg.Sink, "series", cfg.Series)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
