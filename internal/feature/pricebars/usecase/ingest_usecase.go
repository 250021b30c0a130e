// Package usecase は株価バーの取得・保存パイプラインを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"stock_ingest/internal/feature/pricebars/domain/entity"
)

// MarketRepository は外部APIから株価バーを取得するリポジトリのインターフェイスです。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type MarketRepository interface {
	Fetch(ctx context.Context, symbol string, window entity.FetchWindow) entity.FetchResult
}

// BarStore は1銘柄分のバーを永続化します。
type BarStore interface {
	Store(ctx context.Context, symbol string, bars []entity.PriceBar) error
}

// BarSink は1回の実行スコープ（RDBの場合はトランザクション）を提供します。
// fn がエラーを返した場合、スコープ内の書き込みは破棄されます。
type BarSink interface {
	RunInTx(ctx context.Context, fn func(store BarStore) error) error
}

// IngestUsecase は外部APIからデータを取得し、シンクに永続化するユースケースを定義します。
type IngestUsecase struct {
	market MarketRepository
	sink   BarSink
	window entity.FetchWindow
}

// NewIngestUsecase は新しい IngestUsecase を作成します。
func NewIngestUsecase(market MarketRepository, sink BarSink, window entity.FetchWindow) *IngestUsecase {
	return &IngestUsecase{market: market, sink: sink, window: window}
}

// ingestOne は1銘柄のバーを取得し、成功した場合のみ保存します。
func (iu *IngestUsecase) ingestOne(ctx context.Context, store BarStore, symbol string) SymbolOutcome {
	res := iu.market.Fetch(ctx, symbol, iu.window)

	switch res.Status {
	case entity.FetchEmpty:
		slog.Info("no data for window", "symbol", symbol, "window", iu.window.String())
		return SymbolOutcome{Symbol: symbol, Status: StatusEmpty}
	case entity.FetchFailure:
		slog.Error("failed to fetch data", "symbol", symbol, "error", res.Err)
		return SymbolOutcome{Symbol: symbol, Status: StatusFailed, Err: res.Err}
	}

	if err := store.Store(ctx, symbol, res.Bars); err != nil {
		slog.Error("failed to store data", "symbol", symbol, "bars", len(res.Bars), "error", err)
		return SymbolOutcome{Symbol: symbol, Status: StatusFailed, Err: err}
	}
	slog.Info("stored bars", "symbol", symbol, "bars", len(res.Bars))
	return SymbolOutcome{Symbol: symbol, Status: StatusSucceeded, Bars: len(res.Bars)}
}

// IngestAll は指定された全銘柄を順番に取得・保存します。
// 1つの銘柄で失敗しても処理を止めずに次の銘柄へ進みます。
// エラーを返すのは実行スコープの開始・確定に失敗した場合のみです。
func (iu *IngestUsecase) IngestAll(ctx context.Context, symbols []string) (Summary, error) {
	var summary Summary

	err := iu.sink.RunInTx(ctx, func(store BarStore) error {
		for _, s := range uniqueSymbols(symbols) {
			slog.Info("fetching data", "symbol", s, "window", iu.window.String())
			summary.add(iu.ingestOne(ctx, store, s))
		}
		return nil
	})
	if err != nil {
		return summary, fmt.Errorf("ingest run: %w", err)
	}

	slog.Info("ingest finished",
		"succeeded", summary.Succeeded,
		"empty", summary.Empty,
		"failed", summary.Failed)
	return summary, nil
}

// uniqueSymbols は出現順を保ったまま重複を取り除きます。
func uniqueSymbols(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
