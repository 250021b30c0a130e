package adapters

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"slices"
	"strconv"
	"time"

	"stock_ingest/internal/feature/pricebars/domain"
	"stock_ingest/internal/feature/pricebars/domain/entity"
	"stock_ingest/internal/feature/pricebars/usecase"
)

const (
	snapshotContentType = "text/csv"
	snapshotStampLayout = "20060102150405"
)

// snapshotHeader is the fixed header row of every snapshot file.
var snapshotHeader = []string{"datetime", "open", "high", "low", "close", "volume"}

// ObjectWriter はオブジェクトストレージへの書き込みを抽象化します。
// 既存のキーへの上書きはエラーにする実装を想定しています。
type ObjectWriter interface {
	WriteObject(ctx context.Context, key, contentType string, body []byte) error
}

// CSVSnapshotSink は1銘柄・1回の実行ごとに新しいCSVオブジェクトを書き込む ObjectStoreSink 実装です。
// 再実行すると別のファイルが増えます（冪等ではありません）。
type CSVSnapshotSink struct {
	writer ObjectWriter
	layout string
	now    func() time.Time
}

var (
	_ usecase.BarSink  = (*CSVSnapshotSink)(nil)
	_ usecase.BarStore = (*CSVSnapshotSink)(nil)
)

// NewCSVSnapshotSink は layout の書式で datetime 列を出力する CSVSnapshotSink を生成します。
func NewCSVSnapshotSink(writer ObjectWriter, layout string) *CSVSnapshotSink {
	return &CSVSnapshotSink{writer: writer, layout: layout, now: time.Now}
}

// WithClock はファイル名に使う時刻の取得関数を差し替えます（テスト用）。
func (s *CSVSnapshotSink) WithClock(now func() time.Time) *CSVSnapshotSink {
	s.now = now
	return s
}

// RunInTx はトランザクションを持たないため、fn をそのまま実行します。
func (s *CSVSnapshotSink) RunInTx(ctx context.Context, fn func(store usecase.BarStore) error) error {
	return fn(s)
}

// Store はバーを時刻順に並べたCSVを {symbol}/{symbol}_{yyyyMMddHHmmss}.csv に書き込みます。
func (s *CSVSnapshotSink) Store(ctx context.Context, symbol string, bars []entity.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}

	body, err := encodeSnapshot(bars, s.layout)
	if err != nil {
		return domain.NewStoreError(symbol, err)
	}

	key := SnapshotKey(symbol, s.now())
	if err := s.writer.WriteObject(ctx, key, snapshotContentType, body); err != nil {
		return domain.NewStoreError(symbol, fmt.Errorf("write %s: %w", key, err))
	}
	return nil
}

// SnapshotKey はスナップショットのオブジェクトキーを返します。
func SnapshotKey(symbol string, runAt time.Time) string {
	return fmt.Sprintf("%s/%s_%s.csv", symbol, symbol, runAt.Format(snapshotStampLayout))
}

func encodeSnapshot(bars []entity.PriceBar, layout string) ([]byte, error) {
	sorted := slices.Clone(bars)
	slices.SortFunc(sorted, func(x, y entity.PriceBar) int {
		return x.Timestamp.Compare(y.Timestamp)
	})

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(snapshotHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, b := range sorted {
		row := []string{
			b.Timestamp.Format(layout),
			b.Open.String(),
			b.High.String(),
			b.Low.String(),
			b.Close.String(),
			strconv.FormatInt(b.Volume, 10),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
