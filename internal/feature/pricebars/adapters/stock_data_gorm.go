package adapters

import (
	"context"
	"errors"
	"time"

	"stock_ingest/internal/feature/pricebars/domain"
	"stock_ingest/internal/feature/pricebars/domain/entity"
	"stock_ingest/internal/feature/pricebars/usecase"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// stockDataGorm は stock_data テーブルへの RelationalSink 実装です。
// 同じ (symbol, timestamp) の行が既に存在する場合は何もしません（先に保存した行が残ります）。
type stockDataGorm struct {
	db *gorm.DB
}

var (
	_ usecase.BarSink  = (*stockDataGorm)(nil)
	_ usecase.BarStore = (*stockDataGorm)(nil)
)

func NewStockDataRepository(db *gorm.DB) *stockDataGorm {
	return &stockDataGorm{db: db}
}

// StockDataModel maps the stock_data table. (symbol, timestamp) is the identity.
type StockDataModel struct {
	Symbol     string          `gorm:"type:text;primaryKey"`
	Timestamp  time.Time       `gorm:"column:timestamp;type:timestamp;primaryKey"`
	OpenPrice  decimal.Decimal `gorm:"type:numeric(18,6);not null"`
	HighPrice  decimal.Decimal `gorm:"type:numeric(18,6);not null"`
	LowPrice   decimal.Decimal `gorm:"type:numeric(18,6);not null"`
	ClosePrice decimal.Decimal `gorm:"type:numeric(18,6);not null"`
	Volume     int64           `gorm:"type:bigint;not null;check:volume >= 0"`
}

func (StockDataModel) TableName() string {
	return "stock_data"
}

// toModel はタイムスタンプを市場時刻の壁時計のまま（UTCラベルで）保存します。
func toModel(b entity.PriceBar) StockDataModel {
	ts := b.Timestamp
	return StockDataModel{
		Symbol:     b.Symbol,
		Timestamp:  time.Date(ts.Year(), ts.Month(), ts.Day(), ts.Hour(), ts.Minute(), ts.Second(), ts.Nanosecond(), time.UTC),
		OpenPrice:  b.Open,
		HighPrice:  b.High,
		LowPrice:   b.Low,
		ClosePrice: b.Close,
		Volume:     b.Volume,
	}
}

// RunInTx は1回の実行を1つのトランザクションで囲みます。
// fn が nil を返した場合のみコミットし、エラーまたは panic の場合はロールバックします。
func (r *stockDataGorm) RunInTx(ctx context.Context, fn func(store usecase.BarStore) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&stockDataGorm{db: tx})
	})
}

// Store は1銘柄分のバーを一括で挿入します。
// トランザクション内で呼ばれた場合はセーブポイントを使うため、失敗してもこの銘柄の行だけが破棄されます。
func (r *stockDataGorm) Store(ctx context.Context, symbol string, bars []entity.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}
	ms := make([]StockDataModel, 0, len(bars))
	for _, b := range bars {
		b.Symbol = symbol
		ms = append(ms, toModel(b))
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "symbol"}, {Name: "timestamp"}},
			DoNothing: true,
		}).Create(&ms).Error
	})
	if err != nil {
		se := domain.NewStoreError(symbol, err)
		se.Code = sqlState(err)
		return se
	}
	return nil
}

// sqlState は PostgreSQL のエラーコードを返します。PostgreSQL 以外のエラーでは空文字です。
func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
