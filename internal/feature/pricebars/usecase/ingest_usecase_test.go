package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"stock_ingest/internal/feature/pricebars/domain"
	"stock_ingest/internal/feature/pricebars/domain/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ErrDB    = errors.New("database error")
	ErrBegin = errors.New("begin failed")
)

// mockMarketRepository is a mock implementation of the MarketRepository interface.
type mockMarketRepository struct {
	FetchFunc  func(ctx context.Context, symbol string, window entity.FetchWindow) entity.FetchResult
	FetchCalls []string
}

func (m *mockMarketRepository) Fetch(ctx context.Context, symbol string, window entity.FetchWindow) entity.FetchResult {
	m.FetchCalls = append(m.FetchCalls, symbol)
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, symbol, window)
	}
	return entity.Failure(errors.New("FetchFunc is not implemented"))
}

// mockBarSink is a mock implementation of BarSink and BarStore.
type mockBarSink struct {
	BeginErr   error
	StoreFunc  func(ctx context.Context, symbol string, bars []entity.PriceBar) error
	StoreCalls []string
	TxResult   error
}

func (m *mockBarSink) RunInTx(ctx context.Context, fn func(store BarStore) error) error {
	if m.BeginErr != nil {
		return m.BeginErr
	}
	m.TxResult = fn(m)
	return m.TxResult
}

func (m *mockBarSink) Store(ctx context.Context, symbol string, bars []entity.PriceBar) error {
	m.StoreCalls = append(m.StoreCalls, symbol)
	if m.StoreFunc != nil {
		return m.StoreFunc(ctx, symbol, bars)
	}
	return nil
}

func testBar(symbol string) entity.PriceBar {
	return entity.PriceBar{
		Symbol:    symbol,
		Timestamp: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Open:      decimal.RequireFromString("185.0"),
		High:      decimal.RequireFromString("186.0"),
		Low:       decimal.RequireFromString("184.0"),
		Close:     decimal.RequireFromString("185.5"),
		Volume:    1000000,
	}
}

func TestIngestUsecase_ingestOne(t *testing.T) {
	ctx := context.Background()
	window := entity.SingleDay(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))

	testCases := []struct {
		name          string
		fetchResult   entity.FetchResult
		storeErr      error
		wantStatus    SymbolStatus
		wantBars      int
		wantStoreCall bool
		wantErr       error
	}{
		{
			name:          "success: bars are stored",
			fetchResult:   entity.Success([]entity.PriceBar{testBar("AAPL"), testBar("AAPL")}),
			wantStatus:    StatusSucceeded,
			wantBars:      2,
			wantStoreCall: true,
		},
		{
			name:        "empty: store is skipped",
			fetchResult: entity.Empty(),
			wantStatus:  StatusEmpty,
		},
		{
			name:        "failure: API error is recorded",
			fetchResult: entity.Failure(domain.NewAPIError("AAPL", "Invalid API call")),
			wantStatus:  StatusFailed,
			wantErr:     domain.ErrAPI,
		},
		{
			name:          "failure: store error is recorded",
			fetchResult:   entity.Success([]entity.PriceBar{testBar("AAPL")}),
			storeErr:      domain.NewStoreError("AAPL", ErrDB),
			wantStatus:    StatusFailed,
			wantStoreCall: true,
			wantErr:       domain.ErrStore,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			market := &mockMarketRepository{
				FetchFunc: func(ctx context.Context, symbol string, w entity.FetchWindow) entity.FetchResult {
					assert.Equal(t, "AAPL", symbol)
					assert.Equal(t, window, w)
					return tc.fetchResult
				},
			}
			sink := &mockBarSink{
				StoreFunc: func(ctx context.Context, symbol string, bars []entity.PriceBar) error {
					return tc.storeErr
				},
			}

			uc := NewIngestUsecase(market, sink, window)
			got := uc.ingestOne(ctx, sink, "AAPL")

			assert.Equal(t, "AAPL", got.Symbol)
			assert.Equal(t, tc.wantStatus, got.Status)
			assert.Equal(t, tc.wantBars, got.Bars)
			assert.Equal(t, tc.wantStoreCall, len(sink.StoreCalls) == 1)
			if tc.wantErr != nil {
				assert.ErrorIs(t, got.Err, tc.wantErr)
			} else {
				assert.NoError(t, got.Err)
			}
		})
	}
}

func TestIngestUsecase_IngestAll(t *testing.T) {
	ctx := context.Background()
	window := entity.LastNDays(30)

	testCases := []struct {
		name          string
		symbols       []string
		fetch         func(symbol string) entity.FetchResult
		store         func(symbol string) error
		wantFetches   []string
		wantStores    []string
		wantSucceeded int
		wantEmpty     int
		wantFailed    int
	}{
		{
			name:    "success: every symbol stored",
			symbols: []string{"META", "AAPL", "AMZN"},
			fetch: func(symbol string) entity.FetchResult {
				return entity.Success([]entity.PriceBar{testBar(symbol)})
			},
			wantFetches:   []string{"META", "AAPL", "AMZN"},
			wantStores:    []string{"META", "AAPL", "AMZN"},
			wantSucceeded: 3,
		},
		{
			name:        "success: empty symbol list",
			symbols:     []string{},
			wantFetches: nil,
			wantStores:  nil,
		},
		{
			name:    "continues processing when some symbols fail or are empty",
			symbols: []string{"AAPL", "INVALID", "NFLX", "GOOGL"},
			fetch: func(symbol string) entity.FetchResult {
				switch symbol {
				case "INVALID":
					return entity.Failure(domain.NewAPIError(symbol, "Invalid API call"))
				case "NFLX":
					return entity.Empty()
				}
				return entity.Success([]entity.PriceBar{testBar(symbol)})
			},
			wantFetches:   []string{"AAPL", "INVALID", "NFLX", "GOOGL"},
			wantStores:    []string{"AAPL", "GOOGL"},
			wantSucceeded: 2,
			wantEmpty:     1,
			wantFailed:    1,
		},
		{
			name:    "continues processing when Store fails",
			symbols: []string{"AAPL", "GOOGL"},
			fetch: func(symbol string) entity.FetchResult {
				return entity.Success([]entity.PriceBar{testBar(symbol)})
			},
			store: func(symbol string) error {
				if symbol == "AAPL" {
					return domain.NewStoreError(symbol, ErrDB)
				}
				return nil
			},
			wantFetches:   []string{"AAPL", "GOOGL"},
			wantStores:    []string{"AAPL", "GOOGL"},
			wantSucceeded: 1,
			wantFailed:    1,
		},
		{
			name:    "duplicate symbols are fetched once",
			symbols: []string{"AAPL", "AAPL", "META"},
			fetch: func(symbol string) entity.FetchResult {
				return entity.Success([]entity.PriceBar{testBar(symbol)})
			},
			wantFetches:   []string{"AAPL", "META"},
			wantStores:    []string{"AAPL", "META"},
			wantSucceeded: 2,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			market := &mockMarketRepository{
				FetchFunc: func(ctx context.Context, symbol string, w entity.FetchWindow) entity.FetchResult {
					return tc.fetch(symbol)
				},
			}
			sink := &mockBarSink{
				StoreFunc: func(ctx context.Context, symbol string, bars []entity.PriceBar) error {
					if tc.store != nil {
						return tc.store(symbol)
					}
					return nil
				},
			}

			uc := NewIngestUsecase(market, sink, window)
			summary, err := uc.IngestAll(ctx, tc.symbols)

			require.NoError(t, err)
			assert.Equal(t, tc.wantFetches, market.FetchCalls)
			assert.Equal(t, tc.wantStores, sink.StoreCalls)
			assert.Equal(t, tc.wantSucceeded, summary.Succeeded)
			assert.Equal(t, tc.wantEmpty, summary.Empty)
			assert.Equal(t, tc.wantFailed, summary.Failed)
			assert.Len(t, summary.Outcomes, len(tc.wantFetches))
			assert.Equal(t, tc.wantFailed == 0, summary.OK())
			// per-symbol failures never abort the shared scope
			assert.NoError(t, sink.TxResult)
		})
	}
}

func TestIngestUsecase_IngestAll_BeginFailureIsFatal(t *testing.T) {
	market := &mockMarketRepository{}
	sink := &mockBarSink{BeginErr: ErrBegin}

	uc := NewIngestUsecase(market, sink, entity.LastNDays(30))
	summary, err := uc.IngestAll(context.Background(), []string{"AAPL", "META"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBegin)
	assert.Empty(t, market.FetchCalls, "no symbol should be attempted")
	assert.Empty(t, summary.Outcomes)
}
