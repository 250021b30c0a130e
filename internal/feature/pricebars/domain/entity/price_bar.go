// Package entity defines the domain models for the pricebars feature.
package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PriceBar represents one OHLCV observation for a stock symbol over a single
// trading interval (one day for daily series, one bar for intraday series).
//
// (Symbol, Timestamp) identifies a bar; storing the same bar twice must not
// duplicate it.
type PriceBar struct {
	Symbol    string          // Stock ticker symbol (e.g., "AAPL")
	Timestamp time.Time       // Start of the interval, in market time
	Open      decimal.Decimal // Opening price
	High      decimal.Decimal // Highest price during the interval
	Low       decimal.Decimal // Lowest price during the interval
	Close     decimal.Decimal // Closing price
	Volume    int64           // Trading volume
}

// ErrInvalidBar is wrapped by Validate when a bar breaks the OHLCV invariants.
var ErrInvalidBar = errors.New("invalid price bar")

// Validate checks low <= open, close <= high and volume >= 0.
func (b PriceBar) Validate() error {
	switch {
	case b.Low.GreaterThan(b.High):
		return fmt.Errorf("%w: low %s > high %s", ErrInvalidBar, b.Low, b.High)
	case b.Open.LessThan(b.Low) || b.Open.GreaterThan(b.High):
		return fmt.Errorf("%w: open %s outside [%s, %s]", ErrInvalidBar, b.Open, b.Low, b.High)
	case b.Close.LessThan(b.Low) || b.Close.GreaterThan(b.High):
		return fmt.Errorf("%w: close %s outside [%s, %s]", ErrInvalidBar, b.Close, b.Low, b.High)
	case b.Volume < 0:
		return fmt.Errorf("%w: negative volume %d", ErrInvalidBar, b.Volume)
	}
	return nil
}
