package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Asset represents a tracked cryptocurrency.
// The ticker is unique and immutable once created; CurrentPrice is the last
// price persisted by the market poller and serves as a fallback valuation
// when the in-memory price cache is empty (e.g. right after a restart).
type Asset struct {
	ID           uuid.UUID
	Ticker       string
	Name         string
	FeedSymbol   string // symbol on the external exchange feed (e.g. BTCUSDT)
	CurrentPrice decimal.Decimal
	Active       bool
	CreatedAt    time.Time
}

// Validate ensures the asset adheres to domain rules
// Returns an error if validation fails
func (a *Asset) Validate() error {
	if a.Ticker == "" {
		return errors.New("asset ticker cannot be empty")
	}
	if a.Name == "" {
		return errors.New("asset name cannot be empty")
	}
	if a.FeedSymbol == "" {
		return errors.New("asset feed symbol cannot be empty")
	}
	// The feed rejects lowercase or otherwise malformed symbols, so catch
	// them before they ever reach a poll tick.
	if a.FeedSymbol != strings.ToUpper(a.FeedSymbol) {
		return errors.New("asset feed symbol must be uppercase")
	}
	if a.CurrentPrice.IsNegative() {
		return errors.New("asset price cannot be negative")
	}
	return nil
}

// PricePoint is a historical price record written on every successful
// poll tick. It backs the candle/chart surface and is never read by the
// trading core.
type PricePoint struct {
	ID         uuid.UUID
	AssetID    uuid.UUID
	Price      decimal.Decimal
	RecordedAt time.Time
}

// Kline is a single OHLCV candle returned by the external feed.
type Kline struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}
