// Package binance implements the external price feed client over the
// Binance public REST API.
package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/blackspyek/cryptosim-backend/internal/domain"
)

// DefaultBaseURL is the production Binance REST endpoint.
const DefaultBaseURL = "https://api.binance.com/api/v3"

const maxKlineLimit = 1000

// Client fetches spot prices and candles from the feed.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a feed client. baseURL may be overridden for tests;
// an empty string selects DefaultBaseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// GetPrices fetches current prices for the given feed symbols in one call.
// The returned map contains only the symbols the feed knew about.
func (c *Client) GetPrices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	if len(symbols) == 0 {
		return map[string]decimal.Decimal{}, nil
	}

	// The endpoint takes the symbol list as a JSON array query parameter.
	symbolsJSON, err := json.Marshal(symbols)
	if err != nil {
		return nil, fmt.Errorf("failed to encode symbols: %w", err)
	}

	q := url.Values{}
	q.Set("symbols", string(symbolsJSON))

	var payload []struct {
		Symbol string `json:"symbol"`
		Price  string `json:"price"`
	}
	if err := c.getJSON(ctx, "/ticker/price", q, &payload); err != nil {
		return nil, err
	}

	prices := make(map[string]decimal.Decimal, len(payload))
	for _, item := range payload {
		price, err := decimal.NewFromString(item.Price)
		if err != nil {
			return nil, fmt.Errorf("failed to parse price %q for %s: %w", item.Price, item.Symbol, err)
		}
		prices[item.Symbol] = price
	}
	return prices, nil
}

// GetKlines fetches OHLCV candles for one symbol. The limit is clamped to
// the feed's maximum of 1000.
func (c *Client) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]domain.Kline, error) {
	if limit <= 0 || limit > maxKlineLimit {
		limit = maxKlineLimit
	}

	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	q.Set("limit", fmt.Sprintf("%d", limit))

	// The feed returns an array of arrays:
	// [openTime, open, high, low, close, volume, ...]
	var payload [][]json.RawMessage
	if err := c.getJSON(ctx, "/klines", q, &payload); err != nil {
		return nil, err
	}

	klines := make([]domain.Kline, 0, len(payload))
	for _, row := range payload {
		if len(row) < 6 {
			return nil, fmt.Errorf("malformed kline row with %d fields", len(row))
		}

		var openTime int64
		if err := json.Unmarshal(row[0], &openTime); err != nil {
			return nil, fmt.Errorf("failed to parse kline open time: %w", err)
		}

		var k domain.Kline
		k.Time = openTime / 1000 // ms -> s
		for i, dst := range []*float64{&k.Open, &k.High, &k.Low, &k.Close, &k.Volume} {
			var s string
			if err := json.Unmarshal(row[i+1], &s); err != nil {
				return nil, fmt.Errorf("failed to parse kline field %d: %w", i+1, err)
			}
			v, err := decimal.NewFromString(s)
			if err != nil {
				return nil, fmt.Errorf("failed to parse kline field %d: %w", i+1, err)
			}
			*dst = v.InexactFloat64()
		}
		klines = append(klines, k)
	}
	return klines, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build feed request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("feed returned status %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode feed response: %w", err)
	}
	return nil
}
