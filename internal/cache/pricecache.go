package cache

import (
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Quote is the last known price for one asset.
type Quote struct {
	Ticker string
	Price  decimal.Decimal
	At     time.Time
}

// PriceCache holds the latest fetched price per ticker. The market poller
// is its only writer; readers receive copies and never observe a partially
// written entry. A fetch failure leaves the previous quote in place, so an
// entry is only ever the last good price.
type PriceCache struct {
	mu     sync.RWMutex
	quotes map[string]Quote
}

func NewPriceCache() *PriceCache {
	return &PriceCache{quotes: make(map[string]Quote)}
}

// Set stores the latest price for a ticker.
func (c *PriceCache) Set(ticker string, price decimal.Decimal) {
	c.mu.Lock()
	c.quotes[ticker] = Quote{Ticker: ticker, Price: price, At: time.Now()}
	c.mu.Unlock()
}

// Get returns the last quote for a ticker.
func (c *PriceCache) Get(ticker string) (Quote, bool) {
	c.mu.RLock()
	q, ok := c.quotes[ticker]
	c.mu.RUnlock()
	return q, ok
}

// Price returns just the last price for a ticker.
func (c *PriceCache) Price(ticker string) (decimal.Decimal, bool) {
	q, ok := c.Get(ticker)
	return q.Price, ok
}

// Snapshot returns a copy of all quotes, sorted by ticker so broadcast
// payloads are deterministic.
func (c *PriceCache) Snapshot() []Quote {
	c.mu.RLock()
	out := make([]Quote, 0, len(c.quotes))
	for _, q := range c.quotes {
		out = append(out, q)
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })
	return out
}
