// Package market implements the background price poller: it keeps the
// price cache fresh from the external feed and fans snapshots out to
// websocket subscribers.
package market

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/blackspyek/cryptosim-backend/internal/domain"
	"github.com/blackspyek/cryptosim-backend/internal/sysmon"
	"github.com/blackspyek/cryptosim-backend/internal/ws"
)

// Feed is the external price source.
type Feed interface {
	GetPrices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error)
}

// PriceSink receives the latest fetched prices (the price cache).
type PriceSink interface {
	Set(ticker string, price decimal.Decimal)
}

// Publisher fans events out to subscribers (the broadcast hub).
type Publisher interface {
	PublishJSON(v any) error
}

// StatusSampler reads host utilization.
type StatusSampler interface {
	Sample(ctx context.Context) (sysmon.Status, error)
}

// Poller refreshes prices for every active asset on a fixed interval.
// A transient feed error never stalls the loop or corrupts prices for
// other assets: failed fetches keep the previous cached values and the
// next tick retries.
type Poller struct {
	Assets  domain.AssetRepository
	History domain.PriceHistoryRepository
	Cache   PriceSink
	Feed    Feed
	Hub     Publisher
	Sampler StatusSampler
	Logger  *zap.Logger

	Interval     time.Duration
	FetchTimeout time.Duration
}

// Run executes the poll loop until ctx is cancelled. Each fetch runs under
// its own timeout, shorter than the interval, so a hung feed call cannot
// delay subsequent ticks indefinitely.
func (p *Poller) Run(ctx context.Context) {
	p.Logger.Info("price poller started",
		zap.Duration("interval", p.Interval),
		zap.Duration("fetch_timeout", p.FetchTimeout))

	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.Logger.Info("price poller stopped")
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	p.refreshPrices(ctx)
	p.publishStatus(ctx)
}

func (p *Poller) refreshPrices(ctx context.Context) {
	assets, err := p.Assets.List(ctx, true)
	if err != nil {
		p.Logger.Error("failed to list active assets", zap.Error(err))
		return
	}
	if len(assets) == 0 {
		return
	}

	symbols := make([]string, 0, len(assets))
	for _, a := range assets {
		symbols = append(symbols, a.FeedSymbol)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, p.FetchTimeout)
	prices, err := p.Feed.GetPrices(fetchCtx, symbols)
	cancel()
	if err != nil {
		// Keep the previous cached values; retry on the next tick.
		p.Logger.Error("feed fetch failed", zap.Error(err))
		return
	}

	now := time.Now().UTC()
	updates := make([]ws.TickerPrice, 0, len(assets))
	for _, asset := range assets {
		price, ok := prices[asset.FeedSymbol]
		if !ok {
			// A symbol missing from the response fails alone.
			p.Logger.Warn("feed returned no price",
				zap.String("ticker", asset.Ticker),
				zap.String("symbol", asset.FeedSymbol))
			continue
		}

		p.Cache.Set(asset.Ticker, price)

		if err := p.Assets.UpdatePrice(ctx, asset.ID, price); err != nil {
			p.Logger.Error("failed to persist price",
				zap.String("ticker", asset.Ticker), zap.Error(err))
		}
		point := &domain.PricePoint{
			ID:         uuid.New(),
			AssetID:    asset.ID,
			Price:      price,
			RecordedAt: now,
		}
		if err := p.History.Add(ctx, point); err != nil {
			p.Logger.Error("failed to record price history",
				zap.String("ticker", asset.Ticker), zap.Error(err))
		}

		updates = append(updates, ws.TickerPrice{
			Ticker: asset.Ticker,
			Price:  price.InexactFloat64(),
		})
	}

	if len(updates) == 0 {
		return
	}
	if err := p.Hub.PublishJSON(ws.NewMarketUpdate(updates)); err != nil {
		p.Logger.Error("failed to broadcast market update", zap.Error(err))
	}
}

func (p *Poller) publishStatus(ctx context.Context) {
	status, err := p.Sampler.Sample(ctx)
	if err != nil {
		p.Logger.Error("failed to sample host status", zap.Error(err))
		return
	}
	if err := p.Hub.PublishJSON(ws.NewServerStatus(status.CPU, status.RAM)); err != nil {
		p.Logger.Error("failed to broadcast server status", zap.Error(err))
	}
}
