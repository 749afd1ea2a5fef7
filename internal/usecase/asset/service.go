// Package asset implements the admin surface for tracked assets and the
// candle passthrough used by the chart feature.
package asset

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/blackspyek/cryptosim-backend/internal/cache"
	"github.com/blackspyek/cryptosim-backend/internal/domain"
)

// PriceSource supplies the latest cached price for display.
type PriceSource interface {
	Price(ticker string) (decimal.Decimal, bool)
}

// KlineFeed fetches historical candles from the external feed.
type KlineFeed interface {
	GetKlines(ctx context.Context, symbol, interval string, limit int) ([]domain.Kline, error)
}

// Service handles asset CRUD and kline retrieval
type Service struct {
	Assets domain.AssetRepository
	Prices PriceSource
	Feed   KlineFeed
	Klines *cache.TTL
}

// NewService creates a new Service instance
func NewService(assets domain.AssetRepository, prices PriceSource, feed KlineFeed, klines *cache.TTL) *Service {
	return &Service{
		Assets: assets,
		Prices: prices,
		Feed:   feed,
		Klines: klines,
	}
}

// Quote is an active asset with its latest known price.
type Quote struct {
	ID     uuid.UUID       `json:"id"`
	Ticker string          `json:"ticker"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
}

// ListActive returns every active asset priced from the cache, falling
// back to the stored price while the cache warms up.
func (s *Service) ListActive(ctx context.Context) ([]Quote, error) {
	assets, err := s.Assets.List(ctx, true)
	if err != nil {
		return nil, err
	}

	quotes := make([]Quote, 0, len(assets))
	for _, a := range assets {
		price, ok := s.Prices.Price(a.Ticker)
		if !ok {
			price = a.CurrentPrice
		}
		quotes = append(quotes, Quote{ID: a.ID, Ticker: a.Ticker, Name: a.Name, Price: price})
	}
	return quotes, nil
}

// ListAll returns every asset, active or not (admin view).
func (s *Service) ListAll(ctx context.Context) ([]*domain.Asset, error) {
	return s.Assets.List(ctx, false)
}

// Get retrieves a single asset by ID
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	return s.Assets.GetByID(ctx, id)
}

// CreateInput describes a new tracked asset
type CreateInput struct {
	Ticker     string
	Name       string
	FeedSymbol string
}

// Create registers a new tracked asset. It starts active with no price;
// the poller picks it up on the next tick.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Asset, error) {
	asset := &domain.Asset{
		ID:           uuid.New(),
		Ticker:       strings.ToUpper(strings.TrimSpace(in.Ticker)),
		Name:         strings.TrimSpace(in.Name),
		FeedSymbol:   strings.ToUpper(strings.TrimSpace(in.FeedSymbol)),
		CurrentPrice: decimal.Zero,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}

	if err := asset.Validate(); err != nil {
		return nil, err
	}

	if err := s.Assets.Create(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// UpdateInput describes the mutable fields of an asset. The ticker is
// immutable once created.
type UpdateInput struct {
	Name       string
	FeedSymbol string
	Active     bool
}

// Update modifies an existing asset
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*domain.Asset, error) {
	asset, err := s.Assets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	asset.Name = strings.TrimSpace(in.Name)
	asset.FeedSymbol = strings.ToUpper(strings.TrimSpace(in.FeedSymbol))
	asset.Active = in.Active

	if err := asset.Validate(); err != nil {
		return nil, err
	}

	if err := s.Assets.Update(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// Toggle flips the asset's active flag. Deactivation makes the asset
// immediately unbuyable: the trade engine re-reads the asset row per
// request and the poller re-lists active assets per tick, so no restart
// is needed. Existing holdings stay sellable and valuable.
func (s *Service) Toggle(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	asset, err := s.Assets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	asset.Active = !asset.Active
	if err := s.Assets.Update(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// Delete removes an asset that no account holds
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	held, err := s.Assets.HasHoldings(ctx, id)
	if err != nil {
		return err
	}
	if held {
		return domain.ErrAssetInUse
	}
	return s.Assets.Delete(ctx, id)
}

// GetKlines returns candles for an asset, cached briefly so chart refreshes
// do not hammer the feed.
func (s *Service) GetKlines(ctx context.Context, id uuid.UUID, interval string, limit int) ([]domain.Kline, error) {
	asset, err := s.Assets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("klines:%s:%s:%d", asset.FeedSymbol, interval, limit)
	if cached, ok := s.Klines.Get(key); ok {
		if klines, ok := cached.([]domain.Kline); ok {
			return klines, nil
		}
	}

	klines, err := s.Feed.GetKlines(ctx, asset.FeedSymbol, interval, limit)
	if err != nil {
		return nil, err
	}

	s.Klines.Set(key, klines)
	return klines, nil
}
