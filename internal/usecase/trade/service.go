// Package trade implements the trade execution engine: it validates and
// applies buy/sell requests against the ledger, maintains the weighted
// average cost basis, values portfolios and resets accounts.
package trade

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/blackspyek/cryptosim-backend/internal/domain"
)

// PriceSource supplies the execution price. Trades always use the cached
// feed price at the instant the request is processed, never a
// client-supplied one.
type PriceSource interface {
	Price(ticker string) (decimal.Decimal, bool)
}

// Service handles trade execution, portfolio valuation and account reset
type Service struct {
	Ledger domain.LedgerRepository
	Assets domain.AssetRepository
	Prices PriceSource

	// One mutex per account: requests against the same account serialize,
	// requests against different accounts run in parallel.
	locks sync.Map // uuid.UUID -> *sync.Mutex
}

// NewService creates a new Service instance
func NewService(ledger domain.LedgerRepository, assets domain.AssetRepository, prices PriceSource) *Service {
	return &Service{
		Ledger: ledger,
		Assets: assets,
		Prices: prices,
	}
}

// Input describes one buy or sell request
type Input struct {
	AccountID uuid.UUID
	Ticker    string
	Quantity  decimal.Decimal
}

// Buy purchases quantity of the asset at the current cached price.
// Preconditions: quantity > 0, asset exists and is active, cost does not
// exceed the balance (an exact-balance buy succeeds).
func (s *Service) Buy(ctx context.Context, in Input) (*domain.Transaction, error) {
	return s.execute(ctx, in, domain.SideBuy)
}

// Sell disposes quantity of the asset at the current cached price.
// Deactivated assets remain sellable; selling the full quantity removes
// the holding.
func (s *Service) Sell(ctx context.Context, in Input) (*domain.Transaction, error) {
	return s.execute(ctx, in, domain.SideSell)
}

func (s *Service) execute(ctx context.Context, in Input, side domain.Side) (*domain.Transaction, error) {
	if in.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}

	mu := s.accountLock(in.AccountID)
	mu.Lock()
	defer mu.Unlock()

	account, err := s.Ledger.GetAccount(ctx, in.AccountID)
	if err != nil {
		return nil, err
	}

	asset, err := s.Assets.GetByTicker(ctx, in.Ticker)
	if err != nil {
		return nil, err
	}
	if side == domain.SideBuy && !asset.Active {
		return nil, domain.ErrAssetInactive
	}

	price, ok := s.Prices.Price(asset.Ticker)
	if !ok || price.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: %s", domain.ErrPriceUnavailable, asset.Ticker)
	}

	holding, err := s.Ledger.GetHolding(ctx, account.ID, asset.ID)
	if err != nil {
		return nil, err
	}

	total := in.Quantity.Mul(price)

	var newBalance decimal.Decimal
	var mutated *domain.Holding

	switch side {
	case domain.SideBuy:
		if total.GreaterThan(account.Balance) {
			return nil, fmt.Errorf("%w: have %s, need %s",
				domain.ErrInsufficientFunds, account.Balance.StringFixed(2), total.StringFixed(2))
		}
		newBalance = account.Balance.Sub(total)
		mutated = buyHolding(holding, account.ID, asset.ID, in.Quantity, price)

	case domain.SideSell:
		owned := decimal.Zero
		if holding != nil {
			owned = holding.Quantity
		}
		if owned.LessThan(in.Quantity) {
			return nil, fmt.Errorf("%w: own %s %s, requested %s",
				domain.ErrInsufficientHoldings, owned, asset.Ticker, in.Quantity)
		}
		newBalance = account.Balance.Add(total)
		mutated = &domain.Holding{
			ID:          holding.ID,
			AccountID:   holding.AccountID,
			AssetID:     holding.AssetID,
			Quantity:    holding.Quantity.Sub(in.Quantity),
			AvgBuyPrice: holding.AvgBuyPrice, // cost basis changes on buys only
		}
	}

	transaction := &domain.Transaction{
		ID:         uuid.New(),
		AccountID:  account.ID,
		AssetID:    asset.ID,
		Side:       side,
		Quantity:   in.Quantity,
		Price:      price,
		ExecutedAt: time.Now().UTC(),
	}
	if err := transaction.Validate(); err != nil {
		return nil, err
	}

	err = s.Ledger.ApplyTrade(ctx, domain.TradeMutation{
		AccountID:   account.ID,
		NewBalance:  newBalance,
		Holding:     mutated,
		Transaction: transaction,
	})
	if err != nil {
		return nil, err
	}

	return transaction, nil
}

// buyHolding folds a buy into the holding, recomputing the quantity
// weighted average cost basis:
//
//	new_avg = (old_qty*old_avg + qty*price) / (old_qty + qty)
func buyHolding(holding *domain.Holding, accountID, assetID uuid.UUID, quantity, price decimal.Decimal) *domain.Holding {
	if holding == nil {
		return &domain.Holding{
			ID:          uuid.New(),
			AccountID:   accountID,
			AssetID:     assetID,
			Quantity:    quantity,
			AvgBuyPrice: price,
		}
	}

	newQty := holding.Quantity.Add(quantity)
	oldCost := holding.Quantity.Mul(holding.AvgBuyPrice)
	newCost := quantity.Mul(price)

	return &domain.Holding{
		ID:          holding.ID,
		AccountID:   holding.AccountID,
		AssetID:     holding.AssetID,
		Quantity:    newQty,
		AvgBuyPrice: oldCost.Add(newCost).Div(newQty),
	}
}

func (s *Service) accountLock(accountID uuid.UUID) *sync.Mutex {
	if mu, ok := s.locks.Load(accountID); ok {
		return mu.(*sync.Mutex)
	}
	mu, _ := s.locks.LoadOrStore(accountID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
