package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/blackspyek/cryptosim-backend/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// WalletHolding is one valued position.
type WalletHolding struct {
	Ticker        string          `json:"ticker"`
	Name          string          `json:"name"`
	Quantity      decimal.Decimal `json:"amount"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	Value         decimal.Decimal `json:"value"`
	AvgBuyPrice   decimal.Decimal `json:"average_buy_price"`
	ProfitLossPct decimal.Decimal `json:"profit_loss_pct"`
	Tradable      bool            `json:"tradable"`
}

// Wallet is the full valuation of an account: cash balance plus every
// holding priced at the latest known price.
type Wallet struct {
	Username    string          `json:"username"`
	Balance     decimal.Decimal `json:"balance"`
	Holdings    []WalletHolding `json:"assets"`
	AssetsValue decimal.Decimal `json:"assets_value"`
	TotalValue  decimal.Decimal `json:"total_value"`
}

// GetWallet values the account's portfolio against the price cache.
// Pure read: total_value = balance + sum(quantity * current_price).
// Holdings in deactivated assets are still valued from the last known
// price but flagged non-tradable.
func (s *Service) GetWallet(ctx context.Context, accountID uuid.UUID) (*Wallet, error) {
	account, err := s.Ledger.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	holdings, err := s.Ledger.ListHoldings(ctx, accountID)
	if err != nil {
		return nil, err
	}

	wallet := &Wallet{
		Username: account.Username,
		Balance:  account.Balance,
		Holdings: make([]WalletHolding, 0, len(holdings)),
	}

	assetsValue := decimal.Zero
	for _, h := range holdings {
		asset, err := s.Assets.GetByID(ctx, h.AssetID)
		if err != nil {
			return nil, err
		}

		// Valuation is display-only, so the stored price is an acceptable
		// fallback while the cache warms up after a restart.
		price, ok := s.Prices.Price(asset.Ticker)
		if !ok {
			price = asset.CurrentPrice
		}

		value := h.Quantity.Mul(price)
		assetsValue = assetsValue.Add(value)

		pnl := decimal.Zero
		if h.AvgBuyPrice.IsPositive() {
			pnl = price.Sub(h.AvgBuyPrice).Div(h.AvgBuyPrice).Mul(hundred)
		}

		wallet.Holdings = append(wallet.Holdings, WalletHolding{
			Ticker:        asset.Ticker,
			Name:          asset.Name,
			Quantity:      h.Quantity,
			CurrentPrice:  price,
			Value:         value,
			AvgBuyPrice:   h.AvgBuyPrice,
			ProfitLossPct: pnl,
			Tradable:      asset.Active,
		})
	}

	wallet.AssetsValue = assetsValue
	wallet.TotalValue = account.Balance.Add(assetsValue)
	return wallet, nil
}

// ResetResult reports what an account reset removed.
type ResetResult struct {
	HoldingsDeleted     int64           `json:"deleted_portfolio_items"`
	TransactionsDeleted int64           `json:"deleted_transactions"`
	NewBalance          decimal.Decimal `json:"new_balance"`
}

// Reset clears the account's holdings and transactions and restores the
// initial endowment, atomically. Idempotent in effect; each call still
// reports how many rows were removed.
func (s *Service) Reset(ctx context.Context, accountID uuid.UUID) (*ResetResult, error) {
	mu := s.accountLock(accountID)
	mu.Lock()
	defer mu.Unlock()

	if _, err := s.Ledger.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}

	holdings, transactions, err := s.Ledger.ResetAccount(ctx, accountID, domain.InitialBalance)
	if err != nil {
		return nil, err
	}

	return &ResetResult{
		HoldingsDeleted:     holdings,
		TransactionsDeleted: transactions,
		NewBalance:          domain.InitialBalance,
	}, nil
}
