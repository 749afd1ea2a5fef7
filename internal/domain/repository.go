package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TradeMutation is the full effect of one executed trade, applied by the
// ledger repository as a single indivisible unit: the balance change, the
// holding upsert (or delete when Holding.Quantity is zero), and the
// transaction append either all land or none do.
type TradeMutation struct {
	AccountID   uuid.UUID
	NewBalance  decimal.Decimal
	Holding     *Holding
	Transaction *Transaction
}

// LedgerRepository is the durable record of balances, holdings and
// transactions. All mutations pass through the trade execution engine.
type LedgerRepository interface {
	// GetAccount retrieves an account by its ID
	GetAccount(ctx context.Context, id uuid.UUID) (*Account, error)

	// CreateAccount creates a new account
	CreateAccount(ctx context.Context, account *Account) error

	// GetHolding retrieves the holding for an (account, asset) pair.
	// Returns (nil, nil) when the account holds none of the asset.
	GetHolding(ctx context.Context, accountID, assetID uuid.UUID) (*Holding, error)

	// ListHoldings retrieves all holdings for an account
	ListHoldings(ctx context.Context, accountID uuid.UUID) ([]*Holding, error)

	// ApplyTrade applies a trade mutation atomically.
	// A holding with zero quantity is deleted rather than stored.
	ApplyTrade(ctx context.Context, m TradeMutation) error

	// ResetAccount deletes all holdings and transactions for the account
	// and restores the balance, all in one atomic unit. Returns how many
	// holdings and transactions were removed.
	ResetAccount(ctx context.Context, accountID uuid.UUID, balance decimal.Decimal) (holdings, transactions int64, err error)
}

// AssetRepository defines the interface for asset persistence operations
type AssetRepository interface {
	// GetByID retrieves an asset by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Asset, error)

	// GetByTicker retrieves an asset by its ticker
	GetByTicker(ctx context.Context, ticker string) (*Asset, error)

	// List retrieves all assets; when activeOnly is true, only active ones
	List(ctx context.Context, activeOnly bool) ([]*Asset, error)

	// Create creates a new asset
	Create(ctx context.Context, asset *Asset) error

	// Update updates the asset's name, feed symbol and active flag
	Update(ctx context.Context, asset *Asset) error

	// UpdatePrice persists the latest fetched price for an asset
	UpdatePrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) error

	// Delete removes an asset
	Delete(ctx context.Context, id uuid.UUID) error

	// HasHoldings reports whether any account currently holds the asset
	HasHoldings(ctx context.Context, id uuid.UUID) (bool, error)
}

// PriceHistoryRepository defines the interface for price history persistence
type PriceHistoryRepository interface {
	// Add creates a new price history entry
	Add(ctx context.Context, point *PricePoint) error
}
