package seeder

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/blackspyek/cryptosim-backend/internal/domain"
)

// Fixed UUIDs for seeded rows so repeated startups are idempotent
var (
	DemoAccountID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

	seedBTC = uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	seedETH = uuid.MustParse("00000000-0000-0000-0000-00000000000b")
	seedSOL = uuid.MustParse("00000000-0000-0000-0000-00000000000c")
)

// Seeder ensures the demo account and the default tracked assets exist
type Seeder struct {
	ledger domain.LedgerRepository
	assets domain.AssetRepository
}

// New creates a new Seeder instance
func New(ledger domain.LedgerRepository, assets domain.AssetRepository) *Seeder {
	return &Seeder{
		ledger: ledger,
		assets: assets,
	}
}

// Seed creates any missing seed rows. Existing rows are left untouched,
// including prices the poller has already refreshed.
func (s *Seeder) Seed(ctx context.Context) error {
	if err := s.seedAccount(ctx); err != nil {
		return err
	}
	return s.seedAssets(ctx)
}

func (s *Seeder) seedAccount(ctx context.Context) error {
	_, err := s.ledger.GetAccount(ctx, DemoAccountID)
	if err == nil {
		return nil
	}

	account := &domain.Account{
		ID:        DemoAccountID,
		Username:  "demo",
		Balance:   domain.InitialBalance,
		CreatedAt: time.Now().UTC(),
	}
	if err := account.Validate(); err != nil {
		return err
	}
	return s.ledger.CreateAccount(ctx, account)
}

func (s *Seeder) seedAssets(ctx context.Context) error {
	seeds := []domain.Asset{
		{ID: seedBTC, Ticker: "BTC", Name: "Bitcoin", FeedSymbol: "BTCUSDT", CurrentPrice: decimal.RequireFromString("40000.00")},
		{ID: seedETH, Ticker: "ETH", Name: "Ethereum", FeedSymbol: "ETHUSDT", CurrentPrice: decimal.RequireFromString("2200.00")},
		{ID: seedSOL, Ticker: "SOL", Name: "Solana", FeedSymbol: "SOLUSDT", CurrentPrice: decimal.RequireFromString("90.00")},
	}

	for _, seed := range seeds {
		if _, err := s.assets.GetByTicker(ctx, seed.Ticker); err == nil {
			continue
		}

		asset := seed
		asset.Active = true
		asset.CreatedAt = time.Now().UTC()

		if err := asset.Validate(); err != nil {
			return err
		}
		if err := s.assets.Create(ctx, &asset); err != nil {
			return err
		}
	}
	return nil
}
