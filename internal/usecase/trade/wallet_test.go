package trade

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackspyek/cryptosim-backend/internal/domain"
)

func TestGetWallet_ValuesHoldingsFromCache(t *testing.T) {
	ctx := context.Background()

	ledger := new(MockLedgerRepository)
	assets := new(MockAssetRepository)
	service := NewService(ledger, assets, stubPrices{"BTC": dec("60000")})

	accountID := uuid.New()
	account := &domain.Account{
		ID:        accountID,
		Username:  "demo",
		Balance:   dec("40000"),
		CreatedAt: time.Now(),
	}

	btc := &domain.Asset{
		ID:           uuid.New(),
		Ticker:       "BTC",
		Name:         "Bitcoin",
		FeedSymbol:   "BTCUSDT",
		CurrentPrice: dec("55000"),
		Active:       true,
	}
	// No live quote for SOL, and the asset was deactivated by an admin.
	sol := &domain.Asset{
		ID:           uuid.New(),
		Ticker:       "SOL",
		Name:         "Solana",
		FeedSymbol:   "SOLUSDT",
		CurrentPrice: dec("90"),
		Active:       false,
	}

	holdings := []*domain.Holding{
		{ID: uuid.New(), AccountID: accountID, AssetID: btc.ID, Quantity: dec("1"), AvgBuyPrice: dec("50000")},
		{ID: uuid.New(), AccountID: accountID, AssetID: sol.ID, Quantity: dec("10"), AvgBuyPrice: dec("100")},
	}

	ledger.On("GetAccount", ctx, accountID).Return(account, nil)
	ledger.On("ListHoldings", ctx, accountID).Return(holdings, nil)
	assets.On("GetByID", ctx, btc.ID).Return(btc, nil)
	assets.On("GetByID", ctx, sol.ID).Return(sol, nil)

	wallet, err := service.GetWallet(ctx, accountID)

	require.NoError(t, err)
	assert.Equal(t, "demo", wallet.Username)
	require.Len(t, wallet.Holdings, 2)

	btcPos := wallet.Holdings[0]
	assert.Equal(t, "BTC", btcPos.Ticker)
	assert.True(t, btcPos.CurrentPrice.Equal(dec("60000")), "cached price wins over stored")
	assert.True(t, btcPos.Value.Equal(dec("60000")))
	// (60000 - 50000) / 50000 * 100 = +20%
	assert.True(t, btcPos.ProfitLossPct.Equal(dec("20")), "expected +20%%, got %s", btcPos.ProfitLossPct)
	assert.True(t, btcPos.Tradable)

	solPos := wallet.Holdings[1]
	assert.True(t, solPos.CurrentPrice.Equal(dec("90")), "falls back to stored price without a quote")
	assert.True(t, solPos.Value.Equal(dec("900")))
	assert.False(t, solPos.Tradable, "deactivated asset is valued but not tradable")
	assert.True(t, solPos.ProfitLossPct.Equal(dec("-10")))

	assert.True(t, wallet.AssetsValue.Equal(dec("60900")))
	// total = balance + assets value
	assert.True(t, wallet.TotalValue.Equal(dec("100900")))
}

func TestGetWallet_EmptyPortfolio(t *testing.T) {
	ctx := context.Background()

	ledger := new(MockLedgerRepository)
	assets := new(MockAssetRepository)
	service := NewService(ledger, assets, stubPrices{})

	accountID := uuid.New()
	ledger.On("GetAccount", ctx, accountID).Return(&domain.Account{
		ID:       accountID,
		Username: "demo",
		Balance:  domain.InitialBalance,
	}, nil)
	ledger.On("ListHoldings", ctx, accountID).Return([]*domain.Holding{}, nil)

	wallet, err := service.GetWallet(ctx, accountID)

	require.NoError(t, err)
	assert.Empty(t, wallet.Holdings)
	assert.True(t, wallet.AssetsValue.IsZero())
	assert.True(t, wallet.TotalValue.Equal(domain.InitialBalance))
}

func TestGetWallet_ZeroAvgPriceSkipsPnl(t *testing.T) {
	ctx := context.Background()

	ledger := new(MockLedgerRepository)
	assets := new(MockAssetRepository)
	service := NewService(ledger, assets, stubPrices{"BTC": dec("60000")})

	accountID := uuid.New()
	btc := &domain.Asset{ID: uuid.New(), Ticker: "BTC", Name: "Bitcoin", FeedSymbol: "BTCUSDT", Active: true}

	ledger.On("GetAccount", ctx, accountID).Return(&domain.Account{ID: accountID, Username: "demo", Balance: dec("0")}, nil)
	ledger.On("ListHoldings", ctx, accountID).Return([]*domain.Holding{
		{ID: uuid.New(), AccountID: accountID, AssetID: btc.ID, Quantity: dec("1"), AvgBuyPrice: dec("0")},
	}, nil)
	assets.On("GetByID", ctx, btc.ID).Return(btc, nil)

	wallet, err := service.GetWallet(ctx, accountID)

	require.NoError(t, err)
	assert.True(t, wallet.Holdings[0].ProfitLossPct.IsZero())
}
