package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAsset_Validate(t *testing.T) {
	tests := []struct {
		name    string
		asset   Asset
		wantErr bool
		errMsg  string
	}{
		{
			name: "Valid asset should pass",
			asset: Asset{
				ID:           uuid.New(),
				Ticker:       "BTC",
				Name:         "Bitcoin",
				FeedSymbol:   "BTCUSDT",
				CurrentPrice: decimal.NewFromInt(50000),
				Active:       true,
			},
			wantErr: false,
		},
		{
			name: "Zero price should pass",
			asset: Asset{
				ID:         uuid.New(),
				Ticker:     "NEW",
				Name:       "Newcoin",
				FeedSymbol: "NEWUSDT",
			},
			wantErr: false,
		},
		{
			name:    "Empty ticker should fail",
			asset:   Asset{Name: "Bitcoin", FeedSymbol: "BTCUSDT"},
			wantErr: true,
			errMsg:  "asset ticker cannot be empty",
		},
		{
			name:    "Empty name should fail",
			asset:   Asset{Ticker: "BTC", FeedSymbol: "BTCUSDT"},
			wantErr: true,
			errMsg:  "asset name cannot be empty",
		},
		{
			name:    "Empty feed symbol should fail",
			asset:   Asset{Ticker: "BTC", Name: "Bitcoin"},
			wantErr: true,
			errMsg:  "asset feed symbol cannot be empty",
		},
		{
			name:    "Lowercase feed symbol should fail",
			asset:   Asset{Ticker: "BTC", Name: "Bitcoin", FeedSymbol: "btcusdt"},
			wantErr: true,
			errMsg:  "asset feed symbol must be uppercase",
		},
		{
			name: "Negative price should fail",
			asset: Asset{
				Ticker:       "BTC",
				Name:         "Bitcoin",
				FeedSymbol:   "BTCUSDT",
				CurrentPrice: decimal.NewFromInt(-1),
			},
			wantErr: true,
			errMsg:  "asset price cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.asset.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAccount_Validate(t *testing.T) {
	valid := Account{ID: uuid.New(), Username: "demo", Balance: InitialBalance}
	assert.NoError(t, valid.Validate())

	noName := Account{ID: uuid.New(), Balance: InitialBalance}
	assert.ErrorIs(t, noName.Validate(), ErrInvalidAccount)

	negative := Account{ID: uuid.New(), Username: "demo", Balance: decimal.NewFromInt(-1)}
	assert.ErrorIs(t, negative.Validate(), ErrInvalidAccount)
}

func TestHolding_Validate(t *testing.T) {
	valid := Holding{ID: uuid.New(), Quantity: decimal.NewFromInt(2), AvgBuyPrice: decimal.NewFromInt(50000)}
	assert.NoError(t, valid.Validate())

	// Zero quantity is valid in memory; it signals deletion to the repository.
	zero := Holding{ID: uuid.New(), Quantity: decimal.Zero, AvgBuyPrice: decimal.NewFromInt(50000)}
	assert.NoError(t, zero.Validate())

	negQty := Holding{ID: uuid.New(), Quantity: decimal.NewFromInt(-1)}
	assert.Error(t, negQty.Validate())

	negAvg := Holding{ID: uuid.New(), Quantity: decimal.NewFromInt(1), AvgBuyPrice: decimal.NewFromInt(-1)}
	assert.Error(t, negAvg.Validate())
}
