package seeder

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/blackspyek/cryptosim-backend/internal/domain"
)

// MockLedgerRepository is a mock implementation of LedgerRepository for testing
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockLedgerRepository) CreateAccount(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockLedgerRepository) GetHolding(ctx context.Context, accountID, assetID uuid.UUID) (*domain.Holding, error) {
	args := m.Called(ctx, accountID, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Holding), args.Error(1)
}

func (m *MockLedgerRepository) ListHoldings(ctx context.Context, accountID uuid.UUID) ([]*domain.Holding, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Holding), args.Error(1)
}

func (m *MockLedgerRepository) ApplyTrade(ctx context.Context, mutation domain.TradeMutation) error {
	args := m.Called(ctx, mutation)
	return args.Error(0)
}

func (m *MockLedgerRepository) ResetAccount(ctx context.Context, accountID uuid.UUID, balance decimal.Decimal) (int64, int64, error) {
	args := m.Called(ctx, accountID, balance)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

// MockAssetRepository is a mock implementation of AssetRepository for testing
type MockAssetRepository struct {
	mock.Mock
}

func (m *MockAssetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *MockAssetRepository) GetByTicker(ctx context.Context, ticker string) (*domain.Asset, error) {
	args := m.Called(ctx, ticker)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *MockAssetRepository) List(ctx context.Context, activeOnly bool) ([]*domain.Asset, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Asset), args.Error(1)
}

func (m *MockAssetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *MockAssetRepository) Update(ctx context.Context, asset *domain.Asset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *MockAssetRepository) UpdatePrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) error {
	args := m.Called(ctx, id, price)
	return args.Error(0)
}

func (m *MockAssetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAssetRepository) HasHoldings(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func TestSeed_FreshDatabaseCreatesEverything(t *testing.T) {
	ctx := context.Background()
	ledger := new(MockLedgerRepository)
	assets := new(MockAssetRepository)

	ledger.On("GetAccount", ctx, DemoAccountID).Return(nil, domain.ErrAccountNotFound)

	var createdAccount *domain.Account
	ledger.On("CreateAccount", ctx, mock.AnythingOfType("*domain.Account")).
		Run(func(args mock.Arguments) { createdAccount = args.Get(1).(*domain.Account) }).
		Return(nil)

	for _, ticker := range []string{"BTC", "ETH", "SOL"} {
		assets.On("GetByTicker", ctx, ticker).Return(nil, domain.ErrUnknownAsset)
	}

	var createdAssets []*domain.Asset
	assets.On("Create", ctx, mock.AnythingOfType("*domain.Asset")).
		Run(func(args mock.Arguments) { createdAssets = append(createdAssets, args.Get(1).(*domain.Asset)) }).
		Return(nil)

	err := New(ledger, assets).Seed(ctx)

	require.NoError(t, err)
	require.NotNil(t, createdAccount)
	assert.Equal(t, DemoAccountID, createdAccount.ID)
	assert.Equal(t, "demo", createdAccount.Username)
	assert.True(t, createdAccount.Balance.Equal(domain.InitialBalance))

	require.Len(t, createdAssets, 3)
	for _, a := range createdAssets {
		assert.True(t, a.Active)
	}
	assert.Equal(t, "BTCUSDT", createdAssets[0].FeedSymbol)
}

func TestSeed_ExistingRowsUntouched(t *testing.T) {
	ctx := context.Background()
	ledger := new(MockLedgerRepository)
	assets := new(MockAssetRepository)

	ledger.On("GetAccount", ctx, DemoAccountID).Return(&domain.Account{
		ID:       DemoAccountID,
		Username: "demo",
		Balance:  decimal.NewFromInt(42),
	}, nil)

	for _, ticker := range []string{"BTC", "ETH", "SOL"} {
		assets.On("GetByTicker", ctx, ticker).Return(&domain.Asset{
			ID:     uuid.New(),
			Ticker: ticker,
		}, nil)
	}

	err := New(ledger, assets).Seed(ctx)

	require.NoError(t, err)
	ledger.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything)
	assets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSeed_PartialAssetSetBackfilled(t *testing.T) {
	ctx := context.Background()
	ledger := new(MockLedgerRepository)
	assets := new(MockAssetRepository)

	ledger.On("GetAccount", ctx, DemoAccountID).Return(&domain.Account{
		ID: DemoAccountID, Username: "demo", Balance: domain.InitialBalance,
	}, nil)

	assets.On("GetByTicker", ctx, "BTC").Return(&domain.Asset{ID: uuid.New(), Ticker: "BTC"}, nil)
	assets.On("GetByTicker", ctx, "ETH").Return(nil, domain.ErrUnknownAsset)
	assets.On("GetByTicker", ctx, "SOL").Return(&domain.Asset{ID: uuid.New(), Ticker: "SOL"}, nil)

	var created []*domain.Asset
	assets.On("Create", ctx, mock.AnythingOfType("*domain.Asset")).
		Run(func(args mock.Arguments) { created = append(created, args.Get(1).(*domain.Asset)) }).
		Return(nil)

	err := New(ledger, assets).Seed(ctx)

	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "ETH", created[0].Ticker)
}

func TestSeed_AccountCreateFailureAborts(t *testing.T) {
	ctx := context.Background()
	ledger := new(MockLedgerRepository)
	assets := new(MockAssetRepository)

	ledger.On("GetAccount", ctx, DemoAccountID).Return(nil, domain.ErrAccountNotFound)
	ledger.On("CreateAccount", ctx, mock.Anything).Return(errors.New("connection lost"))

	err := New(ledger, assets).Seed(ctx)

	assert.Error(t, err)
	assets.AssertNotCalled(t, "GetByTicker", mock.Anything, mock.Anything)
}
