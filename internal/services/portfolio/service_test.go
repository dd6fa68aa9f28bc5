package portfolio

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vortexhq/vortex/internal/common"
	"github.com/vortexhq/vortex/internal/interfaces"
	"github.com/vortexhq/vortex/internal/models"
)

type fakeWalletService struct {
	wallets map[string]*models.WalletRecord
}

func (f *fakeWalletService) GetWallet(_ context.Context, userID string) (*models.WalletRecord, error) {
	if w, ok := f.wallets[userID]; ok {
		return w.Clone(), nil
	}
	return &models.WalletRecord{UserID: userID}, nil
}

func (f *fakeWalletService) Track(_ context.Context, _, _ string) (*models.WalletRecord, error) {
	return nil, nil
}

func (f *fakeWalletService) Untrack(_ context.Context, _, _ string) (*models.WalletRecord, error) {
	return nil, nil
}

func (f *fakeWalletService) Subscribe(_ context.Context, _ string) (*interfaces.WalletSubscription, error) {
	return nil, nil
}

type fakeMarketService struct {
	snapshot *models.MarketSnapshot
}

func (f *fakeMarketService) Start(_ context.Context) {}
func (f *fakeMarketService) Stop()                   {}

func (f *fakeMarketService) Snapshot() *models.MarketSnapshot {
	return f.snapshot
}

func (f *fakeMarketService) CoinDetail(_ context.Context, _ string) (*models.CoinDetail, error) {
	return nil, nil
}

func newTestService(wallets map[string]*models.WalletRecord, snapshot *models.MarketSnapshot) *Service {
	return NewService(
		&fakeWalletService{wallets: wallets},
		&fakeMarketService{snapshot: snapshot},
		common.NewSilentLogger(),
	)
}

func TestComputeTotalSeededWallet(t *testing.T) {
	holdings := []models.Holding{{ID: models.NativeCoinID, Quantity: 100}}
	coins := []models.MarketCoin{models.NewNativeCoin()}

	total := ComputeTotal(holdings, coins)
	assert.InDelta(t, 125.00, total, 1e-9, "100 VEX at 1.25 values to 125.00")
}

func TestComputeTotalUnmatchedContributesZero(t *testing.T) {
	holdings := []models.Holding{
		{ID: "bitcoin", Quantity: 2},
		{ID: "unknown-coin", Quantity: 500},
	}
	coins := []models.MarketCoin{{ID: "bitcoin", CurrentPrice: 30000}}

	total := ComputeTotal(holdings, coins)
	assert.InDelta(t, 60000, total, 1e-9)
}

func TestComputeTotalEmptyInputs(t *testing.T) {
	assert.Zero(t, ComputeTotal(nil, nil))
	assert.Zero(t, ComputeTotal([]models.Holding{{ID: "vex", Quantity: 10}}, nil))
}

func TestSummaryPricesHoldings(t *testing.T) {
	wallets := map[string]*models.WalletRecord{
		"u1": {UserID: "u1", Holdings: []models.Holding{
			{ID: models.NativeCoinID, Quantity: 100},
			{ID: "bitcoin", Quantity: 0.5},
		}},
	}
	snapshot := &models.MarketSnapshot{
		Coins: []models.MarketCoin{
			models.NewNativeCoin(),
			{ID: "bitcoin", Name: "Bitcoin", Symbol: "BTC", CurrentPrice: 30000},
		},
		UpdatedAt: time.Now(),
	}
	svc := newTestService(wallets, snapshot)

	summary, err := svc.Summary(context.Background(), "u1")
	require.NoError(t, err)

	require.Len(t, summary.Holdings, 2)
	assert.Equal(t, "u1", summary.UserID)
	assert.InDelta(t, 125.00+15000, summary.TotalValue, 1e-9)
	assert.False(t, summary.Stale)

	vex := summary.Holdings[0]
	assert.Equal(t, models.NativeCoinID, vex.ID)
	assert.True(t, vex.Priced)
	assert.InDelta(t, 125.00, vex.Value, 1e-9)
	assert.Equal(t, "Vortex Coin", vex.Name)
}

func TestSummaryUnpricedHoldingFlagged(t *testing.T) {
	wallets := map[string]*models.WalletRecord{
		"u1": {UserID: "u1", Holdings: []models.Holding{
			{ID: "obscurecoin", Quantity: 42},
		}},
	}
	snapshot := &models.MarketSnapshot{
		Coins:     []models.MarketCoin{models.NewNativeCoin()},
		UpdatedAt: time.Now(),
	}
	svc := newTestService(wallets, snapshot)

	summary, err := svc.Summary(context.Background(), "u1")
	require.NoError(t, err)

	require.Len(t, summary.Holdings, 1)
	assert.False(t, summary.Holdings[0].Priced)
	assert.Zero(t, summary.Holdings[0].Value)
	assert.Zero(t, summary.TotalValue)
}

func TestSummaryStaleSnapshotFlagged(t *testing.T) {
	wallets := map[string]*models.WalletRecord{
		"u1": models.NewWalletRecord("u1"),
	}
	snapshot := &models.MarketSnapshot{
		Coins:     []models.MarketCoin{models.NewNativeCoin()},
		UpdatedAt: time.Now().Add(-10 * time.Minute),
	}
	svc := newTestService(wallets, snapshot)

	summary, err := svc.Summary(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, summary.Stale)
}

func TestSummaryMissingWalletIsEmpty(t *testing.T) {
	svc := newTestService(map[string]*models.WalletRecord{}, &models.MarketSnapshot{
		Coins:     []models.MarketCoin{models.NewNativeCoin()},
		UpdatedAt: time.Now(),
	})

	summary, err := svc.Summary(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Empty(t, summary.Holdings)
	assert.Zero(t, summary.TotalValue)
}
