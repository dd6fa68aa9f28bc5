package marketdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vortexhq/vortex/internal/common"
	"github.com/vortexhq/vortex/internal/models"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(common.NewSilentLogger(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreGetEmpty(t *testing.T) {
	store := testStore(t)

	_, err := store.GetSnapshot(context.Background())
	assert.Error(t, err)
}

func TestStoreSaveAndGet(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	snap := &models.MarketSnapshot{
		Coins: []models.MarketCoin{
			{ID: "bitcoin", Name: "Bitcoin", Symbol: "btc", CurrentPrice: 60000},
			{ID: "ethereum", Name: "Ethereum", Symbol: "eth", CurrentPrice: 3000},
		},
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, store.SaveSnapshot(ctx, snap))

	got, err := store.GetSnapshot(ctx)
	require.NoError(t, err)
	require.Len(t, got.Coins, 2)
	assert.Equal(t, "bitcoin", got.Coins[0].ID)
	assert.Equal(t, snap.UpdatedAt, got.UpdatedAt)
}

func TestStoreSaveOverwrite(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveSnapshot(ctx, &models.MarketSnapshot{
		Coins: []models.MarketCoin{{ID: "bitcoin"}},
	}))
	require.NoError(t, store.SaveSnapshot(ctx, &models.MarketSnapshot{
		Coins: []models.MarketCoin{{ID: "ethereum"}, {ID: "solana"}},
	}))

	got, err := store.GetSnapshot(ctx)
	require.NoError(t, err)
	require.Len(t, got.Coins, 2)
	assert.Equal(t, "ethereum", got.Coins[0].ID)
}
