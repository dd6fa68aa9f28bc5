package surrealdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vortexhq/vortex/internal/models"
)

func TestWalletStoreSaveAndGet(t *testing.T) {
	db := testDB(t)
	store := NewWalletStore(db, testLogger())
	ctx := context.Background()

	wallet := models.NewWalletRecord("w1")
	require.NoError(t, store.SaveWallet(ctx, wallet))

	got, err := store.GetWallet(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, "w1", got.UserID)
	require.Len(t, got.Holdings, 1)
	assert.Equal(t, models.NativeCoinID, got.Holdings[0].ID)
	assert.Equal(t, float64(models.SeedQuantity), got.Holdings[0].Quantity)
}

func TestWalletStoreGetNotFound(t *testing.T) {
	db := testDB(t)
	store := NewWalletStore(db, testLogger())

	_, err := store.GetWallet(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWalletStoreDelete(t *testing.T) {
	db := testDB(t)
	store := NewWalletStore(db, testLogger())
	ctx := context.Background()

	require.NoError(t, store.SaveWallet(ctx, models.NewWalletRecord("w2")))
	require.NoError(t, store.DeleteWallet(ctx, "w2"))

	_, err := store.GetWallet(ctx, "w2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWalletStoreSubscribeInitialDelivery(t *testing.T) {
	db := testDB(t)
	store := NewWalletStore(db, testLogger())
	ctx := context.Background()

	require.NoError(t, store.SaveWallet(ctx, models.NewWalletRecord("w3")))

	sub, err := store.Subscribe(ctx, "w3")
	require.NoError(t, err)
	defer sub.Cancel()

	select {
	case got := <-sub.Updates:
		assert.Equal(t, "w3", got.UserID)
		require.Len(t, got.Holdings, 1)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for initial wallet delivery")
	}
}

func TestWalletStoreSubscribeMissingWalletReadsEmpty(t *testing.T) {
	db := testDB(t)
	store := NewWalletStore(db, testLogger())

	sub, err := store.Subscribe(context.Background(), "ghost")
	require.NoError(t, err)
	defer sub.Cancel()

	select {
	case got := <-sub.Updates:
		assert.Equal(t, "ghost", got.UserID)
		assert.Empty(t, got.Holdings)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for initial wallet delivery")
	}
}

func TestWalletStoreSubscribeReceivesWrites(t *testing.T) {
	db := testDB(t)
	store := NewWalletStore(db, testLogger())
	ctx := context.Background()

	require.NoError(t, store.SaveWallet(ctx, models.NewWalletRecord("w4")))

	sub, err := store.Subscribe(ctx, "w4")
	require.NoError(t, err)
	defer sub.Cancel()

	// Drain the initial delivery
	<-sub.Updates

	updated := models.NewWalletRecord("w4")
	updated.Holdings = append(updated.Holdings, models.Holding{ID: "bitcoin", Quantity: 0})
	require.NoError(t, store.SaveWallet(ctx, updated))

	select {
	case got := <-sub.Updates:
		require.Len(t, got.Holdings, 2)
		assert.Equal(t, "bitcoin", got.Holdings[1].ID)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for wallet update")
	}
}

func TestWalletStoreSubscribeIgnoresOtherUsers(t *testing.T) {
	db := testDB(t)
	store := NewWalletStore(db, testLogger())
	ctx := context.Background()

	require.NoError(t, store.SaveWallet(ctx, models.NewWalletRecord("w5")))

	sub, err := store.Subscribe(ctx, "w5")
	require.NoError(t, err)
	defer sub.Cancel()
	<-sub.Updates

	require.NoError(t, store.SaveWallet(ctx, models.NewWalletRecord("other-user")))

	select {
	case got := <-sub.Updates:
		t.Fatalf("unexpected delivery for other user's write: %+v", got)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWalletStoreCancelStopsDelivery(t *testing.T) {
	db := testDB(t)
	store := NewWalletStore(db, testLogger())
	ctx := context.Background()

	require.NoError(t, store.SaveWallet(ctx, models.NewWalletRecord("w6")))

	sub, err := store.Subscribe(ctx, "w6")
	require.NoError(t, err)
	<-sub.Updates

	sub.Cancel()
	sub.Cancel() // idempotent

	// Channel is closed after cancel
	_, open := <-sub.Updates
	assert.False(t, open)

	// Writes after cancel don't panic and don't deliver
	require.NoError(t, store.SaveWallet(ctx, models.NewWalletRecord("w6")))
}
