// Package interfaces defines service contracts for Vortex
package interfaces

import (
	"context"
	"errors"

	"github.com/vortexhq/vortex/internal/models"
)

// ErrNotFound is returned by stores when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// StorageManager coordinates all storage backends
type StorageManager interface {
	AccountStore() AccountStore
	ProfileStore() ProfileStore
	WalletStore() WalletStore

	// Lifecycle
	Close() error
}

// AccountStore manages credentialed identities.
type AccountStore interface {
	GetAccount(ctx context.Context, userID string) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	SaveAccount(ctx context.Context, account *models.Account) error
	DeleteAccount(ctx context.Context, userID string) error
	ListAccounts(ctx context.Context) ([]*models.Account, error)
}

// ProfileStore manages the public profile documents provisioned at
// registration.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	SaveProfile(ctx context.Context, profile *models.UserProfile) error
	DeleteProfile(ctx context.Context, userID string) error
}

// WalletStore manages per-user wallet documents. Subscribe delivers the
// current record immediately, then a fresh full snapshot on every change.
type WalletStore interface {
	GetWallet(ctx context.Context, userID string) (*models.WalletRecord, error)
	SaveWallet(ctx context.Context, wallet *models.WalletRecord) error
	DeleteWallet(ctx context.Context, userID string) error
	Subscribe(ctx context.Context, userID string) (*WalletSubscription, error)
}

// WalletSubscription is a live feed of one user's wallet record. Cancel
// is idempotent and stops delivery; it does not interrupt in-flight
// writes. Updates is closed after Cancel.
type WalletSubscription struct {
	Updates <-chan *models.WalletRecord
	Cancel  func()
}

// SnapshotCache persists the last fetched market snapshot locally so a
// restart can serve prices before the first poll completes.
type SnapshotCache interface {
	GetSnapshot(ctx context.Context) (*models.MarketSnapshot, error)
	SaveSnapshot(ctx context.Context, snapshot *models.MarketSnapshot) error
	Close() error
}
