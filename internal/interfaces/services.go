// Package interfaces defines service contracts for Vortex
package interfaces

import (
	"context"

	"github.com/vortexhq/vortex/internal/models"
)

// SessionService manages identity lifecycle: registration with
// first-time provisioning, credential login, and sign-out.
type SessionService interface {
	// Register creates an account and provisions its profile and wallet
	Register(ctx context.Context, email, password string) (*models.Account, error)

	// Login verifies credentials and returns the account
	Login(ctx context.Context, email, password string) (*models.Account, error)

	// Logout signs the identity out, tearing down its live subscriptions
	Logout(ctx context.Context, userID string) error

	// Watch returns the identity-change stream with a cancel func
	Watch() (<-chan models.SessionEvent, func())
}

// WalletService manages tracked holdings for a user's wallet.
type WalletService interface {
	// GetWallet returns the user's wallet; missing records read as empty
	GetWallet(ctx context.Context, userID string) (*models.WalletRecord, error)

	// Track adds a zero-quantity holding for the coin if not present
	Track(ctx context.Context, userID, coinID string) (*models.WalletRecord, error)

	// Untrack removes the holding when its quantity is zero. A nonzero
	// balance makes this a logged no-op, not an error.
	Untrack(ctx context.Context, userID, coinID string) (*models.WalletRecord, error)

	// Subscribe delivers the current wallet immediately, then on change
	Subscribe(ctx context.Context, userID string) (*WalletSubscription, error)
}

// MarketService exposes the polled market feed.
type MarketService interface {
	// Start begins polling: one immediate fetch, then fixed-interval ticks
	Start(ctx context.Context)

	// Stop halts the poll timer. In-flight requests are left to finish.
	Stop()

	// Snapshot returns the current coin list (native coin first) and its
	// refresh timestamp
	Snapshot() *models.MarketSnapshot

	// CoinDetail fetches extended data for one coin on demand
	CoinDetail(ctx context.Context, coinID string) (*models.CoinDetail, error)
}

// PortfolioService values wallets against the market snapshot.
type PortfolioService interface {
	// Summary prices the user's holdings against the current snapshot
	Summary(ctx context.Context, userID string) (*models.PortfolioSummary, error)
}
