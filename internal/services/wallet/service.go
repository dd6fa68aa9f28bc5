// Package wallet manages tracked holdings in per-user wallet records.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vortexhq/vortex/internal/common"
	"github.com/vortexhq/vortex/internal/interfaces"
	"github.com/vortexhq/vortex/internal/models"
)

// Compile-time interface check
var _ interfaces.WalletService = (*Service)(nil)

// Service implements WalletService. Mutations are read-modify-write on
// the whole wallet record; concurrent writers resolve last-write-wins.
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
}

// NewService creates a new wallet service
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// GetWallet retrieves the user's wallet. A missing record reads as an
// empty wallet; any other read failure propagates so mutations never
// run against a record that may still exist.
func (s *Service) GetWallet(ctx context.Context, userID string) (*models.WalletRecord, error) {
	w, err := s.storage.WalletStore().GetWallet(ctx, userID)
	if errors.Is(err, interfaces.ErrNotFound) {
		s.logger.Debug().Str("user_id", userID).Msg("Wallet not found, reading as empty")
		return &models.WalletRecord{UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read wallet: %w", err)
	}
	return w, nil
}

// Track adds a zero-quantity holding for the coin. Tracking an already
// tracked coin is a no-op returning the unchanged wallet.
func (s *Service) Track(ctx context.Context, userID, coinID string) (*models.WalletRecord, error) {
	coinID = strings.TrimSpace(coinID)
	if coinID == "" {
		return nil, fmt.Errorf("coin id is required")
	}

	w, err := s.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, idx := w.FindHolding(coinID); idx >= 0 {
		s.logger.Debug().Str("user_id", userID).Str("coin", coinID).Msg("Coin already tracked")
		return w, nil
	}

	w.Holdings = append(w.Holdings, models.Holding{ID: coinID, Quantity: 0})

	if err := s.storage.WalletStore().SaveWallet(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to save wallet: %w", err)
	}

	s.logger.Info().Str("user_id", userID).Str("coin", coinID).Msg("Coin tracked")
	return w, nil
}

// Untrack removes the holding when its quantity is zero. A nonzero
// balance makes this a logged no-op returning the unchanged wallet; an
// untracked coin is likewise a no-op.
func (s *Service) Untrack(ctx context.Context, userID, coinID string) (*models.WalletRecord, error) {
	coinID = strings.TrimSpace(coinID)
	if coinID == "" {
		return nil, fmt.Errorf("coin id is required")
	}

	w, err := s.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	holding, idx := w.FindHolding(coinID)
	if idx < 0 {
		s.logger.Debug().Str("user_id", userID).Str("coin", coinID).Msg("Coin not tracked, nothing to remove")
		return w, nil
	}

	if holding.Quantity != 0 {
		s.logger.Warn().
			Str("user_id", userID).
			Str("coin", coinID).
			Float64("quantity", holding.Quantity).
			Msg("Untrack rejected: holding has a balance")
		return w, nil
	}

	w.Holdings = append(w.Holdings[:idx], w.Holdings[idx+1:]...)

	if err := s.storage.WalletStore().SaveWallet(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to save wallet: %w", err)
	}

	s.logger.Info().Str("user_id", userID).Str("coin", coinID).Msg("Coin untracked")
	return w, nil
}

// Subscribe delivers the current wallet immediately, then on change.
func (s *Service) Subscribe(ctx context.Context, userID string) (*interfaces.WalletSubscription, error) {
	sub, err := s.storage.WalletStore().Subscribe(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to wallet: %w", err)
	}
	return sub, nil
}
