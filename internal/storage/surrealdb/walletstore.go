package surrealdb

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
	"github.com/vortexhq/vortex/internal/common"
	"github.com/vortexhq/vortex/internal/interfaces"
	"github.com/vortexhq/vortex/internal/models"
)

// subscriberBuffer is the per-subscriber channel depth. A subscriber
// that falls this far behind starts losing intermediate snapshots; the
// latest state still arrives with the next write.
const subscriberBuffer = 8

type walletSubscriber struct {
	userID string
	ch     chan *models.WalletRecord
	once   sync.Once
}

// close is safe to call from both Cancel and store shutdown.
func (sub *walletSubscriber) close() {
	sub.once.Do(func() { close(sub.ch) })
}

// WalletStore persists per-user wallet documents and fans out change
// notifications to subscribers. The server is the only writer of the
// wallet table, so broadcasting on our own writes covers every change.
type WalletStore struct {
	db     *surrealdb.DB
	logger *common.Logger

	mu     sync.Mutex
	nextID int
	subs   map[int]*walletSubscriber
	closed bool
}

func NewWalletStore(db *surrealdb.DB, logger *common.Logger) *WalletStore {
	return &WalletStore{
		db:     db,
		logger: logger,
		subs:   make(map[int]*walletSubscriber),
	}
}

func (s *WalletStore) GetWallet(ctx context.Context, userID string) (*models.WalletRecord, error) {
	wallet, err := surrealdb.Select[models.WalletRecord](ctx, s.db, surrealmodels.NewRecordID("wallet", userID))
	if err != nil {
		return nil, fmt.Errorf("failed to select wallet: %w", err)
	}
	if wallet == nil || wallet.UserID == "" {
		return nil, ErrNotFound
	}
	return wallet, nil
}

func (s *WalletStore) SaveWallet(ctx context.Context, wallet *models.WalletRecord) error {
	sql := "UPSERT type::record('wallet', $id) CONTENT $wallet"
	vars := map[string]any{"id": wallet.UserID, "wallet": wallet}

	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.WalletRecord](ctx, s.db, sql, vars)
		if err == nil {
			s.broadcast(wallet)
			return nil
		}
		if attempt == 3 {
			return fmt.Errorf("failed to save wallet after retries: %w", err)
		}
	}
	return nil
}

func (s *WalletStore) DeleteWallet(ctx context.Context, userID string) error {
	_, err := surrealdb.Delete[models.WalletRecord](ctx, s.db, surrealmodels.NewRecordID("wallet", userID))
	if err != nil {
		return fmt.Errorf("failed to delete wallet: %w", err)
	}
	return nil
}

// Subscribe registers a live feed for one user's wallet. The current
// record is delivered immediately; a missing record is delivered as an
// empty wallet. Cancel is idempotent and closes the update channel.
func (s *WalletStore) Subscribe(ctx context.Context, userID string) (*interfaces.WalletSubscription, error) {
	current, err := s.GetWallet(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		current = &models.WalletRecord{UserID: userID}
	} else if err != nil {
		return nil, fmt.Errorf("failed to read wallet for subscription: %w", err)
	}

	sub := &walletSubscriber{
		userID: userID,
		ch:     make(chan *models.WalletRecord, subscriberBuffer),
	}

	// Queue the initial delivery before registering so no concurrent
	// write can land ahead of it.
	sub.ch <- current.Clone()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, fmt.Errorf("wallet store is closed")
	}
	id := s.nextID
	s.nextID++
	s.subs[id] = sub
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
		sub.close()
	}

	return &interfaces.WalletSubscription{
		Updates: sub.ch,
		Cancel:  cancel,
	}, nil
}

// broadcast fans a saved wallet out to that user's subscribers. Slow
// subscribers lose the update rather than blocking the write path.
func (s *WalletStore) broadcast(wallet *models.WalletRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sub := range s.subs {
		if sub.userID != wallet.UserID {
			continue
		}
		select {
		case sub.ch <- wallet.Clone():
		default:
			s.logger.Warn().
				Str("user_id", wallet.UserID).
				Msg("Wallet subscriber buffer full, dropping update")
		}
	}
}

// closeSubscriptions tears down all live feeds; called on manager close.
func (s *WalletStore) closeSubscriptions() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	for id, sub := range s.subs {
		delete(s.subs, id)
		sub.close()
	}
}

// Compile-time check
var _ interfaces.WalletStore = (*WalletStore)(nil)
