// Package marketdb caches the last fetched market snapshot in a local
// BadgerHold store so a restart can serve prices before the first poll
// completes.
package marketdb

import (
	"context"
	"fmt"
	"os"

	"github.com/timshannon/badgerhold/v4"
	"github.com/vortexhq/vortex/internal/common"
	"github.com/vortexhq/vortex/internal/interfaces"
	"github.com/vortexhq/vortex/internal/models"
)

// snapshotKey is the single record key; the cache only ever holds the
// latest snapshot.
const snapshotKey = "market_snapshot"

// Store implements interfaces.SnapshotCache using BadgerHold.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// NewStore opens the snapshot cache at the given path.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache path %s: %w", path, err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot cache at %s: %w", path, err)
	}
	logger.Info().Str("path", path).Msg("Snapshot cache opened")
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) GetSnapshot(_ context.Context) (*models.MarketSnapshot, error) {
	var snap models.MarketSnapshot
	if err := s.db.Get(snapshotKey, &snap); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("no cached snapshot")
		}
		return nil, fmt.Errorf("failed to read cached snapshot: %w", err)
	}
	return &snap, nil
}

func (s *Store) SaveSnapshot(_ context.Context, snapshot *models.MarketSnapshot) error {
	if err := s.db.Upsert(snapshotKey, snapshot); err != nil {
		return fmt.Errorf("failed to cache snapshot: %w", err)
	}
	return nil
}

// Close shuts down the BadgerHold database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Compile-time check
var _ interfaces.SnapshotCache = (*Store)(nil)
